package controllers

import (
	"net/http"

	"github.com/detailpro/detailpro-backend/api/responses"
	"github.com/detailpro/detailpro-backend/internal/businesses"
	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
	"github.com/detailpro/detailpro-backend/pkg/logger"
)

// AdminUserDelete removes a user's business, catalog and quotes.
func AdminUserDelete(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "business service unavailable"))
			return
		}
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := uuidParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deleted, err := svc.DeleteForUser(r.Context(), actor.UserID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			ctx := logg.WithBusinessID(logg.WithUserID(r.Context(), actor.UserID.String()), deleted.BusinessID.String())
			logg.Warn(logg.WithField(ctx, "quotes_deleted", deleted.QuotesDeleted), "admin deleted user data")
		}
		responses.WriteSuccess(w, deleted)
	}
}
