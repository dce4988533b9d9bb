package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/detailpro/detailpro-backend/api/middleware"
	"github.com/detailpro/detailpro-backend/internal/quotes"
	"github.com/detailpro/detailpro-backend/pkg/enums"
	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
)

// actorFromRequest resolves the authenticated caller seeded by middleware.Auth.
func actorFromRequest(r *http.Request) (quotes.Actor, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return quotes.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return quotes.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	role, err := enums.ParseMemberRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return quotes.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid role")
	}
	return quotes.Actor{UserID: userID, Role: role}, nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name).
			WithDetails(map[string]any{"field": name})
	}
	return id, nil
}
