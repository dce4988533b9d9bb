package controllers

import (
	"net/http"

	"github.com/detailpro/detailpro-backend/api/middleware"
	"github.com/detailpro/detailpro-backend/api/responses"
	"github.com/detailpro/detailpro-backend/api/validators"
	"github.com/detailpro/detailpro-backend/internal/businesses"
	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
	"github.com/detailpro/detailpro-backend/pkg/logger"
)

type businessProfileRequest struct {
	Name    string  `json:"name" validate:"required,max=120"`
	Email   *string `json:"email,omitempty" validate:"omitempty,max=254"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Website *string `json:"website,omitempty" validate:"omitempty,max=254"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=300"`
}

func (r businessProfileRequest) toInput() businesses.ProfileInput {
	return businesses.ProfileInput{
		Name:    validators.TrimText(r.Name, 120),
		Email:   r.Email,
		Phone:   r.Phone,
		Website: r.Website,
		Address: r.Address,
	}
}

// BusinessCreate registers the caller's business and seeds its pricing catalog.
func BusinessCreate(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body businessProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Contact email defaults to the signed-in owner's.
		if body.Email == nil {
			if email := middleware.EmailFromContext(r.Context()); email != "" {
				body.Email = &email
			}
		}

		business, err := svc.Create(r.Context(), actor.UserID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			logg.Info(logg.WithBusinessID(r.Context(), business.ID.String()), "business created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, business)
	}
}

func BusinessGet(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
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

		business, err := svc.Get(r.Context(), actor.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, business)
	}
}

func BusinessUpdate(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body businessProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		business, err := svc.Update(r.Context(), actor.UserID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, business)
	}
}
