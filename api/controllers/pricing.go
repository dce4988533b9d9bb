package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/detailpro/detailpro-backend/api/responses"
	"github.com/detailpro/detailpro-backend/api/validators"
	"github.com/detailpro/detailpro-backend/internal/catalog"
	"github.com/detailpro/detailpro-backend/pkg/enums"
	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
	"github.com/detailpro/detailpro-backend/pkg/logger"
	"github.com/detailpro/detailpro-backend/pkg/types"
)

type pricingCategoryRequest struct {
	Items json.RawMessage `json:"items" validate:"required"`
}

type pricingCatalogRequest struct {
	VehicleSizes types.VehicleSizes `json:"vehicle_sizes" validate:"required"`
	Conditions   types.Conditions   `json:"conditions" validate:"required"`
	Services     types.Services     `json:"services" validate:"required"`
	Addons       types.Addons       `json:"addons" validate:"required"`
}

// PricingGet returns the caller's live pricing catalog.
func PricingGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := svc.Get(r.Context(), actor.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, c)
	}
}

// PricingReplace swaps all four categories at once.
func PricingReplace(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body pricingCatalogRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := svc.SaveAll(r.Context(), actor.UserID, types.PricingCatalog{
			VehicleSizes: body.VehicleSizes,
			Conditions:   body.Conditions,
			Services:     body.Services,
			Addons:       body.Addons,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, c)
	}
}

// PricingReplaceCategory replaces one category list wholesale.
func PricingReplaceCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseCatalogCategory(strings.TrimSpace(chi.URLParam(r, "category")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown pricing category").
				WithDetails(map[string]any{"field": "category"}))
			return
		}

		var body pricingCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := catalog.DecodeItems(category, body.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := svc.SaveCategory(r.Context(), actor.UserID, category, items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, c)
	}
}
