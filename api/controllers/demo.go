package controllers

import (
	"net/http"
	"strings"

	"github.com/detailpro/detailpro-backend/api/responses"
	"github.com/detailpro/detailpro-backend/api/validators"
	"github.com/detailpro/detailpro-backend/internal/catalog"
	"github.com/detailpro/detailpro-backend/internal/pricing"
	"github.com/detailpro/detailpro-backend/pkg/logger"
)

type demoQuoteRequest struct {
	VehicleSize string   `json:"vehicle_size" validate:"required,max=64"`
	Condition   string   `json:"condition" validate:"required,max=64"`
	Services    []string `json:"services" validate:"max=50"`
	Addons      []string `json:"addons" validate:"max=50"`
}

// DemoQuote prices a selection against the built-in catalog. Nothing is stored.
func DemoQuote(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body demoQuoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		breakdown, err := pricing.Calculate(catalog.DefaultCatalog(), pricing.Selection{
			VehicleSize: strings.TrimSpace(body.VehicleSize),
			Condition:   strings.TrimSpace(body.Condition),
			Services:    body.Services,
			Addons:      body.Addons,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, breakdown.View())
	}
}
