package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/detailpro/detailpro-backend/api/responses"
	"github.com/detailpro/detailpro-backend/api/validators"
	"github.com/detailpro/detailpro-backend/internal/quotes"
	"github.com/detailpro/detailpro-backend/pkg/enums"
	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
	"github.com/detailpro/detailpro-backend/pkg/logger"
	"github.com/detailpro/detailpro-backend/pkg/pagination"
	"github.com/detailpro/detailpro-backend/pkg/types"
)

type createQuoteRequest struct {
	CustomerName  *string    `json:"customer_name,omitempty" validate:"omitempty,max=120"`
	CustomerEmail *string    `json:"customer_email,omitempty" validate:"omitempty,max=254"`
	CustomerPhone *string    `json:"customer_phone,omitempty" validate:"omitempty,max=40"`
	VehicleYear   *string    `json:"vehicle_year,omitempty" validate:"omitempty,max=8"`
	VehicleMake   *string    `json:"vehicle_make,omitempty" validate:"omitempty,max=60"`
	VehicleModel  *string    `json:"vehicle_model,omitempty" validate:"omitempty,max=60"`
	VehicleSize   string     `json:"vehicle_size" validate:"required,max=64"`
	Condition     string     `json:"condition" validate:"required,max=64"`
	Services      []string   `json:"services" validate:"max=50"`
	Addons        []string   `json:"addons" validate:"max=50"`
	ValidUntil    *time.Time `json:"valid_until,omitempty"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

func (r createQuoteRequest) toInput(actor quotes.Actor) quotes.CreateQuoteInput {
	return quotes.CreateQuoteInput{
		Actor:         actor,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		VehicleYear:   r.VehicleYear,
		VehicleMake:   r.VehicleMake,
		VehicleModel:  r.VehicleModel,
		VehicleSize:   strings.TrimSpace(r.VehicleSize),
		Condition:     strings.TrimSpace(r.Condition),
		Services:      r.Services,
		Addons:        r.Addons,
		ValidUntil:    r.ValidUntil,
		Notes:         r.Notes,
	}
}

type updateQuoteRequest struct {
	CustomerName  *string            `json:"customer_name,omitempty" validate:"omitempty,max=120"`
	CustomerEmail *string            `json:"customer_email,omitempty" validate:"omitempty,max=254"`
	CustomerPhone *string            `json:"customer_phone,omitempty" validate:"omitempty,max=40"`
	VehicleYear   *string            `json:"vehicle_year,omitempty" validate:"omitempty,max=8"`
	VehicleMake   *string            `json:"vehicle_make,omitempty" validate:"omitempty,max=60"`
	VehicleModel  *string            `json:"vehicle_model,omitempty" validate:"omitempty,max=60"`
	Notes         *string            `json:"notes,omitempty" validate:"omitempty,max=2000"`
	ValidUntil    types.NullableTime `json:"valid_until"`
}

func (r updateQuoteRequest) toInput() quotes.UpdateQuoteInput {
	return quotes.UpdateQuoteInput{
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		VehicleYear:     r.VehicleYear,
		VehicleMake:     r.VehicleMake,
		VehicleModel:    r.VehicleModel,
		Notes:           r.Notes,
		ValidUntil:      r.ValidUntil.Value,
		ClearValidUntil: r.ValidUntil.Cleared(),
	}
}

type sendQuoteRequest struct {
	Email string `json:"email" validate:"required,max=254"`
}

type markStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// QuoteCreate prices and stores a new draft quote for the caller.
func QuoteCreate(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createQuoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Create(r.Context(), body.toInput(actor))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, quote)
	}
}

// QuoteList pages through the caller's quotes, newest first.
func QuoteList(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), actor, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func QuoteGet(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := uuidParam(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Get(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// QuoteUpdate patches customer, vehicle, notes and validity fields. An
// explicit null valid_until clears it.
func QuoteUpdate(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := uuidParam(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateQuoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Update(r.Context(), actor, id, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

func QuoteDelete(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := uuidParam(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "deleted": true})
	}
}

// QuoteSend emails the share link to the customer and marks the quote sent.
func QuoteSend(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := uuidParam(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body sendQuoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Send(r.Context(), id, quotes.SendQuoteInput{Actor: actor, Email: strings.TrimSpace(body.Email)})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

func QuoteMarkStatus(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return markStatus(svc, logg)
}

func markStatus(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := uuidParam(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body markStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseQuoteStatus(strings.TrimSpace(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").
				WithDetails(map[string]any{"field": "status"}))
			return
		}

		quote, err := svc.MarkStatus(r.Context(), actor, id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.QueryInt(r, "limit", validators.IntRange{Default: pagination.DefaultLimit, Min: 1, Max: pagination.MaxLimit})
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}
