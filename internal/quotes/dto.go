package quotes

import (
	"time"

	"github.com/google/uuid"

	"github.com/detailpro/detailpro-backend/internal/pricing"
	"github.com/detailpro/detailpro-backend/pkg/db/models"
	"github.com/detailpro/detailpro-backend/pkg/enums"
	"github.com/detailpro/detailpro-backend/pkg/pagination"
	"github.com/detailpro/detailpro-backend/pkg/types"
)

// Actor is the authenticated caller behind an owner or admin operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.MemberRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == enums.MemberRoleAdmin
}

// CreateQuoteInput captures a new quote. Pricing is always computed server side.
type CreateQuoteInput struct {
	Actor         Actor
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string
	VehicleYear   *string
	VehicleMake   *string
	VehicleModel  *string
	VehicleSize   string
	Condition     string
	Services      []string
	Addons        []string
	ValidUntil    *time.Time
	Notes         *string
}

// UpdateQuoteInput patches the non-pricing fields of a quote. Nil leaves a
// field alone; a pointer to "" clears it.
type UpdateQuoteInput struct {
	CustomerName    *string
	CustomerEmail   *string
	CustomerPhone   *string
	VehicleYear     *string
	VehicleMake     *string
	VehicleModel    *string
	Notes           *string
	ValidUntil      *time.Time
	ClearValidUntil bool
}

// SendQuoteInput carries the recipient for a send or re-send.
type SendQuoteInput struct {
	Actor Actor
	Email string
}

// QuoteDTO is the owner and admin view of a quote.
type QuoteDTO struct {
	ID              uuid.UUID             `json:"id"`
	ShareID         string                `json:"share_id"`
	PublicURL       string                `json:"public_url"`
	UserID          uuid.UUID             `json:"user_id"`
	BusinessID      uuid.UUID             `json:"business_id"`
	CustomerName    *string               `json:"customer_name"`
	CustomerEmail   *string               `json:"customer_email"`
	CustomerPhone   *string               `json:"customer_phone"`
	VehicleYear     *string               `json:"vehicle_year"`
	VehicleMake     *string               `json:"vehicle_make"`
	VehicleModel    *string               `json:"vehicle_model"`
	VehicleSize     string                `json:"vehicle_size"`
	Condition       string                `json:"condition"`
	Services        []string              `json:"services"`
	Addons          []string              `json:"addons"`
	PricingSnapshot types.PricingCatalog  `json:"pricing_snapshot"`
	Total           float64               `json:"total"`
	Status          enums.QuoteStatus     `json:"status"`
	ViewCount       int                   `json:"view_count"`
	ValidUntil      *time.Time            `json:"valid_until"`
	Notes           *string               `json:"notes"`
	Breakdown       pricing.BreakdownView `json:"breakdown"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// QuoteSummaryDTO is one row of a quote list.
type QuoteSummaryDTO struct {
	ID           uuid.UUID         `json:"id"`
	ShareID      string            `json:"share_id"`
	UserID       uuid.UUID         `json:"user_id"`
	BusinessID   uuid.UUID         `json:"business_id"`
	CustomerName *string           `json:"customer_name"`
	VehicleSize  string            `json:"vehicle_size"`
	Total        float64           `json:"total"`
	Status       enums.QuoteStatus `json:"status"`
	ViewCount    int               `json:"view_count"`
	ValidUntil   *time.Time        `json:"valid_until"`
	CreatedAt    time.Time         `json:"created_at"`
}

// QuoteList is a cursor page of quotes, newest first.
type QuoteList = types.PageEnvelope[QuoteSummaryDTO]

// AdminStatsDTO is the platform overview shown to admins.
type AdminStatsDTO struct {
	Businesses     int64                       `json:"businesses"`
	Quotes         int64                       `json:"quotes"`
	ByStatus       map[enums.QuoteStatus]int64 `json:"by_status"`
	TotalValue     float64                     `json:"total_value"`
	AcceptanceRate int                         `json:"acceptance_rate"`
	Recent         []QuoteSummaryDTO           `json:"recent"`
}

// PublicBusinessDTO is what a customer sees of the business.
type PublicBusinessDTO struct {
	Name    string  `json:"name"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Website *string `json:"website,omitempty"`
	Address *string `json:"address,omitempty"`
}

// PublicQuoteDTO is the customer view behind a share link.
type PublicQuoteDTO struct {
	ShareID      string                `json:"share_id"`
	Business     PublicBusinessDTO     `json:"business"`
	CustomerName *string               `json:"customer_name"`
	VehicleYear  *string               `json:"vehicle_year"`
	VehicleMake  *string               `json:"vehicle_make"`
	VehicleModel *string               `json:"vehicle_model"`
	VehicleSize  string                `json:"vehicle_size"`
	VehicleLabel string                `json:"vehicle_label"`
	Condition    string                `json:"condition"`
	Total        float64               `json:"total"`
	Status       enums.QuoteStatus     `json:"status"`
	ViewCount    int                   `json:"view_count"`
	ValidUntil   *time.Time            `json:"valid_until"`
	Notes        *string               `json:"notes"`
	Breakdown    pricing.BreakdownView `json:"breakdown"`
	CreatedAt    time.Time             `json:"created_at"`
}

// RespondResult reports the status after a customer response.
type RespondResult struct {
	ShareID string            `json:"share_id"`
	Status  enums.QuoteStatus `json:"status"`
}

// breakdownOf re-prices a quote from its own snapshot, never the live catalog.
func breakdownOf(q *models.Quote) pricing.BreakdownView {
	b, err := pricing.Calculate(q.PricingSnapshot, pricing.Selection{
		VehicleSize: q.VehicleSize,
		Condition:   q.Condition,
		Services:    q.Services,
		Addons:      q.Addons,
	})
	if err != nil {
		return pricing.BreakdownView{Services: []pricing.LineItemView{}, Addons: []pricing.LineItemView{}}
	}
	return b.View()
}

func toQuoteDTO(q *models.Quote, publicURL string) *QuoteDTO {
	return &QuoteDTO{
		ID:              q.ID,
		ShareID:         q.ShareID,
		PublicURL:       publicURL,
		UserID:          q.UserID,
		BusinessID:      q.BusinessID,
		CustomerName:    q.CustomerName,
		CustomerEmail:   q.CustomerEmail,
		CustomerPhone:   q.CustomerPhone,
		VehicleYear:     q.VehicleYear,
		VehicleMake:     q.VehicleMake,
		VehicleModel:    q.VehicleModel,
		VehicleSize:     q.VehicleSize,
		Condition:       q.Condition,
		Services:        nonNil(q.Services),
		Addons:          nonNil(q.Addons),
		PricingSnapshot: q.PricingSnapshot,
		Total:           q.Total.InexactFloat64(),
		Status:          q.Status,
		ViewCount:       q.ViewCount,
		ValidUntil:      q.ValidUntil,
		Notes:           q.Notes,
		Breakdown:       breakdownOf(q),
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}

func toSummaryDTO(q models.Quote) QuoteSummaryDTO {
	return QuoteSummaryDTO{
		ID:           q.ID,
		ShareID:      q.ShareID,
		UserID:       q.UserID,
		BusinessID:   q.BusinessID,
		CustomerName: q.CustomerName,
		VehicleSize:  q.VehicleSize,
		Total:        q.Total.InexactFloat64(),
		Status:       q.Status,
		ViewCount:    q.ViewCount,
		ValidUntil:   q.ValidUntil,
		CreatedAt:    q.CreatedAt,
	}
}

func toPublicDTO(q *models.Quote, business *models.Business, fallbackName string) *PublicQuoteDTO {
	biz := PublicBusinessDTO{Name: fallbackName}
	if business != nil {
		biz = PublicBusinessDTO{
			Name:    business.Name,
			Email:   business.Email,
			Phone:   business.Phone,
			Website: business.Website,
			Address: business.Address,
		}
	}
	label := q.VehicleSize
	if size, ok := q.PricingSnapshot.VehicleSize(q.VehicleSize); ok {
		label = size.Label
	}
	return &PublicQuoteDTO{
		ShareID:      q.ShareID,
		Business:     biz,
		CustomerName: q.CustomerName,
		VehicleYear:  q.VehicleYear,
		VehicleMake:  q.VehicleMake,
		VehicleModel: q.VehicleModel,
		VehicleSize:  q.VehicleSize,
		VehicleLabel: label,
		Condition:    q.Condition,
		Total:        q.Total.InexactFloat64(),
		Status:       q.Status,
		ViewCount:    q.ViewCount,
		ValidUntil:   q.ValidUntil,
		Notes:        q.Notes,
		Breakdown:    breakdownOf(q),
		CreatedAt:    q.CreatedAt,
	}
}

func summaryCursor(q models.Quote) pagination.Cursor {
	return pagination.Cursor{CreatedAt: q.CreatedAt, ID: q.ID}
}

func nonNil(ids types.IDList) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
