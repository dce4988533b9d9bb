package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/detailpro/detailpro-backend/pkg/enums"
	"github.com/detailpro/detailpro-backend/pkg/types"
)

// Quote is a priced offer to one customer, frozen against the catalog that
// existed when it was created.
type Quote struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShareID         string               `gorm:"column:share_id;not null;uniqueIndex"`
	UserID          uuid.UUID            `gorm:"column:user_id;type:uuid;not null"`
	BusinessID      uuid.UUID            `gorm:"column:business_id;type:uuid;not null"`
	CustomerName    *string              `gorm:"column:customer_name"`
	CustomerEmail   *string              `gorm:"column:customer_email"`
	CustomerPhone   *string              `gorm:"column:customer_phone"`
	VehicleYear     *string              `gorm:"column:vehicle_year"`
	VehicleMake     *string              `gorm:"column:vehicle_make"`
	VehicleModel    *string              `gorm:"column:vehicle_model"`
	VehicleSize     string               `gorm:"column:vehicle_size;not null"`
	Condition       string               `gorm:"column:condition;not null"`
	Services        types.IDList         `gorm:"column:services;type:jsonb;not null"`
	Addons          types.IDList         `gorm:"column:addons;type:jsonb;not null"`
	PricingSnapshot types.PricingCatalog `gorm:"column:pricing_snapshot;type:jsonb;not null"`
	Total           decimal.Decimal      `gorm:"column:total;type:numeric(12,2);not null"`
	Status          enums.QuoteStatus    `gorm:"column:status;not null;default:'DRAFT'"`
	ViewCount       int                  `gorm:"column:view_count;not null;default:0"`
	ValidUntil      *time.Time           `gorm:"column:valid_until"`
	Notes           *string              `gorm:"column:notes"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (Quote) TableName() string { return "quotes" }

// IsExpiredAt reports whether validUntil has passed at now.
func (q Quote) IsExpiredAt(now time.Time) bool {
	return q.ValidUntil != nil && now.After(*q.ValidUntil)
}
