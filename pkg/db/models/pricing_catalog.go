package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/detailpro/detailpro-backend/pkg/types"
)

// PricingCatalog stores a business's live rate table, one JSONB column per category.
type PricingCatalog struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID   uuid.UUID          `gorm:"column:business_id;type:uuid;not null;uniqueIndex"`
	VehicleSizes types.VehicleSizes `gorm:"column:vehicle_sizes;type:jsonb;not null"`
	Conditions   types.Conditions   `gorm:"column:conditions;type:jsonb;not null"`
	Services     types.Services     `gorm:"column:services;type:jsonb;not null"`
	Addons       types.Addons       `gorm:"column:addons;type:jsonb;not null"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (PricingCatalog) TableName() string { return "pricing_catalogs" }

// Catalog returns the categories as a single value.
func (p PricingCatalog) Catalog() types.PricingCatalog {
	return types.PricingCatalog{
		VehicleSizes: p.VehicleSizes,
		Conditions:   p.Conditions,
		Services:     p.Services,
		Addons:       p.Addons,
	}
}
