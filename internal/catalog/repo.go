package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/detailpro/detailpro-backend/pkg/db/models"
	"github.com/detailpro/detailpro-backend/pkg/types"
)

// Repository handles pricing catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to catalog operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindBusinessID resolves the business owned by userID.
func (r *Repository) FindBusinessID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var business models.Business
	if err := r.db.WithContext(ctx).
		Select("id").
		Where("user_id = ?", userID).
		First(&business).Error; err != nil {
		return uuid.Nil, err
	}
	return business.ID, nil
}

// FindByBusinessID loads the catalog row for a business.
func (r *Repository) FindByBusinessID(ctx context.Context, businessID uuid.UUID) (*models.PricingCatalog, error) {
	var row models.PricingCatalog
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateWithTx inserts the catalog row for a business inside tx.
func (r *Repository) CreateWithTx(tx *gorm.DB, businessID uuid.UUID, c types.PricingCatalog) (*models.PricingCatalog, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	row := &models.PricingCatalog{
		ID:           uuid.New(),
		BusinessID:   businessID,
		VehicleSizes: c.VehicleSizes,
		Conditions:   c.Conditions,
		Services:     c.Services,
		Addons:       c.Addons,
	}
	if err := tx.Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Create inserts the catalog row for a business.
func (r *Repository) Create(ctx context.Context, businessID uuid.UUID, c types.PricingCatalog) (*models.PricingCatalog, error) {
	return r.CreateWithTx(r.db.WithContext(ctx), businessID, c)
}

// UpdateColumns writes only the named category columns.
func (r *Repository) UpdateColumns(ctx context.Context, id uuid.UUID, columns map[string]any) error {
	if len(columns) == 0 {
		return fmt.Errorf("no columns to update")
	}
	res := r.db.WithContext(ctx).
		Model(&models.PricingCatalog{}).
		Where("id = ?", id).
		Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
