package businesses

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/detailpro/detailpro-backend/pkg/db/models"
)

// Repository handles business persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to business operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUserID loads the business owned by userID.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Business, error) {
	var business models.Business
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// FindByID loads a business by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	var business models.Business
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// CreateWithTx persists a new business inside tx.
func (r *Repository) CreateWithTx(tx *gorm.DB, business *models.Business) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if business == nil {
		return fmt.Errorf("business is required")
	}
	return tx.Create(business).Error
}

// Update saves the provided business.
func (r *Repository) Update(ctx context.Context, business *models.Business) error {
	if business == nil {
		return fmt.Errorf("business is required")
	}
	return r.db.WithContext(ctx).Save(business).Error
}

// DeleteWithTx removes a business with its catalog and quotes and reports how
// many quotes went with it. Postgres would cascade these through the foreign
// keys; deleting them here keeps sqlite, which runs without them, in step.
func (r *Repository) DeleteWithTx(tx *gorm.DB, businessID uuid.UUID) (int64, error) {
	if tx == nil {
		return 0, gorm.ErrInvalidTransaction
	}
	quotes := tx.Where("business_id = ?", businessID).Delete(&models.Quote{})
	if quotes.Error != nil {
		return 0, quotes.Error
	}
	if err := tx.Where("business_id = ?", businessID).Delete(&models.PricingCatalog{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id = ?", businessID).Delete(&models.Business{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return quotes.RowsAffected, nil
}
