package quotes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/detailpro/detailpro-backend/pkg/db/models"
	"github.com/detailpro/detailpro-backend/pkg/enums"
	"github.com/detailpro/detailpro-backend/pkg/pagination"
)

// Repository persists quotes. Status writes are conditional on the status the
// caller last observed; a false result means another writer got there first.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, q *models.Quote) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	FindOwned(ctx context.Context, userID, id uuid.UUID) (*models.Quote, error)
	FindByShareID(ctx context.Context, shareID string) (*models.Quote, error)
	List(ctx context.Context, userID *uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Quote, error)
	UpdateFields(ctx context.Context, id uuid.UUID, expected enums.QuoteStatus, fields map[string]any) (bool, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.QuoteStatus, fields map[string]any) (bool, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	StatusTotals(ctx context.Context) ([]StatusTotal, error)
	CountBusinesses(ctx context.Context) (int64, error)
}

// StatusTotal is the quote count and summed total for one status.
type StatusTotal struct {
	Status enums.QuoteStatus
	Count  int64
	Value  decimal.Decimal
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to quote persistence.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, q *models.Quote) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var q models.Quote
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// FindOwned loads a quote only when userID owns it.
func (r *repository) FindOwned(ctx context.Context, userID, id uuid.UUID) (*models.Quote, error) {
	var q models.Quote
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *repository) FindByShareID(ctx context.Context, shareID string) (*models.Quote, error) {
	var q models.Quote
	if err := r.db.WithContext(ctx).Where("share_id = ?", shareID).First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// List pages quotes newest first. A nil userID lists every tenant's quotes.
func (r *repository) List(ctx context.Context, userID *uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Quote, error) {
	query := r.db.WithContext(ctx).Model(&models.Quote{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	var rows []models.Quote
	if err := query.Scopes(pagination.Scope(cursor, limit)).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, expected enums.QuoteStatus, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return true, nil
	}
	return r.conditionalUpdate(ctx, id, expected, fields)
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.QuoteStatus, fields map[string]any) (bool, error) {
	updates := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["status"] = to
	return r.conditionalUpdate(ctx, id, from, updates)
}

func (r *repository) conditionalUpdate(ctx context.Context, id uuid.UUID, expected enums.QuoteStatus, updates map[string]any) (bool, error) {
	updates["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// IncrementViewCount bumps view_count in the database, never from a value read earlier.
func (r *repository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Quote{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// StatusTotals rolls every quote up by status in one grouped query.
func (r *repository) StatusTotals(ctx context.Context) ([]StatusTotal, error) {
	var rows []StatusTotal
	err := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS value").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CountBusinesses(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Business{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
