package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/detailpro/detailpro-backend/pkg/db/models"
	"github.com/detailpro/detailpro-backend/pkg/enums"
	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
	"github.com/detailpro/detailpro-backend/pkg/types"
)

type catalogRepository interface {
	FindBusinessID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	FindByBusinessID(ctx context.Context, businessID uuid.UUID) (*models.PricingCatalog, error)
	Create(ctx context.Context, businessID uuid.UUID, c types.PricingCatalog) (*models.PricingCatalog, error)
	UpdateColumns(ctx context.Context, id uuid.UUID, columns map[string]any) error
}

// Service exposes the owner's view of their pricing catalog.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (types.PricingCatalog, error)
	SaveCategory(ctx context.Context, userID uuid.UUID, category enums.CatalogCategory, items any) (types.PricingCatalog, error)
	SaveAll(ctx context.Context, userID uuid.UUID, c types.PricingCatalog) (types.PricingCatalog, error)
}

type service struct {
	repo catalogRepository
}

// NewService builds a catalog service with the provided repository.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (types.PricingCatalog, error) {
	row, err := s.load(ctx, userID)
	if err != nil {
		return types.PricingCatalog{}, err
	}
	return row.Catalog().Clone(), nil
}

func (s *service) SaveCategory(ctx context.Context, userID uuid.UUID, category enums.CatalogCategory, items any) (types.PricingCatalog, error) {
	row, err := s.load(ctx, userID)
	if err != nil {
		return types.PricingCatalog{}, err
	}

	updated, err := ReplaceCategory(row.Catalog(), category, items)
	if err != nil {
		return types.PricingCatalog{}, err
	}

	column := Column(category)
	if err := s.repo.UpdateColumns(ctx, row.ID, map[string]any{column: categoryValue(updated, category)}); err != nil {
		return types.PricingCatalog{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save pricing "+column)
	}
	return updated, nil
}

func (s *service) SaveAll(ctx context.Context, userID uuid.UUID, c types.PricingCatalog) (types.PricingCatalog, error) {
	if err := Validate(c); err != nil {
		return types.PricingCatalog{}, err
	}
	row, err := s.load(ctx, userID)
	if err != nil {
		return types.PricingCatalog{}, err
	}

	updated := c.Clone()
	columns := map[string]any{
		Column(enums.CatalogVehicleSizes): updated.VehicleSizes,
		Column(enums.CatalogConditions):   updated.Conditions,
		Column(enums.CatalogServices):     updated.Services,
		Column(enums.CatalogAddons):       updated.Addons,
	}
	if err := s.repo.UpdateColumns(ctx, row.ID, columns); err != nil {
		return types.PricingCatalog{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save pricing catalog")
	}
	return updated, nil
}

// load returns the caller's catalog row, backfilling defaults for a business
// created before it had one.
func (s *service) load(ctx context.Context, userID uuid.UUID) (*models.PricingCatalog, error) {
	businessID, err := s.repo.FindBusinessID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load business")
	}

	row, err := s.repo.FindByBusinessID(ctx, businessID)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pricing catalog")
	}
	row, err = s.repo.Create(ctx, businessID, DefaultCatalog())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create default pricing catalog")
	}
	return row, nil
}

func categoryValue(c types.PricingCatalog, category enums.CatalogCategory) any {
	switch category {
	case enums.CatalogVehicleSizes:
		return c.VehicleSizes
	case enums.CatalogConditions:
		return c.Conditions
	case enums.CatalogServices:
		return c.Services
	default:
		return c.Addons
	}
}
