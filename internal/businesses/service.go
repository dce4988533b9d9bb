// Package businesses manages the tenant profile. Creating a business also
// seeds its pricing catalog with the defaults.
package businesses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/detailpro/detailpro-backend/internal/catalog"
	"github.com/detailpro/detailpro-backend/pkg/db"
	"github.com/detailpro/detailpro-backend/pkg/db/models"
	"github.com/detailpro/detailpro-backend/pkg/enums"
	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
	"github.com/detailpro/detailpro-backend/pkg/outbox"
	"github.com/detailpro/detailpro-backend/pkg/outbox/payloads"
	"github.com/detailpro/detailpro-backend/pkg/types"
)

type businessRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Business, error)
	CreateWithTx(tx *gorm.DB, business *models.Business) error
	Update(ctx context.Context, business *models.Business) error
	DeleteWithTx(tx *gorm.DB, businessID uuid.UUID) (int64, error)
}

type catalogCreator interface {
	CreateWithTx(tx *gorm.DB, businessID uuid.UUID, c types.PricingCatalog) (*models.PricingCatalog, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes business profile operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input ProfileInput) (*BusinessDTO, error)
	Get(ctx context.Context, userID uuid.UUID) (*BusinessDTO, error)
	Update(ctx context.Context, userID uuid.UUID, input ProfileInput) (*BusinessDTO, error)
	DeleteForUser(ctx context.Context, adminID, userID uuid.UUID) (*DeletedDTO, error)
}

type service struct {
	repo     businessRepository
	catalogs catalogCreator
	tx       txRunner
	outbox   outboxEmitter
	validate *validator.Validate
}

// NewService builds a business service with the provided collaborators.
func NewService(repo businessRepository, catalogs catalogCreator, tx txRunner, emitter outboxEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("business repository required")
	}
	if catalogs == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{
		repo:     repo,
		catalogs: catalogs,
		tx:       tx,
		outbox:   emitter,
		validate: validator.New(),
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input ProfileInput) (*BusinessDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	profile, err := s.normalize(input)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByUserID(ctx, userID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "business already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load business")
	}

	business := &models.Business{
		ID:      uuid.New(),
		UserID:  userID,
		Name:    profile.Name,
		Email:   profile.Email,
		Phone:   profile.Phone,
		Website: profile.Website,
		Address: profile.Address,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateWithTx(tx, business); err != nil {
			return err
		}
		if _, err := s.catalogs.CreateWithTx(tx, business.ID, catalog.DefaultCatalog()); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventBusinessCreated,
			AggregateType: enums.AggregateBusiness,
			AggregateID:   business.ID,
			Actor:         &outbox.ActorRef{UserID: userID, BusinessID: &business.ID},
			Data: payloads.BusinessCreatedEvent{
				BusinessID: business.ID,
				UserID:     userID,
				Name:       business.Name,
			},
		})
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "business already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create business")
	}
	return FromModel(business), nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*BusinessDTO, error) {
	business, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(business), nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, input ProfileInput) (*BusinessDTO, error) {
	profile, err := s.normalize(input)
	if err != nil {
		return nil, err
	}
	business, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	business.Name = profile.Name
	business.Email = profile.Email
	business.Phone = profile.Phone
	business.Website = profile.Website
	business.Address = profile.Address

	if err := s.repo.Update(ctx, business); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update business")
	}
	return FromModel(business), nil
}

// DeleteForUser removes everything userID owns on behalf of an admin. Admins
// cannot remove their own data this way.
func (s *service) DeleteForUser(ctx context.Context, adminID, userID uuid.UUID) (*DeletedDTO, error) {
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if adminID == userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot delete your own account")
	}
	business, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	var removed int64
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := s.repo.DeleteWithTx(tx, business.ID)
		if err != nil {
			return err
		}
		removed = n
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventBusinessDeleted,
			AggregateType: enums.AggregateBusiness,
			AggregateID:   business.ID,
			Actor:         &outbox.ActorRef{UserID: adminID, Role: string(enums.MemberRoleAdmin)},
			Data: payloads.BusinessDeletedEvent{
				BusinessID:    business.ID,
				UserID:        userID,
				QuotesDeleted: removed,
			},
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete business")
	}
	return &DeletedDTO{UserID: userID, BusinessID: business.ID, QuotesDeleted: removed, Deleted: true}, nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*models.Business, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	business, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load business")
	}
	return business, nil
}

// normalize trims every field and checks the name and email.
func (s *service) normalize(input ProfileInput) (ProfileInput, error) {
	out := ProfileInput{
		Name:    strings.TrimSpace(input.Name),
		Email:   trimmed(input.Email),
		Phone:   trimmed(input.Phone),
		Website: trimmed(input.Website),
		Address: trimmed(input.Address),
	}
	if out.Name == "" {
		return ProfileInput{}, pkgerrors.New(pkgerrors.CodeValidation, "business name is required")
	}
	if out.Email != nil {
		if err := s.validate.Var(*out.Email, "email"); err != nil {
			return ProfileInput{}, pkgerrors.New(pkgerrors.CodeValidation, "business email is not a valid email address")
		}
	}
	return out, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
