package businesses

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/detailpro/detailpro-backend/internal/catalog"
	"github.com/detailpro/detailpro-backend/pkg/db"
	"github.com/detailpro/detailpro-backend/pkg/db/dbtest"
	"github.com/detailpro/detailpro-backend/pkg/db/models"
	"github.com/detailpro/detailpro-backend/pkg/enums"
	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
	"github.com/detailpro/detailpro-backend/pkg/logger"
	"github.com/detailpro/detailpro-backend/pkg/outbox"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(
		NewRepository(conn),
		catalog.NewRepository(conn),
		db.FromGorm(conn),
		outbox.NewService(outbox.NewRepository(conn), logger.Nop()),
	)
	require.NoError(t, err)
	return svc, conn
}

func strPtr(s string) *string { return &s }

func TestCreateSeedsDefaultCatalog(t *testing.T) {
	svc, conn := newTestService(t)
	userID := uuid.New()

	got, err := svc.Create(context.Background(), userID, ProfileInput{
		Name:    "  Shine Co  ",
		Email:   strPtr("hello@shine.test"),
		Website: strPtr("   "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Shine Co", got.Name)
	assert.Nil(t, got.Website)

	row, err := catalog.NewRepository(conn).FindByBusinessID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultCatalog().Services, row.Services)

	var events []models.OutboxEvent
	require.NoError(t, conn.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.EventBusinessCreated, events[0].EventType)
	assert.Equal(t, got.ID, events[0].AggregateID)
}

func TestCreateConflictsWhenBusinessExists(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, userID, ProfileInput{Name: "First"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, userID, ProfileInput{Name: "Second"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestCreateValidatesProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), ProfileInput{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(ctx, uuid.New(), ProfileInput{Name: "Shine", Email: strPtr("nope")})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestGetAndUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.Get(ctx, userID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	created, err := svc.Create(ctx, userID, ProfileInput{Name: "Shine Co", Phone: strPtr("555-0100")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, userID, ProfileInput{Name: " Shine & Co ", Address: strPtr(" 1 Main St ")})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Shine & Co", updated.Name)
	require.NotNil(t, updated.Address)
	assert.Equal(t, "1 Main St", *updated.Address)
	assert.Nil(t, updated.Phone)

	got, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Shine & Co", got.Name)

	_, err = svc.Update(ctx, userID, ProfileInput{Name: ""})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func seedQuote(t *testing.T, conn *gorm.DB, business *BusinessDTO) {
	t.Helper()
	require.NoError(t, conn.Create(&models.Quote{
		ID:              uuid.New(),
		ShareID:         uuid.NewString(),
		UserID:          business.UserID,
		BusinessID:      business.ID,
		VehicleSize:     "sedan",
		Condition:       "light",
		Services:        []string{"exterior"},
		PricingSnapshot: catalog.DefaultCatalog(),
		Total:           decimal.NewFromInt(80),
		Status:          enums.QuoteStatusDraft,
	}).Error)
}

func TestDeleteForUserRemovesOwnedData(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	adminID := uuid.New()

	doomed, err := svc.Create(ctx, uuid.New(), ProfileInput{Name: "Doomed"})
	require.NoError(t, err)
	kept, err := svc.Create(ctx, uuid.New(), ProfileInput{Name: "Kept"})
	require.NoError(t, err)
	seedQuote(t, conn, doomed)
	seedQuote(t, conn, doomed)
	seedQuote(t, conn, kept)

	got, err := svc.DeleteForUser(ctx, adminID, doomed.UserID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
	assert.Equal(t, doomed.ID, got.BusinessID)
	assert.Equal(t, int64(2), got.QuotesDeleted)

	var quotes int64
	require.NoError(t, conn.Model(&models.Quote{}).Count(&quotes).Error)
	assert.Equal(t, int64(1), quotes)

	_, err = catalog.NewRepository(conn).FindByBusinessID(ctx, doomed.ID)
	require.Error(t, err)

	_, err = svc.Get(ctx, doomed.UserID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
	_, err = svc.Get(ctx, kept.UserID)
	require.NoError(t, err)

	var last models.OutboxEvent
	require.NoError(t, conn.Order("rowid DESC").First(&last).Error)
	assert.Equal(t, enums.EventBusinessDeleted, last.EventType)
	assert.Equal(t, doomed.ID, last.AggregateID)
}

func TestDeleteForUserRejectsSelfAndUnknown(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	adminID := uuid.New()

	_, err := svc.Create(ctx, adminID, ProfileInput{Name: "Admin Shop"})
	require.NoError(t, err)

	_, err = svc.DeleteForUser(ctx, adminID, adminID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.DeleteForUser(ctx, adminID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = svc.Get(ctx, adminID)
	require.NoError(t, err)
}
