package quotes

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/detailpro/detailpro-backend/internal/notifications"
	"github.com/detailpro/detailpro-backend/pkg/config"
	"github.com/detailpro/detailpro-backend/pkg/db"
	"github.com/detailpro/detailpro-backend/pkg/db/dbtest"
	"github.com/detailpro/detailpro-backend/pkg/db/models"
	"github.com/detailpro/detailpro-backend/pkg/enums"
	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
	"github.com/detailpro/detailpro-backend/pkg/logger"
	"github.com/detailpro/detailpro-backend/pkg/outbox"
	"github.com/detailpro/detailpro-backend/pkg/pagination"
	"github.com/detailpro/detailpro-backend/pkg/types"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func scenarioCatalog() types.PricingCatalog {
	return types.PricingCatalog{
		VehicleSizes: types.VehicleSizes{
			{ID: "sedan", Label: "Sedan", Multiplier: 1.0},
			{ID: "suv", Label: "SUV", Multiplier: 1.25},
		},
		Conditions: types.Conditions{{ID: "light", Label: "Light", Multiplier: 1.0}},
		Services:   types.Services{{ID: "exterior", Label: "Exterior", BasePrice: 80}},
		Addons:     types.Addons{{ID: "engine", Label: "Engine Bay", Price: 45}},
	}
}

type stubCatalogs struct {
	catalog types.PricingCatalog
}

func (s *stubCatalogs) Get(context.Context, uuid.UUID) (types.PricingCatalog, error) {
	return s.catalog.Clone(), nil
}

type stubBusinesses struct {
	byUser map[uuid.UUID]*models.Business
}

func (s *stubBusinesses) FindByUserID(_ context.Context, userID uuid.UUID) (*models.Business, error) {
	if b, ok := s.byUser[userID]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubBusinesses) FindByID(_ context.Context, id uuid.UUID) (*models.Business, error) {
	for _, b := range s.byUser {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type recordingDispatcher struct {
	sent []notifications.QuoteNotification
	err  error
}

func (d *recordingDispatcher) DispatchQuote(_ context.Context, n notifications.QuoteNotification) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, n)
	return nil
}

type harness struct {
	svc        Service
	conn       *gorm.DB
	catalogs   *stubCatalogs
	businesses *stubBusinesses
	dispatcher *recordingDispatcher
	now        time.Time
}

type harnessOption func(*ServiceParams)

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	conn := dbtest.Open(t)
	h := &harness{
		conn:       conn,
		catalogs:   &stubCatalogs{catalog: scenarioCatalog()},
		businesses: &stubBusinesses{byUser: map[uuid.UUID]*models.Business{}},
		dispatcher: &recordingDispatcher{},
		now:        fixedNow,
	}
	params := ServiceParams{
		Repo:       NewRepository(conn),
		Tx:         db.FromGorm(conn),
		Outbox:     outbox.NewService(outbox.NewRepository(conn), logger.Nop()),
		Catalogs:   h.catalogs,
		Businesses: h.businesses,
		Dispatcher: h.dispatcher,
		Config: config.QuotesConfig{
			PublicBaseURL:       "https://app.detailpro.test",
			DefaultBusinessName: "Your Detailer",
			ListMaxLimit:        50,
		},
		Now: func() time.Time { return h.now },
	}
	for _, opt := range opts {
		opt(&params)
	}
	svc, err := NewService(params)
	require.NoError(t, err)
	h.svc = svc
	return h
}

func (h *harness) owner(name string) Actor {
	userID := uuid.New()
	email := "shop@" + name + ".test"
	h.businesses.byUser[userID] = &models.Business{ID: uuid.New(), UserID: userID, Name: name, Email: &email}
	return Actor{UserID: userID, Role: enums.MemberRoleOwner}
}

func (h *harness) create(t *testing.T, actor Actor) *QuoteDTO {
	t.Helper()
	name := "Jordan"
	quote, err := h.svc.Create(context.Background(), CreateQuoteInput{
		Actor:        actor,
		CustomerName: &name,
		VehicleSize:  "suv",
		Condition:    "light",
		Services:     []string{"exterior"},
		Addons:       []string{"engine"},
	})
	require.NoError(t, err)
	return quote
}

func (h *harness) setStatus(t *testing.T, id uuid.UUID, status enums.QuoteStatus) {
	t.Helper()
	require.NoError(t, h.conn.Model(&models.Quote{}).Where("id = ?", id).Update("status", status).Error)
}

func (h *harness) outboxTypes(t *testing.T) []enums.OutboxEventType {
	t.Helper()
	var rows []models.OutboxEvent
	require.NoError(t, h.conn.Order("rowid").Find(&rows).Error)
	out := make([]enums.OutboxEventType, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.EventType)
	}
	return out
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, pkgerrors.As(err).Code(), "unexpected error: %v", err)
}

func TestCreatePricesFromCatalogAndEmitsEvent(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")

	quote := h.create(t, actor)

	assert.Equal(t, 156.0, quote.Total)
	assert.Equal(t, enums.QuoteStatusDraft, quote.Status)
	assert.Equal(t, 0, quote.ViewCount)
	assert.True(t, validShareID(quote.ShareID))
	assert.Equal(t, "https://app.detailpro.test/q/"+quote.ShareID, quote.PublicURL)
	assert.Equal(t, 100.0, quote.Breakdown.ServicesTotal)
	assert.Equal(t, 56.0, quote.Breakdown.AddonsTotal)
	assert.Equal(t, []enums.OutboxEventType{enums.EventQuoteCreated}, h.outboxTypes(t))
}

func TestCreateRejectsEmptyServicesFirst(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")

	sizes := []string{"sedan", "suv", "nope", ""}
	conditions := []string{"light", "filthy", ""}
	for _, size := range sizes {
		for _, condition := range conditions {
			for _, services := range [][]string{nil, {}} {
				_, err := h.svc.Create(context.Background(), CreateQuoteInput{
					Actor:       actor,
					VehicleSize: size,
					Condition:   condition,
					Services:    services,
					Addons:      []string{"engine"},
				})
				requireCode(t, err, pkgerrors.CodeValidation)
				assert.Equal(t, "at least one service required", pkgerrors.As(err).Message(), "size=%q condition=%q", size, condition)
			}
		}
	}

	// Checked before identity too.
	_, err := h.svc.Create(context.Background(), CreateQuoteInput{Actor: Actor{}, VehicleSize: "nope"})
	requireCode(t, err, pkgerrors.CodeValidation)
	assert.Equal(t, "at least one service required", pkgerrors.As(err).Message())
	assert.Empty(t, h.outboxTypes(t))
}

func TestCreateRejectsUnknownSelection(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")

	_, err := h.svc.Create(context.Background(), CreateQuoteInput{
		Actor:       actor,
		VehicleSize: "truck",
		Condition:   "light",
		Services:    []string{"exterior", "exterior", "ceramic"},
	})
	requireCode(t, err, pkgerrors.CodeValidation)
	details, ok := pkgerrors.As(err).Details().([]selectionViolation)
	require.True(t, ok)
	assert.Len(t, details, 3)
}

func TestCreateRequiresBusiness(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Create(context.Background(), CreateQuoteInput{
		Actor:       Actor{UserID: uuid.New(), Role: enums.MemberRoleOwner},
		VehicleSize: "suv",
		Condition:   "light",
		Services:    []string{"exterior"},
	})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestCreateRejectsPastValidUntil(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	past := fixedNow.Add(-time.Minute)

	_, err := h.svc.Create(context.Background(), CreateQuoteInput{
		Actor:       actor,
		VehicleSize: "suv",
		Condition:   "light",
		Services:    []string{"exterior"},
		ValidUntil:  &past,
	})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestSnapshotIsolatedFromCatalogEdits(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	quote := h.create(t, actor)

	h.catalogs.catalog.Services[0].BasePrice = 500
	h.catalogs.catalog.VehicleSizes[1].Multiplier = 3

	got, err := h.svc.Get(context.Background(), actor, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, 156.0, got.Total)
	assert.Equal(t, 156.0, got.Breakdown.Total)
	assert.Equal(t, float64(80), got.PricingSnapshot.Services[0].BasePrice)
}

func TestShareIDCollisionRetries(t *testing.T) {
	ids := []string{
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
	}
	calls := 0
	h := newHarness(t, func(p *ServiceParams) {
		p.ShareIDs = func() (string, error) {
			id := ids[calls]
			calls++
			return id, nil
		}
	})
	actor := h.owner("Shine Co")

	first := h.create(t, actor)
	second := h.create(t, actor)

	assert.Equal(t, ids[0], first.ShareID)
	assert.Equal(t, ids[2], second.ShareID)
	assert.Equal(t, 3, calls)
}

func TestShareIDCollisionGivesUp(t *testing.T) {
	h := newHarness(t, func(p *ServiceParams) {
		p.ShareIDs = func() (string, error) { return "cccccccccccccccccccccccccccccccc", nil }
	})
	actor := h.owner("Shine Co")
	h.create(t, actor)

	_, err := h.svc.Create(context.Background(), CreateQuoteInput{
		Actor:       actor,
		VehicleSize: "suv",
		Condition:   "light",
		Services:    []string{"exterior"},
	})
	requireCode(t, err, pkgerrors.CodeDependency)
}

func TestOwnershipIsolation(t *testing.T) {
	h := newHarness(t)
	alice := h.owner("Alice Detail")
	bob := h.owner("Bob Detail")
	quote := h.create(t, alice)
	ctx := context.Background()

	_, err := h.svc.Get(ctx, bob, quote.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	notes := "mine now"
	_, err = h.svc.Update(ctx, bob, quote.ID, UpdateQuoteInput{Notes: &notes})
	requireCode(t, err, pkgerrors.CodeNotFound)

	err = h.svc.Delete(ctx, bob, quote.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = h.svc.Send(ctx, quote.ID, SendQuoteInput{Actor: bob, Email: "c@example.com"})
	requireCode(t, err, pkgerrors.CodeNotFound)

	list, err := h.svc.List(ctx, bob, pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	admin := Actor{UserID: uuid.New(), Role: enums.MemberRoleAdmin}
	got, err := h.svc.Get(ctx, admin, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, quote.ID, got.ID)
}

func TestListPagesNewestFirst(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	var created []uuid.UUID
	for i := 0; i < 5; i++ {
		created = append(created, h.create(t, actor).ID)
	}
	ctx := context.Background()

	var seen []uuid.UUID
	cursor := ""
	for page := 0; page < 5; page++ {
		list, err := h.svc.List(ctx, actor, pagination.Params{Limit: 2, Cursor: cursor})
		require.NoError(t, err)
		for _, item := range list.Items {
			seen = append(seen, item.ID)
		}
		if list.NextCursor == "" {
			break
		}
		cursor = list.NextCursor
	}
	assert.ElementsMatch(t, created, seen)
	assert.Len(t, seen, 5)

	all, err := h.svc.ListAll(ctx, pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all.Items, 5)

	_, err = h.svc.List(ctx, actor, pagination.Params{Cursor: "%%%"})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateEditsFieldsAndRejectsFinalized(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	quote := h.create(t, actor)
	ctx := context.Background()

	notes := "  bring keys  "
	blank := ""
	later := fixedNow.Add(72 * time.Hour)
	got, err := h.svc.Update(ctx, actor, quote.ID, UpdateQuoteInput{Notes: &notes, CustomerName: &blank, ValidUntil: &later})
	require.NoError(t, err)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "bring keys", *got.Notes)
	assert.Nil(t, got.CustomerName)
	require.NotNil(t, got.ValidUntil)
	assert.True(t, later.Equal(*got.ValidUntil))
	assert.Equal(t, 156.0, got.Total)

	h.setStatus(t, quote.ID, enums.QuoteStatusAccepted)
	_, err = h.svc.Update(ctx, actor, quote.ID, UpdateQuoteInput{Notes: &notes})
	requireCode(t, err, pkgerrors.CodeAlreadyFinalized)
}

func TestDeleteAndDeleteAny(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	ctx := context.Background()

	mine := h.create(t, actor)
	require.NoError(t, h.svc.Delete(ctx, actor, mine.ID))
	_, err := h.svc.Get(ctx, actor, mine.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	other := h.create(t, actor)
	err = h.svc.DeleteAny(ctx, Actor{UserID: uuid.New(), Role: enums.MemberRoleOwner}, other.ID)
	requireCode(t, err, pkgerrors.CodeForbidden)

	admin := Actor{UserID: uuid.New(), Role: enums.MemberRoleAdmin}
	require.NoError(t, h.svc.DeleteAny(ctx, admin, other.ID))
	err = h.svc.DeleteAny(ctx, admin, other.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	assert.Contains(t, h.outboxTypes(t), enums.EventQuoteDeleted)
}

func TestSendDispatchesThenMarksSent(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	quote := h.create(t, actor)
	ctx := context.Background()

	got, err := h.svc.Send(ctx, quote.ID, SendQuoteInput{Actor: actor, Email: " customer@example.com "})
	require.NoError(t, err)
	assert.Equal(t, enums.QuoteStatusSent, got.Status)
	require.NotNil(t, got.CustomerEmail)
	assert.Equal(t, "customer@example.com", *got.CustomerEmail)

	require.Len(t, h.dispatcher.sent, 1)
	n := h.dispatcher.sent[0]
	assert.Equal(t, "customer@example.com", n.Recipient)
	assert.Equal(t, "shop@Shine Co.test", n.ReplyTo)
	assert.Equal(t, "Shine Co", n.BusinessName)
	assert.Equal(t, "$156", n.Total)
	assert.Equal(t, got.PublicURL, n.PublicQuoteURL)

	// Re-send keeps the status.
	got, err = h.svc.Send(ctx, quote.ID, SendQuoteInput{Actor: actor, Email: "other@example.com"})
	require.NoError(t, err)
	assert.Equal(t, enums.QuoteStatusSent, got.Status)
	assert.Equal(t, "other@example.com", *got.CustomerEmail)

	assert.Equal(t, []enums.OutboxEventType{
		enums.EventQuoteCreated, enums.EventQuoteSent, enums.EventQuoteSent,
	}, h.outboxTypes(t))
}

func TestSendValidatesEmail(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	quote := h.create(t, actor)

	_, err := h.svc.Send(context.Background(), quote.ID, SendQuoteInput{Actor: actor, Email: "not-an-email"})
	requireCode(t, err, pkgerrors.CodeValidation)
	assert.Empty(t, h.dispatcher.sent)
}

func TestSendFailureLeavesQuoteUntouched(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	quote := h.create(t, actor)
	h.dispatcher.err = errors.New("smtp down")
	ctx := context.Background()

	_, err := h.svc.Send(ctx, quote.ID, SendQuoteInput{Actor: actor, Email: "customer@example.com"})
	requireCode(t, err, pkgerrors.CodeDependency)

	got, err := h.svc.Get(ctx, actor, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.QuoteStatusDraft, got.Status)
	assert.Nil(t, got.CustomerEmail)
	assert.Equal(t, []enums.OutboxEventType{enums.EventQuoteCreated}, h.outboxTypes(t))
}

func TestSendRejectsFinalized(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	quote := h.create(t, actor)
	h.setStatus(t, quote.ID, enums.QuoteStatusDeclined)

	_, err := h.svc.Send(context.Background(), quote.ID, SendQuoteInput{Actor: actor, Email: "customer@example.com"})
	requireCode(t, err, pkgerrors.CodeAlreadyFinalized)
	assert.Empty(t, h.dispatcher.sent)
}

func TestOpenThenDecline(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	quote := h.create(t, actor)
	h.setStatus(t, quote.ID, enums.QuoteStatusSent)
	ctx := context.Background()

	view, err := h.svc.OpenPublic(ctx, quote.ShareID)
	require.NoError(t, err)
	assert.Equal(t, enums.QuoteStatusViewed, view.Status)
	assert.Equal(t, 1, view.ViewCount)
	assert.Equal(t, "Shine Co", view.Business.Name)
	assert.Equal(t, "SUV", view.VehicleLabel)

	view, err = h.svc.OpenPublic(ctx, quote.ShareID)
	require.NoError(t, err)
	assert.Equal(t, enums.QuoteStatusViewed, view.Status)
	assert.Equal(t, 2, view.ViewCount)

	res, err := h.svc.Respond(ctx, quote.ShareID, enums.QuoteActionDecline)
	require.NoError(t, err)
	assert.Equal(t, enums.QuoteStatusDeclined, res.Status)

	_, err = h.svc.Respond(ctx, quote.ShareID, enums.QuoteActionDecline)
	requireCode(t, err, pkgerrors.CodeAlreadyFinalized)

	assert.Equal(t, []enums.OutboxEventType{
		enums.EventQuoteCreated, enums.EventQuoteViewed, enums.EventQuoteDeclined,
	}, h.outboxTypes(t))
}

func TestViewCountKeepsCountingAfterAccept(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	quote := h.create(t, actor)
	ctx := context.Background()

	_, err := h.svc.Send(ctx, quote.ID, SendQuoteInput{Actor: actor, Email: "customer@example.com"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := h.svc.OpenPublic(ctx, quote.ShareID)
		require.NoError(t, err)
	}
	res, err := h.svc.Respond(ctx, quote.ShareID, enums.QuoteActionAccept)
	require.NoError(t, err)
	assert.Equal(t, enums.QuoteStatusAccepted, res.Status)

	var view *PublicQuoteDTO
	for i := 0; i < 2; i++ {
		view, err = h.svc.OpenPublic(ctx, quote.ShareID)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, view.ViewCount)
	assert.Equal(t, enums.QuoteStatusAccepted, view.Status)

	got, err := h.svc.Get(ctx, actor, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.ViewCount)
	assert.Equal(t, enums.QuoteStatusAccepted, got.Status)

	_, err = h.svc.Send(ctx, quote.ID, SendQuoteInput{Actor: actor, Email: "customer@example.com"})
	requireCode(t, err, pkgerrors.CodeAlreadyFinalized)
	_, err = h.svc.Respond(ctx, quote.ShareID, enums.QuoteActionDecline)
	requireCode(t, err, pkgerrors.CodeAlreadyFinalized)

	assert.Equal(t, []enums.OutboxEventType{
		enums.EventQuoteCreated, enums.EventQuoteSent, enums.EventQuoteViewed, enums.EventQuoteAccepted,
	}, h.outboxTypes(t))
}

func TestViewCountKeepsCountingAfterDeclineAndExpiry(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	ctx := context.Background()

	declined := h.create(t, actor)
	h.setStatus(t, declined.ID, enums.QuoteStatusSent)
	_, err := h.svc.Respond(ctx, declined.ShareID, enums.QuoteActionDecline)
	require.NoError(t, err)

	expired := h.create(t, actor)
	h.setStatus(t, expired.ID, enums.QuoteStatusSent)
	require.NoError(t, h.conn.Model(&models.Quote{}).Where("id = ?", expired.ID).
		Update("valid_until", fixedNow.Add(-time.Hour)).Error)

	for _, tc := range []struct {
		shareID string
		status  enums.QuoteStatus
	}{
		{declined.ShareID, enums.QuoteStatusDeclined},
		{expired.ShareID, enums.QuoteStatusExpired},
	} {
		var view *PublicQuoteDTO
		for i := 0; i < 3; i++ {
			view, err = h.svc.OpenPublic(ctx, tc.shareID)
			require.NoError(t, err)
		}
		assert.Equal(t, 3, view.ViewCount)
		assert.Equal(t, tc.status, view.Status)
	}
}

func TestSendRejectsPastValidUntil(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	quote := h.create(t, actor)
	require.NoError(t, h.conn.Model(&models.Quote{}).Where("id = ?", quote.ID).
		Update("valid_until", fixedNow.Add(-time.Minute)).Error)

	_, err := h.svc.Send(context.Background(), quote.ID, SendQuoteInput{Actor: actor, Email: "customer@example.com"})
	requireCode(t, err, pkgerrors.CodeQuoteExpired)
	assert.Empty(t, h.dispatcher.sent)

	got, err := h.svc.Get(context.Background(), actor, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.QuoteStatusDraft, got.Status)
	assert.Equal(t, []enums.OutboxEventType{enums.EventQuoteCreated}, h.outboxTypes(t))
}

func TestAdminStats(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	business := h.businesses.byUser[actor.UserID]
	require.NoError(t, h.conn.Create(business).Error)
	ctx := context.Background()

	empty, err := h.svc.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Quotes)
	assert.Equal(t, 0, empty.AcceptanceRate)
	assert.Empty(t, empty.Recent)

	for _, status := range []enums.QuoteStatus{
		enums.QuoteStatusAccepted,
		enums.QuoteStatusSent,
		enums.QuoteStatusViewed,
		enums.QuoteStatusDraft,
		enums.QuoteStatusDeclined,
		enums.QuoteStatusDeclined,
	} {
		quote := h.create(t, actor)
		h.setStatus(t, quote.ID, status)
	}

	stats, err := h.svc.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Businesses)
	assert.Equal(t, int64(6), stats.Quotes)
	assert.Equal(t, int64(1), stats.ByStatus[enums.QuoteStatusAccepted])
	assert.Equal(t, int64(1), stats.ByStatus[enums.QuoteStatusDraft])
	assert.Equal(t, int64(0), stats.ByStatus[enums.QuoteStatusExpired])
	assert.Equal(t, int64(2), stats.ByStatus[enums.QuoteStatusDeclined])
	assert.Equal(t, 936.0, stats.TotalValue)
	assert.Equal(t, 33, stats.AcceptanceRate)
	assert.Len(t, stats.Recent, 5)
}

func TestAcceptanceRateRounds(t *testing.T) {
	assert.Equal(t, 0, acceptanceRate(map[enums.QuoteStatus]int64{enums.QuoteStatusDraft: 4}))
	assert.Equal(t, 67, acceptanceRate(map[enums.QuoteStatus]int64{
		enums.QuoteStatusAccepted: 2,
		enums.QuoteStatusViewed:   1,
	}))
	assert.Equal(t, 100, acceptanceRate(map[enums.QuoteStatus]int64{enums.QuoteStatusAccepted: 3}))
	// Declined quotes are not in the denominator.
	assert.Equal(t, 50, acceptanceRate(map[enums.QuoteStatus]int64{
		enums.QuoteStatusAccepted: 1,
		enums.QuoteStatusSent:     1,
		enums.QuoteStatusDeclined: 6,
	}))
}

func TestOpenExpiredQuoteFlipsBeforeRespond(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	quote := h.create(t, actor)
	h.setStatus(t, quote.ID, enums.QuoteStatusSent)
	require.NoError(t, h.conn.Model(&models.Quote{}).Where("id = ?", quote.ID).
		Update("valid_until", fixedNow.Add(-time.Hour)).Error)
	ctx := context.Background()

	view, err := h.svc.OpenPublic(ctx, quote.ShareID)
	require.NoError(t, err)
	assert.Equal(t, enums.QuoteStatusExpired, view.Status)
	assert.Equal(t, 1, view.ViewCount)

	_, err = h.svc.Respond(ctx, quote.ShareID, enums.QuoteActionAccept)
	requireCode(t, err, pkgerrors.CodeQuoteExpired)
}

func TestRespondPastValidUntilCommitsExpiry(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	quote := h.create(t, actor)
	h.setStatus(t, quote.ID, enums.QuoteStatusViewed)
	require.NoError(t, h.conn.Model(&models.Quote{}).Where("id = ?", quote.ID).
		Update("valid_until", fixedNow.Add(-time.Hour)).Error)
	ctx := context.Background()

	_, err := h.svc.Respond(ctx, quote.ShareID, enums.QuoteActionAccept)
	requireCode(t, err, pkgerrors.CodeQuoteExpired)

	got, err := h.svc.Get(ctx, actor, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.QuoteStatusExpired, got.Status)
	assert.Contains(t, h.outboxTypes(t), enums.EventQuoteExpired)
}

func TestRespondRejectsDraftAndUnknownShare(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	quote := h.create(t, actor)
	ctx := context.Background()

	_, err := h.svc.Respond(ctx, quote.ShareID, enums.QuoteActionAccept)
	requireCode(t, err, pkgerrors.CodeStateConflict)

	_, err = h.svc.Respond(ctx, "not-a-share-id", enums.QuoteActionAccept)
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = h.svc.OpenPublic(ctx, "dddddddddddddddddddddddddddddddd")
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = h.svc.Respond(ctx, quote.ShareID, enums.QuoteAction("maybe"))
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestOpenUsesDefaultBusinessName(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	quote := h.create(t, actor)
	delete(h.businesses.byUser, actor.UserID)

	view, err := h.svc.OpenPublic(context.Background(), quote.ShareID)
	require.NoError(t, err)
	assert.Equal(t, "Your Detailer", view.Business.Name)
	assert.Equal(t, enums.QuoteStatusDraft, view.Status)
}

func TestMarkStatus(t *testing.T) {
	h := newHarness(t)
	actor := h.owner("Shine Co")
	ctx := context.Background()

	quote := h.create(t, actor)
	got, err := h.svc.MarkStatus(ctx, actor, quote.ID, enums.QuoteStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, enums.QuoteStatusAccepted, got.Status)

	_, err = h.svc.MarkStatus(ctx, actor, quote.ID, enums.QuoteStatusDeclined)
	requireCode(t, err, pkgerrors.CodeAlreadyFinalized)

	other := h.create(t, actor)
	_, err = h.svc.MarkStatus(ctx, actor, other.ID, enums.QuoteStatusExpired)
	requireCode(t, err, pkgerrors.CodeValidation)

	stranger := Actor{UserID: uuid.New(), Role: enums.MemberRoleOwner}
	_, err = h.svc.MarkStatus(ctx, stranger, other.ID, enums.QuoteStatusSent)
	requireCode(t, err, pkgerrors.CodeNotFound)

	admin := Actor{UserID: uuid.New(), Role: enums.MemberRoleAdmin}
	got, err = h.svc.MarkStatus(ctx, admin, other.ID, enums.QuoteStatusSent)
	require.NoError(t, err)
	assert.Equal(t, enums.QuoteStatusSent, got.Status)

	_, err = h.svc.MarkStatus(ctx, admin, other.ID, enums.QuoteStatusViewed)
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
	assert.Contains(t, fmt.Sprint(err), "repository")
}
