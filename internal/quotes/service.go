// Package quotes builds priced quotes from a business's catalog, freezes the
// catalog into each quote, and drives the quote through its lifecycle.
package quotes

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/detailpro/detailpro-backend/internal/notifications"
	"github.com/detailpro/detailpro-backend/internal/pricing"
	"github.com/detailpro/detailpro-backend/pkg/config"
	"github.com/detailpro/detailpro-backend/pkg/db"
	"github.com/detailpro/detailpro-backend/pkg/db/models"
	"github.com/detailpro/detailpro-backend/pkg/enums"
	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
	"github.com/detailpro/detailpro-backend/pkg/logger"
	"github.com/detailpro/detailpro-backend/pkg/metrics"
	"github.com/detailpro/detailpro-backend/pkg/outbox"
	"github.com/detailpro/detailpro-backend/pkg/pagination"
	"github.com/detailpro/detailpro-backend/pkg/types"
)

const (
	maxShareIDAttempts  = 5
	maxTransitionRounds = 3
	recentStatsLimit    = 5
	shareIDConstraint   = "idx_quotes_share_id"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type catalogReader interface {
	Get(ctx context.Context, userID uuid.UUID) (types.PricingCatalog, error)
}

type businessLookup interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Business, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
}

// Service exposes quote operations for owners, admins and customers.
type Service interface {
	Create(ctx context.Context, input CreateQuoteInput) (*QuoteDTO, error)
	List(ctx context.Context, actor Actor, page pagination.Params) (*QuoteList, error)
	ListAll(ctx context.Context, page pagination.Params) (*QuoteList, error)
	AdminStats(ctx context.Context) (*AdminStatsDTO, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*QuoteDTO, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateQuoteInput) (*QuoteDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	DeleteAny(ctx context.Context, actor Actor, id uuid.UUID) error
	Send(ctx context.Context, id uuid.UUID, input SendQuoteInput) (*QuoteDTO, error)
	MarkStatus(ctx context.Context, actor Actor, id uuid.UUID, status enums.QuoteStatus) (*QuoteDTO, error)
	OpenPublic(ctx context.Context, shareID string) (*PublicQuoteDTO, error)
	Respond(ctx context.Context, shareID string, action enums.QuoteAction) (*RespondResult, error)
}

// ServiceParams bundles the dependencies required to build a quote service.
type ServiceParams struct {
	Repo       Repository
	Tx         txRunner
	Outbox     outboxEmitter
	Catalogs   catalogReader
	Businesses businessLookup
	Dispatcher notifications.Dispatcher
	Metrics    *metrics.QuoteMetrics
	Config     config.QuotesConfig
	Logger     *logger.Logger
	Now        func() time.Time
	ShareIDs   func() (string, error)
}

type service struct {
	repo       Repository
	tx         txRunner
	outbox     outboxEmitter
	catalogs   catalogReader
	businesses businessLookup
	dispatcher notifications.Dispatcher
	metrics    *metrics.QuoteMetrics
	cfg        config.QuotesConfig
	logg       *logger.Logger
	validate   *validator.Validate
	now        func() time.Time
	shareIDs   func() (string, error)
}

// NewService constructs a quote service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("quote repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter is required")
	}
	if params.Catalogs == nil {
		return nil, fmt.Errorf("catalog reader is required")
	}
	if params.Businesses == nil {
		return nil, fmt.Errorf("business lookup is required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("notification dispatcher is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	shareIDs := params.ShareIDs
	if shareIDs == nil {
		shareIDs = newShareID
	}
	return &service{
		repo:       params.Repo,
		tx:         params.Tx,
		outbox:     params.Outbox,
		catalogs:   params.Catalogs,
		businesses: params.Businesses,
		dispatcher: params.Dispatcher,
		metrics:    params.Metrics,
		cfg:        params.Config,
		logg:       logg,
		validate:   validator.New(),
		now:        now,
		shareIDs:   shareIDs,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateQuoteInput) (*QuoteDTO, error) {
	if len(input.Services) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one service required")
	}
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ValidUntil != nil && !input.ValidUntil.After(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid_until must be in the future")
	}
	if err := s.validateEmailPtr(input.CustomerEmail); err != nil {
		return nil, err
	}

	business, err := s.businessForUser(ctx, input.Actor.UserID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalogs.Get(ctx, input.Actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := validateSelection(catalog, input); err != nil {
		return nil, err
	}

	breakdown, err := pricing.Calculate(catalog, pricing.Selection{
		VehicleSize: input.VehicleSize,
		Condition:   input.Condition,
		Services:    input.Services,
		Addons:      input.Addons,
	})
	if err != nil {
		return nil, err
	}

	quote := &models.Quote{
		ID:              uuid.New(),
		UserID:          input.Actor.UserID,
		BusinessID:      business.ID,
		CustomerName:    trimmedOrNil(input.CustomerName),
		CustomerEmail:   trimmedOrNil(input.CustomerEmail),
		CustomerPhone:   trimmedOrNil(input.CustomerPhone),
		VehicleYear:     trimmedOrNil(input.VehicleYear),
		VehicleMake:     trimmedOrNil(input.VehicleMake),
		VehicleModel:    trimmedOrNil(input.VehicleModel),
		VehicleSize:     input.VehicleSize,
		Condition:       input.Condition,
		Services:        append(types.IDList{}, input.Services...),
		Addons:          append(types.IDList{}, input.Addons...),
		PricingSnapshot: catalog.Clone(),
		Total:           breakdown.Total,
		Status:          enums.QuoteStatusDraft,
		ValidUntil:      utcPtr(input.ValidUntil),
		Notes:           trimmedOrNil(input.Notes),
	}

	for attempt := 1; ; attempt++ {
		shareID, err := s.shareIDs()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate share id")
		}
		quote.ShareID = shareID

		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.WithTx(tx).Create(ctx, quote); err != nil {
				return err
			}
			return s.emitCreated(ctx, tx, input.Actor, quote)
		})
		if err == nil {
			break
		}
		if isShareIDCollision(err) && attempt < maxShareIDAttempts {
			s.logg.Warn(s.logg.WithField(ctx, "attempt", attempt), "share id collision, regenerating")
			continue
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create quote")
	}

	s.metrics.IncCreated()
	s.logg.Info(s.logg.WithQuoteID(ctx, quote.ID.String()), "quote created")
	return s.toDTO(quote), nil
}

func (s *service) List(ctx context.Context, actor Actor, page pagination.Params) (*QuoteList, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.list(ctx, &actor.UserID, page)
}

func (s *service) ListAll(ctx context.Context, page pagination.Params) (*QuoteList, error) {
	return s.list(ctx, nil, page)
}

// AdminStats summarises every tenant's quotes. The acceptance rate is the
// accepted share of quotes a customer has been sent, as a whole percentage.
func (s *service) AdminStats(ctx context.Context) (*AdminStatsDTO, error) {
	totals, err := s.repo.StatusTotals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote totals")
	}
	businessCount, err := s.repo.CountBusinesses(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count businesses")
	}
	recent, err := s.repo.List(ctx, nil, nil, recentStatsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent quotes")
	}
	recent, _ = pagination.Trim(recent, recentStatsLimit, summaryCursor)

	stats := &AdminStatsDTO{
		Businesses: businessCount,
		ByStatus:   make(map[enums.QuoteStatus]int64, len(totals)),
		Recent:     make([]QuoteSummaryDTO, 0, len(recent)),
	}
	value := decimal.Zero
	for _, row := range totals {
		stats.ByStatus[row.Status] += row.Count
		stats.Quotes += row.Count
		value = value.Add(row.Value)
	}
	stats.TotalValue = value.Round(2).InexactFloat64()
	stats.AcceptanceRate = acceptanceRate(stats.ByStatus)
	for _, row := range recent {
		stats.Recent = append(stats.Recent, toSummaryDTO(row))
	}
	return stats, nil
}

func acceptanceRate(byStatus map[enums.QuoteStatus]int64) int {
	accepted := byStatus[enums.QuoteStatusAccepted]
	reached := byStatus[enums.QuoteStatusSent] + byStatus[enums.QuoteStatusViewed] + accepted
	if reached == 0 {
		return 0
	}
	return int(math.Round(float64(accepted) / float64(reached) * 100))
}

func (s *service) list(ctx context.Context, userID *uuid.UUID, page pagination.Params) (*QuoteList, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(page.Limit, s.cfg.ListMaxLimit)

	rows, err := s.repo.List(ctx, userID, cursor, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quotes")
	}
	rows, next := pagination.Trim(rows, limit, summaryCursor)

	items := make([]QuoteSummaryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toSummaryDTO(row))
	}
	return &QuoteList{Items: items, NextCursor: next}, nil
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*QuoteDTO, error) {
	quote, err := s.loadForActor(ctx, s.repo, actor, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(quote), nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateQuoteInput) (*QuoteDTO, error) {
	if input.ValidUntil != nil && !input.ValidUntil.After(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid_until must be in the future")
	}
	if input.CustomerEmail != nil && strings.TrimSpace(*input.CustomerEmail) != "" {
		if err := s.validateEmailPtr(input.CustomerEmail); err != nil {
			return nil, err
		}
	}
	fields := input.fields()

	var updated *models.Quote
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for round := 0; round < maxTransitionRounds; round++ {
			quote, err := s.loadForActor(ctx, repo, actor, id)
			if err != nil {
				return err
			}
			if err := checkEditable(quote.Status); err != nil {
				return err
			}
			ok, err := repo.UpdateFields(ctx, quote.ID, quote.Status, fields)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quote")
			}
			if ok {
				updated, err = repo.FindByID(ctx, quote.ID)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload quote")
				}
				return nil
			}
		}
		return pkgerrors.New(pkgerrors.CodeConflict, "quote changed concurrently, retry")
	})
	if err != nil {
		return nil, err
	}
	return s.toDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	owner := Actor{UserID: actor.UserID, Role: enums.MemberRoleOwner}
	return s.delete(ctx, owner, id)
}

func (s *service) DeleteAny(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	return s.delete(ctx, actor, id)
}

func (s *service) delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quote, err := s.loadForActor(ctx, repo, actor, id)
		if err != nil {
			return err
		}
		deleted, err := repo.Delete(ctx, quote.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete quote")
		}
		if !deleted {
			return pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return s.emitDeleted(ctx, tx, actor, quote)
	})
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithQuoteID(ctx, id.String()), "quote deleted")
	return nil
}

// Send validates the recipient, dispatches the email and only then records
// the recipient and SENT. A dispatch failure leaves the quote untouched, and
// a quote past its validUntil is never sent.
func (s *service) Send(ctx context.Context, id uuid.UUID, input SendQuoteInput) (*QuoteDTO, error) {
	email := strings.TrimSpace(input.Email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid recipient email is required")
	}

	owner := Actor{UserID: input.Actor.UserID, Role: enums.MemberRoleOwner}
	quote, err := s.loadForActor(ctx, s.repo, owner, id)
	if err != nil {
		return nil, err
	}
	if _, err := sendTarget(quote.Status); err != nil {
		return nil, err
	}
	// The link would expire on first open, so nothing is dispatched.
	if quote.IsExpiredAt(s.now()) {
		return nil, quoteExpired()
	}

	business, err := s.businessByID(ctx, quote.BusinessID)
	if err != nil {
		return nil, err
	}
	notification := s.buildNotification(quote, business, email)
	if err := s.dispatcher.DispatchQuote(ctx, notification); err != nil {
		s.metrics.IncSendFailure()
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to send quote email")
	}

	var (
		sent *models.Quote
		from enums.QuoteStatus
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for round := 0; round < maxTransitionRounds; round++ {
			current, err := repo.FindByID(ctx, quote.ID)
			if err != nil {
				return s.mapLoadErr(err)
			}
			to, err := sendTarget(current.Status)
			if err != nil {
				return err
			}
			ok, err := repo.TransitionStatus(ctx, current.ID, current.Status, to, map[string]any{"customer_email": email})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record quote send")
			}
			if !ok {
				continue
			}
			from = current.Status
			current.Status = to
			current.CustomerEmail = &email
			if err := s.emitStatusChange(ctx, tx, &input.Actor, current, from, enums.EventQuoteSent, &email); err != nil {
				return err
			}
			sent = current
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeConflict, "quote changed concurrently, retry")
	})
	if err != nil {
		return nil, err
	}

	if from != sent.Status {
		s.metrics.IncTransition(from.String(), sent.Status.String())
	}
	s.logg.Info(s.logg.WithQuoteID(ctx, sent.ID.String()), "quote sent")
	return s.toDTO(sent), nil
}

func (s *service) MarkStatus(ctx context.Context, actor Actor, id uuid.UUID, status enums.QuoteStatus) (*QuoteDTO, error) {
	if err := checkMark(enums.QuoteStatusDraft, status); err != nil {
		return nil, err
	}

	var (
		marked *models.Quote
		from   enums.QuoteStatus
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for round := 0; round < maxTransitionRounds; round++ {
			quote, err := s.loadForActor(ctx, repo, actor, id)
			if err != nil {
				return err
			}
			if err := checkMark(quote.Status, status); err != nil {
				return err
			}
			ok, err := repo.TransitionStatus(ctx, quote.ID, quote.Status, status, nil)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quote status")
			}
			if !ok {
				continue
			}
			from = quote.Status
			quote.Status = status
			eventType, _ := enums.QuoteEventForStatus(status)
			if err := s.emitStatusChange(ctx, tx, &actor, quote, from, eventType, nil); err != nil {
				return err
			}
			marked = quote
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeConflict, "quote changed concurrently, retry")
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncTransition(from.String(), status.String())
	return s.toDTO(marked), nil
}

// loadForActor hides quotes the actor does not own behind NOT_FOUND. Admins
// see every quote.
func (s *service) loadForActor(ctx context.Context, repo Repository, actor Actor, id uuid.UUID) (*models.Quote, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	var (
		quote *models.Quote
		err   error
	)
	if actor.IsAdmin() {
		quote, err = repo.FindByID(ctx, id)
	} else {
		quote, err = repo.FindOwned(ctx, actor.UserID, id)
	}
	if err != nil {
		return nil, s.mapLoadErr(err)
	}
	return quote, nil
}

func (s *service) mapLoadErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
}

func (s *service) businessForUser(ctx context.Context, userID uuid.UUID) (*models.Business, error) {
	business, err := s.businesses.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load business")
	}
	return business, nil
}

// businessByID tolerates a missing business so quotes stay renderable.
func (s *service) businessByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	business, err := s.businesses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load business")
	}
	return business, nil
}

func (s *service) businessName(business *models.Business) string {
	if business != nil && strings.TrimSpace(business.Name) != "" {
		return business.Name
	}
	return s.cfg.DefaultBusinessName
}

func (s *service) buildNotification(q *models.Quote, business *models.Business, recipient string) notifications.QuoteNotification {
	sizeLabel := q.VehicleSize
	if size, ok := q.PricingSnapshot.VehicleSize(q.VehicleSize); ok {
		sizeLabel = size.Label
	}
	n := notifications.QuoteNotification{
		Recipient:         recipient,
		BusinessName:      s.businessName(business),
		VehicleInfo:       notifications.VehicleInfo(q.VehicleYear, q.VehicleMake, q.VehicleModel, sizeLabel),
		Total:             notifications.FormatTotal(q.Total),
		PublicQuoteURL:    s.cfg.PublicQuoteURL(q.ShareID),
		ValidUntilDisplay: notifications.FormatValidUntil(q.ValidUntil),
	}
	if q.CustomerName != nil {
		n.CustomerName = *q.CustomerName
	}
	if business != nil && business.Email != nil {
		n.ReplyTo = *business.Email
	}
	return n
}

func (s *service) toDTO(q *models.Quote) *QuoteDTO {
	return toQuoteDTO(q, s.cfg.PublicQuoteURL(q.ShareID))
}

func (s *service) validateEmailPtr(email *string) error {
	if email == nil || strings.TrimSpace(*email) == "" {
		return nil
	}
	if err := s.validate.Var(strings.TrimSpace(*email), "email"); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer_email is not a valid email address")
	}
	return nil
}

type selectionViolation struct {
	Field   string `json:"field"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// validateSelection checks the chosen ids against the live catalog at creation.
func validateSelection(c types.PricingCatalog, in CreateQuoteInput) error {
	var violations []selectionViolation
	if _, ok := c.VehicleSize(in.VehicleSize); !ok {
		violations = append(violations, selectionViolation{"vehicle_size", in.VehicleSize, "unknown vehicle size"})
	}
	if _, ok := c.Condition(in.Condition); !ok {
		violations = append(violations, selectionViolation{"condition", in.Condition, "unknown condition"})
	}
	for _, id := range types.IDList(in.Services).Duplicates() {
		violations = append(violations, selectionViolation{"services", id, "selected more than once"})
	}
	for _, id := range in.Services {
		if _, ok := c.Service(id); !ok {
			violations = append(violations, selectionViolation{"services", id, "unknown service"})
		}
	}
	for _, id := range types.IDList(in.Addons).Duplicates() {
		violations = append(violations, selectionViolation{"addons", id, "selected more than once"})
	}
	for _, id := range in.Addons {
		if _, ok := c.Addon(id); !ok {
			violations = append(violations, selectionViolation{"addons", id, "unknown add-on"})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "quote selection does not match the pricing catalog").WithDetails(violations)
}

func (in UpdateQuoteInput) fields() map[string]any {
	fields := map[string]any{}
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = trimmedOrNil(v)
		}
	}
	set("customer_name", in.CustomerName)
	set("customer_email", in.CustomerEmail)
	set("customer_phone", in.CustomerPhone)
	set("vehicle_year", in.VehicleYear)
	set("vehicle_make", in.VehicleMake)
	set("vehicle_model", in.VehicleModel)
	set("notes", in.Notes)
	switch {
	case in.ClearValidUntil:
		fields["valid_until"] = nil
	case in.ValidUntil != nil:
		fields["valid_until"] = in.ValidUntil.UTC()
	}
	return fields
}

func isShareIDCollision(err error) bool {
	return db.IsUniqueViolation(err, shareIDConstraint) || db.IsUniqueViolation(err, "quotes.share_id")
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
