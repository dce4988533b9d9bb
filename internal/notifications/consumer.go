package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/detailpro/detailpro-backend/pkg/db/models"
	"github.com/detailpro/detailpro-backend/pkg/enums"
	"github.com/detailpro/detailpro-backend/pkg/logger"
	"github.com/detailpro/detailpro-backend/pkg/mailer"
	"github.com/detailpro/detailpro-backend/pkg/outbox"
	"github.com/detailpro/detailpro-backend/pkg/outbox/payloads"
)

const ownerAlertConsumer = "owner-alerts"

type receiver interface {
	Receive(ctx context.Context, f func(context.Context, *pubsub.Message)) error
}

type eventGuard interface {
	CheckAndMarkProcessed(ctx context.Context, consumer, eventID string) (bool, error)
	Delete(ctx context.Context, consumer, eventID string) error
}

type quoteFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
}

type businessFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
}

type ConsumerParams struct {
	Subscription receiver
	Guard        eventGuard
	Quotes       quoteFinder
	Businesses   businessFinder
	Mailer       mailer.Mailer
	QuoteURL     func(shareID string) string
	Logger       *logger.Logger
}

// Consumer reads quote events from Pub/Sub and emails the owning business
// when a customer accepts or declines.
type Consumer struct {
	sub        receiver
	guard      eventGuard
	quotes     quoteFinder
	businesses businessFinder
	mailer     mailer.Mailer
	quoteURL   func(string) string
	logg       *logger.Logger
}

func NewConsumer(params ConsumerParams) (*Consumer, error) {
	switch {
	case params.Subscription == nil:
		return nil, fmt.Errorf("subscription required")
	case params.Guard == nil:
		return nil, fmt.Errorf("idempotency guard required")
	case params.Quotes == nil:
		return nil, fmt.Errorf("quote lookup required")
	case params.Businesses == nil:
		return nil, fmt.Errorf("business lookup required")
	case params.Mailer == nil:
		return nil, fmt.Errorf("mailer required")
	case params.QuoteURL == nil:
		return nil, fmt.Errorf("quote url builder required")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		sub:        params.Subscription,
		guard:      params.Guard,
		quotes:     params.Quotes,
		businesses: params.Businesses,
		mailer:     params.Mailer,
		quoteURL:   params.QuoteURL,
		logg:       params.Logger,
	}, nil
}

// Run receives until ctx is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if c.process(ctx, msg) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
}

// process reports whether msg should be acked. Malformed messages are acked
// so they do not redeliver forever; transient failures are nacked.
func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) bool {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	ctx = c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": string(eventType),
	})

	if eventType != enums.EventQuoteAccepted && eventType != enums.EventQuoteDeclined {
		return true
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(ctx, "failed to decode envelope", err)
		return true
	}
	if _, err := uuid.Parse(envelope.EventID); err != nil {
		c.logg.Error(ctx, "invalid event id", err)
		return true
	}
	var payload payloads.QuoteStatusChangedEvent
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		c.logg.Error(ctx, "failed to decode payload", err)
		return true
	}
	ctx = c.logg.WithFields(ctx, map[string]any{
		"event_id": envelope.EventID,
		"quote_id": payload.QuoteID.String(),
	})

	seen, err := c.guard.CheckAndMarkProcessed(ctx, ownerAlertConsumer, envelope.EventID)
	if err != nil {
		c.logg.Error(ctx, "idempotency check failed", err)
		return false
	}
	if seen {
		c.logg.Info(ctx, "event already processed")
		return true
	}

	if err := c.alert(ctx, payload); err != nil {
		c.logg.Error(ctx, "owner alert failed", err)
		if delErr := c.guard.Delete(ctx, ownerAlertConsumer, envelope.EventID); delErr != nil {
			c.logg.Error(ctx, "failed to release idempotency claim", delErr)
		}
		return false
	}
	return true
}

func (c *Consumer) alert(ctx context.Context, payload payloads.QuoteStatusChangedEvent) error {
	quote, err := c.quotes.FindByID(ctx, payload.QuoteID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.logg.Info(ctx, "quote deleted before alert; skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load quote: %w", err)
	}
	business, err := c.businesses.FindByID(ctx, quote.BusinessID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.logg.Info(ctx, "business missing; skipping alert")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load business: %w", err)
	}
	if business.Email == nil || strings.TrimSpace(*business.Email) == "" {
		c.logg.Info(ctx, "business has no email; skipping alert")
		return nil
	}

	alert := OwnerAlert{
		Recipient:    strings.TrimSpace(*business.Email),
		BusinessName: business.Name,
		Outcome:      strings.ToLower(payload.To.String()),
		Total:        FormatTotal(quote.Total),
		QuoteURL:     c.quoteURL(quote.ShareID),
	}
	if quote.CustomerName != nil {
		alert.CustomerName = *quote.CustomerName
	}
	msg, err := RenderOwnerAlert(alert)
	if err != nil {
		return err
	}
	if err := c.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send owner alert: %w", err)
	}
	c.logg.Info(ctx, "owner alerted")
	return nil
}
