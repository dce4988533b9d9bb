package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/detailpro/detailpro-backend/pkg/enums"
	"github.com/detailpro/detailpro-backend/pkg/logger"
	"github.com/detailpro/detailpro-backend/pkg/outbox"
)

const analyticsConsumer = "quote-analytics"

type receiver interface {
	Receive(ctx context.Context, f func(context.Context, *pubsub.Message)) error
}

type eventGuard interface {
	CheckAndMarkProcessed(ctx context.Context, consumer, eventID string) (bool, error)
	Delete(ctx context.Context, consumer, eventID string) error
}

type rowWriter interface {
	Write(ctx context.Context, row *QuoteEventRow) error
}

type ConsumerParams struct {
	Subscription receiver
	Guard        eventGuard
	Writer       rowWriter
	Logger       *logger.Logger
}

// Consumer lands every quote and business event as a BigQuery row.
type Consumer struct {
	sub    receiver
	guard  eventGuard
	writer rowWriter
	logg   *logger.Logger
	now    func() time.Time
}

func NewConsumer(params ConsumerParams) (*Consumer, error) {
	switch {
	case params.Subscription == nil:
		return nil, fmt.Errorf("subscription required")
	case params.Guard == nil:
		return nil, fmt.Errorf("idempotency guard required")
	case params.Writer == nil:
		return nil, fmt.Errorf("row writer required")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		sub:    params.Subscription,
		guard:  params.Guard,
		writer: params.Writer,
		logg:   params.Logger,
		now:    time.Now,
	}, nil
}

func (c *Consumer) Run(ctx context.Context) error {
	return c.sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if c.process(ctx, msg) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) bool {
	ctx = c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": msg.Attributes["event_type"],
	})

	eventType, err := enums.ParseOutboxEventType(msg.Attributes["event_type"])
	if err != nil {
		c.logg.Warn(ctx, "unknown event type; dropping")
		return true
	}
	aggregateType, err := enums.ParseOutboxAggregateType(msg.Attributes["aggregate_type"])
	if err != nil {
		c.logg.Warn(ctx, "unknown aggregate type; dropping")
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
	row, err := BuildRow(eventType, aggregateType, msg.Attributes["aggregate_id"], envelope, c.now())
	if err != nil {
		c.logg.Error(ctx, "failed to build row", err)
		return true
	}
	ctx = c.logg.WithFields(ctx, map[string]any{"event_id": envelope.EventID})

	seen, err := c.guard.CheckAndMarkProcessed(ctx, analyticsConsumer, envelope.EventID)
	if err != nil {
		c.logg.Error(ctx, "idempotency check failed", err)
		return false
	}
	if seen {
		c.logg.Info(ctx, "event already processed")
		return true
	}

	if err := c.writer.Write(ctx, row); err != nil {
		c.logg.Error(ctx, "analytics insert failed", err)
		if delErr := c.guard.Delete(ctx, analyticsConsumer, envelope.EventID); delErr != nil {
			c.logg.Error(ctx, "failed to release idempotency claim", delErr)
		}
		return false
	}
	return true
}
