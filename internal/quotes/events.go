package quotes

import (
	"context"

	"gorm.io/gorm"

	"github.com/detailpro/detailpro-backend/pkg/db/models"
	"github.com/detailpro/detailpro-backend/pkg/enums"
	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
	"github.com/detailpro/detailpro-backend/pkg/outbox"
	"github.com/detailpro/detailpro-backend/pkg/outbox/payloads"
)

func actorRef(actor *Actor, q *models.Quote) *outbox.ActorRef {
	if actor == nil {
		return nil
	}
	businessID := q.BusinessID
	return &outbox.ActorRef{
		UserID:     actor.UserID,
		BusinessID: &businessID,
		Role:       string(actor.Role),
	}
}

func (s *service) emitCreated(ctx context.Context, tx *gorm.DB, actor Actor, q *models.Quote) error {
	return s.emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventQuoteCreated,
		AggregateType: enums.AggregateQuote,
		AggregateID:   q.ID,
		Actor:         actorRef(&actor, q),
		Data: payloads.QuoteCreatedEvent{
			QuoteID:    q.ID,
			ShareID:    q.ShareID,
			BusinessID: q.BusinessID,
			UserID:     q.UserID,
			Total:      q.Total.StringFixed(2),
			Status:     q.Status,
		},
	})
}

// emitStatusChange records a lifecycle move. q must already carry the new status.
func (s *service) emitStatusChange(ctx context.Context, tx *gorm.DB, actor *Actor, q *models.Quote, from enums.QuoteStatus, eventType enums.OutboxEventType, recipient *string) error {
	return s.emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateQuote,
		AggregateID:   q.ID,
		Actor:         actorRef(actor, q),
		Data: payloads.QuoteStatusChangedEvent{
			QuoteID:    q.ID,
			ShareID:    q.ShareID,
			BusinessID: q.BusinessID,
			From:       from,
			To:         q.Status,
			ViewCount:  q.ViewCount,
			Recipient:  recipient,
			ChangedAt:  s.now().UTC(),
		},
	})
}

func (s *service) emitDeleted(ctx context.Context, tx *gorm.DB, actor Actor, q *models.Quote) error {
	return s.emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventQuoteDeleted,
		AggregateType: enums.AggregateQuote,
		AggregateID:   q.ID,
		Actor:         actorRef(&actor, q),
		Data: payloads.QuoteDeletedEvent{
			QuoteID:    q.ID,
			BusinessID: q.BusinessID,
			DeletedBy:  actor.UserID,
		},
	})
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit "+string(event.EventType))
	}
	return nil
}
