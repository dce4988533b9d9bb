package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/detailpro/detailpro-backend/pkg/enums"
)

// QuoteCreatedEvent is emitted when a draft quote is persisted.
type QuoteCreatedEvent struct {
	QuoteID    uuid.UUID         `json:"quote_id"`
	ShareID    string            `json:"share_id"`
	BusinessID uuid.UUID         `json:"business_id"`
	UserID     uuid.UUID         `json:"user_id"`
	Total      string            `json:"total"`
	Status     enums.QuoteStatus `json:"status"`
}

// QuoteStatusChangedEvent covers every lifecycle move (sent, viewed,
// accepted, declined, expired).
type QuoteStatusChangedEvent struct {
	QuoteID    uuid.UUID         `json:"quote_id"`
	ShareID    string            `json:"share_id"`
	BusinessID uuid.UUID         `json:"business_id"`
	From       enums.QuoteStatus `json:"from"`
	To         enums.QuoteStatus `json:"to"`
	ViewCount  int               `json:"view_count"`
	Recipient  *string           `json:"recipient,omitempty"`
	ChangedAt  time.Time         `json:"changed_at"`
}

// QuoteDeletedEvent records a hard delete by the owner or an admin.
type QuoteDeletedEvent struct {
	QuoteID    uuid.UUID `json:"quote_id"`
	BusinessID uuid.UUID `json:"business_id"`
	DeletedBy  uuid.UUID `json:"deleted_by"`
}

// BusinessCreatedEvent is emitted once per tenant sign-up.
type BusinessCreatedEvent struct {
	BusinessID uuid.UUID `json:"business_id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
}

// BusinessDeletedEvent records an admin removing a tenant and its quotes.
type BusinessDeletedEvent struct {
	BusinessID    uuid.UUID `json:"business_id"`
	UserID        uuid.UUID `json:"user_id"`
	QuotesDeleted int64     `json:"quotes_deleted"`
}
