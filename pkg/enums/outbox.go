package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type column of outbox_events.
type OutboxAggregateType string

const (
	AggregateQuote    OutboxAggregateType = "quote"
	AggregateBusiness OutboxAggregateType = "business"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateQuote,
	AggregateBusiness,
}

// IsValid reports whether the value matches a known aggregate type.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type column of outbox_events.
type OutboxEventType string

const (
	EventQuoteCreated    OutboxEventType = "quote_created"
	EventQuoteSent       OutboxEventType = "quote_sent"
	EventQuoteViewed     OutboxEventType = "quote_viewed"
	EventQuoteAccepted   OutboxEventType = "quote_accepted"
	EventQuoteDeclined   OutboxEventType = "quote_declined"
	EventQuoteExpired    OutboxEventType = "quote_expired"
	EventQuoteDeleted    OutboxEventType = "quote_deleted"
	EventBusinessCreated OutboxEventType = "business_created"
	EventBusinessDeleted OutboxEventType = "business_deleted"
)

var validOutboxEventTypes = []OutboxEventType{
	EventQuoteCreated,
	EventQuoteSent,
	EventQuoteViewed,
	EventQuoteAccepted,
	EventQuoteDeclined,
	EventQuoteExpired,
	EventQuoteDeleted,
	EventBusinessCreated,
	EventBusinessDeleted,
}

// IsValid reports whether the value matches a known event type.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}

// QuoteEventForStatus returns the event emitted when a quote enters status.
func QuoteEventForStatus(status QuoteStatus) (OutboxEventType, bool) {
	switch status {
	case QuoteStatusSent:
		return EventQuoteSent, true
	case QuoteStatusViewed:
		return EventQuoteViewed, true
	case QuoteStatusAccepted:
		return EventQuoteAccepted, true
	case QuoteStatusDeclined:
		return EventQuoteDeclined, true
	case QuoteStatusExpired:
		return EventQuoteExpired, true
	default:
		return "", false
	}
}

// OutboxDLQErrorReason records why the publisher stopped retrying a row.
type OutboxDLQErrorReason string

const (
	OutboxDLQReasonMaxAttempts  OutboxDLQErrorReason = "max_attempts"
	OutboxDLQReasonNonRetryable OutboxDLQErrorReason = "non_retryable"
)

func (r OutboxDLQErrorReason) IsValid() bool {
	return r == OutboxDLQReasonMaxAttempts || r == OutboxDLQReasonNonRetryable
}
