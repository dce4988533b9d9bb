// Package analytics streams quote lifecycle events from Pub/Sub into a
// BigQuery table for funnel reporting (sent, viewed, accepted rates).
package analytics

import (
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"

	"github.com/detailpro/detailpro-backend/pkg/enums"
	"github.com/detailpro/detailpro-backend/pkg/outbox"
)

// QuoteEventRow is one row of the quote_events table.
type QuoteEventRow struct {
	EventID       string
	EventType     enums.OutboxEventType
	AggregateType enums.OutboxAggregateType
	AggregateID   string
	BusinessID    bigquery.NullString
	FromStatus    bigquery.NullString
	ToStatus      bigquery.NullString
	Total         bigquery.NullString
	ViewCount     bigquery.NullInt64
	ActorRole     bigquery.NullString
	OccurredAt    time.Time
	IngestedAt    time.Time
	Payload       bigquery.NullJSON
}

// Save implements bigquery.ValueSaver. The event id doubles as the insert id
// so BigQuery drops retried duplicates on a best-effort basis.
func (r *QuoteEventRow) Save() (map[string]bigquery.Value, string, error) {
	return map[string]bigquery.Value{
		"event_id":       r.EventID,
		"event_type":     string(r.EventType),
		"aggregate_type": string(r.AggregateType),
		"aggregate_id":   r.AggregateID,
		"business_id":    r.BusinessID,
		"from_status":    r.FromStatus,
		"to_status":      r.ToStatus,
		"total":          r.Total,
		"view_count":     r.ViewCount,
		"actor_role":     r.ActorRole,
		"occurred_at":    r.OccurredAt,
		"ingested_at":    r.IngestedAt,
		"payload":        r.Payload,
	}, r.EventID, nil
}

// eventData is the union of the quote and business payload fields the table
// flattens; absent fields stay null.
type eventData struct {
	BusinessID *uuid.UUID        `json:"business_id"`
	From       enums.QuoteStatus `json:"from"`
	To         enums.QuoteStatus `json:"to"`
	Status     enums.QuoteStatus `json:"status"`
	Total      string            `json:"total"`
	ViewCount  *int              `json:"view_count"`
}

// BuildRow flattens a stored outbox envelope into a table row.
func BuildRow(eventType enums.OutboxEventType, aggregateType enums.OutboxAggregateType, aggregateID string, env outbox.PayloadEnvelope, ingestedAt time.Time) (*QuoteEventRow, error) {
	var data eventData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("decode event data: %w", err)
		}
	}

	row := &QuoteEventRow{
		EventID:       env.EventID,
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		OccurredAt:    env.OccurredAt.UTC(),
		IngestedAt:    ingestedAt.UTC(),
		Payload:       bigquery.NullJSON{JSONVal: string(env.Data), Valid: len(env.Data) > 0},
	}
	if data.BusinessID != nil {
		row.BusinessID = nullString(data.BusinessID.String())
	}
	row.FromStatus = nullString(string(data.From))
	row.ToStatus = nullString(string(data.To))
	if !row.ToStatus.Valid {
		// quote_created carries the initial status instead of a transition.
		row.ToStatus = nullString(string(data.Status))
	}
	row.Total = nullString(data.Total)
	if data.ViewCount != nil {
		row.ViewCount = bigquery.NullInt64{Int64: int64(*data.ViewCount), Valid: true}
	}
	if env.Actor != nil {
		row.ActorRole = nullString(env.Actor.Role)
	}
	return row, nil
}

func nullString(v string) bigquery.NullString {
	return bigquery.NullString{StringVal: v, Valid: v != ""}
}
