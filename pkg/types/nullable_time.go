package types

import (
	"bytes"
	"encoding/json"
	"time"
)

// NullableTime tracks whether a timestamp field was explicitly present in
// JSON, so a PATCH can tell "leave alone" from "clear".
type NullableTime struct {
	Valid bool
	Value *time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableTime) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if bytes.Equal(trimmed, []byte("null")) {
		n.Valid = true
		n.Value = nil
		return nil
	}

	var parsed time.Time
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.Valid = true
	n.Value = &parsed
	return nil
}

// Cleared reports an explicit null.
func (n NullableTime) Cleared() bool {
	return n.Valid && n.Value == nil
}
