package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// IDList is an ordered list of catalog item ids persisted as a JSONB array.
type IDList []string

func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l *IDList) Scan(value interface{}) error {
	if value == nil {
		*l = IDList{}
		return nil
	}
	return scanJSON(value, l)
}

// Duplicates returns every id that appears more than once, in first-seen order.
func (l IDList) Duplicates() []string {
	seen := make(map[string]int, len(l))
	var dups []string
	for _, id := range l {
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
	}
	return dups
}

func scanJSON(value interface{}, dest any) error {
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %T: %w", dest, err)
	}
	return nil
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
