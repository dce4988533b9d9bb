package quotes

import (
	"strings"

	"github.com/google/uuid"
)

const shareIDLength = 32

// newShareID returns 32 lowercase hex characters from a random UUIDv4.
func newShareID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(id.String(), "-", ""), nil
}

// validShareID reports whether s has the shape newShareID produces, so
// malformed links can be rejected without a lookup.
func validShareID(s string) bool {
	if len(s) != shareIDLength {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return false
		}
	}
	return true
}
