package validators

import (
	"strings"
	"unicode/utf8"
)

// TrimText trims surrounding whitespace and cuts s to at most maxRunes
// characters without splitting a multi-byte rune. maxRunes <= 0 disables
// the cut.
func TrimText(s string, maxRunes int) string {
	s = strings.TrimSpace(s)
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	i, n := 0, 0
	for n < maxRunes {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n++
	}
	return strings.TrimSpace(s[:i])
}
