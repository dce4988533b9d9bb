package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
)

// IntRange bounds an integer query parameter. Default applies when the
// parameter is absent or blank.
type IntRange struct {
	Default int
	Min     int
	Max     int
}

func QueryInt(r *http.Request, key string, bounds IntRange) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return bounds.Default, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid query parameter").
			WithDetails(map[string]string{key: "must be an integer"})
	}
	if value < bounds.Min || value > bounds.Max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid query parameter").
			WithDetails(map[string]string{key: "must be between " + strconv.Itoa(bounds.Min) + " and " + strconv.Itoa(bounds.Max)})
	}
	return value, nil
}
