package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
)

type selectionBody struct {
	ServiceID string `json:"service_id" validate:"required,max=64"`
}

type quoteBody struct {
	CustomerName string        `json:"customer_name" validate:"omitempty,max=8"`
	Selection    selectionBody `json:"selection"`
}

func decode(t *testing.T, body string) (*quoteBody, *pkgerrors.Error) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/quotes", strings.NewReader(body))
	var dest quoteBody
	err := DecodeJSONBody(req, &dest)
	if err == nil {
		return &dest, nil
	}
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	return nil, typed
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	dest, err := decode(t, `{"customer_name":"Jordan","selection":{"service_id":"full"}}`)
	require.Nil(t, err)
	assert.Equal(t, "full", dest.Selection.ServiceID)
}

func TestDecodeJSONBodyReportsNestedFieldPaths(t *testing.T) {
	_, err := decode(t, `{"customer_name":"Jordan Rivers","selection":{}}`)
	require.NotNil(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, err.Code())
	assert.Equal(t, map[string]string{
		"customer_name":        "must be at most 8 characters",
		"selection.service_id": "is required",
	}, err.Details())
}

func TestDecodeJSONBodyRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"empty":          ``,
		"unknown field":  `{"tip":5}`,
		"wrong type":     `{"customer_name":5}`,
		"trailing value": `{"customer_name":"a"} {"customer_name":"b"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decode(t, body)
			require.NotNil(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, err.Code())
		})
	}
}

func TestDecodeJSONBodyRejectsOversizedBody(t *testing.T) {
	huge := `{"customer_name":"` + strings.Repeat("x", MaxBodyBytes) + `"}`
	_, err := decode(t, huge)
	require.NotNil(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, err.Code())
}

func TestQueryInt(t *testing.T) {
	bounds := IntRange{Default: 20, Min: 1, Max: 100}

	req := httptest.NewRequest("GET", "/api/v1/quotes", nil)
	v, err := QueryInt(req, "limit", bounds)
	require.NoError(t, err)
	assert.Equal(t, 20, v)

	req = httptest.NewRequest("GET", "/api/v1/quotes?limit=50", nil)
	v, err = QueryInt(req, "limit", bounds)
	require.NoError(t, err)
	assert.Equal(t, 50, v)

	for _, raw := range []string{"0", "101", "ten"} {
		req = httptest.NewRequest("GET", "/api/v1/quotes?limit="+raw, nil)
		_, err = QueryInt(req, "limit", bounds)
		assert.Error(t, err, raw)
	}
}

func TestTrimText(t *testing.T) {
	assert.Equal(t, "Shine Co", TrimText("  Shine Co  ", 0))
	assert.Equal(t, "Shine", TrimText("Shine Co", 6))
	assert.Equal(t, "Café", TrimText("Café Detailing", 4))
}
