package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/detailpro/detailpro-backend/api/middleware"
	"github.com/detailpro/detailpro-backend/internal/quotes"
	"github.com/detailpro/detailpro-backend/pkg/enums"
	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
	"github.com/detailpro/detailpro-backend/pkg/pagination"
)

type stubQuoteService struct {
	quote  *quotes.QuoteDTO
	list   *quotes.QuoteList
	public *quotes.PublicQuoteDTO
	result *quotes.RespondResult
	stats  *quotes.AdminStatsDTO
	err    error

	created   quotes.CreateQuoteInput
	updated   quotes.UpdateQuoteInput
	sent      quotes.SendQuoteInput
	page      pagination.Params
	actor     quotes.Actor
	status    enums.QuoteStatus
	action    enums.QuoteAction
	shareID   string
	deletedID uuid.UUID
}

func (s *stubQuoteService) Create(ctx context.Context, input quotes.CreateQuoteInput) (*quotes.QuoteDTO, error) {
	s.created = input
	return s.quote, s.err
}

func (s *stubQuoteService) List(ctx context.Context, actor quotes.Actor, page pagination.Params) (*quotes.QuoteList, error) {
	s.actor = actor
	s.page = page
	return s.list, s.err
}

func (s *stubQuoteService) ListAll(ctx context.Context, page pagination.Params) (*quotes.QuoteList, error) {
	s.page = page
	return s.list, s.err
}

func (s *stubQuoteService) AdminStats(ctx context.Context) (*quotes.AdminStatsDTO, error) {
	return s.stats, s.err
}

func (s *stubQuoteService) Get(ctx context.Context, actor quotes.Actor, id uuid.UUID) (*quotes.QuoteDTO, error) {
	s.actor = actor
	return s.quote, s.err
}

func (s *stubQuoteService) Update(ctx context.Context, actor quotes.Actor, id uuid.UUID, input quotes.UpdateQuoteInput) (*quotes.QuoteDTO, error) {
	s.updated = input
	return s.quote, s.err
}

func (s *stubQuoteService) Delete(ctx context.Context, actor quotes.Actor, id uuid.UUID) error {
	s.deletedID = id
	return s.err
}

func (s *stubQuoteService) DeleteAny(ctx context.Context, actor quotes.Actor, id uuid.UUID) error {
	s.actor = actor
	s.deletedID = id
	return s.err
}

func (s *stubQuoteService) Send(ctx context.Context, id uuid.UUID, input quotes.SendQuoteInput) (*quotes.QuoteDTO, error) {
	s.sent = input
	return s.quote, s.err
}

func (s *stubQuoteService) MarkStatus(ctx context.Context, actor quotes.Actor, id uuid.UUID, status enums.QuoteStatus) (*quotes.QuoteDTO, error) {
	s.actor = actor
	s.status = status
	return s.quote, s.err
}

func (s *stubQuoteService) OpenPublic(ctx context.Context, shareID string) (*quotes.PublicQuoteDTO, error) {
	s.shareID = shareID
	return s.public, s.err
}

func (s *stubQuoteService) Respond(ctx context.Context, shareID string, action enums.QuoteAction) (*quotes.RespondResult, error) {
	s.shareID = shareID
	s.action = action
	return s.result, s.err
}

func authed(req *http.Request, userID uuid.UUID, role enums.MemberRole) *http.Request {
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithRole(ctx, string(role))
	return req.WithContext(ctx)
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code
}

func TestQuoteCreateSuccess(t *testing.T) {
	userID := uuid.New()
	quoteID := uuid.New()
	svc := &stubQuoteService{quote: &quotes.QuoteDTO{ID: quoteID, Status: enums.QuoteStatusDraft, Total: 156}}
	handler := QuoteCreate(svc, nil)

	body := `{"vehicle_size":" sedan ","condition":"light","services":["exterior"],"addons":["engine"],"customer_name":"Dana"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", bytes.NewBufferString(body))
	req = authed(req, userID, enums.MemberRoleOwner)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.created.Actor.UserID != userID || svc.created.Actor.Role != enums.MemberRoleOwner {
		t.Fatalf("unexpected actor %+v", svc.created.Actor)
	}
	if svc.created.VehicleSize != "sedan" {
		t.Fatalf("expected trimmed vehicle size, got %q", svc.created.VehicleSize)
	}
	if len(svc.created.Services) != 1 || svc.created.Addons[0] != "engine" {
		t.Fatalf("unexpected selection %+v", svc.created)
	}

	var envelope struct {
		Data quotes.QuoteDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != quoteID {
		t.Fatalf("expected id %s got %s", quoteID, envelope.Data.ID)
	}
}

func TestQuoteCreateRejectsUnknownFields(t *testing.T) {
	svc := &stubQuoteService{}
	handler := QuoteCreate(svc, nil)

	body := `{"vehicle_size":"sedan","condition":"light","services":["exterior"],"total":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", bytes.NewBufferString(body))
	req = authed(req, uuid.New(), enums.MemberRoleOwner)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation code, got %s", code)
	}
}

func TestQuoteCreateCapsSelectionSize(t *testing.T) {
	ids := make([]string, 51)
	for i := range ids {
		ids[i] = fmt.Sprintf("svc-%d", i)
	}
	list, err := json.Marshal(ids)
	if err != nil {
		t.Fatalf("marshal ids: %v", err)
	}

	for _, field := range []string{"services", "addons"} {
		svc := &stubQuoteService{}
		handler := QuoteCreate(svc, nil)

		body := fmt.Sprintf(`{"vehicle_size":"sedan","condition":"light","services":["exterior"],%q:%s}`, field, list)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", bytes.NewBufferString(body))
		req = authed(req, uuid.New(), enums.MemberRoleOwner)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", field, rec.Code)
		}
		if svc.created.VehicleSize != "" {
			t.Fatalf("%s: service should not be called", field)
		}
	}
}

func TestQuoteCreateMissingIdentity(t *testing.T) {
	handler := QuoteCreate(&stubQuoteService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestQuoteGetMapsErrorCodes(t *testing.T) {
	cases := []struct {
		code   pkgerrors.Code
		status int
	}{
		{pkgerrors.CodeValidation, http.StatusBadRequest},
		{pkgerrors.CodeUnauthorized, http.StatusUnauthorized},
		{pkgerrors.CodeForbidden, http.StatusForbidden},
		{pkgerrors.CodeNotFound, http.StatusNotFound},
		{pkgerrors.CodeConflict, http.StatusConflict},
		{pkgerrors.CodeAlreadyFinalized, http.StatusConflict},
		{pkgerrors.CodeQuoteExpired, http.StatusGone},
		{pkgerrors.CodeStateConflict, http.StatusUnprocessableEntity},
		{pkgerrors.CodeIdempotency, http.StatusConflict},
		{pkgerrors.CodeInternal, http.StatusInternalServerError},
		{pkgerrors.CodeDependency, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			handler := QuoteGet(&stubQuoteService{err: pkgerrors.New(tc.code, "boom")}, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/x", nil)
			req = authed(req, uuid.New(), enums.MemberRoleOwner)
			req = withURLParams(req, map[string]string{"quoteId": uuid.NewString()})
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected %d got %d", tc.status, rec.Code)
			}
			if code := decodeErrorCode(t, rec); code != string(tc.code) {
				t.Fatalf("expected code %s got %s", tc.code, code)
			}
		})
	}
}

func TestQuoteGetInvalidID(t *testing.T) {
	handler := QuoteGet(&stubQuoteService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/nope", nil)
	req = authed(req, uuid.New(), enums.MemberRoleOwner)
	req = withURLParams(req, map[string]string{"quoteId": "nope"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestQuoteUpdateNullValidUntilClears(t *testing.T) {
	svc := &stubQuoteService{quote: &quotes.QuoteDTO{}}
	handler := QuoteUpdate(svc, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/quotes/x", bytes.NewBufferString(`{"valid_until":null,"notes":"ceramic next time"}`))
	req = authed(req, uuid.New(), enums.MemberRoleOwner)
	req = withURLParams(req, map[string]string{"quoteId": uuid.NewString()})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if !svc.updated.ClearValidUntil || svc.updated.ValidUntil != nil {
		t.Fatalf("expected clear flag, got %+v", svc.updated)
	}
	if svc.updated.Notes == nil || *svc.updated.Notes != "ceramic next time" {
		t.Fatalf("unexpected notes %+v", svc.updated.Notes)
	}
}

func TestQuoteUpdateAbsentValidUntilLeavesAlone(t *testing.T) {
	svc := &stubQuoteService{quote: &quotes.QuoteDTO{}}
	handler := QuoteUpdate(svc, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/quotes/x", bytes.NewBufferString(`{"customer_name":"Lee"}`))
	req = authed(req, uuid.New(), enums.MemberRoleOwner)
	req = withURLParams(req, map[string]string{"quoteId": uuid.NewString()})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.updated.ClearValidUntil || svc.updated.ValidUntil != nil {
		t.Fatalf("valid_until should be untouched, got %+v", svc.updated)
	}
}

func TestQuoteListLimitOutOfRange(t *testing.T) {
	handler := QuoteList(&stubQuoteService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes?limit=500", nil)
	req = authed(req, uuid.New(), enums.MemberRoleOwner)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestQuoteListPassesCursor(t *testing.T) {
	svc := &stubQuoteService{list: &quotes.QuoteList{Items: []quotes.QuoteSummaryDTO{}, NextCursor: "next"}}
	handler := QuoteList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes?limit=10&cursor=abc", nil)
	req = authed(req, uuid.New(), enums.MemberRoleOwner)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.page.Limit != 10 || svc.page.Cursor != "abc" {
		t.Fatalf("unexpected page params %+v", svc.page)
	}
}

func TestQuoteSendTrimsEmail(t *testing.T) {
	svc := &stubQuoteService{quote: &quotes.QuoteDTO{Status: enums.QuoteStatusSent}}
	handler := QuoteSend(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/x/send", bytes.NewBufferString(`{"email":"  dana@example.com "}`))
	req = authed(req, uuid.New(), enums.MemberRoleOwner)
	req = withURLParams(req, map[string]string{"quoteId": uuid.NewString()})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.sent.Email != "dana@example.com" {
		t.Fatalf("expected trimmed email, got %q", svc.sent.Email)
	}
}

func TestQuoteSendDependencyFailure(t *testing.T) {
	svc := &stubQuoteService{err: pkgerrors.New(pkgerrors.CodeDependency, "email delivery failed")}
	handler := QuoteSend(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/x/send", bytes.NewBufferString(`{"email":"dana@example.com"}`))
	req = authed(req, uuid.New(), enums.MemberRoleOwner)
	req = withURLParams(req, map[string]string{"quoteId": uuid.NewString()})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
}

func TestQuoteMarkStatusRejectsUnknownStatus(t *testing.T) {
	svc := &stubQuoteService{}
	handler := QuoteMarkStatus(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/x/status", bytes.NewBufferString(`{"status":"ARCHIVED"}`))
	req = authed(req, uuid.New(), enums.MemberRoleOwner)
	req = withURLParams(req, map[string]string{"quoteId": uuid.NewString()})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.status != "" {
		t.Fatalf("service should not be called, got %s", svc.status)
	}
}

func TestAdminQuoteMarkStatusPassesAdminActor(t *testing.T) {
	svc := &stubQuoteService{quote: &quotes.QuoteDTO{Status: enums.QuoteStatusSent}}
	handler := AdminQuoteMarkStatus(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/quotes/x/status", bytes.NewBufferString(`{"status":"SENT"}`))
	req = authed(req, uuid.New(), enums.MemberRoleAdmin)
	req = withURLParams(req, map[string]string{"quoteId": uuid.NewString()})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !svc.actor.IsAdmin() || svc.status != enums.QuoteStatusSent {
		t.Fatalf("unexpected call actor=%+v status=%s", svc.actor, svc.status)
	}
}

func TestAdminQuoteDelete(t *testing.T) {
	quoteID := uuid.New()
	svc := &stubQuoteService{}
	handler := AdminQuoteDelete(svc, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/quotes/x", nil)
	req = authed(req, uuid.New(), enums.MemberRoleAdmin)
	req = withURLParams(req, map[string]string{"quoteId": quoteID.String()})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.deletedID != quoteID {
		t.Fatalf("expected delete of %s got %s", quoteID, svc.deletedID)
	}
}
