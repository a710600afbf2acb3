package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/withholding/internal/config"
	withholdingdomain "github.com/smallbiznis/withholding/internal/withholding/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubWithholdingService struct {
	lastEvent withholdingdomain.DocumentEvent
	outcomes  []withholdingdomain.Outcome
	records   []withholdingdomain.Withholding
	err       error
}

func (s *stubWithholdingService) EvaluateDocument(_ context.Context, event withholdingdomain.DocumentEvent) ([]withholdingdomain.Outcome, error) {
	s.lastEvent = event
	return s.outcomes, s.err
}

func (s *stubWithholdingService) ListByOrder(_ context.Context, _ snowflake.ID) ([]withholdingdomain.Withholding, error) {
	return s.records, s.err
}

func setupServerTest(t *testing.T) (*Server, *stubWithholdingService) {
	t.Helper()
	stub := &stubWithholdingService{}
	log := zap.NewNop()
	srv := NewServer(ServerParams{
		Gin:            NewEngine(log),
		Cfg:            config.Config{HTTPAddr: ":0"},
		WithholdingSvc: stub,
		Log:            log,
	})
	return srv, stub
}

func TestEvaluateDocumentEvent_OK(t *testing.T) {
	srv, stub := setupServerTest(t)
	stub.outcomes = []withholdingdomain.Outcome{{Applicable: true}}

	body := `{"kind":"order","record_id":"123456789","trigger":"after_change","changed":{"business_partner":true}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/document-events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, snowflake.ID(123456789), stub.lastEvent.RecordID)
	assert.Equal(t, withholdingdomain.TriggerAfterChange, stub.lastEvent.Trigger)
	assert.True(t, stub.lastEvent.Changed.BusinessPartner)
	assert.Contains(t, rec.Body.String(), "outcomes")
}

func TestEvaluateDocumentEvent_RejectsUnknownKind(t *testing.T) {
	srv, _ := setupServerTest(t)

	body := `{"kind":"invoice","record_id":"1","trigger":"after_new"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/document-events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_kind")
}

func TestEvaluateDocumentEvent_RejectsMissingFields(t *testing.T) {
	srv, _ := setupServerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/document-events", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvaluateDocumentEvent_DocumentNotFound(t *testing.T) {
	srv, stub := setupServerTest(t)
	stub.err = withholdingdomain.ErrDocumentNotFound

	body := `{"kind":"order","record_id":"42","trigger":"after_new"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/document-events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrderWithholdings_OK(t *testing.T) {
	srv, stub := setupServerTest(t)
	stub.records = []withholdingdomain.Withholding{{ID: 7, Status: withholdingdomain.StatusDrafted}}

	req := httptest.NewRequest(http.MethodGet, "/v1/orders/7/withholdings", nil)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "withholdings")
}

func TestListOrderWithholdings_BadID(t *testing.T) {
	srv, _ := setupServerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/orders/not-a-number/withholdings", nil)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	srv, _ := setupServerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
