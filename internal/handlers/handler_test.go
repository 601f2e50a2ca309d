package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/cotizador/internal/adapters/sheets"
	"github.com/csg33k/cotizador/internal/domain"
	"github.com/csg33k/cotizador/internal/handlers"
	"github.com/csg33k/cotizador/internal/ports"
	"github.com/csg33k/cotizador/internal/quoting"
	"github.com/csg33k/cotizador/internal/recipients"
	"github.com/csg33k/cotizador/internal/templates"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

type sheetStub struct {
	probeErr error
	writes   int
}

func (s *sheetStub) Probe(ctx context.Context) error { return s.probeErr }
func (s *sheetStub) ReadColumn(ctx context.Context, rng string) ([]string, error) {
	return []string{"Fecha"}, nil
}
func (s *sheetStub) UpdateRange(ctx context.Context, rng string, values []string) (string, error) {
	s.writes++
	return rng, nil
}
func (s *sheetStub) AppendRow(ctx context.Context, rng string, values []string) (string, error) {
	s.writes++
	return rng, nil
}

type mailStub struct {
	sent []domain.Email
}

func (m *mailStub) Send(ctx context.Context, e domain.Email) (string, error) {
	m.sent = append(m.sent, e)
	return "msg-" + e.To[0], nil
}

type harness struct {
	routes    http.Handler
	sheet     *sheetStub
	mail      *mailStub
	factories int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{sheet: &sheetStub{}, mail: &mailStub{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := quoting.New(quoting.Config{
		Sheets: func(ctx context.Context) (ports.SheetService, error) {
			h.factories++
			return h.sheet, nil
		},
		Recorder: sheets.NewRecorder("", sheets.ModeUpdate, logger),
		Mailer:   h.mail,
		Resolver: recipients.New(recipients.Addresses{
			Salud:       "salud@seguros.test",
			Default:     "info@seguros.test",
			Empresarial: "empresas@seguros.test",
			CC:          "gerencia@seguros.test",
		}),
		Composer: templates.Composer{},
		From:     "Cotizador <cotizaciones@resend.dev>",
		Now:      func() time.Time { return time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC) },
		Logger:   logger,
	})
	h.routes = handlers.New(orch, logger).Routes()
	return h
}

func (h *harness) do(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.routes.ServeHTTP(rec, req)
	resp := rec.Result()
	var out map[string]any
	raw := rec.Body.Bytes()
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func assertCORS(t *testing.T, resp *http.Response) {
	t.Helper()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type", resp.Header.Get("Access-Control-Allow-Headers"))
}

const scenarioA = `{
	"formData": {"nombreCompleto": "Ana", "telefono": "3001234567"},
	"quoteId": "123456",
	"quoteType": "salud",
	"userEmail": "ana@x.com"
}`

// ---------------------------------------------------------------------------
// Scenarios
// ---------------------------------------------------------------------------

func TestSendQuote_ScenarioA(t *testing.T) {
	h := newHarness(t)
	resp, body := h.do(t, http.MethodPost, "/api/send-quote", scenarioA)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assertCORS(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["sheetsSuccess"])
	assert.Equal(t, domain.MessageSuccess, body["message"])
	assert.Equal(t, "personal", body["quoteType"])
	assert.Equal(t, "msg-salud@seguros.test", body["adminEmailId"])
	assert.Equal(t, "msg-ana@x.com", body["userEmailId"])
	assert.Equal(t, 1, h.sheet.writes)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestSendQuote_ScenarioB_BusinessRecipients(t *testing.T) {
	h := newHarness(t)
	resp, body := h.do(t, http.MethodPost, "/api/send-quote", `{
		"formData": {"razonSocial": "Acme SAS", "nit": "900123456"},
		"quoteId": "222222",
		"quoteType": "arl",
		"isBusinessQuote": true
	}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "empresarial", body["quoteType"])
	require.Len(t, h.mail.sent, 1)
	assert.Equal(t, []string{"empresas@seguros.test"}, h.mail.sent[0].To)
	assert.Nil(t, body["userEmailId"])
}

func TestSendQuote_ScenarioC_MethodNotAllowed(t *testing.T) {
	for _, m := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodOptions} {
		t.Run(m, func(t *testing.T) {
			h := newHarness(t)
			resp, body := h.do(t, m, "/api/send-quote", "")
			assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
			assertCORS(t, resp)
			assert.Equal(t, map[string]any{"error": "Method not allowed"}, body)
			assert.Zero(t, h.factories)
			assert.Empty(t, h.mail.sent)
		})
	}
}

func TestSendQuote_ScenarioD_MissingQuoteID(t *testing.T) {
	h := newHarness(t)
	resp, body := h.do(t, http.MethodPost, "/api/send-quote", `{"formData":{"nombre":"Ana"},"quoteType":"salud"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assertCORS(t, resp)
	assert.Equal(t, map[string]any{"success": false, "error": "Faltan datos en la solicitud."}, body)
	assert.Zero(t, h.factories)
	assert.Empty(t, h.mail.sent)
}

func TestSendQuote_MissingFieldsTable(t *testing.T) {
	for name, payload := range map[string]string{
		"no formData":   `{"quoteId":"1","quoteType":"salud"}`,
		"null formData": `{"formData":null,"quoteId":"1","quoteType":"salud"}`,
		"no quoteType":  `{"formData":{},"quoteId":"1"}`,
		"empty id":      `{"formData":{},"quoteId":"","quoteType":"vida"}`,
		"empty object":  `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			resp, _ := h.do(t, http.MethodPost, "/api/send-quote", payload)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Zero(t, h.factories)
		})
	}
}

func TestSendQuote_BlankQuoteIDIsAccepted(t *testing.T) {
	h := newHarness(t)
	resp, body := h.do(t, http.MethodPost, "/api/send-quote", `{"formData":{},"quoteId":"  ","quoteType":"salud"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
}

func TestSendQuote_ScenarioE_ProbeFailure(t *testing.T) {
	h := newHarness(t)
	h.sheet.probeErr = errors.New("spreadsheet not found")
	resp, body := h.do(t, http.MethodPost, "/api/send-quote", scenarioA)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["sheetsSuccess"])
	assert.Equal(t, domain.MessageSheetsFailed, body["message"])
	assert.NotNil(t, body["adminEmailId"])
	assert.NotNil(t, body["userEmailId"])
	assert.Len(t, h.mail.sent, 2)
}

func TestSendQuote_MalformedBody(t *testing.T) {
	for name, payload := range map[string]string{
		"not json":        `{"formData":`,
		"empty":           ``,
		"formData string": `{"formData":"x","quoteId":"1","quoteType":"salud"}`,
		"oversized":       `{"formData":{"mensaje":"` + strings.Repeat("a", 1<<20) + `"},"quoteId":"1","quoteType":"salud"}`,
	} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			resp, body := h.do(t, http.MethodPost, "/api/send-quote", payload)
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assertCORS(t, resp)
			assert.Equal(t, map[string]any{"success": false, "error": "Error al procesar la cotización"}, body)
			assert.Zero(t, h.factories)
		})
	}
}

func TestSendQuote_NumericQuoteID(t *testing.T) {
	h := newHarness(t)
	resp, _ := h.do(t, http.MethodPost, "/api/send-quote", `{"formData":{},"quoteId":654321,"quoteType":"hogar"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, h.mail.sent, 1)
	assert.Contains(t, h.mail.sent[0].Subject, "#654321")
}

// Same request twice: two rows, four emails.
func TestSendQuote_NotIdempotent(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 2; i++ {
		resp, _ := h.do(t, http.MethodPost, "/api/send-quote", scenarioA)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, 2, h.sheet.writes)
	assert.Len(t, h.mail.sent, 4)
}

// ---------------------------------------------------------------------------
// Ambient routes
// ---------------------------------------------------------------------------

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	resp, body := h.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assertCORS(t, resp)
}

func TestRequestIDPropagated(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.routes.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestMetricsExposed(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodPost, "/api/send-quote", scenarioA)

	rec := httptest.NewRecorder()
	h.routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cotizador_side_effects_total")
}
