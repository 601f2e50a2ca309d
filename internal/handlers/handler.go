package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/csg33k/cotizador/internal/domain"
	"github.com/csg33k/cotizador/internal/metrics"
	"github.com/csg33k/cotizador/internal/quoting"
)

// maxBodyBytes caps the request body of /api/send-quote.
const maxBodyBytes = 1 << 20

// Submitter runs one quote submission.
type Submitter interface {
	Submit(ctx context.Context, s domain.Submission) (domain.Outcome, error)
}

type Handler struct {
	quotes Submitter
	logger *slog.Logger
}

func New(quotes Submitter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{quotes: quotes, logger: logger}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/send-quote", h.sendQuote)
	mux.HandleFunc("GET /healthz", h.healthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	return requestID(cors(h.recoverer(h.accessLog(mux))))
}

// quoteRequest is the body posted by the quote forms.
type quoteRequest struct {
	FormData        domain.FormData  `json:"formData"`
	QuoteID         flexString       `json:"quoteId"`
	QuoteType       domain.QuoteType `json:"quoteType"`
	UserEmail       string           `json:"userEmail"`
	IsBusinessQuote bool             `json:"isBusinessQuote"`
}

// DecodeRequest reads one JSON quote request. Required fields are not
// checked here.
func DecodeRequest(r io.Reader) (domain.Submission, error) {
	var req quoteRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return domain.Submission{}, err
	}
	return domain.Submission{
		FormData:        req.FormData,
		QuoteID:         string(req.QuoteID),
		QuoteType:       req.QuoteType,
		IsBusinessQuote: req.IsBusinessQuote,
		UserEmail:       req.UserEmail,
	}, nil
}

type quoteResponse struct {
	Success       bool    `json:"success"`
	AdminEmailID  *string `json:"adminEmailId"`
	UserEmailID   *string `json:"userEmailId"`
	SheetsSuccess bool    `json:"sheetsSuccess"`
	Message       string  `json:"message"`
	QuoteType     string  `json:"quoteType"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *Handler) sendQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		metrics.RejectedTotal.WithLabelValues("method").Inc()
		respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": domain.MessageMethodNotAllowed})
		return
	}
	log := requestLogger(r.Context(), h.logger)

	s, err := DecodeRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		metrics.RejectedTotal.WithLabelValues("body").Inc()
		log.Error("decode quote request", "err", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: domain.MessageInternalError})
		return
	}

	ctx := quoting.WithLogger(r.Context(), log)
	out, err := h.quotes.Submit(ctx, s)
	switch {
	case errors.Is(err, quoting.ErrInvalidSubmission):
		metrics.RejectedTotal.WithLabelValues("missing_fields").Inc()
		log.Warn("quote request rejected", "err", err)
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: domain.MessageMissingFields})
		return
	case err != nil:
		log.Error("quote submission failed", "quote_id", s.QuoteID, "err", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: domain.MessageInternalError})
		return
	}

	respondJSON(w, http.StatusOK, quoteResponse{
		Success:       true,
		AdminEmailID:  out.AdminEmailID,
		UserEmailID:   out.UserEmailID,
		SheetsSuccess: out.SheetsSuccess,
		Message:       out.Message(),
		QuoteType:     out.Segment,
	})
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("encode response", "err", err)
	}
}

// flexString accepts a JSON string or number. Forms that build the quote
// id with arithmetic send it unquoted.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
