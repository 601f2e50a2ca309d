// Package quoting runs one quote submission through its three side effects:
// the spreadsheet row, the admin notice and the customer confirmation.
// Each step is attempted once, in that order, and a failure in one never
// stops the next.
package quoting

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/csg33k/cotizador/internal/adapters/pdf"
	"github.com/csg33k/cotizador/internal/domain"
	"github.com/csg33k/cotizador/internal/metrics"
	"github.com/csg33k/cotizador/internal/ports"
	"github.com/csg33k/cotizador/internal/templates"
)

// ErrInvalidSubmission is returned when formData, quoteId or quoteType is
// missing. Nothing has been attempted when it is returned.
var ErrInvalidSubmission = errors.New("invalid submission")

// Resolver picks the admin recipients for a submission.
type Resolver interface {
	Resolve(q domain.QuoteType, business bool) domain.RecipientSet
}

// Composer renders both notification emails.
type Composer interface {
	Compose(ctx context.Context, s domain.Submission, row domain.Row) (templates.Notification, error)
}

// Config wires an Orchestrator. Sheets may be nil, in which case the row is
// never written and sheetsSuccess is always false.
type Config struct {
	Sheets   ports.SheetsFactory
	Recorder ports.Recorder
	Mailer   ports.Mailer
	Resolver Resolver
	Composer Composer

	From          string
	Brand         string
	Location      *time.Location
	AttachReceipt bool
	Now           func() time.Time
	Logger        *slog.Logger
}

type Orchestrator struct {
	cfg Config
}

func New(cfg Config) *Orchestrator {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Brand == "" {
		cfg.Brand = templates.DefaultBrand
	}
	return &Orchestrator{cfg: cfg}
}

// Validate checks the three required top-level fields. Only absent or empty
// values are rejected; a whitespace-only string counts as present.
func Validate(s domain.Submission) error {
	var missing []string
	if s.FormData == nil {
		missing = append(missing, "formData")
	}
	if s.QuoteID == "" {
		missing = append(missing, "quoteId")
	}
	if s.QuoteType == "" {
		missing = append(missing, "quoteType")
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

// MissingFieldsError lists the absent fields; it matches ErrInvalidSubmission.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "invalid submission: missing " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrInvalidSubmission
}

// Submit validates s and then runs the sheet write, the admin email and the
// customer email in that order. Collaborator failures are logged and folded
// into the Outcome; only validation and rendering errors are returned.
func (o *Orchestrator) Submit(ctx context.Context, s domain.Submission) (domain.Outcome, error) {
	if err := Validate(s); err != nil {
		return domain.Outcome{}, err
	}
	log := LoggerFrom(ctx, o.cfg.Logger).With(
		"quote_id", s.QuoteID,
		"quote_type", string(s.QuoteType),
		"segment", s.Segment(),
	)
	metrics.SubmissionsTotal.WithLabelValues(s.Segment(), metricQuoteType(s.QuoteType)).Inc()

	row := domain.NewRow(s, o.cfg.Now().In(o.cfg.Location))
	note, err := o.cfg.Composer.Compose(ctx, s, row)
	if err != nil {
		return domain.Outcome{}, err
	}

	out := domain.Outcome{Segment: s.Segment()}
	out.SheetsSuccess = o.recordRow(ctx, log, row)

	// ── Admin notice ─────────────────────────────────────────────────────────
	rcpt := o.cfg.Resolver.Resolve(s.QuoteType, s.IsBusinessQuote)
	admin := domain.Email{
		From:    o.cfg.From,
		To:      rcpt.To,
		CC:      rcpt.CC,
		Subject: note.AdminSubject,
		HTML:    note.AdminHTML,
	}
	if id, ok := o.send(ctx, log, metrics.EffectAdminEmail, admin); ok {
		out.SetAdminEmail(id)
	}

	// ── Customer confirmation ────────────────────────────────────────────────
	addr := s.CustomerEmail()
	if addr == "" {
		log.Info("no customer address; confirmation not sent")
		metrics.SkipEffect(metrics.EffectUserEmail)
		return out, nil
	}
	customer := domain.Email{
		From:    o.cfg.From,
		To:      []string{addr},
		Subject: note.CustomerSubject,
		HTML:    note.CustomerHTML,
	}
	if o.cfg.AttachReceipt {
		if a, err := pdf.Attachment(s, row, o.cfg.Brand); err != nil {
			log.Error("receipt not attached", "step", "receipt", "err", err)
		} else {
			customer.Attachments = []domain.Attachment{a}
		}
	}
	if id, ok := o.send(ctx, log, metrics.EffectUserEmail, customer); ok {
		out.SetUserEmail(id)
	}
	return out, nil
}

// recordRow builds a client and writes row. It never fails the submission.
func (o *Orchestrator) recordRow(ctx context.Context, log *slog.Logger, row domain.Row) bool {
	start := time.Now()
	var svc ports.SheetService
	if o.cfg.Sheets != nil {
		s, err := o.cfg.Sheets(ctx)
		switch {
		case errors.Is(err, ports.ErrSheetsNotConfigured):
			log.Warn("spreadsheet not configured", "step", "sheet", "err", err)
		case err != nil:
			log.Error("spreadsheet client init failed", "step", "sheet", "err", err)
		default:
			svc = s
		}
	}

	ok, err := o.cfg.Recorder.Record(ctx, svc, row)
	if err != nil {
		log.Error("spreadsheet write failed", "step", "sheet", "err", err)
		ok = false
	}
	if !ok && err == nil {
		err = errNotRecorded
	}
	metrics.ObserveEffect(metrics.EffectSheet, err, time.Since(start))
	return ok
}

var errNotRecorded = errors.New("row not recorded")

func (o *Orchestrator) send(ctx context.Context, log *slog.Logger, effect string, e domain.Email) (string, bool) {
	start := time.Now()
	id, err := o.cfg.Mailer.Send(ctx, e)
	metrics.ObserveEffect(effect, err, time.Since(start))
	if err != nil {
		log.Error("email send failed", "step", effect, "to", e.To, "err", err)
		return "", false
	}
	log.Info("email sent", "step", effect, "id", id)
	return id, true
}

// metricQuoteType keeps label cardinality bounded.
func metricQuoteType(q domain.QuoteType) string {
	if q.Known() {
		return string(q.Normalized())
	}
	return "other"
}
