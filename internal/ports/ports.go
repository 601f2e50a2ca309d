package ports

import (
	"context"
	"errors"

	"github.com/csg33k/cotizador/internal/domain"
)

// ErrSheetsNotConfigured is returned by a SheetsFactory when credentials or
// the sheet id are missing.
var ErrSheetsNotConfigured = errors.New("spreadsheet client not configured")

// SheetService is the subset of a tabular-data API the recorder needs.
// Ranges use A1 notation, e.g. "Cotizaciones!A:A".
type SheetService interface {
	// Probe checks that the spreadsheet exists and is reachable.
	Probe(ctx context.Context) error
	// ReadColumn returns the cells of a single-column range, top to bottom.
	ReadColumn(ctx context.Context, rng string) ([]string, error)
	// UpdateRange overwrites rng with one row of values using
	// user-entered semantics. The returned range is the provider's
	// acknowledgement; empty means the write was not confirmed.
	UpdateRange(ctx context.Context, rng string, values []string) (string, error)
	// AppendRow atomically appends one row after the table found in rng.
	AppendRow(ctx context.Context, rng string, values []string) (string, error)
}

// SheetsFactory builds a SheetService for a single request.
type SheetsFactory func(ctx context.Context) (SheetService, error)

// Recorder persists one row per submission.
type Recorder interface {
	// Record returns false without error when the backend is not
	// configured; any other failure is returned as an error.
	Record(ctx context.Context, svc SheetService, row domain.Row) (bool, error)
}

// Mailer delivers one email and returns the provider's message id.
type Mailer interface {
	Send(ctx context.Context, e domain.Email) (string, error)
}
