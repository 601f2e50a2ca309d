// Package sheets records quote submissions as spreadsheet rows.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/csg33k/cotizador/internal/domain"
	"github.com/csg33k/cotizador/internal/ports"
)

// DefaultTab is the sheet tab submissions are written to.
const DefaultTab = "Cotizaciones"

// firstDataRow is the row targeted when the reference column only holds the
// header, or cannot be read.
const firstDataRow = 2

// WriteMode selects how the recorder places a row.
type WriteMode string

const (
	// ModeUpdate reads column A, computes the next free row and overwrites
	// that range. Two concurrent submissions can pick the same row.
	ModeUpdate WriteMode = "update"
	// ModeAppend uses the provider's atomic append.
	ModeAppend WriteMode = "append"
)

// ErrNotAcknowledged means the provider returned without confirming the write.
var ErrNotAcknowledged = errors.New("spreadsheet write not acknowledged")

// Recorder implements ports.Recorder.
type Recorder struct {
	tab    string
	mode   WriteMode
	logger *slog.Logger
}

func NewRecorder(tab string, mode WriteMode, logger *slog.Logger) *Recorder {
	if tab == "" {
		tab = DefaultTab
	}
	if mode != ModeAppend {
		mode = ModeUpdate
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{tab: tab, mode: mode, logger: logger}
}

// Record writes row through svc. A nil svc means the client could not be
// initialised and yields (false, nil) without any I/O.
func (r *Recorder) Record(ctx context.Context, svc ports.SheetService, row domain.Row) (bool, error) {
	if svc == nil {
		r.logger.Warn("spreadsheet client not initialised; skipping row", "quote_id", row.QuoteID)
		return false, nil
	}
	if err := svc.Probe(ctx); err != nil {
		return false, fmt.Errorf("probe spreadsheet: %w", err)
	}

	values := row.Values()
	if r.mode == ModeAppend {
		ack, err := svc.AppendRow(ctx, r.tableRange(), values[:])
		if err != nil {
			return false, fmt.Errorf("append row: %w", err)
		}
		if ack == "" {
			return false, ErrNotAcknowledged
		}
		r.logger.Info("row appended", "quote_id", row.QuoteID, "range", ack)
		return true, nil
	}

	next := r.nextRow(ctx, svc)
	rng := r.rowRange(next)
	ack, err := svc.UpdateRange(ctx, rng, values[:])
	if err != nil {
		return false, fmt.Errorf("update %s: %w", rng, err)
	}
	if ack == "" {
		return false, ErrNotAcknowledged
	}
	r.logger.Info("row written", "quote_id", row.QuoteID, "range", ack)
	return true, nil
}

// nextRow is one past the last cell of column A. A failed read falls back
// to the first data row.
func (r *Recorder) nextRow(ctx context.Context, svc ports.SheetService) int {
	col, err := svc.ReadColumn(ctx, r.columnRange())
	if err != nil {
		r.logger.Warn("read reference column failed; writing to first data row", "err", err)
		return firstDataRow
	}
	if len(col) <= 1 {
		return firstDataRow
	}
	return len(col) + 1
}

func (r *Recorder) columnRange() string {
	return quoteTab(r.tab) + "!A:A"
}

func (r *Recorder) tableRange() string {
	return quoteTab(r.tab) + "!A:" + lastColumn
}

func (r *Recorder) rowRange(n int) string {
	return fmt.Sprintf("%s!A%d:%s%d", quoteTab(r.tab), n, lastColumn, n)
}

// lastColumn is the letter of column number domain.RowWidth.
var lastColumn = string(rune('A' + domain.RowWidth - 1))

// quoteTab wraps tab names that need quoting in A1 notation.
func quoteTab(tab string) string {
	if strings.ContainsAny(tab, " '!") {
		return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
	}
	return tab
}
