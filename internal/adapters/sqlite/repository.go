// Package sqlite is a local stand-in for the spreadsheet provider. Rows are
// kept per tab in a SQLite file and addressed with the same A1 ranges the
// recorder sends to Google Sheets.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/csg33k/cotizador/internal/domain"
	"github.com/csg33k/cotizador/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS sheet_rows (
	tab        TEXT    NOT NULL,
	row_num    INTEGER NOT NULL,
	cells      TEXT    NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (tab, row_num)
);`

type Repository struct {
	db *sql.DB
}

// New opens the database and creates the table if needed.
func New(dsn string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Factory hands out the same repository for every request.
func (r *Repository) Factory() ports.SheetsFactory {
	return func(ctx context.Context) (ports.SheetService, error) {
		return r, nil
	}
}

// ── SheetService ──────────────────────────────────────────────────────────────

func (r *Repository) Probe(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ReadColumn returns the first cell of every row from 1 to the last used
// row; gaps come back as "".
func (r *Repository) ReadColumn(ctx context.Context, rng string) ([]string, error) {
	tab, _, err := parseRange(rng)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT row_num, cells FROM sheet_rows WHERE tab=? ORDER BY row_num`, tab)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var col []string
	for rows.Next() {
		var n int
		var raw string
		if err := rows.Scan(&n, &raw); err != nil {
			return nil, err
		}
		cells, err := decodeCells(raw)
		if err != nil {
			return nil, err
		}
		for len(col) < n-1 {
			col = append(col, "")
		}
		first := ""
		if len(cells) > 0 {
			first = cells[0]
		}
		col = append(col, first)
	}
	return col, rows.Err()
}

func (r *Repository) UpdateRange(ctx context.Context, rng string, values []string) (string, error) {
	tab, n, err := parseRange(rng)
	if err != nil {
		return "", err
	}
	if n < 1 {
		return "", fmt.Errorf("range %q has no row number", rng)
	}
	if err := r.put(ctx, r.db, tab, n, values); err != nil {
		return "", err
	}
	return rowRange(tab, n, len(values)), nil
}

// AppendRow writes after the last used row inside a transaction, so two
// callers never receive the same row.
func (r *Repository) AppendRow(ctx context.Context, rng string, values []string) (string, error) {
	tab, _, err := parseRange(rng)
	if err != nil {
		return "", err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var last int
	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(row_num), 0) FROM sheet_rows WHERE tab=?`, tab).Scan(&last); err != nil {
		return "", err
	}
	if err := r.put(ctx, tx, tab, last+1, values); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return rowRange(tab, last+1, len(values)), nil
}

// ListRows returns every stored row of tab in row order.
func (r *Repository) ListRows(ctx context.Context, tab string) ([][]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cells FROM sheet_rows WHERE tab=? ORDER BY row_num`, tab)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list [][]string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		cells, err := decodeCells(raw)
		if err != nil {
			return nil, err
		}
		list = append(list, cells)
	}
	return list, rows.Err()
}

// WriteHeader puts domain.Header in row 1 of tab.
func (r *Repository) WriteHeader(ctx context.Context, tab string) error {
	h := domain.Header
	return r.put(ctx, r.db, tab, 1, h[:])
}

// ── helpers ───────────────────────────────────────────────────────────────────

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *Repository) put(ctx context.Context, ex execer, tab string, n int, values []string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, `
		INSERT INTO sheet_rows (tab, row_num, cells, updated_at) VALUES (?,?,?,?)
		ON CONFLICT(tab, row_num) DO UPDATE SET cells=excluded.cells, updated_at=excluded.updated_at`,
		tab, n, string(raw), time.Now())
	return err
}

func decodeCells(raw string) ([]string, error) {
	var cells []string
	if err := json.Unmarshal([]byte(raw), &cells); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	return cells, nil
}

// parseRange splits "Tab!A5:M5" into ("Tab", 5). Ranges without a row,
// like "Tab!A:A", return 0.
func parseRange(rng string) (string, int, error) {
	i := strings.LastIndex(rng, "!")
	if i <= 0 {
		return "", 0, fmt.Errorf("range %q has no sheet name", rng)
	}
	tab := rng[:i]
	if strings.HasPrefix(tab, "'") && strings.HasSuffix(tab, "'") && len(tab) >= 2 {
		tab = strings.ReplaceAll(tab[1:len(tab)-1], "''", "'")
	}
	cell := rng[i+1:]
	if j := strings.Index(cell, ":"); j >= 0 {
		cell = cell[:j]
	}
	digits := strings.TrimLeft(cell, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")
	if digits == "" {
		return tab, 0, nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return "", 0, fmt.Errorf("range %q: bad row: %w", rng, err)
	}
	return tab, n, nil
}

func rowRange(tab string, n, width int) string {
	last := string(rune('A' + width - 1))
	if width < 1 || width > 26 {
		last = "Z"
	}
	return fmt.Sprintf("%s!A%d:%s%d", tab, n, last, n)
}
