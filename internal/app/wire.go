// Package app assembles the orchestrator from configuration. Both binaries
// use it so the server and the CLI submit path behave the same.
package app

import (
	"fmt"
	"log/slog"

	"github.com/csg33k/cotizador/internal/adapters/logmail"
	"github.com/csg33k/cotizador/internal/adapters/resend"
	"github.com/csg33k/cotizador/internal/adapters/sheets"
	sqliteadapter "github.com/csg33k/cotizador/internal/adapters/sqlite"
	"github.com/csg33k/cotizador/internal/config"
	"github.com/csg33k/cotizador/internal/ports"
	"github.com/csg33k/cotizador/internal/quoting"
	"github.com/csg33k/cotizador/internal/recipients"
	"github.com/csg33k/cotizador/internal/templates"
)

// Wired holds the orchestrator and anything that must be closed with it.
type Wired struct {
	Orchestrator *quoting.Orchestrator
	closers      []func() error
}

func (w *Wired) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Build wires every collaborator named by cfg.
func Build(cfg *config.Config, logger *slog.Logger) (*Wired, error) {
	w := &Wired{}

	factory, err := sheetsFactory(cfg, logger, w)
	if err != nil {
		return nil, err
	}
	mailer, err := Mailer(cfg, logger)
	if err != nil {
		w.Close()
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		w.Close()
		return nil, err
	}

	w.Orchestrator = quoting.New(quoting.Config{
		Sheets:        factory,
		Recorder:      sheets.NewRecorder(cfg.Sheets.Tab, sheets.WriteMode(cfg.Sheets.WriteMode), logger),
		Mailer:        mailer,
		Resolver:      recipients.New(cfg.Recipients()),
		Composer:      templates.Composer{Brand: cfg.Brand},
		From:          cfg.Email.From,
		Brand:         cfg.Brand,
		Location:      loc,
		AttachReceipt: cfg.Email.AttachReceipt,
		Logger:        logger,
	})
	return w, nil
}

func sheetsFactory(cfg *config.Config, logger *slog.Logger, w *Wired) (ports.SheetsFactory, error) {
	switch cfg.Sheets.Backend {
	case config.BackendSQLite:
		repo, err := sqliteadapter.New(cfg.Sheets.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sheet database: %w", err)
		}
		w.closers = append(w.closers, repo.Close)
		logger.Info("spreadsheet backend: sqlite", "path", cfg.Sheets.SQLitePath)
		return repo.Factory(), nil
	default:
		creds := cfg.Credentials()
		if !creds.Configured() {
			logger.Warn("google sheets credentials missing; rows will not be recorded")
		}
		logger.Info("spreadsheet backend: google", "sheet_id", creds.SheetID, "tab", cfg.Sheets.Tab)
		return sheets.NewFactory(creds), nil
	}
}

// Mailer returns the Resend mailer, or the dry-run mailer when no API key
// is set or dry run is requested.
func Mailer(cfg *config.Config, logger *slog.Logger) (ports.Mailer, error) {
	if cfg.UseDryRunMailer() {
		logger.Warn("email dry run: messages are logged, not sent", "outbox", cfg.Email.OutboxDir)
		return logmail.New(logger, cfg.Email.OutboxDir), nil
	}
	m, err := resend.New(cfg.Resend.APIKey, nil, cfg.Resend.BaseURL)
	if err != nil {
		return nil, err
	}
	return m, nil
}
