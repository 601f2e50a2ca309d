// Package logmail is a Mailer that logs messages instead of delivering them.
// It is used when no email API key is configured or dry-run is requested.
package logmail

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/csg33k/cotizador/internal/domain"
)

type Mailer struct {
	logger *slog.Logger
	dir    string
}

// New returns a dry-run mailer. When dir is non-empty each message body is
// also written there as <id>.html.
func New(logger *slog.Logger, dir string) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{logger: logger, dir: dir}
}

// Send implements ports.Mailer. The returned id is prefixed with "dry-run-".
func (m *Mailer) Send(ctx context.Context, e domain.Email) (string, error) {
	id := "dry-run-" + uuid.NewString()
	m.logger.InfoContext(ctx, "email not sent (dry run)",
		"id", id,
		"to", e.To,
		"cc", e.CC,
		"subject", e.Subject,
		"html_bytes", len(e.HTML),
		"attachments", len(e.Attachments),
	)
	if m.dir == "" {
		return id, nil
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("outbox: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.dir, id+".html"), []byte(e.HTML), 0o644); err != nil {
		return "", fmt.Errorf("outbox: %w", err)
	}
	for _, a := range e.Attachments {
		if err := os.WriteFile(filepath.Join(m.dir, id+"-"+filepath.Base(a.Filename)), a.Content, 0o644); err != nil {
			return "", fmt.Errorf("outbox: %w", err)
		}
	}
	return id, nil
}
