package logmail_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/cotizador/internal/adapters/logmail"
	"github.com/csg33k/cotizador/internal/domain"
)

func TestSend_LogsAndReturnsID(t *testing.T) {
	var buf bytes.Buffer
	m := logmail.New(slog.New(slog.NewTextHandler(&buf, nil)), "")

	id, err := m.Send(context.Background(), domain.Email{
		To:      []string{"hogar@example.com"},
		Subject: "Nueva cotización Seguro de Hogar #654321",
		HTML:    "<p>x</p>",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "dry-run-"))
	assert.Contains(t, buf.String(), "Seguro de Hogar #654321")
	assert.Contains(t, buf.String(), id)

	id2, err := m.Send(context.Background(), domain.Email{})
	require.NoError(t, err)
	assert.NotEqual(t, id, id2)
}

func TestSend_WritesOutbox(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outbox")
	m := logmail.New(nil, dir)

	id, err := m.Send(context.Background(), domain.Email{
		HTML:        "<h1>Hola</h1>",
		Attachments: []domain.Attachment{{Filename: "cotizacion-1.pdf", Content: []byte("%PDF-1.3")}},
	})
	require.NoError(t, err)

	html, err := os.ReadFile(filepath.Join(dir, id+".html"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hola</h1>", string(html))
	_, err = os.Stat(filepath.Join(dir, id+"-cotizacion-1.pdf"))
	assert.NoError(t, err)
}
