package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/cotizador/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "America/Bogota", cfg.Timezone)
	assert.Equal(t, config.BackendGoogle, cfg.Sheets.Backend)
	assert.Equal(t, "Cotizaciones", cfg.Sheets.Tab)
	assert.Equal(t, "update", cfg.Sheets.WriteMode)
	assert.Equal(t, config.DefaultSheetID, cfg.Google.SheetID)
	assert.Equal(t, config.DefaultEmailFrom, cfg.Email.From)

	r := cfg.Recipients()
	for _, addr := range []string{r.Vehiculos, r.Salud, r.Vida, r.Mascotas, r.Hogar, r.Default, r.Empresarial, r.CC} {
		assert.NotEmpty(t, addr)
	}
	assert.True(t, cfg.UseDryRunMailer(), "no API key means dry run")

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Bogota", loc.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SHEETS_BACKEND", "SQLite")
	t.Setenv("SHEETS_WRITE_MODE", "append")
	t.Setenv("ADMIN_EMAIL_SALUD", "salud@otra.test")
	t.Setenv("ADMIN_EMAIL_EMPRESARIAL", "b2b@otra.test")
	t.Setenv("CC_EMAIL", "cc@otra.test")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_EMAIL", "svc@proj.iam.gserviceaccount.com")
	t.Setenv("RESEND_API_KEY", "re_123")
	t.Setenv("EMAIL_ATTACH_RECEIPT", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, config.BackendSQLite, cfg.Sheets.Backend)
	assert.Equal(t, "append", cfg.Sheets.WriteMode)
	assert.Equal(t, "salud@otra.test", cfg.Recipients().Salud)
	assert.Equal(t, "b2b@otra.test", cfg.Recipients().Empresarial)
	assert.Equal(t, "cc@otra.test", cfg.Recipients().CC)
	assert.Equal(t, "svc@proj.iam.gserviceaccount.com", cfg.Credentials().ServiceAccountEmail)
	assert.True(t, cfg.Email.AttachReceipt)
	assert.False(t, cfg.UseDryRunMailer())

	t.Setenv("EMAIL_DRY_RUN", "true")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.UseDryRunMailer())
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cotizador.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7070"
sheets:
  tab: Hoja 1
admin_email:
  hogar: casa@file.test
`), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "6060")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "6060", cfg.Port, "env wins over file")
	assert.Equal(t, "Hoja 1", cfg.Sheets.Tab)
	assert.Equal(t, "casa@file.test", cfg.Recipients().Hogar)
}

func TestLoad_Invalid(t *testing.T) {
	for name, env := range map[string][2]string{
		"backend":      {"SHEETS_BACKEND", "postgres"},
		"write mode":   {"SHEETS_WRITE_MODE", "overwrite"},
		"timezone":     {"TIMEZONE", "Mars/Olympus"},
		"missing file": {"CONFIG_FILE", "/nonexistent/cotizador.yaml"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env[0], env[1])
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Log: config.LogConfig{Level: "warn", Format: "json"}}
	l := cfg.NewLogger(&buf)
	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	cfg = &config.Config{Log: config.LogConfig{Level: "bogus", Format: "text"}}
	cfg.NewLogger(&buf).Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}
