// Package config loads service settings from defaults, an optional YAML
// file and the environment, in that order of precedence (lowest first).
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"

	"github.com/csg33k/cotizador/internal/adapters/sheets"
	"github.com/csg33k/cotizador/internal/recipients"
)

// Fallback values used when nothing else is configured.
const (
	DefaultSheetID   = "1Q7cZkV3b9cT0w2YpN4mRfHqLsEoUaJdXgKiBvWn6tyA"
	DefaultEmailFrom = "Cotizador <cotizaciones@resend.dev>"
)

var defaultAdmins = map[string]string{
	"vehiculos":   "vehiculos@cotizador-seguros.co",
	"salud":       "salud@cotizador-seguros.co",
	"vida":        "vida@cotizador-seguros.co",
	"mascotas":    "mascotas@cotizador-seguros.co",
	"hogar":       "hogar@cotizador-seguros.co",
	"default":     "cotizaciones@cotizador-seguros.co",
	"empresarial": "empresas@cotizador-seguros.co",
}

const defaultCC = "gerencia@cotizador-seguros.co"

// Backends for the spreadsheet recorder.
const (
	BackendGoogle = "google"
	BackendSQLite = "sqlite"
)

type Config struct {
	Port     string    `mapstructure:"port"`
	Timezone string    `mapstructure:"timezone"`
	Brand    string    `mapstructure:"brand"`
	Log      LogConfig `mapstructure:"log"`

	Sheets SheetsConfig `mapstructure:"sheets"`
	Google GoogleConfig `mapstructure:"google"`
	Resend ResendConfig `mapstructure:"resend"`
	Email  EmailConfig  `mapstructure:"email"`

	AdminEmail AdminEmailConfig `mapstructure:"admin_email"`
	CCEmail    string           `mapstructure:"cc_email"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SheetsConfig struct {
	Backend    string `mapstructure:"backend"`
	Tab        string `mapstructure:"tab"`
	WriteMode  string `mapstructure:"write_mode"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type GoogleConfig struct {
	ServiceAccountEmail string `mapstructure:"service_account_email"`
	PrivateKey          string `mapstructure:"private_key"`
	SheetID             string `mapstructure:"sheet_id"`
}

type ResendConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type EmailConfig struct {
	From          string `mapstructure:"from"`
	DryRun        bool   `mapstructure:"dry_run"`
	AttachReceipt bool   `mapstructure:"attach_receipt"`
	OutboxDir     string `mapstructure:"outbox_dir"`
}

type AdminEmailConfig struct {
	Vehiculos   string `mapstructure:"vehiculos"`
	Salud       string `mapstructure:"salud"`
	Vida        string `mapstructure:"vida"`
	Mascotas    string `mapstructure:"mascotas"`
	Hogar       string `mapstructure:"hogar"`
	Default     string `mapstructure:"default"`
	Empresarial string `mapstructure:"empresarial"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("timezone", "America/Bogota")
	v.SetDefault("brand", "Cotizador de Seguros")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("sheets.backend", BackendGoogle)
	v.SetDefault("sheets.tab", sheets.DefaultTab)
	v.SetDefault("sheets.write_mode", string(sheets.ModeUpdate))
	v.SetDefault("sheets.sqlite_path", "cotizaciones.db")

	v.SetDefault("google.service_account_email", "")
	v.SetDefault("google.private_key", "")
	v.SetDefault("google.sheet_id", DefaultSheetID)

	v.SetDefault("resend.api_key", "")
	v.SetDefault("resend.base_url", "")

	v.SetDefault("email.from", DefaultEmailFrom)
	v.SetDefault("email.dry_run", false)
	v.SetDefault("email.attach_receipt", false)
	v.SetDefault("email.outbox_dir", "")

	for k, addr := range defaultAdmins {
		v.SetDefault("admin_email."+k, addr)
	}
	v.SetDefault("cc_email", defaultCC)
}

// Load reads the configuration. When CONFIG_FILE is set the YAML file it
// names is read and must exist.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = v.BindEnv("config_file", "CONFIG_FILE")

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Sheets.Backend = strings.ToLower(strings.TrimSpace(c.Sheets.Backend))
	switch c.Sheets.Backend {
	case BackendGoogle, BackendSQLite:
	default:
		return fmt.Errorf("sheets.backend: unknown backend %q", c.Sheets.Backend)
	}
	switch sheets.WriteMode(c.Sheets.WriteMode) {
	case sheets.ModeUpdate, sheets.ModeAppend:
	default:
		return fmt.Errorf("sheets.write_mode: unknown mode %q", c.Sheets.WriteMode)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Recipients returns the admin mailbox table.
func (c *Config) Recipients() recipients.Addresses {
	return recipients.Addresses{
		Vehiculos:   c.AdminEmail.Vehiculos,
		Salud:       c.AdminEmail.Salud,
		Vida:        c.AdminEmail.Vida,
		Mascotas:    c.AdminEmail.Mascotas,
		Hogar:       c.AdminEmail.Hogar,
		Default:     c.AdminEmail.Default,
		Empresarial: c.AdminEmail.Empresarial,
		CC:          c.CCEmail,
	}
}

// Credentials returns the Google service-account settings.
func (c *Config) Credentials() sheets.Credentials {
	return sheets.Credentials{
		ServiceAccountEmail: c.Google.ServiceAccountEmail,
		PrivateKey:          c.Google.PrivateKey,
		SheetID:             c.Google.SheetID,
	}
}

// UseDryRunMailer reports whether emails should be logged instead of sent.
func (c *Config) UseDryRunMailer() bool {
	return c.Email.DryRun || strings.TrimSpace(c.Resend.APIKey) == ""
}

// NewLogger builds the process logger from Log.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
