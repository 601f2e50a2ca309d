// Package templates renders the admin notice and the customer confirmation
// for a quote submission. Components live in the .templ files; run
// `mage generate` after editing them.
package templates

import (
	"bytes"
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/csg33k/cotizador/internal/domain"
)

// DefaultBrand is used in copy when no brand is configured.
const DefaultBrand = "Cotizador de Seguros"

// Notification holds both rendered documents for one submission.
type Notification struct {
	AdminSubject    string
	AdminHTML       string
	CustomerSubject string
	CustomerHTML    string
}

// Composer renders notifications. The zero value is usable.
type Composer struct {
	Brand string
}

// Compose renders both emails for s. row must be the record built for s so
// the admin email and the sheet show the same values.
func (c Composer) Compose(ctx context.Context, s domain.Submission, row domain.Row) (Notification, error) {
	brand := c.Brand
	if brand == "" {
		brand = DefaultBrand
	}
	data := EmailData{Submission: s, Row: row, Brand: brand}

	admin, err := renderString(ctx, AdminEmail(data))
	if err != nil {
		return Notification{}, fmt.Errorf("render admin email: %w", err)
	}
	customer, err := renderString(ctx, CustomerEmail(data))
	if err != nil {
		return Notification{}, fmt.Errorf("render customer email: %w", err)
	}
	return Notification{
		AdminSubject:    AdminSubject(s),
		AdminHTML:       admin,
		CustomerSubject: CustomerSubject(s),
		CustomerHTML:    customer,
	}, nil
}

func AdminSubject(s domain.Submission) string {
	if s.IsBusinessQuote {
		return fmt.Sprintf("Nueva cotización empresarial %s #%s", s.Label(), s.QuoteID)
	}
	return fmt.Sprintf("Nueva cotización %s #%s", s.Label(), s.QuoteID)
}

func CustomerSubject(s domain.Submission) string {
	return fmt.Sprintf("Confirmación de cotización #%s - %s", s.QuoteID, s.Label())
}

func renderString(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
