package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/csg33k/cotizador/internal/domain"
)

func TestQuoteTypeLabel(t *testing.T) {
	tests := []struct {
		in   domain.QuoteType
		want string
	}{
		{domain.QuoteSalud, "Seguro de Salud"},
		{domain.QuoteARL, "ARL - Riesgos Laborales"},
		{" Vehiculos ", "Seguro de Vehículos"},
		{"asistencia-viajes", "Asistencia en Viajes"},
		{"desconocido", domain.GenericLabel},
		{"", domain.GenericLabel},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Label())
		})
	}
	for _, q := range domain.AllQuoteTypes {
		assert.True(t, q.Known(), q)
	}
}

func TestCustomerEmail(t *testing.T) {
	tests := []struct {
		name string
		sub  domain.Submission
		want string
	}{
		{
			name: "override wins",
			sub:  domain.Submission{UserEmail: "a@x.com", FormData: domain.FormData{"email": "b@x.com"}},
			want: "a@x.com",
		},
		{
			name: "personal field",
			sub:  domain.Submission{FormData: domain.FormData{"correo": "c@x.com"}},
			want: "c@x.com",
		},
		{
			name: "business field preferred",
			sub: domain.Submission{
				IsBusinessQuote: true,
				FormData:        domain.FormData{"emailEmpresa": "e@corp.co", "email": "p@x.com"},
			},
			want: "e@corp.co",
		},
		{
			name: "none",
			sub:  domain.Submission{FormData: domain.FormData{}},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.CustomerEmail())
		})
	}
}

func TestFormDataDisplay(t *testing.T) {
	f := domain.FormData{
		"n":     float64(1500000.5),
		"b":     true,
		"f":     false,
		"null":  nil,
		"list":  []any{"a", "", "b"},
		"blank": "   ",
	}
	assert.Equal(t, "1500000.5", f.String("n"))
	assert.Equal(t, "Sí", f.String("b"))
	assert.Equal(t, "No", f.String("f"))
	assert.Equal(t, "", f.String("null"))
	assert.Equal(t, "", f.String("missing"))
	assert.Equal(t, "a, b", f.String("list"))
	assert.Equal(t, "1500000.5", f.First("blank", "n"))
}

func TestFormDataList(t *testing.T) {
	f := domain.FormData{
		"personasAdicionales": []any{
			map[string]any{"nombre": "Hijo", "edad": float64(8)},
			"not-an-object",
		},
	}
	people := f.List("personasAdicionales")
	if assert.Len(t, people, 1) {
		assert.Equal(t, "8", people[0].String("edad"))
	}
	assert.Nil(t, f.List("missing"))
}

func TestOutcomeMessage(t *testing.T) {
	o := domain.Outcome{SheetsSuccess: true}
	assert.Equal(t, domain.MessageSuccess, o.Message())
	o.SheetsSuccess = false
	assert.Equal(t, domain.MessageSheetsFailed, o.Message())
}
