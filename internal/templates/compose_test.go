package templates_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/cotizador/internal/domain"
	"github.com/csg33k/cotizador/internal/templates"
)

var at = time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC)

func compose(t *testing.T, s domain.Submission) templates.Notification {
	t.Helper()
	n, err := templates.Composer{Brand: "Seguros Prueba"}.Compose(context.Background(), s, domain.NewRow(s, at))
	require.NoError(t, err)
	return n
}

func TestCompose_PersonalHealthWithAdditionalInsured(t *testing.T) {
	s := domain.Submission{
		QuoteID:   "123456",
		QuoteType: domain.QuoteSalud,
		FormData: domain.FormData{
			"nombreCompleto":  "Ana",
			"numeroDocumento": "123",
			"email":           "ana@x.com",
			"tipoPlan":        "Familiar",
			"personasAdicionales": []any{
				map[string]any{"nombre": "Pedro", "parentesco": "Hijo", "edad": float64(7)},
				map[string]any{"nombre": "Lucía", "parentesco": "Cónyuge"},
			},
		},
	}
	n := compose(t, s)

	assert.Equal(t, "Nueva cotización Seguro de Salud #123456", n.AdminSubject)
	assert.Equal(t, "Confirmación de cotización #123456 - Seguro de Salud", n.CustomerSubject)

	assert.True(t, strings.HasPrefix(strings.ToLower(n.AdminHTML), "<!doctype html>"))
	assert.Contains(t, n.AdminHTML, "Información del asegurado")
	assert.Contains(t, n.AdminHTML, "Personas adicionales")
	assert.Contains(t, n.AdminHTML, "Pedro")
	assert.Contains(t, n.AdminHTML, "Lucía")
	assert.Contains(t, n.AdminHTML, "Familiar")
	assert.NotContains(t, n.AdminHTML, "Información del vehículo")

	assert.Contains(t, n.CustomerHTML, "Hola Ana,")
	assert.Contains(t, n.CustomerHTML, "123456")
	assert.Contains(t, n.CustomerHTML, "Seguros Prueba")
}

func TestCompose_VehicleSection(t *testing.T) {
	s := domain.Submission{
		QuoteID:   "1",
		QuoteType: domain.QuoteVehiculos,
		FormData:  domain.FormData{"marca": "Renault", "placa": "XYZ987"},
	}
	n := compose(t, s)
	assert.Contains(t, n.AdminHTML, "Información del vehículo")
	assert.Contains(t, n.AdminHTML, "XYZ987")
	assert.NotContains(t, n.AdminHTML, "Personas adicionales")
}

func TestCompose_VehicleCreditHasBothSections(t *testing.T) {
	s := domain.Submission{
		QuoteID:   "2",
		QuoteType: domain.QuoteCreditoVehicular,
		FormData: domain.FormData{
			"marca":          "Mazda",
			"placa":          "ABC123",
			"montoCredito":   "45000000",
			"plazoMeses":     "48",
			"ingresoMensual": "6000000",
		},
	}
	n := compose(t, s)
	assert.Contains(t, n.AdminHTML, "Información del vehículo")
	assert.Contains(t, n.AdminHTML, "ABC123")
	assert.Contains(t, n.AdminHTML, "Detalles del crédito")
	assert.Contains(t, n.AdminHTML, "20000000")
	assert.Contains(t, n.AdminHTML, "48 meses")
	assert.Less(t, strings.Index(n.AdminHTML, "Información del vehículo"), strings.Index(n.AdminHTML, "Detalles del crédito"))
}

func TestCompose_AdditionalInsuredAliases(t *testing.T) {
	s := domain.Submission{
		QuoteID:   "3",
		QuoteType: domain.QuoteVida,
		FormData: domain.FormData{
			"personasAdicionales": []any{
				map[string]any{"nombreCompleto": "Marta Ruiz", "numeroDocumento": "52000111"},
			},
		},
	}
	n := compose(t, s)
	assert.Contains(t, n.AdminHTML, "Marta Ruiz")
	assert.Contains(t, n.AdminHTML, "52000111")
}

func TestCompose_BusinessTemplate(t *testing.T) {
	s := domain.Submission{
		QuoteID:         "777777",
		QuoteType:       domain.QuoteTransporte,
		IsBusinessQuote: true,
		FormData: domain.FormData{
			"razonSocial":   "Logística S.A.",
			"nit":           "800.111.222-3",
			"tipoMercancia": "Alimentos",
			"origen":        "Cali",
			"destino":       "Medellín",
		},
	}
	n := compose(t, s)
	assert.Equal(t, "Nueva cotización empresarial Seguro de Transporte #777777", n.AdminSubject)
	assert.Contains(t, n.AdminHTML, "Información de la empresa")
	assert.Contains(t, n.AdminHTML, "800.111.222-3")
	assert.Contains(t, n.AdminHTML, "Cali - Medellín")
	assert.NotContains(t, n.AdminHTML, "Información del cliente")
	assert.Contains(t, n.CustomerHTML, "Estimado equipo de Logística S.A.,")
}

func TestCompose_MissingFieldsRenderNA(t *testing.T) {
	s := domain.Submission{QuoteID: "9", QuoteType: "desconocido", FormData: domain.FormData{}}
	n := compose(t, s)
	assert.Contains(t, n.AdminHTML, "N/A")
	assert.Contains(t, n.AdminHTML, domain.GenericLabel)
	assert.Contains(t, n.CustomerHTML, "Hola N/A,")
}

func TestCompose_NilFormData(t *testing.T) {
	s := domain.Submission{QuoteID: "9", QuoteType: domain.QuoteVida}
	n := compose(t, s)
	assert.NotEmpty(t, n.AdminHTML)
	assert.NotEmpty(t, n.CustomerHTML)
}

func TestCompose_EscapesUserInput(t *testing.T) {
	s := domain.Submission{
		QuoteID:   "1",
		QuoteType: domain.QuoteHogar,
		FormData: domain.FormData{
			"nombreCompleto": `<script>alert("x")</script>`,
			"mensaje":        "a & b",
		},
	}
	n := compose(t, s)
	assert.NotContains(t, n.AdminHTML, "<script>")
	assert.Contains(t, n.AdminHTML, "&lt;script&gt;")
	assert.Contains(t, n.AdminHTML, "a &amp; b")
	assert.NotContains(t, n.CustomerHTML, "<script>")
}
