package pdf_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/cotizador/internal/adapters/pdf"
	"github.com/csg33k/cotizador/internal/domain"
)

var at = time.Date(2026, time.February, 10, 8, 30, 0, 0, time.UTC)

func TestGenerateReceipt_Personal(t *testing.T) {
	s := domain.Submission{
		QuoteID:   "123456",
		QuoteType: domain.QuoteSalud,
		FormData: domain.FormData{
			"nombreCompleto": "Ana Pérez",
			"email":          "ana@example.com",
			"tipoPlan":       "Familiar",
			"mensaje":        "Necesito cobertura para mi familia, incluyendo a mis padres.",
			"personasAdicionales": []any{
				map[string]any{"nombre": "Luis", "documento": "123", "parentesco": "Hijo", "edad": float64(8)},
			},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.GenerateReceipt(s, domain.NewRow(s, at), "Cotizador", &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestGenerateReceipt_FakeApplicants(t *testing.T) {
	gofakeit.Seed(7)
	for _, q := range domain.AllQuoteTypes {
		s := domain.Submission{
			QuoteID:         gofakeit.Numerify("######"),
			QuoteType:       q,
			IsBusinessQuote: gofakeit.Bool(),
			FormData: domain.FormData{
				"nombreCompleto": gofakeit.Name(),
				"razonSocial":    gofakeit.Company(),
				"telefono":       gofakeit.Phone(),
				"direccion":      gofakeit.Street(),
				"ciudad":         gofakeit.City(),
				"mensaje":        gofakeit.Sentence(40),
			},
		}
		var buf bytes.Buffer
		require.NoError(t, pdf.GenerateReceipt(s, domain.NewRow(s, at), "Cotizador", &buf), q)
		assert.NotZero(t, buf.Len(), q)
	}
}

func TestGenerateReceipt_LongInsuredListPaginates(t *testing.T) {
	gofakeit.Seed(11)
	people := make([]any, 60)
	for i := range people {
		people[i] = map[string]any{
			"nombreCompleto":  gofakeit.Name(),
			"numeroDocumento": gofakeit.Numerify("##########"),
			"parentesco":      "Familiar",
			"edad":            float64(gofakeit.Number(1, 90)),
		}
	}
	s := domain.Submission{
		QuoteID:   "555555",
		QuoteType: domain.QuoteSalud,
		FormData: domain.FormData{
			"nombreCompleto":      gofakeit.Name(),
			"mensaje":             gofakeit.Paragraph(3, 5, 12, " "),
			"personasAdicionales": people,
		},
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.GenerateReceipt(s, domain.NewRow(s, at), "Cotizador", &buf))

	pages := bytes.Count(buf.Bytes(), []byte("<</Type /Page\n"))
	assert.GreaterOrEqual(t, pages, 2)
	assert.LessOrEqual(t, pages, 3)
}

func TestGenerateReceipt_ShortQuoteIsOnePage(t *testing.T) {
	s := domain.Submission{QuoteID: "1", QuoteType: domain.QuoteHogar, FormData: domain.FormData{"tipoVivienda": "Casa"}}
	var buf bytes.Buffer
	require.NoError(t, pdf.GenerateReceipt(s, domain.NewRow(s, at), "Cotizador", &buf))
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("<</Type /Page\n")))
}

func TestAttachment(t *testing.T) {
	s := domain.Submission{QuoteID: "987654", QuoteType: domain.QuoteHogar}
	a, err := pdf.Attachment(s, domain.NewRow(s, at), "Cotizador")
	require.NoError(t, err)
	assert.Equal(t, "cotizacion-987654.pdf", a.Filename)
	assert.Equal(t, pdf.ContentType, a.ContentType)
	assert.True(t, bytes.HasPrefix(a.Content, []byte("%PDF-")))
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestGenerateReceipt_WriterError(t *testing.T) {
	s := domain.Submission{QuoteID: "1", QuoteType: domain.QuoteVida}
	err := pdf.GenerateReceipt(s, domain.NewRow(s, at), "Cotizador", failingWriter{})
	assert.Error(t, err)
}
