package domain

import "strings"

// QuoteType is the product-line tag sent by the quote forms.
type QuoteType string

const (
	QuoteVehiculos            QuoteType = "vehiculos"
	QuoteSalud                QuoteType = "salud"
	QuoteVida                 QuoteType = "vida"
	QuoteMascotas             QuoteType = "mascotas"
	QuoteHogar                QuoteType = "hogar"
	QuoteCorporativos         QuoteType = "corporativos"
	QuoteResponsabilidadCivil QuoteType = "responsabilidad-civil"
	QuoteTransporte           QuoteType = "transporte"
	QuoteConstruccion         QuoteType = "construccion"
	QuoteCumplimiento         QuoteType = "cumplimiento"
	QuoteARL                  QuoteType = "arl"
	QuoteCreditoVehicular     QuoteType = "credito-vehicular"
	QuoteAsistenciaViajes     QuoteType = "asistencia-viajes"
)

// GenericLabel is used for product lines the service does not recognise.
const GenericLabel = "Seguro"

var quoteLabels = map[QuoteType]string{
	QuoteVehiculos:            "Seguro de Vehículos",
	QuoteSalud:                "Seguro de Salud",
	QuoteVida:                 "Seguro de Vida",
	QuoteMascotas:             "Seguro de Mascotas",
	QuoteHogar:                "Seguro de Hogar",
	QuoteCorporativos:         "Seguros Corporativos",
	QuoteResponsabilidadCivil: "Responsabilidad Civil",
	QuoteTransporte:           "Seguro de Transporte",
	QuoteConstruccion:         "Seguro de Construcción",
	QuoteCumplimiento:         "Seguro de Cumplimiento",
	QuoteARL:                  "ARL - Riesgos Laborales",
	QuoteCreditoVehicular:     "Crédito Vehicular",
	QuoteAsistenciaViajes:     "Asistencia en Viajes",
}

// AllQuoteTypes lists every known product line in display order.
var AllQuoteTypes = []QuoteType{
	QuoteVehiculos, QuoteSalud, QuoteVida, QuoteMascotas, QuoteHogar,
	QuoteCorporativos, QuoteResponsabilidadCivil, QuoteTransporte,
	QuoteConstruccion, QuoteCumplimiento, QuoteARL,
	QuoteCreditoVehicular, QuoteAsistenciaViajes,
}

// Label returns the human-readable product-line name, or GenericLabel.
func (q QuoteType) Label() string {
	if l, ok := quoteLabels[q.Normalized()]; ok {
		return l
	}
	return GenericLabel
}

// Known reports whether q is one of the fixed product lines.
func (q QuoteType) Known() bool {
	_, ok := quoteLabels[q.Normalized()]
	return ok
}

// Normalized lower-cases and trims q.
func (q QuoteType) Normalized() QuoteType {
	return QuoteType(strings.ToLower(strings.TrimSpace(string(q))))
}

// Segment values reported back to the forms in the response body.
const (
	SegmentBusiness = "empresarial"
	SegmentPersonal = "personal"
)

// Submission is one quote request as received from a form.
type Submission struct {
	FormData        FormData
	QuoteID         string
	QuoteType       QuoteType
	IsBusinessQuote bool
	// UserEmail overrides the address found inside FormData for the
	// customer confirmation.
	UserEmail string
}

// Segment returns "empresarial" or "personal".
func (s Submission) Segment() string {
	if s.IsBusinessQuote {
		return SegmentBusiness
	}
	return SegmentPersonal
}

// Label is shorthand for s.QuoteType.Label().
func (s Submission) Label() string {
	return s.QuoteType.Label()
}

// CustomerEmail resolves where the confirmation goes: the explicit override
// first, then the business or personal email field. Empty means no
// confirmation is sent.
func (s Submission) CustomerEmail() string {
	if e := strings.TrimSpace(s.UserEmail); e != "" {
		return e
	}
	if s.IsBusinessQuote {
		return s.FormData.First(businessEmailKeys...)
	}
	return s.FormData.First(personalEmailKeys...)
}

// RecipientSet is where the admin notification is delivered.
type RecipientSet struct {
	To []string
	CC []string
}

// Email is a single outbound message handed to a Mailer.
type Email struct {
	From        string
	To          []string
	CC          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}
