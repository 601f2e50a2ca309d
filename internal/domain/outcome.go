package domain

const (
	MessageSuccess          = "Cotización enviada exitosamente"
	MessageSheetsFailed     = "Cotización enviada. El registro en la hoja de cálculo no pudo completarse."
	MessageMissingFields    = "Faltan datos en la solicitud."
	MessageInternalError    = "Error al procesar la cotización"
	MessageMethodNotAllowed = "Method not allowed"
)

// Outcome accumulates what happened to each side effect of one submission.
// A nil id means that email was not sent.
type Outcome struct {
	SheetsSuccess bool
	AdminEmailID  *string
	UserEmailID   *string
	Segment       string
}

func (o *Outcome) SetAdminEmail(id string) { o.AdminEmailID = &id }

func (o *Outcome) SetUserEmail(id string) { o.UserEmailID = &id }

// Message is the caller-facing summary; it only reflects the sheet write.
func (o Outcome) Message() string {
	if o.SheetsSuccess {
		return MessageSuccess
	}
	return MessageSheetsFailed
}
