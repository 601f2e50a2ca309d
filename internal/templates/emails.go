package templates

import (
	"github.com/csg33k/cotizador/internal/domain"
)

// EmailData is everything the two notification emails need.
type EmailData struct {
	Submission domain.Submission
	Row        domain.Row
	Brand      string
}

// section is one titled label/value table of an email.
type section struct {
	Title string
	Rows  []domain.LabeledValue
}

const customerTitle = "Hemos recibido tu solicitud"

func lv(label, value string) domain.LabeledValue {
	return domain.LabeledValue{Label: label, Value: value}
}

func (d EmailData) adminTitle() string {
	if d.Submission.IsBusinessQuote {
		return "Nueva solicitud de cotización empresarial"
	}
	return "Nueva solicitud de cotización"
}

func (d EmailData) adminSubtitle() string {
	return d.Submission.Label() + " · #" + d.Submission.QuoteID
}

func (d EmailData) summary() []domain.LabeledValue {
	s := d.Submission
	return []domain.LabeledValue{
		lv("ID de cotización", s.QuoteID),
		lv("Producto", s.Label()),
		lv("Tipo de cliente", s.Segment()),
		lv("Fecha", d.Row.Timestamp),
	}
}

func (d EmailData) identity() section {
	f := d.Submission.FormData
	if d.Submission.IsBusinessQuote {
		return section{"Información de la empresa", []domain.LabeledValue{
			lv("Razón social", f.First("razonSocial", "nombreEmpresa")),
			lv("NIT", f.First("nit")),
			lv("Persona de contacto", f.First("nombreContacto")),
			lv("Cargo", f.First("cargoContacto", "cargo")),
			lv("Teléfono", f.First("telefono", "telefonoEmpresa", "celular")),
			lv("Email", f.First("emailEmpresa", "email", "correo")),
			lv("Dirección", f.First("direccion")),
			lv("Ciudad", f.First("ciudad")),
		}}
	}
	return section{"Información del cliente", []domain.LabeledValue{
		lv("Nombre", d.Row.ContactName),
		lv("Documento", d.Row.ContactID),
		lv("Teléfono", d.Row.Phone),
		lv("Email", d.Row.Email),
		lv("Dirección", f.First("direccion")),
		lv("Ciudad", f.First("ciudad")),
	}}
}

func vehicleDetails(f domain.FormData) []domain.LabeledValue {
	return []domain.LabeledValue{
		lv("Marca", f.First("marca")),
		lv("Modelo", f.First("modelo")),
		lv("Año", f.First("anio", "año", "ano")),
		lv("Placa", f.First("placa")),
		lv("Uso", f.First("uso", "tipoUso")),
		lv("Valor comercial", f.First("valorVehiculo", "valorComercial")),
	}
}

func healthLifeDetails(q domain.QuoteType, f domain.FormData) []domain.LabeledValue {
	rows := []domain.LabeledValue{
		lv("Fecha de nacimiento", f.First("fechaNacimiento")),
		lv("Edad", f.First("edad")),
		lv("Género", f.First("genero", "sexo")),
		lv("Ocupación", f.First("ocupacion")),
	}
	if q == domain.QuoteVida {
		return append(rows,
			lv("Suma asegurada", f.First("sumaAsegurada")),
			lv("Beneficiarios", f.First("beneficiarios")),
			lv("Fumador", f.First("fumador")),
		)
	}
	return append(rows,
		lv("Tipo de plan", f.First("tipoPlan", "plan")),
		lv("Preexistencias", f.First("preexistencias")),
	)
}

// productSections picks the product-specific tables of the admin email.
func (d EmailData) productSections() []section {
	s := d.Submission
	f := s.FormData
	if s.IsBusinessQuote {
		return []section{{"Detalles de la póliza", d.Row.Extras()}}
	}
	switch q := s.QuoteType.Normalized(); q {
	case domain.QuoteVehiculos:
		return []section{{"Información del vehículo", vehicleDetails(f)}}
	case domain.QuoteCreditoVehicular:
		return []section{
			{"Información del vehículo", vehicleDetails(f)},
			{"Detalles del crédito", d.Row.Extras()},
		}
	case domain.QuoteSalud, domain.QuoteVida:
		return []section{{"Información del asegurado", healthLifeDetails(q, f)}}
	default:
		if extras := d.Row.Extras(); len(extras) > 0 {
			return []section{{"Detalles del seguro", extras}}
		}
		return nil
	}
}

// insured lists the additional insured persons on personal health and life
// quotes.
func (d EmailData) insured() []domain.InsuredPerson {
	s := d.Submission
	if s.IsBusinessQuote {
		return nil
	}
	switch s.QuoteType.Normalized() {
	case domain.QuoteSalud, domain.QuoteVida:
		return s.FormData.AdditionalInsured()
	}
	return nil
}

func (d EmailData) adminFooter() string {
	return "Este mensaje fue generado automáticamente por el cotizador de " + d.Brand + "."
}

func (d EmailData) greeting() string {
	s := d.Submission
	f := s.FormData
	if !s.IsBusinessQuote {
		return "Hola " + domain.OrNA(d.Row.ContactName) + ","
	}
	if c := f.First("nombreContacto"); c != "" {
		return "Hola " + c + ","
	}
	return "Estimado equipo de " + domain.OrNA(f.First("razonSocial", "nombreEmpresa")) + ","
}

func (d EmailData) thanks() string {
	return "Gracias por confiar en " + d.Brand + ". Recibimos tu solicitud de cotización de " +
		d.Submission.Label() + " y uno de nuestros asesores se comunicará contigo en las próximas 24 horas hábiles."
}

func (d EmailData) requestSummary() []domain.LabeledValue {
	return []domain.LabeledValue{
		lv("Número de cotización", d.Submission.QuoteID),
		lv("Producto", d.Submission.Label()),
		lv("Fecha", d.Row.Timestamp),
	}
}
