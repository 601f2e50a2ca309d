package domain

import (
	"strings"
	"time"
)

// RowWidth is the number of spreadsheet columns a Row occupies (A..M).
const RowWidth = 13

// TimestampLayout is how Row.Timestamp is rendered in the sheet.
const TimestampLayout = "02/01/2006 15:04:05"

// Row is the record written for every submission. Column meaning is
// positional in the sheet, so Values must keep this field order.
type Row struct {
	Timestamp   string
	QuoteID     string
	QuoteType   string
	ContactName string
	ContactID   string
	Phone       string
	Email       string
	Address     string
	Extra1      string
	Extra2      string
	Extra3      string
	Message     string
	RawData     string

	// ExtraLabels names Extra1..Extra3 for the current product line. It is
	// not written to the sheet.
	ExtraLabels [3]string
}

// Header is the column title row matching Values.
var Header = [RowWidth]string{
	"Fecha", "ID Cotización", "Tipo", "Nombre", "Documento/NIT", "Teléfono",
	"Email", "Dirección", "Extra 1", "Extra 2", "Extra 3", "Mensaje", "Datos",
}

// Values returns the row in sheet column order.
func (r Row) Values() [RowWidth]string {
	return [RowWidth]string{
		r.Timestamp, r.QuoteID, r.QuoteType, r.ContactName, r.ContactID,
		r.Phone, r.Email, r.Address, r.Extra1, r.Extra2, r.Extra3,
		r.Message, r.RawData,
	}
}

// Extras pairs each non-empty extra value with its label.
func (r Row) Extras() []LabeledValue {
	vals := [3]string{r.Extra1, r.Extra2, r.Extra3}
	out := make([]LabeledValue, 0, 3)
	for i, v := range vals {
		if r.ExtraLabels[i] == "" {
			continue
		}
		out = append(out, LabeledValue{Label: r.ExtraLabels[i], Value: v})
	}
	return out
}

type LabeledValue struct {
	Label string
	Value string
}

// extraColumn selects one extra column: its label and how to read it.
type extraColumn struct {
	label string
	read  func(FormData) string
}

func keys(ks ...string) func(FormData) string {
	return func(f FormData) string { return f.First(ks...) }
}

func joined(sep string, ks ...string) func(FormData) string {
	return func(f FormData) string { return f.Join(sep, ks...) }
}

var personalExtras = map[QuoteType][3]extraColumn{
	QuoteVehiculos: {
		{"Vehículo", joined(" ", "marca", "modelo")},
		{"Año", keys("anio", "año", "ano")},
		{"Placa", keys("placa")},
	},
	QuoteSalud: {
		{"Fecha de nacimiento / edad", keys("fechaNacimiento", "edad")},
		{"Plan", keys("tipoPlan", "plan")},
		{"Preexistencias", keys("preexistencias")},
	},
	QuoteVida: {
		{"Fecha de nacimiento / edad", keys("fechaNacimiento", "edad")},
		{"Suma asegurada", keys("sumaAsegurada")},
		{"Beneficiarios", keys("beneficiarios")},
	},
	QuoteMascotas: {
		{"Mascota", joined(" - ", "tipoMascota", "nombreMascota")},
		{"Raza", keys("raza")},
		{"Edad de la mascota", keys("edadMascota")},
	},
	QuoteHogar: {
		{"Tipo de vivienda", keys("tipoVivienda")},
		{"Valor de la vivienda", keys("valorVivienda")},
		{"Valor de contenidos", keys("valorContenidos")},
	},
	QuoteCreditoVehicular: {
		{"Valor del vehículo", keys("valorVehiculo")},
		{"Cuota inicial", keys("cuotaInicial")},
		{"Plazo", keys("plazo")},
	},
	QuoteAsistenciaViajes: {
		{"Destino", keys("destino")},
		{"Fechas", joined(" - ", "fechaSalida", "fechaRegreso")},
		{"Viajeros", keys("numeroViajeros")},
	},
}

var businessExtras = map[QuoteType][3]extraColumn{
	QuoteCorporativos: {
		{"Actividad económica", keys("actividadEconomica")},
		{"Número de empleados", keys("numeroEmpleados")},
		{"Valor a asegurar", keys("valorAsegurar")},
	},
	QuoteResponsabilidadCivil: {
		{"Actividad económica", keys("actividadEconomica")},
		{"Valor a asegurar", keys("valorAsegurar")},
		{"Tipo de responsabilidad", keys("tipoResponsabilidad")},
	},
	QuoteTransporte: {
		{"Tipo de mercancía", keys("tipoMercancia")},
		{"Valor de la mercancía", keys("valorMercancia")},
		{"Ruta", joined(" - ", "origen", "destino")},
	},
	QuoteConstruccion: {
		{"Tipo de obra", keys("tipoObra")},
		{"Valor de la obra", keys("valorObra")},
		{"Duración de la obra", keys("duracionObra")},
	},
	QuoteCumplimiento: {
		{"Tipo de contrato", keys("tipoContrato")},
		{"Valor del contrato", keys("valorContrato")},
		{"Entidad contratante", keys("entidadContratante")},
	},
	QuoteARL: {
		{"Número de empleados", keys("numeroEmpleados")},
		{"Actividad económica", keys("actividadEconomica")},
		{"Clase de riesgo", keys("claseRiesgo")},
	},
}

// NewRow builds the record for s. recordedAt should already be in the
// reporting time zone.
func NewRow(s Submission, recordedAt time.Time) Row {
	f := s.FormData
	r := Row{
		Timestamp: recordedAt.Format(TimestampLayout),
		QuoteID:   s.QuoteID,
		QuoteType: string(s.QuoteType),
		Message:   f.First(messageKeys...),
		RawData:   f.JSON(),
	}
	table := personalExtras
	if s.IsBusinessQuote {
		r.ContactName = businessName(f)
		r.ContactID = f.First("nit")
		r.Phone = f.First("telefono", "telefonoEmpresa", "celular")
		r.Email = f.First(businessEmailKeys...)
		table = businessExtras
	} else {
		r.ContactName = personalName(f)
		r.ContactID = personalID(f)
		r.Phone = f.First("telefono", "celular")
		r.Email = f.First(personalEmailKeys...)
	}
	r.Address = f.Join(", ", "direccion", "ciudad")

	if cols, ok := table[s.QuoteType.Normalized()]; ok {
		vals := [3]*string{&r.Extra1, &r.Extra2, &r.Extra3}
		for i, sp := range cols {
			*vals[i] = sp.read(f)
			r.ExtraLabels[i] = sp.label
		}
	}
	return r
}

func personalName(f FormData) string {
	if n := f.First("nombreCompleto"); n != "" {
		return n
	}
	return f.Join(" ", "nombre", "apellido")
}

func personalID(f FormData) string {
	id := f.First("numeroDocumento", "cedula", "documento")
	if id == "" {
		return ""
	}
	if t := f.First("tipoDocumento"); t != "" {
		return strings.TrimSpace(t + " " + id)
	}
	return id
}

func businessName(f FormData) string {
	company := f.First("razonSocial", "nombreEmpresa")
	contact := f.First("nombreContacto")
	switch {
	case company != "" && contact != "":
		return company + " / " + contact
	case company != "":
		return company
	default:
		return contact
	}
}
