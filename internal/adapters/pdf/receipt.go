// Package pdf renders the one-page quote receipt that can be attached to the
// customer confirmation. The page shows the quote header, the contact block,
// the product-line details from the recorded row and, when present, the
// additional insured persons.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/csg33k/cotizador/internal/domain"
)

// ContentType of the generated document.
const ContentType = "application/pdf"

// Filename returns the attachment name for quoteID.
func Filename(quoteID string) string {
	return "cotizacion-" + strings.TrimSpace(quoteID) + ".pdf"
}

// GenerateReceipt writes the receipt for s to w. row must be the row that
// was built for s so the receipt and the spreadsheet agree.
func GenerateReceipt(s domain.Submission, row domain.Row, brand string, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18+footerH)
	pdf.AliasNbPages("{nb}")
	pdf.SetTitle("Cotización #"+s.QuoteID, true)

	r := &receipt{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() { r.footer(brand) })
	pdf.AddPage()
	r.draw(s, row)
	return pdf.Output(w)
}

// Attachment builds the receipt as an email attachment.
func Attachment(s domain.Submission, row domain.Row, brand string) (domain.Attachment, error) {
	var buf bytes.Buffer
	if err := GenerateReceipt(s, row, brand, &buf); err != nil {
		return domain.Attachment{}, err
	}
	return domain.Attachment{
		Filename:    Filename(s.QuoteID),
		ContentType: ContentType,
		Content:     buf.Bytes(),
	}, nil
}

// footerH is kept free at the bottom of every page for the footer line.
const footerH = 8

type receipt struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (r *receipt) draw(s domain.Submission, row domain.Row) {
	pdf := r.pdf
	pageW, _ := pdf.GetPageSize()
	marginL, marginT, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	// ── Header bar ───────────────────────────────────────────────────────────
	pdf.SetFillColor(30, 58, 95)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW-4, 7, r.tr("COMPROBANTE DE COTIZACIÓN"), "", 0, "L", false, 0, "")
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW-4, 7, "#"+s.QuoteID, "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	y := marginT + 13
	colHalf := contentW / 2

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(colHalf, 6, r.tr(s.Label()), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(colHalf, 6, r.tr("Fecha: "+row.Timestamp), "", 1, "R", false, 0, "")
	y += 6
	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW, 5.5, r.tr("Tipo de cliente: "+s.Segment()), "", 1, "L", false, 0, "")
	y += 9

	// ── Contact ──────────────────────────────────────────────────────────────
	y = r.box(y, contentW, "DATOS DE CONTACTO", []domain.LabeledValue{
		{Label: "Nombre", Value: row.ContactName},
		{Label: identityLabel(s), Value: row.ContactID},
		{Label: "Teléfono", Value: row.Phone},
		{Label: "Correo", Value: row.Email},
		{Label: "Dirección", Value: row.Address},
	})
	y += 5

	// ── Product details ──────────────────────────────────────────────────────
	if extras := row.Extras(); len(extras) > 0 {
		y = r.table(y, contentW, "DETALLES DE LA SOLICITUD", extras)
		y += 5
	}

	if people := s.FormData.AdditionalInsured(); len(people) > 0 {
		y = r.people(y, contentW, people)
		y += 5
	}

	if strings.TrimSpace(row.Message) != "" {
		y = r.fit(y, 5.5+10)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetXY(marginL, y)
		pdf.CellFormat(contentW, 5.5, "MENSAJE", "LRT", 1, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetX(marginL)
		pdf.MultiCell(contentW, 5, r.tr(row.Message), "LRB", "L", false)
	}
}

// footer runs on every page.
func (r *receipt) footer(brand string) {
	pdf := r.pdf
	pageW, pageH := pdf.GetPageSize()
	marginL, _, marginR, marginB := pdf.GetMargins()
	w := pageW - marginL - marginR

	pdf.SetXY(marginL, pageH-marginB-6)
	pdf.SetFont("Helvetica", "I", 7.5)
	pdf.SetTextColor(130, 130, 130)
	pdf.CellFormat(w/3, 5, r.tr(brand), "", 0, "L", false, 0, "")
	pdf.CellFormat(w/3, 5, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	pdf.CellFormat(w/3, 5, r.tr("Este documento no constituye una póliza"), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// fit starts a new page when a block of height h would not fit below y and
// returns the y to draw at.
func (r *receipt) fit(y, h float64) float64 {
	_, pageH := r.pdf.GetPageSize()
	_, marginT, _, marginB := r.pdf.GetMargins()
	if y+h <= pageH-marginB-footerH {
		return y
	}
	r.pdf.AddPage()
	return marginT
}

// box draws a titled two-column label/value block and returns the next y.
func (r *receipt) box(y, w float64, title string, rows []domain.LabeledValue) float64 {
	pdf := r.pdf
	marginL, _, _, _ := pdf.GetMargins()

	y = r.fit(y, 5.5+6*float64(len(rows)))
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(w, 5.5, r.tr(title), "LRT", 1, "L", true, 0, "")
	y += 5.5

	for i, lv := range rows {
		left, right := "L", "R"
		if i == len(rows)-1 {
			left, right = "LB", "RB"
		}
		pdf.SetXY(marginL, y)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(w*0.3, 6, r.tr(lv.Label+":"), left, 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(w*0.7, 6, r.tr(domain.OrNA(lv.Value)), right, 1, "L", false, 0, "")
		y += 6
	}
	return y
}

// table draws a striped label/value table with a dark header row.
func (r *receipt) table(y, w float64, title string, rows []domain.LabeledValue) float64 {
	pdf := r.pdf
	marginL, _, _, _ := pdf.GetMargins()
	labelW := w * 0.45

	y = r.fit(y, 7+6.5*float64(len(rows)))
	pdf.SetFillColor(30, 58, 95)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 8.5)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(w, 7, r.tr(title), "1", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	y += 7

	pdf.SetFont("Helvetica", "", 8.5)
	for i, lv := range rows {
		stripe(pdf, i)
		pdf.SetXY(marginL, y)
		pdf.CellFormat(labelW, 6.5, r.tr(lv.Label), "1", 0, "L", true, 0, "")
		pdf.CellFormat(w-labelW, 6.5, r.tr(domain.OrNA(lv.Value)), "1", 1, "L", true, 0, "")
		y += 6.5
	}
	return y
}

// people draws the additional insured table. Long lists continue on the
// next page with the column header repeated.
func (r *receipt) people(y, w float64, people []domain.InsuredPerson) float64 {
	pdf := r.pdf
	marginL, _, _, _ := pdf.GetMargins()
	widths := [4]float64{0.4, 0.25, 0.2, 0.15}
	titles := [4]string{"Nombre", "Documento", "Parentesco", "Edad"}

	header := func() {
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetXY(marginL, y)
		for i, t := range titles {
			ln := 0
			if i == len(titles)-1 {
				ln = 1
			}
			pdf.CellFormat(w*widths[i], 6, t, "1", ln, "C", true, 0, "")
		}
		y += 6
		pdf.SetFont("Helvetica", "", 8.5)
	}

	y = r.fit(y, 5.5+6+6)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(w, 5.5, "ASEGURADOS ADICIONALES", "LRT", 1, "L", true, 0, "")
	y += 5.5
	header()

	for i, p := range people {
		if next := r.fit(y, 6); next != y {
			y = next
			header()
		}
		stripe(pdf, i)
		pdf.SetXY(marginL, y)
		cells := [4]string{p.Name, p.Document, p.Relationship, p.Age}
		for j, c := range cells {
			ln := 0
			if j == len(cells)-1 {
				ln = 1
			}
			pdf.CellFormat(w*widths[j], 6, r.tr(domain.OrNA(c)), "1", ln, "L", true, 0, "")
		}
		y += 6
	}
	return y
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func stripe(pdf *fpdf.Fpdf, i int) {
	if i%2 == 0 {
		pdf.SetFillColor(250, 250, 250)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
}

func identityLabel(s domain.Submission) string {
	if s.IsBusinessQuote {
		return "NIT"
	}
	return "Documento"
}
