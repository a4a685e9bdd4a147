package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var statusLabels = map[string]string{
	"draft":     "Borrador",
	"generated": "Generada",
	"paid":      "Pagada",
	"voided":    "Anulada",
}

// Statement renders an A4 settlement statement listing every rendering.
func Statement(clinic string, s *models.Settlement) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.SetTitle(fmt.Sprintf("Liquidación %d", s.ID), true)
	doc.AddPage()

	tr := doc.UnicodeTranslatorFromDescriptor("")
	pageW, _ := doc.GetPageSize()
	contentW := pageW - 30

	// Header
	doc.SetFont("Helvetica", "B", 15)
	doc.CellFormat(contentW, 8, tr(clinic), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(contentW, 6, tr(fmt.Sprintf("Liquidación N° %d", s.ID)), "", 1, "L", false, 0, "")
	doc.Ln(2)

	professional := ""
	if s.Professional != nil {
		professional = s.Professional.FullName()
	}

	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(contentW, 5, tr("Profesional: "+professional), "", 1, "L", false, 0, "")
	doc.CellFormat(contentW, 5, tr(fmt.Sprintf("Período: %s al %s", s.PeriodStart, s.PeriodEnd)), "", 1, "L", false, 0, "")
	doc.CellFormat(contentW, 5, tr("Estado: "+statusLabels[s.Status]), "", 1, "L", false, 0, "")
	if s.PaidOn != nil {
		doc.CellFormat(contentW, 5, tr(fmt.Sprintf("Pagada el %s (%s)", s.PaidOn, s.PaymentMethod)), "", 1, "L", false, 0, "")
	}
	doc.Ln(3)

	// Renderings
	cols := []float64{contentW * 0.14, contentW * 0.28, contentW * 0.22, contentW * 0.12, contentW * 0.12, contentW * 0.12}
	headers := []string{"Fecha", "Prestación", "Paciente", "Total", "%", "Profesional"}

	doc.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		align := "L"
		if i >= 3 {
			align = "R"
		}
		doc.CellFormat(cols[i], 6, tr(h), "B", 0, align, false, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	for _, r := range s.Renderings {
		patient := ""
		if r.Patient != nil {
			patient = r.Patient.FullName()
		}
		doc.CellFormat(cols[0], 5, r.Date.String(), "", 0, "L", false, 0, "")
		doc.CellFormat(cols[1], 5, tr(truncate(r.Description, 38)), "", 0, "L", false, 0, "")
		doc.CellFormat(cols[2], 5, tr(truncate(patient, 30)), "", 0, "L", false, 0, "")
		doc.CellFormat(cols[3], 5, "$ "+r.TotalAmount.StringFixed(2), "", 0, "R", false, 0, "")
		doc.CellFormat(cols[4], 5, r.ProfessionalPct.StringFixed(2), "", 0, "R", false, 0, "")
		doc.CellFormat(cols[5], 5, "$ "+r.ProfessionalAmount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	// Totals
	doc.Ln(2)
	doc.Line(15, doc.GetY(), pageW-15, doc.GetY())
	doc.Ln(2)
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(contentW*0.7, 6, tr(fmt.Sprintf("Prestaciones: %d", s.RenderingsCount)), "", 0, "L", false, 0, "")
	doc.CellFormat(contentW*0.3, 6, "Total: $ "+s.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")
	doc.CellFormat(contentW, 6, "A pagar al profesional: $ "+s.ProfessionalAmount.StringFixed(2), "", 1, "R", false, 0, "")

	if s.Notes != "" {
		doc.Ln(3)
		doc.SetFont("Helvetica", "I", 9)
		doc.MultiCell(contentW, 5, tr("Observaciones: "+s.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render statement: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
