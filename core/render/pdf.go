// Package render — PDF renderer.
// Assembles a program record into a paginated A4 document with a repeating
// institutional header, a signature/page-number footer, and the long-form
// sections in their fixed order. Tables arrive pre-flattened from the
// content interpreter and are drawn as a uniform thin grid.
package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/Ignatius32/programas-crubunco/core"
	"github.com/Ignatius32/programas-crubunco/core/content"
	"github.com/Ignatius32/programas-crubunco/core/textnorm"
)

// Page geometry and typography, in millimeters/points.
const (
	marginLeft   = 25.0
	marginRight  = 25.0
	marginTop    = 45.0 // reserves room for the repeating header
	marginBottom = 30.0 // reserves room for signatures and page number

	bodyFontSize    = 11.0
	headingFontSize = 12.0
	titleFontSize   = 16.0
	tableFontSize   = 9.0
	footerFontSize  = 6.0

	bodyLineHeight  = 5.5
	tableLineHeight = 4.5
	cellPadding     = 1.5
	gridLineWidth   = 0.2
)

// PDFRenderer renders a program record as a PDF document.
type PDFRenderer struct {
	// LogoPath optionally points at a PNG/JPEG institutional logo drawn in
	// the page header. Missing or unreadable files are skipped silently.
	LogoPath string
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer(logoPath string) *PDFRenderer {
	return &PDFRenderer{LogoPath: logoPath}
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// Render lays out the complete document and returns its bytes. Generation
// either fully succeeds or returns an error; no partial output.
func (r *PDFRenderer) Render(p *core.Program) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(tr(fmt.Sprintf("CRUB UNCo - %s %s %s", p.Subject, p.CareerCode, p.AcademicYear)), false)
	pdf.SetAuthor("Centro Regional Universitario Bariloche - UNCo", false)
	pdf.SetCreator("Sistema de Programas - CRUB UNCo", false)

	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)

	// Header and footer are registered once and replayed by the layout
	// engine on every page; they read only the record, never body state.
	pdf.SetHeaderFunc(func() { r.drawHeader(pdf, tr) })
	pdf.SetFooterFunc(func() { drawFooter(pdf, tr, p) })

	pdf.AddPage()
	r.writeMetadata(pdf, tr, p)
	r.writeSections(pdf, tr, p)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("assembling PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// drawHeader paints the institutional title block at the top of every page.
func (r *PDFRenderer) drawHeader(pdf *gofpdf.Fpdf, tr func(string) string) {
	pageW, _ := pdf.GetPageSize()
	centerX := pageW / 2

	if r.LogoPath != "" {
		if _, err := os.Stat(r.LogoPath); err == nil {
			ext := strings.ToLower(filepath.Ext(r.LogoPath))
			if ext == ".png" || ext == ".jpg" || ext == ".jpeg" {
				pdf.ImageOptions(r.LogoPath, marginLeft, 8, 25, 0, false,
					gofpdf.ImageOptions{ReadDpi: true}, 0, "")
			}
		}
	}

	pdf.SetTextColor(128, 128, 128)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(centerX-pdf.GetStringWidth(tr("Secretaría Académica"))/2, 12, tr("Secretaría Académica"))
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(centerX-pdf.GetStringWidth("Centro Regional Universitario Bariloche")/2, 17,
		"Centro Regional Universitario Bariloche")
	pdf.Text(centerX-pdf.GetStringWidth("Universidad Nacional del Comahue")/2, 22,
		"Universidad Nacional del Comahue")

	pdf.SetDrawColor(178, 178, 178)
	pdf.SetLineWidth(gridLineWidth)
	pdf.Line(marginLeft+15, 26, pageW-marginRight-15, 26)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetY(marginTop)
}

// drawFooter paints the signature lines and the page number.
func drawFooter(pdf *gofpdf.Fpdf, tr func(string) string, p *core.Program) {
	signatures := make([]string, 0, 3)
	for _, sig := range []string{p.InstructorSignature, p.DepartmentSignature, p.CommitteeSignature} {
		if s := strings.TrimSpace(sig); s != "" {
			signatures = append(signatures, s)
		}
	}

	pdf.SetFont("Helvetica", "", footerFontSize)
	pdf.SetTextColor(0, 0, 0)
	y := -8.0 - float64(len(signatures))*3.5
	pdf.SetY(y)
	for _, sig := range signatures {
		pdf.CellFormat(0, 3.5, tr(clean(sig)), "", 1, "L", false, 0, "")
	}

	pdf.SetY(-8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 4, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// writeMetadata emits the title line and the labeled header fields in the
// order the printed form uses.
func (r *PDFRenderer) writeMetadata(pdf *gofpdf.Fpdf, tr func(string) string, p *core.Program) {
	pdf.SetFont("Helvetica", "B", titleFontSize)
	pdf.CellFormat(0, 9, tr(clean("AÑO ACADÉMICO: "+p.AcademicYear)), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	writeField := func(label, value string) {
		value = clean(value)
		if value == "" {
			return
		}
		pdf.SetFont("Helvetica", "B", bodyFontSize)
		pdf.MultiCell(0, bodyLineHeight, tr(label+": "+value), "", "L", false)
		pdf.Ln(1)
	}

	writeField("DEPARTAMENTO", p.Department)

	if subject := clean(p.Subject); subject != "" {
		label := "PROGRAMA DE CÁTEDRA: " + subject
		if isElective(p.Elective) {
			label += " (OPT)"
		}
		pdf.SetFont("Helvetica", "B", bodyFontSize)
		pdf.MultiCell(0, bodyLineHeight, tr(label), "", "L", false)
		if code := clean(p.GuaraniCode); code != "" {
			pdf.SetFont("Helvetica", "", bodyFontSize)
			pdf.MultiCell(0, bodyLineHeight, tr("(Cod. Guaraní: "+code+")"), "", "L", false)
		}
		pdf.Ln(1)
	}

	if career := clean(p.CareerName); career != "" {
		pdf.SetFont("Helvetica", "B", bodyFontSize)
		pdf.MultiCell(0, bodyLineHeight, tr("CARRERA A LA QUE PERTENECE Y/O SE OFRECE:"), "", "L", false)
		if code := clean(p.CareerCode); code != "" {
			career += " - (" + code + ")"
		}
		pdf.SetFont("Helvetica", "", bodyFontSize)
		pdf.MultiCell(0, bodyLineHeight, tr(career), "", "L", false)
		pdf.Ln(2)
	}

	writeField("ÁREA", p.Area)
	writeField("ORIENTACIÓN", p.Orientation)
	writeField("PLAN DE ESTUDIOS ORD.", p.PlanRules)
	if track := clean(p.Track); track != "" && !strings.EqualFold(track, "N/C") {
		writeField("TRAYECTO (PEF)", track)
	}
	writeField("CARGA HORARIA SEMANAL SEGÚN PLAN DE ESTUDIOS", p.WeeklyHours)
	writeField("CARGA HORARIA TOTAL", p.TotalHours)
	writeField("RÉGIMEN", p.Term)

	r.writeTeam(pdf, tr, p)
	r.writePrerequisites(pdf, tr, p)
}

// writeTeam emits the teaching team block.
func (r *PDFRenderer) writeTeam(pdf *gofpdf.Fpdf, tr func(string) string, p *core.Program) {
	pdf.SetFont("Helvetica", "B", bodyFontSize)
	pdf.MultiCell(0, bodyLineHeight, tr("EQUIPO DE CÁTEDRA:"), "", "L", false)

	var nameParts []string
	for _, part := range []string{clean(p.LeadLastName), clean(p.LeadFirstName)} {
		if part != "" {
			nameParts = append(nameParts, part)
		}
	}
	lead := strings.Join(nameParts, ", ")
	if position := clean(p.LeadPosition); position != "" {
		if lead != "" {
			lead += " - " + position
		} else {
			lead = position
		}
	}
	pdf.SetFont("Helvetica", "", bodyFontSize)
	if lead != "" {
		pdf.MultiCell(0, bodyLineHeight, tr(lead), "", "L", false)
	}
	if team := clean(p.TeachingTeam); team != "" {
		pdf.MultiCell(0, bodyLineHeight, tr(team), "", "L", false)
	}
	pdf.Ln(2)
}

// writePrerequisites emits the correlative-course block, with explicit
// placeholders when a list is empty.
func (r *PDFRenderer) writePrerequisites(pdf *gofpdf.Fpdf, tr func(string) string, p *core.Program) {
	pdf.SetFont("Helvetica", "B", bodyFontSize)
	pdf.MultiCell(0, bodyLineHeight, tr("ASIGNATURAS CORRELATIVAS (según plan de estudios):"), "", "L", false)

	writeList := func(header, raw, placeholder string) {
		pdf.SetFont("Helvetica", "", bodyFontSize)
		pdf.MultiCell(0, bodyLineHeight, tr(header), "", "L", false)
		wrote := false
		for _, line := range strings.Split(raw, "\n") {
			if line = clean(line); line != "" {
				pdf.MultiCell(0, bodyLineHeight, tr(line), "", "L", false)
				wrote = true
			}
		}
		if !wrote {
			pdf.MultiCell(0, bodyLineHeight, tr(placeholder), "", "L", false)
		}
	}

	writeList("- PARA CURSAR:", p.PrereqToEnroll, "No posee correlativas para cursar")
	writeList("- PARA RENDIR EXAMEN FINAL:", p.PrereqToPass, "No posee correlativas para rendir")
	pdf.Ln(2)
}

// writeSections emits the long-form sections in fixed order. Absent sections
// are skipped entirely, heading included.
func (r *PDFRenderer) writeSections(pdf *gofpdf.Fpdf, tr func(string) string, p *core.Program) {
	for _, def := range sectionDefs {
		value := strings.TrimSpace(def.Value(p))
		if value == "" {
			continue
		}

		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", headingFontSize)
		pdf.SetTextColor(0, 51, 102)
		pdf.MultiCell(0, 6, tr(def.Label+":"), "", "L", false)
		pdf.SetTextColor(0, 0, 0)

		for block := range content.Blocks(value) {
			r.writeBlock(pdf, tr, block)
		}
	}
}

// writeBlock dispatches on the block variant.
func (r *PDFRenderer) writeBlock(pdf *gofpdf.Fpdf, tr func(string) string, block content.Block) {
	switch b := block.(type) {
	case content.Paragraph:
		pdf.SetFont("Helvetica", "", bodyFontSize)
		pdf.MultiCell(0, bodyLineHeight, tr(b.Text), "", "J", false)
		pdf.Ln(1)
	case content.List:
		pdf.SetFont("Helvetica", "", bodyFontSize)
		for i, item := range b.Items {
			marker := "• "
			if b.Ordered {
				marker = fmt.Sprintf("%d. ", i+1)
			}
			pdf.SetX(marginLeft + 5)
			pdf.MultiCell(0, bodyLineHeight, tr(marker+item), "", "L", false)
		}
		pdf.Ln(1)
	case content.Table:
		r.writeTable(pdf, tr, b.Grid)
	}
}

// writeTable draws a flattened grid with a uniform thin line. Column-spanning
// cells draw as one wide cell; rows covered by a rowspan from above draw an
// empty cell with the same shading so the grid stays rectangular.
func (r *PDFRenderer) writeTable(pdf *gofpdf.Fpdf, tr func(string) string, grid *content.Grid) {
	if grid == nil || grid.Cols == 0 {
		return
	}

	pageW, pageH := pdf.GetPageSize()
	avail := pageW - marginLeft - marginRight

	pdf.SetFont("Helvetica", "", tableFontSize)
	widths := grid.ColWidths(avail, func(s string) float64 {
		return pdf.GetStringWidth(s) + 2*cellPadding
	})

	pdf.SetLineWidth(gridLineWidth)
	pdf.SetFillColor(229, 229, 229)

	for row := 0; row < grid.Rows; row++ {
		rowH := r.rowHeight(pdf, tr, grid, row, widths)
		if pdf.GetY()+rowH > pageH-marginBottom {
			pdf.AddPage()
		}

		x := marginLeft
		y := pdf.GetY()
		c := 0
		for c < grid.Cols {
			cell := grid.At(row, c)
			if cell.Anchor(row, c) {
				w := spanWidth(widths, c, cell.ColSpan)
				r.drawCell(pdf, tr, cell, x, y, w, rowH, cell.Text)
				x += w
				c += cell.ColSpan
				continue
			}
			// rowspan continuation from a prior row
			r.drawCell(pdf, tr, cell, x, y, widths[c], rowH, "")
			x += widths[c]
			c++
		}
		pdf.SetXY(marginLeft, y+rowH)
	}
	pdf.Ln(3)
}

// drawCell paints one bordered cell with vertically centered wrapped text.
func (r *PDFRenderer) drawCell(pdf *gofpdf.Fpdf, tr func(string) string, cell *content.Cell, x, y, w, h float64, text string) {
	style := ""
	if cell.Bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, tableFontSize)

	pdf.SetXY(x, y)
	pdf.CellFormat(w, h, "", "1", 0, "", cell.Shaded, 0, "")

	if text == "" {
		return
	}
	lines := pdf.SplitText(tr(text), w-2*cellPadding)
	textH := float64(len(lines)) * tableLineHeight
	top := y + (h-textH)/2
	if top < y {
		top = y
	}
	pdf.SetXY(x+cellPadding, top)
	pdf.MultiCell(w-2*cellPadding, tableLineHeight, tr(text), "", "C", false)
}

// rowHeight computes the height needed by the tallest anchored cell of a row.
func (r *PDFRenderer) rowHeight(pdf *gofpdf.Fpdf, tr func(string) string, grid *content.Grid, row int, widths []float64) float64 {
	min := tableLineHeight + 2*cellPadding
	h := min
	for c := 0; c < grid.Cols; {
		cell := grid.At(row, c)
		if !cell.Anchor(row, c) || cell.Text == "" {
			c++
			continue
		}
		w := spanWidth(widths, c, cell.ColSpan)
		pdf.SetFont("Helvetica", "", tableFontSize)
		lines := pdf.SplitText(tr(cell.Text), w-2*cellPadding)
		// A rowspan distributes its text over the rows it covers.
		need := float64(len(lines))*tableLineHeight/float64(cell.RowSpan) + 2*cellPadding
		if need > h {
			h = need
		}
		c += cell.ColSpan
	}
	return h
}

func spanWidth(widths []float64, start, span int) float64 {
	w := 0.0
	for c := start; c < start+span && c < len(widths); c++ {
		w += widths[c]
	}
	return w
}

// isElective interprets the optativa flag values found in the records.
func isElective(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "si" || v == "sí"
}

// clean runs the shared normalization over a single field value.
func clean(s string) string {
	return strings.TrimSpace(textnorm.Normalize(textnorm.DecodeEntities(s)))
}
