// Package render — Markdown renderer.
// Produces a portable text rendition of a program record for the export
// command. HTML-bearing sections are converted to Markdown; plain-text
// sections pass through untouched.
package render

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/Ignatius32/programas-crubunco/core"
	"github.com/Ignatius32/programas-crubunco/core/content"
)

// MarkdownRenderer writes a program record as a Markdown document.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// Render emits the metadata header followed by the long-form sections in
// their fixed order.
func (r *MarkdownRenderer) Render(p *core.Program) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", clean(p.Subject))

	writeField := func(label, value string) {
		if value = clean(value); value != "" {
			fmt.Fprintf(&sb, "- **%s:** %s\n", label, value)
		}
	}
	writeField("Año académico", p.AcademicYear)
	writeField("Departamento", p.Department)
	writeField("Cod. Guaraní", p.GuaraniCode)
	writeField("Carrera", p.CareerName)
	writeField("Código de carrera", p.CareerCode)
	writeField("Área", p.Area)
	writeField("Orientación", p.Orientation)
	writeField("Plan de estudios Ord.", p.PlanRules)
	writeField("Carga horaria semanal", p.WeeklyHours)
	writeField("Carga horaria total", p.TotalHours)
	writeField("Régimen", p.Term)
	sb.WriteString("\n")

	for _, def := range sectionDefs {
		value := strings.TrimSpace(def.Value(p))
		if value == "" {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n", def.Label)
		body, err := r.renderSection(value)
		if err != nil {
			return nil, fmt.Errorf("rendering section %q: %w", def.Label, err)
		}
		sb.WriteString(body)
		sb.WriteString("\n\n")
	}

	return []byte(strings.TrimSpace(sb.String()) + "\n"), nil
}

// renderSection converts one section body. HTML goes through the converter;
// when it rejects the fragment the interpreted plain text is kept instead.
func (r *MarkdownRenderer) renderSection(value string) (string, error) {
	if !content.LooksHTML(value) {
		return clean(value), nil
	}
	md, err := htmltomarkdown.ConvertString(value)
	if err != nil {
		return r.fallback(value), nil
	}
	return strings.TrimSpace(md), nil
}

// fallback flattens a section through the block interpreter when the HTML
// converter cannot handle it.
func (r *MarkdownRenderer) fallback(value string) string {
	var lines []string
	for block := range content.Blocks(value) {
		switch b := block.(type) {
		case content.Paragraph:
			lines = append(lines, b.Text)
		case content.List:
			for i, item := range b.Items {
				if b.Ordered {
					lines = append(lines, fmt.Sprintf("%d. %s", i+1, item))
				} else {
					lines = append(lines, "- "+item)
				}
			}
		case content.Table:
			for row := 0; row < b.Grid.Rows; row++ {
				var cells []string
				for c := 0; c < b.Grid.Cols; c++ {
					cell := b.Grid.At(row, c)
					if cell.Anchor(row, c) {
						cells = append(cells, cell.Text)
					} else {
						cells = append(cells, "")
					}
				}
				lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
			}
		}
	}
	return strings.Join(lines, "\n")
}
