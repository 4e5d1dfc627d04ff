// Package render provides output renderers for program records.
// The PDF renderer is the primary one; Markdown and JSON exist for the
// export command.
package render

import (
	"strings"

	"github.com/Ignatius32/programas-crubunco/core"
)

// sectionDef binds a fixed heading to the record field it renders.
type sectionDef struct {
	Label string
	Value func(p *core.Program) string
}

// sectionDefs is the complete, ordered list of long-form sections. Body
// emission always follows this order, regardless of how the source record
// was keyed; fields not listed here are dropped silently.
var sectionDefs = []sectionDef{
	{"FUNDAMENTACIÓN", func(p *core.Program) string { return p.Rationale }},
	{"OBJETIVOS", func(p *core.Program) string { return p.Objectives }},
	{"CONTENIDOS SEGÚN PLAN DE ESTUDIOS", func(p *core.Program) string { return p.MinContents }},
	{"CONTENIDO PROGRAMA ANALÍTICO", func(p *core.Program) string { return p.Syllabus }},
	{"BIBLIOGRAFÍA BÁSICA Y DE CONSULTA", func(p *core.Program) string { return p.Bibliography }},
	{"PROPUESTA METODOLÓGICA", func(p *core.Program) string { return p.Methodology }},
	{"EVALUACIÓN Y CONDICIONES DE ACREDITACIÓN", func(p *core.Program) string { return p.Evaluation }},
	{"DISTRIBUCIÓN HORARIA", hourDistribution},
	{"CRONOGRAMA TENTATIVO", func(p *core.Program) string { return p.Schedule }},
}

// hourDistribution merges the three hour scalars with the free-form
// distribution field so the section is skipped only when all are empty.
func hourDistribution(p *core.Program) string {
	var parts []string
	if v := strings.TrimSpace(p.TheoryHours); v != "" {
		parts = append(parts, "Horas teóricas: "+v)
	}
	if v := strings.TrimSpace(p.PracticeHours); v != "" {
		parts = append(parts, "Horas prácticas: "+v)
	}
	if v := strings.TrimSpace(p.MixedHours); v != "" {
		parts = append(parts, "Horas teórico-prácticas: "+v)
	}
	scalars := strings.Join(parts, "\n")
	body := strings.TrimSpace(p.HourDistribution)
	switch {
	case scalars == "":
		return body
	case body == "":
		return scalars
	default:
		return scalars + "\n" + body
	}
}

// VisibleSections returns, in render order, the headings that will actually
// appear for this record. A section with empty content produces no heading
// at all.
func VisibleSections(p *core.Program) []string {
	var out []string
	for _, def := range sectionDefs {
		if strings.TrimSpace(def.Value(p)) != "" {
			out = append(out, def.Label)
		}
	}
	return out
}
