// Package render — JSON renderer.
// Emits the normalized record plus the list of sections a document renderer
// would show, so consumers can mirror the printed layout.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/Ignatius32/programas-crubunco/core"
)

// JSONRenderer writes a program record as indented JSON.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// programJSON wraps the record with derived presentation data.
type programJSON struct {
	Programa  *core.Program `json:"programa"`
	Secciones []string      `json:"secciones_visibles"`
}

// Render marshals the record with the visible-section list.
func (r *JSONRenderer) Render(p *core.Program) ([]byte, error) {
	data, err := json.MarshalIndent(programJSON{
		Programa:  p,
		Secciones: VisibleSections(p),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}
