// Package content interprets a section's raw value into layout blocks.
// A section is either plain text or an HTML fragment; the interpreter decides
// once, up front, and downstream consumers only ever see tagged block
// variants (paragraph, list, table).
package content

// Block is a single layout unit consumed by a renderer.
type Block interface {
	block()
}

// Paragraph is a run of body text.
type Paragraph struct {
	Text string
}

// List is a bulleted or numbered sequence of items.
type List struct {
	Items   []string
	Ordered bool
}

// Table is a flattened rectangular grid of styled cells.
type Table struct {
	Grid *Grid
}

func (Paragraph) block() {}
func (List) block()      {}
func (Table) block()     {}
