package content

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Ignatius32/programas-crubunco/core/textnorm"
)

// Cell is one logical table cell. A cell spanning several rows or columns is
// shared by every grid position it covers; Row/Col are its anchor position.
type Cell struct {
	Row     int
	Col     int
	RowSpan int
	ColSpan int
	Text    string
	Bold    bool
	Shaded  bool
}

// Anchor reports whether position (r, c) is the cell's top-left corner.
func (c *Cell) Anchor(r, col int) bool {
	return c.Row == r && c.Col == col
}

// Grid is a dense rectangular view of a table: every position maps to exactly
// one cell, with merged cells repeated across their span region.
type Grid struct {
	Rows  int
	Cols  int
	cells []*Cell
}

// At returns the cell covering position (r, c).
func (g *Grid) At(r, c int) *Cell {
	return g.cells[r*g.Cols+c]
}

// FlattenTable expands an HTML table with merged cells into a rectangular
// grid. Placement keeps a per-column "occupied until row N" counter sized to
// the declared table width: new cells skip columns still claimed by a prior
// row-spanning cell, then claim their own span region.
func FlattenTable(table *goquery.Selection) *Grid {
	rows := table.Find("tr")
	cols := tableWidth(rows)
	if cols == 0 || rows.Length() == 0 {
		return &Grid{}
	}

	g := &Grid{
		Rows:  rows.Length(),
		Cols:  cols,
		cells: make([]*Cell, rows.Length()*cols),
	}

	occupied := make([]int, cols) // per column: first free row

	rows.Each(func(r int, tr *goquery.Selection) {
		col := 0
		tr.ChildrenFiltered("th, td").Each(func(_ int, td *goquery.Selection) {
			for col < cols && occupied[col] > r {
				col++
			}
			if col >= cols {
				return
			}

			cell := &Cell{
				Row:     r,
				Col:     col,
				RowSpan: spanAttr(td, "rowspan"),
				ColSpan: spanAttr(td, "colspan"),
				Text:    cleanCellText(td.Text()),
			}
			applyCellStyle(td, cell)

			for rr := r; rr < r+cell.RowSpan && rr < g.Rows; rr++ {
				for cc := col; cc < col+cell.ColSpan && cc < cols; cc++ {
					g.cells[rr*cols+cc] = cell
				}
			}
			for cc := col; cc < col+cell.ColSpan && cc < cols; cc++ {
				occupied[cc] = r + cell.RowSpan
			}
			col += cell.ColSpan
		})
	})

	// Rows with fewer declared cells than the grid width pad with empties.
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < cols; c++ {
			if g.cells[r*cols+c] == nil {
				g.cells[r*cols+c] = &Cell{Row: r, Col: c, RowSpan: 1, ColSpan: 1}
			}
		}
	}
	return g
}

// tableWidth derives the declared grid width from the widest row.
func tableWidth(rows *goquery.Selection) int {
	max := 0
	rows.Each(func(_ int, tr *goquery.Selection) {
		width := 0
		tr.ChildrenFiltered("th, td").Each(func(_ int, td *goquery.Selection) {
			width += spanAttr(td, "colspan")
		})
		if width > max {
			max = width
		}
	})
	return max
}

// spanAttr reads a rowspan/colspan attribute; missing, zero or garbage is 1.
func spanAttr(td *goquery.Selection, name string) int {
	v, ok := td.Attr(name)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// applyCellStyle derives bold/shaded flags from the cell markup. Header cells
// get both; inline styles are matched loosely and anything unrecognized is
// ignored, never fatal.
func applyCellStyle(td *goquery.Selection, cell *Cell) {
	if goquery.NodeName(td) == "th" {
		cell.Bold = true
		cell.Shaded = true
	}
	if td.Find("b, strong").Length() > 0 {
		cell.Bold = true
	}
	if style, ok := td.Attr("style"); ok {
		style = strings.ToLower(strings.ReplaceAll(style, " ", ""))
		if strings.Contains(style, "font-weight:bold") || strings.Contains(style, "font-weight:700") {
			cell.Bold = true
		}
		if strings.Contains(style, "background-color:") {
			cell.Shaded = true
		}
	}
}

func cleanCellText(s string) string {
	return strings.TrimSpace(textnorm.Normalize(textnorm.DecodeEntities(s)))
}

// ColWidths distributes avail across the columns. Every column gets a floor
// proportional to its longest token (measured by the caller's metric) so none
// collapses to zero; floors that overflow the available width are scaled back.
func (g *Grid) ColWidths(avail float64, measure func(string) float64) []float64 {
	if g.Cols == 0 {
		return nil
	}
	share := avail / float64(g.Cols)
	minWidth := measure("MM")

	widths := make([]float64, g.Cols)
	total := 0.0
	for c := 0; c < g.Cols; c++ {
		floor := g.longestTokenWidth(c, measure)
		if floor < minWidth {
			floor = minWidth
		}
		w := share
		if floor > w {
			w = floor
		}
		widths[c] = w
		total += w
	}
	if total > avail {
		scale := avail / total
		for c := range widths {
			widths[c] *= scale
		}
	}
	return widths
}

// longestTokenWidth measures the widest single token in a column, dividing
// spanning cells evenly across the columns they cover.
func (g *Grid) longestTokenWidth(col int, measure func(string) float64) float64 {
	max := 0.0
	for r := 0; r < g.Rows; r++ {
		cell := g.At(r, col)
		for _, tok := range strings.Fields(cell.Text) {
			w := measure(tok) / float64(cell.ColSpan)
			if w > max {
				max = w
			}
		}
	}
	return max
}
