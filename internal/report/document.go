package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RowKind classifies a document row for styling and export.
type RowKind string

const (
	RowHeader      RowKind = "header"
	RowData        RowKind = "data"
	RowSubtotal    RowKind = "subtotal"
	RowTotal       RowKind = "total"
	RowSpacer      RowKind = "spacer"
	RowObservation RowKind = "observation"
)

// Run is a span of text sharing one color. Color is "#RRGGBB" or empty.
type Run struct {
	Text  string
	Color string
}

// Cell is one styled cell. A cell with Value set is numeric; Runs then hold
// its display text.
type Cell struct {
	Runs  []Run
	Fill  string
	Bold  bool
	Wrap  bool
	Value *decimal.Decimal
}

// Text concatenates the cell's runs.
func (c Cell) Text() string {
	if len(c.Runs) == 1 {
		return c.Runs[0].Text
	}
	var b strings.Builder
	for _, r := range c.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Row is a label cell followed by one cell per column.
type Row struct {
	Kind   RowKind
	Height float64
	Cells  []Cell
}

// Label returns the row label text.
func (r Row) Label() string {
	if len(r.Cells) == 0 {
		return ""
	}
	return r.Cells[0].Text()
}

// Document is a rendered report: a grid of styled rows of equal width.
type Document struct {
	Title      string
	Sheet      string
	Columns    int
	LabelWidth float64
	DataWidth  float64
	Rows       []Row
}

// Validate checks that every row has exactly one label cell plus Columns cells.
func (d *Document) Validate() error {
	want := 1 + d.Columns
	for i, r := range d.Rows {
		if len(r.Cells) != want {
			return fmt.Errorf("row %d (%s) has %d cells, want %d", i, r.Kind, len(r.Cells), want)
		}
	}
	return nil
}

func textCell(text string) Cell {
	if text == "" {
		return Cell{}
	}
	return Cell{Runs: []Run{{Text: text}}}
}

func numberCell(v decimal.Decimal, text string) Cell {
	return Cell{Runs: []Run{{Text: text}}, Value: &v}
}

func blankCells(n int) []Cell {
	return make([]Cell, n)
}
