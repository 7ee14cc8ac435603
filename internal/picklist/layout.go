package picklist

import (
	"fmt"
	"strings"
)

// PageSpec describes page geometry in millimetres.
type PageSpec struct {
	Width        float64
	Height       float64
	Margin       float64
	LineHeight   float64
	Padding      float64
	MinRowHeight float64
	// ColumnRatios are the product, quantity and unit column shares of the
	// content width, in percent.
	ColumnRatios []float64
}

// A4 is the portrait A4 page used for pick lists.
func A4() PageSpec {
	return PageSpec{
		Width:        210,
		Height:       297,
		Margin:       12,
		LineHeight:   5,
		Padding:      3,
		MinRowHeight: 8,
		ColumnRatios: []float64{58, 18, 24},
	}
}

// ContentWidth is the page width inside the margins.
func (p PageSpec) ContentWidth() float64 {
	return p.Width - 2*p.Margin
}

// Bottom is the lowest y a row may reach.
func (p PageSpec) Bottom() float64 {
	return p.Height - p.Margin
}

// ColumnWidths splits the content width by ColumnRatios.
func (p PageSpec) ColumnWidths() []float64 {
	var sum float64
	for _, r := range p.ColumnRatios {
		sum += r
	}
	widths := make([]float64, len(p.ColumnRatios))
	if sum == 0 {
		return widths
	}
	for i, r := range p.ColumnRatios {
		widths[i] = p.ContentWidth() * r / sum
	}
	return widths
}

// RowHeight is the height of a row whose tallest column wraps to lines.
func (p PageSpec) RowHeight(lines int) float64 {
	if lines < 1 {
		lines = 1
	}
	h := float64(lines)*p.LineHeight + p.Padding
	if h < p.MinRowHeight {
		return p.MinRowHeight
	}
	return h
}

// Measurer wraps text to a width.
type Measurer interface {
	SplitLines(text string, width float64) []string
}

// Sink draws onto pages. It never decides where a page ends; Layout does.
type Sink interface {
	NewPage()
	// DrawHeader draws the title block and column headers starting at y and
	// returns the cursor below them.
	DrawHeader(y float64) float64
	DrawRow(y, height float64, cols [][]string)
	DrawObservation(y, height float64, lines []string)
}

// Cursor is the drawing position: the current page (1-based) and y.
type Cursor struct {
	Page int
	Y    float64
}

// Layout places pick-list rows on pages.
type Layout struct {
	spec    PageSpec
	measure Measurer
}

// NewLayout builds a Layout. The PageSpec needs exactly three column ratios.
func NewLayout(spec PageSpec, measure Measurer) (*Layout, error) {
	if len(spec.ColumnRatios) != 3 {
		return nil, fmt.Errorf("page spec needs 3 column ratios, got %d", len(spec.ColumnRatios))
	}
	if spec.ContentWidth() <= 0 || spec.Bottom() <= spec.Margin {
		return nil, fmt.Errorf("page margins leave no content area")
	}
	return &Layout{spec: spec, measure: measure}, nil
}

// Place returns where a row of height h must be drawn. When the row would
// cross the bottom margin it first starts a new page and redraws the header.
func (l *Layout) Place(cur Cursor, h float64, sink Sink) Cursor {
	if cur.Y+h <= l.spec.Bottom() {
		return cur
	}
	return l.newPage(cur, sink)
}

func (l *Layout) newPage(cur Cursor, sink Sink) Cursor {
	sink.NewPage()
	return Cursor{Page: cur.Page + 1, Y: sink.DrawHeader(l.spec.Margin)}
}

// Row wraps each column of an item and returns the wrapped text with the
// row height.
func (l *Layout) Row(item Item) ([][]string, float64) {
	widths := l.spec.ColumnWidths()
	texts := []string{item.ProductName, item.Quantity.String(), item.UnitName}

	cols := make([][]string, len(texts))
	for i, text := range texts {
		cols[i] = l.measure.SplitLines(text, widths[i]-2*cellInset)
	}
	return cols, l.spec.RowHeight(tallest(cols))
}

// Run lays out the whole request on sink and returns the final cursor.
func (l *Layout) Run(req Request, sink Sink) Cursor {
	sink.NewPage()
	cur := Cursor{Page: 1, Y: sink.DrawHeader(l.spec.Margin)}
	top := cur.Y

	for _, item := range req.Items {
		cols, _ := l.Row(item)
		cur = l.flow(cur, top, cols, sink, sink.DrawRow)
	}

	if obs := strings.TrimSpace(req.Observation); obs != "" {
		lines := l.measure.SplitLines(observationPrefix+obs, l.spec.ContentWidth()-2*cellInset)
		cur = l.flow(cur, top, [][]string{lines}, sink, func(y, h float64, cols [][]string) {
			sink.DrawObservation(y, h, cols[0])
		})
	}
	return cur
}

// flow draws a block of wrapped columns. A block that fits on a page is
// never split: it moves to a new page when the current one is too full.
// A block taller than a whole page is drawn in chunks of the lines that fit,
// continuing on following pages. top is the first y below the page header.
func (l *Layout) flow(cur Cursor, top float64, cols [][]string, sink Sink, draw func(y, h float64, cols [][]string)) Cursor {
	bottom := l.spec.Bottom()
	for {
		h := l.spec.RowHeight(tallest(cols))
		if cur.Y+h <= bottom || h <= bottom-top {
			cur = l.Place(cur, h, sink)
			draw(cur.Y, h, cols)
			cur.Y += h
			return cur
		}

		n := l.linesFit(cur.Y)
		if n < 1 {
			cur = l.newPage(cur, sink)
			// Always make progress, even on a page with no room to spare.
			n = max(l.linesFit(cur.Y), 1)
		}
		var head [][]string
		head, cols = splitColumns(cols, n)
		h = l.spec.RowHeight(n)
		draw(cur.Y, h, head)
		cur.Y += h
	}
}

// linesFit is how many wrapped lines fit in one row starting at y.
func (l *Layout) linesFit(y float64) int {
	room := l.spec.Bottom() - y
	if room < l.spec.MinRowHeight {
		return 0
	}
	return int((room - l.spec.Padding) / l.spec.LineHeight)
}

func tallest(cols [][]string) int {
	n := 1
	for _, c := range cols {
		n = max(n, len(c))
	}
	return n
}

// splitColumns cuts every column after its first n lines.
func splitColumns(cols [][]string, n int) (head, rest [][]string) {
	head = make([][]string, len(cols))
	rest = make([][]string, len(cols))
	for i, c := range cols {
		k := min(n, len(c))
		head[i], rest[i] = c[:k], c[k:]
	}
	return head, rest
}
