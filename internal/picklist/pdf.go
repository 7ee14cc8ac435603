package picklist

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	fontFamily     = "Arial"
	titleFontSize  = 14.0
	headerFontSize = 10.0
	bodyFontSize   = 10.0
	titleHeight    = 8.0
	infoHeight     = 6.0
	// cellInset is the horizontal text inset inside a cell border.
	cellInset = 1.5

	observationPrefix = "Observation: "
	timestampLayout   = "2006-01-02 15:04"
)

var columnTitles = [3]string{"Product", "Quantity", "Unit"}

// Render validates req and renders it as an A4 PDF pick list stamped with now.
func Render(req Request, now time.Time) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return RenderWithSpec(req, now, A4())
}

// RenderWithSpec renders req on pages described by spec.
func RenderWithSpec(req Request, now time.Time, spec PageSpec) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: spec.Width, Ht: spec.Height},
	})
	pdf.SetMargins(spec.Margin, spec.Margin, spec.Margin)
	// Layout decides page breaks before drawing.
	pdf.SetAutoPageBreak(false, spec.Margin)
	pdf.SetTitle("Pick list "+req.AreaName, true)
	pdf.SetCreator("produce-reports", true)

	sink := newPDFSink(pdf, spec, req, now)
	layout, err := NewLayout(spec, sink)
	if err != nil {
		return nil, fmt.Errorf("pick list layout: %w", err)
	}
	layout.Run(req, sink)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pick list render: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pick list output: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfSink draws with gofpdf and doubles as the Measurer, so text is wrapped
// with the same font metrics it is drawn with.
type pdfSink struct {
	pdf    *gofpdf.Fpdf
	spec   PageSpec
	widths []float64
	tr     func(string) string
	area   string
	stamp  string
}

func newPDFSink(pdf *gofpdf.Fpdf, spec PageSpec, req Request, now time.Time) *pdfSink {
	return &pdfSink{
		pdf:    pdf,
		spec:   spec,
		widths: spec.ColumnWidths(),
		// Core fonts are cp1252; translate UTF-8 before measuring or drawing.
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		area:  req.AreaName,
		stamp: now.Format(timestampLayout),
	}
}

// SplitLines wraps text with the body font. The returned lines are already
// translated for drawing.
func (s *pdfSink) SplitLines(text string, width float64) []string {
	s.pdf.SetFont(fontFamily, "", bodyFontSize)
	if text == "" {
		return []string{""}
	}
	raw := s.pdf.SplitLines([]byte(s.tr(text)), width)
	if len(raw) == 0 {
		return []string{""}
	}
	lines := make([]string, len(raw))
	for i, b := range raw {
		lines[i] = string(b)
	}
	return lines
}

func (s *pdfSink) NewPage() {
	s.pdf.AddPage()
}

func (s *pdfSink) DrawHeader(y float64) float64 {
	m := s.spec.Margin
	w := s.spec.ContentWidth()

	s.pdf.SetTextColor(0, 0, 0)
	s.pdf.SetFont(fontFamily, "B", titleFontSize)
	s.pdf.SetXY(m, y)
	s.pdf.CellFormat(w, titleHeight, s.tr("Pick list"), "", 1, "L", false, 0, "")

	s.pdf.SetFont(fontFamily, "", headerFontSize)
	s.pdf.SetX(m)
	s.pdf.CellFormat(w/2, infoHeight, s.tr("Area: "+s.area), "", 0, "L", false, 0, "")
	s.pdf.CellFormat(w/2, infoHeight, s.tr("Date: "+s.stamp), "", 1, "R", false, 0, "")
	y = s.pdf.GetY() + 2

	s.pdf.SetFont(fontFamily, "B", headerFontSize)
	s.pdf.SetFillColor(230, 230, 230)
	x := m
	for i, title := range columnTitles {
		s.pdf.SetXY(x, y)
		s.pdf.CellFormat(s.widths[i], s.spec.MinRowHeight, s.tr(title), "1", 0, "C", true, 0, "")
		x += s.widths[i]
	}
	return y + s.spec.MinRowHeight
}

func (s *pdfSink) DrawRow(y, height float64, cols [][]string) {
	s.pdf.SetFont(fontFamily, "", bodyFontSize)
	x := s.spec.Margin
	for i, lines := range cols {
		align := "L"
		if i == 1 {
			align = "R"
		}
		s.pdf.Rect(x, y, s.widths[i], height, "D")
		s.drawLines(x, y, s.widths[i], lines, align)
		x += s.widths[i]
	}
}

func (s *pdfSink) DrawObservation(y, height float64, lines []string) {
	s.pdf.SetFont(fontFamily, "", bodyFontSize)
	s.pdf.SetFillColor(255, 242, 204)
	s.pdf.Rect(s.spec.Margin, y, s.spec.ContentWidth(), height, "FD")
	s.drawLines(s.spec.Margin, y, s.spec.ContentWidth(), lines, "L")
}

func (s *pdfSink) drawLines(x, y, width float64, lines []string, align string) {
	top := y + s.spec.Padding/2
	for i, line := range lines {
		s.pdf.SetXY(x+cellInset, top+float64(i)*s.spec.LineHeight)
		s.pdf.CellFormat(width-2*cellInset, s.spec.LineHeight, line, "", 0, align, false, 0, "")
	}
}
