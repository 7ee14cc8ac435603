package export

import (
	"fmt"

	"produce-reports/internal/report"

	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet = "Sheet1"
	borderColor  = "#BFBFBF"
)

// WriteXLSX encodes doc as a single-sheet workbook. Cells with several runs,
// or with a colored run, are written as rich text so that each run keeps its
// own color.
func WriteXLSX(doc *report.Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("xlsx export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := doc.Sheet
	if sheet == "" {
		sheet = defaultSheet
	}
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return nil, fmt.Errorf("xlsx export: rename sheet: %w", err)
	}
	if doc.Title != "" {
		if err := f.SetDocProps(&excelize.DocProperties{Title: doc.Title}); err != nil {
			return nil, fmt.Errorf("xlsx export: doc props: %w", err)
		}
	}

	w := &sheetWriter{f: f, sheet: sheet, styles: make(map[styleKey]int)}
	if err := w.columnWidths(doc); err != nil {
		return nil, err
	}
	for i, row := range doc.Rows {
		if err := w.row(i+1, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx export: write: %w", err)
	}
	return buf.Bytes(), nil
}

type styleKey struct {
	fill   string
	bold   bool
	wrap   bool
	border bool
}

type sheetWriter struct {
	f      *excelize.File
	sheet  string
	styles map[styleKey]int
}

func (w *sheetWriter) columnWidths(doc *report.Document) error {
	if err := w.f.SetColWidth(w.sheet, "A", "A", doc.LabelWidth); err != nil {
		return fmt.Errorf("xlsx export: label width: %w", err)
	}
	if doc.Columns == 0 {
		return nil
	}
	last, err := excelize.ColumnNumberToName(1 + doc.Columns)
	if err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}
	if err := w.f.SetColWidth(w.sheet, "B", last, doc.DataWidth); err != nil {
		return fmt.Errorf("xlsx export: data width: %w", err)
	}
	return nil
}

func (w *sheetWriter) row(n int, row report.Row) error {
	if row.Height > 0 {
		if err := w.f.SetRowHeight(w.sheet, n, row.Height); err != nil {
			return fmt.Errorf("xlsx export: row %d height: %w", n, err)
		}
	}
	for col, cell := range row.Cells {
		name, err := excelize.CoordinatesToCellName(col+1, n)
		if err != nil {
			return fmt.Errorf("xlsx export: %w", err)
		}
		if err := w.cell(name, cell, row.Kind != report.RowSpacer); err != nil {
			return fmt.Errorf("xlsx export: cell %s: %w", name, err)
		}
	}
	return nil
}

// cell writes one cell. Every cell is emitted with a style, blank ones
// included, so a row always spans all of its columns.
func (w *sheetWriter) cell(name string, cell report.Cell, border bool) error {
	style, err := w.style(styleKey{fill: cell.Fill, bold: cell.Bold, wrap: cell.Wrap, border: border})
	if err != nil {
		return err
	}
	if err := w.f.SetCellStyle(w.sheet, name, name, style); err != nil {
		return err
	}

	switch {
	case cell.Value != nil:
		return w.f.SetCellFloat(w.sheet, name, cell.Value.InexactFloat64(), -1, 64)
	case needsRichText(cell):
		runs := make([]excelize.RichTextRun, 0, len(cell.Runs))
		for _, r := range cell.Runs {
			run := excelize.RichTextRun{Text: r.Text}
			if r.Color != "" || cell.Bold {
				run.Font = &excelize.Font{Color: r.Color, Bold: cell.Bold}
			}
			runs = append(runs, run)
		}
		return w.f.SetCellRichText(w.sheet, name, runs)
	default:
		return w.f.SetCellStr(w.sheet, name, cell.Text())
	}
}

// style returns the cached style id for key.
func (w *sheetWriter) style(key styleKey) (int, error) {
	if id, ok := w.styles[key]; ok {
		return id, nil
	}

	st := &excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: key.wrap},
	}
	if key.bold {
		st.Font = &excelize.Font{Bold: true}
	}
	if key.fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{key.fill}}
	}
	if key.border {
		st.Border = []excelize.Border{
			{Type: "left", Color: borderColor, Style: 1},
			{Type: "top", Color: borderColor, Style: 1},
			{Type: "right", Color: borderColor, Style: 1},
			{Type: "bottom", Color: borderColor, Style: 1},
		}
	}
	id, err := w.f.NewStyle(st)
	if err != nil {
		return 0, err
	}
	w.styles[key] = id
	return id, nil
}

func needsRichText(cell report.Cell) bool {
	if len(cell.Runs) > 1 {
		return true
	}
	return len(cell.Runs) == 1 && cell.Runs[0].Color != ""
}
