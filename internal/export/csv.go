package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"produce-reports/internal/report"
)

const utf8BOM = "\ufeff"

// WriteCSV writes doc as CSV: a UTF-8 byte order mark, then one record per
// row with the label first. Multi-run cells are flattened to their text;
// quoting of commas and quotes is left to encoding/csv.
func WriteCSV(w io.Writer, doc *report.Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("csv export: %w", err)
	}
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("csv export: %w", err)
	}

	cw := csv.NewWriter(w)
	record := make([]string, 1+doc.Columns)
	for _, row := range doc.Rows {
		for i, cell := range row.Cells {
			if cell.Value != nil {
				record[i] = cell.Text()
			} else {
				record[i] = csvSafe(cell.Text())
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv export: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv export: %w", err)
	}
	return nil
}

// csvSafe prevents CSV formula injection by prefixing cells that begin with a
// formula trigger character.
func csvSafe(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
