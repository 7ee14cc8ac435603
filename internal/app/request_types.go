package app

import (
	"fmt"

	"produce-reports/internal/report"
)

// Output formats accepted by the order report.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// ReportRequest selects a date range. Both bounds are optional YYYY-MM-DD
// keys and inclusive.
type ReportRequest struct {
	Start string
	End   string
}

// Validate checks both bounds and their order.
func (r ReportRequest) Validate() error {
	if r.Start != "" && !report.ValidDateKey(r.Start) {
		return fmt.Errorf("%w: start %q is not a YYYY-MM-DD date", ErrValidation, r.Start)
	}
	if r.End != "" && !report.ValidDateKey(r.End) {
		return fmt.Errorf("%w: end %q is not a YYYY-MM-DD date", ErrValidation, r.End)
	}
	if r.Start != "" && r.End != "" && r.Start > r.End {
		return fmt.Errorf("%w: start %s is after end %s", ErrValidation, r.Start, r.End)
	}
	return nil
}

// Bounded reports whether either bound is set.
func (r ReportRequest) Bounded() bool {
	return r.Start != "" || r.End != ""
}
