package export

import "fmt"

// ReportFilename builds a download name embedding the date range, e.g.
// "orders-report_2024-03-01_2024-03-07.xlsx". Open bounds read "all".
func ReportFilename(prefix, start, end, ext string) string {
	if start == "" {
		start = "all"
	}
	if end == "" {
		end = "all"
	}
	return fmt.Sprintf("%s_%s_%s.%s", prefix, start, end, ext)
}
