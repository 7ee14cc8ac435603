package app

// Content types of generated documents.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypePDF  = "application/pdf"
)

// ReportResult is an encoded document ready for download.
type ReportResult struct {
	Filename    string
	ContentType string
	Body        []byte
	// Dropped counts line items left out for unresolvable references.
	Dropped int
}
