package app

import (
	"context"

	"produce-reports/internal/picklist"
)

// ApplicationService is the single interface all adapters (CLI, Web) call.
// It decouples presentation from report generation: implementations return
// encoded documents and never write to a response or a terminal.
type ApplicationService interface {
	// OrderReport builds the category/product/company workbook for orders in
	// the requested date range.
	OrderReport(ctx context.Context, req ReportRequest) (*ReportResult, error)

	// OrderReportCSV is OrderReport encoded as CSV.
	OrderReportCSV(ctx context.Context, req ReportRequest) (*ReportResult, error)

	// PurchaseReport builds the supplier/day workbook with day, week and
	// supplier subtotals.
	PurchaseReport(ctx context.Context, req ReportRequest) (*ReportResult, error)

	// PickList renders a printable PDF for a single order.
	PickList(ctx context.Context, req picklist.Request) (*ReportResult, error)

	// Health checks the data source.
	Health(ctx context.Context) error
}
