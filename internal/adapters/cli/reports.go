package cli

import (
	"fmt"

	"produce-reports/internal/app"

	"github.com/spf13/cobra"
)

type reportFlags struct {
	start string
	end   string
	out   string
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "First day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "Last day to include (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", `Output file; "-" for stdout (default: generated name)`)
}

func (f *reportFlags) request() app.ReportRequest {
	return app.ReportRequest{Start: f.start, End: f.end}
}

func newOrdersReportCommand(e *env) *cobra.Command {
	var (
		flags  reportFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "orders-report",
		Short: "Export ordered quantities per category, product and company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != app.FormatXLSX && format != app.FormatCSV {
				return fmt.Errorf("unsupported format %q (want %s or %s)", format, app.FormatXLSX, app.FormatCSV)
			}
			ctx := cmd.Context()
			svc, release, err := e.service(ctx)
			if err != nil {
				return err
			}
			defer release()

			var res *app.ReportResult
			if format == app.FormatCSV {
				res, err = svc.OrderReportCSV(ctx, flags.request())
			} else {
				res, err = svc.OrderReport(ctx, flags.request())
			}
			if err != nil {
				return err
			}
			return e.writeResult(ctx, res, flags.out)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", app.FormatXLSX, "Output format: xlsx or csv")
	return cmd
}

func newPurchasesReportCommand(e *env) *cobra.Command {
	var flags reportFlags
	cmd := &cobra.Command{
		Use:   "purchases-report",
		Short: "Export purchases per supplier with day, week and supplier subtotals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, release, err := e.service(ctx)
			if err != nil {
				return err
			}
			defer release()

			res, err := svc.PurchaseReport(ctx, flags.request())
			if err != nil {
				return err
			}
			return e.writeResult(ctx, res, flags.out)
		},
	}
	flags.register(cmd)
	return cmd
}
