package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"produce-reports/internal/app"
	"produce-reports/internal/picklist"

	"github.com/spf13/cobra"
)

func newPickListCommand(e *env) *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "picklist",
		Short: "Render a pick-list PDF from an order request in JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := readPickList(e.opts.Stdin, in)
			if err != nil {
				return err
			}
			svc := e.opts.Service
			if svc == nil {
				// Pick lists are rendered from the request alone.
				svc = app.NewAppService(nil, e.cfg.ReportOptions())
			}
			res, err := svc.PickList(cmd.Context(), req)
			if err != nil {
				return err
			}
			return e.writeResult(cmd.Context(), res, out)
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "-", `Request file; "-" for stdin`)
	cmd.Flags().StringVarP(&out, "out", "o", "", `Output file; "-" for stdout (default: generated name)`)
	return cmd
}

func readPickList(stdin io.Reader, path string) (picklist.Request, error) {
	var req picklist.Request
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return req, fmt.Errorf("failed to open request: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return req, fmt.Errorf("invalid pick-list request: %w", err)
	}
	return req, nil
}
