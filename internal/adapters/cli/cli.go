// Package cli is the operator command line: report exports, pick lists and
// database maintenance.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"produce-reports/internal/app"
	"produce-reports/internal/config"
	"produce-reports/internal/core"
	"produce-reports/internal/db"
	"produce-reports/internal/logging"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Options configures the command tree. Zero values use the process streams
// and a database-backed service.
type Options struct {
	Stdout io.Writer
	Stdin  io.Reader
	// Service replaces the database-backed service for report commands.
	Service app.ApplicationService
}

// env is what every command has once flags and configuration are loaded.
type env struct {
	opts    Options
	cfgPath string
	cfg     *config.Config
	logger  zerolog.Logger
}

// NewRootCommand builds the "app" command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	e := &env{opts: opts}

	root := &cobra.Command{
		Use:           "app",
		Short:         "Order and purchase reports for the distribution business",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadRuntime(e.cfgPath)
			if err != nil {
				return err
			}
			e.cfg, e.logger = cfg, logger
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&e.cfgPath, "config", "c", "", "Path to a config file (yaml, json or toml)")

	root.AddCommand(
		newOrdersReportCommand(e),
		newPurchasesReportCommand(e),
		newPickListCommand(e),
		newMigrateCommand(e),
		newSeedCommand(e),
	)
	return root
}

// loadRuntime reads .env, the configuration and builds the logger.
func loadRuntime(cfgPath string) (*config.Config, zerolog.Logger, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, logging.New(cfg.Log), nil
}

// service returns the report service and a release func.
func (e *env) service(ctx context.Context) (app.ApplicationService, func(), error) {
	if e.opts.Service != nil {
		return e.opts.Service, func() {}, nil
	}
	pool, err := db.NewPool(ctx, e.cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	svc := app.NewAppService(core.NewTransactionStore(pool), e.cfg.ReportOptions())
	return svc, pool.Close, nil
}

// writeResult stores a generated document at path. An empty path uses the
// document's own filename; "-" writes to stdout.
func (e *env) writeResult(ctx context.Context, res *app.ReportResult, path string) error {
	if path == "-" {
		_, err := e.opts.Stdout.Write(res.Body)
		return err
	}
	if path == "" {
		path = res.Filename
	}
	if err := os.WriteFile(path, res.Body, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	zerolog.Ctx(ctx).Info().
		Str("file", path).
		Int("bytes", len(res.Body)).
		Int("dropped", res.Dropped).
		Msg("document written")
	return nil
}
