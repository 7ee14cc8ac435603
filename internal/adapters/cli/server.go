package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"produce-reports/internal/adapters/web"
	"produce-reports/internal/app"
	"produce-reports/internal/core"
	"produce-reports/internal/db"

	"github.com/spf13/cobra"
)

// NewServerCommand builds the "server" command that runs the HTTP API until
// SIGINT or SIGTERM.
func NewServerCommand() *cobra.Command {
	var (
		cfgPath string
		migrate bool
	)
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Serve the report and pick-list HTTP API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context(), cfgPath, migrate)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to a config file (yaml, json or toml)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending migrations before serving")
	return cmd
}

func runServer(ctx context.Context, cfgPath string, migrate bool) error {
	cfg, logger, err := loadRuntime(cfgPath)
	if err != nil {
		return err
	}
	ctx = logger.WithContext(ctx)

	pool, err := db.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if migrate {
		if err := db.Migrate(ctx, pool); err != nil {
			return err
		}
	}

	svc := app.NewAppService(core.NewTransactionStore(pool), cfg.ReportOptions())
	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Server.Port),
		Handler:           web.NewHandler(svc, cfg.Server.AllowedOrigins, logger),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}

	logger.Info().Dur("timeout", cfg.Server.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
