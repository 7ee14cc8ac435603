package cli

import (
	"context"

	"produce-reports/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func newMigrateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withPool(cmd.Context(), db.Migrate)
		},
	}
}

func newSeedCommand(e *env) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace all report data with the demo data set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool) error {
				if migrate {
					if err := db.Migrate(ctx, pool); err != nil {
						return err
					}
				}
				return db.Seed(ctx, pool)
			})
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply migrations first")
	return cmd
}

func (e *env) withPool(ctx context.Context, fn func(context.Context, *pgxpool.Pool) error) error {
	pool, err := db.NewPool(ctx, e.cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, pool)
}
