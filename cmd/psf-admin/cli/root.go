package cli

import (
	"context"
	"fmt"

	"github.com/psf-initiatives/admin-api/config"
	"github.com/psf-initiatives/admin-api/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	return newRootCmd(version, commit, date).Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "psf-admin",
		Short: "PSF admin dashboard API",
		Long: `psf-admin serves the REST API behind the PSF admin dashboard: donations,
subscribers, volunteers, donors, newsletters and email templates, guarded by
JWT authentication.

Configuration is read from the environment, after loading ./.env when present.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newAdminCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}

// bootstrap loads configuration and builds the process logger
func bootstrap(ctx context.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := config.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
