// Package cli holds the plumbing shared by the plan-usage and claude-usage commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/denysvitali/plan-usage/internal/config"
	"github.com/denysvitali/plan-usage/internal/logging"
	"github.com/denysvitali/plan-usage/internal/provider/web"
)

// Exit codes
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitNotLoggedIn = 2
)

// ExitCode maps a command error to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, web.ErrNotLoggedIn):
		return ExitNotLoggedIn
	default:
		return ExitFailure
	}
}

// Execute runs root with a context canceled on SIGINT/SIGTERM and exits with the mapped code
func Execute(root *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(ExitOK)
		}
		slog.Error("Fatal error", "error", err)
		os.Exit(ExitCode(err))
	}
}

// LoadConfig binds the command's flags over the environment and config file,
// resolves the configuration and installs the logger.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	v, err := config.New()
	if err != nil {
		return nil, err
	}
	if err := BindFlags(v, cmd); err != nil {
		return nil, err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	logging.Setup(cfg.Verbose)
	slog.Debug("Configuration loaded",
		"output", cfg.OutputPath,
		"profile", cfg.ProfileDir,
		"interval", cfg.Interval,
		"config_file", v.ConfigFileUsed(),
	)
	return cfg, nil
}

// BindFlags makes every flag of cmd visible to v under its own name
func BindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	return nil
}
