// Package cmd provides the Cobra CLI commands for plan-usage.
package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/denysvitali/plan-usage/internal/browser"
	"github.com/denysvitali/plan-usage/internal/cli"
	"github.com/denysvitali/plan-usage/internal/config"
	"github.com/denysvitali/plan-usage/internal/poller"
	"github.com/denysvitali/plan-usage/internal/provider/web"
	"github.com/denysvitali/plan-usage/internal/snapshot"
	"github.com/denysvitali/plan-usage/internal/tui"
	"github.com/denysvitali/plan-usage/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "plan-usage",
	Short: "Scrape Claude plan usage from claude.ai",
	Long: `plan-usage opens the claude.ai usage settings page in a Chromium browser with a
persistent profile, reads the 5-hour and weekly usage percentages and writes them
to a JSON file.

Run once with --login (or --headed) to sign in; later runs reuse the saved session.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScrape,
}

// Execute runs the root command
func Execute() {
	cli.Execute(rootCmd)
}

func init() {
	rootCmd.PersistentFlags().StringP(config.KeyOutput, "o", "", "Output file (default ~/.claude/plan-usage.json, or $OUTPUT_DIR/plan-usage.json)")
	rootCmd.PersistentFlags().BoolP(config.KeyVerbose, "v", false, "Enable debug logging")

	rootCmd.Flags().Bool(config.KeyHeaded, false, "Show the browser window and wait for a manual login if needed")
	rootCmd.Flags().Bool(config.KeyLogin, false, "Open the browser to log in, then exit (implies --headed)")
	rootCmd.Flags().Bool(config.KeyDaemon, false, "Keep running and refresh on every interval")
	rootCmd.Flags().Duration(config.KeyInterval, config.DefaultInterval, "Refresh interval in daemon mode")
	rootCmd.Flags().String(config.KeyProfileDir, "", "Browser profile directory (default ~/.claude/playwright-profile)")
	rootCmd.Flags().String(config.KeyChromePath, "", "Path to the Chromium executable")
}

func runScrape(cmd *cobra.Command, _ []string) error {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	opts := browser.Options{
		ProfileDir: cfg.ProfileDir,
		ExecPath:   cfg.ChromePath,
	}

	if cfg.Login {
		return web.Login(ctx, opts, nil, confirmLogin)
	}

	provider := web.NewProvider(web.Options{Browser: opts, Headed: cfg.Headed}, nil)
	p := poller.New(provider, snapshot.NewStore(cfg.OutputPath), cfg.Interval)

	if cfg.Daemon {
		return p.Daemon(ctx)
	}
	_, err = p.Collect(ctx)
	return err
}

// confirmLogin shows the terminal prompt; aborting it still saves the session
func confirmLogin(ctx context.Context) error {
	model := tui.NewLoginModel("Log in to Claude",
		"Log in to claude.ai in the browser window",
		"Complete any verification (email, Google, etc.)",
		"Come back here and press Enter",
	)

	err := tui.RunLogin(ctx, os.Stdin, os.Stdout, model)
	if errors.Is(err, tui.ErrCanceled) {
		return context.Canceled
	}
	return err
}
