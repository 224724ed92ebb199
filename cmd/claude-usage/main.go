package main

import (
	"github.com/spf13/cobra"

	"github.com/denysvitali/plan-usage/internal/anthropic"
	"github.com/denysvitali/plan-usage/internal/cli"
	"github.com/denysvitali/plan-usage/internal/config"
	"github.com/denysvitali/plan-usage/internal/poller"
	"github.com/denysvitali/plan-usage/internal/provider/oauth"
	"github.com/denysvitali/plan-usage/internal/snapshot"
	"github.com/denysvitali/plan-usage/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "claude-usage",
	Short: "Fetch Claude plan usage from the OAuth usage API",
	Long: `claude-usage reads the OAuth token saved by the Claude CLI, queries the usage API
and writes the remaining 5-hour and weekly percentages to a JSON file.

The token is never refreshed here; run 'claude' when it expires.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runUsage,
}

func init() {
	rootCmd.Flags().StringP(config.KeyOutput, "o", "", "Output file (default ~/.claude/plan-usage.json, or $OUTPUT_DIR/plan-usage.json)")
	rootCmd.Flags().String(config.KeyCredentials, "", "Credentials file (default ~/.claude/.credentials.json)")
	rootCmd.Flags().Bool(config.KeyDaemon, false, "Keep running and refresh on every interval")
	rootCmd.Flags().Duration(config.KeyInterval, config.DefaultInterval, "Refresh interval in daemon mode")
	rootCmd.Flags().BoolP(config.KeyVerbose, "v", false, "Enable debug logging")
	rootCmd.Flags().String(config.KeyAPIBaseURL, anthropic.DefaultBaseURL, "Usage API base URL")
	_ = rootCmd.Flags().MarkHidden(config.KeyAPIBaseURL)
}

func main() {
	cli.Execute(rootCmd)
}

func runUsage(cmd *cobra.Command, _ []string) error {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}

	provider := oauth.NewProvider(cfg.CredentialsPath, cfg.APIBaseURL)
	p := poller.New(provider, snapshot.NewStore(cfg.OutputPath), cfg.Interval)

	if cfg.Daemon {
		return p.Daemon(cmd.Context())
	}
	_, err = p.Collect(cmd.Context())
	return err
}
