package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/denysvitali/plan-usage/internal/cli"
	"github.com/denysvitali/plan-usage/internal/config"
	"github.com/denysvitali/plan-usage/internal/snapshot"
	"github.com/denysvitali/plan-usage/internal/usage"
)

var (
	jsonOutput   bool
	waybarOutput bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the last saved usage snapshot",
	Long:  `show reads the usage file written by the last run and prints it without opening a browser.`,
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	showCmd.Flags().BoolVar(&waybarOutput, "waybar", false, "Output in waybar JSON format")
	showCmd.MarkFlagsMutuallyExclusive("json", "waybar")
	showCmd.Flags().String(config.KeyPercentKind, string(usage.KindUsed), `What the snapshot percentages measure: "used" (plan-usage) or "remaining" (claude-usage)`)

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, _ []string) error {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	store := snapshot.NewStore(cfg.OutputPath)
	var data usage.Data
	if err := store.Read(&data); err != nil {
		if waybarOutput {
			return usage.OutputWaybarError(out, err.Error())
		}
		return fmt.Errorf("failed to load usage: %w", err)
	}

	now := time.Now()
	switch {
	case waybarOutput:
		return usage.OutputWaybar(out, &data, now, cfg.PercentKind)
	case jsonOutput:
		return usage.OutputJSON(out, &data)
	default:
		usage.OutputPretty(out, &data, now, cfg.PercentKind)
		return nil
	}
}
