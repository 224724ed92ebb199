package cmd

import (
	"github.com/spf13/cobra"

	"github.com/denysvitali/plan-usage/internal/cli"
	"github.com/denysvitali/plan-usage/internal/config"
	"github.com/denysvitali/plan-usage/internal/serve"
	"github.com/denysvitali/plan-usage/internal/snapshot"
	"github.com/denysvitali/plan-usage/internal/usage"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the last usage snapshot over HTTP",
	Long: `serve exposes the usage file over HTTP for status bars and dashboards:

  GET /api/v1/usage   snapshot JSON
  GET /api/v1/waybar  waybar custom module JSON
  GET /healthz        snapshot age`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Listen address")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Listen port")
	serveCmd.Flags().String(config.KeyPercentKind, string(usage.KindUsed), `What the snapshot percentages measure: "used" or "remaining"`)

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}

	srv := serve.NewServer(serve.Config{Host: serveHost, Port: servePort, Kind: cfg.PercentKind}, snapshot.NewStore(cfg.OutputPath))
	return srv.Start(cmd.Context())
}
