package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"potool/internal/config"
	"potool/internal/logger"
	"potool/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the PO form API over HTTP",
	Long: `Start the HTTP API the purchase-order form frontend talks to:
next-number lookup, history, reload by PO number, and the save action
that writes the ledger and streams back the rendered document.

Required environment variables:
  GOOGLE_SHEET_URL - the ledger spreadsheet
  GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS - service account
  PO_TEMPLATE_FILE - template path (default: template_po.xlsx)
  HTTP_ADDR - listen address (default: :8080)`,
	Example: `  # Serve on the default address
  potool serve

  # Serve on another port
  HTTP_ADDR=:9090 potool serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The ledger client lives for the whole server lifetime.
	svc, err := buildService(context.Background(), cfg)
	if err != nil {
		return err
	}

	log.Info().Str("addr", cfg.HTTPAddr).Msg("Starting PO form API server")

	if err := server.New(svc, cfg.HTTPAddr).Run(); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
