package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"potool/internal/config"
	"potool/internal/logger"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print the next available PO number",
	Long: `Derive the next sequential document number from the ledger's
identifier column. An empty ledger (or an unparseable last identifier)
yields the configured seed number.

Required environment variables:
  GOOGLE_SHEET_URL - the ledger spreadsheet
  GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS - service account`,
	Example: `  # Print the next PO number
  potool next

  # With the max-scan recovery strategy
  PO_NUMBER_STRATEGY=max potool next`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

func init() {
	rootCmd.AddCommand(nextCmd)

	nextCmd.Flags().Int("timeout", 60, "Ledger timeout in seconds")
}

func runNext(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("next")

	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := createCommandContext(timeoutSecs, log)
	defer cancel()

	svc, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}

	poNo := svc.NextNumber(ctx)
	log.Info().Str("po_no", poNo).Msg("Derived next PO number")

	fmt.Println(poNo)
	return nil
}
