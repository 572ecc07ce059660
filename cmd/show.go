package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"potool/internal/config"
	"potool/internal/logger"
)

var showCmd = &cobra.Command{
	Use:   "show [po-number]",
	Short: "Reload a stored purchase order",
	Long: `Reload a stored order by its PO number and print it as JSON (the
same payload "potool save" accepts, so a stored order can be edited and
re-saved). Rows written before the item blob column existed come back
with a flagged placeholder item list.`,
	Example: `  # Reload an order
  potool show PO-69/004

  # Reload, tweak, re-save
  potool show PO-69/004 > order.json && potool save order.json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().Int("timeout", 60, "Ledger timeout in seconds")
}

func runShow(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("show")

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

	order, degraded, err := svc.Load(ctx, args[0])
	if err != nil {
		log.Error().Err(err).Str("po_no", args[0]).Msg("Failed to load order")
		return fmt.Errorf("failed to load order: %w", err)
	}
	if degraded {
		log.Warn().Str("po_no", args[0]).Msg("Order predates item storage, item list is a placeholder")
	}

	data, err := json.MarshalIndent(order, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
