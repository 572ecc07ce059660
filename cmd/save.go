package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"potool/internal/config"
	"potool/internal/logger"
)

var saveCmd = &cobra.Command{
	Use:   "save [order-file]",
	Short: "Save an order to the ledger and render its document",
	Long: `Run the full save action for an order described by a JSON file:
compute the totals, assign the next PO number (unless the order already
carries one), write or update the ledger row keyed by the PO number, and
render the populated document from the configured template.

A ledger write can succeed while rendering subsequently fails; the saved
row is kept and the render error reported.

Required environment variables:
  GOOGLE_SHEET_URL - the ledger spreadsheet
  GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS - service account
  PO_TEMPLATE_FILE - template path (default: template_po.xlsx)`,
	Example: `  # Save a new order and download its document
  potool save order.json

  # Save without producing a document
  potool save order.json --no-export

  # Write the document somewhere specific
  potool save order.json -o /tmp/po.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(saveCmd)

	saveCmd.Flags().StringP("output", "o", "", "Document output path (default: PO_<number>.<ext>)")
	saveCmd.Flags().Bool("no-export", false, "Save to the ledger only, skip rendering")
	saveCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runSave(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("save")

	outputPath, _ := cmd.Flags().GetString("output")
	noExport, _ := cmd.Flags().GetBool("no-export")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	order, err := loadOrderFile(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := createCommandContext(timeoutSecs, log)
	defer cancel()

	svc, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	svc.ApplyDefaults(order)

	result, err := svc.Save(ctx, order)
	if err != nil {
		log.Error().Err(err).Msg("Failed to save order")
		return fmt.Errorf("failed to save order: %w", err)
	}

	if result.Updated {
		fmt.Printf("Updated %s (grand total %s)\n", result.PONo, result.Totals.GrandTotal.StringFixed(2))
	} else {
		fmt.Printf("Saved new PO %s (grand total %s)\n", result.PONo, result.Totals.GrandTotal.StringFixed(2))
	}

	if noExport {
		return nil
	}

	doc, err := svc.Export(order)
	if err != nil {
		log.Error().Err(err).Str("po_no", result.PONo).Msg("Document rendering failed, ledger row kept")
		return fmt.Errorf("order %s saved, but rendering failed: %w", result.PONo, err)
	}

	written, err := writeDocument(doc, outputPath)
	if err != nil {
		return err
	}

	log.Info().
		Str("po_no", result.PONo).
		Str("file", written).
		Int("bytes", len(doc.Data)).
		Msg("Save action completed")

	fmt.Printf("Document written to %s\n", written)
	return nil
}
