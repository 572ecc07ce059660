package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"potool/internal/config"
	"potool/internal/logger"
	"potool/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render [order-file]",
	Short: "Render an order document without touching the ledger",
	Long: `Render the populated document for an order described by a JSON
file, using the configured template. The ledger is not read or written:
the order file must carry its own PO number.`,
	Example: `  # Render using the configured template
  potool render order.json

  # Render against a specific template
  potool render order.json --template template_po.docx -o po.docx`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("output", "o", "", "Document output path (default: PO_<number>.<ext>)")
	renderCmd.Flags().String("template", "", "Template file (default: PO_TEMPLATE_FILE)")
}

func runRender(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("render")

	outputPath, _ := cmd.Flags().GetString("output")
	templatePath, _ := cmd.Flags().GetString("template")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if templatePath == "" {
		templatePath = cfg.TemplateFile
	}

	order, err := loadOrderFile(args[0])
	if err != nil {
		return err
	}
	if order.PONo == "" {
		return fmt.Errorf("order file carries no po_no; use \"potool save\" to assign one")
	}

	doc, err := render.New().Render(order, order.ComputeTotals(), templatePath)
	if err != nil {
		log.Error().Err(err).Str("template", templatePath).Msg("Rendering failed")
		return fmt.Errorf("rendering failed: %w", err)
	}

	written, err := writeDocument(doc, outputPath)
	if err != nil {
		return err
	}

	fmt.Printf("Document written to %s\n", written)
	return nil
}
