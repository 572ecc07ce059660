package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"potool/internal/config"
	"potool/internal/logger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored purchase orders",
	Long: `List every purchase order in the ledger, in storage order - the
same data the form's reprint dropdown is fed from.`,
	Example: `  # Show stored POs
  potool history

  # Machine-readable output
  potool history --json`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Bool("json", false, "Output JSON instead of a table")
	historyCmd.Flags().Int("timeout", 60, "Ledger timeout in seconds")
}

func runHistory(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("history")

	asJSON, _ := cmd.Flags().GetBool("json")
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

	entries, err := svc.History(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read history")
		return fmt.Errorf("failed to read history: %w", err)
	}

	if asJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No purchase orders stored yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PO NO\tDATE\tPROJECT\tVENDOR\tGRAND TOTAL")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.PONo, e.Date, e.Project, e.VendorName, e.GrandTotal)
	}
	return w.Flush()
}
