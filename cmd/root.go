package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"potool/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "potool",
	Short: "potool - purchase-order entry and document generation",
	Long: `potool manages sequential purchase-order documents: it assigns the
next running PO number, persists each order to a Google Sheet used as a
lightweight database, and renders a populated office document (xlsx or
docx) from a template for download.

Configuration comes from the environment (or a .env file); see the
subcommand help texts for the variables each command needs.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("potool executed")

		fmt.Println("Welcome to potool!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
