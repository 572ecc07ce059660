package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"potool/internal/config"
	"potool/internal/ledger"
	"potool/internal/numbering"
	"potool/internal/po"
	"potool/internal/render"
	"potool/pkg/models"
)

// createCommandContext creates a context with timeout and signal handling
func createCommandContext(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
			// Context completed normally
		}
	}()

	return ctx, cancel
}

func numberingOptions(cfg *config.Config) numbering.Options {
	return numbering.Options{
		Format:   numbering.Format(cfg.NumberFormat),
		Seed:     cfg.NumberSeed,
		Tag:      cfg.NumberTag,
		Year:     cfg.NumberYear,
		Strategy: numbering.Strategy(cfg.NumberStrategy),
	}
}

func serviceDefaults(cfg *config.Config) po.Defaults {
	return po.Defaults{
		ContactPerson: cfg.ContactPerson,
		ContactExt:    cfg.ContactExt,
		ContactEmail:  cfg.ContactEmail,
		Preparer:      cfg.Preparer,
	}
}

// buildService wires the full pipeline against the Google Sheets ledger.
func buildService(ctx context.Context, cfg *config.Config) (*po.Service, error) {
	if err := cfg.RequireSheet(); err != nil {
		return nil, fmt.Errorf("ledger not configured: %w\n"+
			"Set GOOGLE_SHEET_URL to the ledger spreadsheet and one of:\n"+
			"  GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n"+
			"  GOOGLE_CREDENTIALS='<json-credentials>'", err)
	}

	l, err := ledger.NewSheetsLedger(ctx, cfg.GoogleSheetURL, cfg.GoogleSheetWorksheet)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ledger: %w", err)
	}

	return po.New(l, numbering.New(numberingOptions(cfg)), render.New(), cfg.TemplateFile, serviceDefaults(cfg)), nil
}

// loadOrderFile reads an order from a JSON file (the form payload format).
func loadOrderFile(path string) (*models.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read order file: %w", err)
	}
	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("failed to parse order file %s: %w", path, err)
	}
	return &order, nil
}

// writeDocument stores a rendered document, defaulting to its own download
// name in the current directory.
func writeDocument(doc *render.Document, outputPath string) (string, error) {
	if outputPath == "" {
		outputPath = doc.Filename
	}
	if err := os.WriteFile(outputPath, doc.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	return outputPath, nil
}
