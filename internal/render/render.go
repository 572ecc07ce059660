// Package render produces populated office documents from templates:
// spreadsheet templates get cell-level placeholder substitution plus a
// tabular item region, word-processor templates get a context handed to a
// templating engine.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"potool/internal/logger"
	"potool/pkg/models"
)

// Document is a rendered, downloadable byte-stream.
type Document struct {
	Filename string
	Data     []byte
}

// Renderer turns an order plus a template file into a Document. The
// strategy is selected by the template's file kind.
type Renderer struct {
	log zerolog.Logger
}

// New creates a renderer.
func New() *Renderer {
	return &Renderer{log: logger.WithComponent("render")}
}

// Render produces the downloadable document for an order. Totals are
// recomputed by the caller and passed in so the same figures land in the
// ledger and the document. No panic escapes this boundary.
func (r *Renderer) Render(order *models.Order, totals models.Totals, templatePath string) (doc *Document, err error) {
	const op = "Render"

	defer func() {
		if p := recover(); p != nil {
			doc = nil
			err = newRenderError(op, templatePath, fmt.Errorf("%w: %v", ErrMalformedTemplate, p))
		}
	}()

	if _, statErr := os.Stat(templatePath); statErr != nil {
		if os.IsNotExist(statErr) {
			r.log.Error().Str("template", templatePath).Msg("Template file not found")
			return nil, newRenderError(op, templatePath, ErrTemplateNotFound)
		}
		return nil, newRenderError(op, templatePath, statErr)
	}

	ext := strings.ToLower(filepath.Ext(templatePath))

	var data []byte
	switch ext {
	case ".xlsx":
		data, err = r.renderXLSX(order, totals, templatePath)
	case ".docx":
		data, err = r.renderDOCX(order, totals, templatePath)
	default:
		return nil, newRenderError(op, templatePath, fmt.Errorf("%w: %s", ErrUnsupportedTemplate, ext))
	}
	if err != nil {
		return nil, err
	}

	filename := DocumentFilename(order.PONo, ext)

	r.log.Info().
		Str("po_no", order.PONo).
		Str("file", filename).
		Int("bytes", len(data)).
		Int("items", len(order.Items)).
		Msg("Rendered purchase-order document")

	return &Document{Filename: filename, Data: data}, nil
}

// DocumentFilename builds the download name for a document identifier,
// replacing the slashes the identifier formats carry.
func DocumentFilename(poNo, ext string) string {
	return "PO_" + strings.ReplaceAll(poNo, "/", "-") + ext
}
