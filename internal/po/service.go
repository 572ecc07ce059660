// Package po wires the save pipeline together: totals, numbering, ledger
// upsert and document rendering, in that order.
package po

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"potool/internal/ledger"
	"potool/internal/logger"
	"potool/internal/numbering"
	"potool/internal/render"
	"potool/pkg/models"
)

// ErrOrderNotFound is returned by Load for an unknown document identifier.
var ErrOrderNotFound = errors.New("purchase order not found")

// Defaults seeds fresh orders with the deployment's internal contact.
type Defaults struct {
	ContactPerson string
	ContactExt    string
	ContactEmail  string
	Preparer      string
}

// Service runs one user save action to completion: compute totals, assign
// or reuse the identifier, upsert the ledger row, render the document.
type Service struct {
	ledger       ledger.Ledger
	numberer     *numbering.Service
	renderer     *render.Renderer
	templatePath string
	defaults     Defaults
	log          zerolog.Logger
}

// New creates the pipeline service.
func New(l ledger.Ledger, n *numbering.Service, r *render.Renderer, templatePath string, defaults Defaults) *Service {
	return &Service{
		ledger:       l,
		numberer:     n,
		renderer:     r,
		templatePath: templatePath,
		defaults:     defaults,
		log:          logger.WithComponent("po"),
	}
}

// NextNumber derives the next document number from the ledger. A ledger
// read failure degrades to the seed so opening a form never blocks; the
// failure is logged for the operator.
func (s *Service) NextNumber(ctx context.Context) string {
	ids, err := s.ledger.IDColumn(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("seed", s.numberer.Seed()).Msg("Ledger unreachable, issuing seed number")
		return s.numberer.Seed()
	}
	return s.numberer.Next(ids)
}

// NewOrder builds a fresh order seeded with the next available number,
// today's date and the configured contact defaults.
func (s *Service) NewOrder(ctx context.Context) *models.Order {
	return &models.Order{
		PONo:          s.NextNumber(ctx),
		Date:          time.Now().Format("02/01/2006"),
		ContactPerson: s.defaults.ContactPerson,
		ContactExt:    s.defaults.ContactExt,
		ContactEmail:  s.defaults.ContactEmail,
		Preparer:      s.defaults.Preparer,
		Items: []models.LineItem{{
			Quantity: decimal.NewFromInt(1),
			Unit:     "งาน",
		}},
	}
}

// ApplyDefaults fills blank contact fields on an order coming from an
// external caller.
func (s *Service) ApplyDefaults(order *models.Order) {
	if order.ContactPerson == "" {
		order.ContactPerson = s.defaults.ContactPerson
	}
	if order.ContactExt == "" {
		order.ContactExt = s.defaults.ContactExt
	}
	if order.ContactEmail == "" {
		order.ContactEmail = s.defaults.ContactEmail
	}
	if order.Preparer == "" {
		order.Preparer = s.defaults.Preparer
	}
}

// SaveResult reports whether the save created a new row or updated an
// existing one keyed by the document number.
type SaveResult struct {
	PONo    string
	Updated bool
	Totals  models.Totals
}

// Save upserts the order's ledger row. An order without a number gets the
// next one first.
func (s *Service) Save(ctx context.Context, order *models.Order) (*SaveResult, error) {
	const op = "Save"

	if order.PONo == "" {
		order.PONo = s.NextNumber(ctx)
	}

	totals := order.ComputeTotals()
	row, err := order.ToLedgerRow(totals)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	handle, found, err := s.ledger.Find(ctx, order.PONo)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to look up %s: %w", op, order.PONo, err)
	}

	if found {
		if err := s.ledger.Update(ctx, handle, row); err != nil {
			return nil, fmt.Errorf("%s: failed to update %s: %w", op, order.PONo, err)
		}
		s.log.Info().Str("po_no", order.PONo).Msg("Updated existing purchase order")
	} else {
		if err := s.ledger.Append(ctx, row); err != nil {
			return nil, fmt.Errorf("%s: failed to append %s: %w", op, order.PONo, err)
		}
		s.log.Info().Str("po_no", order.PONo).Msg("Saved new purchase order")
	}

	return &SaveResult{PONo: order.PONo, Updated: found, Totals: totals}, nil
}

// Export renders the downloadable document for an order. Totals are
// recomputed here so the document always matches the current items.
func (s *Service) Export(order *models.Order) (*render.Document, error) {
	return s.renderer.Render(order, order.ComputeTotals(), s.templatePath)
}

// SaveAndExport runs the full save action. The ledger write and the render
// are not transactional: a render failure after a successful save leaves
// the saved row in place and returns the error.
func (s *Service) SaveAndExport(ctx context.Context, order *models.Order) (*SaveResult, *render.Document, error) {
	result, err := s.Save(ctx, order)
	if err != nil {
		return nil, nil, err
	}

	doc, err := s.Export(order)
	if err != nil {
		return result, nil, err
	}
	return result, doc, nil
}

// HistoryEntry summarizes one stored purchase order.
type HistoryEntry struct {
	PONo       string `json:"po_no"`
	Date       string `json:"date"`
	Project    string `json:"project_name"`
	VendorName string `json:"vendor_name"`
	GrandTotal string `json:"grand_total"`
}

// History lists every stored purchase order in storage order.
func (s *Service) History(ctx context.Context) ([]HistoryEntry, error) {
	const op = "History"

	rows, err := s.ledger.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read ledger: %w", op, err)
	}

	get := func(row []string, i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	entries := make([]HistoryEntry, 0, len(rows))
	for _, row := range rows {
		if get(row, 0) == "" {
			continue
		}
		entries = append(entries, HistoryEntry{
			PONo:       get(row, 0),
			Date:       get(row, 1),
			Project:    get(row, 2),
			VendorName: get(row, 5),
			GrandTotal: get(row, 7),
		})
	}
	return entries, nil
}

// Load reloads a stored order by its document number. The returned flag
// reports a degraded item list (legacy rows without an item blob).
func (s *Service) Load(ctx context.Context, poNo string) (*models.Order, bool, error) {
	const op = "Load"

	rows, err := s.ledger.ReadAll(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("%s: failed to read ledger: %w", op, err)
	}

	for _, row := range rows {
		if len(row) > 0 && row[0] == poNo {
			order, degraded := models.OrderFromRow(row)
			if degraded {
				s.log.Warn().Str("po_no", poNo).Msg("Order has no item blob, returning degraded item list")
			}
			return order, degraded, nil
		}
	}
	return nil, false, fmt.Errorf("%s: %w: %s", op, ErrOrderNotFound, poNo)
}
