package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"potool/pkg/models"
)

// itemAnchorMarker locates the template row the item table starts on.
const itemAnchorMarker = "item.desc"

// defaultAnchorRow is used when no cell carries the anchor marker.
const defaultAnchorRow = 14

// Item table column layout, fixed per the template design.
const (
	colIndex       = "A"
	colDescription = "B"
	colQuantity    = "H"
	colUnit        = "I"
	colUnitPrice   = "J"
	colLineTotal   = "K"
)

const moneyNumFmt = "#,##0.00"

var exactTokenRe = regexp.MustCompile(`^\{\{\s*([A-Za-z_][A-Za-z0-9_.]*)\s*\}\}$`)

// renderXLSX applies the cell-scanning substitution strategy: every string
// cell is tested for both placeholder spellings, cells whose whole trimmed
// content is one token get the native-typed value, and the item table is
// written out from the anchor row down.
func (r *Renderer) renderXLSX(order *models.Order, totals models.Totals, templatePath string) ([]byte, error) {
	const op = "RenderXLSX"

	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return nil, newRenderError(op, templatePath, fmt.Errorf("%w: %v", ErrMalformedTemplate, err))
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			r.log.Warn().Err(closeErr).Msg("Failed to close template workbook")
		}
	}()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	ctx := BuildContext(order, totals)

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, newRenderError(op, templatePath, err)
	}

	anchorRow := defaultAnchorRow
	anchorFound := false

	for ri, row := range rows {
		for ci, cellVal := range row {
			if cellVal == "" {
				continue
			}
			if !anchorFound && strings.Contains(cellVal, itemAnchorMarker) {
				anchorRow = ri + 1
				anchorFound = true
			}

			cell, coordErr := excelize.CoordinatesToCellName(ci+1, ri+1)
			if coordErr != nil {
				return nil, newRenderError(op, templatePath, coordErr)
			}

			// A cell that is exactly one token takes the typed value
			// so numeric formatting and formulas keep working.
			if m := exactTokenRe.FindStringSubmatch(strings.TrimSpace(cellVal)); m != nil {
				if v, ok := ctx.Native[m[1]]; ok {
					if setErr := f.SetCellValue(sheet, cell, v); setErr != nil {
						return nil, newRenderError(op, templatePath, setErr)
					}
					continue
				}
			}

			replaced := substituteFields(cellVal, ctx.Fields)
			if replaced != cellVal {
				if setErr := f.SetCellStr(sheet, cell, replaced); setErr != nil {
					return nil, newRenderError(op, templatePath, setErr)
				}
			}
		}
	}

	if !anchorFound {
		r.log.Warn().
			Int("fallback_row", defaultAnchorRow).
			Msg("Item anchor marker not found in template, using fallback row")
	}

	if err := r.writeItemTable(f, sheet, anchorRow, order.Items); err != nil {
		return nil, newRenderError(op, templatePath, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, newRenderError(op, templatePath, err)
	}
	return buf.Bytes(), nil
}

// writeItemTable writes one row per line item starting at the anchor row.
// Rows beyond the item count are left untouched.
func (r *Renderer) writeItemTable(f *excelize.File, sheet string, anchorRow int, items []models.LineItem) error {
	numFmt := moneyNumFmt
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}

	for i, item := range items {
		rowN := anchorRow + i

		qty, _ := item.Quantity.Float64()
		price, _ := item.UnitPrice.Float64()
		lineTotal, _ := item.LineTotal().Float64()

		cells := []struct {
			col string
			val interface{}
		}{
			{colIndex, i + 1},
			{colDescription, item.Description},
			{colQuantity, qty},
			{colUnit, item.Unit},
			{colUnitPrice, price},
			{colLineTotal, lineTotal},
		}
		for _, c := range cells {
			if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", c.col, rowN), c.val); err != nil {
				return err
			}
		}

		priceCell := fmt.Sprintf("%s%d", colUnitPrice, rowN)
		totalCell := fmt.Sprintf("%s%d", colLineTotal, rowN)
		if err := f.SetCellStyle(sheet, priceCell, priceCell, moneyStyle); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, totalCell, totalCell, moneyStyle); err != nil {
			return err
		}
	}
	return nil
}

// substituteFields replaces every occurrence of each known placeholder
// token, in both spellings, with the field's rendered value.
func substituteFields(s string, fields map[string]string) string {
	for key, val := range fields {
		spaced := "{{ " + key + " }}"
		unspaced := "{{" + key + "}}"
		if strings.Contains(s, spaced) {
			s = strings.ReplaceAll(s, spaced, val)
		}
		if strings.Contains(s, unspaced) {
			s = strings.ReplaceAll(s, unspaced, val)
		}
	}
	return s
}
