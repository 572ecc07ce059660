package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// Stored item blobs carry plain JSON numbers; quoted decimals would
	// break round trips against rows written by earlier deployments.
	decimal.MarshalJSONWithoutQuotes = true
}

// TaxRate is the fixed Thai VAT rate applied to every order.
var TaxRate = decimal.NewFromFloat(0.07)

// LineItem is a single order line. Quantity and UnitPrice are non-negative
// decimals; LineTotal is always derived, never stored.
type LineItem struct {
	Description string          `json:"desc"`
	Quantity    decimal.Decimal `json:"qty"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"price"`
}

// LineTotal returns quantity × unit price.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// Order is the unit of work: one purchase-order form session.
type Order struct {
	PONo        string `json:"po_no"`
	Date        string `json:"date"`
	ProjectName string `json:"project_name"`

	// References
	PRNo       string `json:"pr_no"`
	BudgetCode string `json:"budget_code"`
	QuoteNo    string `json:"quote_no"`
	QuoteDate  string `json:"quote_date"`

	// Vendor
	VendorName    string `json:"vendor_name"`
	VendorAddress string `json:"vendor_address"`
	VendorContact string `json:"vendor_contact"`
	TaxID         string `json:"tax_id"`

	// Internal contact
	ContactPerson string `json:"contact_person"`
	ContactExt    string `json:"contact_ext"`
	ContactEmail  string `json:"contact_email"`
	Preparer      string `json:"preparer"`

	Items []LineItem `json:"items"`
}

// Totals holds the derived amounts for an order. They are recomputed from
// the items at save time and again at render time, never persisted alone.
type Totals struct {
	Subtotal   decimal.Decimal
	VAT        decimal.Decimal
	GrandTotal decimal.Decimal
}

// ComputeTotals derives subtotal, VAT and grand total from the order items.
func (o *Order) ComputeTotals() Totals {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	vat := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal:   subtotal,
		VAT:        vat,
		GrandTotal: subtotal.Add(vat),
	}
}

// ItemsJSON serializes the item list into the single-cell blob stored in
// the ledger's Items_JSON column.
func (o *Order) ItemsJSON() (string, error) {
	data, err := json.Marshal(o.Items)
	if err != nil {
		return "", fmt.Errorf("marshal items: %w", err)
	}
	return string(data), nil
}

// ItemsFromJSON replaces the item list from a stored blob.
func (o *Order) ItemsFromJSON(blob string) error {
	var items []LineItem
	if err := json.Unmarshal([]byte(blob), &items); err != nil {
		return fmt.Errorf("unmarshal items: %w", err)
	}
	o.Items = items
	return nil
}

// DegradedItems is the visibly flagged item list substituted when a ledger
// row predates the Items_JSON column or its blob cannot be parsed.
func DegradedItems() []LineItem {
	return []LineItem{{
		Description: "[ข้อมูลรายการไม่สมบูรณ์ - Legacy Data]",
		Quantity:    decimal.Zero,
		Unit:        "",
		UnitPrice:   decimal.Zero,
	}}
}

// LedgerHeaders is the header row created on first use of a worksheet.
// Column order is fixed per deployment and must match ToLedgerRow.
var LedgerHeaders = []string{
	"PO No", "Date", "Project", "PR No", "Quote Info",
	"Vendor Name", "Tax ID", "Grand Total", "Preparer", "Items_JSON",
}

// ToLedgerRow projects the order into the fixed-width ledger record.
// The PO number sits in column 1: it is the natural key the ledger's
// find-then-update path matches on.
func (o *Order) ToLedgerRow(totals Totals) ([]interface{}, error) {
	itemsJSON, err := o.ItemsJSON()
	if err != nil {
		return nil, err
	}
	return []interface{}{
		o.PONo,
		o.Date,
		o.ProjectName,
		o.PRNo,
		fmt.Sprintf("%s (%s)", o.QuoteNo, o.QuoteDate),
		o.VendorName,
		o.TaxID,
		totals.GrandTotal.StringFixed(2),
		o.ContactPerson,
		itemsJSON,
	}, nil
}

// OrderFromRow reconstructs an order from a ledger row. Only the columns
// that map cleanly back to form fields are restored; the combined quote
// info column is not split apart. Rows without an item blob come back with
// the degraded item list and degraded=true.
func OrderFromRow(row []string) (*Order, bool) {
	o := &Order{}
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	o.PONo = get(0)
	o.Date = get(1)
	o.ProjectName = get(2)
	o.PRNo = get(3)
	o.VendorName = get(5)
	o.TaxID = get(6)
	o.ContactPerson = get(8)

	blob := get(9)
	if blob == "" {
		o.Items = DegradedItems()
		return o, true
	}
	if err := o.ItemsFromJSON(blob); err != nil {
		o.Items = DegradedItems()
		return o, true
	}
	return o, false
}
