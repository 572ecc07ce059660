package render

import (
	"strings"

	"github.com/shopspring/decimal"

	"potool/internal/baht"
	"potool/pkg/models"
)

// Context carries everything a template strategy needs: rendered strings
// for substitution, native-typed values for exact-token cells, and the
// ordered per-item maps the document-template engine loops over.
type Context struct {
	Fields map[string]string
	Native map[string]interface{}
	Items  []map[string]interface{}
}

// FieldKeys lists every header/footer placeholder token the renderer
// resolves, in both the "{{ key }}" and "{{key}}" spellings.
var FieldKeys = []string{
	"po_no", "date", "project_name", "pr_no", "budget_code",
	"quote_no", "quote_date", "vendor_name", "vendor_address",
	"vendor_contact", "tax_id", "contact_person", "contact_ext",
	"contact_email", "preparer", "subtotal", "vat_amount",
	"grand_total", "baht_text",
}

// ItemKeys lists the per-item placeholder tokens.
var ItemKeys = []string{"index", "desc", "qty", "unit", "price", "total"}

// BuildContext assembles the template context from an order and its
// (freshly recomputed) totals.
func BuildContext(order *models.Order, totals models.Totals) *Context {
	fields := map[string]string{
		"po_no":          order.PONo,
		"date":           order.Date,
		"project_name":   order.ProjectName,
		"pr_no":          order.PRNo,
		"budget_code":    order.BudgetCode,
		"quote_no":       order.QuoteNo,
		"quote_date":     order.QuoteDate,
		"vendor_name":    order.VendorName,
		"vendor_address": order.VendorAddress,
		"vendor_contact": order.VendorContact,
		"tax_id":         order.TaxID,
		"contact_person": order.ContactPerson,
		"contact_ext":    order.ContactExt,
		"contact_email":  order.ContactEmail,
		"preparer":       order.Preparer,
		"subtotal":       FormatMoney(totals.Subtotal),
		"vat_amount":     FormatMoney(totals.VAT),
		"grand_total":    FormatMoney(totals.GrandTotal),
		"baht_text":      baht.Text(totals.GrandTotal),
	}

	native := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		native[k] = v
	}
	// Exact-token cells holding amounts get real numbers so downstream
	// spreadsheet formatting and formulas keep working.
	native["subtotal"], _ = totals.Subtotal.Round(2).Float64()
	native["vat_amount"], _ = totals.VAT.Round(2).Float64()
	native["grand_total"], _ = totals.GrandTotal.Round(2).Float64()

	items := make([]map[string]interface{}, len(order.Items))
	for i, item := range order.Items {
		items[i] = map[string]interface{}{
			"index": i + 1,
			"desc":  item.Description,
			"qty":   item.Quantity.String(),
			"unit":  item.Unit,
			"price": FormatMoney(item.UnitPrice),
			"total": FormatMoney(item.LineTotal()),
		}
	}

	return &Context{Fields: fields, Native: native, Items: items}
}

// FormatMoney renders an amount with thousands separators and two
// decimals, e.g. 1234567.5 → "1,234,567.50".
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
		if len(intPart) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(intPart[i : i+3])
		if i+3 < len(intPart) {
			b.WriteByte(',')
		}
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
