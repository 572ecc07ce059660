package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestComputeTotals(t *testing.T) {
	order := &Order{
		Items: []LineItem{
			{Description: "งานติดตั้ง", Quantity: d("2"), Unit: "งาน", UnitPrice: d("100")},
			{Description: "ค่าขนส่ง", Quantity: d("1"), Unit: "เที่ยว", UnitPrice: d("50")},
		},
	}

	totals := order.ComputeTotals()

	assert.True(t, totals.Subtotal.Equal(d("250")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.VAT.Equal(d("17.5")), "vat = %s", totals.VAT)
	assert.True(t, totals.GrandTotal.Equal(d("267.5")), "grand = %s", totals.GrandTotal)
}

func TestComputeTotalsEmptyItems(t *testing.T) {
	order := &Order{}
	totals := order.ComputeTotals()

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.VAT.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestItemsJSONRoundTrip(t *testing.T) {
	original := &Order{
		Items: []LineItem{
			{Description: "เครื่องพิมพ์", Quantity: d("2"), Unit: "เครื่อง", UnitPrice: d("4500.50")},
			{Description: "หมึกพิมพ์", Quantity: d("10"), Unit: "กล่อง", UnitPrice: d("350")},
		},
	}

	blob, err := original.ItemsJSON()
	require.NoError(t, err)

	// The stored blob format carries plain JSON numbers.
	assert.JSONEq(t,
		`[{"desc":"เครื่องพิมพ์","qty":2,"unit":"เครื่อง","price":4500.5},
		  {"desc":"หมึกพิมพ์","qty":10,"unit":"กล่อง","price":350}]`,
		blob)

	reloaded := &Order{}
	require.NoError(t, reloaded.ItemsFromJSON(blob))

	require.Len(t, reloaded.Items, 2)
	for i := range original.Items {
		assert.Equal(t, original.Items[i].Description, reloaded.Items[i].Description)
		assert.Equal(t, original.Items[i].Unit, reloaded.Items[i].Unit)
		assert.True(t, original.Items[i].Quantity.Equal(reloaded.Items[i].Quantity))
		assert.True(t, original.Items[i].UnitPrice.Equal(reloaded.Items[i].UnitPrice))
	}
}

func TestToLedgerRow(t *testing.T) {
	order := &Order{
		PONo:          "PO-69/004",
		Date:          "15/01/2569",
		ProjectName:   "โครงการทดสอบ",
		PRNo:          "PR-100",
		QuoteNo:       "QT-55",
		QuoteDate:     "10/01/2569",
		VendorName:    "บริษัท ทดสอบ จำกัด",
		TaxID:         "0105500000001",
		ContactPerson: "พบธรรม",
		Items: []LineItem{
			{Description: "งาน", Quantity: d("2"), Unit: "งาน", UnitPrice: d("100")},
		},
	}

	row, err := order.ToLedgerRow(order.ComputeTotals())
	require.NoError(t, err)
	require.Len(t, row, len(LedgerHeaders))

	assert.Equal(t, "PO-69/004", row[0])
	assert.Equal(t, "QT-55 (10/01/2569)", row[4])
	assert.Equal(t, "214.00", row[7])
	assert.Contains(t, row[9], `"desc":"งาน"`)
}

func TestOrderFromRow(t *testing.T) {
	t.Run("with item blob", func(t *testing.T) {
		row := []string{
			"PO-69/004", "15/01/2569", "โครงการ", "PR-100", "QT-55 (10/01/2569)",
			"บริษัท ทดสอบ จำกัด", "0105500000001", "214.00", "พบธรรม",
			`[{"desc":"งาน","qty":2,"unit":"งาน","price":100}]`,
		}

		order, degraded := OrderFromRow(row)

		assert.False(t, degraded)
		assert.Equal(t, "PO-69/004", order.PONo)
		assert.Equal(t, "บริษัท ทดสอบ จำกัด", order.VendorName)
		require.Len(t, order.Items, 1)
		assert.Equal(t, "งาน", order.Items[0].Description)
		assert.True(t, order.Items[0].Quantity.Equal(d("2")))
	})

	t.Run("legacy row without blob is flagged, not fatal", func(t *testing.T) {
		row := []string{"PO-69/001", "01/01/2569", "เก่า", "PR-1", "", "ผู้ขาย", "", "100.00", "พบธรรม"}

		order, degraded := OrderFromRow(row)

		assert.True(t, degraded)
		require.Len(t, order.Items, 1)
		assert.Contains(t, order.Items[0].Description, "Legacy")
	})

	t.Run("corrupt blob is flagged, not fatal", func(t *testing.T) {
		row := []string{"PO-69/002", "", "", "", "", "", "", "", "", "{not json"}

		order, degraded := OrderFromRow(row)

		assert.True(t, degraded)
		require.Len(t, order.Items, 1)
	})
}
