package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeTestTemplate builds a small spreadsheet template on disk.
func writeTestTemplate(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetCellStr(sheet, "A1", "ใบสั่งซื้อเลขที่ {{ po_no }}"))
	require.NoError(t, f.SetCellStr(sheet, "B2", "{{vendor_name}}"))
	require.NoError(t, f.SetCellStr(sheet, "C3", "{{ grand_total }}"))
	require.NoError(t, f.SetCellStr(sheet, "D4", "ข้อความธรรมดา ไม่มีโทเคน"))
	require.NoError(t, f.SetCellStr(sheet, "E5", "{{ baht_text }}"))
	require.NoError(t, f.SetCellStr(sheet, "B10", "{{ item.desc }}"))

	path := filepath.Join(t.TempDir(), "template_po.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func renderTestTemplate(t *testing.T, path string) *excelize.File {
	t.Helper()

	order := testOrder()
	doc, err := New().Render(order, order.ComputeTotals(), path)
	require.NoError(t, err)
	assert.Equal(t, "PO_PO-69-004.xlsx", doc.Filename)

	out, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	require.NoError(t, err)
	t.Cleanup(func() { out.Close() })
	return out
}

func TestRenderXLSXSubstitution(t *testing.T) {
	out := renderTestTemplate(t, writeTestTemplate(t))
	sheet := out.GetSheetName(0)

	get := func(cell string) string {
		v, err := out.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	// Substring substitution keeps surrounding text.
	assert.Equal(t, "ใบสั่งซื้อเลขที่ PO-69/004", get("A1"))
	// Unspaced spelling resolves too.
	assert.Equal(t, "บริษัท ทดสอบ จำกัด", get("B2"))
	// An exact-token amount cell holds the native number, not a string.
	assert.Equal(t, "267.5", get("C3"))
	// Token-free cells are untouched.
	assert.Equal(t, "ข้อความธรรมดา ไม่มีโทเคน", get("D4"))
	assert.Equal(t, "สองร้อยหกสิบเจ็ดบาทห้าสิบสตางค์", get("E5"))
}

func TestRenderXLSXItemTable(t *testing.T) {
	out := renderTestTemplate(t, writeTestTemplate(t))
	sheet := out.GetSheetName(0)

	get := func(cell string) string {
		v, err := out.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	// The anchor marker sits in row 10; items start there, one row each,
	// with a strictly increasing 1-based index.
	assert.Equal(t, "1", get("A10"))
	assert.Equal(t, "งานติดตั้ง", get("B10"))
	assert.Equal(t, "2", get("H10"))
	assert.Equal(t, "งาน", get("I10"))
	assert.Equal(t, "100", get("J10"))
	assert.Equal(t, "200", get("K10"))

	assert.Equal(t, "2", get("A11"))
	assert.Equal(t, "ค่าขนส่ง", get("B11"))
	assert.Equal(t, "50", get("K11"))

	// Exactly len(items) rows are written.
	assert.Equal(t, "", get("A12"))
}

func TestRenderXLSXAnchorFallback(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellStr(sheet, "A1", "{{ po_no }}"))

	path := filepath.Join(t.TempDir(), "no_anchor.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	out := renderTestTemplate(t, path)

	// Without the marker, the table lands on the stock fallback row.
	v, err := out.GetCellValue(sheet, "B14")
	require.NoError(t, err)
	assert.Equal(t, "งานติดตั้ง", v)
}

func TestRenderMissingTemplate(t *testing.T) {
	order := testOrder()

	doc, err := New().Render(order, order.ComputeTotals(), filepath.Join(t.TempDir(), "nope.xlsx"))

	assert.Nil(t, doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestRenderUnsupportedTemplateKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-fake"), 0644))

	order := testOrder()
	_, err := New().Render(order, order.ComputeTotals(), path)

	assert.ErrorIs(t, err, ErrUnsupportedTemplate)
}
