package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"potool/internal/ledger"
	"potool/internal/numbering"
	"potool/internal/po"
	"potool/internal/render"
	"potool/pkg/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellStr(sheet, "A1", "{{ po_no }}"))
	require.NoError(t, f.SetCellStr(sheet, "B5", "{{ item.desc }}"))
	templatePath := filepath.Join(t.TempDir(), "template_po.xlsx")
	require.NoError(t, f.SaveAs(templatePath))
	require.NoError(t, f.Close())

	l := ledger.NewMemoryLedger(models.LedgerHeaders)
	n := numbering.New(numbering.Options{Format: numbering.FormatSlash})
	svc := po.New(l, n, render.New(), templatePath, po.Defaults{
		ContactPerson: "พบธรรม",
		Preparer:      "เจ้าหน้าที่พัสดุ",
	})
	return New(svc, ":0")
}

func doRequest(t *testing.T, router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, path, bytes.NewReader(body))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := newTestServer(t).Router()

	w := doRequest(t, router, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestNextNumberEndpoint(t *testing.T) {
	router := newTestServer(t).Router()

	w := doRequest(t, router, http.MethodGet, "/api/po/next", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"po_no":"PO-69/001"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestNewOrderEndpoint(t *testing.T) {
	router := newTestServer(t).Router()

	w := doRequest(t, router, http.MethodGet, "/api/po/new", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, "PO-69/001", order.PONo)
	assert.Equal(t, "พบธรรม", order.ContactPerson)
	assert.Len(t, order.Items, 1)
}

func saveBody(t *testing.T) []byte {
	t.Helper()
	payload := map[string]interface{}{
		"date":         "15/01/2569",
		"project_name": "โครงการทดสอบ",
		"vendor_name":  "บริษัท ทดสอบ จำกัด",
		"items": []map[string]interface{}{
			{"desc": "งานติดตั้ง", "qty": 2, "unit": "งาน", "price": 100},
			{"desc": "ค่าขนส่ง", "qty": 1, "unit": "เที่ยว", "price": 50},
		},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return body
}

func TestSaveOrderEndpoint(t *testing.T) {
	router := newTestServer(t).Router()

	w := doRequest(t, router, http.MethodPost, "/api/po", saveBody(t))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PO-69/001", w.Header().Get("X-PO-Number"))
	assert.Equal(t, "created", w.Header().Get("X-PO-Saved"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "PO_PO-69-001.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())

	// The saved order is now in history and reloadable.
	w = doRequest(t, router, http.MethodGet, "/api/po/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Orders []po.HistoryEntry `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.Orders, 1)
	assert.Equal(t, "PO-69/001", history.Orders[0].PONo)

	w = doRequest(t, router, http.MethodGet, "/api/po/PO-69%2F001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var loaded struct {
		Order    models.Order `json:"order"`
		Degraded bool         `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
	assert.False(t, loaded.Degraded)
	assert.Equal(t, "บริษัท ทดสอบ จำกัด", loaded.Order.VendorName)
	assert.Len(t, loaded.Order.Items, 2)
}

func TestSaveOrderUpdates(t *testing.T) {
	router := newTestServer(t).Router()

	w := doRequest(t, router, http.MethodPost, "/api/po", saveBody(t))
	require.Equal(t, http.StatusOK, w.Code)

	// Re-submit with the assigned number: the row is updated, not duplicated.
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(saveBody(t), &payload))
	payload["po_no"] = "PO-69/001"
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w = doRequest(t, router, http.MethodPost, "/api/po", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "updated", w.Header().Get("X-PO-Saved"))
}

func TestGetOrderNotFound(t *testing.T) {
	router := newTestServer(t).Router()

	w := doRequest(t, router, http.MethodGet, "/api/po/PO-69%2F999", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveOrderBadPayload(t *testing.T) {
	router := newTestServer(t).Router()

	w := doRequest(t, router, http.MethodPost, "/api/po", []byte(`{"items": "not-a-list"`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
