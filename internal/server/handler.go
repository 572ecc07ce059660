package server

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"potool/internal/logger"
	"potool/internal/po"
	"potool/internal/render"
	"potool/pkg/models"
)

type handler struct {
	svc *po.Service
	log zerolog.Logger
}

func newHandler(svc *po.Service) *handler {
	return &handler{svc: svc, log: logger.WithComponent("handler")}
}

// fail sends a uniform error payload.
func fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"status":  "fail",
		"message": message,
	})
}

func (h *handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) NextNumber(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"po_no": h.svc.NextNumber(c.Request.Context())})
}

func (h *handler) NewOrder(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.NewOrder(c.Request.Context()))
}

func (h *handler) History(c *gin.Context) {
	entries, err := h.svc.History(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read PO history")
		fail(c, http.StatusBadGateway, "ไม่สามารถอ่านข้อมูลจาก Google Sheet ได้")
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": entries})
}

func (h *handler) GetOrder(c *gin.Context) {
	poNo := c.Param("id")

	order, degraded, err := h.svc.Load(c.Request.Context(), poNo)
	if err != nil {
		if errors.Is(err, po.ErrOrderNotFound) {
			fail(c, http.StatusNotFound, "ไม่พบเลข PO นี้")
			return
		}
		h.log.Error().Err(err).Str("po_no", poNo).Msg("Failed to load PO")
		fail(c, http.StatusBadGateway, "ไม่สามารถอ่านข้อมูลจาก Google Sheet ได้")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":    order,
		"degraded": degraded,
	})
}

// SaveOrder runs the full save action and streams back the rendered
// document as a download.
func (h *handler) SaveOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		fail(c, http.StatusBadRequest, "invalid order payload: "+err.Error())
		return
	}
	h.svc.ApplyDefaults(&order)

	result, doc, err := h.svc.SaveAndExport(c.Request.Context(), &order)
	if err != nil {
		switch {
		case errors.Is(err, render.ErrTemplateNotFound):
			// The row is already saved; only the download is lost.
			h.log.Error().Err(err).Str("po_no", order.PONo).Msg("Template missing, no document produced")
			fail(c, http.StatusInternalServerError, "ไม่พบไฟล์ template กรุณาตรวจสอบโฟลเดอร์")
		case result == nil:
			h.log.Error().Err(err).Str("po_no", order.PONo).Msg("Failed to save PO")
			fail(c, http.StatusBadGateway, "บันทึกข้อมูลไม่สำเร็จ")
		default:
			h.log.Error().Err(err).Str("po_no", order.PONo).Msg("Failed to render PO document")
			fail(c, http.StatusInternalServerError, "สร้างเอกสารไม่สำเร็จ")
		}
		return
	}

	c.Header("X-PO-Number", result.PONo)
	if result.Updated {
		c.Header("X-PO-Saved", "updated")
	} else {
		c.Header("X-PO-Saved", "created")
	}
	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, contentTypeFor(doc.Filename), doc.Data)
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}
