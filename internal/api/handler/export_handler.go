package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PisamaTech/PisamaApp-sub001/internal/service"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler handlers HTTP de exportación (sólo admin)
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler crea el ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

type rangoExportQuery struct {
	Desde time.Time `form:"desde" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	Hasta time.Time `form:"hasta" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

// ExportarReservas descarga el Excel de reservas del rango
// GET /api/v1/export/reservas?desde=...&hasta=...
func (h *ExportHandler) ExportarReservas(c *gin.Context) {
	var query rangoExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, 10001, "parámetros inválidos")
		return
	}

	buf, filename, err := h.exportSvc.ExportarReservas(c.Request.Context(), query.Desde, query.Hasta)
	if err != nil {
		response.InternalError(c)
		return
	}

	entregarXLSX(c, buf.Bytes(), filename)
}

// ExportarAccesos descarga el Excel del log de accesos conciliado
// GET /api/v1/export/conciliacion?desde=...&hasta=...
func (h *ExportHandler) ExportarAccesos(c *gin.Context) {
	var query rangoExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, 10001, "parámetros inválidos")
		return
	}

	buf, filename, err := h.exportSvc.ExportarAccesos(c.Request.Context(), query.Desde, query.Hasta)
	if err != nil {
		response.InternalError(c)
		return
	}

	entregarXLSX(c, buf.Bytes(), filename)
}

func entregarXLSX(c *gin.Context, data []byte, filename string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, data)
}
