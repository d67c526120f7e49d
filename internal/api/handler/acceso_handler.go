package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PisamaTech/PisamaApp-sub001/internal/dto"
	"github.com/PisamaTech/PisamaApp-sub001/internal/service"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/response"
)

// AccesoHandler handlers HTTP de conciliación de accesos
type AccesoHandler struct {
	conciliacionSvc service.ConciliacionService
}

// NewAccesoHandler crea el AccesoHandler
func NewAccesoHandler(conciliacionSvc service.ConciliacionService) *AccesoHandler {
	return &AccesoHandler{conciliacionSvc: conciliacionSvc}
}

// Conciliar conciliación de un lote del log de la cerradura
// POST /api/v1/accesos/conciliar
func (h *AccesoHandler) Conciliar(c *gin.Context) {
	var req dto.ConciliarLoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parámetros inválidos")
		return
	}

	resultado, err := h.conciliacionSvc.ConciliarLote(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, resultado)
}

// Listar registros de acceso por rango
// GET /api/v1/accesos?desde=...&hasta=...
func (h *AccesoHandler) Listar(c *gin.Context) {
	var query struct {
		Desde time.Time `form:"desde" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
		Hasta time.Time `form:"hasta" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, 10001, "parámetros inválidos")
		return
	}

	registros, err := h.conciliacionSvc.ListarRegistros(c.Request.Context(), query.Desde, query.Hasta)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": registros})
}

// MarcarRevisado triaje administrativo de un registro
// POST /api/v1/accesos/:id/revisado
func (h *AccesoHandler) MarcarRevisado(c *gin.Context) {
	id := c.Param("id")

	if err := h.conciliacionSvc.MarcarRevisado(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrRegistroNoEncontrado) {
			response.NotFound(c, 40001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
