package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PisamaTech/PisamaApp-sub001/internal/dto"
	"github.com/PisamaTech/PisamaApp-sub001/internal/service"
)

// PagoHandler handler del webhook de notificaciones de pago.
//
// Este endpoint NO usa el sobre unificado de la API: el sistema de
// finanzas externo depende de estos códigos de estado y cuerpos exactos.
// 401 clave faltante/incorrecta, 400 campos faltantes, 404 usuario no
// encontrado, 400 nombre que no coincide, 200 success o
// already_processed, 500 falla inesperada.
type PagoHandler struct {
	pagoSvc service.PagoService
}

// NewPagoHandler crea el PagoHandler
func NewPagoHandler(pagoSvc service.PagoService) *PagoHandler {
	return &PagoHandler{pagoSvc: pagoSvc}
}

// Notificacion procesa una notificación de pago
// POST /api/v1/pagos/notificacion
func (h *PagoHandler) Notificacion(c *gin.Context) {
	var req dto.PagoNotificacionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	if faltan := req.CamposFaltantes(); len(faltan) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "missing required fields",
			"fields": faltan,
		})
		return
	}

	resultado, err := h.pagoSvc.ProcesarNotificacion(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPagoUsuarioNoEncontrado):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrPagoNombreNoCoincide):
			c.JSON(http.StatusBadRequest, gin.H{"error": "name mismatch"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, resultado)
}
