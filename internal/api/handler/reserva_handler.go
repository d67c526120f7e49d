package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PisamaTech/PisamaApp-sub001/internal/agenda"
	"github.com/PisamaTech/PisamaApp-sub001/internal/dto"
	"github.com/PisamaTech/PisamaApp-sub001/internal/service"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/response"
)

// ReservaHandler handlers HTTP del módulo de reservas
type ReservaHandler struct {
	reservaSvc service.ReservaService
}

// NewReservaHandler crea el ReservaHandler
func NewReservaHandler(reservaSvc service.ReservaService) *ReservaHandler {
	return &ReservaHandler{reservaSvc: reservaSvc}
}

// Verificar verificación de conflictos sin persistir
// POST /api/v1/reservas/verificar
func (h *ReservaHandler) Verificar(c *gin.Context) {
	var req dto.VerificarConflictosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parámetros inválidos")
		return
	}

	resultado, err := h.reservaSvc.VerificarConflictos(c.Request.Context(), &req)
	if err != nil {
		h.manejarError(c, err)
		return
	}

	response.OK(c, resultado)
}

// Crear alta de reserva eventual o serie fija
// POST /api/v1/reservas
func (h *ReservaHandler) Crear(c *gin.Context) {
	var req dto.CrearReservaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parámetros inválidos")
		return
	}

	usuarioID, ok := MustGetUsuarioID(c)
	if !ok {
		return
	}

	resultado, err := h.reservaSvc.Crear(c.Request.Context(), &req, usuarioID)
	if err != nil {
		h.manejarError(c, err)
		return
	}

	response.Created(c, resultado)
}

// Listar listado de reservas por rango
// GET /api/v1/reservas?desde=...&hasta=...
func (h *ReservaHandler) Listar(c *gin.Context) {
	var req dto.ListarReservasRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "parámetros inválidos")
		return
	}

	// Un socio sólo ve lo suyo; el admin puede filtrar por cualquiera
	if !EsAdmin(c) {
		usuarioID, ok := MustGetUsuarioID(c)
		if !ok {
			return
		}
		req.UsuarioID = usuarioID
	}

	reservas, err := h.reservaSvc.Listar(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": reservas})
}

// Cancelar cancelación individual
// POST /api/v1/reservas/:id/cancelar
func (h *ReservaHandler) Cancelar(c *gin.Context) {
	id := c.Param("id")
	usuarioID, ok := MustGetUsuarioID(c)
	if !ok {
		return
	}

	reserva, err := h.reservaSvc.Cancelar(c.Request.Context(), id, usuarioID, EsAdmin(c))
	if err != nil {
		h.manejarError(c, err)
		return
	}

	response.OK(c, reserva)
}

// CancelarSerie cancelación de las instancias restantes de la serie
// POST /api/v1/reservas/:id/cancelar-serie
func (h *ReservaHandler) CancelarSerie(c *gin.Context) {
	id := c.Param("id")
	usuarioID, ok := MustGetUsuarioID(c)
	if !ok {
		return
	}

	resultado, err := h.reservaSvc.CancelarSerie(c.Request.Context(), id, usuarioID, EsAdmin(c))
	if err != nil {
		h.manejarError(c, err)
		return
	}

	response.OK(c, resultado)
}

// Reprogramar consumo del crédito de una reserva penalizada
// POST /api/v1/reservas/:id/reprogramar
func (h *ReservaHandler) Reprogramar(c *gin.Context) {
	id := c.Param("id")

	var req dto.ReprogramarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parámetros inválidos")
		return
	}

	usuarioID, ok := MustGetUsuarioID(c)
	if !ok {
		return
	}

	resultado, err := h.reservaSvc.Reprogramar(c.Request.Context(), id, &req, usuarioID, EsAdmin(c))
	if err != nil {
		h.manejarError(c, err)
		return
	}

	response.OK(c, resultado)
}

// MarcarUtilizada confirmación administrativa de uso
// POST /api/v1/reservas/:id/utilizada
func (h *ReservaHandler) MarcarUtilizada(c *gin.Context) {
	id := c.Param("id")

	reserva, err := h.reservaSvc.MarcarUtilizada(c.Request.Context(), id)
	if err != nil {
		h.manejarError(c, err)
		return
	}

	response.OK(c, reserva)
}

// manejarError traduce los errores de negocio de reservas a HTTP
func (h *ReservaHandler) manejarError(c *gin.Context, err error) {
	var conflicto *service.ConflictoError
	switch {
	case errors.As(err, &conflicto):
		response.ErrorWithDetails(c, http.StatusConflict, 30001, "horario no disponible", conflicto.Detalles())
	case errors.Is(err, service.ErrReservaNoEncontrada):
		response.NotFound(c, 30002, err.Error())
	case errors.Is(err, service.ErrSalaNoEncontrada):
		response.NotFound(c, 30003, err.Error())
	case errors.Is(err, service.ErrSinPermiso):
		response.Forbidden(c, 30004, err.Error())
	case errors.Is(err, service.ErrReservaSinSerie):
		response.BadRequest(c, 30005, err.Error())
	case errors.Is(err, agenda.ErrPrecondicion):
		response.Conflict(c, 30006, err.Error())
	case errors.Is(err, agenda.ErrFranjaSinSala),
		errors.Is(err, agenda.ErrFranjaNoHoraria),
		errors.Is(err, agenda.ErrFranjaDesalineada):
		response.BadRequest(c, 10001, err.Error())
	default:
		response.InternalError(c)
	}
}
