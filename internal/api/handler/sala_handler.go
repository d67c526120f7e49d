package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/PisamaTech/PisamaApp-sub001/internal/dto"
	"github.com/PisamaTech/PisamaApp-sub001/internal/service"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/response"
)

// SalaHandler handlers HTTP del catálogo de salas
type SalaHandler struct {
	salaSvc service.SalaService
}

// NewSalaHandler crea el SalaHandler
func NewSalaHandler(salaSvc service.SalaService) *SalaHandler {
	return &SalaHandler{salaSvc: salaSvc}
}

// Listar catálogo de salas
// GET /api/v1/salas
func (h *SalaHandler) Listar(c *gin.Context) {
	salas, err := h.salaSvc.Listar(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": salas})
}

// Get detalle de una sala
// GET /api/v1/salas/:id
func (h *SalaHandler) Get(c *gin.Context) {
	sala, err := h.salaSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.manejarError(c, err)
		return
	}

	response.OK(c, sala)
}

// Crear alta de sala
// POST /api/v1/salas
func (h *SalaHandler) Crear(c *gin.Context) {
	var req dto.CrearSalaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parámetros inválidos")
		return
	}

	sala, err := h.salaSvc.Crear(c.Request.Context(), &req)
	if err != nil {
		h.manejarError(c, err)
		return
	}

	response.Created(c, sala)
}

// Actualizar modificación parcial de sala
// PATCH /api/v1/salas/:id
func (h *SalaHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarSalaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parámetros inválidos")
		return
	}

	sala, err := h.salaSvc.Actualizar(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.manejarError(c, err)
		return
	}

	response.OK(c, sala)
}

func (h *SalaHandler) manejarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSalaNoEncontrada):
		response.NotFound(c, 30003, err.Error())
	case errors.Is(err, service.ErrSalaNombreDuplicado):
		response.Conflict(c, 30007, err.Error())
	default:
		response.InternalError(c)
	}
}
