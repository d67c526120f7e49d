package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/PisamaTech/PisamaApp-sub001/internal/dto"
	"github.com/PisamaTech/PisamaApp-sub001/internal/service"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/jwt"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/response"
)

// AuthHandler handlers HTTP del módulo de autenticación
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler crea el AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Registrar alta de usuario
// POST /api/v1/auth/registro
func (h *AuthHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parámetros inválidos")
		return
	}

	usuario, err := h.authSvc.Registrar(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailYaRegistrado) {
			response.Conflict(c, 20001, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, usuario)
}

// Login inicio de sesión
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parámetros inválidos")
		return
	}

	tokens, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCredencialesInvalidas):
			response.Unauthorized(c, 20002, err.Error())
		case errors.Is(err, service.ErrUsuarioInactivo):
			response.Forbidden(c, 20003, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, tokens)
}

// Refresh renovación del par de tokens
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parámetros inválidos")
		return
	}

	tokens, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshInvalido):
			response.Unauthorized(c, 20004, err.Error())
		case errors.Is(err, service.ErrUsuarioInactivo):
			response.Forbidden(c, 20003, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, tokens)
}

// Logout revoca el token presentado
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "no autenticado")
		return
	}
	claims, ok := v.(*jwt.Claims)
	if !ok {
		response.Unauthorized(c, 10002, "no autenticado")
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// Me perfil del usuario autenticado
// GET /api/v1/usuarios/me
func (h *AuthHandler) Me(c *gin.Context) {
	usuarioID, ok := MustGetUsuarioID(c)
	if !ok {
		return
	}

	usuario, err := h.authSvc.Me(c.Request.Context(), usuarioID)
	if err != nil {
		if errors.Is(err, service.ErrUsuarioNoEncontrado) {
			response.NotFound(c, 20005, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, usuario)
}
