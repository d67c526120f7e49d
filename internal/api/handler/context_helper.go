package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/PisamaTech/PisamaApp-sub001/pkg/response"
)

// MustGetUsuarioID extrae usuario_id del contexto de Gin.
// Si el middleware JWT no lo inyectó, escribe un 401 y devuelve false;
// el llamador debe retornar de inmediato.
func MustGetUsuarioID(c *gin.Context) (string, bool) {
	v, exists := c.Get("usuario_id")
	if !exists {
		response.Unauthorized(c, 10002, "no autenticado")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "no autenticado")
		return "", false
	}
	return s, true
}

// EsAdmin indica si el usuario autenticado tiene rol admin
func EsAdmin(c *gin.Context) bool {
	v, exists := c.Get("rol")
	if !exists {
		return false
	}
	rol, ok := v.(string)
	return ok && rol == "admin"
}
