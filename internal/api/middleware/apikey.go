package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKey middleware de autenticación por clave compartida para el
// webhook de pagos. Responde en el contrato plano del webhook, no en el
// sobre unificado de la API: el emisor externo espera {"error": ...}.
func APIKey(esperada string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presentada := c.GetHeader("X-API-Key")
		if esperada == "" || subtle.ConstantTimeCompare([]byte(presentada), []byte(esperada)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
