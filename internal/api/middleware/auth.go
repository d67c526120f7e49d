package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PisamaTech/PisamaApp-sub001/pkg/jwt"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/redis"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/response"
)

// JWTAuth middleware de autenticación JWT.
// Extrae y valida el Access Token de Authorization: Bearer <token>.
// rdb puede ser nil: en ese caso la lista negra no se consulta.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "falta el encabezado de autenticación")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "formato de encabezado inválido")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "token inválido o expirado")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "tipo de token inválido")
			c.Abort()
			return
		}

		if rdb != nil {
			revocado, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revocado {
				response.Unauthorized(c, 10002, "token revocado")
				c.Abort()
				return
			}
			// si Redis falla, el token firmado y vigente sigue valiendo
		}

		// Inyectar la identidad en el contexto
		c.Set("usuario_id", claims.UserID)
		c.Set("rol", claims.Rol)
		c.Set("claims", claims)

		c.Next()
	}
}

// RoleAuth middleware de autorización por rol.
// Verifica que el usuario autenticado tenga alguno de los roles indicados.
func RoleAuth(rolesPermitidos ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rol, exists := c.Get("rol")
		if !exists {
			response.Unauthorized(c, 10002, "no autenticado")
			c.Abort()
			return
		}

		rolUsuario := rol.(string)
		for _, r := range rolesPermitidos {
			if rolUsuario == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "sin permiso de acceso")
		c.Abort()
	}
}
