package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PisamaTech/PisamaApp-sub001/config"
	"github.com/PisamaTech/PisamaApp-sub001/internal/api/handler"
	"github.com/PisamaTech/PisamaApp-sub001/internal/api/middleware"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/jwt"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/redis"
)

// Setup inicializa y devuelve el enrutador Gin
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── Middleware global ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── Health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// Autenticación (sin token)
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			auth.POST("/registro", h.Auth.Registrar)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Webhook de pagos: clave compartida, nunca JWT
		pagos := v1.Group("/pagos", middleware.APIKey(cfg.Pagos.APIKey))
		{
			pagos.POST("/notificacion", h.Pago.Notificacion)
		}

		// Rutas autenticadas
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/usuarios/me", h.Auth.Me)
			authorized.GET("/usuarios/me/calendario.ics", h.Calendario.Feed)

			// Catálogo de salas
			salas := authorized.Group("/salas")
			{
				salas.GET("", h.Sala.Listar)
				salas.GET("/:id", h.Sala.Get)
				salas.POST("", middleware.RoleAuth("admin"), h.Sala.Crear)
				salas.PATCH("/:id", middleware.RoleAuth("admin"), h.Sala.Actualizar)
			}

			// Reservas
			reservas := authorized.Group("/reservas")
			{
				reservas.GET("", h.Reserva.Listar)
				reservas.POST("", h.Reserva.Crear)
				reservas.POST("/verificar", h.Reserva.Verificar)
				reservas.POST("/:id/cancelar", h.Reserva.Cancelar)
				reservas.POST("/:id/cancelar-serie", h.Reserva.CancelarSerie)
				reservas.POST("/:id/reprogramar", h.Reserva.Reprogramar)
				reservas.POST("/:id/utilizada", middleware.RoleAuth("admin"), h.Reserva.MarcarUtilizada)
			}

			// Conciliación de accesos (sólo admin)
			accesos := authorized.Group("/accesos", middleware.RoleAuth("admin"))
			{
				accesos.GET("", h.Acceso.Listar)
				accesos.POST("/conciliar", h.Acceso.Conciliar)
				accesos.POST("/:id/revisado", h.Acceso.MarcarRevisado)
			}

			// Exportación (sólo admin)
			export := authorized.Group("/export", middleware.RoleAuth("admin"))
			{
				export.GET("/reservas", h.Export.ExportarReservas)
				export.GET("/conciliacion", h.Export.ExportarAccesos)
			}
		}
	}

	return r
}
