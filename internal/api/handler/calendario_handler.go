package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PisamaTech/PisamaApp-sub001/internal/service"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/response"
)

// CalendarioHandler handler del feed iCalendar personal
type CalendarioHandler struct {
	calendarioSvc service.CalendarioService
}

// NewCalendarioHandler crea el CalendarioHandler
func NewCalendarioHandler(calendarioSvc service.CalendarioService) *CalendarioHandler {
	return &CalendarioHandler{calendarioSvc: calendarioSvc}
}

// Feed sirve las próximas reservas del usuario como texto iCalendar
// GET /api/v1/usuarios/me/calendario.ics
func (h *CalendarioHandler) Feed(c *gin.Context) {
	usuarioID, ok := MustGetUsuarioID(c)
	if !ok {
		return
	}

	contenido, err := h.calendarioSvc.CalendarioUsuario(c.Request.Context(), usuarioID)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="pisama.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(contenido))
}
