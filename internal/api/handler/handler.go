package handler

import "github.com/PisamaTech/PisamaApp-sub001/internal/service"

// Handler punto de entrada agregado de todos los handlers
type Handler struct {
	Auth       *AuthHandler
	Sala       *SalaHandler
	Reserva    *ReservaHandler
	Acceso     *AccesoHandler
	Pago       *PagoHandler
	Export     *ExportHandler
	Calendario *CalendarioHandler
}

// NewHandler crea el agregado de handlers
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Sala:       NewSalaHandler(svc.Sala),
		Reserva:    NewReservaHandler(svc.Reserva),
		Acceso:     NewAccesoHandler(svc.Conciliacion),
		Pago:       NewPagoHandler(svc.Pago),
		Export:     NewExportHandler(svc.Export),
		Calendario: NewCalendarioHandler(svc.Calendario),
	}
}
