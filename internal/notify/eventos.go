// Package notify define la fuente de eventos de la aplicación como una
// capacidad abstracta de publicación/suscripción. El núcleo depende
// sólo de la interfaz FuenteEventos; el transporte concreto (Redis en
// producción, memoria en tests) se inyecta en el arranque. Las
// suscripciones son objetos con ciclo de vida explícito, atados a la
// sesión que las abre, nunca variables globales del proceso.
package notify

import (
	"context"
	"time"
)

// Tipos de evento publicados por los servicios
const (
	EventoReservaCreada     = "reserva.creada"
	EventoReservaCancelada  = "reserva.cancelada"
	EventoSerieCancelada    = "reserva.serie_cancelada"
	EventoReservaPenalizada = "reserva.penalizada"
	EventoAccesoSinReserva  = "acceso.sin_reserva"
	EventoPagoRecibido      = "pago.recibido"
)

// Evento una novedad de negocio para la bandeja de notificaciones
type Evento struct {
	Tipo      string    `json:"tipo"`
	UsuarioID string    `json:"usuario_id,omitempty"`
	ReservaID string    `json:"reserva_id,omitempty"`
	Momento   time.Time `json:"momento"`
	Detalle   string    `json:"detalle,omitempty"`
}

// Suscripcion canal de eventos abierto por un consumidor. Quien la
// abre es dueño de cerrarla; cerrar libera el transporte subyacente y
// cierra C.
type Suscripcion struct {
	C      <-chan Evento
	cerrar func() error
}

// Cerrar termina la suscripción
func (s *Suscripcion) Cerrar() error {
	if s.cerrar == nil {
		return nil
	}
	return s.cerrar()
}

// FuenteEventos capacidad de publicación/suscripción de eventos
type FuenteEventos interface {
	// Publicar emite un evento. Los publicadores tratan los errores
	// como secundarios: una notificación perdida no aborta la
	// operación de negocio que la originó.
	Publicar(ctx context.Context, e Evento) error

	// Suscribir abre una suscripción a todos los eventos.
	Suscribir(ctx context.Context) (*Suscripcion, error)
}
