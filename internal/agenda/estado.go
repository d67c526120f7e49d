package agenda

import (
	"errors"
	"fmt"
	"time"

	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
)

// Errores de precondición del ciclo de vida. Una transición intentada
// fuera de su guarda falla con uno de estos errores y no muta nada.
var (
	ErrReservaNoActiva     = errors.New("la reserva no está activa")
	ErrReservaNoPenalizada = errors.New("la reserva no está penalizada")
	ErrYaReprogramada      = errors.New("la reserva ya fue reprogramada una vez")
	ErrPlazoVencido        = errors.New("venció el plazo para reprogramar")
)

// ErrPrecondicion error raíz de todas las guardas, para que los
// llamadores puedan clasificar con errors.Is sin enumerar cada caso.
var ErrPrecondicion = errors.New("precondición de estado no cumplida")

func precondicion(err error) error {
	return fmt.Errorf("%w: %w", ErrPrecondicion, err)
}

// ── Guardas de transición ──
//
// Se evalúan en la capa de lectura (para decidir qué acciones ofrecer)
// y se vuelven a imponer en el punto de mutación, porque la UI puede
// operar sobre estado viejo.

// PuedeCancelar guarda de ACTIVA → CANCELADA (individual)
func PuedeCancelar(r *model.Reserva) error {
	if r.Estado != model.EstadoActiva {
		return precondicion(ErrReservaNoActiva)
	}
	return nil
}

// PuedeReprogramar guarda de PENALIZADA → reprogramada: una sola vez y
// antes del límite. La reserva original conserva su estado PENALIZADA
// para que facturación siga referenciando el cargo.
func PuedeReprogramar(r *model.Reserva, ahora time.Time) error {
	if r.Estado != model.EstadoPenalizada {
		return precondicion(ErrReservaNoPenalizada)
	}
	if r.Reprogramada {
		return precondicion(ErrYaReprogramada)
	}
	if r.LimiteReprogramacion == nil || !ahora.Before(*r.LimiteReprogramacion) {
		return precondicion(ErrPlazoVencido)
	}
	return nil
}

// PuedeMarcarUtilizada guarda de ACTIVA → UTILIZADA (confirmación de
// uso tras la conciliación de accesos)
func PuedeMarcarUtilizada(r *model.Reserva) error {
	if r.Estado != model.EstadoActiva {
		return precondicion(ErrReservaNoActiva)
	}
	return nil
}
