// Package agenda contiene la lógica pura del motor de reservas:
// solapamiento de intervalos, expansión de series semanales y guardas
// del ciclo de vida de una reserva. No tiene efectos secundarios ni
// dependencias de infraestructura.
package agenda

import (
	"errors"
	"fmt"
	"time"
)

// Errores de validación de franjas
var (
	ErrFranjaSinSala     = errors.New("la franja no indica sala")
	ErrFranjaNoHoraria   = errors.New("la franja debe durar exactamente una hora")
	ErrFranjaDesalineada = errors.New("la franja debe comenzar en una hora en punto")
)

// Franja un bloque candidato de una hora [Inicio, Fin) sobre una sala.
// Todos los instantes se comparan en UTC; nunca sobre strings de reloj
// de pared.
type Franja struct {
	SalaID     string
	UsaCamilla bool
	Inicio     time.Time
	Fin        time.Time
}

// Validar verifica los invariantes estructurales de la franja:
// sala presente, duración de exactamente una hora y comienzo alineado
// a la hora en punto.
func (f Franja) Validar() error {
	if f.SalaID == "" {
		return ErrFranjaSinSala
	}
	if f.Fin.Sub(f.Inicio) != time.Hour {
		return ErrFranjaNoHoraria
	}
	if !f.Inicio.Truncate(time.Hour).Equal(f.Inicio) {
		return ErrFranjaDesalineada
	}
	return nil
}

func (f Franja) String() string {
	return fmt.Sprintf("%s %s-%s sala=%s",
		f.Inicio.UTC().Format("2006-01-02"),
		f.Inicio.UTC().Format("15:04"),
		f.Fin.UTC().Format("15:04"),
		f.SalaID,
	)
}

// Solapan indica si dos intervalos semiabiertos [i1,f1) y [i2,f2) se
// intersectan. Los bordes que se tocan ([10,11) y [11,12)) no solapan.
func Solapan(i1, f1, i2, f2 time.Time) bool {
	return i1.Before(f2) && i2.Before(f1)
}

// EnConflicto indica si dos franjas compiten por el mismo recurso:
// solapan en el tiempo y además comparten sala, o ambas usan la camilla.
// La camilla es un recurso transversal independiente de la sala.
func EnConflicto(a, b Franja) bool {
	if !Solapan(a.Inicio, a.Fin, b.Inicio, b.Fin) {
		return false
	}
	if a.SalaID == b.SalaID {
		return true
	}
	return a.UsaCamilla && b.UsaCamilla
}
