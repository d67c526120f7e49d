package agenda

import (
	"time"

	"github.com/google/uuid"
)

// HorizonteMesesPorDefecto horizonte de expansión de una serie fija.
// La descripción comercial del producto habla de 6 meses, pero la
// política implementada siempre fue de 2; se mantiene en 2 y queda
// configurable (ver DESIGN.md).
const HorizonteMesesPorDefecto = 2

// Serie resultado de expandir una franja base de tipo FIJA: el conjunto
// de instancias semanales que comparten identificador y vencimiento.
type Serie struct {
	SerieID string
	Vence   time.Time
	Franjas []Franja
}

// ExpandirSerie genera las instancias semanales de una serie fija a
// partir de la franja base, que siempre es el primer elemento.
//
// El vencimiento se calcula una única vez desde la base
// (base.Inicio + meses) y es exclusivo: una instancia cuyo inicio cae
// exactamente en el vencimiento no se incluye.
func ExpandirSerie(base Franja, meses int) Serie {
	if meses <= 0 {
		meses = HorizonteMesesPorDefecto
	}

	vence := base.Inicio.AddDate(0, meses, 0)

	s := Serie{
		SerieID: uuid.New().String(),
		Vence:   vence,
	}

	inicio, fin := base.Inicio, base.Fin
	for inicio.Before(vence) {
		s.Franjas = append(s.Franjas, Franja{
			SalaID:     base.SalaID,
			UsaCamilla: base.UsaCamilla,
			Inicio:     inicio,
			Fin:        fin,
		})
		inicio = inicio.AddDate(0, 0, 7)
		fin = fin.AddDate(0, 0, 7)
	}

	return s
}
