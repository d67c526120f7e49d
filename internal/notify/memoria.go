package notify

import (
	"context"
	"sync"
)

// FuenteMemoria implementación en proceso de FuenteEventos, usada en
// tests y como degradación cuando Redis no está disponible.
type FuenteMemoria struct {
	mu       sync.Mutex
	subs     map[int]chan Evento
	sig      int
	historia []Evento
}

// NuevaFuenteMemoria crea la fuente de eventos en memoria
func NuevaFuenteMemoria() *FuenteMemoria {
	return &FuenteMemoria{subs: make(map[int]chan Evento)}
}

// Publicar entrega el evento a todas las suscripciones abiertas.
// Un suscriptor lento no bloquea: si su buffer está lleno el evento
// se descarta para ese suscriptor.
func (f *FuenteMemoria) Publicar(_ context.Context, e Evento) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.historia = append(f.historia, e)
	for _, ch := range f.subs {
		select {
		case ch <- e:
		default:
		}
	}
	return nil
}

// Suscribir abre una suscripción en memoria
func (f *FuenteMemoria) Suscribir(_ context.Context) (*Suscripcion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.sig
	f.sig++
	ch := make(chan Evento, 16)
	f.subs[id] = ch

	return &Suscripcion{
		C: ch,
		cerrar: func() error {
			f.mu.Lock()
			defer f.mu.Unlock()
			if c, ok := f.subs[id]; ok {
				delete(f.subs, id)
				close(c)
			}
			return nil
		},
	}, nil
}

// Publicados devuelve una copia de los eventos publicados hasta ahora
// (inspección en tests).
func (f *FuenteMemoria) Publicados() []Evento {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Evento, len(f.historia))
	copy(out, f.historia)
	return out
}
