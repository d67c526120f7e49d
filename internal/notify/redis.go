package notify

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/PisamaTech/PisamaApp-sub001/pkg/redis"
)

const canalEventos = "pisama:eventos"

// FuenteRedis implementación de FuenteEventos sobre Redis pub/sub
type FuenteRedis struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NuevaFuenteRedis crea la fuente de eventos respaldada por Redis
func NuevaFuenteRedis(rdb *redis.Client, logger *zap.Logger) *FuenteRedis {
	return &FuenteRedis{rdb: rdb, logger: logger}
}

// Publicar serializa el evento y lo publica en el canal de la aplicación
func (f *FuenteRedis) Publicar(ctx context.Context, e Evento) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return f.rdb.Publish(ctx, canalEventos, payload)
}

// Suscribir abre una suscripción Redis y bombea los mensajes decodificados
// hacia el canal de la Suscripcion hasta que se cierre.
func (f *FuenteRedis) Suscribir(ctx context.Context) (*Suscripcion, error) {
	ps := f.rdb.Subscribe(ctx, canalEventos)

	// Forzar el handshake de suscripción antes de devolver el objeto
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, err
	}

	out := make(chan Evento, 16)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			var e Evento
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				f.logger.Warn("evento con payload inválido descartado", zap.Error(err))
				continue
			}
			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
	}()

	return &Suscripcion{
		C:      out,
		cerrar: ps.Close,
	}, nil
}
