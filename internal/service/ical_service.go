package service

import (
	"context"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
	"github.com/PisamaTech/PisamaApp-sub001/internal/repository"
)

// CalendarioService feed iCalendar con las próximas reservas del usuario,
// consumible por Google Calendar, Outlook o Apple Calendar.
type CalendarioService interface {
	CalendarioUsuario(ctx context.Context, usuarioID string) (string, error)
}

type calendarioService struct {
	repo   *repository.Repository
	logger *zap.Logger
	ahora  func() time.Time
}

// NewCalendarioService crea el CalendarioService
func NewCalendarioService(repo *repository.Repository, logger *zap.Logger) CalendarioService {
	return &calendarioService{
		repo:   repo,
		logger: logger,
		ahora:  func() time.Time { return time.Now().UTC() },
	}
}

// CalendarioUsuario serializa las reservas ocupantes desde hoy en un
// VCALENDAR. Un evento por reserva; la serie fija aparece como sus
// instancias ya expandidas, no como RRULE, para que una cancelación
// puntual se refleje sin reglas de excepción.
func (s *calendarioService) CalendarioUsuario(ctx context.Context, usuarioID string) (string, error) {
	hoy := s.ahora().Truncate(24 * time.Hour)
	reservas, err := s.repo.Reserva.ListarPorUsuarioDesde(ctx, usuarioID, hoy)
	if err != nil {
		s.logger.Error("lectura de reservas para calendario fallida",
			zap.String("usuario_id", usuarioID),
			zap.Error(err),
		)
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Pisama//Reservas//ES")
	cal.SetCalscale("GREGORIAN")

	for i := range reservas {
		r := &reservas[i]
		evt := cal.AddEvent(r.ReservaID + "@pisama")
		evt.SetDtStampTime(s.ahora())
		evt.SetStartAt(r.Inicio.UTC())
		evt.SetEndAt(r.Fin.UTC())
		evt.SetSummary(tituloEvento(r))
		if r.Sala != nil && r.Sala.Descripcion != "" {
			evt.SetDescription(r.Sala.Descripcion)
		}
		evt.SetLocation(nombreSala(r))
	}

	return cal.Serialize(), nil
}

func tituloEvento(r *model.Reserva) string {
	titulo := "Reserva " + nombreSala(r)
	if r.UsaCamilla {
		titulo += " (con camilla)"
	}
	return titulo
}
