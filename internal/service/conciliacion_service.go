package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PisamaTech/PisamaApp-sub001/config"
	"github.com/PisamaTech/PisamaApp-sub001/internal/conciliacion"
	"github.com/PisamaTech/PisamaApp-sub001/internal/dto"
	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
	"github.com/PisamaTech/PisamaApp-sub001/internal/notify"
	"github.com/PisamaTech/PisamaApp-sub001/internal/repository"
)

// ErrRegistroNoEncontrado el registro de acceso no existe
var ErrRegistroNoEncontrado = errors.New("el registro de acceso no existe")

// ConciliacionService cruce del log de la cerradura física con la agenda
type ConciliacionService interface {
	// ConciliarLote clasifica y persiste un lote de registros. Es una
	// consulta de sólo lectura sobre la agenda: jamás muta reservas.
	ConciliarLote(ctx context.Context, req *dto.ConciliarLoteRequest) (*dto.ConciliarLoteResponse, error)
	ListarRegistros(ctx context.Context, desde, hasta time.Time) ([]model.RegistroAcceso, error)
	MarcarRevisado(ctx context.Context, id string) error
}

type conciliacionService struct {
	cfg        *config.ReservasConfig
	repo       *repository.Repository
	fuente     notify.FuenteEventos
	logger     *zap.Logger
	tolerancia time.Duration
}

// NewConciliacionService crea el ConciliacionService
func NewConciliacionService(cfg *config.ReservasConfig, repo *repository.Repository, fuente notify.FuenteEventos, logger *zap.Logger) ConciliacionService {
	tolerancia := cfg.ToleranciaAcceso
	if tolerancia <= 0 {
		tolerancia = conciliacion.ToleranciaPorDefecto
	}
	return &conciliacionService{
		cfg:        cfg,
		repo:       repo,
		fuente:     fuente,
		logger:     logger,
		tolerancia: tolerancia,
	}
}

func (s *conciliacionService) ConciliarLote(ctx context.Context, req *dto.ConciliarLoteRequest) (*dto.ConciliarLoteResponse, error) {
	if len(req.Registros) == 0 {
		return &dto.ConciliarLoteResponse{Resultados: []dto.ResultadoConciliacionResponse{}}, nil
	}

	// Sin el directorio completo no se puede clasificar nada: error duro
	directorio, err := s.repo.Usuario.Directorio(ctx)
	if err != nil {
		s.logger.Error("lectura del directorio de usuarios fallida", zap.Error(err))
		return nil, err
	}

	// Rango de agenda que cubre todo el lote: hacia atrás la duración del
	// bloque (un acceso vale hasta el final de una reserva ya empezada),
	// hacia adelante la tolerancia de ingreso anticipado.
	desde, hasta := rangoDelLote(req.Registros)
	reservas, err := s.repo.Reserva.ListarOcupantesRango(ctx, desde.Add(-time.Hour), hasta.Add(s.tolerancia+time.Hour))
	if err != nil {
		s.logger.Error("lectura de la agenda para conciliación fallida", zap.Error(err))
		return nil, err
	}

	resultados := make([]dto.ResultadoConciliacionResponse, 0, len(req.Registros))
	for _, entrada := range req.Registros {
		registro := model.RegistroAcceso{
			Momento:     entrada.Momento.UTC(),
			NombreCrudo: entrada.NombreCrudo,
			Contenido:   entrada.Contenido,
		}

		r := conciliacion.Clasificar(registro, directorio, reservas, s.tolerancia)
		registro.Resultado = r.Estado
		if r.Usuario != nil {
			registro.UsuarioID = &r.Usuario.UsuarioID
		}
		if r.Reserva != nil {
			registro.ReservaID = &r.Reserva.ReservaID
		}

		// La falla de un registro no tira abajo el resto del lote
		if err := s.repo.Acceso.Crear(ctx, &registro); err != nil {
			s.logger.Error("persistencia de registro de acceso fallida",
				zap.String("nombre_crudo", registro.NombreCrudo),
				zap.Time("momento", registro.Momento),
				zap.Error(err),
			)
		}

		if r.Estado == model.AccesoSinReserva && r.Usuario != nil {
			s.publicarSinReserva(ctx, r.Usuario, registro.Momento)
		}

		resultados = append(resultados, aResultadoResponse(registro, r))
	}

	return &dto.ConciliarLoteResponse{Resultados: resultados}, nil
}

func (s *conciliacionService) ListarRegistros(ctx context.Context, desde, hasta time.Time) ([]model.RegistroAcceso, error) {
	registros, err := s.repo.Acceso.ListarRango(ctx, desde, hasta)
	if err != nil {
		s.logger.Error("listado de registros de acceso fallido", zap.Error(err))
		return nil, err
	}
	return registros, nil
}

func (s *conciliacionService) MarcarRevisado(ctx context.Context, id string) error {
	if err := s.repo.Acceso.MarcarRevisado(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRegistroNoEncontrado
		}
		return err
	}
	return nil
}

func (s *conciliacionService) publicarSinReserva(ctx context.Context, u *model.Usuario, momento time.Time) {
	if s.fuente == nil {
		return
	}
	e := notify.Evento{
		Tipo:      notify.EventoAccesoSinReserva,
		UsuarioID: u.UsuarioID,
		Momento:   momento,
		Detalle:   u.NombreCompleto() + " accedió sin reserva vigente",
	}
	if err := s.fuente.Publicar(ctx, e); err != nil {
		s.logger.Warn("publicación de acceso sin reserva fallida",
			zap.String("usuario_id", u.UsuarioID),
			zap.Error(err),
		)
	}
}

func rangoDelLote(registros []dto.RegistroAccesoRequest) (time.Time, time.Time) {
	desde, hasta := registros[0].Momento.UTC(), registros[0].Momento.UTC()
	for _, r := range registros[1:] {
		m := r.Momento.UTC()
		if m.Before(desde) {
			desde = m
		}
		if m.After(hasta) {
			hasta = m
		}
	}
	return desde, hasta
}

func aResultadoResponse(registro model.RegistroAcceso, r conciliacion.Resultado) dto.ResultadoConciliacionResponse {
	resp := dto.ResultadoConciliacionResponse{
		Momento:     registro.Momento,
		NombreCrudo: registro.NombreCrudo,
		Estado:      r.Estado,
	}
	if r.Usuario != nil {
		resp.Usuario = &dto.UsuarioBrief{
			ID:       r.Usuario.UsuarioID,
			Nombre:   r.Usuario.Nombre,
			Apellido: r.Usuario.Apellido,
		}
	}
	if r.Reserva != nil {
		rr := aReservaResponse(r.Reserva)
		resp.Reserva = &rr
	}
	return resp
}
