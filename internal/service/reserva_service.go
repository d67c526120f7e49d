package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PisamaTech/PisamaApp-sub001/config"
	"github.com/PisamaTech/PisamaApp-sub001/internal/agenda"
	"github.com/PisamaTech/PisamaApp-sub001/internal/dto"
	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
	"github.com/PisamaTech/PisamaApp-sub001/internal/notify"
	"github.com/PisamaTech/PisamaApp-sub001/internal/repository"
	pkgerrors "github.com/PisamaTech/PisamaApp-sub001/pkg/errors"
)

// ── Errores de negocio del módulo de reservas ──

var (
	ErrReservaNoEncontrada = errors.New("la reserva no existe")
	ErrSalaNoEncontrada    = errors.New("la sala no existe")
	ErrReservaSinSerie     = errors.New("la reserva no pertenece a una serie fija")
	ErrSinPermiso          = errors.New("no tiene permiso sobre esta reserva")
)

// ConflictoError la verificación encontró reservas preexistentes que
// chocan con el lote candidato. Recuperable en la UI: el usuario ve las
// franjas ocupadas y ajusta.
type ConflictoError struct {
	Sala    []model.Reserva
	Camilla []model.Reserva
}

func (e *ConflictoError) Error() string {
	var b strings.Builder
	b.WriteString("horario no disponible")
	for _, r := range e.Sala {
		nombre := r.SalaID
		if r.Sala != nil {
			nombre = r.Sala.Nombre
		}
		fmt.Fprintf(&b, "; %s de %s a %s ocupada la sala %s",
			r.Inicio.UTC().Format("2006-01-02"),
			r.Inicio.UTC().Format("15:04"),
			r.Fin.UTC().Format("15:04"),
			nombre,
		)
	}
	for _, r := range e.Camilla {
		fmt.Fprintf(&b, "; %s de %s a %s ocupada la camilla",
			r.Inicio.UTC().Format("2006-01-02"),
			r.Inicio.UTC().Format("15:04"),
			r.Fin.UTC().Format("15:04"),
		)
	}
	return b.String()
}

// Detalles serializa las reservas en conflicto para la respuesta HTTP
func (e *ConflictoError) Detalles() dto.ConflictosResponse {
	return dto.ConflictosResponse{
		ConflictosSala:    aReservaResponses(e.Sala),
		ConflictosCamilla: aReservaResponses(e.Camilla),
	}
}

// ReservaService operaciones del ciclo de vida de reservas
type ReservaService interface {
	// VerificarConflictos ejecuta sólo la verificación, sin persistir.
	VerificarConflictos(ctx context.Context, req *dto.VerificarConflictosRequest) (*dto.ConflictosResponse, error)
	// Crear da de alta una reserva EVENTUAL, o una FIJA expandida a su
	// serie semanal. Devuelve *ConflictoError si la franja está tomada.
	Crear(ctx context.Context, req *dto.CrearReservaRequest, usuarioID string) (*dto.CrearReservaResponse, error)
	Listar(ctx context.Context, req *dto.ListarReservasRequest) ([]dto.ReservaResponse, error)
	Cancelar(ctx context.Context, id, actorID string, esAdmin bool) (*dto.ReservaResponse, error)
	CancelarSerie(ctx context.Context, id, actorID string, esAdmin bool) (*dto.CancelarSerieResponse, error)
	Reprogramar(ctx context.Context, id string, req *dto.ReprogramarRequest, actorID string, esAdmin bool) (*dto.CrearReservaResponse, error)
	MarcarUtilizada(ctx context.Context, id string) (*dto.ReservaResponse, error)
}

type reservaService struct {
	cfg    *config.ReservasConfig
	repo   *repository.Repository
	fuente notify.FuenteEventos
	logger *zap.Logger
	ahora  func() time.Time
}

// NewReservaService crea el ReservaService
func NewReservaService(cfg *config.ReservasConfig, repo *repository.Repository, fuente notify.FuenteEventos, logger *zap.Logger) ReservaService {
	return &reservaService{
		cfg:    cfg,
		repo:   repo,
		fuente: fuente,
		logger: logger,
		ahora:  func() time.Time { return time.Now().UTC() },
	}
}

// ────────────────────── Verificación de conflictos ──────────────────────

// verificarConflictos particiona las candidatas por sala y emite una
// consulta de solapamiento por sala más, si corresponde, una única
// consulta de camilla que abarca todo el lote. Las consultas corren en
// paralelo y el resultado se combina recién cuando terminaron todas.
//
// Si cualquier sub-consulta falla, la verificación completa falla
// cerrada: un resultado parcial jamás se interpreta como "sin conflicto".
func (s *reservaService) verificarConflictos(ctx context.Context, candidatas []agenda.Franja) ([]model.Reserva, []model.Reserva, error) {
	porSala := make(map[string][]agenda.Franja)
	var salas []string
	var conCamilla []agenda.Franja
	for _, f := range candidatas {
		if _, visto := porSala[f.SalaID]; !visto {
			salas = append(salas, f.SalaID)
		}
		porSala[f.SalaID] = append(porSala[f.SalaID], f)
		if f.UsaCamilla {
			conCamilla = append(conCamilla, f)
		}
	}

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		enSala      []model.Reserva
		enCamilla   []model.Reserva
		primerError error
	)

	for _, salaID := range salas {
		wg.Add(1)
		go func(salaID string, franjas []agenda.Franja) {
			defer wg.Done()
			encontradas, err := s.repo.Reserva.BuscarOcupantesSala(ctx, salaID, franjas)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if primerError == nil {
					primerError = err
				}
				return
			}
			enSala = append(enSala, encontradas...)
		}(salaID, porSala[salaID])
	}

	// La camilla es transversal: una sola consulta sobre todas las
	// candidatas que la usan, sin importar la sala.
	if len(conCamilla) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			encontradas, err := s.repo.Reserva.BuscarOcupantesCamilla(ctx, conCamilla)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if primerError == nil {
					primerError = err
				}
				return
			}
			enCamilla = append(enCamilla, encontradas...)
		}()
	}

	wg.Wait()

	if primerError != nil {
		return nil, nil, fmt.Errorf("verificación de conflictos abortada: %w", primerError)
	}

	// Listas disjuntas: un choque ya reportado por sala no se repite
	// como choque de camilla.
	vistos := make(map[string]bool, len(enSala))
	for _, r := range enSala {
		vistos[r.ReservaID] = true
	}
	disjuntas := enCamilla[:0]
	for _, r := range enCamilla {
		if !vistos[r.ReservaID] {
			disjuntas = append(disjuntas, r)
		}
	}
	enCamilla = disjuntas

	sort.Slice(enSala, func(i, j int) bool { return enSala[i].Inicio.Before(enSala[j].Inicio) })
	sort.Slice(enCamilla, func(i, j int) bool { return enCamilla[i].Inicio.Before(enCamilla[j].Inicio) })

	return enSala, enCamilla, nil
}

func (s *reservaService) VerificarConflictos(ctx context.Context, req *dto.VerificarConflictosRequest) (*dto.ConflictosResponse, error) {
	candidatas := make([]agenda.Franja, 0, len(req.Candidatas))
	for _, c := range req.Candidatas {
		f := franjaDesdeDTO(c)
		if err := f.Validar(); err != nil {
			return nil, err
		}
		candidatas = append(candidatas, f)
	}

	enSala, enCamilla, err := s.verificarConflictos(ctx, candidatas)
	if err != nil {
		s.logger.Error("verificación de conflictos fallida", zap.Error(err))
		return nil, err
	}

	return &dto.ConflictosResponse{
		ConflictosSala:    aReservaResponses(enSala),
		ConflictosCamilla: aReservaResponses(enCamilla),
	}, nil
}

// ────────────────────── Crear ──────────────────────

func (s *reservaService) Crear(ctx context.Context, req *dto.CrearReservaRequest, usuarioID string) (*dto.CrearReservaResponse, error) {
	base := franjaDesdeDTO(req.FranjaRequest)
	if err := base.Validar(); err != nil {
		return nil, err
	}

	if _, err := s.repo.Sala.GetByID(ctx, base.SalaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalaNoEncontrada
		}
		return nil, err
	}

	// Una FIJA se expande a toda la serie antes de verificar
	var candidatas []agenda.Franja
	var serieID *string
	var vence *time.Time
	if req.Tipo == model.TipoFija {
		serie := agenda.ExpandirSerie(base, s.cfg.HorizonteSerieMeses)
		candidatas = serie.Franjas
		serieID = &serie.SerieID
		vence = &serie.Vence
	} else {
		candidatas = []agenda.Franja{base}
	}

	enSala, enCamilla, err := s.verificarConflictos(ctx, candidatas)
	if err != nil {
		s.logger.Error("alta de reserva abortada por falla de verificación", zap.Error(err))
		return nil, err
	}
	if len(enSala) > 0 || len(enCamilla) > 0 {
		return nil, &ConflictoError{Sala: enSala, Camilla: enCamilla}
	}

	reservas := make([]model.Reserva, 0, len(candidatas))
	for _, f := range candidatas {
		reservas = append(reservas, model.Reserva{
			ReservaID:  uuid.New().String(),
			SalaID:     f.SalaID,
			UsaCamilla: f.UsaCamilla,
			Inicio:     f.Inicio,
			Fin:        f.Fin,
			Tipo:       req.Tipo,
			Estado:     model.EstadoActiva,
			UsuarioID:  usuarioID,
			SerieID:    serieID,
			VenceSerie: vence,
		})
	}

	// Inserción multi-fila: toda la serie o nada
	if err := s.repo.Reserva.CrearLote(ctx, reservas); err != nil {
		s.logger.Error("persistencia del lote de reservas fallida",
			zap.Int("cantidad", len(reservas)),
			zap.Error(err),
		)
		return nil, err
	}

	s.publicar(ctx, notify.Evento{
		Tipo:      notify.EventoReservaCreada,
		UsuarioID: usuarioID,
		ReservaID: reservas[0].ReservaID,
		Momento:   s.ahora(),
	})

	return &dto.CrearReservaResponse{
		Reservas: aReservaResponses(reservas),
		SerieID:  serieID,
	}, nil
}

// ────────────────────── Listar ──────────────────────

func (s *reservaService) Listar(ctx context.Context, req *dto.ListarReservasRequest) ([]dto.ReservaResponse, error) {
	reservas, err := s.repo.Reserva.Listar(ctx, req.Desde, req.Hasta, req.UsuarioID, req.SalaID)
	if err != nil {
		s.logger.Error("listado de reservas fallido", zap.Error(err))
		return nil, err
	}
	return aReservaResponses(reservas), nil
}

// ────────────────────── Cancelar ──────────────────────

// Cancelar transición individual. Una cancelación con menos anticipación
// que la política configurada no libera el cargo: la reserva pasa a
// PENALIZADA con un crédito de reprogramación acotado en el tiempo.
func (s *reservaService) Cancelar(ctx context.Context, id, actorID string, esAdmin bool) (*dto.ReservaResponse, error) {
	reserva, err := s.cargarConPermiso(ctx, id, actorID, esAdmin)
	if err != nil {
		return nil, err
	}

	if err := agenda.PuedeCancelar(reserva); err != nil {
		return nil, err
	}

	ahora := s.ahora()
	penalizada := reserva.Inicio.Sub(ahora) < time.Duration(s.cfg.HorasPenalizacion)*time.Hour

	if penalizada {
		limite := ahora.AddDate(0, 0, s.cfg.DiasCreditoReprogramar)
		if err := s.repo.Reserva.Penalizar(ctx, id, limite); err != nil {
			return nil, s.mapearEscritura(err)
		}
		reserva.Estado = model.EstadoPenalizada
		reserva.LimiteReprogramacion = &limite
		s.publicar(ctx, notify.Evento{
			Tipo:      notify.EventoReservaPenalizada,
			UsuarioID: reserva.UsuarioID,
			ReservaID: reserva.ReservaID,
			Momento:   ahora,
		})
	} else {
		if err := s.repo.Reserva.Cancelar(ctx, id); err != nil {
			return nil, s.mapearEscritura(err)
		}
		reserva.Estado = model.EstadoCancelada
		s.publicar(ctx, notify.Evento{
			Tipo:      notify.EventoReservaCancelada,
			UsuarioID: reserva.UsuarioID,
			ReservaID: reserva.ReservaID,
			Momento:   ahora,
		})
	}

	resp := aReservaResponse(reserva)
	return &resp, nil
}

// CancelarSerie cancela los miembros restantes de la serie: sólo los
// de inicio >= ahora; los ya ocurridos no se tocan.
func (s *reservaService) CancelarSerie(ctx context.Context, id, actorID string, esAdmin bool) (*dto.CancelarSerieResponse, error) {
	reserva, err := s.cargarConPermiso(ctx, id, actorID, esAdmin)
	if err != nil {
		return nil, err
	}
	if reserva.Tipo != model.TipoFija || reserva.SerieID == nil {
		return nil, ErrReservaSinSerie
	}

	ahora := s.ahora()
	canceladas, err := s.repo.Reserva.CancelarSerieDesde(ctx, *reserva.SerieID, ahora)
	if err != nil {
		s.logger.Error("cancelación de serie fallida",
			zap.String("serie_id", *reserva.SerieID),
			zap.Error(err),
		)
		return nil, err
	}

	s.publicar(ctx, notify.Evento{
		Tipo:      notify.EventoSerieCancelada,
		UsuarioID: reserva.UsuarioID,
		ReservaID: reserva.ReservaID,
		Momento:   ahora,
		Detalle:   fmt.Sprintf("%d reservas canceladas", canceladas),
	})

	return &dto.CancelarSerieResponse{Canceladas: canceladas}, nil
}

// ────────────────────── Reprogramar ──────────────────────

// Reprogramar consume el crédito de una reserva penalizada: marca la
// original como reprogramada (su estado sigue PENALIZADA para que
// facturación referencie el cargo) y crea el reemplazo por el camino
// normal de alta con verificación de conflictos.
func (s *reservaService) Reprogramar(ctx context.Context, id string, req *dto.ReprogramarRequest, actorID string, esAdmin bool) (*dto.CrearReservaResponse, error) {
	original, err := s.cargarConPermiso(ctx, id, actorID, esAdmin)
	if err != nil {
		return nil, err
	}

	if err := agenda.PuedeReprogramar(original, s.ahora()); err != nil {
		return nil, err
	}

	nueva := franjaDesdeDTO(req.FranjaRequest)
	if err := nueva.Validar(); err != nil {
		return nil, err
	}
	if _, err := s.repo.Sala.GetByID(ctx, nueva.SalaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalaNoEncontrada
		}
		return nil, err
	}

	enSala, enCamilla, err := s.verificarConflictos(ctx, []agenda.Franja{nueva})
	if err != nil {
		return nil, err
	}
	if len(enSala) > 0 || len(enCamilla) > 0 {
		return nil, &ConflictoError{Sala: enSala, Camilla: enCamilla}
	}

	// Consumir el crédito antes de insertar; la escritura condicionada
	// rechaza un segundo intento concurrente.
	if err := s.repo.Reserva.MarcarReprogramada(ctx, id); err != nil {
		return nil, s.mapearEscritura(err)
	}

	reemplazo := model.Reserva{
		ReservaID:  uuid.New().String(),
		SalaID:     nueva.SalaID,
		UsaCamilla: nueva.UsaCamilla,
		Inicio:     nueva.Inicio,
		Fin:        nueva.Fin,
		Tipo:       model.TipoEventual,
		Estado:     model.EstadoActiva,
		UsuarioID:  original.UsuarioID,
	}
	if err := s.repo.Reserva.CrearLote(ctx, []model.Reserva{reemplazo}); err != nil {
		s.logger.Error("inserción del reemplazo fallida tras consumir el crédito",
			zap.String("reserva_original", id),
			zap.Error(err),
		)
		return nil, err
	}

	s.publicar(ctx, notify.Evento{
		Tipo:      notify.EventoReservaCreada,
		UsuarioID: original.UsuarioID,
		ReservaID: reemplazo.ReservaID,
		Momento:   s.ahora(),
		Detalle:   "reprogramación de " + id,
	})

	return &dto.CrearReservaResponse{
		Reservas: aReservaResponses([]model.Reserva{reemplazo}),
	}, nil
}

// ────────────────────── Marcar utilizada ──────────────────────

func (s *reservaService) MarcarUtilizada(ctx context.Context, id string) (*dto.ReservaResponse, error) {
	reserva, err := s.repo.Reserva.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservaNoEncontrada
		}
		return nil, err
	}

	if err := agenda.PuedeMarcarUtilizada(reserva); err != nil {
		return nil, err
	}
	if err := s.repo.Reserva.MarcarUtilizada(ctx, id); err != nil {
		return nil, s.mapearEscritura(err)
	}

	reserva.Estado = model.EstadoUtilizada
	resp := aReservaResponse(reserva)
	return &resp, nil
}

// ────────────────────── Auxiliares ──────────────────────

func (s *reservaService) cargarConPermiso(ctx context.Context, id, actorID string, esAdmin bool) (*model.Reserva, error) {
	reserva, err := s.repo.Reserva.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservaNoEncontrada
		}
		s.logger.Error("lectura de reserva fallida", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !esAdmin && reserva.UsuarioID != actorID {
		return nil, ErrSinPermiso
	}
	return reserva, nil
}

// mapearEscritura una escritura condicionada sin filas afectadas
// significa que el estado cambió entre la guarda y la mutación: se
// reporta como precondición fallida, igual que una guarda.
func (s *reservaService) mapearEscritura(err error) error {
	if errors.Is(err, pkgerrors.ErrOptimisticLock) {
		return fmt.Errorf("%w: %w", agenda.ErrPrecondicion, err)
	}
	return err
}

func (s *reservaService) publicar(ctx context.Context, e notify.Evento) {
	if s.fuente == nil {
		return
	}
	if err := s.fuente.Publicar(ctx, e); err != nil {
		// Una notificación perdida no aborta la operación de negocio
		s.logger.Warn("publicación de evento fallida",
			zap.String("tipo", e.Tipo),
			zap.Error(err),
		)
	}
}

func franjaDesdeDTO(f dto.FranjaRequest) agenda.Franja {
	return agenda.Franja{
		SalaID:     f.SalaID,
		UsaCamilla: f.UsaCamilla,
		Inicio:     f.Inicio.UTC(),
		Fin:        f.Fin.UTC(),
	}
}

func aReservaResponse(r *model.Reserva) dto.ReservaResponse {
	resp := dto.ReservaResponse{
		ID:                   r.ReservaID,
		SalaID:               r.SalaID,
		UsaCamilla:           r.UsaCamilla,
		Inicio:               r.Inicio,
		Fin:                  r.Fin,
		Tipo:                 r.Tipo,
		Estado:               r.Estado,
		UsuarioID:            r.UsuarioID,
		SerieID:              r.SerieID,
		VenceSerie:           r.VenceSerie,
		LimiteReprogramacion: r.LimiteReprogramacion,
		Reprogramada:         r.Reprogramada,
	}
	if r.Sala != nil {
		resp.SalaNombre = r.Sala.Nombre
	}
	return resp
}

func aReservaResponses(reservas []model.Reserva) []dto.ReservaResponse {
	out := make([]dto.ReservaResponse, 0, len(reservas))
	for i := range reservas {
		out = append(out, aReservaResponse(&reservas[i]))
	}
	return out
}
