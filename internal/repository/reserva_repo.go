package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/PisamaTech/PisamaApp-sub001/internal/agenda"
	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
	pkgerrors "github.com/PisamaTech/PisamaApp-sub001/pkg/errors"
)

// estadosOcupantes estados que bloquean una franja frente a nuevas reservas
var estadosOcupantes = []string{model.EstadoActiva, model.EstadoUtilizada}

// ReservaRepository acceso a datos de reservas.
//
// Las mutaciones de estado son escrituras condicionadas: el WHERE
// incluye el estado de partida y RowsAffected == 0 se reporta como
// ErrOptimisticLock, de modo que una guarda evaluada sobre datos viejos
// nunca produce una transición inválida.
type ReservaRepository interface {
	// CrearLote inserta todas las reservas en una única sentencia
	// multi-fila: se persisten todas o ninguna.
	CrearLote(ctx context.Context, reservas []model.Reserva) error
	GetByID(ctx context.Context, id string) (*model.Reserva, error)

	// BuscarOcupantesSala reservas ocupantes de una sala que solapan
	// alguna de las franjas (predicados de solapamiento combinados con OR).
	BuscarOcupantesSala(ctx context.Context, salaID string, franjas []agenda.Franja) ([]model.Reserva, error)
	// BuscarOcupantesCamilla ídem sobre la camilla compartida, a través
	// de todas las salas.
	BuscarOcupantesCamilla(ctx context.Context, franjas []agenda.Franja) ([]model.Reserva, error)

	Listar(ctx context.Context, desde, hasta time.Time, usuarioID, salaID string) ([]model.Reserva, error)
	// ListarOcupantesRango reservas ACTIVA/UTILIZADA con inicio dentro
	// del rango (insumo de la conciliación de accesos).
	ListarOcupantesRango(ctx context.Context, desde, hasta time.Time) ([]model.Reserva, error)
	ListarPorUsuarioDesde(ctx context.Context, usuarioID string, desde time.Time) ([]model.Reserva, error)

	Cancelar(ctx context.Context, id string) error
	Penalizar(ctx context.Context, id string, limite time.Time) error
	MarcarReprogramada(ctx context.Context, id string) error
	MarcarUtilizada(ctx context.Context, id string) error
	// CancelarSerieDesde cancela los miembros ACTIVA de la serie con
	// inicio >= desde. Devuelve cuántos canceló.
	CancelarSerieDesde(ctx context.Context, serieID string, desde time.Time) (int64, error)
}

type reservaRepo struct {
	db *gorm.DB
}

func NewReservaRepo(db *gorm.DB) ReservaRepository {
	return &reservaRepo{db: db}
}

func (r *reservaRepo) CrearLote(ctx context.Context, reservas []model.Reserva) error {
	if len(reservas) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&reservas).Error
}

func (r *reservaRepo) GetByID(ctx context.Context, id string) (*model.Reserva, error) {
	var reserva model.Reserva
	err := r.db.WithContext(ctx).
		Preload("Sala").
		Where("reserva_id = ?", id).
		First(&reserva).Error
	if err != nil {
		return nil, err
	}
	return &reserva, nil
}

// solapamiento arma el predicado OR de solapamiento semiabierto contra
// cada franja: existente.inicio < candidata.fin AND existente.fin > candidata.inicio.
func (r *reservaRepo) solapamiento(franjas []agenda.Franja) *gorm.DB {
	cond := r.db.Where("inicio < ? AND fin > ?", franjas[0].Fin, franjas[0].Inicio)
	for _, f := range franjas[1:] {
		cond = cond.Or("inicio < ? AND fin > ?", f.Fin, f.Inicio)
	}
	return cond
}

func (r *reservaRepo) BuscarOcupantesSala(ctx context.Context, salaID string, franjas []agenda.Franja) ([]model.Reserva, error) {
	if len(franjas) == 0 {
		return nil, nil
	}
	var reservas []model.Reserva
	err := r.db.WithContext(ctx).
		Preload("Sala").
		Where("sala_id = ? AND estado IN ?", salaID, estadosOcupantes).
		Where(r.solapamiento(franjas)).
		Order("inicio ASC").
		Find(&reservas).Error
	return reservas, err
}

func (r *reservaRepo) BuscarOcupantesCamilla(ctx context.Context, franjas []agenda.Franja) ([]model.Reserva, error) {
	if len(franjas) == 0 {
		return nil, nil
	}
	var reservas []model.Reserva
	err := r.db.WithContext(ctx).
		Preload("Sala").
		Where("usa_camilla = ? AND estado IN ?", true, estadosOcupantes).
		Where(r.solapamiento(franjas)).
		Order("inicio ASC").
		Find(&reservas).Error
	return reservas, err
}

func (r *reservaRepo) Listar(ctx context.Context, desde, hasta time.Time, usuarioID, salaID string) ([]model.Reserva, error) {
	q := r.db.WithContext(ctx).
		Preload("Sala").
		Preload("Usuario").
		Where("inicio >= ? AND inicio < ?", desde, hasta)
	if usuarioID != "" {
		q = q.Where("usuario_id = ?", usuarioID)
	}
	if salaID != "" {
		q = q.Where("sala_id = ?", salaID)
	}

	var reservas []model.Reserva
	err := q.Order("inicio ASC").Find(&reservas).Error
	return reservas, err
}

func (r *reservaRepo) ListarOcupantesRango(ctx context.Context, desde, hasta time.Time) ([]model.Reserva, error) {
	var reservas []model.Reserva
	err := r.db.WithContext(ctx).
		Where("estado IN ? AND inicio >= ? AND inicio < ?", estadosOcupantes, desde, hasta).
		Order("inicio ASC").
		Find(&reservas).Error
	return reservas, err
}

func (r *reservaRepo) ListarPorUsuarioDesde(ctx context.Context, usuarioID string, desde time.Time) ([]model.Reserva, error) {
	var reservas []model.Reserva
	err := r.db.WithContext(ctx).
		Preload("Sala").
		Where("usuario_id = ? AND estado IN ? AND inicio >= ?", usuarioID, estadosOcupantes, desde).
		Order("inicio ASC").
		Find(&reservas).Error
	return reservas, err
}

// actualizarCondicional escritura condicionada por estado de partida
func (r *reservaRepo) actualizarCondicional(ctx context.Context, id, estadoDesde string, cambios map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.Reserva{}).
		Where("reserva_id = ? AND estado = ?", id, estadoDesde).
		Updates(cambios)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *reservaRepo) Cancelar(ctx context.Context, id string) error {
	return r.actualizarCondicional(ctx, id, model.EstadoActiva, map[string]interface{}{
		"estado": model.EstadoCancelada,
	})
}

func (r *reservaRepo) Penalizar(ctx context.Context, id string, limite time.Time) error {
	return r.actualizarCondicional(ctx, id, model.EstadoActiva, map[string]interface{}{
		"estado":                model.EstadoPenalizada,
		"limite_reprogramacion": limite,
	})
}

func (r *reservaRepo) MarcarReprogramada(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Reserva{}).
		Where("reserva_id = ? AND estado = ? AND reprogramada = ?", id, model.EstadoPenalizada, false).
		Update("reprogramada", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *reservaRepo) MarcarUtilizada(ctx context.Context, id string) error {
	return r.actualizarCondicional(ctx, id, model.EstadoActiva, map[string]interface{}{
		"estado": model.EstadoUtilizada,
	})
}

func (r *reservaRepo) CancelarSerieDesde(ctx context.Context, serieID string, desde time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Reserva{}).
		Where("serie_id = ? AND estado = ? AND inicio >= ?", serieID, model.EstadoActiva, desde).
		Update("estado", model.EstadoCancelada)
	return result.RowsAffected, result.Error
}
