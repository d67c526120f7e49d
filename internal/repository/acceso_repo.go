package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
)

// AccesoRepository acceso a datos de registros de la cerradura física
type AccesoRepository interface {
	// Crear persiste un registro individual. La conciliación tolera la
	// falla de un registro sin abortar el resto del lote, por eso no
	// hay inserción multi-fila acá.
	Crear(ctx context.Context, registro *model.RegistroAcceso) error
	ListarRango(ctx context.Context, desde, hasta time.Time) ([]model.RegistroAcceso, error)
	MarcarRevisado(ctx context.Context, id string) error
}

type accesoRepo struct {
	db *gorm.DB
}

func NewAccesoRepo(db *gorm.DB) AccesoRepository {
	return &accesoRepo{db: db}
}

func (r *accesoRepo) Crear(ctx context.Context, registro *model.RegistroAcceso) error {
	return r.db.WithContext(ctx).Create(registro).Error
}

func (r *accesoRepo) ListarRango(ctx context.Context, desde, hasta time.Time) ([]model.RegistroAcceso, error) {
	var registros []model.RegistroAcceso
	err := r.db.WithContext(ctx).
		Where("momento >= ? AND momento < ?", desde, hasta).
		Order("momento ASC").
		Find(&registros).Error
	return registros, err
}

func (r *accesoRepo) MarcarRevisado(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.RegistroAcceso{}).
		Where("registro_id = ?", id).
		Update("revisado", true).Error
}
