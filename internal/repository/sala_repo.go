package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
)

// SalaRepository acceso a datos de salas
type SalaRepository interface {
	Crear(ctx context.Context, sala *model.Sala) error
	GetByID(ctx context.Context, id string) (*model.Sala, error)
	Listar(ctx context.Context) ([]model.Sala, error)
	Actualizar(ctx context.Context, sala *model.Sala) error
}

type salaRepo struct {
	db *gorm.DB
}

func NewSalaRepo(db *gorm.DB) SalaRepository {
	return &salaRepo{db: db}
}

func (r *salaRepo) Crear(ctx context.Context, sala *model.Sala) error {
	return r.db.WithContext(ctx).Create(sala).Error
}

func (r *salaRepo) GetByID(ctx context.Context, id string) (*model.Sala, error) {
	var sala model.Sala
	err := r.db.WithContext(ctx).
		Where("sala_id = ?", id).
		First(&sala).Error
	if err != nil {
		return nil, err
	}
	return &sala, nil
}

func (r *salaRepo) Listar(ctx context.Context) ([]model.Sala, error) {
	var salas []model.Sala
	err := r.db.WithContext(ctx).
		Order("nombre ASC").
		Find(&salas).Error
	return salas, err
}

func (r *salaRepo) Actualizar(ctx context.Context, sala *model.Sala) error {
	return r.db.WithContext(ctx).Save(sala).Error
}
