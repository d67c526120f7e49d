package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
)

// UsuarioRepository acceso a datos de usuarios
type UsuarioRepository interface {
	Crear(ctx context.Context, usuario *model.Usuario) error
	GetByID(ctx context.Context, id string) (*model.Usuario, error)
	GetByEmail(ctx context.Context, email string) (*model.Usuario, error)
	// Directorio devuelve la proyección de usuarios activos usada por
	// la conciliación de accesos.
	Directorio(ctx context.Context) ([]model.Usuario, error)
}

type usuarioRepo struct {
	db *gorm.DB
}

func NewUsuarioRepo(db *gorm.DB) UsuarioRepository {
	return &usuarioRepo{db: db}
}

func (r *usuarioRepo) Crear(ctx context.Context, usuario *model.Usuario) error {
	return r.db.WithContext(ctx).Create(usuario).Error
}

func (r *usuarioRepo) GetByID(ctx context.Context, id string) (*model.Usuario, error) {
	var usuario model.Usuario
	err := r.db.WithContext(ctx).
		Where("usuario_id = ?", id).
		First(&usuario).Error
	if err != nil {
		return nil, err
	}
	return &usuario, nil
}

func (r *usuarioRepo) GetByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	var usuario model.Usuario
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&usuario).Error
	if err != nil {
		return nil, err
	}
	return &usuario, nil
}

func (r *usuarioRepo) Directorio(ctx context.Context) ([]model.Usuario, error) {
	var usuarios []model.Usuario
	err := r.db.WithContext(ctx).
		Where("activo = ?", true).
		Order("apellido ASC, nombre ASC").
		Find(&usuarios).Error
	return usuarios, err
}
