package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PisamaTech/PisamaApp-sub001/internal/dto"
	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
	"github.com/PisamaTech/PisamaApp-sub001/internal/repository"
)

// ErrSalaNombreDuplicado ya existe una sala con ese nombre
var ErrSalaNombreDuplicado = errors.New("ya existe una sala con ese nombre")

// SalaService administración del catálogo de salas
type SalaService interface {
	Crear(ctx context.Context, req *dto.CrearSalaRequest) (*dto.SalaResponse, error)
	Listar(ctx context.Context) ([]dto.SalaResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SalaResponse, error)
	Actualizar(ctx context.Context, id string, req *dto.ActualizarSalaRequest) (*dto.SalaResponse, error)
}

type salaService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSalaService crea el SalaService
func NewSalaService(repo *repository.Repository, logger *zap.Logger) SalaService {
	return &salaService{repo: repo, logger: logger}
}

func (s *salaService) Crear(ctx context.Context, req *dto.CrearSalaRequest) (*dto.SalaResponse, error) {
	sala := &model.Sala{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Activa:      true,
	}
	if err := s.repo.Sala.Crear(ctx, sala); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSalaNombreDuplicado
		}
		s.logger.Error("alta de sala fallida", zap.Error(err))
		return nil, err
	}
	resp := aSalaResponse(sala)
	return &resp, nil
}

func (s *salaService) Listar(ctx context.Context) ([]dto.SalaResponse, error) {
	salas, err := s.repo.Sala.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SalaResponse, 0, len(salas))
	for i := range salas {
		out = append(out, aSalaResponse(&salas[i]))
	}
	return out, nil
}

func (s *salaService) GetByID(ctx context.Context, id string) (*dto.SalaResponse, error) {
	sala, err := s.repo.Sala.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalaNoEncontrada
		}
		return nil, err
	}
	resp := aSalaResponse(sala)
	return &resp, nil
}

func (s *salaService) Actualizar(ctx context.Context, id string, req *dto.ActualizarSalaRequest) (*dto.SalaResponse, error) {
	sala, err := s.repo.Sala.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalaNoEncontrada
		}
		return nil, err
	}

	if req.Nombre != nil {
		sala.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		sala.Descripcion = *req.Descripcion
	}
	if req.Activa != nil {
		sala.Activa = *req.Activa
	}

	if err := s.repo.Sala.Actualizar(ctx, sala); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSalaNombreDuplicado
		}
		s.logger.Error("actualización de sala fallida", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := aSalaResponse(sala)
	return &resp, nil
}

func aSalaResponse(s *model.Sala) dto.SalaResponse {
	return dto.SalaResponse{
		ID:          s.SalaID,
		Nombre:      s.Nombre,
		Descripcion: s.Descripcion,
		Activa:      s.Activa,
	}
}
