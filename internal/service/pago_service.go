package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PisamaTech/PisamaApp-sub001/internal/conciliacion"
	"github.com/PisamaTech/PisamaApp-sub001/internal/dto"
	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
	"github.com/PisamaTech/PisamaApp-sub001/internal/notify"
	"github.com/PisamaTech/PisamaApp-sub001/internal/repository"
)

// Errores de negocio del webhook de pagos; el handler los traduce a los
// códigos HTTP del contrato con finanzas.
var (
	ErrPagoUsuarioNoEncontrado = errors.New("ningún usuario registrado con ese email")
	ErrPagoNombreNoCoincide    = errors.New("el nombre del pago no coincide con el usuario del email")
)

// PagoService procesamiento idempotente de notificaciones de pago
type PagoService interface {
	ProcesarNotificacion(ctx context.Context, req *dto.PagoNotificacionRequest) (*dto.PagoNotificacionResponse, error)
}

type pagoService struct {
	repo   *repository.Repository
	fuente notify.FuenteEventos
	logger *zap.Logger
}

// NewPagoService crea el PagoService
func NewPagoService(repo *repository.Repository, fuente notify.FuenteEventos, logger *zap.Logger) PagoService {
	return &pagoService{repo: repo, fuente: fuente, logger: logger}
}

// ProcesarNotificacion aplica una notificación de pago exactamente una
// vez. TransactionID es la clave de idempotencia: el reintento de una
// notificación ya aplicada responde already_processed sin tocar nada.
func (s *pagoService) ProcesarNotificacion(ctx context.Context, req *dto.PagoNotificacionRequest) (*dto.PagoNotificacionResponse, error) {
	existente, err := s.repo.Pago.GetByTransactionID(ctx, req.TransactionID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("consulta de idempotencia fallida",
			zap.String("transaction_id", req.TransactionID),
			zap.Error(err),
		)
		return nil, err
	}
	if existente != nil {
		return &dto.PagoNotificacionResponse{
			Status:  dto.PagoEstadoAlreadyProcessed,
			Message: "la transacción ya fue registrada",
		}, nil
	}

	usuario, err := s.repo.Usuario.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPagoUsuarioNoEncontrado
		}
		s.logger.Error("búsqueda de usuario por email fallida", zap.Error(err))
		return nil, err
	}

	// Tolerante a variaciones de forma (mayúsculas, tildes, orden
	// parcial) pero no a personas distintas
	if !conciliacion.NombresCompatibles(req.FullName, usuario.NombreCompleto()) {
		return nil, ErrPagoNombreNoCoincide
	}

	pago := &model.Pago{
		TransactionID:  req.TransactionID,
		UsuarioID:      usuario.UsuarioID,
		Email:          req.Email,
		NombreCompleto: req.FullName,
		Monto:          req.Amount,
		FechaPago:      req.PaymentDate.UTC(),
		Nota:           req.Note,
	}
	if err := s.repo.Pago.Crear(ctx, pago); err != nil {
		// Carrera entre dos entregas simultáneas del mismo webhook: el
		// índice único la resuelve y el perdedor responde como duplicado
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &dto.PagoNotificacionResponse{
				Status:  dto.PagoEstadoAlreadyProcessed,
				Message: "la transacción ya fue registrada",
			}, nil
		}
		s.logger.Error("persistencia del pago fallida",
			zap.String("transaction_id", req.TransactionID),
			zap.Error(err),
		)
		return nil, err
	}

	if s.fuente != nil {
		e := notify.Evento{
			Tipo:      notify.EventoPagoRecibido,
			UsuarioID: usuario.UsuarioID,
			Momento:   pago.FechaPago,
			Detalle:   "pago " + req.TransactionID,
		}
		if err := s.fuente.Publicar(ctx, e); err != nil {
			s.logger.Warn("publicación de pago recibido fallida", zap.Error(err))
		}
	}

	s.logger.Info("pago registrado",
		zap.String("transaction_id", req.TransactionID),
		zap.String("usuario_id", usuario.UsuarioID),
		zap.Float64("monto", req.Amount),
	)

	return &dto.PagoNotificacionResponse{Status: dto.PagoEstadoSuccess}, nil
}
