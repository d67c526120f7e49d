package service

import (
	"go.uber.org/zap"

	"github.com/PisamaTech/PisamaApp-sub001/config"
	"github.com/PisamaTech/PisamaApp-sub001/internal/notify"
	"github.com/PisamaTech/PisamaApp-sub001/internal/repository"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/jwt"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/redis"
)

// Service punto de entrada agregado de todos los servicios
type Service struct {
	Auth         AuthService
	Sala         SalaService
	Reserva      ReservaService
	Conciliacion ConciliacionService
	Pago         PagoService
	Export       ExportService
	Calendario   CalendarioService
}

// NewService crea el agregado de servicios.
// rdb puede ser nil (modo degradado sin Redis): la lista negra de tokens
// y el transporte de eventos Redis quedan deshabilitados.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtManager *jwt.Manager,
	rdb *redis.Client,
	fuente notify.FuenteEventos,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:         NewAuthService(repo, jwtManager, rdb, cfg.Auth.AccessTokenTTL, logger),
		Sala:         NewSalaService(repo, logger),
		Reserva:      NewReservaService(&cfg.Reservas, repo, fuente, logger),
		Conciliacion: NewConciliacionService(&cfg.Reservas, repo, fuente, logger),
		Pago:         NewPagoService(repo, fuente, logger),
		Export:       NewExportService(repo, logger),
		Calendario:   NewCalendarioService(repo, logger),
	}
}
