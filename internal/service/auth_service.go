package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/PisamaTech/PisamaApp-sub001/internal/dto"
	"github.com/PisamaTech/PisamaApp-sub001/internal/model"
	"github.com/PisamaTech/PisamaApp-sub001/internal/repository"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/jwt"
	"github.com/PisamaTech/PisamaApp-sub001/pkg/redis"
)

// ── Errores de negocio del módulo de autenticación ──

var (
	ErrCredencialesInvalidas = errors.New("email o contraseña incorrectos")
	ErrUsuarioInactivo       = errors.New("la cuenta está desactivada")
	ErrUsuarioNoEncontrado   = errors.New("el usuario no existe")
	ErrEmailYaRegistrado     = errors.New("el email ya está registrado")
	ErrRefreshInvalido       = errors.New("refresh token inválido")
)

// AuthService autenticación y gestión de sesión
type AuthService interface {
	Registrar(ctx context.Context, req *dto.RegistrarRequest) (*dto.UsuarioResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout revoca el token presentado agregando su jti a la lista negra
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, usuarioID string) (*dto.UsuarioResponse, error)
}

type authService struct {
	repo       *repository.Repository
	jwtManager *jwt.Manager
	rdb        *redis.Client
	logger     *zap.Logger
	accessTTL  time.Duration
}

// NewAuthService crea el AuthService
func NewAuthService(repo *repository.Repository, jwtManager *jwt.Manager, rdb *redis.Client, accessTTL time.Duration, logger *zap.Logger) AuthService {
	return &authService{
		repo:       repo,
		jwtManager: jwtManager,
		rdb:        rdb,
		logger:     logger,
		accessTTL:  accessTTL,
	}
}

func (s *authService) Registrar(ctx context.Context, req *dto.RegistrarRequest) (*dto.UsuarioResponse, error) {
	if _, err := s.repo.Usuario.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailYaRegistrado
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	usuario := &model.Usuario{
		Nombre:              req.Nombre,
		Apellido:            req.Apellido,
		Email:               req.Email,
		PasswordHash:        string(hash),
		Rol:                 "socio",
		NombreSistemaAcceso: req.NombreSistemaAcceso,
		Activo:              true,
	}
	if err := s.repo.Usuario.Crear(ctx, usuario); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailYaRegistrado
		}
		s.logger.Error("alta de usuario fallida", zap.Error(err))
		return nil, err
	}

	s.logger.Info("usuario registrado", zap.String("usuario_id", usuario.UsuarioID))
	resp := aUsuarioResponse(usuario)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	usuario, err := s.repo.Usuario.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredencialesInvalidas
		}
		return nil, err
	}
	if !usuario.Activo {
		return nil, ErrUsuarioInactivo
	}
	if bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrCredencialesInvalidas
	}

	return s.emitirTokens(usuario)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtManager.ParseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrRefreshInvalido
	}

	if s.rdb != nil {
		revocado, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("consulta de lista negra fallida", zap.Error(err))
		} else if revocado {
			return nil, ErrRefreshInvalido
		}
	}

	usuario, err := s.repo.Usuario.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshInvalido
		}
		return nil, err
	}
	if !usuario.Activo {
		return nil, ErrUsuarioInactivo
	}

	return s.emitirTokens(usuario)
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.rdb == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("revocación de token fallida", zap.String("jti", claims.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) Me(ctx context.Context, usuarioID string) (*dto.UsuarioResponse, error) {
	usuario, err := s.repo.Usuario.GetByID(ctx, usuarioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUsuarioNoEncontrado
		}
		return nil, err
	}
	resp := aUsuarioResponse(usuario)
	return &resp, nil
}

func (s *authService) emitirTokens(usuario *model.Usuario) (*dto.TokenResponse, error) {
	access, err := s.jwtManager.GenerateAccessToken(usuario.UsuarioID, usuario.Rol)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(usuario.UsuarioID, usuario.Rol)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func aUsuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:                  u.UsuarioID,
		Nombre:              u.Nombre,
		Apellido:            u.Apellido,
		Email:               u.Email,
		Rol:                 u.Rol,
		NombreSistemaAcceso: u.NombreSistemaAcceso,
	}
}
