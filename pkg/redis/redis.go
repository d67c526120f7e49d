package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/PisamaTech/PisamaApp-sub001/config"
)

// Client envoltorio del cliente Redis.
// Usado para la lista negra de tokens y como transporte pub/sub del
// canal de eventos de la aplicación (ver internal/notify).
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient crea la conexión a Redis y ejecuta un Ping de verificación
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("error conectando a Redis: %w", err)
	}

	logger.Info("conexión a Redis establecida", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── Lista negra de tokens ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken agrega un JWT ID a la lista negra con TTL igual al
// tiempo de vida restante del token
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // token ya expirado, no hace falta
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted verifica si un JWT ID está en la lista negra
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── Limitación de tasa ──

// CheckRateLimit contador de ventana fija por clave. Devuelve false
// cuando la clave superó limit dentro de la ventana vigente.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// ── Pub/Sub ──

// Publish publica un mensaje en un canal
func (c *Client) Publish(ctx context.Context, canal string, payload []byte) error {
	return c.rdb.Publish(ctx, canal, payload).Err()
}

// Subscribe abre una suscripción a uno o más canales.
// El llamador es responsable de cerrar el *goredis.PubSub devuelto.
func (c *Client) Subscribe(ctx context.Context, canales ...string) *goredis.PubSub {
	return c.rdb.Subscribe(ctx, canales...)
}

// Close cierra la conexión a Redis
func (c *Client) Close() error {
	return c.rdb.Close()
}
