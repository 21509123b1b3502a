// Package cache implementa el caché de resúmenes sobre Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/grocery-ims/internal/application/analytics"
	"github.com/jhoicas/grocery-ims/pkg/config"
)

// Verificación en compile-time de que RedisCache implementa analytics.SummaryCache
var _ analytics.SummaryCache = (*RedisCache)(nil)

// RedisCache adapta un cliente Redis al puerto de caché de analítica.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache abre la conexión y verifica que Redis responda.
func NewRedisCache(ctx context.Context, cfg config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a redis: %w", err)
	}
	return &RedisCache{client: client}, nil
}

// Get devuelve (nil, nil) cuando la clave no existe.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer clave %s: %w", key, err)
	}
	return val, nil
}

// Set guarda el valor con el TTL indicado.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("escribir clave %s: %w", key, err)
	}
	return nil
}

// Close cierra la conexión subyacente.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
