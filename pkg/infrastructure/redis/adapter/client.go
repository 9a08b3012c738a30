package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClientConfig descreve a conexão com o Redis compartilhada entre sessões e eventos.
type ClientConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient cria o cliente e verifica a conexão com um ping curto.
func NewRedisClient(ctx context.Context, cfg ClientConfig) (redis.UniversalClient, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}
