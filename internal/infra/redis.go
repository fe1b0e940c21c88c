package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis cria e valida um cliente go-redis.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Valida conectividade na subida
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
