package pkg

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/exam-portal/registration-service/internal/config"
)

// NewRedisClient builds a Redis client from the configured URL.
// The caller is responsible for pinging and closing the client.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}
