package bootstrap

import (
	"context"
	"log/slog"

	"storefront-backend/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedisClient,
	),
)

func NewRedisClient(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// The push channel is an optimization over the notification
			// poll, so an unreachable Redis must not block startup.
			if err := client.Ping(ctx).Err(); err != nil {
				slog.Warn("redis unreachable at startup, notifications fall back to polling", "error", err)
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client
}
