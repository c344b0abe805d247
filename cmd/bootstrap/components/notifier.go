package components

import (
	"context"
	"log/slog"

	"storefront-backend/internal/infra/pubsub"
	"storefront-backend/internal/notify"
	"storefront-backend/internal/pkg/clock"
	"storefront-backend/internal/pkg/config"
	"storefront-backend/internal/usecase/commands"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		fx.Annotate(
			NewOrderPublisher,
			fx.As(new(commands.OrderEventPublisher)),
		),
		NewOrderSubscriber,
		fx.Annotate(
			notify.NewLogAlerter,
			fx.As(new(notify.Alerter)),
		),
		NewNotifyEngine,
	),
	fx.Invoke(StartNotifier),
)

func NewOrderPublisher(client *redis.Client, cfg config.Config, logger *slog.Logger) *pubsub.OrderPublisher {
	return pubsub.NewOrderPublisher(client, cfg.Redis.OrderChannel, logger)
}

func NewOrderSubscriber(client *redis.Client, cfg config.Config, logger *slog.Logger) *pubsub.OrderSubscriber {
	return pubsub.NewOrderSubscriber(client, cfg.Redis.OrderChannel, logger)
}

func NewNotifyEngine(source notify.Source, alerter notify.Alerter, clk clock.Clock, cfg config.Config, logger *slog.Logger) *notify.Engine {
	return notify.NewEngine(source, alerter, clk, cfg.Notify, logger)
}

// StartNotifier runs the subscriber and the engine for the life of the app.
// Both share one context so poll and push tear down together.
func StartNotifier(lc fx.Lifecycle, engine *notify.Engine, subscriber *pubsub.OrderSubscriber) {
	var cancel context.CancelFunc
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			runCtx, cancelRun := context.WithCancel(context.Background())
			cancel = cancelRun

			go subscriber.Run(runCtx)
			go func() {
				defer close(done)
				engine.Run(runCtx, subscriber.Events())
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			select {
			case <-done:
			case <-ctx.Done():
			}
			return nil
		},
	})
}
