package bootstrap

import (
	"context"
	"log/slog"

	"stayhub/internal/infra/notify"
	"stayhub/internal/pkg/config"
	"stayhub/internal/usecase/commands"

	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		NewTransitionNotifier,
	),
)

func NewTransitionNotifier(lc fx.Lifecycle, cfg config.Config) (commands.TransitionNotifier, error) {
	if !cfg.Kafka.Enabled {
		slog.Info("transition events disabled, using nop notifier")
		return notify.NopNotifier{}, nil
	}

	notifier, err := notify.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic, nil)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return notifier.Close()
		},
	})

	return notifier, nil
}
