package bootstrap

import (
	"context"

	"stayhub/internal/pkg/config"
	"stayhub/internal/sweeper"
	"stayhub/internal/usecase/commands"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Provide(
		NewSweeper,
	),
	fx.Invoke(registerSweeper),
)

func NewSweeper(cfg config.Config, completion commands.CompletionCommands) *sweeper.Sweeper {
	return sweeper.New(completion, cfg.Sweeper.Interval)
}

func registerSweeper(lc fx.Lifecycle, s *sweeper.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			s.Stop()
			return nil
		},
	})
}
