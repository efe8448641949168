package scheduler

import (
	"context"

	"go.uber.org/fx"

	"github.com/roombox/roombox/internal/config"
)

var Module = fx.Module("scheduler",
	fx.Provide(func(cfg config.Config) Config {
		return Config{
			BatchSize:    cfg.SweepBatchSize,
			PollInterval: cfg.SweepPollInterval,
		}.withDefaults()
	}),
	fx.Provide(NewScheduler),
	fx.Invoke(runScheduler),
)

func runScheduler(lc fx.Lifecycle, s *Scheduler) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go s.RunForever(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
