package metricspush

import (
	"context"
	"time"

	"github.com/smallbiznis/payables/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("metrics.push",
	fx.Provide(NewPusher),
	fx.Provide(NewPortfolio),
	fx.Invoke(RegisterLifecycle),
)

// RegisterLifecycle starts the push loop when a pusher is configured: one
// push right after start, then one per METRICS_PUSH_INTERVAL.
func RegisterLifecycle(lc fx.Lifecycle, cfg config.Config, p *Portfolio, log *zap.Logger) {
	if !p.Enabled() {
		return
	}
	interval := cfg.MetricsPushInterval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	log = log.Named("metrics.push")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("starting metrics push", zap.String("exporter", cfg.MetricsPushExporter), zap.Duration("interval", interval))
			go func() {
				defer close(done)
				ticker := time.NewTicker(interval)
				defer ticker.Stop()

				if err := p.Push(ctx); err != nil {
					log.Error("initial metrics push failed", zap.Error(err))
				}
				for {
					select {
					case <-ticker.C:
						if err := p.Push(ctx); err != nil {
							log.Error("periodic metrics push failed", zap.Error(err))
						}
					case <-ctx.Done():
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
