package ratelimit

import "go.uber.org/fx"

var Module = fx.Module("rate.limit",
	fx.Provide(NewClient),
	fx.Provide(provideTokenBucket),
	fx.Provide(provideLocker),
	fx.Provide(NewLoginLimiter),
)
