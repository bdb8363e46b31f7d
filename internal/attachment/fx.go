package attachment

import "go.uber.org/fx"

var Module = fx.Module("attachment",
	fx.Provide(NewLocalStore),
	fx.Provide(func(s *LocalStore) Store { return s }),
	fx.Provide(NewService),
)
