package auth

import (
	"github.com/smallbiznis/payables/internal/auth/repository"
	"github.com/smallbiznis/payables/internal/auth/service"
	"github.com/smallbiznis/payables/internal/auth/token"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(token.NewIssuer),
	fx.Provide(service.New),
)
