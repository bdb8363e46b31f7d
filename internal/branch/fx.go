package branch

import (
	"github.com/smallbiznis/payables/internal/branch/repository"
	"github.com/smallbiznis/payables/internal/branch/service"
	"go.uber.org/fx"
)

var Module = fx.Module("branch.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
