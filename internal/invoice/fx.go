package invoice

import (
	"github.com/smallbiznis/payables/internal/config"
	"github.com/smallbiznis/payables/internal/invoice/domain"
	"github.com/smallbiznis/payables/internal/invoice/repository"
	"github.com/smallbiznis/payables/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(func(cfg config.Config) domain.TransitionPolicy {
		return domain.NewTransitionPolicy(cfg.StrictStatusTransitions)
	}),
	fx.Provide(service.New),
)
