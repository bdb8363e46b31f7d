package migration

import (
	"context"

	"github.com/smallbiznis/payables/internal/config"
	"github.com/smallbiznis/payables/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, seeder *seed.Seeder) error {
		if err := Migrate(conn, cfg.DBType); err != nil {
			return err
		}
		_, err := seeder.EnsureAdmin(context.Background(), cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword)
		return err
	}),
)
