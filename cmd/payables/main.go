package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/payables/internal/clock"
	"github.com/smallbiznis/payables/internal/config"
	"github.com/smallbiznis/payables/internal/metricspush"
	"github.com/smallbiznis/payables/internal/migration"
	"github.com/smallbiznis/payables/internal/observability"
	"github.com/smallbiznis/payables/internal/scheduler"
	"github.com/smallbiznis/payables/internal/server"
	"github.com/smallbiznis/payables/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Schema and bootstrap admin run before any route is served.
		migration.Module,
		server.Module,

		scheduler.Module,
		metricspush.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
