package main

import (
	"github.com/claytondb/salestaxjar-sub000/internal/alert"
	"github.com/claytondb/salestaxjar-sub000/internal/clock"
	"github.com/claytondb/salestaxjar-sub000/internal/config"
	"github.com/claytondb/salestaxjar-sub000/internal/exposure"
	"github.com/claytondb/salestaxjar-sub000/internal/migration"
	"github.com/claytondb/salestaxjar-sub000/internal/nexus"
	"github.com/claytondb/salestaxjar-sub000/internal/notification"
	"github.com/claytondb/salestaxjar-sub000/internal/observability"
	"github.com/claytondb/salestaxjar-sub000/internal/providers/email"
	"github.com/claytondb/salestaxjar-sub000/internal/scheduler"
	"github.com/claytondb/salestaxjar-sub000/internal/server"
	"github.com/claytondb/salestaxjar-sub000/internal/summary"
	"github.com/claytondb/salestaxjar-sub000/internal/threshold"
	"github.com/claytondb/salestaxjar-sub000/internal/transaction"
	"github.com/claytondb/salestaxjar-sub000/internal/user"
	"github.com/claytondb/salestaxjar-sub000/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Domain modules
		threshold.Module,
		transaction.Module,
		summary.Module,
		exposure.Module,
		alert.Module,
		user.Module,
		email.Module,
		notification.Module,
		nexus.Module,

		// Surfaces
		scheduler.Module,
		server.Module,
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
