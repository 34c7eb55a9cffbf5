package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/tavolohq/tavolo/internal/clock"
	"github.com/tavolohq/tavolo/internal/config"
	"github.com/tavolohq/tavolo/internal/logger"
	"github.com/tavolohq/tavolo/internal/migration"
	"github.com/tavolohq/tavolo/internal/server"
	"github.com/tavolohq/tavolo/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains (server.Module pulls in inventory and audit)
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
