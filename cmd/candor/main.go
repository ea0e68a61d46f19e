package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/candorhq/candor/internal/clock"
	"github.com/candorhq/candor/internal/config"
	"github.com/candorhq/candor/internal/logger"
	"github.com/candorhq/candor/internal/migration"
	"github.com/candorhq/candor/internal/server"
	"github.com/candorhq/candor/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
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
