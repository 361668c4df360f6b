package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/opencommune/fiscalis/internal/config"
	"github.com/opencommune/fiscalis/internal/logger"
	"github.com/opencommune/fiscalis/internal/migration"
	"github.com/opencommune/fiscalis/internal/server"
	"github.com/opencommune/fiscalis/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
