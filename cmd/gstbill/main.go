package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/vyapari/gstbill/internal/config"
	"github.com/vyapari/gstbill/internal/migration"
	"github.com/vyapari/gstbill/internal/observability"
	"github.com/vyapari/gstbill/internal/seed"
	"github.com/vyapari/gstbill/internal/server"
	"github.com/vyapari/gstbill/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		seed.Module,
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
