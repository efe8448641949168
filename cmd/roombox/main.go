package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/roombox/roombox/internal/clock"
	"github.com/roombox/roombox/internal/config"
	"github.com/roombox/roombox/internal/events"
	"github.com/roombox/roombox/internal/guest"
	"github.com/roombox/roombox/internal/ledger"
	"github.com/roombox/roombox/internal/logger"
	"github.com/roombox/roombox/internal/migration"
	"github.com/roombox/roombox/internal/notification"
	"github.com/roombox/roombox/internal/scheduler"
	"github.com/roombox/roombox/internal/seed"
	"github.com/roombox/roombox/internal/server"
	"github.com/roombox/roombox/pkg/db"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		fx.Invoke(func(conn *gorm.DB, genID *snowflake.Node) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			return seed.EnsureDefaultProperty(conn, genID)
		}),

		events.Module,
		notification.Module,
		ledger.Module,
		guest.Module,
		scheduler.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
