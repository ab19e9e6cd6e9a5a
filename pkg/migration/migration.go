package migration

import (
	"context"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wispgate/pkg/config"
	"wispgate/pkg/logger"
)

var Module = fx.Options(
	fx.Invoke(New),
)

type Params struct {
	fx.In
	Logger logger.Logger
	Config config.IConfig
}

// New runs pending migrations when a migration URL is configured. Without
// one the gateway keeps its in-memory user store and nothing needs a schema.
func New(p Params) {
	ctx := context.TODO()

	url := p.Config.GetString("database.migration")
	if url == "" {
		url = p.Config.GetString("database.dns")
	}
	if url == "" {
		p.Logger.Info(ctx, "migration: no database configured, skipping")
		return
	}

	m, err := migrate.New("file://migrations", url)
	if err != nil {
		p.Logger.Error(ctx, "err from migration.New", zap.Error(err))
		os.Exit(1)
		return
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		p.Logger.Error(ctx, "err from up migration", zap.Error(err))
		os.Exit(1)
		return
	}
}
