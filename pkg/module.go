package pkg

import (
	"go.uber.org/fx"

	"wispgate/pkg/config"
	"wispgate/pkg/db"
	"wispgate/pkg/logger"
	"wispgate/pkg/migration"
	"wispgate/pkg/reply"
)

var Module = fx.Options(
	config.Module,
	logger.Module,
	db.Module,
	migration.Module,
	reply.Module,
)
