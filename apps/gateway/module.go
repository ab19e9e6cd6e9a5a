package gateway

import (
	"go.uber.org/fx"

	"wispgate/apps/gateway/handlers"
)

var Module = fx.Options(
	handlers.Module,
)
