package internal

import (
	"go.uber.org/fx"

	"wispgate/internal/ai"
	"wispgate/internal/auth"
	"wispgate/internal/crm"
	"wispgate/internal/workflow"
)

var Module = fx.Options(
	crm.Module,
	ai.Module,
	workflow.Module,
	auth.Module,
)
