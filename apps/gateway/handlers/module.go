package handlers

import (
	"go.uber.org/fx"

	"wispgate/apps/gateway/handlers/authapi"
	"wispgate/apps/gateway/handlers/clients"
	"wispgate/apps/gateway/handlers/invoices"
	"wispgate/apps/gateway/handlers/messages"
	"wispgate/apps/gateway/handlers/messaging"
	"wispgate/apps/gateway/handlers/middleware"
	"wispgate/apps/gateway/handlers/monitoring"
	"wispgate/apps/gateway/handlers/tickets"
)

var Module = fx.Options(
	middleware.Module,
	authapi.Module,
	clients.Module,
	invoices.Module,
	tickets.Module,
	messaging.Module,
	monitoring.Module,
	messages.Module,
)
