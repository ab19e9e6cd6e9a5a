package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wispgate/apps/gateway/handlers/authapi"
	"wispgate/apps/gateway/handlers/clients"
	"wispgate/apps/gateway/handlers/invoices"
	"wispgate/apps/gateway/handlers/messages"
	"wispgate/apps/gateway/handlers/messaging"
	"wispgate/apps/gateway/handlers/middleware"
	"wispgate/apps/gateway/handlers/monitoring"
	"wispgate/apps/gateway/handlers/tickets"
	"wispgate/pkg/config"
	"wispgate/pkg/logger"
	"wispgate/pkg/reply"
)

var Module = fx.Options(
	fx.Invoke(
		NewRouter,
	),
)

type Params struct {
	fx.In

	middleware.Middleware
	Lifecycle  fx.Lifecycle
	Config     config.IConfig
	Logger     logger.Logger
	Auth       authapi.Handler
	Clients    clients.Handler
	Invoices   invoices.Handler
	Tickets    tickets.Handler
	Messaging  messaging.Handler
	Monitoring monitoring.Handler
	Messages   messages.Handler
}

func NewRouter(params Params) {
	r := gin.New()
	r.Use(params.Ctx(), params.Recovery())

	r.GET("/health", func(c *gin.Context) {
		reply.Json(c.Writer, http.StatusOK, map[string]any{
			"status":  "ok",
			"service": "wispgate",
			"version": "1.0.0",
			"crm_url": params.Config.GetString("crm.base_url"),
		})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", params.Auth.Login)
		authGroup.POST("/register", params.Auth.Register)
		authGroup.GET("/me", params.CheckAuth(), params.Auth.Me)
	}

	// Inbound automation hook; deliberately open, see the webhook contract.
	r.POST("/mensajes/procesar", params.Messages.ProcessMessage)

	api := r.Group("/api/v1")
	api.Use(params.CheckAuth())

	clientGroup := api.Group("/clients")
	{
		clientGroup.POST("/", params.Clients.CreateClient)
		clientGroup.GET("/", params.Clients.SearchClients)
		clientGroup.POST("/pre-registrations/", params.Clients.CreatePreRegistration)
		clientGroup.GET("/installations/", params.Clients.ListInstallations)
		clientGroup.GET("/:id", params.Clients.GetClientByID)
		clientGroup.PUT("/:id", params.Clients.UpdateClient)
		clientGroup.POST("/:id/activate", params.Clients.ActivateService)
		clientGroup.POST("/:id/suspend", params.Clients.SuspendService)
	}

	invoiceGroup := api.Group("/invoices")
	{
		invoiceGroup.POST("/", params.Invoices.CreateInvoice)
		invoiceGroup.GET("/", params.Invoices.ListInvoices)
		invoiceGroup.POST("/payments/", params.Invoices.CreatePayment)
		invoiceGroup.POST("/promise-payments/", params.Invoices.CreatePromisePayment)
		invoiceGroup.DELETE("/payments/:id", params.Invoices.DeletePayment)
		invoiceGroup.GET("/:id", params.Invoices.GetInvoice)
		invoiceGroup.DELETE("/:id", params.Invoices.DeleteInvoice)
	}

	ticketGroup := api.Group("/tickets")
	{
		ticketGroup.POST("/", params.Tickets.CreateTicket)
		ticketGroup.GET("/client/:id", params.Tickets.ListClientTickets)
		ticketGroup.PUT("/:id/close", params.Tickets.CloseTicket)
	}

	api.POST("/messaging/sms", params.Messaging.SendSMS)

	monitoringGroup := api.Group("/monitoring")
	{
		monitoringGroup.GET("/routers", params.Monitoring.GetRouters)
		monitoringGroup.GET("/equipment", params.Monitoring.GetEquipment)
	}

	server := http.Server{
		Addr: params.Config.GetString("server.port"),
		Handler: cors.New(cors.Options{
			AllowedHeaders: []string{"*"},
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		}).Handler(r),
	}

	params.Lifecycle.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				params.Logger.Info(ctx, "Starting application")
				go func() {
					if err := server.ListenAndServe(); err != nil {
						params.Logger.Error(ctx, "Err on ListenAndServe", zap.Error(err))
					}
				}()

				params.Logger.Info(ctx, "Application starting on port", zap.String("port", params.Config.GetString("server.port")))
				return nil
			},
			OnStop: func(ctx context.Context) error {
				params.Logger.Info(ctx, "Application stopped")
				return server.Shutdown(ctx)
			},
		},
	)
}
