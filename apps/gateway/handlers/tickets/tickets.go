package tickets

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wispgate/apps/gateway/handlers/middleware"
	"wispgate/internal/auth"
	"wispgate/internal/crm"
	"wispgate/internal/structs"
	"wispgate/internal/workflow"
	"wispgate/pkg/logger"
	"wispgate/pkg/reply"
)

var (
	Module = fx.Provide(New)
)

type (
	Handler interface {
		CreateTicket(c *gin.Context)
		ListClientTickets(c *gin.Context)
		CloseTicket(c *gin.Context)
	}

	Params struct {
		fx.In
		Logger      logger.Logger
		CRMService  crm.Service
		WorkflowSvc workflow.Service
	}

	handler struct {
		logger      logger.Logger
		crmService  crm.Service
		workflowSvc workflow.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:      p.Logger,
		crmService:  p.CRMService,
		workflowSvc: p.WorkflowSvc,
	}
}

func (h *handler) CreateTicket(c *gin.Context) {
	var (
		request structs.CreateTicketRequest
		ctx     = c.Request.Context()
	)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		reply.Error(c.Writer, structs.NewAPIError(http.StatusBadRequest, "Solicitud inválida"))
		return
	}

	resp, err := h.crmService.CreateTicket(ctx, structs.Fields(request))
	if err != nil {
		reply.Error(c.Writer, err)
		return
	}
	if err := crm.ValidateResponse(resp); err != nil {
		reply.Error(c.Writer, err)
		return
	}

	h.workflowSvc.NotifyTicketCreated(ctx, map[string]any{
		"idcliente": request.IDCliente,
		"asunto":    request.Asunto,
		"crm":       resp,
	})

	reply.Json(c.Writer, http.StatusCreated, resp)
}

func (h *handler) ListClientTickets(c *gin.Context) {
	var (
		ctx = c.Request.Context()
		id  = cast.ToInt64(c.Param("id"))
	)

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		reply.Error(c.Writer, structs.NewAPIError(http.StatusUnauthorized, "No autenticado"))
		return
	}
	if err := auth.CheckClientPermission(claims, id); err != nil {
		reply.Error(c.Writer, err)
		return
	}

	resp, err := h.crmService.ListTickets(ctx, id)
	if err != nil {
		reply.Error(c.Writer, err)
		return
	}
	if err := crm.ValidateResponse(resp); err != nil {
		reply.Error(c.Writer, err)
		return
	}

	reply.Json(c.Writer, http.StatusOK, resp)
}

func (h *handler) CloseTicket(c *gin.Context) {
	var (
		request structs.CloseTicketRequest
		ctx     = c.Request.Context()
		id      = cast.ToInt64(c.Param("id"))
	)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		reply.Error(c.Writer, structs.NewAPIError(http.StatusBadRequest, "Solicitud inválida"))
		return
	}

	// The ticket ID travels both in the path and the body; a mismatch is a
	// caller bug, not something to guess around.
	if request.IDTicket != id {
		reply.Error(c.Writer, structs.NewAPIError(http.StatusBadRequest, "El idticket no coincide con la ruta"))
		return
	}

	resp, err := h.crmService.CloseTicket(ctx, id, request.MotivoCierre)
	if err != nil {
		reply.Error(c.Writer, err)
		return
	}
	if err := crm.ValidateResponse(resp); err != nil {
		reply.Error(c.Writer, err)
		return
	}

	reply.Json(c.Writer, http.StatusOK, resp)
}
