package messaging

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wispgate/internal/crm"
	"wispgate/internal/structs"
	"wispgate/pkg/logger"
	"wispgate/pkg/reply"
)

var (
	Module = fx.Provide(New)
)

type (
	Handler interface {
		SendSMS(c *gin.Context)
	}

	Params struct {
		fx.In
		Logger     logger.Logger
		CRMService crm.Service
	}

	handler struct {
		logger     logger.Logger
		crmService crm.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:     p.Logger,
		crmService: p.CRMService,
	}
}

func (h *handler) SendSMS(c *gin.Context) {
	var (
		request structs.SendSMSRequest
		ctx     = c.Request.Context()
	)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		reply.Error(c.Writer, structs.NewAPIError(http.StatusBadRequest, "Solicitud inválida"))
		return
	}

	resp, err := h.crmService.SendSMS(ctx, request.IDCliente, request.Mensaje)
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
