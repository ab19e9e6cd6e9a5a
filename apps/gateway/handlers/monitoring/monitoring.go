package monitoring

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/fx"

	"wispgate/internal/crm"
	"wispgate/pkg/logger"
	"wispgate/pkg/reply"
)

var (
	Module = fx.Provide(New)
)

type (
	Handler interface {
		GetRouters(c *gin.Context)
		GetEquipment(c *gin.Context)
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

// Both lookups default to -1, which the CRM reads as "all".

func (h *handler) GetRouters(c *gin.Context) {
	var (
		ctx = c.Request.Context()
		id  = cast.ToInt64(c.DefaultQuery("id", "-1"))
	)

	resp, err := h.crmService.GetRouters(ctx, id)
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

func (h *handler) GetEquipment(c *gin.Context) {
	var (
		ctx = c.Request.Context()
		id  = cast.ToInt64(c.DefaultQuery("id", "-1"))
	)

	resp, err := h.crmService.GetMonitoring(ctx, id)
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
