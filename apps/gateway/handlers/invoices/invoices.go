package invoices

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wispgate/internal/crm"
	"wispgate/internal/structs"
	"wispgate/internal/workflow"
	"wispgate/pkg/logger"
	"wispgate/pkg/reply"
)

var (
	Module = fx.Provide(New)
)

const (
	defaultListLimit = 25
	maxListLimit     = 100
)

type (
	Handler interface {
		CreateInvoice(c *gin.Context)
		ListInvoices(c *gin.Context)
		GetInvoice(c *gin.Context)
		CreatePayment(c *gin.Context)
		CreatePromisePayment(c *gin.Context)
		DeleteInvoice(c *gin.Context)
		DeletePayment(c *gin.Context)
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

func (h *handler) CreateInvoice(c *gin.Context) {
	var (
		request structs.CreateInvoiceRequest
		ctx     = c.Request.Context()
	)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		reply.Error(c.Writer, structs.NewAPIError(http.StatusBadRequest, "Solicitud inválida"))
		return
	}

	resp, err := h.crmService.CreateInvoice(ctx, request.IDCliente, request.Vencimiento)
	if err != nil {
		reply.Error(c.Writer, err)
		return
	}
	if err := crm.ValidateResponse(resp); err != nil {
		reply.Error(c.Writer, err)
		return
	}

	reply.Json(c.Writer, http.StatusCreated, resp)
}

func (h *handler) ListInvoices(c *gin.Context) {
	var (
		ctx     = c.Request.Context()
		filters = map[string]any{}
	)

	limit := cast.ToInt(c.DefaultQuery("limit", cast.ToString(defaultListLimit)))
	if limit < 1 {
		limit = 1
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	filters["limit"] = limit

	if v := c.Query("estado"); v != "" {
		filters["estado"] = cast.ToInt(v)
	}
	if v := c.Query("idcliente"); v != "" {
		filters["idcliente"] = cast.ToInt64(v)
	}
	if v := c.Query("fechapago"); v != "" {
		filters["fechapago"] = v
	}
	if v := c.Query("formapago"); v != "" {
		filters["formapago"] = v
	}

	resp, err := h.crmService.GetInvoices(ctx, filters)
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

func (h *handler) GetInvoice(c *gin.Context) {
	var (
		ctx = c.Request.Context()
		id  = cast.ToInt64(c.Param("id"))
	)

	resp, err := h.crmService.GetInvoice(ctx, id)
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

func (h *handler) CreatePayment(c *gin.Context) {
	var (
		request structs.PaymentCreateRequest
		ctx     = c.Request.Context()
	)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		reply.Error(c.Writer, structs.NewAPIError(http.StatusBadRequest, "Solicitud inválida"))
		return
	}

	resp, err := h.crmService.PayInvoice(ctx, structs.Fields(request))
	if err != nil {
		reply.Error(c.Writer, err)
		return
	}
	if err := crm.ValidateResponse(resp); err != nil {
		reply.Error(c.Writer, err)
		return
	}

	h.workflowSvc.NotifyPaymentReceived(ctx, map[string]any{
		"idfactura": request.IDFactura,
		"pasarela":  request.Pasarela,
		"cantidad":  request.Cantidad,
		"crm":       resp,
	})

	reply.Json(c.Writer, http.StatusOK, resp)
}

func (h *handler) CreatePromisePayment(c *gin.Context) {
	var (
		request structs.PromisePaymentRequest
		ctx     = c.Request.Context()
	)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		reply.Error(c.Writer, structs.NewAPIError(http.StatusBadRequest, "Solicitud inválida"))
		return
	}

	resp, err := h.crmService.CreatePromisePayment(ctx, structs.Fields(request))
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

func (h *handler) DeleteInvoice(c *gin.Context) {
	var (
		ctx = c.Request.Context()
		id  = cast.ToInt64(c.Param("id"))
	)

	resp, err := h.crmService.DeleteInvoice(ctx, id)
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

func (h *handler) DeletePayment(c *gin.Context) {
	var (
		ctx = c.Request.Context()
		id  = cast.ToInt64(c.Param("id"))
	)

	resp, err := h.crmService.DeletePayment(ctx, id)
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
