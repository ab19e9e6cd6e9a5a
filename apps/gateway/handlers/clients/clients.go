package clients

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
		CreateClient(c *gin.Context)
		SearchClients(c *gin.Context)
		GetClientByID(c *gin.Context)
		UpdateClient(c *gin.Context)
		ActivateService(c *gin.Context)
		SuspendService(c *gin.Context)
		CreatePreRegistration(c *gin.Context)
		ListInstallations(c *gin.Context)
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

// checkClientAccess resolves the caller's claims and enforces the per-client
// permission rule for the addressed client ID.
func checkClientAccess(c *gin.Context, clientID int64) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return structs.NewAPIError(http.StatusUnauthorized, "No autenticado")
	}
	return auth.CheckClientPermission(claims, clientID)
}

func (h *handler) CreateClient(c *gin.Context) {
	var (
		request structs.CreateClientRequest
		ctx     = c.Request.Context()
	)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		reply.Error(c.Writer, structs.NewAPIError(http.StatusBadRequest, "Solicitud inválida"))
		return
	}

	resp, err := h.crmService.CreateClient(ctx, structs.Fields(request))
	if err != nil {
		reply.Error(c.Writer, err)
		return
	}
	if err := crm.ValidateResponse(resp); err != nil {
		reply.Error(c.Writer, err)
		return
	}

	h.workflowSvc.NotifyClientCreated(ctx, map[string]any{
		"nombre": request.Nombre,
		"cedula": request.Cedula,
		"crm":    resp,
	})

	reply.Json(c.Writer, http.StatusCreated, resp)
}

func (h *handler) SearchClients(c *gin.Context) {
	var (
		ctx     = c.Request.Context()
		filters = map[string]any{}
	)

	if v := c.Query("cedula"); v != "" {
		filters["cedula"] = v
	}
	if v := c.Query("telefono"); v != "" {
		filters["telefono"] = v
	}
	if v := c.Query("idcliente"); v != "" {
		filters["idcliente"] = cast.ToInt64(v)
	}

	resp, err := h.crmService.GetClientDetails(ctx, filters)
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

func (h *handler) GetClientByID(c *gin.Context) {
	var (
		ctx = c.Request.Context()
		id  = cast.ToInt64(c.Param("id"))
	)

	if err := checkClientAccess(c, id); err != nil {
		reply.Error(c.Writer, err)
		return
	}

	resp, err := h.crmService.GetClientDetails(ctx, map[string]any{"idcliente": id})
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

func (h *handler) UpdateClient(c *gin.Context) {
	var (
		request structs.UpdateClientRequest
		ctx     = c.Request.Context()
		id      = cast.ToInt64(c.Param("id"))
	)

	if err := checkClientAccess(c, id); err != nil {
		reply.Error(c.Writer, err)
		return
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		reply.Error(c.Writer, structs.NewAPIError(http.StatusBadRequest, "Solicitud inválida"))
		return
	}

	resp, err := h.crmService.UpdateClient(ctx, id, structs.Fields(request))
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

func (h *handler) ActivateService(c *gin.Context) {
	var (
		ctx = c.Request.Context()
		id  = cast.ToInt64(c.Param("id"))
	)

	if err := checkClientAccess(c, id); err != nil {
		reply.Error(c.Writer, err)
		return
	}

	resp, err := h.crmService.ActivateService(ctx, id)
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

func (h *handler) SuspendService(c *gin.Context) {
	var (
		ctx = c.Request.Context()
		id  = cast.ToInt64(c.Param("id"))
	)

	if err := checkClientAccess(c, id); err != nil {
		reply.Error(c.Writer, err)
		return
	}

	resp, err := h.crmService.SuspendService(ctx, id)
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

func (h *handler) CreatePreRegistration(c *gin.Context) {
	var (
		request structs.CreatePreRegistrationRequest
		ctx     = c.Request.Context()
	)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		reply.Error(c.Writer, structs.NewAPIError(http.StatusBadRequest, "Solicitud inválida"))
		return
	}

	resp, err := h.crmService.CreatePreRegistration(ctx, structs.Fields(request))
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

func (h *handler) ListInstallations(c *gin.Context) {
	var (
		ctx     = c.Request.Context()
		filters = map[string]any{}
	)

	if v := c.Query("idcliente"); v != "" {
		filters["idcliente"] = cast.ToInt64(v)
	}
	if v := c.Query("estado"); v != "" {
		filters["estado"] = v
	}

	resp, err := h.crmService.ListInstallations(ctx, filters)
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
