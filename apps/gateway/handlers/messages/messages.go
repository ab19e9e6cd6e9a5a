package messages

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wispgate/internal/ai"
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
		ProcessMessage(c *gin.Context)
	}

	Params struct {
		fx.In
		Logger      logger.Logger
		AIService   ai.Service
		WorkflowSvc workflow.Service
	}

	handler struct {
		logger      logger.Logger
		aiService   ai.Service
		workflowSvc workflow.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:      p.Logger,
		aiService:   p.AIService,
		workflowSvc: p.WorkflowSvc,
	}
}

// ProcessMessage is the inbound hook automation platforms post free-form
// messages to. Payloads without an input text are acknowledged untouched.
func (h *handler) ProcessMessage(c *gin.Context) {
	var (
		request structs.ProcessMessageRequest
		ctx     = c.Request.Context()
	)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		reply.Error(c.Writer, structs.NewAPIError(http.StatusBadRequest, "Solicitud inválida"))
		return
	}

	input := cast.ToString(request.Data["input"])
	if input == "" {
		reply.Json(c.Writer, http.StatusOK, map[string]any{"status": "no_processing_needed"})
		return
	}

	answer := h.aiService.Answer(ctx, input, request.Data["client_context"])

	if _, err := h.workflowSvc.Notify(ctx, map[string]any{
		"input":    input,
		"response": answer,
	}, workflow.KindAIResponse); err != nil {
		h.logger.Error(ctx, "err notifying ai response", zap.Error(err))
	}

	reply.Json(c.Writer, http.StatusOK, map[string]any{
		"status":   "processed",
		"response": answer,
	})
}
