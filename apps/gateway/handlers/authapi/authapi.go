package authapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wispgate/apps/gateway/handlers/middleware"
	"wispgate/internal/auth"
	"wispgate/internal/structs"
	"wispgate/pkg/logger"
	"wispgate/pkg/reply"
)

var (
	Module = fx.Provide(New)
)

type (
	Handler interface {
		Login(c *gin.Context)
		Register(c *gin.Context)
		Me(c *gin.Context)
	}

	Params struct {
		fx.In
		Logger  logger.Logger
		AuthSvc auth.Service
	}

	handler struct {
		logger  logger.Logger
		authSvc auth.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:  p.Logger,
		authSvc: p.AuthSvc,
	}
}

// Login accepts credentials either as HTTP Basic auth or as form fields,
// matching what password-grant clients send.
func (h *handler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	username, password, ok := c.Request.BasicAuth()
	if !ok {
		username = c.PostForm("username")
		password = c.PostForm("password")
	}
	if username == "" || password == "" {
		reply.Error(c.Writer, structs.NewAPIError(http.StatusBadRequest, "Credenciales requeridas"))
		return
	}

	token, err := h.authSvc.Login(ctx, username, password)
	if err != nil {
		reply.Error(c.Writer, err)
		return
	}

	reply.Json(c.Writer, http.StatusOK, token)
}

func (h *handler) Register(c *gin.Context) {
	var (
		request structs.RegisterRequest
		ctx     = c.Request.Context()
	)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		reply.Error(c.Writer, structs.NewAPIError(http.StatusBadRequest, "Solicitud inválida"))
		return
	}

	user, err := h.authSvc.Register(ctx, request)
	if err != nil {
		reply.Error(c.Writer, err)
		return
	}

	reply.Json(c.Writer, http.StatusCreated, user)
}

func (h *handler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		reply.Error(c.Writer, structs.NewAPIError(http.StatusUnauthorized, "No autenticado"))
		return
	}

	reply.Json(c.Writer, http.StatusOK, structs.MeResponse{
		Username: claims.Subject,
		Email:    claims.Email,
		IsAdmin:  claims.IsAdmin,
		ClientID: claims.ClientID,
	})
}
