package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wispgate/internal/auth"
	"wispgate/internal/structs"
	"wispgate/pkg/logger"
	"wispgate/pkg/reply"
)

var (
	Module = fx.Provide(NewMiddleware)
)

const claimsKey = "claims"

type (
	Middleware interface {
		Ctx() gin.HandlerFunc
		Recovery() gin.HandlerFunc
		CheckAuth() gin.HandlerFunc
	}

	Params struct {
		fx.In

		Logger  logger.Logger
		AuthSvc auth.Service
	}

	mw struct {
		logger  logger.Logger
		authSvc auth.Service
	}
)

func NewMiddleware(params Params) Middleware {
	return &mw{
		logger:  params.Logger,
		authSvc: params.AuthSvc,
	}
}

// Ctx tags every request with a correlation ID, scopes the logger context
// and logs one timing line per request.
func (m *mw) Ctx() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := m.logger.Context(c.Request.Context())
		ctx = logger.WithRequestID(ctx, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		m.logger.Info(ctx, "request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

// Recovery turns panics into a plain 500 so the correlation header still
// reaches the caller.
func (m *mw) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error(c.Request.Context(), "panic recovered", zap.Any("panic", r))
				c.Abort()
				reply.Error(c.Writer, structs.NewAPIError(http.StatusInternalServerError, "Error interno del servidor"))
			}
		}()
		c.Next()
	}
}

func (m *mw) CheckAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.logger.Warn(ctx, " empty auth token")
			c.Abort()
			reply.Error(c.Writer, structs.NewAPIError(http.StatusUnauthorized, "No autenticado"))
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := m.authSvc.Verify(token)
		if err != nil {
			m.logger.Warn(ctx, " invalid auth token", zap.Error(err))
			c.Abort()
			reply.Error(c.Writer, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom reads the verified claims CheckAuth stored on the context.
func ClaimsFrom(c *gin.Context) (structs.Claims, bool) {
	raw, ok := c.Get(claimsKey)
	if !ok {
		return structs.Claims{}, false
	}
	claims, ok := raw.(structs.Claims)
	return claims, ok
}
