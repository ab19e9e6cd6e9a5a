package logger

import (
	"bytes"
	"context"
	"encoding/hex"
	"time"

	"go.uber.org/zap"
)

const (
	logIDKey   = "logID"
	requestKey = "request"
)

type logCtxKey struct{}

var logCtx logCtxKey

type LogID [8]byte

func (lid LogID) String() string {
	return hex.EncodeToString(lid[:])
}

var nilLogID = LogID{}

func (lid LogID) IsValid() bool {
	return !bytes.Equal(lid[:], nilLogID[:])
}

type logContext struct {
	StartTime time.Time
	RequestID string
	LogID     LogID
}

func newLogContext(logID LogID) *logContext {
	return &logContext{
		LogID:     logID,
		StartTime: time.Now(),
	}
}

// WithRequestID stores an externally supplied correlation ID alongside the
// log ID, so gateway responses and log lines can be matched up.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	lgCtx, ok := ctx.Value(&logCtx).(*logContext)
	if !ok {
		lgCtx = newLogContext(LogID{})
	}
	cp := *lgCtx
	cp.RequestID = requestID
	return context.WithValue(ctx, &logCtx, &cp)
}

// RequestID returns the correlation ID previously stored with WithRequestID.
func RequestID(ctx context.Context) string {
	lgCtx, _ := ctx.Value(&logCtx).(*logContext)
	if lgCtx == nil {
		return ""
	}
	return lgCtx.RequestID
}

func getAttrs(ctx context.Context) []zap.Field {
	lgCtx, _ := ctx.Value(&logCtx).(*logContext)
	if lgCtx == nil {
		return nil
	}

	attrs := make([]zap.Field, 0, 2)
	if lgCtx.LogID.IsValid() {
		attrs = append(attrs, zap.String(logIDKey, lgCtx.LogID.String()))
	}
	if lgCtx.RequestID != "" {
		attrs = append(attrs, zap.String(requestKey, lgCtx.RequestID))
	}
	return attrs
}
