package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"wispgate/pkg/config"
	"wispgate/pkg/logger"
)

var Module = fx.Provide(New)

// Event kinds posted to the automation webhook.
const (
	KindClientCreated       = "client_created"
	KindPaymentReceived     = "payment_received"
	KindTicketCreated       = "ticket_created"
	KindClientResponse      = "client_response"
	KindSMSSent             = "sms_sent"
	KindPaymentReminderSent = "payment_reminder_sent"
	KindAIResponse          = "ai_response"
)

// Service posts event payloads to the configured workflow-automation
// webhook. Notify propagates failures; the three named wrappers are
// advisory and swallow them, since a lost notification must never abort
// the operation that produced it.
type Service interface {
	Notify(ctx context.Context, payload map[string]any, kind string) (any, error)

	NotifyClientCreated(ctx context.Context, payload map[string]any)
	NotifyPaymentReceived(ctx context.Context, payload map[string]any)
	NotifyTicketCreated(ctx context.Context, payload map[string]any)
}

type Params struct {
	fx.In

	Logger logger.Logger
	Config config.IConfig
}

type service struct {
	logger     logger.Logger
	webhookURL string
	apiKey     string
	httpClient *http.Client
}

func New(p Params) Service {
	return &service{
		logger:     p.Logger,
		webhookURL: p.Config.GetString("workflow.webhook_url"),
		apiKey:     p.Config.GetString("workflow.api_key"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *service) Notify(ctx context.Context, payload map[string]any, kind string) (any, error) {
	body := map[string]any{
		"workflow_type": kind,
		"data":          payload,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	httpResp, err := s.httpClient.Do(httpReq)
	if err != nil {
		s.logger.Error(ctx, "workflow webhook call failed", zap.String("kind", kind), zap.Error(err))
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, _ := io.ReadAll(httpResp.Body)
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		s.logger.Error(ctx, "workflow webhook returned non-2xx",
			zap.String("kind", kind),
			zap.Int("status", httpResp.StatusCode),
			zap.ByteString("body", raw))
		return nil, fmt.Errorf("webhook returned %d: %s", httpResp.StatusCode, string(raw))
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// Some webhook receivers answer with an empty or non-JSON body.
		return nil, nil
	}

	return decoded, nil
}

func (s *service) NotifyClientCreated(ctx context.Context, payload map[string]any) {
	if _, err := s.Notify(ctx, payload, KindClientCreated); err != nil {
		s.logger.Error(ctx, "err notifying client created", zap.Error(err))
		return
	}
	s.logger.Info(ctx, "client created notification sent")
}

func (s *service) NotifyPaymentReceived(ctx context.Context, payload map[string]any) {
	if _, err := s.Notify(ctx, payload, KindPaymentReceived); err != nil {
		s.logger.Error(ctx, "err notifying payment received", zap.Error(err))
		return
	}
	s.logger.Info(ctx, "payment received notification sent")
}

func (s *service) NotifyTicketCreated(ctx context.Context, payload map[string]any) {
	if _, err := s.Notify(ctx, payload, KindTicketCreated); err != nil {
		s.logger.Error(ctx, "err notifying ticket created", zap.Error(err))
		return
	}
	s.logger.Info(ctx, "ticket created notification sent")
}
