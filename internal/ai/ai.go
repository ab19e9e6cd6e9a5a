package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"wispgate/pkg/config"
	"wispgate/pkg/logger"
)

var Module = fx.Provide(New)

// Fallback sentences returned when the model cannot be reached. Generation
// is best-effort by design: callers never see an error from this service.
const (
	answerFallback = "Lo siento, no pude procesar tu consulta en este momento."
	draftFallback  = "Estimado cliente, contacte con nosotros para más información."
)

// Message kinds DraftMessage knows how to phrase.
const (
	KindPaymentReminder     = "pago_recordatorio"
	KindPaymentConfirmation = "pago_confirmacion"
	KindSuspensionNotice    = "servicio_suspension"
	KindActivationNotice    = "servicio_activacion"
	KindAppointmentReminder = "cita_tecnica"
	KindGeneral             = "general"
)

type Service interface {
	// Answer generates a support-assistant reply for a client query,
	// optionally grounded on a JSON-serializable client context.
	Answer(ctx context.Context, query string, clientContext any) string

	// DraftMessage generates SMS copy (max 160 characters) for one of the
	// fixed message kinds.
	DraftMessage(ctx context.Context, kind string, clientData map[string]any) string
}

type Params struct {
	fx.In

	Logger logger.Logger
	Config config.IConfig
}

type service struct {
	logger     logger.Logger
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func New(p Params) Service {
	return &service{
		logger:  p.Logger,
		apiKey:  p.Config.GetString("openai.api_key"),
		baseURL: strings.TrimRight(p.Config.GetString("openai.base_url"), "/"),
		model:   p.Config.GetString("openai.model"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (s *service) Answer(ctx context.Context, query string, clientContext any) string {
	systemPrompt := "Eres un asistente de atención al cliente para un proveedor de servicios de internet. " +
		"Tu objetivo es ayudar a los clientes con sus consultas sobre servicios, facturas, soporte técnico y más.\n\n" +
		"Responde de manera amigable, profesional y útil. Si necesitas información específica del cliente, " +
		"pídesela de manera cortés."

	if clientContext != nil {
		if blob, err := json.MarshalIndent(clientContext, "", "  "); err == nil {
			systemPrompt += "\n\nContexto del cliente:\n" + string(blob)
		}
	}

	text, err := s.complete(ctx, chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: query},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		s.logger.Error(ctx, "AI answer failed", zap.Error(err))
		return answerFallback
	}

	return text
}

func (s *service) DraftMessage(ctx context.Context, kind string, clientData map[string]any) string {
	if clientData == nil {
		clientData = map[string]any{}
	}
	blob, _ := json.Marshal(clientData)

	prompt := fmt.Sprintf("Genera un mensaje SMS profesional y amigable para %s.\n"+
		"El mensaje debe ser conciso (máximo 160 caracteres) y en español.\n\n"+
		"Contexto del cliente: %s\n\n"+
		"Tipos de mensaje disponibles:\n"+
		"- pago_recordatorio: Recordatorio de pago\n"+
		"- pago_confirmacion: Confirmación de pago recibido\n"+
		"- servicio_suspension: Notificación de suspensión\n"+
		"- servicio_activacion: Confirmación de activación\n"+
		"- cita_tecnica: Recordatorio de cita técnica\n"+
		"- general: Mensaje general",
		kind, string(blob))

	text, err := s.complete(ctx, chatRequest{
		Model:       s.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.5,
		MaxTokens:   100,
	})
	if err != nil {
		s.logger.Error(ctx, "AI draft failed", zap.String("kind", kind), zap.Error(err))
		return draftFallback
	}

	return strings.TrimSpace(text)
}

func (s *service) complete(ctx context.Context, req chatRequest) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("openai api key is not set")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	httpResp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer httpResp.Body.Close()

	body, _ := io.ReadAll(httpResp.Body)
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return "", fmt.Errorf("completion endpoint returned %d: %s", httpResp.StatusCode, string(body))
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
