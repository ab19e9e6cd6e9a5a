package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wispgate/internal/structs"
	"wispgate/pkg/config"
	"wispgate/pkg/logger"
)

var Module = fx.Provide(New)

// Service is the CRM client adapter: one method per remote procedure the
// upstream billing system exposes. Every method performs a single request
// with the shared token merged into the body and returns the decoded JSON
// verbatim. No retries; every failure surfaces immediately.
type Service interface {
	CreateClient(ctx context.Context, fields map[string]any) (any, error)
	GetClientDetails(ctx context.Context, filters map[string]any) (any, error)
	UpdateClient(ctx context.Context, clientID int64, datos map[string]any) (any, error)
	ActivateService(ctx context.Context, clientID int64) (any, error)
	SuspendService(ctx context.Context, clientID int64) (any, error)

	CreateInvoice(ctx context.Context, clientID int64, dueDate string) (any, error)
	GetInvoices(ctx context.Context, filters map[string]any) (any, error)
	GetInvoice(ctx context.Context, invoiceID int64) (any, error)
	PayInvoice(ctx context.Context, fields map[string]any) (any, error)
	CreatePromisePayment(ctx context.Context, fields map[string]any) (any, error)
	DeleteInvoice(ctx context.Context, invoiceID int64) (any, error)
	DeletePayment(ctx context.Context, invoiceID int64) (any, error)

	CreateTicket(ctx context.Context, fields map[string]any) (any, error)
	CloseTicket(ctx context.Context, ticketID int64, reason string) (any, error)
	ListTickets(ctx context.Context, clientID int64) (any, error)

	SendSMS(ctx context.Context, clientID int64, message string) (any, error)

	CreatePreRegistration(ctx context.Context, fields map[string]any) (any, error)
	ListInstallations(ctx context.Context, filters map[string]any) (any, error)

	GetRouters(ctx context.Context, routerID int64) (any, error)
	GetMonitoring(ctx context.Context, equipmentID int64) (any, error)
}

type Params struct {
	fx.In

	Logger logger.Logger
	Config config.IConfig
}

type service struct {
	logger     logger.Logger
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(p Params) Service {
	timeout := p.Config.GetInt("crm.timeout")
	if timeout <= 0 {
		timeout = 30
	}

	return &service{
		logger:  p.Logger,
		baseURL: strings.TrimRight(p.Config.GetString("crm.base_url"), "/"),
		token:   p.Config.GetString("crm.token"),
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
}

// call issues one request against the CRM. The shared token is always part
// of the body (or query string for GET lookups).
func (s *service) call(ctx context.Context, endpoint string, fields map[string]any, method string) (any, error) {
	reqURL := s.baseURL + "/" + strings.TrimLeft(endpoint, "/")

	body := map[string]any{"token": s.token}
	for k, v := range fields {
		body[k] = v
	}

	var httpReq *http.Request
	var err error

	if method == http.MethodGet {
		params := url.Values{}
		for k, v := range body {
			params.Set(k, cast.ToString(v))
		}
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodGet, reqURL+"?"+params.Encode(), nil)
	} else {
		payload, merr := json.Marshal(body)
		if merr != nil {
			return nil, merr
		}
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	}
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := s.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			s.logger.Error(ctx, "CRM request timed out", zap.String("endpoint", endpoint))
			return nil, structs.NewAPIError(http.StatusGatewayTimeout, "Timeout en solicitud a Mikrowisp")
		}
		s.logger.Error(ctx, "CRM request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, structs.NewAPIError(http.StatusInternalServerError, "Error interno del servidor")
	}
	defer httpResp.Body.Close()

	raw, _ := io.ReadAll(httpResp.Body)
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		s.logger.Error(ctx, "CRM returned non-2xx",
			zap.String("endpoint", endpoint),
			zap.Int("status", httpResp.StatusCode),
			zap.ByteString("body", raw))
		return nil, structs.NewAPIError(httpResp.StatusCode, fmt.Sprintf("Error en Mikrowisp: %s", string(raw)))
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		s.logger.Error(ctx, "CRM response is not JSON", zap.String("endpoint", endpoint), zap.ByteString("body", raw))
		return nil, structs.NewAPIError(http.StatusBadGateway, "Respuesta inválida de Mikrowisp")
	}

	return decoded, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

func (s *service) CreateClient(ctx context.Context, fields map[string]any) (any, error) {
	return s.call(ctx, "/api/v1/NewUser", fields, http.MethodPost)
}

func (s *service) GetClientDetails(ctx context.Context, filters map[string]any) (any, error) {
	return s.call(ctx, "/api/v1/GetClientsDetails", filters, http.MethodPost)
}

func (s *service) UpdateClient(ctx context.Context, clientID int64, datos map[string]any) (any, error) {
	return s.call(ctx, "/api/v1/UpdateUser", map[string]any{"idcliente": clientID, "datos": datos}, http.MethodPost)
}

func (s *service) ActivateService(ctx context.Context, clientID int64) (any, error) {
	return s.call(ctx, "/api/v1/ActiveService", map[string]any{"idcliente": clientID}, http.MethodPost)
}

func (s *service) SuspendService(ctx context.Context, clientID int64) (any, error) {
	return s.call(ctx, "/api/v1/SuspendService", map[string]any{"idcliente": clientID}, http.MethodPost)
}

func (s *service) CreateInvoice(ctx context.Context, clientID int64, dueDate string) (any, error) {
	return s.call(ctx, "/api/v1/CreateInvoice", map[string]any{"idcliente": clientID, "vencimiento": dueDate}, http.MethodPost)
}

func (s *service) GetInvoices(ctx context.Context, filters map[string]any) (any, error) {
	return s.call(ctx, "/api/v1/GetInvoices", filters, http.MethodPost)
}

func (s *service) GetInvoice(ctx context.Context, invoiceID int64) (any, error) {
	return s.call(ctx, "/api/v1/GetInvoice", map[string]any{"idfactura": invoiceID}, http.MethodPost)
}

func (s *service) PayInvoice(ctx context.Context, fields map[string]any) (any, error) {
	return s.call(ctx, "/api/v1/PaidInvoice", fields, http.MethodPost)
}

func (s *service) CreatePromisePayment(ctx context.Context, fields map[string]any) (any, error) {
	return s.call(ctx, "/api/v1/PromesaPago", fields, http.MethodPost)
}

// DeleteInvoice talks to the unversioned path; the CRM exposes it that way.
func (s *service) DeleteInvoice(ctx context.Context, invoiceID int64) (any, error) {
	return s.call(ctx, "/DeleteInvoice", map[string]any{"idfactura": invoiceID}, http.MethodPost)
}

func (s *service) DeletePayment(ctx context.Context, invoiceID int64) (any, error) {
	return s.call(ctx, "/api/v1/DeleteTransaccion", map[string]any{"factura": invoiceID}, http.MethodPost)
}

func (s *service) CreateTicket(ctx context.Context, fields map[string]any) (any, error) {
	return s.call(ctx, "/api/v1/NewTicket", fields, http.MethodPost)
}

func (s *service) CloseTicket(ctx context.Context, ticketID int64, reason string) (any, error) {
	return s.call(ctx, "/api/v1/CloseTicket", map[string]any{"idticket": ticketID, "motivo_cierre": reason}, http.MethodPost)
}

func (s *service) ListTickets(ctx context.Context, clientID int64) (any, error) {
	return s.call(ctx, "/api/v1/ListTicket", map[string]any{"idcliente": clientID}, http.MethodPost)
}

func (s *service) SendSMS(ctx context.Context, clientID int64, message string) (any, error) {
	return s.call(ctx, "/api/v1/NewSMS", map[string]any{"idcliente": clientID, "mensaje": message}, http.MethodPost)
}

func (s *service) CreatePreRegistration(ctx context.Context, fields map[string]any) (any, error) {
	return s.call(ctx, "/api/v1/NewPreRegistro", fields, http.MethodPost)
}

func (s *service) ListInstallations(ctx context.Context, filters map[string]any) (any, error) {
	return s.call(ctx, "/api/v1/ListInstall", filters, http.MethodPost)
}

func (s *service) GetRouters(ctx context.Context, routerID int64) (any, error) {
	return s.call(ctx, "/api/v1/GetRouters", map[string]any{"id": routerID}, http.MethodPost)
}

func (s *service) GetMonitoring(ctx context.Context, equipmentID int64) (any, error) {
	return s.call(ctx, "/api/v1/GetMonitoreo", map[string]any{"id": equipmentID}, http.MethodPost)
}
