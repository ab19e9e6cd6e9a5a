package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"wispgate/internal/ai"
	"wispgate/internal/crm"
	"wispgate/internal/structs"
	"wispgate/internal/workflow"
	"wispgate/pkg/queue"
)

// Process decodes one queued job and dispatches it. Undecodable bodies are
// dropped permanently; jobs of an unknown type are logged and acknowledged
// so they never clog the queue.
func (p *Processor) Process(ctx context.Context, body []byte) error {
	var job structs.QueueJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", queue.ErrDrop, err)
	}

	p.logger.Info(ctx, "processing job", zap.String("type", job.Type))

	switch job.Type {
	case structs.JobClientQuery:
		return p.handleClientQuery(ctx, job.Data)
	case structs.JobAutoSMS:
		return p.handleAutoSMS(ctx, job.Data)
	case structs.JobPaymentReminder:
		return p.handlePaymentReminder(ctx, job.Data)
	case structs.JobSyncData:
		p.logger.Info(ctx, "sync_data requested, nothing to do yet")
		return nil
	default:
		p.logger.Warn(ctx, "unknown job type, acknowledging", zap.String("type", job.Type))
		return nil
	}
}

// handleClientQuery answers a free-form client question. Client context is
// best effort; the answer still goes out when the CRM lookup fails.
func (p *Processor) handleClientQuery(ctx context.Context, data map[string]any) error {
	clientID := cast.ToInt64(data["client_id"])
	query := cast.ToString(data["query"])

	var clientContext any
	if clientID != 0 {
		resp, err := p.crmService.GetClientDetails(ctx, map[string]any{"idcliente": clientID})
		if err != nil {
			p.logger.Warn(ctx, "client context lookup failed", zap.Int64("client_id", clientID), zap.Error(err))
		} else if obj, ok := resp.(map[string]any); ok {
			clientContext = obj["datos"]
		}
	}

	answer := p.aiService.Answer(ctx, query, clientContext)

	if _, err := p.workflowSvc.Notify(ctx, map[string]any{
		"client_id": clientID,
		"query":     query,
		"response":  answer,
	}, workflow.KindClientResponse); err != nil {
		return err
	}

	return nil
}

func (p *Processor) handleAutoSMS(ctx context.Context, data map[string]any) error {
	clientID := cast.ToInt64(data["client_id"])

	message := cast.ToString(data["custom_message"])
	if message == "" {
		kind := cast.ToString(data["message_type"])
		if kind == "" {
			kind = ai.KindGeneral
		}
		message = p.aiService.DraftMessage(ctx, kind, data)
	}

	resp, err := p.crmService.SendSMS(ctx, clientID, message)
	if err != nil {
		return err
	}
	if err := crm.ValidateResponse(resp); err != nil {
		return err
	}

	if _, err := p.workflowSvc.Notify(ctx, map[string]any{
		"client_id": clientID,
		"message":   message,
	}, workflow.KindSMSSent); err != nil {
		return err
	}

	return nil
}

// handlePaymentReminder sends one reminder covering all unpaid invoices of
// the client. No unpaid invoices means nothing to send.
func (p *Processor) handlePaymentReminder(ctx context.Context, data map[string]any) error {
	clientID := cast.ToInt64(data["client_id"])

	resp, err := p.crmService.GetInvoices(ctx, map[string]any{
		"idcliente": clientID,
		"estado":    structs.InvoiceStateUnpaid,
	})
	if err != nil {
		return err
	}
	if err := crm.ValidateResponse(resp); err != nil {
		return err
	}

	obj, _ := resp.(map[string]any)
	facturas, _ := obj["facturas"].([]any)
	if len(facturas) == 0 {
		p.logger.Info(ctx, "no unpaid invoices, skipping reminder", zap.Int64("client_id", clientID))
		return nil
	}

	message := p.aiService.DraftMessage(ctx, ai.KindPaymentReminder, map[string]any{
		"client_id":           clientID,
		"facturas_pendientes": len(facturas),
	})

	smsResp, err := p.crmService.SendSMS(ctx, clientID, message)
	if err != nil {
		return err
	}
	if err := crm.ValidateResponse(smsResp); err != nil {
		return err
	}

	if _, err := p.workflowSvc.Notify(ctx, map[string]any{
		"client_id":           clientID,
		"facturas_pendientes": len(facturas),
		"message":             message,
	}, workflow.KindPaymentReminderSent); err != nil {
		return err
	}

	return nil
}
