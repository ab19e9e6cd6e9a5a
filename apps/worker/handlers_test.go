package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"wispgate/internal/ai"
	"wispgate/internal/crm"
	"wispgate/internal/structs"
	"wispgate/internal/workflow"
	"wispgate/pkg/logger"
	"wispgate/pkg/queue"
)

// The fakes embed the service interfaces and override only what a given
// test exercises; calling anything else panics, which is the point.

type fakeCRM struct {
	crm.Service

	clientDetails    any
	clientDetailsErr error

	invoices    any
	invoicesErr error

	smsResp      any
	smsErr       error
	sentMessages []string
	sentClients  []int64
}

func (f *fakeCRM) GetClientDetails(_ context.Context, _ map[string]any) (any, error) {
	return f.clientDetails, f.clientDetailsErr
}

func (f *fakeCRM) GetInvoices(_ context.Context, _ map[string]any) (any, error) {
	return f.invoices, f.invoicesErr
}

func (f *fakeCRM) SendSMS(_ context.Context, clientID int64, message string) (any, error) {
	f.sentClients = append(f.sentClients, clientID)
	f.sentMessages = append(f.sentMessages, message)
	if f.smsResp == nil && f.smsErr == nil {
		return map[string]any{"estado": "exito"}, nil
	}
	return f.smsResp, f.smsErr
}

type fakeAI struct {
	ai.Service

	answer string
	draft  string
}

func (f *fakeAI) Answer(_ context.Context, _ string, _ any) string { return f.answer }

func (f *fakeAI) DraftMessage(_ context.Context, _ string, _ map[string]any) string {
	return f.draft
}

type fakeWorkflow struct {
	workflow.Service

	notifyErr error
	kinds     []string
	payloads  []map[string]any
}

func (f *fakeWorkflow) Notify(_ context.Context, payload map[string]any, kind string) (any, error) {
	f.kinds = append(f.kinds, kind)
	f.payloads = append(f.payloads, payload)
	return nil, f.notifyErr
}

func newTestProcessor(crmSvc crm.Service, aiSvc ai.Service, wfSvc workflow.Service) *Processor {
	return New(Params{
		Logger:      logger.New("error"),
		CRMService:  crmSvc,
		AIService:   aiSvc,
		WorkflowSvc: wfSvc,
	})
}

func encodeJob(t *testing.T, jobType string, data map[string]any) []byte {
	t.Helper()
	body, err := json.Marshal(structs.QueueJob{Type: jobType, Data: data})
	require.NoError(t, err)
	return body
}

func TestProcessUndecodableBodyIsDropped(t *testing.T) {
	p := newTestProcessor(&fakeCRM{}, &fakeAI{}, &fakeWorkflow{})

	err := p.Process(context.Background(), []byte("{not json"))
	require.Error(t, err)
	require.ErrorIs(t, err, queue.ErrDrop)
	require.Equal(t, queue.Reject, queue.Resolve(err))
}

func TestProcessUnknownTypeIsAcknowledged(t *testing.T) {
	p := newTestProcessor(&fakeCRM{}, &fakeAI{}, &fakeWorkflow{})

	err := p.Process(context.Background(), encodeJob(t, "mystery_job", nil))
	require.NoError(t, err)
	require.Equal(t, queue.Ack, queue.Resolve(err))
}

func TestProcessSyncDataIsNoOp(t *testing.T) {
	p := newTestProcessor(&fakeCRM{}, &fakeAI{}, &fakeWorkflow{})

	err := p.Process(context.Background(), encodeJob(t, structs.JobSyncData, nil))
	require.NoError(t, err)
}

func TestAutoSMSCustomMessageGoesOutVerbatim(t *testing.T) {
	crmFake := &fakeCRM{}
	wfFake := &fakeWorkflow{}
	p := newTestProcessor(crmFake, &fakeAI{draft: "should not be used"}, wfFake)

	err := p.Process(context.Background(), encodeJob(t, structs.JobAutoSMS, map[string]any{
		"client_id":      7,
		"custom_message": "Hola",
	}))
	require.NoError(t, err)

	require.Equal(t, []string{"Hola"}, crmFake.sentMessages)
	require.Equal(t, []int64{7}, crmFake.sentClients)
	require.Equal(t, []string{workflow.KindSMSSent}, wfFake.kinds)
	require.Equal(t, "Hola", wfFake.payloads[0]["message"])
}

func TestAutoSMSDraftsWhenNoCustomMessage(t *testing.T) {
	crmFake := &fakeCRM{}
	p := newTestProcessor(crmFake, &fakeAI{draft: "Estimado cliente, su pago vence pronto."}, &fakeWorkflow{})

	err := p.Process(context.Background(), encodeJob(t, structs.JobAutoSMS, map[string]any{
		"client_id":    7,
		"message_type": "pago_recordatorio",
	}))
	require.NoError(t, err)
	require.Equal(t, []string{"Estimado cliente, su pago vence pronto."}, crmFake.sentMessages)
}

func TestAutoSMSCRMFailureRequeues(t *testing.T) {
	crmFake := &fakeCRM{smsErr: errors.New("crm unavailable")}
	p := newTestProcessor(crmFake, &fakeAI{}, &fakeWorkflow{})

	err := p.Process(context.Background(), encodeJob(t, structs.JobAutoSMS, map[string]any{
		"client_id":      7,
		"custom_message": "Hola",
	}))
	require.Error(t, err)
	require.Equal(t, queue.Requeue, queue.Resolve(err))
}

func TestPaymentReminderSkipsWhenNothingUnpaid(t *testing.T) {
	crmFake := &fakeCRM{invoices: map[string]any{"estado": "exito", "facturas": []any{}}}
	wfFake := &fakeWorkflow{}
	p := newTestProcessor(crmFake, &fakeAI{draft: "recordatorio"}, wfFake)

	err := p.Process(context.Background(), encodeJob(t, structs.JobPaymentReminder, map[string]any{
		"client_id": 7,
	}))
	require.NoError(t, err)
	require.Empty(t, crmFake.sentMessages)
	require.Empty(t, wfFake.kinds)
}

func TestPaymentReminderSendsAndNotifies(t *testing.T) {
	crmFake := &fakeCRM{invoices: map[string]any{
		"estado":   "exito",
		"facturas": []any{map[string]any{"id": 1}, map[string]any{"id": 2}},
	}}
	wfFake := &fakeWorkflow{}
	p := newTestProcessor(crmFake, &fakeAI{draft: "Tiene facturas pendientes."}, wfFake)

	err := p.Process(context.Background(), encodeJob(t, structs.JobPaymentReminder, map[string]any{
		"client_id": 7,
	}))
	require.NoError(t, err)

	require.Equal(t, []string{"Tiene facturas pendientes."}, crmFake.sentMessages)
	require.Equal(t, []string{workflow.KindPaymentReminderSent}, wfFake.kinds)
	require.EqualValues(t, 2, wfFake.payloads[0]["facturas_pendientes"])
}

func TestClientQueryAnswersWithBestEffortContext(t *testing.T) {
	crmFake := &fakeCRM{clientDetailsErr: errors.New("crm down")}
	wfFake := &fakeWorkflow{}
	p := newTestProcessor(crmFake, &fakeAI{answer: "Su plan es de 50Mbps."}, wfFake)

	err := p.Process(context.Background(), encodeJob(t, structs.JobClientQuery, map[string]any{
		"client_id": 7,
		"query":     "¿Cuál es mi plan?",
	}))
	require.NoError(t, err)

	require.Equal(t, []string{workflow.KindClientResponse}, wfFake.kinds)
	require.Equal(t, "Su plan es de 50Mbps.", wfFake.payloads[0]["response"])
}

func TestClientQueryNotifyFailureRequeues(t *testing.T) {
	crmFake := &fakeCRM{clientDetails: map[string]any{"estado": "exito", "datos": []any{}}}
	wfFake := &fakeWorkflow{notifyErr: errors.New("webhook down")}
	p := newTestProcessor(crmFake, &fakeAI{answer: "respuesta"}, wfFake)

	err := p.Process(context.Background(), encodeJob(t, structs.JobClientQuery, map[string]any{
		"client_id": 7,
		"query":     "hola",
	}))
	require.Error(t, err)
	require.Equal(t, queue.Requeue, queue.Resolve(err))
}
