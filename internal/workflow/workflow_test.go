package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"wispgate/pkg/config"
	"wispgate/pkg/logger"
)

func newTestService(t *testing.T, webhookURL string) Service {
	t.Helper()
	t.Setenv("N8N_WEBHOOK_URL", webhookURL)
	t.Setenv("N8N_API_KEY", "hook-key")

	return New(Params{
		Logger: logger.New("error"),
		Config: config.NewConfig(),
	})
}

func TestNotifyPostsEventEnvelope(t *testing.T) {
	var gotBody map[string]any
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"received":true}`))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	resp, err := svc.Notify(context.Background(), map[string]any{"client_id": 7}, KindSMSSent)
	require.NoError(t, err)

	require.Equal(t, "Bearer hook-key", gotAuth)
	require.Equal(t, KindSMSSent, gotBody["workflow_type"])
	require.NotEmpty(t, gotBody["timestamp"])

	data, ok := gotBody["data"].(map[string]any)
	require.True(t, ok)
	require.EqualValues(t, 7, data["client_id"])

	obj, ok := resp.(map[string]any)
	require.True(t, ok)
	require.Equal(t, true, obj["received"])
}

func TestNotifyToleratesNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	resp, err := svc.Notify(context.Background(), nil, KindClientCreated)
	require.NoError(t, err)
	require.Nil(t, resp)
}

func TestNotifyPropagatesWebhookFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	_, err := svc.Notify(context.Background(), nil, KindTicketCreated)
	require.Error(t, err)
}

func TestAdvisoryWrappersSwallowFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)
	ctx := context.Background()

	// None of these may panic or surface the failure.
	svc.NotifyClientCreated(ctx, map[string]any{"nombre": "Ana"})
	svc.NotifyPaymentReceived(ctx, map[string]any{"idfactura": 1})
	svc.NotifyTicketCreated(ctx, map[string]any{"idcliente": 7})
}
