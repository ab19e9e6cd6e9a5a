package ai

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

func newTestService(t *testing.T, baseURL string) Service {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", baseURL)
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")

	return New(Params{
		Logger: logger.New("error"),
		Config: config.NewConfig(),
	})
}

func completionBody(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":"` + content + `"}}]}`
}

func TestAnswerReturnsModelText(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(completionBody("Su plan es de 50Mbps.")))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	got := svc.Answer(context.Background(), "¿Cuál es mi plan?", map[string]any{"plan": "50Mbps"})
	require.Equal(t, "Su plan es de 50Mbps.", got)

	require.Len(t, gotReq.Messages, 2)
	require.Equal(t, "system", gotReq.Messages[0].Role)
	require.Contains(t, gotReq.Messages[0].Content, "50Mbps")
	require.Equal(t, "¿Cuál es mi plan?", gotReq.Messages[1].Content)
	require.InDelta(t, 0.7, gotReq.Temperature, 0.001)
	require.Equal(t, 1000, gotReq.MaxTokens)
}

func TestAnswerFallsBackOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	got := svc.Answer(context.Background(), "hola", nil)
	require.Equal(t, "Lo siento, no pude procesar tu consulta en este momento.", got)
}

func TestDraftMessageTrimsAndLimits(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(completionBody("  Recordatorio: su factura vence mañana.  ")))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	got := svc.DraftMessage(context.Background(), KindPaymentReminder, map[string]any{"client_id": 7})
	require.Equal(t, "Recordatorio: su factura vence mañana.", got)

	require.InDelta(t, 0.5, gotReq.Temperature, 0.001)
	require.Equal(t, 100, gotReq.MaxTokens)
	require.Contains(t, gotReq.Messages[0].Content, KindPaymentReminder)
}

func TestDraftMessageFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	got := svc.DraftMessage(context.Background(), KindGeneral, nil)
	require.Equal(t, "Estimado cliente, contacte con nosotros para más información.", got)
}
