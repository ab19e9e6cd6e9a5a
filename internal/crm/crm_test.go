package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wispgate/internal/structs"
	"wispgate/pkg/config"
	"wispgate/pkg/logger"
)

func newTestService(t *testing.T, baseURL string) Service {
	t.Helper()
	t.Setenv("MIKROWISP_BASE_URL", baseURL)
	t.Setenv("MIKROWISP_TOKEN", "secret-token")
	t.Setenv("MIKROWISP_TIMEOUT", "1")

	return New(Params{
		Logger: logger.New("error"),
		Config: config.NewConfig(),
	})
}

func TestCreateInvoiceSendsTokenAndFields(t *testing.T) {
	var (
		gotPath string
		gotBody map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"estado":"exito","idfactura":501}`))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	resp, err := svc.CreateInvoice(context.Background(), 7, "2026-09-30")
	require.NoError(t, err)

	require.Equal(t, "/api/v1/CreateInvoice", gotPath)
	require.Equal(t, "secret-token", gotBody["token"])
	require.EqualValues(t, 7, gotBody["idcliente"])
	require.Equal(t, "2026-09-30", gotBody["vencimiento"])

	obj, ok := resp.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "exito", obj["estado"])
	require.EqualValues(t, 501, obj["idfactura"])
}

func TestDeleteInvoiceUsesUnversionedPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"estado":"exito"}`))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	_, err := svc.DeleteInvoice(context.Background(), 501)
	require.NoError(t, err)
	require.Equal(t, "/DeleteInvoice", gotPath)
}

func TestCallNon2xxBecomesUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	_, err := svc.GetClientDetails(context.Background(), map[string]any{"idcliente": 1})
	require.Error(t, err)
	require.Equal(t, http.StatusBadGateway, structs.StatusOf(err))
}

func TestCallNonJSONResponseIsBadGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	_, err := svc.SendSMS(context.Background(), 1, "hola")
	require.Error(t, err)
	require.Equal(t, http.StatusBadGateway, structs.StatusOf(err))
}

func TestCallTimeoutIsGatewayTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.Write([]byte(`{"estado":"exito"}`))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	_, err := svc.ActivateService(context.Background(), 1)
	require.Error(t, err)
	require.Equal(t, http.StatusGatewayTimeout, structs.StatusOf(err))
	require.Equal(t, "Timeout en solicitud a Mikrowisp", structs.DetailOf(err))
}
