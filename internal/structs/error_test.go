package structs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusAndDetailOf(t *testing.T) {
	apiErr := NewAPIError(http.StatusNotFound, "Cliente no encontrado")
	require.Equal(t, http.StatusNotFound, StatusOf(apiErr))
	require.Equal(t, "Cliente no encontrado", DetailOf(apiErr))

	wrapped := fmt.Errorf("calling crm: %w", apiErr)
	require.Equal(t, http.StatusNotFound, StatusOf(wrapped))
	require.Equal(t, "Cliente no encontrado", DetailOf(wrapped))

	plain := errors.New("boom")
	require.Equal(t, http.StatusInternalServerError, StatusOf(plain))
	require.Equal(t, "Error interno del servidor", DetailOf(plain))
}

func TestFieldsDropsEmptyOmitemptyValues(t *testing.T) {
	fields := Fields(CreateClientRequest{
		Nombre: "Ana Pérez",
		Cedula: "12345678",
	})

	require.Equal(t, "Ana Pérez", fields["nombre"])
	require.Equal(t, "12345678", fields["cedula"])
	require.NotContains(t, fields, "correo")
	require.NotContains(t, fields, "telefono")
	require.NotContains(t, fields, "movil")
}
