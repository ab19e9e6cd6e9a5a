package crm

import (
	"net/http"
	"strings"

	"github.com/spf13/cast"

	"wispgate/internal/structs"
)

// The CRM reports business failures inside a 200 response: an envelope with
// an "estado" tag and a free-text "mensaje". Classification is an ordered
// substring match on the lower-cased message; order matters because a
// message can match more than one pattern.
var classifications = []struct {
	substr string
	status int
}{
	{"no encontrado", http.StatusNotFound},
	{"ya existe", http.StatusConflict},
	{"inválido", http.StatusBadRequest},
	{"incorrecto", http.StatusBadRequest},
}

const defaultFailureDetail = "Error desconocido en Mikrowisp"

// ValidateResponse checks the CRM envelope. Non-object responses are a bad
// gateway regardless of content; estado != "exito" resolves to the HTTP
// status dictated by the classification table, carrying the original
// message as detail.
func ValidateResponse(resp any) error {
	obj, ok := resp.(map[string]any)
	if !ok {
		return structs.NewAPIError(http.StatusBadGateway, "Respuesta inválida de Mikrowisp")
	}

	estado := strings.ToLower(cast.ToString(obj["estado"]))
	if estado == "exito" {
		return nil
	}

	mensaje := cast.ToString(obj["mensaje"])
	if mensaje == "" {
		mensaje = defaultFailureDetail
	}

	lower := strings.ToLower(mensaje)
	for _, c := range classifications {
		if strings.Contains(lower, c.substr) {
			return structs.NewAPIError(c.status, mensaje)
		}
	}

	return structs.NewAPIError(http.StatusUnprocessableEntity, mensaje)
}
