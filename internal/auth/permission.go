package auth

import (
	"net/http"

	"wispgate/internal/structs"
)

// CheckClientPermission decides whether the caller may touch a given
// client's data. Admins may touch any client; everyone else only the
// client bound to their own account.
func CheckClientPermission(claims structs.Claims, clientID int64) error {
	if claims.IsAdmin {
		return nil
	}
	if claims.ClientID == nil {
		return structs.NewAPIError(http.StatusForbidden, "Permisos insuficientes")
	}
	if *claims.ClientID != clientID {
		return structs.NewAPIError(http.StatusForbidden, "No tiene permisos para acceder a este cliente")
	}
	return nil
}
