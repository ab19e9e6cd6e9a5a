package structs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUserExists   = errors.New("user already exists")
)

// APIError is an error carrying the HTTP status it should be surfaced with.
// Both upstream CRM failures and local authorization failures resolve to it.
type APIError struct {
	Status int    `json:"status_code"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Detail)
}

func NewAPIError(status int, detail string) *APIError {
	return &APIError{Status: status, Detail: detail}
}

// StatusOf extracts the HTTP status from err, defaulting to 500.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return http.StatusInternalServerError
}

// DetailOf extracts the human-readable detail from err. Non-API errors map
// to a generic message so internals never leak to clients.
func DetailOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return "Error interno del servidor"
}
