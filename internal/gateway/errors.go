package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fbianco/proghelper/internal/chat"
	"github.com/fbianco/proghelper/internal/persona"
	"github.com/fbianco/proghelper/internal/provider"
)

// errorResponse is the uniform JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError sends the JSON error envelope with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// statusFor maps domain sentinels onto HTTP statuses: validation 400,
// turn cap 403, persona lookup 404, configuration and transport 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, provider.ErrUnknown):
		return http.StatusBadRequest
	case errors.Is(err, chat.ErrTurnLimit):
		return http.StatusForbidden
	case errors.Is(err, persona.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
