package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/dressup/pkg/errors"
)

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

// statusFor maps an error to an HTTP status by its code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeStale):
		return http.StatusConflict
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeTimeout), stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(err), errorResponse{Error: errors.UserMessage(err), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
