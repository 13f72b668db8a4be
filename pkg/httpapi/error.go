package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iota-uz/agentlists/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// WriteCoded takes the envelope code from the first serrors.Coded in err's
// chain and uses err's full text as the message. Without a coded error the
// fallback code and a generic message are written, so internal details do
// not leak.
func WriteCoded(w http.ResponseWriter, status int, err error, fallbackCode string, meta map[string]string) error {
	var coded serrors.Coded
	if errors.As(err, &coded) {
		return WriteError(w, status, coded.ErrorCode(), err.Error(), meta)
	}
	return WriteError(w, status, fallbackCode, http.StatusText(status), meta)
}

func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = WriteError(w, http.StatusNotFound, "ROUTE_NOT_FOUND", "route not found", map[string]string{"path": r.URL.Path})
	})
}

func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", map[string]string{"method": r.Method})
	})
}
