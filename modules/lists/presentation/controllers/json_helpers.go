package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/agent"
	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/batch"
	"github.com/iota-uz/agentlists/modules/lists/domain/entities/record"
	"github.com/iota-uz/agentlists/modules/lists/services"
	"github.com/iota-uz/agentlists/pkg/composables"
	"github.com/iota-uz/agentlists/pkg/httpapi"
	"github.com/iota-uz/agentlists/pkg/tabular"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if err := httpapi.WriteJSON(w, status, payload); err != nil {
		panic(err)
	}
}

func ensureRequestID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := composables.UseRequestID(r.Context()); ok {
		return id
	}
	if id := w.Header().Get("X-Request-Id"); id != "" {
		return id
	}
	id := uuid.NewString()
	w.Header().Set("X-Request-Id", id)
	return id
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	_ = httpapi.WriteError(w, status, code, message, map[string]string{
		"request_id": ensureRequestID(w, r),
	})
}

// writeServiceError maps domain errors onto HTTP statuses. Anything that is
// not a known data or lookup error is logged and reported as internalCode.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, internalCode string) {
	meta := map[string]string{"request_id": ensureRequestID(w, r)}

	var (
		status       int
		verr         *record.ValidationError
		invalidAgent *services.InvalidAgentError
	)
	switch {
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
		meta["field"] = verr.Field
		if verr.Row > 0 {
			meta["row"] = strconv.Itoa(verr.Row)
		}
	case errors.As(err, &invalidAgent):
		status = http.StatusUnprocessableEntity
		for field, msg := range invalidAgent.Fields {
			meta[field] = msg
		}
	case errors.Is(err, tabular.ErrUnsupportedFormat), errors.Is(err, tabular.ErrMalformedInput):
		status = http.StatusBadRequest
	case errors.Is(err, batch.ErrNoAgentsAvailable), errors.Is(err, agent.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, batch.ErrNotFound), errors.Is(err, agent.ErrNotFound):
		status = http.StatusNotFound
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("request failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, internalCode, "internal error", meta)
		return
	}
	_ = httpapi.WriteCoded(w, status, err, internalCode, meta)
}

// pathUUID reads a uuid route variable, writing a 400 when it is malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, code, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
