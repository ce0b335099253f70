package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"
	"go.uber.org/zap"

	"github.com/ecgf-team/roster-api/internal/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestId nullable.Nullable[string]         `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	var er ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestId = nullable.NewNullableWithValue(rid)
	}
	writeJSON(w, status, er)
}

// writeDomainError maps domain failures onto statuses:
// validation 422, not found 404, malformed import 400, anything else 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	if ve := (*domain.ValidationError)(nil); errors.As(err, &ve) {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", ve.Error(), map[string]any{"messages": ve.Messages})
		return
	}
	if nf := (*domain.NotFoundError)(nil); errors.As(err, &nf) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", nf.Error(), map[string]any{"kind": nf.Kind, "id": nf.ID})
		return
	}
	if fe := (*domain.FormatError)(nil); errors.As(err, &fe) {
		writeError(w, r, http.StatusBadRequest, "FORMAT_ERROR", fe.Reason, map[string]any{"format": fe.Format})
		return
	}
	LoggerFromContext(r.Context()).Error("request failed", zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
