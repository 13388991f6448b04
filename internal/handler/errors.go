package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/eld-planner/backend/internal/domain"
)

// errorResponse is the JSON error envelope for every non-2xx response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps domain sentinel errors to HTTP status codes:
// ErrNotFound → 404, ErrValidation → 422, ErrRouteUnavailable → 502.
// Anything else is a 500 with the detail kept out of the response body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound,
			errorResponse{Error: errorDetail{Code: "not_found", Message: "not found"}})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity,
			errorResponse{Error: errorDetail{Code: "validation_error", Message: unwrapMessage(err)}})
	case errors.Is(err, domain.ErrRouteUnavailable):
		writeJSON(w, http.StatusBadGateway,
			errorResponse{Error: errorDetail{Code: "route_unavailable", Message: unwrapMessage(err)}})
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError,
			errorResponse{Error: errorDetail{Code: "internal_error", Message: "internal server error"}})
	}
}

// respondBadRequest rejects a malformed request before it reaches the
// service layer (bad body, unparseable parameter).
func respondBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest,
		errorResponse{Error: errorDetail{Code: "bad_request", Message: message}})
}

// unwrapMessage extracts the human-readable tail from a wrapped sentinel error.
// e.g. "service.TripService.Create: validation error: cycle_hours_used must be
// between 0 and 70" → "cycle_hours_used must be between 0 and 70".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, marker := range []string{
		domain.ErrValidation.Error() + ": ",
		domain.ErrRouteUnavailable.Error() + ": ",
	} {
		if i := strings.LastIndex(msg, marker); i >= 0 {
			return msg[i+len(marker):]
		}
	}
	return msg
}
