package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. cycle hours outside [0, 70], unknown status).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrRouteUnavailable is returned when the route provider fails, returns no
// usable route, or cannot resolve a location. The planner treats every
// provider failure as this single condition and never partially recovers:
// trip creation aborts and the caller rolls back the trip record.
// Handlers should map this to HTTP 502 Bad Gateway.
var ErrRouteUnavailable = errors.New("route unavailable")
