package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/eld-planner/backend/internal/domain"
)

// createTripRequest is the body for POST /api/trips.
type createTripRequest struct {
	CurrentLocation string     `json:"current_location"`
	PickupLocation  string     `json:"pickup_location"`
	DropoffLocation string     `json:"dropoff_location"`
	CycleHoursUsed  float64    `json:"cycle_hours_used"`
	StartTime       *time.Time `json:"start_time,omitempty"`
}

// tripPlanResponse is the body for a successful trip creation: the trip plus
// everything the planner generated for it.
type tripPlanResponse struct {
	Trip  domain.Trip   `json:"trip"`
	Stops []domain.Stop `json:"stops"`
	Logs  []logResponse `json:"logs"`
}

// handleCreateTrip handles POST /api/trips: persist the trip, resolve its
// route legs, and generate stops and daily logs in one call.
func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	trip := domain.Trip{
		CurrentLocation: req.CurrentLocation,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		CycleHoursUsed:  req.CycleHoursUsed,
	}
	if req.StartTime != nil {
		trip.StartTime = *req.StartTime
	}

	plan, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tripPlanResponse{
		Trip:  plan.Trip,
		Stops: plan.Stops,
		Logs:  logsToResponse(plan.Logs),
	})
}

// handleListTrips handles GET /api/trips.
func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": trips})
}

// handleGetTrip handles GET /api/trips/{tripID}.
func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTripID(w, r)
	if !ok {
		return
	}
	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// handleDeleteTrip handles DELETE /api/trips/{tripID}.
func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTripID(w, r)
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// updateStatusRequest is the body for PATCH /api/trips/{tripID}/status.
type updateStatusRequest struct {
	Status domain.TripStatus `json:"status"`
}

// handleUpdateTripStatus handles PATCH /api/trips/{tripID}/status.
func (s *Server) handleUpdateTripStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTripID(w, r)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	trip, err := s.trips.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// handleListTripStops handles GET /api/trips/{tripID}/stops.
func (s *Server) handleListTripStops(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTripID(w, r)
	if !ok {
		return
	}
	stops, err := s.trips.ListStops(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": stops})
}

// handleRegenerateStops handles POST /api/trips/{tripID}/stops/regenerate.
// The prior stop set is discarded and recomputed; unchanged inputs yield an
// identical set.
func (s *Server) handleRegenerateStops(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTripID(w, r)
	if !ok {
		return
	}
	stops, err := s.trips.RegenerateStops(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": stops})
}

// handleRegenerateLogs handles POST /api/trips/{tripID}/logs/regenerate.
func (s *Server) handleRegenerateLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTripID(w, r)
	if !ok {
		return
	}
	logs, err := s.trips.RegenerateLogs(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": logsToResponse(logs)})
}

// parseTripID extracts and parses the {tripID} path parameter, writing a 400
// response and returning ok=false when it is not a UUID.
func parseTripID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		respondBadRequest(w, "invalid trip id")
		return uuid.Nil, false
	}
	return id, true
}
