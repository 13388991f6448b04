package handler

import (
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/eld-planner/backend/internal/domain"
	"github.com/pkordes/eld-planner/backend/internal/hos"
)

// logResponse is the wire shape of a daily log. The calendar date is
// rendered as a plain 2006-01-02 date rather than a full timestamp, and the
// derived total/compliance fields are included the way the log review UI
// expects them.
type logResponse struct {
	ID                    uuid.UUID          `json:"id"`
	TripID                uuid.UUID          `json:"trip_id"`
	Date                  openapi_types.Date `json:"date"`
	OffDutyHours          float64            `json:"off_duty_hours"`
	SleeperBerthHours     float64            `json:"sleeper_berth_hours"`
	DrivingHours          float64            `json:"driving_hours"`
	OnDutyNotDrivingHours float64            `json:"on_duty_not_driving_hours"`
	LocationsVisited      []domain.StopVisit `json:"locations_visited"`
	CycleHoursUsed        float64            `json:"cycle_hours_used"`
	CycleHoursRemaining   float64            `json:"cycle_hours_remaining"`
	TotalHours            float64            `json:"total_hours"`
	IsCompliant           bool               `json:"is_compliant"`
}

// handleListTripLogs handles GET /api/trips/{tripID}/logs.
func (s *Server) handleListTripLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTripID(w, r)
	if !ok {
		return
	}
	logs, err := s.logs.ListByTrip(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": logsToResponse(logs)})
}

// handleListLogs handles GET /api/logs with optional trip_id, start_date,
// end_date filters and page/limit pagination.
func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseLogFilter(w, r)
	if !ok {
		return
	}
	page := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))

	logs, total, err := s.logs.List(r.Context(), filter, page)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":       logsToResponse(logs),
		"pagination": pagination{Page: page.Page, Limit: page.Limit, Total: int(total)},
	})
}

// handleLogSummary handles GET /api/logs/summary with the same filters as
// the listing endpoint. Responds 404 when no logs match.
func (s *Server) handleLogSummary(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseLogFilter(w, r)
	if !ok {
		return
	}
	summary, err := s.logs.Summarize(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// parseLogFilter reads the trip_id / start_date / end_date query parameters,
// writing a 400 response and returning ok=false on a malformed value.
func parseLogFilter(w http.ResponseWriter, r *http.Request) (domain.LogFilter, bool) {
	var filter domain.LogFilter

	if raw := r.URL.Query().Get("trip_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondBadRequest(w, "invalid trip_id")
			return domain.LogFilter{}, false
		}
		filter.TripID = &id
	}

	var err error
	if filter.StartDate, err = queryDate(r, "start_date"); err != nil {
		respondBadRequest(w, "invalid start_date, want YYYY-MM-DD")
		return domain.LogFilter{}, false
	}
	if filter.EndDate, err = queryDate(r, "end_date"); err != nil {
		respondBadRequest(w, "invalid end_date, want YYYY-MM-DD")
		return domain.LogFilter{}, false
	}

	return filter, true
}

// logsToResponse maps domain logs to their wire shape.
func logsToResponse(logs []domain.DailyLog) []logResponse {
	out := make([]logResponse, len(logs))
	for i, l := range logs {
		out[i] = logToResponse(l)
	}
	return out
}

func logToResponse(l domain.DailyLog) logResponse {
	visited := l.LocationsVisited
	if visited == nil {
		visited = []domain.StopVisit{}
	}
	return logResponse{
		ID:                    l.ID,
		TripID:                l.TripID,
		Date:                  openapi_types.Date{Time: l.Date},
		OffDutyHours:          l.OffDutyHours,
		SleeperBerthHours:     l.SleeperBerthHours,
		DrivingHours:          l.DrivingHours,
		OnDutyNotDrivingHours: l.OnDutyNotDrivingHours,
		LocationsVisited:      visited,
		CycleHoursUsed:        l.CycleHoursUsed,
		CycleHoursRemaining:   l.CycleHoursRemaining,
		TotalHours:            l.TotalHours(),
		IsCompliant:           hos.IsCompliant(l),
	}
}
