package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/eld-planner/backend/internal/domain"
	"github.com/pkordes/eld-planner/backend/internal/handler"
	"github.com/pkordes/eld-planner/backend/internal/hos"
)

// mockLogServicer is a test double for handler.LogServicer.
type mockLogServicer struct {
	list       func(ctx context.Context, filter domain.LogFilter, page domain.PaginationParams) ([]domain.DailyLog, int64, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.DailyLog, error)
	summarize  func(ctx context.Context, filter domain.LogFilter) (hos.Summary, error)
}

func (m *mockLogServicer) List(ctx context.Context, filter domain.LogFilter, page domain.PaginationParams) ([]domain.DailyLog, int64, error) {
	return m.list(ctx, filter, page)
}
func (m *mockLogServicer) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DailyLog, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockLogServicer) Summarize(ctx context.Context, filter domain.LogFilter) (hos.Summary, error) {
	return m.summarize(ctx, filter)
}

var _ handler.LogServicer = (*mockLogServicer)(nil)

func logFixture() domain.DailyLog {
	return domain.DailyLog{
		ID:                    uuid.New(),
		TripID:                uuid.New(),
		Date:                  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		OffDutyHours:          14,
		SleeperBerthHours:     0,
		DrivingHours:          8,
		OnDutyNotDrivingHours: 2,
		CycleHoursUsed:        30,
		CycleHoursRemaining:   40,
	}
}

// ---- GET /api/trips/{tripID}/logs --------------------------------------------

func TestListTripLogs_200(t *testing.T) {
	logs := &mockLogServicer{
		listByTrip: func(_ context.Context, _ uuid.UUID) ([]domain.DailyLog, error) {
			return []domain.DailyLog{logFixture()}, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(nil, logs), http.MethodGet,
		"/api/trips/"+uuid.NewString()+"/logs", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "2025-03-01", resp.Data[0]["date"])
	assert.Equal(t, true, resp.Data[0]["is_compliant"])
	// Nil visit lists serialize as [], not null.
	assert.Equal(t, []any{}, resp.Data[0]["locations_visited"])
}

func TestListTripLogs_404(t *testing.T) {
	logs := &mockLogServicer{
		listByTrip: func(_ context.Context, _ uuid.UUID) ([]domain.DailyLog, error) {
			return nil, domain.ErrNotFound
		},
	}

	rec := doRequest(t, newHTTPHandler(nil, logs), http.MethodGet,
		"/api/trips/"+uuid.NewString()+"/logs", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- GET /api/logs -----------------------------------------------------------

func TestListLogs_200_WithFilters(t *testing.T) {
	tripID := uuid.New()

	var gotFilter domain.LogFilter
	var gotPage domain.PaginationParams
	logs := &mockLogServicer{
		list: func(_ context.Context, filter domain.LogFilter, page domain.PaginationParams) ([]domain.DailyLog, int64, error) {
			gotFilter = filter
			gotPage = page
			return []domain.DailyLog{logFixture()}, 1, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(nil, logs), http.MethodGet,
		"/api/logs?trip_id="+tripID.String()+"&start_date=2025-03-01&end_date=2025-03-05&page=2&limit=10", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, gotFilter.TripID)
	assert.Equal(t, tripID, *gotFilter.TripID)
	require.NotNil(t, gotFilter.StartDate)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *gotFilter.StartDate)
	require.NotNil(t, gotFilter.EndDate)
	assert.Equal(t, 2, gotPage.Page)
	assert.Equal(t, 10, gotPage.Limit)

	var resp struct {
		Pagination struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Total int `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 1, resp.Pagination.Total)
}

func TestListLogs_400_BadTripID(t *testing.T) {
	rec := doRequest(t, newHTTPHandler(nil, &mockLogServicer{}), http.MethodGet,
		"/api/logs?trip_id=nope", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListLogs_400_BadDate(t *testing.T) {
	rec := doRequest(t, newHTTPHandler(nil, &mockLogServicer{}), http.MethodGet,
		"/api/logs?start_date=03-01-2025", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- GET /api/logs/summary ---------------------------------------------------

func TestLogSummary_200(t *testing.T) {
	logs := &mockLogServicer{
		summarize: func(_ context.Context, _ domain.LogFilter) (hos.Summary, error) {
			return hos.Summarize([]domain.DailyLog{logFixture()}), nil
		},
	}

	rec := doRequest(t, newHTTPHandler(nil, logs), http.MethodGet, "/api/logs/summary", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var got hos.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.LogCount)
	assert.InDelta(t, 8, got.TotalDrivingHours, 1e-9)
	assert.InDelta(t, 100, got.ComplianceRate, 1e-9)
}

func TestLogSummary_404_NoMatches(t *testing.T) {
	logs := &mockLogServicer{
		summarize: func(_ context.Context, _ domain.LogFilter) (hos.Summary, error) {
			return hos.Summary{}, domain.ErrNotFound
		},
	}

	rec := doRequest(t, newHTTPHandler(nil, logs), http.MethodGet,
		"/api/logs/summary?trip_id="+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
