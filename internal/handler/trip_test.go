package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/eld-planner/backend/internal/domain"
	"github.com/pkordes/eld-planner/backend/internal/handler"
	"github.com/pkordes/eld-planner/backend/internal/hos"
	"github.com/pkordes/eld-planner/backend/internal/service"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create          func(ctx context.Context, trip domain.Trip) (service.TripPlan, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list            func(ctx context.Context) ([]domain.Trip, error)
	updateStatus    func(ctx context.Context, id uuid.UUID, status domain.TripStatus) (domain.Trip, error)
	delete          func(ctx context.Context, id uuid.UUID) error
	listStops       func(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error)
	regenerateStops func(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error)
	regenerateLogs  func(ctx context.Context, tripID uuid.UUID) ([]domain.DailyLog, error)
}

func (m *mockTripServicer) Create(ctx context.Context, trip domain.Trip) (service.TripPlan, error) {
	return m.create(ctx, trip)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripServicer) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TripStatus) (domain.Trip, error) {
	return m.updateStatus(ctx, id, status)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripServicer) ListStops(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	return m.listStops(ctx, tripID)
}
func (m *mockTripServicer) RegenerateStops(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	return m.regenerateStops(ctx, tripID)
}
func (m *mockTripServicer) RegenerateLogs(ctx context.Context, tripID uuid.UUID) ([]domain.DailyLog, error) {
	return m.regenerateLogs(ctx, tripID)
}

// compile-time check: mockTripServicer must satisfy handler.TripServicer.
var _ handler.TripServicer = (*mockTripServicer)(nil)

// ---- helpers ---------------------------------------------------------------

func newHTTPHandler(trips handler.TripServicer, logs handler.LogServicer) http.Handler {
	return handler.NewServer(trips, logs).Routes()
}

func tripFixture() domain.Trip {
	miles := 250.0
	return domain.Trip{
		ID:                 uuid.New(),
		CurrentLocation:    "Chicago, IL",
		PickupLocation:     "Indianapolis, IN",
		DropoffLocation:    "Nashville, TN",
		CycleHoursUsed:     20,
		StartTime:          time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC),
		TotalDistanceMiles: &miles,
		Status:             domain.StatusPlanned,
		CreatedAt:          time.Now().UTC(),
		UpdatedAt:          time.Now().UTC(),
	}
}

func planFixture() service.TripPlan {
	trip := tripFixture()
	return service.TripPlan{
		Trip: trip,
		Stops: []domain.Stop{
			{ID: uuid.New(), TripID: trip.ID, Type: domain.StopPickup,
				Location: trip.PickupLocation, ArrivalTime: trip.StartTime.Add(2 * time.Hour),
				DurationHours: 1, Sequence: 1},
			{ID: uuid.New(), TripID: trip.ID, Type: domain.StopDropoff,
				Location: trip.DropoffLocation, ArrivalTime: trip.StartTime.Add(6 * time.Hour),
				DurationHours: 1, Sequence: 2},
		},
		Logs: []domain.DailyLog{
			{ID: uuid.New(), TripID: trip.ID,
				Date:         time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				OffDutyHours: 17, DrivingHours: 5, OnDutyNotDrivingHours: 2,
				CycleHoursUsed: 27, CycleHoursRemaining: 43},
		},
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func doRequest(t *testing.T, h http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createTripBody(t *testing.T) *bytes.Buffer {
	return jsonBody(t, map[string]any{
		"current_location": "Chicago, IL",
		"pickup_location":  "Indianapolis, IN",
		"dropoff_location": "Nashville, TN",
		"cycle_hours_used": 20,
	})
}

// ---- POST /api/trips -------------------------------------------------------

func TestCreateTrip_201(t *testing.T) {
	plan := planFixture()
	svc := &mockTripServicer{
		create: func(_ context.Context, trip domain.Trip) (service.TripPlan, error) {
			assert.Equal(t, "Chicago, IL", trip.CurrentLocation)
			assert.Equal(t, 20.0, trip.CycleHoursUsed)
			return plan, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(svc, nil), http.MethodPost, "/api/trips", createTripBody(t))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Trip  domain.Trip      `json:"trip"`
		Stops []domain.Stop    `json:"stops"`
		Logs  []map[string]any `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, plan.Trip.ID, resp.Trip.ID)
	assert.Len(t, resp.Stops, 2)
	require.Len(t, resp.Logs, 1)
	// The log's date is a plain calendar date and the derived fields ride along.
	assert.Equal(t, "2025-03-01", resp.Logs[0]["date"])
	assert.Equal(t, 24.0, resp.Logs[0]["total_hours"])
	assert.Equal(t, true, resp.Logs[0]["is_compliant"])
}

func TestCreateTrip_400_BadBody(t *testing.T) {
	svc := &mockTripServicer{}

	rec := doRequest(t, newHTTPHandler(svc, nil), http.MethodPost, "/api/trips",
		bytes.NewBufferString(`{"current_location":`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTrip_400_UnknownField(t *testing.T) {
	svc := &mockTripServicer{}

	rec := doRequest(t, newHTTPHandler(svc, nil), http.MethodPost, "/api/trips",
		jsonBody(t, map[string]any{"curent_location": "typo"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTrip_422_Validation(t *testing.T) {
	svc := &mockTripServicer{
		create: func(_ context.Context, _ domain.Trip) (service.TripPlan, error) {
			return service.TripPlan{}, domain.ErrValidation
		},
	}

	rec := doRequest(t, newHTTPHandler(svc, nil), http.MethodPost, "/api/trips", createTripBody(t))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Code)
}

func TestCreateTrip_502_RouteUnavailable(t *testing.T) {
	svc := &mockTripServicer{
		create: func(_ context.Context, _ domain.Trip) (service.TripPlan, error) {
			return service.TripPlan{}, domain.ErrRouteUnavailable
		},
	}

	rec := doRequest(t, newHTTPHandler(svc, nil), http.MethodPost, "/api/trips", createTripBody(t))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

// ---- GET /api/trips --------------------------------------------------------

func TestListTrips_200(t *testing.T) {
	svc := &mockTripServicer{
		list: func(_ context.Context) ([]domain.Trip, error) {
			return []domain.Trip{tripFixture(), tripFixture()}, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(svc, nil), http.MethodGet, "/api/trips", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []domain.Trip `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}

// ---- GET /api/trips/{tripID} -----------------------------------------------

func TestGetTrip_200(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			assert.Equal(t, fixture.ID, id)
			return fixture, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(svc, nil), http.MethodGet, "/api/trips/"+fixture.ID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Trip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, fixture.ID, got.ID)
	require.NotNil(t, got.TotalDistanceMiles)
	assert.Equal(t, 250.0, *got.TotalDistanceMiles)
}

func TestGetTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}

	rec := doRequest(t, newHTTPHandler(svc, nil), http.MethodGet, "/api/trips/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTrip_400_BadID(t *testing.T) {
	svc := &mockTripServicer{}

	rec := doRequest(t, newHTTPHandler(svc, nil), http.MethodGet, "/api/trips/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- DELETE /api/trips/{tripID} ----------------------------------------------

func TestDeleteTrip_204(t *testing.T) {
	svc := &mockTripServicer{
		delete: func(_ context.Context, _ uuid.UUID) error { return nil },
	}

	rec := doRequest(t, newHTTPHandler(svc, nil), http.MethodDelete, "/api/trips/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

// ---- PATCH /api/trips/{tripID}/status ----------------------------------------

func TestUpdateTripStatus_200(t *testing.T) {
	svc := &mockTripServicer{
		updateStatus: func(_ context.Context, id uuid.UUID, status domain.TripStatus) (domain.Trip, error) {
			tr := tripFixture()
			tr.ID = id
			tr.Status = status
			return tr, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(svc, nil), http.MethodPatch,
		"/api/trips/"+uuid.NewString()+"/status",
		jsonBody(t, map[string]any{"status": "in_progress"}))

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Trip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, domain.StatusInProgress, got.Status)
}

func TestUpdateTripStatus_422_Unknown(t *testing.T) {
	svc := &mockTripServicer{
		updateStatus: func(_ context.Context, _ uuid.UUID, _ domain.TripStatus) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrValidation
		},
	}

	rec := doRequest(t, newHTTPHandler(svc, nil), http.MethodPatch,
		"/api/trips/"+uuid.NewString()+"/status",
		jsonBody(t, map[string]any{"status": "parked"}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- GET /api/trips/{tripID}/stops -------------------------------------------

func TestListTripStops_200(t *testing.T) {
	plan := planFixture()
	svc := &mockTripServicer{
		listStops: func(_ context.Context, _ uuid.UUID) ([]domain.Stop, error) {
			return plan.Stops, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(svc, nil), http.MethodGet,
		"/api/trips/"+plan.Trip.ID.String()+"/stops", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []domain.Stop `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, 1, resp.Data[0].Sequence)
}

// ---- POST /api/trips/{tripID}/stops/regenerate -------------------------------

func TestRegenerateStops_200(t *testing.T) {
	plan := planFixture()
	svc := &mockTripServicer{
		regenerateStops: func(_ context.Context, _ uuid.UUID) ([]domain.Stop, error) {
			return plan.Stops, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(svc, nil), http.MethodPost,
		"/api/trips/"+plan.Trip.ID.String()+"/stops/regenerate", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegenerateLogs_502_RouteUnavailable(t *testing.T) {
	svc := &mockTripServicer{
		regenerateLogs: func(_ context.Context, _ uuid.UUID) ([]domain.DailyLog, error) {
			return nil, domain.ErrRouteUnavailable
		},
	}

	rec := doRequest(t, newHTTPHandler(svc, nil), http.MethodPost,
		"/api/trips/"+uuid.NewString()+"/logs/regenerate", nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

// ---- compliance surface ------------------------------------------------------

func TestCreateTrip_NoncompliantLogFlagged(t *testing.T) {
	plan := planFixture()
	plan.Logs[0].DrivingHours = 12 // over the 11h limit
	plan.Logs[0].OffDutyHours = 10 // keep the 24h sum intact

	svc := &mockTripServicer{
		create: func(_ context.Context, _ domain.Trip) (service.TripPlan, error) {
			return plan, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(svc, nil), http.MethodPost, "/api/trips", createTripBody(t))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Logs []struct {
			IsCompliant bool `json:"is_compliant"`
		} `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Logs, 1)
	assert.False(t, resp.Logs[0].IsCompliant)
	assert.False(t, hos.IsCompliant(plan.Logs[0]))
}
