// Package service contains the business logic for the ELD trip planner.
// Services validate inputs, enforce business rules, and orchestrate the
// planning core, route provider, and repos. No SQL lives here — services
// depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/eld-planner/backend/internal/domain"
	"github.com/pkordes/eld-planner/backend/internal/hos"
	"github.com/pkordes/eld-planner/backend/internal/repo"
	"github.com/pkordes/eld-planner/backend/internal/routing"
)

// TripService implements business logic for Trip operations, including the
// full planning pipeline: route lookup, stop scheduling, and log derivation.
type TripService struct {
	trips  repo.TripRepo
	stops  repo.StopRepo
	logs   repo.LogRepo
	routes routing.Provider
}

// NewTripService constructs a TripService backed by the provided repos and
// route provider.
func NewTripService(trips repo.TripRepo, stops repo.StopRepo, logs repo.LogRepo, routes routing.Provider) *TripService {
	return &TripService{trips: trips, stops: stops, logs: logs, routes: routes}
}

// TripPlan is the result of creating a trip: the persisted trip plus its
// generated stops and daily logs.
type TripPlan struct {
	Trip  domain.Trip
	Stops []domain.Stop
	Logs  []domain.DailyLog
}

// Create validates and persists a new trip, then runs the planning pipeline:
// resolve both route legs, build the stop schedule, and derive the daily
// logs. If any step after the trip insert fails, the trip row is deleted so
// no orphaned record survives. Returns domain.ErrValidation for bad input
// and domain.ErrRouteUnavailable when the route provider fails.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (TripPlan, error) {
	if err := validateTrip(trip); err != nil {
		return TripPlan{}, err
	}
	if trip.StartTime.IsZero() {
		trip.StartTime = time.Now().UTC()
	}
	if trip.Status == "" {
		trip.Status = domain.StatusPlanned
	}

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return TripPlan{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	plan, err := s.generate(ctx, created)
	if err != nil {
		// Roll back the trip so a failed plan leaves nothing behind.
		if delErr := s.trips.Delete(ctx, created.ID); delErr != nil {
			slog.ErrorContext(ctx, "failed to roll back trip after plan failure",
				"trip_id", created.ID, "error", delErr)
		}
		return TripPlan{}, err
	}

	return plan, nil
}

// generate runs the planning pipeline for an already-persisted trip and
// stores the resulting stops and logs.
func (s *TripService) generate(ctx context.Context, trip domain.Trip) (TripPlan, error) {
	toPickup, toDropoff, err := s.lookupLegs(ctx, trip)
	if err != nil {
		return TripPlan{}, err
	}

	schedule := hos.BuildSchedule(trip, toPickup, toDropoff)

	updated, err := s.trips.SetTotalDistance(ctx, trip.ID, schedule.TotalDistanceMiles)
	if err != nil {
		return TripPlan{}, fmt.Errorf("service.TripService.generate: %w", err)
	}

	stops, err := s.stops.Replace(ctx, trip.ID, schedule.Stops)
	if err != nil {
		return TripPlan{}, fmt.Errorf("service.TripService.generate: %w", err)
	}

	derived := hos.DeriveLogs(updated, stops)
	if err := validateLogs(derived); err != nil {
		return TripPlan{}, err
	}

	logs, err := s.logs.Replace(ctx, trip.ID, derived)
	if err != nil {
		return TripPlan{}, fmt.Errorf("service.TripService.generate: %w", err)
	}

	return TripPlan{Trip: updated, Stops: stops, Logs: logs}, nil
}

// lookupLegs resolves both route legs concurrently; they have no data
// dependency on each other. Any failure surfaces as ErrRouteUnavailable
// (the provider guarantees the wrapping).
func (s *TripService) lookupLegs(ctx context.Context, trip domain.Trip) (domain.RouteLeg, domain.RouteLeg, error) {
	var toPickup, toDropoff domain.RouteLeg

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		toPickup, err = s.routes.RouteBetween(gctx, trip.CurrentLocation, trip.PickupLocation)
		return err
	})
	g.Go(func() error {
		var err error
		toDropoff, err = s.routes.RouteBetween(gctx, trip.PickupLocation, trip.DropoffLocation)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.RouteLeg{}, domain.RouteLeg{}, fmt.Errorf("service.TripService.lookupLegs: %w", err)
	}
	return toPickup, toDropoff, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns all trips. Always returns a non-nil slice so callers can
// safely range over it.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// UpdateStatus moves a trip to a new lifecycle status.
// Returns domain.ErrValidation for an unknown status.
func (s *TripService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TripStatus) (domain.Trip, error) {
	if !status.Valid() {
		return domain.Trip{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	trip, err := s.trips.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.UpdateStatus: %w", err)
	}
	return trip, nil
}

// Delete removes a trip by ID; its stops and logs cascade.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// ListStops returns a trip's stops ordered by sequence.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) ListStops(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.TripService.ListStops: %w", err)
	}
	stops, err := s.stops.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListStops: %w", err)
	}
	if stops == nil {
		return []domain.Stop{}, nil
	}
	return stops, nil
}

// RegenerateStops re-resolves the trip's route legs and replaces its stop
// set. Repeated calls with unchanged inputs produce an identical set; the
// operation is idempotent. Existing logs are left as-is — call
// RegenerateLogs afterwards to refresh them.
func (s *TripService) RegenerateStops(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.RegenerateStops: %w", err)
	}

	toPickup, toDropoff, err := s.lookupLegs(ctx, trip)
	if err != nil {
		return nil, err
	}

	schedule := hos.BuildSchedule(trip, toPickup, toDropoff)

	if _, err := s.trips.SetTotalDistance(ctx, trip.ID, schedule.TotalDistanceMiles); err != nil {
		return nil, fmt.Errorf("service.TripService.RegenerateStops: %w", err)
	}

	stops, err := s.stops.Replace(ctx, trip.ID, schedule.Stops)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.RegenerateStops: %w", err)
	}
	return stops, nil
}

// RegenerateLogs re-derives the trip's daily logs from its stored stops and
// replaces the log set. Idempotent for unchanged stops.
func (s *TripService) RegenerateLogs(ctx context.Context, tripID uuid.UUID) ([]domain.DailyLog, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.RegenerateLogs: %w", err)
	}

	stops, err := s.stops.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.RegenerateLogs: %w", err)
	}

	derived := hos.DeriveLogs(trip, stops)
	if err := validateLogs(derived); err != nil {
		return nil, err
	}

	logs, err := s.logs.Replace(ctx, tripID, derived)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.RegenerateLogs: %w", err)
	}
	return logs, nil
}

// validateTrip enforces business rules for trip creation.
//   - All three locations must be non-empty.
//   - CycleHoursUsed must be within [0, 70].
func validateTrip(trip domain.Trip) error {
	for _, loc := range []struct {
		name, value string
	}{
		{"current_location", trip.CurrentLocation},
		{"pickup_location", trip.PickupLocation},
		{"dropoff_location", trip.DropoffLocation},
	} {
		if strings.TrimSpace(loc.value) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrValidation, loc.name)
		}
	}
	if trip.CycleHoursUsed < 0 || trip.CycleHoursUsed > hos.CycleLimitHours {
		return fmt.Errorf("%w: cycle_hours_used must be between 0 and 70", domain.ErrValidation)
	}
	return nil
}

// validateLogs rejects a derived log set whose 24-hour accounting is broken.
// A bad sum means the derivation itself misbehaved; nothing is persisted.
// The legal driving/duty caps are deliberately not enforced here: a duty
// window that straddles midnight can legitimately put more than 11 driving
// hours on one calendar date, and such days are surfaced through the
// compliance flag instead of being rejected.
func validateLogs(logs []domain.DailyLog) error {
	for _, l := range logs {
		if math.Abs(l.TotalHours()-24) > hos.SumToleranceHours {
			return fmt.Errorf("%w: log for %s accounts for %.2f hours, want 24",
				domain.ErrValidation, l.Date.Format("2006-01-02"), l.TotalHours())
		}
	}
	return nil
}
