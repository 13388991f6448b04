// Package handler implements the HTTP handlers for the ELD trip planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, log.go) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/eld-planner/backend/internal/domain"
	"github.com/pkordes/eld-planner/backend/internal/hos"
	"github.com/pkordes/eld-planner/backend/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (service.TripPlan, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TripStatus) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListStops(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error)
	RegenerateStops(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error)
	RegenerateLogs(ctx context.Context, tripID uuid.UUID) ([]domain.DailyLog, error)
}

// LogServicer defines the business operations the log handlers depend on.
type LogServicer interface {
	List(ctx context.Context, filter domain.LogFilter, page domain.PaginationParams) ([]domain.DailyLog, int64, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DailyLog, error)
	Summarize(ctx context.Context, filter domain.LogFilter) (hos.Summary, error)
}

// Server holds the dependencies for all API endpoints.
type Server struct {
	trips TripServicer
	logs  LogServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, logs LogServicer) *Server {
	return &Server{trips: trips, logs: logs}
}

// Routes returns the chi router for the full API surface.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/openapi.yaml", s.handleOpenAPI)

	r.Route("/api", func(r chi.Router) {
		r.Route("/trips", func(r chi.Router) {
			r.Post("/", s.handleCreateTrip)
			r.Get("/", s.handleListTrips)
			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", s.handleGetTrip)
				r.Delete("/", s.handleDeleteTrip)
				r.Patch("/status", s.handleUpdateTripStatus)
				r.Get("/stops", s.handleListTripStops)
				r.Get("/logs", s.handleListTripLogs)
				r.Post("/stops/regenerate", s.handleRegenerateStops)
				r.Post("/logs/regenerate", s.handleRegenerateLogs)
			})
		})
		r.Route("/logs", func(r chi.Router) {
			r.Get("/", s.handleListLogs)
			r.Get("/summary", s.handleLogSummary)
		})
	})

	return r
}
