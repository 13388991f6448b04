package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/eld-planner/backend/internal/domain"
	"github.com/pkordes/eld-planner/backend/internal/hos"
	"github.com/pkordes/eld-planner/backend/internal/repo"
)

// LogService implements read-side operations over daily logs: filtered
// listing and on-demand summary derivation. Logs are only written through
// the TripService planning pipeline.
type LogService struct {
	trips repo.TripRepo
	logs  repo.LogRepo
}

// NewLogService constructs a LogService backed by the provided repos.
func NewLogService(trips repo.TripRepo, logs repo.LogRepo) *LogService {
	return &LogService{trips: trips, logs: logs}
}

// List returns logs matching the filter, ordered by date, with pagination
// applied, plus the total number of matching logs. Always returns a non-nil
// slice so callers can safely range over it.
func (s *LogService) List(ctx context.Context, filter domain.LogFilter, page domain.PaginationParams) ([]domain.DailyLog, int64, error) {
	logs, total, err := s.logs.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("service.LogService.List: %w", err)
	}
	if logs == nil {
		logs = []domain.DailyLog{}
	}
	return logs, total, nil
}

// ListByTrip returns all logs for a trip ordered by date.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *LogService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DailyLog, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.LogService.ListByTrip: %w", err)
	}
	logs, err := s.logs.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.LogService.ListByTrip: %w", err)
	}
	if logs == nil {
		return []domain.DailyLog{}, nil
	}
	return logs, nil
}

// Summarize aggregates the logs matching the filter into duty totals,
// averages, and a compliance rate. Returns domain.ErrNotFound when no logs
// match, so the handler can answer 404 rather than an all-zero summary.
func (s *LogService) Summarize(ctx context.Context, filter domain.LogFilter) (hos.Summary, error) {
	// Summaries cover the entire match, so page through nothing: fetch all
	// rows with the widest page the repo allows per call.
	var all []domain.DailyLog
	page := domain.PaginationParams{Page: 1, Limit: 100}
	for {
		logs, total, err := s.logs.List(ctx, filter, page)
		if err != nil {
			return hos.Summary{}, fmt.Errorf("service.LogService.Summarize: %w", err)
		}
		all = append(all, logs...)
		if int64(len(all)) >= total || len(logs) == 0 {
			break
		}
		page.Page++
	}

	if len(all) == 0 {
		return hos.Summary{}, fmt.Errorf("service.LogService.Summarize: no logs match filter: %w", domain.ErrNotFound)
	}

	return hos.Summarize(all), nil
}
