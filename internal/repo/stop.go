package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/eld-planner/backend/internal/domain"
)

// StopRepo defines the persistence operations for Stops. Stops are only ever
// written as a complete set per trip: the scheduler owns their creation and
// regeneration replaces the whole set.
type StopRepo interface {
	// Replace deletes the trip's existing stops and inserts the given ones
	// as one batch, returning the persisted records in sequence order.
	Replace(ctx context.Context, tripID uuid.UUID, stops []domain.Stop) ([]domain.Stop, error)

	// ListByTripID returns all stops for a trip ordered by sequence.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error)
}

// pgStopRepo is the Postgres implementation of StopRepo.
type pgStopRepo struct {
	db db
}

// NewStopRepo constructs a StopRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStopRepo(db db) StopRepo {
	return &pgStopRepo{db: db}
}

const stopColumns = `id, trip_id, location, type, arrival_time, duration_hours, sequence, created_at, updated_at`

// Replace swaps the trip's stop set in a single round trip: one delete plus
// one batched insert per stop. Callers needing strict read consistency
// during regeneration serialize per trip; the repo itself does not lock.
func (r *pgStopRepo) Replace(ctx context.Context, tripID uuid.UUID, stops []domain.Stop) ([]domain.Stop, error) {
	const del = `DELETE FROM stops WHERE trip_id = @trip_id`
	const ins = `
		INSERT INTO stops (trip_id, location, type, arrival_time, duration_hours, sequence)
		VALUES (@trip_id, @location, @type, @arrival_time, @duration_hours, @sequence)
		RETURNING ` + stopColumns

	batch := &pgx.Batch{}
	batch.Queue(del, pgx.NamedArgs{"trip_id": tripID})
	for _, s := range stops {
		batch.Queue(ins, pgx.NamedArgs{
			"trip_id":        tripID,
			"location":       s.Location,
			"type":           s.Type,
			"arrival_time":   s.ArrivalTime,
			"duration_hours": s.DurationHours,
			"sequence":       s.Sequence,
		})
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	if _, err := br.Exec(); err != nil {
		return nil, fmt.Errorf("repo.StopRepo.Replace: delete: %w", err)
	}

	out := make([]domain.Stop, 0, len(stops))
	for range stops {
		s, err := scanStop(br.QueryRow())
		if err != nil {
			return nil, fmt.Errorf("repo.StopRepo.Replace: insert: %w", err)
		}
		out = append(out, s)
	}

	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("repo.StopRepo.Replace: close batch: %w", err)
	}

	return out, nil
}

// ListByTripID returns the trip's stops ordered by sequence ascending.
func (r *pgStopRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	const q = `SELECT ` + stopColumns + ` FROM stops WHERE trip_id = @trip_id ORDER BY sequence`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var stops []domain.Stop
	for rows.Next() {
		s, err := scanStop(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.StopRepo.ListByTripID: scan: %w", err)
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTripID: rows: %w", err)
	}

	return stops, nil
}

// scanStop maps a single database row into a domain.Stop.
func scanStop(s scanner) (domain.Stop, error) {
	var (
		out      domain.Stop
		id       pgtype.UUID
		tripID   pgtype.UUID
		stopType string
	)

	err := s.Scan(&id, &tripID, &out.Location, &stopType, &out.ArrivalTime,
		&out.DurationHours, &out.Sequence, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Stop{}, domain.ErrNotFound
		}
		return domain.Stop{}, err
	}

	out.ID = uuid.UUID(id.Bytes)
	out.TripID = uuid.UUID(tripID.Bytes)
	out.Type = domain.StopType(stopType)

	return out, nil
}
