package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/eld-planner/backend/internal/domain"
)

// LogRepo defines the persistence operations for DailyLogs. Like stops, logs
// are derived in bulk and replaced wholesale on regeneration.
type LogRepo interface {
	// Replace deletes the trip's existing logs and inserts the given ones as
	// one batch, returning the persisted records in date order.
	Replace(ctx context.Context, tripID uuid.UUID, logs []domain.DailyLog) ([]domain.DailyLog, error)

	// ListByTripID returns all logs for a trip ordered by date.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.DailyLog, error)

	// List returns logs matching the filter, ordered by date, with the page
	// applied, plus the total number of matching rows.
	List(ctx context.Context, filter domain.LogFilter, page domain.PaginationParams) ([]domain.DailyLog, int64, error)
}

// pgLogRepo is the Postgres implementation of LogRepo.
type pgLogRepo struct {
	db db
}

// NewLogRepo constructs a LogRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewLogRepo(db db) LogRepo {
	return &pgLogRepo{db: db}
}

const logColumns = `id, trip_id, log_date, off_duty_hours, sleeper_berth_hours,
		driving_hours, on_duty_not_driving_hours, locations_visited,
		cycle_hours_used, cycle_hours_remaining, created_at, updated_at`

// Replace swaps the trip's log set: one delete plus one batched insert per log.
func (r *pgLogRepo) Replace(ctx context.Context, tripID uuid.UUID, logs []domain.DailyLog) ([]domain.DailyLog, error) {
	const del = `DELETE FROM daily_logs WHERE trip_id = @trip_id`
	const ins = `
		INSERT INTO daily_logs (trip_id, log_date, off_duty_hours, sleeper_berth_hours,
		                        driving_hours, on_duty_not_driving_hours, locations_visited,
		                        cycle_hours_used, cycle_hours_remaining)
		VALUES (@trip_id, @log_date, @off_duty_hours, @sleeper_berth_hours,
		        @driving_hours, @on_duty_not_driving_hours, @locations_visited,
		        @cycle_hours_used, @cycle_hours_remaining)
		RETURNING ` + logColumns

	batch := &pgx.Batch{}
	batch.Queue(del, pgx.NamedArgs{"trip_id": tripID})
	for _, l := range logs {
		visited, err := json.Marshal(l.LocationsVisited)
		if err != nil {
			return nil, fmt.Errorf("repo.LogRepo.Replace: encode locations: %w", err)
		}
		batch.Queue(ins, pgx.NamedArgs{
			"trip_id":                   tripID,
			"log_date":                  l.Date,
			"off_duty_hours":            l.OffDutyHours,
			"sleeper_berth_hours":       l.SleeperBerthHours,
			"driving_hours":             l.DrivingHours,
			"on_duty_not_driving_hours": l.OnDutyNotDrivingHours,
			"locations_visited":         visited,
			"cycle_hours_used":          l.CycleHoursUsed,
			"cycle_hours_remaining":     l.CycleHoursRemaining,
		})
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	if _, err := br.Exec(); err != nil {
		return nil, fmt.Errorf("repo.LogRepo.Replace: delete: %w", err)
	}

	out := make([]domain.DailyLog, 0, len(logs))
	for range logs {
		l, err := scanLog(br.QueryRow())
		if err != nil {
			return nil, fmt.Errorf("repo.LogRepo.Replace: insert: %w", err)
		}
		out = append(out, l)
	}

	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("repo.LogRepo.Replace: close batch: %w", err)
	}

	return out, nil
}

// ListByTripID returns the trip's logs ordered by date ascending.
func (r *pgLogRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.DailyLog, error) {
	const q = `SELECT ` + logColumns + ` FROM daily_logs WHERE trip_id = @trip_id ORDER BY log_date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.LogRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	logs, err := collectLogs(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.LogRepo.ListByTripID: %w", err)
	}
	return logs, nil
}

// List returns filtered, paginated logs ordered by date, plus the total count
// of rows matching the filter (for the pagination envelope).
func (r *pgLogRepo) List(ctx context.Context, filter domain.LogFilter, page domain.PaginationParams) ([]domain.DailyLog, int64, error) {
	where, args := buildLogFilter(filter)

	countQ := `SELECT count(*) FROM daily_logs` + where
	var total int64
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.LogRepo.List: count: %w", err)
	}

	args["limit"] = page.Limit
	args["offset"] = page.Offset()
	listQ := `SELECT ` + logColumns + ` FROM daily_logs` + where +
		` ORDER BY log_date LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, listQ, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.LogRepo.List: %w", err)
	}
	defer rows.Close()

	logs, err := collectLogs(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.LogRepo.List: %w", err)
	}
	return logs, total, nil
}

// buildLogFilter translates a LogFilter into a WHERE clause and named args.
func buildLogFilter(filter domain.LogFilter) (string, pgx.NamedArgs) {
	var clauses []string
	args := pgx.NamedArgs{}

	if filter.TripID != nil {
		clauses = append(clauses, "trip_id = @trip_id")
		args["trip_id"] = *filter.TripID
	}
	if filter.StartDate != nil {
		clauses = append(clauses, "log_date >= @start_date")
		args["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		clauses = append(clauses, "log_date <= @end_date")
		args["end_date"] = *filter.EndDate
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func collectLogs(rows pgx.Rows) ([]domain.DailyLog, error) {
	var logs []domain.DailyLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return logs, nil
}

// scanLog maps a single database row into a domain.DailyLog, decoding the
// locations_visited JSONB column.
func scanLog(s scanner) (domain.DailyLog, error) {
	var (
		out     domain.DailyLog
		id      pgtype.UUID
		tripID  pgtype.UUID
		date    pgtype.Date
		visited []byte
	)

	err := s.Scan(&id, &tripID, &date, &out.OffDutyHours, &out.SleeperBerthHours,
		&out.DrivingHours, &out.OnDutyNotDrivingHours, &visited,
		&out.CycleHoursUsed, &out.CycleHoursRemaining, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DailyLog{}, domain.ErrNotFound
		}
		return domain.DailyLog{}, err
	}

	out.ID = uuid.UUID(id.Bytes)
	out.TripID = uuid.UUID(tripID.Bytes)
	out.Date = date.Time
	if len(visited) > 0 {
		if err := json.Unmarshal(visited, &out.LocationsVisited); err != nil {
			return domain.DailyLog{}, fmt.Errorf("decode locations_visited: %w", err)
		}
	}

	return out, nil
}
