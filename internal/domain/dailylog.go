package domain

import (
	"time"

	"github.com/google/uuid"
)

// StopVisit is one entry in a daily log's locations-visited audit trail.
// It is a display snapshot of a stop, stored as JSON alongside the log so the
// log remains readable even after stops are regenerated.
type StopVisit struct {
	Location      string    `json:"location"`
	Type          StopType  `json:"type"`
	ArrivalTime   time.Time `json:"arrival_time"`
	DurationHours float64   `json:"duration_hours"`
}

// DailyLog is one calendar day's duty-hour partition for a trip. The four
// hour buckets always sum to 24 (within a small float tolerance) for a
// correctly constructed log. Exactly one log exists per (trip, date) pair.
//
// CycleHoursUsed / CycleHoursRemaining are a snapshot of the rolling
// 70-hour/8-day ledger as of this day. Remaining may go negative when the
// driver is over cycle; Used never does.
type DailyLog struct {
	ID     uuid.UUID `json:"id"`
	TripID uuid.UUID `json:"trip_id"`
	Date   time.Time `json:"date"`

	OffDutyHours          float64 `json:"off_duty_hours"`
	SleeperBerthHours     float64 `json:"sleeper_berth_hours"`
	DrivingHours          float64 `json:"driving_hours"`
	OnDutyNotDrivingHours float64 `json:"on_duty_not_driving_hours"`

	LocationsVisited []StopVisit `json:"locations_visited"`

	CycleHoursUsed      float64 `json:"cycle_hours_used"`
	CycleHoursRemaining float64 `json:"cycle_hours_remaining"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalHours returns the sum of the four duty buckets.
func (l DailyLog) TotalHours() float64 {
	return l.OffDutyHours + l.SleeperBerthHours + l.DrivingHours + l.OnDutyNotDrivingHours
}

// LogFilter narrows a daily-log listing. Zero values mean "no constraint".
// Dates are compared against the log's calendar date, inclusive on both ends.
type LogFilter struct {
	TripID    *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}
