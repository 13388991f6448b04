package domain

import (
	"time"

	"github.com/google/uuid"
)

// StopType classifies a scheduled stop along a trip.
type StopType string

const (
	StopPickup  StopType = "pickup"
	StopDropoff StopType = "dropoff"
	StopRest    StopType = "rest"
	StopBreak   StopType = "break"
	StopFuel    StopType = "fuel"
)

// Valid reports whether t is one of the known stop types.
func (t StopType) Valid() bool {
	switch t {
	case StopPickup, StopDropoff, StopRest, StopBreak, StopFuel:
		return true
	}
	return false
}

// Stop is one scheduled event along a trip. Stops are created in bulk by the
// stop scheduler and replaced wholesale on regeneration; nothing edits a stop
// in place.
//
// Sequence is the only ordering relation: a strictly increasing integer
// starting at 1. Arrival times are non-decreasing in sequence for a freshly
// generated schedule, but sequence stays authoritative for manually edited
// data.
type Stop struct {
	ID            uuid.UUID `json:"id"`
	TripID        uuid.UUID `json:"trip_id"`
	Location      string    `json:"location"`
	Type          StopType  `json:"type"`
	ArrivalTime   time.Time `json:"arrival_time"`
	DurationHours float64   `json:"duration_hours"`
	Sequence      int       `json:"sequence"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// End returns the instant the stop's interval closes (arrival + duration).
func (s Stop) End() time.Time {
	return s.ArrivalTime.Add(time.Duration(s.DurationHours * float64(time.Hour)))
}
