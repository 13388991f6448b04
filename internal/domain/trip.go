// Package domain contains the core data types for the ELD trip planner.
// This package has no dependencies beyond uuid and is imported by every
// other internal package (hos, routing, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a trip. Status transitions happen at
// the API layer; the planning core never changes a trip's status.
type TripStatus string

const (
	StatusPlanned    TripStatus = "planned"
	StatusInProgress TripStatus = "in_progress"
	StatusCompleted  TripStatus = "completed"
	StatusCancelled  TripStatus = "cancelled"
)

// Valid reports whether s is one of the known trip statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Trip represents a single driving assignment: drive from the current
// location to the pickup, then haul to the dropoff. A trip is the top-level
// aggregate; stops and daily logs belong to a trip.
//
// Location fields are opaque descriptors (free-form address or "lon,lat"
// coordinates); only the route provider interprets them.
type Trip struct {
	ID              uuid.UUID `json:"id"`
	CurrentLocation string    `json:"current_location"`
	PickupLocation  string    `json:"pickup_location"`
	DropoffLocation string    `json:"dropoff_location"`

	// CycleHoursUsed is the on-duty time already consumed in the trailing
	// 70-hour/8-day window when the trip starts. Must be in [0, 70].
	CycleHoursUsed float64   `json:"cycle_hours_used"`
	StartTime      time.Time `json:"start_time"`

	// TotalDistanceMiles is derived from the two route legs and written
	// exactly once by the stop scheduler. Nil until stops are generated.
	TotalDistanceMiles *float64 `json:"total_distance_miles,omitempty"`

	Status    TripStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
