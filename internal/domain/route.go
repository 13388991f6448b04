package domain

// RouteLeg is the driving distance and duration between two locations, as
// resolved by a route provider. The planning core consumes only these two
// numbers and never sees how they were computed.
type RouteLeg struct {
	DistanceMiles float64 `json:"distance_miles"`
	DurationHours float64 `json:"duration_hours"`
}
