// Package hos implements the Hours-of-Service planning core: the stop
// scheduler that turns route legs into a compliant stop sequence, the log
// deriver that partitions the schedule into daily duty logs, and the
// compliance and summary predicates over those logs.
//
// Everything in this package is a pure function of its inputs. Persistence
// and route lookups live in other packages; the service layer wires them
// together.
package hos

import "time"

// Regulatory limits and fixed event durations, in hours unless noted.
// These encode the US property-carrying HOS rules the scheduler enforces.
const (
	// MaxDrivingHours is the 11-hour driving limit between rest periods.
	MaxDrivingHours = 11.0
	// MaxDutyHours is the 14-hour on-duty window between rest periods.
	MaxDutyHours = 14.0
	// BreakAfterDrivingHours is the accumulated driving that forces a
	// 30-minute break.
	BreakAfterDrivingHours = 8.0
	// BreakHours is the duration of a mandatory driving break.
	BreakHours = 0.5
	// RestHours is the combined sleeper-berth + off-duty reset period.
	RestHours = 10.0
	// SleeperBerthHours is the portion of a rest period logged as sleeper
	// berth; the remainder is logged off duty.
	SleeperBerthHours = 8.0

	// PickupHours and DropoffHours are fixed dock service times.
	PickupHours  = 1.0
	DropoffHours = 1.0

	// FuelIntervalMiles yields one fuel stop per full interval of total
	// trip distance. FuelHours is the duration of each fuel stop.
	FuelIntervalMiles = 1000.0
	FuelHours         = 0.5

	// CycleLimitHours is the 70-hour on-duty ceiling for the trailing cycle
	// window. CycleWindowLogs is the window length, measured in produced
	// logs (see CycleWindowPolicy).
	CycleLimitHours = 70.0
	CycleWindowLogs = 8
)

// hours converts a fractional hour count to a time.Duration.
func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

// dateOf truncates t to its UTC calendar date at midnight.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
