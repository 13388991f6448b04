package hos

import (
	"math"
	"sort"
	"time"

	"github.com/pkordes/eld-planner/backend/internal/domain"
)

// Schedule is the output of the stop scheduler: the ordered stop plan plus
// the trip's total distance, which the caller writes back to the trip record
// exactly once.
type Schedule struct {
	Stops              []domain.Stop
	TotalDistanceMiles float64
}

// dutyState is the scheduler's forward-stepping accumulator: the wall clock
// plus the two regulatory counters. The driving counter resets on breaks and
// rests; the duty counter resets only on rests.
type dutyState struct {
	clock   time.Time
	driving float64
	duty    float64
}

// advance moves the clock forward by h hours.
func (st *dutyState) advance(h float64) {
	st.clock = st.clock.Add(hours(h))
}

// rest zeroes both counters after a full rest period.
func (st *dutyState) rest() {
	st.driving = 0
	st.duty = 0
}

// BuildSchedule simulates the trip forward in time and returns the stop
// sequence a compliant driver would follow: the pickup and dropoff events,
// a 30-minute break once 8 hours of driving accumulate, 10-hour rests
// whenever the 11-hour driving or 14-hour duty limit is reached, and one
// fuel stop per full 1000 miles of total distance.
//
// The function is deterministic: the same trip and legs always produce an
// identical schedule. Zero-duration legs still emit their endpoint stops.
func BuildSchedule(trip domain.Trip, toPickup, toDropoff domain.RouteLeg) Schedule {
	total := toPickup.DistanceMiles + toDropoff.DistanceMiles

	st := dutyState{clock: trip.StartTime}
	var stops []domain.Stop

	// Pickup leg: drive it in one step, then an hour of dock time. The leg
	// duration counts toward both counters; the dock hour is duty only.
	st.advance(toPickup.DurationHours)
	stops = append(stops, newStop(trip, domain.StopPickup, trip.PickupLocation, st.clock, PickupHours))
	st.advance(PickupHours)
	st.driving += toPickup.DurationHours
	st.duty += toPickup.DurationHours + PickupHours

	// Mandatory 30-minute break if the first leg alone exhausted the 8-hour
	// driving allowance.
	if st.driving >= BreakAfterDrivingHours {
		stops = append(stops, newStop(trip, domain.StopBreak, trip.PickupLocation, st.clock, BreakHours))
		st.advance(BreakHours)
		st.duty += BreakHours
		st.driving = 0
	}

	// Second leg, consumed incrementally. Each iteration either consumes
	// strictly positive drive time or resets the counters so the next
	// iteration can, which guarantees termination.
	remaining := toDropoff.DurationHours
	location := trip.PickupLocation
	for remaining > 0 {
		limit := math.Min(MaxDrivingHours-st.driving, MaxDutyHours-st.duty)

		switch {
		case limit <= 0 || st.duty >= MaxDutyHours:
			// Out of hours before moving at all: rest in place.
			stops = append(stops, newStop(trip, domain.StopRest, location, st.clock, RestHours))
			st.advance(RestHours)
			st.rest()

		case limit < remaining:
			// Drive up to the limit, then rest immediately rather than
			// deferring. The dropoff label stands in for the true waypoint;
			// placing rests geometrically would need route shape data this
			// core does not have.
			remaining -= limit
			location = trip.DropoffLocation
			st.advance(limit)
			st.driving += limit
			st.duty += limit
			stops = append(stops, newStop(trip, domain.StopRest, location, st.clock, RestHours))
			st.advance(RestHours)
			st.rest()

		default:
			// The rest of the leg fits under the limit.
			st.advance(remaining)
			st.driving += remaining
			st.duty += remaining
			remaining = 0
		}
	}

	stops = append(stops, newStop(trip, domain.StopDropoff, trip.DropoffLocation, st.clock, DropoffHours))

	// One fuel stop per full 1000 miles, placed near the midpoint of the
	// second leg. The naive midpoint can land inside a rest; an overlapping
	// pair of stops would double-count hours in the daily logs, so each fuel
	// stop is nudged forward to the next unoccupied slot and consecutive
	// fuel stops are laid end to end. Like rests, fuel stops borrow the
	// dropoff label.
	fuelArrival := st.clock.Add(-hours(toDropoff.DurationHours / 2))
	for i := 0; i < int(total/FuelIntervalMiles); i++ {
		fuelArrival = nextFreeSlot(stops, fuelArrival, FuelHours)
		stops = append(stops, newStop(trip, domain.StopFuel, trip.DropoffLocation, fuelArrival, FuelHours))
		fuelArrival = fuelArrival.Add(hours(FuelHours))
	}

	// Fuel stops are emitted after the rests they chronologically precede,
	// so order by arrival before numbering. The sort is stable, keeping the
	// emission order for equal timestamps, which keeps the output
	// deterministic.
	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].ArrivalTime.Before(stops[j].ArrivalTime)
	})
	for i := range stops {
		stops[i].Sequence = i + 1
	}

	return Schedule{Stops: stops, TotalDistanceMiles: total}
}

// nextFreeSlot advances from until an interval of the given length no longer
// intersects any existing stop. Each shift jumps to the blocking stop's end
// and rescans, since the shifted slot may now collide with a later entry.
func nextFreeSlot(stops []domain.Stop, from time.Time, duration float64) time.Time {
	end := from.Add(hours(duration))
	for i := 0; i < len(stops); {
		s := stops[i]
		if from.Before(s.End()) && s.ArrivalTime.Before(end) {
			from = s.End()
			end = from.Add(hours(duration))
			i = 0
			continue
		}
		i++
	}
	return from
}

func newStop(trip domain.Trip, t domain.StopType, location string, arrival time.Time, duration float64) domain.Stop {
	return domain.Stop{
		TripID:        trip.ID,
		Location:      location,
		Type:          t,
		ArrivalTime:   arrival,
		DurationHours: duration,
	}
}
