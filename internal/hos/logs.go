package hos

import (
	"math"
	"sort"
	"time"

	"github.com/pkordes/eld-planner/backend/internal/domain"
)

// CycleWindowPolicy selects how the trailing 70-hour cycle window is measured
// when deriving logs.
type CycleWindowPolicy int

const (
	// WindowByLogCount drops hours from the 8th-prior produced log. Days with
	// no overlapping stops produce no log and never occupy a window slot, so
	// the window can span more than 8 calendar days across travel gaps. This
	// matches the ledger semantics existing consumers of these logs expect.
	WindowByLogCount CycleWindowPolicy = iota

	// WindowByCalendarDays drops hours from every log dated 8 or more days
	// before the current log, regardless of how many logs sit in between.
	WindowByCalendarDays
)

// DeriveLogs partitions a trip's stop schedule into one duty log per calendar
// day, using the log-count cycle window. See DeriveLogsWithPolicy.
func DeriveLogs(trip domain.Trip, stops []domain.Stop) []domain.DailyLog {
	return DeriveLogsWithPolicy(trip, stops, WindowByLogCount)
}

// DeriveLogsWithPolicy walks calendar days from the trip's start date through
// the day after the last stop's arrival. For each day touched by at least one
// stop it classifies the day's clipped stop intervals into duty buckets,
// credits the driving segments between same-day stops plus the initial drive
// from the trip start to the first stop, pads the remainder of the day with
// off-duty time so the four buckets sum to exactly 24 hours, and snapshots
// the rolling cycle ledger.
//
// Days with no overlapping stops produce no log at all. The function is pure
// and deterministic; an empty stop list yields no logs.
func DeriveLogsWithPolicy(trip domain.Trip, stops []domain.Stop, policy CycleWindowPolicy) []domain.DailyLog {
	if len(stops) == 0 {
		return nil
	}

	ordered := make([]domain.Stop, len(stops))
	copy(ordered, stops)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Sequence < ordered[j].Sequence
	})

	day := dateOf(trip.StartTime)
	// Include the day after the last stop so a rest or dropoff spilling past
	// midnight still gets its log.
	end := dateOf(ordered[len(ordered)-1].ArrivalTime).AddDate(0, 0, 1)

	cycle := trip.CycleHoursUsed
	windowStart := 0 // index of the oldest log still inside a calendar window
	var logs []domain.DailyLog

	// The drive from the current location to the first stop has no preceding
	// stop to form a gap with, so it is carried as its own segment.
	lead := DrivingSegment{Start: trip.StartTime, End: ordered[0].ArrivalTime}

	for ; !day.After(end); day = day.AddDate(0, 0, 1) {
		dayStops := stopsOverlapping(ordered, day)
		if len(dayStops) == 0 {
			continue
		}

		dayStart := day
		dayEnd := day.AddDate(0, 0, 1)

		var off, sleeper, driving, onDuty float64
		for _, s := range dayStops {
			h := clipHours(s.ArrivalTime, s.End(), dayStart, dayEnd)
			switch s.Type {
			case domain.StopRest:
				// A rest splits into up to 8 sleeper-berth hours, remainder
				// off duty.
				sleeper += math.Min(SleeperBerthHours, h)
				off += math.Max(0, h-SleeperBerthHours)
			case domain.StopBreak:
				off += h
			default: // pickup, dropoff, fuel
				onDuty += h
			}
		}

		driving += clipHours(lead.Start, lead.End, dayStart, dayEnd)
		for _, seg := range DrivingSegments(dayStops) {
			driving += clipHours(seg.Start, seg.End, dayStart, dayEnd)
		}

		// Pad to a full 24-hour day. Never subtract: an overshoot would be a
		// construction bug and is left visible for the compliance check.
		if total := off + sleeper + driving + onDuty; total < 24 {
			off += 24 - total
		}

		cycle += driving + onDuty
		switch policy {
		case WindowByCalendarDays:
			cutoff := day.AddDate(0, 0, -(CycleWindowLogs - 1))
			for windowStart < len(logs) && logs[windowStart].Date.Before(cutoff) {
				cycle -= logs[windowStart].DrivingHours + logs[windowStart].OnDutyNotDrivingHours
				windowStart++
			}
		default: // WindowByLogCount
			if len(logs) >= CycleWindowLogs {
				prior := logs[len(logs)-CycleWindowLogs]
				cycle -= prior.DrivingHours + prior.OnDutyNotDrivingHours
			}
		}
		// Used hours never go negative; remaining may, signalling over-cycle.
		cycle = math.Max(0, cycle)

		logs = append(logs, domain.DailyLog{
			TripID:                trip.ID,
			Date:                  day,
			OffDutyHours:          off,
			SleeperBerthHours:     sleeper,
			DrivingHours:          driving,
			OnDutyNotDrivingHours: onDuty,
			LocationsVisited:      visits(dayStops),
			CycleHoursUsed:        cycle,
			CycleHoursRemaining:   CycleLimitHours - cycle,
		})
	}

	return logs
}

// stopsOverlapping returns, in sequence order, the stops whose interval
// touches the given calendar day. The comparison is by endpoint date, so a
// stop ending exactly at midnight still counts for the day it ends on.
func stopsOverlapping(ordered []domain.Stop, day time.Time) []domain.Stop {
	var out []domain.Stop
	for _, s := range ordered {
		if !dateOf(s.ArrivalTime).After(day) && !dateOf(s.End()).Before(day) {
			out = append(out, s)
		}
	}
	return out
}

// clipHours returns the length in hours of [start, end) clipped to
// [lo, hi), or 0 when the clipped interval is empty.
func clipHours(start, end, lo, hi time.Time) float64 {
	if start.Before(lo) {
		start = lo
	}
	if end.After(hi) {
		end = hi
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours()
}

// visits snapshots the day's stops for the log's audit trail.
func visits(dayStops []domain.Stop) []domain.StopVisit {
	out := make([]domain.StopVisit, len(dayStops))
	for i, s := range dayStops {
		out[i] = domain.StopVisit{
			Location:      s.Location,
			Type:          s.Type,
			ArrivalTime:   s.ArrivalTime,
			DurationHours: s.DurationHours,
		}
	}
	return out
}
