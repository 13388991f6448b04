package hos

import (
	"time"

	"github.com/pkordes/eld-planner/backend/internal/domain"
)

// DrivingSegment is an implicit driving interval between two scheduled stops.
// No "driving" stop type exists; driving time is whatever elapses between one
// stop's end and the next stop's arrival.
type DrivingSegment struct {
	Start time.Time
	End   time.Time
}

// Hours returns the segment's length in fractional hours.
func (s DrivingSegment) Hours() float64 {
	return s.End.Sub(s.Start).Hours()
}

// DrivingSegments derives the driving intervals implied by an ordered stop
// list: one segment per adjacent pair, from the first stop's end to the
// second stop's arrival. Pairs whose interval is empty or negative (stops
// that touch or overlap, e.g. a fuel stop pinned inside a rest) yield no
// segment.
func DrivingSegments(stops []domain.Stop) []DrivingSegment {
	var segs []DrivingSegment
	for i := 0; i+1 < len(stops); i++ {
		start := stops[i].End()
		end := stops[i+1].ArrivalTime
		if end.After(start) {
			segs = append(segs, DrivingSegment{Start: start, End: end})
		}
	}
	return segs
}
