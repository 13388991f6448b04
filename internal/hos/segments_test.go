package hos_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/eld-planner/backend/internal/domain"
	"github.com/pkordes/eld-planner/backend/internal/hos"
)

func TestDrivingSegments(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	stops := []domain.Stop{
		stopAt(1, domain.StopPickup, base.Add(2*time.Hour), 1),  // ends 03:00
		stopAt(2, domain.StopRest, base.Add(8*time.Hour), 10),   // 08:00, ends 18:00
		stopAt(3, domain.StopDropoff, base.Add(20*time.Hour), 1), // 20:00
	}

	segs := hos.DrivingSegments(stops)

	require.Len(t, segs, 2)
	assert.InDelta(t, 5, segs[0].Hours(), 1e-9) // 03:00 to 08:00
	assert.InDelta(t, 2, segs[1].Hours(), 1e-9) // 18:00 to 20:00
}

func TestDrivingSegments_TouchingStops(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	stops := []domain.Stop{
		stopAt(1, domain.StopRest, base, 10),
		stopAt(2, domain.StopFuel, base.Add(10*time.Hour), 0.5), // starts as the rest ends
	}

	// Zero-length gaps yield no segment.
	assert.Empty(t, hos.DrivingSegments(stops))
}

func TestDrivingSegments_FewerThanTwoStops(t *testing.T) {
	assert.Empty(t, hos.DrivingSegments(nil))
	assert.Empty(t, hos.DrivingSegments([]domain.Stop{
		stopAt(1, domain.StopPickup, time.Now().UTC(), 1),
	}))
}
