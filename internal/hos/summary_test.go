package hos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/eld-planner/backend/internal/domain"
	"github.com/pkordes/eld-planner/backend/internal/hos"
)

func TestSummarize(t *testing.T) {
	good := compliantLog() // driving 9, on duty 3
	bad := compliantLog()
	bad.DrivingHours = 12 // over the driving limit
	bad.OffDutyHours = 5  // keep the 24h sum intact

	s := hos.Summarize([]domain.DailyLog{good, bad})

	assert.Equal(t, 2, s.LogCount)
	assert.InDelta(t, 21, s.TotalDrivingHours, 1e-9)
	assert.InDelta(t, 6, s.TotalOnDutyHours, 1e-9)
	assert.InDelta(t, 13, s.TotalOffDutyHours, 1e-9)
	assert.InDelta(t, 8, s.TotalSleeperBerthHours, 1e-9)
	assert.InDelta(t, 10.5, s.AvgDrivingHours, 1e-9)
	assert.InDelta(t, 3, s.AvgOnDutyHours, 1e-9)
	assert.Equal(t, 1, s.CompliantLogs)
	assert.InDelta(t, 50, s.ComplianceRate, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	s := hos.Summarize(nil)

	assert.Equal(t, 0, s.LogCount)
	assert.Zero(t, s.ComplianceRate)
	assert.Zero(t, s.AvgDrivingHours)
}
