package hos

import (
	"math"

	"github.com/pkordes/eld-planner/backend/internal/domain"
)

// SumToleranceHours is the float slack allowed when checking that a log's
// four duty buckets account for a full 24-hour day.
const SumToleranceHours = 0.01

// IsCompliant reports whether a daily log passes all three checks: the
// 11-hour driving limit, the 14-hour combined on-duty limit, and the 24-hour
// accounting invariant. The first two represent legal HOS limits; a failed
// sum check means the log was constructed incorrectly, not that the driver
// broke a rule.
func IsCompliant(l domain.DailyLog) bool {
	if l.DrivingHours > MaxDrivingHours {
		return false
	}
	if l.DrivingHours+l.OnDutyNotDrivingHours > MaxDutyHours {
		return false
	}
	if math.Abs(l.TotalHours()-24) > SumToleranceHours {
		return false
	}
	return true
}
