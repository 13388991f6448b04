package hos

import "github.com/pkordes/eld-planner/backend/internal/domain"

// Summary aggregates a set of daily logs: totals and averages per duty
// bucket plus the share of logs passing the compliance checks. It is derived
// on demand and never persisted.
type Summary struct {
	LogCount               int     `json:"log_count"`
	TotalDrivingHours      float64 `json:"total_driving_hours"`
	TotalOnDutyHours       float64 `json:"total_on_duty_hours"`
	TotalOffDutyHours      float64 `json:"total_off_duty_hours"`
	TotalSleeperBerthHours float64 `json:"total_sleeper_berth_hours"`
	AvgDrivingHours        float64 `json:"avg_driving_hours"`
	AvgOnDutyHours         float64 `json:"avg_on_duty_hours"`
	CompliantLogs          int     `json:"compliant_logs"`
	// ComplianceRate is the percentage of logs that are compliant, 0-100.
	ComplianceRate float64 `json:"compliance_rate"`
}

// Summarize computes the Summary for a log set. An empty set yields the zero
// Summary.
func Summarize(logs []domain.DailyLog) Summary {
	var s Summary
	s.LogCount = len(logs)

	for _, l := range logs {
		s.TotalDrivingHours += l.DrivingHours
		s.TotalOnDutyHours += l.OnDutyNotDrivingHours
		s.TotalOffDutyHours += l.OffDutyHours
		s.TotalSleeperBerthHours += l.SleeperBerthHours
		if IsCompliant(l) {
			s.CompliantLogs++
		}
	}

	if s.LogCount > 0 {
		s.AvgDrivingHours = s.TotalDrivingHours / float64(s.LogCount)
		s.AvgOnDutyHours = s.TotalOnDutyHours / float64(s.LogCount)
		s.ComplianceRate = float64(s.CompliantLogs) / float64(s.LogCount) * 100
	}

	return s
}
