package models

// ProjectStatistics is the per-project activity breakdown served over the
// API: seconds per day plus calendar-derived figures.
type ProjectStatistics struct {
	ProjectName  string             `json:"project_name"`
	TotalSeconds float64            `json:"total_seconds"`
	ActiveDays   int                `json:"active_days"`
	Streak       int                `json:"streak"`
	Days         map[string]float64 `json:"days"`
}

// BuildProjectStatistics summarizes a history. The streak is anchored at
// today so a project untouched today reports 0.
func BuildProjectStatistics(name string, h History, today string) *ProjectStatistics {
	stats := &ProjectStatistics{
		ProjectName: name,
		Days:        make(map[string]float64, len(h)),
	}

	calendar := NewActivityCalendar()
	calendar.AddHistory(h)

	for date, rec := range h {
		if rec == nil {
			continue
		}
		stats.TotalSeconds += rec.Seconds
		stats.Days[date] = rec.Seconds
	}
	stats.ActiveDays = calendar.ActiveDays()
	stats.Streak = calendar.Streak(today)
	return stats
}
