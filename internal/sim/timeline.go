package sim

import "github.com/greenhub/hubsim/internal/model"

// TimelineEntry describes when a job actually ran, for reports and the API.
type TimelineEntry struct {
	Name           string  `json:"name"`
	Priority       string  `json:"priority"`
	PowerKW        float64 `json:"power_kw"`
	StartHour      float64 `json:"start_hour"`
	DurationHours  float64 `json:"duration_hours"`
	EndHour        float64 `json:"end_hour"`
	Completed      bool    `json:"completed"`
	DeadlineMissed bool    `json:"deadline_missed"`
}

// Timeline extracts the execution timeline from a job set after a run. Jobs
// that never started are omitted.
func Timeline(jobs []*model.Job) []TimelineEntry {
	var entries []TimelineEntry
	for _, j := range jobs {
		if j.StartHour == nil {
			continue
		}
		durationHours := j.DurationMin / 60.0
		entries = append(entries, TimelineEntry{
			Name:           j.Name,
			Priority:       j.Priority.String(),
			PowerKW:        j.PowerKW,
			StartHour:      *j.StartHour,
			DurationHours:  durationHours,
			EndHour:        *j.StartHour + durationHours,
			Completed:      j.IsDone(),
			DeadlineMissed: j.Penalized,
		})
	}
	return entries
}
