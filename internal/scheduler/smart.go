package scheduler

import (
	"sort"

	"github.com/greenhub/hubsim/internal/model"
)

// Smart is the optimization-aware policy. Waiting jobs are reordered by a
// composite key (priority class, deadline urgency, solar bonus, power draw),
// gated on current conditions, then admitted greedily against the same power
// ceiling the baseline uses. Unlike the baseline it keeps scanning past a
// job that does not fit, so smaller jobs can still pack into the remaining
// headroom.
type Smart struct {
	limits Limits
	jobs   []*model.Job
}

// NewSmart creates a smart policy with the given facility limits and
// thresholds.
func NewSmart(limits Limits) *Smart {
	return &Smart{limits: limits}
}

func (s *Smart) Name() string { return "smart" }

func (s *Smart) Register(job *model.Job) {
	s.jobs = append(s.jobs, job)
}

func (s *Smart) Jobs() []*model.Job { return s.jobs }

// Decide sorts, gates and admits the waiting jobs for this step. Admission
// headroom is what the ceiling leaves after the background load and the jobs
// still running from earlier steps.
func (s *Smart) Decide(solarKW, tempC, hour float64) []*model.Job {
	candidates := s.prioritize(waitingJobs(s.jobs), solarKW, hour)

	var admitted []*model.Job
	used := s.limits.BackgroundLoadKW + runningLoadKW(s.jobs)

	for _, job := range candidates {
		// Gating, independent of sort position. High priority is never gated.
		if job.Priority == model.PriorityLow && tempC > s.limits.ThermalThresholdC {
			continue
		}
		if job.Priority == model.PriorityMedium && solarKW < s.limits.MinSolarKW {
			continue
		}

		if used+job.PowerKW > s.limits.PowerCeilingKW {
			continue
		}
		job.Start(hour)
		admitted = append(admitted, job)
		used += job.PowerKW
	}

	return admitted
}

// sortKey orders jobs for admission; lower values sort first.
type sortKey struct {
	priority   int
	negUrgency float64 // -Inf for jobs already past deadline
	solarBonus int     // -1 when a medium job should shift into solar hours
	powerKW    float64
}

func (a sortKey) less(b sortKey) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	if a.negUrgency != b.negUrgency {
		return a.negUrgency < b.negUrgency
	}
	if a.solarBonus != b.solarBonus {
		return a.solarBonus < b.solarBonus
	}
	return a.powerKW < b.powerKW
}

func (s *Smart) prioritize(jobs []*model.Job, solarKW, hour float64) []*model.Job {
	keys := make(map[*model.Job]sortKey, len(jobs))
	for _, job := range jobs {
		key := sortKey{
			priority:   int(job.Priority),
			negUrgency: -job.Urgency(hour),
			powerKW:    job.PowerKW,
		}
		if job.Priority == model.PriorityMedium && solarKW > s.limits.GoodSolarKW {
			key.solarBonus = -1
		}
		keys[job] = key
	}

	sorted := make([]*model.Job, len(jobs))
	copy(sorted, jobs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return keys[sorted[i]].less(keys[sorted[j]])
	})
	return sorted
}
