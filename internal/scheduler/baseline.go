package scheduler

import "github.com/greenhub/hubsim/internal/model"

// Baseline is the naive reference policy: jobs run in the order they were
// registered, the environmental inputs are ignored, and admission stops at
// the first job that would push cumulative power past the ceiling. It
// represents business-as-usual scheduling and anchors the comparison.
type Baseline struct {
	limits Limits
	jobs   []*model.Job
}

// NewBaseline creates a baseline policy with the given facility limits.
func NewBaseline(limits Limits) *Baseline {
	return &Baseline{limits: limits}
}

func (b *Baseline) Name() string { return "baseline" }

func (b *Baseline) Register(job *model.Job) {
	b.jobs = append(b.jobs, job)
}

func (b *Baseline) Jobs() []*model.Job { return b.jobs }

// Decide admits waiting jobs FIFO against the power ceiling, starting from
// the fixed background load plus the draw of jobs still running from earlier
// steps. No look-ahead: the first job that does not fit ends admission for
// this step.
func (b *Baseline) Decide(solarKW, tempC, hour float64) []*model.Job {
	var admitted []*model.Job
	used := b.limits.BackgroundLoadKW + runningLoadKW(b.jobs)

	for _, job := range waitingJobs(b.jobs) {
		if used+job.PowerKW > b.limits.PowerCeilingKW {
			break
		}
		job.Start(hour)
		admitted = append(admitted, job)
		used += job.PowerKW
	}

	return admitted
}
