// Package scheduler holds the admission policies. A policy is a stateless
// decision function over the jobs registered with it: given the current
// environmental readings it returns the ordered subset of waiting jobs to
// admit this step. Jobs a policy cannot fit are deferred, never dropped.
package scheduler

import (
	"github.com/greenhub/hubsim/internal/config"
	"github.com/greenhub/hubsim/internal/model"
)

// Policy is the admission capability the engine drives. Implementations are
// interchangeable; the engine never inspects which variant it holds.
type Policy interface {
	// Name identifies the policy in reports and logs.
	Name() string

	// Register appends a job to the policy's ordered queue.
	Register(job *model.Job)

	// Jobs returns every registered job, in registration order. The engine
	// uses this for deadline checks and timeline extraction.
	Jobs() []*model.Job

	// Decide returns the jobs to admit this step, in admission order.
	// Admitted jobs are started as a side effect. Only waiting jobs are
	// eligible; done and already-running jobs are excluded.
	Decide(solarKW, tempC, hour float64) []*model.Job
}

// Limits carries the facility constraints and smart-policy thresholds shared
// by both variants.
type Limits struct {
	PowerCeilingKW    float64
	BackgroundLoadKW  float64
	ThermalThresholdC float64
	MinSolarKW        float64
	GoodSolarKW       float64
}

// LimitsFromConfig extracts policy limits from the full configuration.
func LimitsFromConfig(cfg config.Config) Limits {
	return Limits{
		PowerCeilingKW:    cfg.Hub.PowerCeilingKW,
		BackgroundLoadKW:  cfg.Hub.BackgroundLoadKW,
		ThermalThresholdC: cfg.Scheduler.ThermalThresholdC,
		MinSolarKW:        cfg.Scheduler.MinSolarKW,
		GoodSolarKW:       cfg.Scheduler.GoodSolarKW,
	}
}

func waitingJobs(jobs []*model.Job) []*model.Job {
	out := make([]*model.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.IsWaiting() {
			out = append(out, j)
		}
	}
	return out
}

// runningLoadKW sums the draw of jobs already running. They keep drawing this
// step, so admission starts from their load, not from an empty facility.
func runningLoadKW(jobs []*model.Job) float64 {
	var kw float64
	for _, j := range jobs {
		if j.IsRunning() {
			kw += j.PowerKW
		}
	}
	return kw
}
