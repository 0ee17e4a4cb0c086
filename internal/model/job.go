package model

import (
	"fmt"
	"math"
)

// Status is a job's lifecycle state. Transitions go strictly
// WAITING -> RUNNING -> DONE; DONE is terminal.
type Status string

const (
	StatusWaiting Status = "WAITING"
	StatusRunning Status = "RUNNING"
	StatusDone    Status = "DONE"
)

// Job is one schedulable unit of work in the hub. Power draw, duration,
// priority and deadline are fixed at construction; remaining time, status,
// the penalty flag and the start hour mutate as the simulation advances.
//
// Job instances are shared by reference between the engine and the policy
// that registered them, so a job set must be deep-copied (CloneJobs) before
// being handed to a second simulation run.
type Job struct {
	Name         string   `json:"name"`
	PowerKW      float64  `json:"power_kw"`
	DurationMin  float64  `json:"duration_min"`
	RemainingMin float64  `json:"remaining_min"`
	Priority     Priority `json:"priority"`
	DeadlineHour *float64 `json:"deadline_hour,omitempty"` // hour of day, nil = no deadline
	Status       Status   `json:"status"`
	Penalized    bool     `json:"penalized"`
	StartHour    *float64 `json:"start_hour,omitempty"` // nil until first admitted
}

// NewJob validates the static attributes and returns a job in the waiting
// state. Construction errors are fatal to simulation setup.
func NewJob(name string, powerKW, durationMin float64, priority string, deadlineHour *float64) (*Job, error) {
	p, err := ParsePriority(priority)
	if err != nil {
		return nil, err
	}
	if powerKW <= 0 {
		return nil, fmt.Errorf("job %q: power must be positive, got %g kW", name, powerKW)
	}
	if durationMin < 0 {
		return nil, fmt.Errorf("job %q: duration must not be negative, got %g min", name, durationMin)
	}
	if deadlineHour != nil && *deadlineHour < 0 {
		return nil, fmt.Errorf("job %q: deadline hour must not be negative, got %g", name, *deadlineHour)
	}

	return &Job{
		Name:         name,
		PowerKW:      powerKW,
		DurationMin:  durationMin,
		RemainingMin: durationMin,
		Priority:     p,
		DeadlineHour: deadlineHour,
		Status:       StatusWaiting,
	}, nil
}

// Start transitions a waiting job to running and records the start hour.
// Calling it on a running or done job is a no-op.
func (j *Job) Start(hour float64) {
	if j.Status != StatusWaiting {
		return
	}
	j.Status = StatusRunning
	if j.StartHour == nil {
		h := hour
		j.StartHour = &h
	}
}

// Advance executes one time step of the job. A waiting job starts
// implicitly, so a job admitted and advanced in the same step begins
// immediately. Remaining time clamps at zero and the job becomes DONE the
// step it reaches it.
func (j *Job) Advance(dtMin, hour float64) {
	if j.Status == StatusDone {
		return
	}
	if j.Status == StatusWaiting {
		j.Start(hour)
	}

	j.RemainingMin -= dtMin
	if j.RemainingMin <= 0 {
		j.RemainingMin = 0
		j.Status = StatusDone
	}
}

// DeadlineViolated reports whether the job has just missed its deadline.
// It returns true at most once over the job's lifetime: the first step where
// the hour is strictly past the deadline and the job is not done. The
// penalty flag is set as a side effect so later calls return false.
func (j *Job) DeadlineViolated(hour float64) bool {
	if j.DeadlineHour == nil {
		return false
	}
	if hour > *j.DeadlineHour && j.Status != StatusDone && !j.Penalized {
		j.Penalized = true
		return true
	}
	return false
}

// Urgency scores how close the job is to deadline failure relative to the
// work left: work-hours needed over time-hours remaining. Jobs without a
// deadline score zero; jobs already past their deadline score +Inf.
func (j *Job) Urgency(hour float64) float64 {
	if j.DeadlineHour == nil {
		return 0
	}
	hoursLeft := *j.DeadlineHour - hour
	if hoursLeft <= 0 {
		return math.Inf(1)
	}
	return (j.RemainingMin / 60.0) / hoursLeft
}

func (j *Job) IsWaiting() bool { return j.Status == StatusWaiting }
func (j *Job) IsRunning() bool { return j.Status == StatusRunning }
func (j *Job) IsDone() bool    { return j.Status == StatusDone }

// Clone returns an independent deep copy, including pointer fields.
func (j *Job) Clone() *Job {
	c := *j
	if j.DeadlineHour != nil {
		d := *j.DeadlineHour
		c.DeadlineHour = &d
	}
	if j.StartHour != nil {
		s := *j.StartHour
		c.StartHour = &s
	}
	return &c
}

// CloneJobs deep-copies a job set so two simulation runs never alias
// mutable job state.
func CloneJobs(jobs []*Job) []*Job {
	out := make([]*Job, len(jobs))
	for i, j := range jobs {
		out[i] = j.Clone()
	}
	return out
}

func (j *Job) String() string {
	deadline := "none"
	if j.DeadlineHour != nil {
		deadline = fmt.Sprintf("%gh", *j.DeadlineHour)
	}
	return fmt.Sprintf("Job(%q, %gkW, %g/%gmin, priority=%s, deadline=%s, status=%s)",
		j.Name, j.PowerKW, j.RemainingMin, j.DurationMin, j.Priority, deadline, j.Status)
}
