package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourPtr(h float64) *float64 { return &h }

func TestNewJobValidation(t *testing.T) {
	_, err := NewJob("ok", 2.0, 60, "HIGH", nil)
	require.NoError(t, err)

	_, err = NewJob("bad-priority", 2.0, 60, "urgent", nil)
	require.Error(t, err)

	_, err = NewJob("bad-power", 0, 60, "low", nil)
	require.Error(t, err)

	_, err = NewJob("bad-duration", 2.0, -10, "low", nil)
	require.Error(t, err)

	_, err = NewJob("bad-deadline", 2.0, 60, "low", hourPtr(-1))
	require.Error(t, err)
}

func TestPriorityIsCaseInsensitive(t *testing.T) {
	for _, label := range []string{"High", "HIGH", " high "} {
		p, err := ParsePriority(label)
		require.NoError(t, err)
		assert.Equal(t, PriorityHigh, p)
	}
}

func TestStartIsIdempotent(t *testing.T) {
	j, err := NewJob("j", 1.0, 60, "low", nil)
	require.NoError(t, err)

	j.Start(9)
	require.True(t, j.IsRunning())
	require.NotNil(t, j.StartHour)
	assert.Equal(t, 9.0, *j.StartHour)

	j.Start(11)
	assert.Equal(t, 9.0, *j.StartHour)
	assert.Equal(t, StatusRunning, j.Status)

	j.Advance(60, 11)
	require.True(t, j.IsDone())
	j.Start(12)
	assert.Equal(t, StatusDone, j.Status)
	assert.Equal(t, 9.0, *j.StartHour)
}

func TestAdvanceLifecycle(t *testing.T) {
	j, err := NewJob("j", 1.0, 25, "medium", nil)
	require.NoError(t, err)

	// Waiting jobs start implicitly on their first advance.
	j.Advance(10, 8)
	assert.True(t, j.IsRunning())
	assert.Equal(t, 15.0, j.RemainingMin)
	require.NotNil(t, j.StartHour)
	assert.Equal(t, 8.0, *j.StartHour)

	prev := j.RemainingMin
	for !j.IsDone() {
		j.Advance(10, 9)
		assert.LessOrEqual(t, j.RemainingMin, prev)
		prev = j.RemainingMin
	}
	assert.Equal(t, 0.0, j.RemainingMin)

	// Terminal state never changes again.
	j.Advance(10, 10)
	assert.True(t, j.IsDone())
	assert.Equal(t, 0.0, j.RemainingMin)
}

func TestZeroDurationJobCompletesOnFirstAdvance(t *testing.T) {
	j, err := NewJob("empty", 1.0, 0, "low", nil)
	require.NoError(t, err)

	j.Advance(10, 0)
	assert.True(t, j.IsDone())
	assert.Equal(t, 0.0, j.RemainingMin)
}

func TestDeadlineViolatedFiresOnce(t *testing.T) {
	j, err := NewJob("j", 1.0, 600, "high", hourPtr(12))
	require.NoError(t, err)
	j.Start(0)

	// At the deadline hour exactly the job is not yet violated.
	assert.False(t, j.DeadlineViolated(12))

	assert.True(t, j.DeadlineViolated(12.5))
	assert.True(t, j.Penalized)

	// Later steps never report again, even though the job is still undone.
	for hour := 13.0; hour < 24; hour++ {
		assert.False(t, j.DeadlineViolated(hour))
	}
}

func TestDeadlineViolatedSkipsDoneAndDeadlineFreeJobs(t *testing.T) {
	noDeadline, err := NewJob("free", 1.0, 60, "low", nil)
	require.NoError(t, err)
	assert.False(t, noDeadline.DeadlineViolated(23))

	done, err := NewJob("done", 1.0, 10, "low", hourPtr(5))
	require.NoError(t, err)
	done.Advance(10, 1)
	require.True(t, done.IsDone())
	assert.False(t, done.DeadlineViolated(6))
}

func TestUrgency(t *testing.T) {
	noDeadline, err := NewJob("free", 1.0, 60, "low", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, noDeadline.Urgency(10))

	j, err := NewJob("j", 1.0, 120, "medium", hourPtr(14))
	require.NoError(t, err)

	// Two work-hours needed, four hours left.
	assert.InDelta(t, 0.5, j.Urgency(10), 1e-9)

	// Urgency grows as the deadline approaches.
	assert.Greater(t, j.Urgency(13), j.Urgency(10))

	// Past (or at) the deadline urgency is maximal.
	assert.True(t, math.IsInf(j.Urgency(14), 1))
	assert.True(t, math.IsInf(j.Urgency(15), 1))
}

func TestCloneIsIndependent(t *testing.T) {
	j, err := NewJob("j", 2.0, 60, "high", hourPtr(12))
	require.NoError(t, err)

	c := j.Clone()
	c.Advance(30, 9)
	c.Penalized = true
	*c.DeadlineHour = 20

	assert.True(t, j.IsWaiting())
	assert.Equal(t, 60.0, j.RemainingMin)
	assert.False(t, j.Penalized)
	assert.Equal(t, 12.0, *j.DeadlineHour)
	assert.Nil(t, j.StartHour)
}
