package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-scheduler-api/internal/scheduler"
	"github.com/noah-isme/sma-scheduler-api/pkg/jobs"
)

func minimalOptions() scheduler.Options {
	return scheduler.Options{}.
		WithNTeachers(5).
		WithNHours(4).
		WithLunchHour(3).
		WithDaysPerWeek(3).
		WithEnablePEConstraints(false)
}

func TestTimetableServiceGenerateWithoutCache(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil, nil, 0)
	opts := minimalOptions()
	opts.Grades = []string{"P1"}

	resp, err := svc.Generate(context.Background(), opts)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.False(t, resp.Metadata.CacheHit)
	assert.NotEmpty(t, resp.Schedule)
}

func TestTimetableServiceGeneratePropagatesValidationError(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil, nil, 0)
	opts := scheduler.Options{} // missing required n_teachers/grades

	_, err := svc.Generate(context.Background(), opts)

	require.Error(t, err)
	var valErr *scheduler.ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestTimetableServiceSubmitWithoutQueueFails(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil, nil, 0)
	opts := minimalOptions()
	opts.Grades = []string{"P1"}

	_, err := svc.Submit(context.Background(), opts)

	require.Error(t, err)
}

type inlineQueue struct {
	svc *TimetableService
}

func (q inlineQueue) Enqueue(job jobs.Job) error {
	return q.svc.Handle(context.Background(), job)
}

func TestTimetableServiceSubmitAndPollJob(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil, nil, 0)
	svc.SetQueue(inlineQueue{svc: svc})

	opts := minimalOptions()
	opts.Grades = []string{"P1"}

	id, err := svc.Submit(context.Background(), opts)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	status, err := svc.GetJob(id)
	require.NoError(t, err)
	assert.Equal(t, jobStatusDone, status.Status)
	require.NotNil(t, status.Result)
	assert.NotEmpty(t, status.Result.Schedule)
}

func TestTimetableServiceGetJobNotFound(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil, nil, 0)

	_, err := svc.GetJob("missing")

	require.Error(t, err)
}

func TestTimetableServiceGenerateEnforcesSolveBudget(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil, nil, time.Nanosecond)
	opts := scheduler.Options{
		NTeachers: 20,
		Grades:    []string{"P1", "P2", "P3", "P4", "P5", "P6", "M1", "M2", "M3", "M4"},
	}.
		WithNHours(12).
		WithLunchHour(6).
		WithDaysPerWeek(7).
		WithEnablePEConstraints(false).
		WithHomeroomMode(scheduler.HomeroomFirstAndLast)

	_, err := svc.Generate(context.Background(), opts)

	require.Error(t, err)
	var infErr *scheduler.InfeasibleError
	require.ErrorAs(t, err, &infErr)
	assert.Equal(t, scheduler.StatusUnknownWithinBudget, infErr.Status)
}

func TestTimetableServiceSubmitRejectsInvalidParams(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil, nil, 0)
	svc.SetQueue(inlineQueue{svc: svc})

	_, err := svc.Submit(context.Background(), scheduler.Options{})

	require.Error(t, err)
	var valErr *scheduler.ValidationError
	require.ErrorAs(t, err, &valErr)
}
