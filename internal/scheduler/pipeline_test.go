package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMinimalFeasible(t *testing.T) {
	opts := Options{NTeachers: 3, Grades: []string{"P1", "P2"}}.
		WithNHours(4).
		WithLunchHour(3).
		WithDaysPerWeek(3).
		WithEnablePEConstraints(false).
		WithHomeroomMode(HomeroomLastOnly)

	sol, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.Len(t, sol.Teaching, 18)
	assert.GreaterOrEqual(t, len(sol.Homeroom), 2)
	assert.Len(t, sol.Rows, 18)

	homeroomOf := map[string]string{}
	for _, hr := range sol.Homeroom {
		homeroomOf[hr.Grade] = hr.Teacher
	}
	for _, g := range sol.Params.Grades {
		for _, d := range sol.Params.Days {
			var lastPeriodTeacher string
			for _, rec := range sol.Teaching {
				if rec.Grade == g && rec.Day == d && rec.Hour == sol.Params.NHours {
					lastPeriodTeacher = rec.Teacher
				}
			}
			assert.Equal(t, homeroomOf[g], lastPeriodTeacher, "last period of %s on day %d must be its homeroom teacher", g, d)
		}
	}
}

func TestRunPEConcentration(t *testing.T) {
	opts := Options{NTeachers: 13, Grades: []string{"P1", "P2", "P3", "P4", "P5", "P6", "M1", "M2", "M3"}}.
		WithPETeacher("T13").
		WithPEGrades([]string{"P4", "P5", "P6", "M1", "M2", "M3"}).
		WithPEDay(3).
		WithNPEPeriods(6).
		WithNHours(8).
		WithLunchHour(5).
		WithDaysPerWeek(5).
		WithEnablePEConstraints(true)

	sol, err := Run(context.Background(), opts)
	require.NoError(t, err)

	seenGrades := map[string]int{}
	total := 0
	for _, rec := range sol.Teaching {
		if rec.Teacher != "T13" {
			continue
		}
		total++
		assert.Equal(t, 3, rec.Day, "pe teacher must only teach on pe_day")
		seenGrades[rec.Grade]++
	}
	assert.Equal(t, 6, total)
	for _, g := range []string{"P4", "P5", "P6", "M1", "M2", "M3"} {
		assert.Equal(t, 1, seenGrades[g], "pe grade %s must be taught by the pe teacher exactly once", g)
	}

	for _, hr := range sol.Homeroom {
		assert.NotEqual(t, "T13", hr.Teacher, "pe teacher must never be reported as a homeroom teacher")
	}
}

func TestRunHomeroomModeTwoParity(t *testing.T) {
	opts := Options{NTeachers: 3, Grades: []string{"P1", "P2"}}.
		WithNHours(4).
		WithLunchHour(3).
		WithDaysPerWeek(3).
		WithEnablePEConstraints(false).
		WithHomeroomMode(HomeroomFirstAndLast)

	sol, err := Run(context.Background(), opts)
	require.NoError(t, err)

	homeroomOf := map[string]string{}
	for _, hr := range sol.Homeroom {
		homeroomOf[hr.Grade] = hr.Teacher
	}
	for _, g := range sol.Params.Grades {
		for _, d := range sol.Params.Days {
			for _, h := range []int{1, sol.Params.NHours} {
				var teacher string
				for _, rec := range sol.Teaching {
					if rec.Grade == g && rec.Day == d && rec.Hour == h {
						teacher = rec.Teacher
					}
				}
				assert.Equal(t, homeroomOf[g], teacher)
			}
		}
	}

	for _, rec := range sol.Augmented {
		if rec.Hour == 1 || rec.Hour == sol.Params.NHours {
			if rec.Teacher == homeroomOf[rec.Grade] {
				assert.True(t, rec.IsHomeroom)
			}
		}
	}
}

func TestRunForcedInfeasibility(t *testing.T) {
	opts := Options{NTeachers: 1, Grades: []string{"P1", "P2"}}.
		WithHomeroomMode(HomeroomLastOnly)

	_, err := Run(context.Background(), opts)
	require.Error(t, err)
	var infErr *InfeasibleError
	require.ErrorAs(t, err, &infErr)
	assert.Equal(t, StatusInfeasible, infErr.Status)
}

func TestRunBudgetTimeout(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	opts := Options{NTeachers: 20, Grades: []string{"P1", "P2", "P3", "P4", "P5", "P6", "M1", "M2", "M3", "M4"}}.
		WithNHours(12).
		WithLunchHour(6).
		WithDaysPerWeek(7).
		WithEnablePEConstraints(false).
		WithHomeroomMode(HomeroomFirstAndLast)

	_, err := Run(ctx, opts)
	require.Error(t, err)
	var infErr *InfeasibleError
	require.ErrorAs(t, err, &infErr)
	assert.Equal(t, StatusUnknownWithinBudget, infErr.Status)
}

func TestRunPEDisabledIgnoresPEParams(t *testing.T) {
	opts := Options{NTeachers: 3, Grades: []string{"P1", "P2"}}.
		WithNHours(4).
		WithLunchHour(3).
		WithDaysPerWeek(3).
		WithEnablePEConstraints(false).
		WithNPEPeriods(6).
		WithHomeroomMode(HomeroomLastOnly)

	sol, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, sol.Params.EnablePEConstraints)
	assert.Equal(t, 6, sol.Params.NPEPeriods)
	assert.Len(t, sol.Teaching, 18)
}
