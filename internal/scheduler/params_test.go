package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAppliesDefaults(t *testing.T) {
	p, err := Validate(Options{NTeachers: 3, Grades: []string{"P1", "P2"}})
	require.NoError(t, err)
	assert.Equal(t, DefaultPETeacher, p.PETeacher)
	assert.Equal(t, DefaultPEDay, p.PEDay)
	assert.Equal(t, DefaultNPEPeriods, p.NPEPeriods)
	assert.Equal(t, DefaultNHours, p.NHours)
	assert.Equal(t, DefaultLunchHour, p.LunchHour)
	assert.Equal(t, DefaultDaysPerWeek, p.DaysPerWeek)
	assert.Equal(t, HomeroomLastOnly, p.HomeroomMode)
	assert.Equal(t, []string{"T1", "T2", "T3"}, p.Teachers)
	assert.Equal(t, []int{1, 2, 3, 4, 6, 7, 8}, p.TeachingHours)
}

func TestValidateRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		opts Options
		rule string
	}{
		{"zero teachers", Options{NTeachers: 0, Grades: []string{"P1"}}, "n_teachers"},
		{"too many teachers", Options{NTeachers: 51, Grades: []string{"P1"}}, "n_teachers"},
		{"no grades", Options{NTeachers: 1}, "grades"},
		{"too many grades", Options{NTeachers: 1, Grades: make([]string, 21)}, "grades"},
		{"duplicate grade", Options{NTeachers: 1, Grades: []string{"P1", "P1"}}, "grades"},
		{"blank grade", Options{NTeachers: 1, Grades: []string{""}}, "grades"},
		{
			"bad lunch hour",
			Options{NTeachers: 1, Grades: []string{"P1"}}.WithLunchHour(9),
			"lunch_hour",
		},
		{
			"bad homeroom mode",
			Options{NTeachers: 1, Grades: []string{"P1"}}.WithHomeroomMode(HomeroomMode(3)),
			"homeroom_mode",
		},
		{
			"pe_day exceeds days_per_week",
			Options{NTeachers: 1, Grades: []string{"P1"}}.
				WithEnablePEConstraints(true).
				WithPEDay(5).
				WithDaysPerWeek(3),
			"pe_day",
		},
		{
			"pe_teacher not a synthesized id",
			Options{NTeachers: 2, Grades: []string{"P1"}}.
				WithEnablePEConstraints(true).
				WithPETeacher("T99"),
			"pe_teacher",
		},
		{
			"pe_grade not in grades",
			Options{NTeachers: 2, Grades: []string{"P1"}}.
				WithEnablePEConstraints(true).
				WithPETeacher("T1").
				WithPEGrades([]string{"P9"}),
			"pe_grades",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(tc.opts)
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.rule, verr.Rule)
		})
	}
}

func TestAnchorHoursByMode(t *testing.T) {
	base := Options{NTeachers: 5, Grades: []string{"P1"}}.WithNHours(6)
	disabled, err := Validate(base.WithHomeroomMode(HomeroomDisabled))
	require.NoError(t, err)
	assert.Empty(t, disabled.AnchorHours())

	lastOnly, err := Validate(base.WithHomeroomMode(HomeroomLastOnly))
	require.NoError(t, err)
	assert.Equal(t, []int{6}, lastOnly.AnchorHours())

	firstAndLast, err := Validate(base.WithHomeroomMode(HomeroomFirstAndLast))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 6}, firstAndLast.AnchorHours())
}
