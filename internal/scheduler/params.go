package scheduler

import "fmt"

// Recognized option defaults (spec.md §6).
const (
	DefaultPETeacher   = "T13"
	DefaultPEDay       = 3
	DefaultNPEPeriods  = 6
	DefaultStartHour   = 8
	DefaultNHours      = 8
	DefaultLunchHour   = 5
	DefaultDaysPerWeek = 5
	DefaultHomeroomMode = HomeroomLastOnly

	maxTeachers = 50
	maxGrades   = 20
	maxNHours   = 12
)

var defaultPEGrades = []string{"P4", "P5", "P6", "M1", "M2", "M3"}

var dayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WithNTeachers etc. let callers mark a field as explicitly provided,
// distinguishing "caller said 0" from "caller said nothing" for options
// whose zero value is not the documented default.
func (o Options) WithNTeachers(n int) Options {
	o.NTeachers = n
	o.set.NTeachers = true
	return o
}

func (o Options) WithPETeacher(t string) Options {
	o.PETeacher = t
	o.set.PETeacher = true
	return o
}

func (o Options) WithPEGrades(g []string) Options {
	o.PEGrades = g
	o.set.PEGrades = true
	return o
}

func (o Options) WithPEDay(d int) Options {
	o.PEDay = d
	o.set.PEDay = true
	return o
}

func (o Options) WithNPEPeriods(n int) Options {
	o.NPEPeriods = n
	o.set.NPEPeriods = true
	return o
}

func (o Options) WithStartHour(h int) Options {
	o.StartHour = h
	o.set.StartHour = true
	return o
}

func (o Options) WithNHours(h int) Options {
	o.NHours = h
	o.set.NHours = true
	return o
}

func (o Options) WithLunchHour(h int) Options {
	o.LunchHour = h
	o.set.LunchHour = true
	return o
}

func (o Options) WithDaysPerWeek(d int) Options {
	o.DaysPerWeek = d
	o.set.DaysPerWeek = true
	return o
}

func (o Options) WithEnablePEConstraints(b bool) Options {
	o.EnablePEConstraints = b
	o.set.EnablePEConstraints = true
	return o
}

func (o Options) WithHomeroomMode(m HomeroomMode) Options {
	o.HomeroomMode = m
	o.set.HomeroomMode = true
	return o
}

// Validate applies documented defaults, checks the §4.1 rules in order,
// and returns the derived, immutable Params on success. It is a pure
// function: no model state is allocated and no solver call is made.
func Validate(o Options) (*Params, error) {
	// n_teachers has no documented default; it is required.
	nTeachers := o.NTeachers
	if nTeachers < 1 || nTeachers > maxTeachers {
		return nil, &ValidationError{Rule: "n_teachers", Message: fmt.Sprintf("n_teachers must be between 1 and %d, got %d", maxTeachers, nTeachers)}
	}

	if len(o.Grades) == 0 {
		return nil, &ValidationError{Rule: "grades", Message: "grades must be a non-empty list"}
	}
	if len(o.Grades) > maxGrades {
		return nil, &ValidationError{Rule: "grades", Message: fmt.Sprintf("grades must have at most %d entries, got %d", maxGrades, len(o.Grades))}
	}
	grades := make([]string, len(o.Grades))
	seenGrades := make(map[string]bool, len(o.Grades))
	for i, g := range o.Grades {
		if g == "" {
			return nil, &ValidationError{Rule: "grades", Message: "grade labels must be non-empty"}
		}
		if seenGrades[g] {
			return nil, &ValidationError{Rule: "grades", Message: fmt.Sprintf("duplicate grade label %q", g)}
		}
		seenGrades[g] = true
		grades[i] = g
	}

	peTeacher := o.PETeacher
	if !o.set.PETeacher {
		peTeacher = DefaultPETeacher
	}
	peGrades := o.PEGrades
	if !o.set.PEGrades {
		peGrades = defaultPEGrades
	}
	peDay := o.PEDay
	if !o.set.PEDay {
		peDay = DefaultPEDay
	}
	nPEPeriods := o.NPEPeriods
	if !o.set.NPEPeriods {
		nPEPeriods = DefaultNPEPeriods
	}
	startHour := o.StartHour
	if !o.set.StartHour {
		startHour = DefaultStartHour
	}
	nHours := o.NHours
	if !o.set.NHours {
		nHours = DefaultNHours
	}
	lunchHour := o.LunchHour
	if !o.set.LunchHour {
		lunchHour = DefaultLunchHour
	}
	daysPerWeek := o.DaysPerWeek
	if !o.set.DaysPerWeek {
		daysPerWeek = DefaultDaysPerWeek
	}
	enablePE := o.EnablePEConstraints
	homeroomMode := o.HomeroomMode
	if !o.set.HomeroomMode {
		homeroomMode = DefaultHomeroomMode
	}

	// Rule 3: numeric bounds.
	if peDay < 1 || peDay > 7 {
		return nil, &ValidationError{Rule: "pe_day", Message: fmt.Sprintf("pe_day must be between 1 and 7, got %d", peDay)}
	}
	if nPEPeriods < 0 {
		return nil, &ValidationError{Rule: "n_pe_periods", Message: "n_pe_periods must be >= 0"}
	}
	if startHour < 0 || startHour > 23 {
		return nil, &ValidationError{Rule: "start_hour", Message: fmt.Sprintf("start_hour must be between 0 and 23, got %d", startHour)}
	}
	if nHours < 1 || nHours > maxNHours {
		return nil, &ValidationError{Rule: "n_hours", Message: fmt.Sprintf("n_hours must be between 1 and %d, got %d", maxNHours, nHours)}
	}
	if daysPerWeek < 1 || daysPerWeek > 7 {
		return nil, &ValidationError{Rule: "days_per_week", Message: fmt.Sprintf("days_per_week must be between 1 and 7, got %d", daysPerWeek)}
	}
	if lunchHour < 1 || lunchHour > nHours {
		return nil, &ValidationError{Rule: "lunch_hour", Message: fmt.Sprintf("lunch_hour must be between 1 and n_hours (%d), got %d", nHours, lunchHour)}
	}
	if homeroomMode != HomeroomDisabled && homeroomMode != HomeroomLastOnly && homeroomMode != HomeroomFirstAndLast {
		return nil, &ValidationError{Rule: "homeroom_mode", Message: fmt.Sprintf("homeroom_mode must be 0, 1, or 2, got %d", homeroomMode)}
	}

	// Rule 4: pe_day tightened against days_per_week (spec.md §4.1 rule 4,
	// resolving the Open Question in spec.md §9 toward the tighter reading).
	if enablePE && peDay > daysPerWeek {
		return nil, &ValidationError{Rule: "pe_day", Message: fmt.Sprintf("pe_day (%d) must not exceed days_per_week (%d)", peDay, daysPerWeek)}
	}

	teachers := make([]string, nTeachers)
	teacherSet := make(map[string]bool, nTeachers)
	for i := 0; i < nTeachers; i++ {
		id := fmt.Sprintf("T%d", i+1)
		teachers[i] = id
		teacherSet[id] = true
	}

	// Rule 5: pe_teacher membership.
	if enablePE && !teacherSet[peTeacher] {
		return nil, &ValidationError{Rule: "pe_teacher", Message: fmt.Sprintf("pe_teacher %q is not a synthesized teacher id", peTeacher)}
	}

	// Rule 6: pe_grades subset of grades.
	if enablePE {
		for _, g := range peGrades {
			if !seenGrades[g] {
				return nil, &ValidationError{Rule: "pe_grades", Message: fmt.Sprintf("pe_grade %q is not present in grades", g)}
			}
		}
	}

	peGradeSet := make(map[string]bool, len(peGrades))
	if enablePE {
		for _, g := range peGrades {
			peGradeSet[g] = true
		}
	}
	var nonPEGrades []string
	for _, g := range grades {
		if !peGradeSet[g] {
			nonPEGrades = append(nonPEGrades, g)
		}
	}

	days := make([]int, daysPerWeek)
	dayNameMap := make(map[int]string, daysPerWeek)
	for d := 1; d <= daysPerWeek; d++ {
		days[d-1] = d
		dayNameMap[d] = dayNames[d-1]
	}

	hours := make([]int, nHours)
	var teachingHours []int
	timeLabels := make(map[int]string, nHours)
	for h := 1; h <= nHours; h++ {
		hours[h-1] = h
		if h != lunchHour {
			teachingHours = append(teachingHours, h)
		}
		start := startHour + h - 1
		end := start + 1
		timeLabels[h] = fmt.Sprintf("%02d:00-%02d:00", start, end)
	}

	params := &Params{
		NTeachers:           nTeachers,
		Teachers:            teachers,
		Grades:              grades,
		PETeacher:           peTeacher,
		PEGrades:            peGrades,
		NonPEGrades:         nonPEGrades,
		PEDay:               peDay,
		NPEPeriods:          nPEPeriods,
		StartHour:           startHour,
		NHours:              nHours,
		LunchHour:           lunchHour,
		DaysPerWeek:         daysPerWeek,
		EnablePEConstraints: enablePE,
		HomeroomMode:        homeroomMode,
		Days:                days,
		Hours:               hours,
		TeachingHours:       teachingHours,
		DayNames:            dayNameMap,
		TimeLabels:          timeLabels,
	}
	return params, nil
}
