package dto

import "github.com/noah-isme/sma-scheduler-api/internal/scheduler"

// GenerateScheduleRequest is the wire shape of spec.md §6's
// generate_schedule(params) options. Every field is a pointer so the
// handler can tell "caller omitted this" from "caller sent the zero
// value" and forward that distinction into scheduler.Options via the
// With* builders — mirroring the fieldSet mechanism Validate relies on.
type GenerateScheduleRequest struct {
	NTeachers           *int     `json:"n_teachers" binding:"required,min=1,max=50"`
	Grades              []string `json:"grades" binding:"required,min=1,max=20,dive,required"`
	PETeacher           *string  `json:"pe_teacher,omitempty"`
	PEGrades            []string `json:"pe_grades,omitempty"`
	PEDay               *int     `json:"pe_day,omitempty" binding:"omitempty,min=1,max=7"`
	NPEPeriods          *int     `json:"n_pe_periods,omitempty" binding:"omitempty,min=0"`
	StartHour           *int     `json:"start_hour,omitempty" binding:"omitempty,min=0,max=23"`
	NHours              *int     `json:"n_hours,omitempty" binding:"omitempty,min=1,max=12"`
	LunchHour           *int     `json:"lunch_hour,omitempty" binding:"omitempty,min=1"`
	DaysPerWeek         *int     `json:"days_per_week,omitempty" binding:"omitempty,min=1,max=7"`
	EnablePEConstraints *bool    `json:"enable_pe_constraints,omitempty"`
	HomeroomMode        *int     `json:"homeroom_mode,omitempty" binding:"omitempty,min=0,max=2"`
}

// ToOptions builds a scheduler.Options, marking only the fields the
// caller actually sent so Validate's documented defaults still apply
// to everything left out of the request body.
func (r GenerateScheduleRequest) ToOptions() scheduler.Options {
	opts := scheduler.Options{}
	if r.NTeachers != nil {
		opts = opts.WithNTeachers(*r.NTeachers)
	}
	if r.Grades != nil {
		opts.Grades = r.Grades
	}
	if r.PETeacher != nil {
		opts = opts.WithPETeacher(*r.PETeacher)
	}
	if r.PEGrades != nil {
		opts = opts.WithPEGrades(r.PEGrades)
	}
	if r.PEDay != nil {
		opts = opts.WithPEDay(*r.PEDay)
	}
	if r.NPEPeriods != nil {
		opts = opts.WithNPEPeriods(*r.NPEPeriods)
	}
	if r.StartHour != nil {
		opts = opts.WithStartHour(*r.StartHour)
	}
	if r.NHours != nil {
		opts = opts.WithNHours(*r.NHours)
	}
	if r.LunchHour != nil {
		opts = opts.WithLunchHour(*r.LunchHour)
	}
	if r.DaysPerWeek != nil {
		opts = opts.WithDaysPerWeek(*r.DaysPerWeek)
	}
	if r.EnablePEConstraints != nil {
		opts = opts.WithEnablePEConstraints(*r.EnablePEConstraints)
	}
	if r.HomeroomMode != nil {
		opts = opts.WithHomeroomMode(scheduler.HomeroomMode(*r.HomeroomMode))
	}
	return opts
}

// TeachingRowResponse mirrors scheduler.ResponseRow for the wire.
type TeachingRowResponse = scheduler.ResponseRow

// GenerateScheduleResponse is the success shape of spec.md §6's
// response: a flat schedule plus homeroom assignments, the echoed
// parameters, and solve metadata.
type GenerateScheduleResponse struct {
	Schedule      []scheduler.ResponseRow            `json:"schedule"`
	ByTeacher     map[string][]scheduler.ResponseRow `json:"by_teacher"`
	ByGrade       map[string][]scheduler.ResponseRow `json:"by_grade"`
	GradeToNumber map[string]int                     `json:"grade_to_number"`
	Homeroom      []HomeroomAssignment               `json:"homeroom"`
	Parameters    EchoedParameters                   `json:"parameters"`
	Metadata      ScheduleMetadata                   `json:"metadata"`
}

// HomeroomAssignment is the wire shape of a scheduler.HomeroomRecord.
type HomeroomAssignment struct {
	Teacher string `json:"teacher"`
	Grade   string `json:"grade"`
}

// EchoedParameters is the fully-defaulted option set the request
// resolved to (spec.md §6: "parameters: <echoed options>").
type EchoedParameters struct {
	NTeachers           int      `json:"n_teachers"`
	Grades              []string `json:"grades"`
	PETeacher           string   `json:"pe_teacher"`
	PEGrades            []string `json:"pe_grades"`
	PEDay               int      `json:"pe_day"`
	NPEPeriods          int      `json:"n_pe_periods"`
	StartHour           int      `json:"start_hour"`
	NHours              int      `json:"n_hours"`
	LunchHour           int      `json:"lunch_hour"`
	DaysPerWeek         int      `json:"days_per_week"`
	EnablePEConstraints bool     `json:"enable_pe_constraints"`
	HomeroomMode        int      `json:"homeroom_mode"`
}

// ScheduleMetadata is spec.md §6's metadata object, plus cache_hit
// (§10.5's additive cache signal).
type ScheduleMetadata struct {
	TotalAssignments     int     `json:"total_assignments"`
	HomeroomAssignments  int     `json:"homeroom_assignments"`
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
	CacheHit             bool    `json:"cache_hit"`
}

// FromSolution builds the wire response from a solved pipeline result.
func FromSolution(sol *scheduler.Solution, processingTime float64, cacheHit bool) GenerateScheduleResponse {
	homeroom := make([]HomeroomAssignment, len(sol.Homeroom))
	for i, h := range sol.Homeroom {
		homeroom[i] = HomeroomAssignment{Teacher: h.Teacher, Grade: h.Grade}
	}
	return GenerateScheduleResponse{
		Schedule:      sol.Rows,
		ByTeacher:     sol.ByTeacher,
		ByGrade:       sol.ByGrade,
		GradeToNumber: sol.GradeToNumber,
		Homeroom:      homeroom,
		Parameters: EchoedParameters{
			NTeachers:           sol.Params.NTeachers,
			Grades:              sol.Params.Grades,
			PETeacher:           sol.Params.PETeacher,
			PEGrades:            sol.Params.PEGrades,
			PEDay:               sol.Params.PEDay,
			NPEPeriods:          sol.Params.NPEPeriods,
			StartHour:           sol.Params.StartHour,
			NHours:              sol.Params.NHours,
			LunchHour:           sol.Params.LunchHour,
			DaysPerWeek:         sol.Params.DaysPerWeek,
			EnablePEConstraints: sol.Params.EnablePEConstraints,
			HomeroomMode:        int(sol.Params.HomeroomMode),
		},
		Metadata: ScheduleMetadata{
			TotalAssignments:      len(sol.Teaching),
			HomeroomAssignments:   len(sol.Homeroom),
			ProcessingTimeSeconds: processingTime,
			CacheHit:              cacheHit,
		},
	}
}

// JobStatusResponse reports an async generation job's progress
// (§10.4's POST /timetable/jobs + GET /timetable/jobs/:id pair).
type JobStatusResponse struct {
	ID       string                    `json:"id"`
	Status   string                    `json:"status"`
	Result   *GenerateScheduleResponse `json:"result,omitempty"`
	ErrorMsg string                    `json:"error,omitempty"`
}

// DefaultsResponse answers GET /timetable/defaults with spec.md §6's
// recognized-options table.
type DefaultsResponse struct {
	NTeachers           *int     `json:"n_teachers"`
	Grades              *[]string `json:"grades"`
	PETeacher           string   `json:"pe_teacher"`
	PEGrades            []string `json:"pe_grades"`
	PEDay               int      `json:"pe_day"`
	NPEPeriods          int      `json:"n_pe_periods"`
	StartHour           int      `json:"start_hour"`
	NHours              int      `json:"n_hours"`
	LunchHour            int     `json:"lunch_hour"`
	DaysPerWeek         int      `json:"days_per_week"`
	EnablePEConstraints bool     `json:"enable_pe_constraints"`
	HomeroomMode        int      `json:"homeroom_mode"`
}

// Defaults builds the DefaultsResponse from the package's documented
// constants (scheduler.Default*), leaving the two required fields nil
// to signal "no default — caller must supply this".
func Defaults() DefaultsResponse {
	return DefaultsResponse{
		NTeachers:           nil,
		Grades:              nil,
		PETeacher:           scheduler.DefaultPETeacher,
		PEGrades:            []string{"P4", "P5", "P6", "M1", "M2", "M3"},
		PEDay:               scheduler.DefaultPEDay,
		NPEPeriods:          scheduler.DefaultNPEPeriods,
		StartHour:           scheduler.DefaultStartHour,
		NHours:              scheduler.DefaultNHours,
		LunchHour:           scheduler.DefaultLunchHour,
		DaysPerWeek:         scheduler.DefaultDaysPerWeek,
		EnablePEConstraints: false,
		HomeroomMode:        int(scheduler.DefaultHomeroomMode),
	}
}
