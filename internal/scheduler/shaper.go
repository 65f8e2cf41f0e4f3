package scheduler

import "strings"

// Shape turns the augmented schedule into the flat response rows
// spec.md §4.6 specifies, plus the §10.10 additions: per-teacher and
// per-grade groupings of the same rows, and a stable grade_to_number
// color-key map (0 reserved for "no class") that lets a caller redraw
// the heatmap views original_source/school_scheduler.py rendered with
// Plotly, without this service owning a plotting dependency. rows
// preserves augmented's Grade, Day, Hour order — the downstream
// ordering contract (spec.md §4.6) — and byTeacher/byGrade inherit it
// since they're built from the same walk.
func Shape(m *Model, augmented []AugmentedRecord) ([]ResponseRow, map[string][]ResponseRow, map[string][]ResponseRow, map[string]int) {
	rows := make([]ResponseRow, 0, len(augmented))
	byTeacher := map[string][]ResponseRow{}
	byGrade := map[string][]ResponseRow{}

	for _, rec := range augmented {
		time, _, _ := strings.Cut(rec.TimeSlotLabel, "-")
		row := ResponseRow{
			Subject:  rec.Grade,
			Grade:    rec.Grade,
			Teacher:  rec.Teacher,
			Day:      rec.DayName,
			Period:   rec.Hour,
			Time:     time,
			Timeslot: rec.TimeSlotLabel,
			Duration: 1,
		}
		rows = append(rows, row)
		byTeacher[rec.Teacher] = append(byTeacher[rec.Teacher], row)
		byGrade[rec.Grade] = append(byGrade[rec.Grade], row)
	}

	gradeToNumber := make(map[string]int, len(m.Params.Grades))
	for i, g := range m.Params.Grades {
		gradeToNumber[g] = i + 1
	}

	return rows, byTeacher, byGrade, gradeToNumber
}
