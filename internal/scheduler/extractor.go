package scheduler

import "sort"

// Extract turns Solve's raw Assignment/homeroom output into the
// label-carrying records spec.md §4.4 describes. teaching is sorted
// Grade, then Day, then Hour — the downstream ordering contract
// spec.md §4.6 requires of every view built on top of it.
func Extract(m *Model, assignments []Assignment, homeroom map[string]string) ([]TeachingRecord, []HomeroomRecord) {
	teaching := make([]TeachingRecord, 0, len(assignments))
	for _, a := range assignments {
		teaching = append(teaching, TeachingRecord{
			Teacher:       a.Teacher,
			Grade:         a.Grade,
			Day:           a.Day,
			Hour:          a.Hour,
			DayName:       m.Params.DayNames[a.Day],
			TimeSlotLabel: m.Params.TimeLabels[a.Hour],
		})
	}
	sortTeachingRecords(teaching)

	homeroomRecords := make([]HomeroomRecord, 0, len(homeroom))
	for _, g := range m.Params.Grades {
		t, ok := homeroom[g]
		if !ok || t == m.Params.PETeacher {
			continue
		}
		homeroomRecords = append(homeroomRecords, HomeroomRecord{Teacher: t, Grade: g})
	}

	return teaching, homeroomRecords
}

// sortTeachingRecords orders recs Grade, then Day, then Hour — the
// same key Augment sorts its mix of real and synthetic rows by, so the
// wire views are built from one order.
func sortTeachingRecords(recs []TeachingRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Grade != recs[j].Grade {
			return recs[i].Grade < recs[j].Grade
		}
		if recs[i].Day != recs[j].Day {
			return recs[i].Day < recs[j].Day
		}
		return recs[i].Hour < recs[j].Hour
	})
}
