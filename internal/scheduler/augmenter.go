package scheduler

import "sort"

// presenceKey identifies a (teacher, grade, day, hour) cell, used both
// to detect rows already present and to avoid inserting a synthetic
// duplicate of one.
type presenceKey struct {
	Teacher string
	Grade   string
	Day     int
	Hour    int
}

// Augment implements spec.md §4.5's two operations over the already
// extracted teaching/homeroom tables: flag real rows that happen to
// fall on an anchor slot taught by a homeroom teacher, then insert a
// synthetic "presence" row for any (homeroom teacher, grade, day,
// anchor hour) combination the teaching schedule doesn't already
// cover. Homeroom presence was never a decision variable (§4.2's
// model), so the second half of this function is the only place that
// gap gets closed — it is deliberately independent of how the solver
// happened to produce the teaching table, because the augmenter must
// hold even for a homeroom relation with more than one teacher per
// grade (I5 only requires "at least one"). The result is re-sorted
// Grade, Day, Hour before it's returned so synthetic rows land
// alongside the real ones they accompany rather than trailing as a
// separate block.
func Augment(m *Model, teaching []TeachingRecord, homeroom []HomeroomRecord) []AugmentedRecord {
	anchorHours := m.Params.AnchorHours()
	anchorSet := make(map[int]bool, len(anchorHours))
	for _, h := range anchorHours {
		anchorSet[h] = true
	}

	isHomeroomTeacher := make(map[[2]string]bool, len(homeroom))
	for _, hr := range homeroom {
		isHomeroomTeacher[[2]string{hr.Teacher, hr.Grade}] = true
	}

	present := make(map[presenceKey]bool, len(teaching))
	result := make([]AugmentedRecord, 0, len(teaching))
	for _, row := range teaching {
		flagged := anchorSet[row.Hour] && isHomeroomTeacher[[2]string{row.Teacher, row.Grade}]
		result = append(result, AugmentedRecord{TeachingRecord: row, IsHomeroom: flagged})
		present[presenceKey{Teacher: row.Teacher, Grade: row.Grade, Day: row.Day, Hour: row.Hour}] = true
	}

	for _, hr := range homeroom {
		for _, d := range m.Params.Days {
			for _, h := range anchorHours {
				key := presenceKey{Teacher: hr.Teacher, Grade: hr.Grade, Day: d, Hour: h}
				if present[key] {
					continue
				}
				result = append(result, AugmentedRecord{
					TeachingRecord: TeachingRecord{
						Teacher:       hr.Teacher,
						Grade:         hr.Grade,
						Day:           d,
						Hour:          h,
						DayName:       m.Params.DayNames[d],
						TimeSlotLabel: m.Params.TimeLabels[h],
					},
					IsHomeroom:  true,
					IsSynthetic: true,
				})
				present[key] = true
			}
		}
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].TeachingRecord, result[j].TeachingRecord
		if a.Grade != b.Grade {
			return a.Grade < b.Grade
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.Hour < b.Hour
	})

	return result
}
