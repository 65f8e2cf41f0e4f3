package scheduler

// Model materializes the decision-variable index space and the
// constraint predicates of spec.md §4.2 (table C1–C10) over a validated
// Params. It does not itself search for an assignment — solver.go does
// that — but it is the single source of truth for "is this cell legal,"
// so the search and the augmenter (§4.5) can never disagree about which
// hours anchor homeroom presence or which teacher may serve which grade.
type Model struct {
	Params *Params

	anchorHours map[int]bool
	peGradeSet  map[string]bool
}

// NewModel builds the constraint surface over p. Variable creation
// itself (spec.md §4.2 "for every (t,g,d,h) with h != lunch_hour create
// x[t,g,d,h]") is implicit: the solver enumerates exactly this index
// space, and x/hr are never materialized as a dense array because the
// size bound (50 teachers × 20 grades × 7 days × 12 hours) makes that
// wasteful; the predicates below are equivalent to the constraint
// table without paying for the allocation.
func NewModel(p *Params) *Model {
	anchors := make(map[int]bool)
	for _, h := range p.AnchorHours() {
		anchors[h] = true
	}
	peGrades := make(map[string]bool, len(p.PEGrades))
	if p.EnablePEConstraints {
		for _, g := range p.PEGrades {
			peGrades[g] = true
		}
	}
	return &Model{Params: p, anchorHours: anchors, peGradeSet: peGrades}
}

// IsTeachingHour reports whether h has a decision variable at all
// (spec.md I3: no variable exists at h = lunch_hour).
func (m *Model) IsTeachingHour(h int) bool {
	return h != m.Params.LunchHour
}

// IsAnchorHour reports whether h is in the anchor set implied by the
// configured homeroom mode (spec.md glossary: anchor set).
func (m *Model) IsAnchorHour(h int) bool {
	return m.anchorHours[h]
}

// CanTeach enforces C9: when PE is enabled, the PE teacher may never
// teach a non-PE grade, in any slot.
func (m *Model) CanTeach(teacher, grade string) bool {
	if !m.Params.EnablePEConstraints || teacher != m.Params.PETeacher {
		return true
	}
	return m.peGradeSet[grade]
}

// HomeroomEligible reports whether teacher may be assigned as the
// homeroom teacher of grade under C4/C5. When PE is enabled, the PE
// teacher is excluded from the homeroom pool entirely: a homeroom
// teacher must anchor its grade's first/last
// period every day, which would force the PE teacher's weekly load
// past the fixed n_pe_periods budget (C10) or onto a day other than
// pe_day (colliding with C8/C9). Keeping the PE teacher's load
// confined to forced PE cells only is what keeps C6/C7 (anchoring) and
// C8/C9/C10 (PE concentration) from ever fighting over the same slot.
func (m *Model) HomeroomEligible(teacher, grade string) bool {
	if m.Params.HomeroomMode == HomeroomDisabled {
		return false
	}
	if m.Params.EnablePEConstraints && teacher == m.Params.PETeacher {
		return false
	}
	return true
}

// IsPEGrade reports whether grade is in the configured PE grade set.
func (m *Model) IsPEGrade(grade string) bool {
	return m.peGradeSet[grade]
}
