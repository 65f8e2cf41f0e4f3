package scheduler

import "context"

// Assignment is one decided (day, hour, grade) -> teacher cell, the raw
// output of Solve before extractor.go turns it into the sorted,
// label-carrying records the rest of the pipeline consumes.
type Assignment struct {
	Day     int
	Hour    int
	Grade   string
	Teacher string
}

// cellPos keys the forced-cell map shared by the homeroom-anchor pass,
// the PE pass, and the per-day backtracking fill.
type cellPos struct {
	Day   int
	Hour  int
	Grade string
}

// Solve runs the three-stage pipeline spec.md §4.3 calls for: bipartite
// homeroom matching, forced-cell placement of anchors and PE periods,
// then a per-day backtracking search over whatever cells remain free.
// It respects ctx's deadline (the 300s budget of spec.md §4.3/§5 is set
// by the caller, not here) and never retries a day once its search
// returns — a day that cannot be completed within budget ends the
// whole solve.
func Solve(ctx context.Context, m *Model) ([]Assignment, map[string]string, SolveStatus, int, error) {
	homeroom, ok := assignHomerooms(m)
	if !ok {
		return nil, nil, StatusInfeasible, 0, &InfeasibleError{
			Status: StatusInfeasible,
			Reason: "no assignment of homeroom teachers to grades satisfies C4/C5",
		}
	}

	forced := map[cellPos]string{}
	for _, g := range m.Params.Grades {
		for _, d := range m.Params.Days {
			for _, h := range m.Params.AnchorHours() {
				forced[cellPos{Day: d, Hour: h, Grade: g}] = homeroom[g]
			}
		}
	}

	if reason, ok := assignPE(m, forced); !ok {
		return nil, nil, StatusInfeasible, 0, &InfeasibleError{
			Status: StatusInfeasible,
			Reason: reason,
		}
	}

	iterations := 0
	var assignments []Assignment
	for _, d := range m.Params.Days {
		if err := ctx.Err(); err != nil {
			return nil, nil, StatusUnknownWithinBudget, iterations, &InfeasibleError{
				Status: StatusUnknownWithinBudget,
				Reason: "solve budget exhausted before every day could be scheduled",
			}
		}
		dayAssign, n, ok := solveDay(ctx, m, d, forced, &iterations)
		if !ok {
			if ctx.Err() != nil {
				return nil, nil, StatusUnknownWithinBudget, iterations, &InfeasibleError{
					Status: StatusUnknownWithinBudget,
					Reason: "solve budget exhausted before every day could be scheduled",
				}
			}
			return nil, nil, StatusInfeasible, iterations, &InfeasibleError{
				Status: StatusInfeasible,
				Reason: "no satisfying teacher assignment exists for a day under C1/C2/C3/C9",
			}
		}
		_ = n
		assignments = append(assignments, dayAssign...)
	}

	return assignments, homeroom, StatusOptimal, iterations, nil
}

// assignHomerooms finds a homeroom teacher for every grade via Kuhn's
// augmenting-path algorithm over the bipartite graph grade -> eligible
// teacher (model.HomeroomEligible). A perfect matching on the grade
// side is the minimal witness for C4/C5's "at least one homeroom
// teacher per grade" (DESIGN.md's Open Question decision).
func assignHomerooms(m *Model) (map[string]string, bool) {
	result := map[string]string{}
	if m.Params.HomeroomMode == HomeroomDisabled {
		return result, true
	}

	eligible := make(map[string][]string, len(m.Params.Grades))
	for _, g := range m.Params.Grades {
		for _, t := range m.Params.Teachers {
			if m.HomeroomEligible(t, g) {
				eligible[g] = append(eligible[g], t)
			}
		}
	}

	matchOf := map[string]string{} // teacher -> grade
	for _, g := range m.Params.Grades {
		visited := map[string]bool{}
		if !tryAugment(g, eligible, matchOf, visited) {
			return nil, false
		}
	}
	for t, g := range matchOf {
		result[g] = t
	}
	return result, true
}

func tryAugment(grade string, eligible map[string][]string, matchOf map[string]string, visited map[string]bool) bool {
	for _, t := range eligible[grade] {
		if visited[t] {
			continue
		}
		visited[t] = true
		cur, taken := matchOf[t]
		if !taken || tryAugment(cur, eligible, matchOf, visited) {
			matchOf[t] = grade
			return true
		}
	}
	return false
}

// assignPE places every PE period as a forced cell on pe_day (and
// beyond, once each pe_grade has its required occurrence there) so the
// per-day backtracking fill never has to reason about C8/C10 — by the
// time solveDay runs, every PE cell is already decided, and solveDay
// only keeps the PE teacher out of the remaining cells (C9/C10).
func assignPE(m *Model, forced map[cellPos]string) (string, bool) {
	if !m.Params.EnablePEConstraints || m.Params.NPEPeriods == 0 {
		return "", true
	}
	required := len(m.Params.PEGrades)
	if m.Params.NPEPeriods < required {
		return "n_pe_periods is smaller than the number of pe_grades needing a weekly occurrence", false
	}

	peTeacherUsed := map[[2]int]bool{} // (day, hour) already holding the pe teacher
	gradeHoursByDay := map[string]map[int][]int{}

	adjacent := func(d, h int, g string) bool {
		hours := gradeHoursByDay[g][d]
		for _, used := range hours {
			if used == h-1 || used == h+1 {
				return true
			}
		}
		return false
	}
	canPlace := func(d, h int, g string) bool {
		if existing, ok := forced[cellPos{Day: d, Hour: h, Grade: g}]; ok && existing != m.Params.PETeacher {
			return false
		}
		if peTeacherUsed[[2]int{d, h}] {
			return false
		}
		return !adjacent(d, h, g)
	}
	place := func(d, h int, g string) {
		forced[cellPos{Day: d, Hour: h, Grade: g}] = m.Params.PETeacher
		peTeacherUsed[[2]int{d, h}] = true
		if gradeHoursByDay[g] == nil {
			gradeHoursByDay[g] = map[int][]int{}
		}
		gradeHoursByDay[g][d] = append(gradeHoursByDay[g][d], h)
	}

	for _, g := range m.Params.PEGrades {
		placed := false
		for _, h := range m.Params.TeachingHours {
			if canPlace(m.Params.PEDay, h, g) {
				place(m.Params.PEDay, h, g)
				placed = true
				break
			}
		}
		if !placed {
			return "pe_day has no free hour left to seat every pe_grade", false
		}
	}

	remaining := m.Params.NPEPeriods - required
	for _, d := range m.Params.Days {
		if remaining == 0 {
			break
		}
		for _, g := range m.Params.PEGrades {
			if remaining == 0 {
				break
			}
			for _, h := range m.Params.TeachingHours {
				if remaining == 0 {
					break
				}
				if d == m.Params.PEDay && forced[cellPos{Day: d, Hour: h, Grade: g}] == m.Params.PETeacher {
					continue
				}
				if canPlace(d, h, g) {
					place(d, h, g)
					remaining--
				}
			}
		}
	}
	if remaining > 0 {
		return "n_pe_periods could not be fully seated without violating C2 or C3 adjacency", false
	}
	return "", true
}

// dayCell is one free (hour, grade) pair solveDay must still decide,
// ordered by hour so that adjacency lookups (C3) only ever need the
// immediately preceding hour's already-decided teacher and the
// following hour's teacher if that cell was forced.
type dayCell struct {
	Hour  int
	Grade string
}

// solveDay backtracks over every cell of day d not already forced by
// the homeroom-anchor or PE passes. Hour-major ordering means that by
// the time cell (h, g) is considered, cell (h-1, g) — forced or
// free — has already been decided and cell (h+1, g) holds a teacher
// only if it was forced, so the C3 adjacency check is two map lookups.
func solveDay(ctx context.Context, m *Model, d int, forced map[cellPos]string, iterations *int) ([]Assignment, int, bool) {
	assignment := map[cellPos]string{}
	usedAtHour := map[int]map[string]bool{}
	for k, t := range forced {
		if k.Day != d {
			continue
		}
		assignment[k] = t
		if usedAtHour[k.Hour] == nil {
			usedAtHour[k.Hour] = map[string]bool{}
		}
		usedAtHour[k.Hour][t] = true
	}

	var free []dayCell
	for _, h := range m.Params.TeachingHours {
		for _, g := range m.Params.Grades {
			if _, ok := forced[cellPos{Day: d, Hour: h, Grade: g}]; !ok {
				free = append(free, dayCell{Hour: h, Grade: g})
			}
		}
	}

	adjacentHour := func(h int) (int, bool) {
		prev := -1
		for _, th := range m.Params.TeachingHours {
			if th == h {
				break
			}
			prev = th
		}
		if prev == h-1 {
			return prev, true
		}
		return 0, false
	}

	var backtrack func(idx int) bool
	backtrack = func(idx int) bool {
		if idx == len(free) {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		cell := free[idx]
		var prevTeacher string
		if prevHour, ok := adjacentHour(cell.Hour); ok {
			prevTeacher = assignment[cellPos{Day: d, Hour: prevHour, Grade: cell.Grade}]
		}
		// (h+1, g) is still undecided unless a pre-pass forced it, so a
		// forced teacher there is the only forward C3 conflict.
		var nextTeacher string
		if next := cell.Hour + 1; next <= m.Params.NHours && m.IsTeachingHour(next) {
			nextTeacher = assignment[cellPos{Day: d, Hour: next, Grade: cell.Grade}]
		}
		if usedAtHour[cell.Hour] == nil {
			usedAtHour[cell.Hour] = map[string]bool{}
		}
		for _, t := range m.Params.Teachers {
			*iterations++
			if m.Params.EnablePEConstraints && t == m.Params.PETeacher {
				continue
			}
			if t == prevTeacher || t == nextTeacher {
				continue
			}
			if usedAtHour[cell.Hour][t] {
				continue
			}
			if !m.CanTeach(t, cell.Grade) {
				continue
			}
			key := cellPos{Day: d, Hour: cell.Hour, Grade: cell.Grade}
			assignment[key] = t
			usedAtHour[cell.Hour][t] = true
			if backtrack(idx + 1) {
				return true
			}
			delete(assignment, key)
			usedAtHour[cell.Hour][t] = false
		}
		return false
	}

	if !backtrack(0) {
		return nil, *iterations, false
	}

	result := make([]Assignment, 0, len(assignment))
	for k, t := range assignment {
		result = append(result, Assignment{Day: k.Day, Hour: k.Hour, Grade: k.Grade, Teacher: t})
	}
	return result, *iterations, true
}
