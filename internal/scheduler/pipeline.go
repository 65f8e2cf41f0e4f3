package scheduler

import "context"

// Run executes every stage of the core in the order spec.md §5 fixes
// as a strict sequence: validate → build → solve → extract → augment →
// shape. It is the one exported entry point the service layer calls;
// every other exported symbol in this package exists to let tests probe
// an individual stage without going through the whole pipeline.
func Run(ctx context.Context, opts Options) (*Solution, error) {
	params, err := Validate(opts)
	if err != nil {
		return nil, err
	}

	model := NewModel(params)

	assignments, homeroom, status, iterations, err := Solve(ctx, model)
	if err != nil {
		return nil, err
	}

	teaching, homeroomRecords := Extract(model, assignments, homeroom)
	augmented := Augment(model, teaching, homeroomRecords)
	rows, byTeacher, byGrade, gradeToNumber := Shape(model, augmented)

	return &Solution{
		Params:        params,
		Status:        status,
		Teaching:      teaching,
		Homeroom:      homeroomRecords,
		Augmented:     augmented,
		Rows:          rows,
		ByTeacher:     byTeacher,
		ByGrade:       byGrade,
		GradeToNumber: gradeToNumber,
		Iterations:    iterations,
	}, nil
}
