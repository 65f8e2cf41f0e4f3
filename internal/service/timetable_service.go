package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-scheduler-api/internal/dto"
	"github.com/noah-isme/sma-scheduler-api/internal/scheduler"
	pkgcache "github.com/noah-isme/sma-scheduler-api/pkg/cache"
	appErrors "github.com/noah-isme/sma-scheduler-api/pkg/errors"
	"github.com/noah-isme/sma-scheduler-api/pkg/jobs"
	"github.com/noah-isme/sma-scheduler-api/pkg/metrics"
)

const (
	jobStatusQueued  = "queued"
	jobStatusRunning = "running"
	jobStatusDone    = "done"
	jobStatusFailed  = "failed"
)

// jobRecord tracks one asynchronous generation request. There is no
// persistence layer backing this (spec.md §6: "Persistence: None") —
// a job's status lives only as long as the process that queued it,
// matching the core's own no-state contract.
type jobRecord struct {
	mu       sync.Mutex
	status   string
	response *dto.GenerateScheduleResponse
	errMsg   string
}

func (j *jobRecord) snapshot(id string) dto.JobStatusResponse {
	j.mu.Lock()
	defer j.mu.Unlock()
	return dto.JobStatusResponse{
		ID:       id,
		Status:   j.status,
		Result:   j.response,
		ErrorMsg: j.errMsg,
	}
}

// solveCache is the subset of pkg/cache.SolveCache the service depends
// on, so tests can substitute an in-memory fake.
type solveCache interface {
	Get(ctx context.Context, key string) (*scheduler.Solution, bool, error)
	Set(ctx context.Context, key string, sol *scheduler.Solution) error
}

// jobDispatcher is the subset of pkg/jobs.Queue the service depends on.
type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// TimetableService orchestrates spec.md §6's generate_schedule
// operation: a cache lookup in front of the deterministic core
// pipeline, plus an asynchronous job-submission path for callers that
// cannot hold a blocking HTTP connection open for the full solve
// budget.
type TimetableService struct {
	cache       solveCache
	queue       jobDispatcher
	metrics     *metrics.Metrics
	logger      *zap.Logger
	solveBudget time.Duration

	mu   sync.Mutex
	jobs map[string]*jobRecord
}

// NewTimetableService constructs the service. c and queue may be nil:
// an unavailable cache just means every call re-solves, and a nil
// queue means Submit is unsupported (the handler reports
// solver_unavailable in that case). c is accepted as its concrete
// type, not the solveCache interface, so a nil *pkgcache.SolveCache
// here becomes a genuinely nil s.cache interface value rather than a
// non-nil interface wrapping a nil pointer. solveBudget is the hard
// wall-clock cap (spec.md §4.3/§7) imposed on every solve, synchronous
// or queued, regardless of what deadline (if any) the caller's own
// context carries.
func NewTimetableService(c *pkgcache.SolveCache, queue jobDispatcher, m *metrics.Metrics, logger *zap.Logger, solveBudget time.Duration) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if solveBudget <= 0 {
		solveBudget = 300 * time.Second
	}
	svc := &TimetableService{
		queue:       queue,
		metrics:     m,
		logger:      logger,
		solveBudget: solveBudget,
		jobs:        make(map[string]*jobRecord),
	}
	if c != nil {
		svc.cache = c
	}
	return svc
}

// SetQueue attaches the bounded solve pool after construction, letting
// callers build the queue around the service's own Handle method
// (which needs a *TimetableService to exist first) without a second,
// throwaway service instance.
func (s *TimetableService) SetQueue(queue jobDispatcher) {
	s.queue = queue
}

// Generate runs spec.md §6's generate_schedule synchronously, serving
// a cached result when the validated parameters match a prior request
// within the cache's TTL.
func (s *TimetableService) Generate(ctx context.Context, opts scheduler.Options) (*dto.GenerateScheduleResponse, error) {
	params, err := scheduler.Validate(opts)
	if err != nil {
		return nil, err
	}

	var cacheKey string
	if s.cache != nil {
		cacheKey, err = pkgcache.Key(params)
		if err == nil {
			if sol, hit, getErr := s.cache.Get(ctx, cacheKey); getErr == nil && hit {
				resp := dto.FromSolution(sol, 0, true)
				return &resp, nil
			}
		}
	}

	solveCtx, cancel := context.WithTimeout(ctx, s.solveBudget)
	defer cancel()

	start := time.Now()
	sol, err := scheduler.Run(solveCtx, opts)
	elapsed := time.Since(start)
	if err != nil {
		s.observeSolve(statusLabel(err), elapsed)
		return nil, err
	}
	s.observeSolve(sol.Status.String(), elapsed)

	if s.cache != nil && cacheKey != "" {
		if setErr := s.cache.Set(ctx, cacheKey, sol); setErr != nil {
			s.logger.Sugar().Warnw("solve cache write failed", "error", setErr)
		}
	}

	resp := dto.FromSolution(sol, elapsed.Seconds(), false)
	return &resp, nil
}

// Submit enqueues a generation request onto the bounded solve pool
// and returns its job id immediately.
func (s *TimetableService) Submit(ctx context.Context, opts scheduler.Options) (string, error) {
	if s.queue == nil {
		return "", appErrors.ErrSolverUnavailable
	}
	if _, err := scheduler.Validate(opts); err != nil {
		return "", err
	}

	id := uuid.NewString()
	record := &jobRecord{status: jobStatusQueued}

	s.mu.Lock()
	s.jobs[id] = record
	s.mu.Unlock()

	payload := opts
	if err := s.queue.Enqueue(jobs.Job{ID: id, Type: "timetable.generate", Payload: payload}); err != nil {
		record.mu.Lock()
		record.status = jobStatusFailed
		record.errMsg = err.Error()
		record.mu.Unlock()
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue generation job")
	}
	return id, nil
}

// GetJob reports a previously submitted job's status.
func (s *TimetableService) GetJob(id string) (*dto.JobStatusResponse, error) {
	s.mu.Lock()
	record, ok := s.jobs[id]
	s.mu.Unlock()
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	snap := record.snapshot(id)
	return &snap, nil
}

// Handle is the jobs.Handler the worker pool invokes for a queued
// generation job (§10.6).
func (s *TimetableService) Handle(ctx context.Context, job jobs.Job) error {
	opts, ok := job.Payload.(scheduler.Options)
	if !ok {
		return appErrors.ErrInternal
	}

	s.mu.Lock()
	record, exists := s.jobs[job.ID]
	s.mu.Unlock()
	if !exists {
		return appErrors.ErrNotFound
	}

	record.mu.Lock()
	record.status = jobStatusRunning
	record.mu.Unlock()

	resp, err := s.Generate(ctx, opts)

	record.mu.Lock()
	defer record.mu.Unlock()
	if err != nil {
		record.status = jobStatusFailed
		record.errMsg = appErrors.FromError(err).Message
		return err
	}
	record.status = jobStatusDone
	record.response = resp
	return nil
}

func (s *TimetableService) observeSolve(status string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveSolve(status, d)
	}
}

func statusLabel(err error) string {
	var infErr *scheduler.InfeasibleError
	if e, ok := err.(*scheduler.InfeasibleError); ok {
		infErr = e
		return infErr.Status.String()
	}
	return "invalid_parameters"
}
