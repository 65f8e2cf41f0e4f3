package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-scheduler-api/internal/dto"
	"github.com/noah-isme/sma-scheduler-api/internal/scheduler"
	appErrors "github.com/noah-isme/sma-scheduler-api/pkg/errors"
	"github.com/noah-isme/sma-scheduler-api/pkg/response"
)

type timetableGenerator interface {
	Generate(ctx context.Context, opts scheduler.Options) (*dto.GenerateScheduleResponse, error)
	Submit(ctx context.Context, opts scheduler.Options) (string, error)
	GetJob(id string) (*dto.JobStatusResponse, error)
}

// TimetableHandler exposes spec.md §6's generate_schedule operation
// over HTTP (§10.4), plus the additive async job pair and the
// recognized-options discovery endpoint.
type TimetableHandler struct {
	service timetableGenerator
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc timetableGenerator) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Generate godoc
// @Summary Generate a weekly timetable synchronously
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generation parameters"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidParameters.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req.ToOptions())
	if err != nil {
		response.Error(c, translateSchedulerError(err))
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// SubmitJob godoc
// @Summary Enqueue a timetable generation job
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generation parameters"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetable/jobs [post]
func (h *TimetableHandler) SubmitJob(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidParameters.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	id, err := h.service.Submit(c.Request.Context(), req.ToOptions())
	if err != nil {
		response.Error(c, translateSchedulerError(err))
		return
	}
	response.Accepted(c, dto.JobStatusResponse{ID: id, Status: "queued"})
}

// JobStatus godoc
// @Summary Poll a timetable generation job's status
// @Tags Timetable
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetable/jobs/{id} [get]
func (h *TimetableHandler) JobStatus(c *gin.Context) {
	status, err := h.service.GetJob(c.Param("id"))
	if err != nil {
		response.Error(c, translateSchedulerError(err))
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Defaults godoc
// @Summary Return the recognized options and their defaults
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/defaults [get]
func (h *TimetableHandler) Defaults(c *gin.Context) {
	response.JSON(c, http.StatusOK, dto.Defaults(), nil)
}

// translateSchedulerError maps the core's two error kinds
// (scheduler.ValidationError, scheduler.InfeasibleError) onto the
// stable error kinds spec.md §7 names; anything else is internal.
func translateSchedulerError(err error) error {
	switch e := err.(type) {
	case *scheduler.ValidationError:
		return appErrors.Wrap(e, appErrors.ErrInvalidParameters.Code, appErrors.ErrInvalidParameters.Status, e.Message)
	case *scheduler.InfeasibleError:
		return appErrors.Wrap(e, appErrors.ErrNoFeasibleSolution.Code, appErrors.ErrNoFeasibleSolution.Status, e.Reason)
	case *appErrors.Error:
		return e
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "internal error")
	}
}
