package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apimodels "github.com/vunguyen00/Netflix/pkg/models"
	"github.com/vunguyen00/Netflix/pkg/response"
	"github.com/vunguyen00/Netflix/pkg/scheduler"
)

// GetScheduledJobs returns all scheduled jobs
// @Summary List scheduled jobs (admin)
// @Description Returns the maintenance jobs with their last and next runs
// @Tags Scheduler
// @Produce json
// @Security BearerAuth
// @Success 200 {array} apimodels.ScheduledJobResponse
// @Failure 503 {object} apimodels.ErrorResponse
// @Router /admin/scheduler/jobs [get]
func (h *HandlerService) GetScheduledJobs(c *gin.Context) {
	if !h.IsSchedulerAvailable() {
		HandleError(c, NewAPIError(http.StatusServiceUnavailable, "Scheduler not available", nil))
		return
	}

	jobs := h.scheduler.GetJobs()
	resp := make([]apimodels.ScheduledJobResponse, 0, len(jobs))
	for _, job := range jobs {
		resp = append(resp, toJobResponse(job))
	}
	response.WriteJSONResponse(c, http.StatusOK, resp)
}

// RunScheduledJob runs a job immediately
// @Summary Run scheduled job now (admin)
// @Description Executes the job outside its schedule and returns its state afterwards
// @Tags Scheduler
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} apimodels.ScheduledJobResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @Failure 503 {object} apimodels.ErrorResponse
// @Router /admin/scheduler/jobs/{id}/run [post]
func (h *HandlerService) RunScheduledJob(c *gin.Context) {
	if !h.IsSchedulerAvailable() {
		HandleError(c, NewAPIError(http.StatusServiceUnavailable, "Scheduler not available", nil))
		return
	}

	jobID := c.Param("id")
	if err := h.scheduler.RunJob(jobID); err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			HandleError(c, NewNotFoundError("Job not found", err))
			return
		}
		HandleError(c, NewAPIError(http.StatusInternalServerError, "Job failed", err))
		return
	}

	job, err := h.scheduler.GetJob(jobID)
	if err != nil {
		HandleError(c, NewNotFoundError("Job not found", err))
		return
	}
	response.WriteJSONResponse(c, http.StatusOK, toJobResponse(job))
}

// DeleteScheduledJob unschedules a job until the next restart
// @Summary Remove scheduled job (admin)
// @Tags Scheduler
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 204
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 503 {object} apimodels.ErrorResponse
// @Router /admin/scheduler/jobs/{id} [delete]
func (h *HandlerService) DeleteScheduledJob(c *gin.Context) {
	if !h.IsSchedulerAvailable() {
		HandleError(c, NewAPIError(http.StatusServiceUnavailable, "Scheduler not available", nil))
		return
	}

	if err := h.scheduler.RemoveJob(c.Param("id")); err != nil {
		HandleError(c, NewNotFoundError("Job not found", err))
		return
	}
	c.Status(http.StatusNoContent)
}

func toJobResponse(job scheduler.ScheduledJob) apimodels.ScheduledJobResponse {
	return apimodels.ScheduledJobResponse{
		ID:      job.ID,
		Name:    job.Name,
		Cron:    job.Cron,
		NextRun: job.NextRun,
		LastRun: job.LastRun,
		Status:  job.Status,
	}
}
