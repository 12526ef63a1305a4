package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"redline/internal/models"
	"redline/internal/services"
)

type JobHandler struct {
	jobs *services.JobService
}

func NewJobHandler(jobs *services.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// @Summary      Poll a job
// @Tags         Jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  models.Job
// @Failure      404  {object}  map[string]string
// @Router       /api/jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	email, _ := callerIdentity(c)
	job := h.jobs.Get(c.Param("id"))
	if job == nil || job.Owner != email {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	email, _ := callerIdentity(c)
	jobs := h.jobs.ListByOwner(email)
	if jobs == nil {
		jobs = []*models.Job{}
	}
	c.JSON(http.StatusOK, jobs)
}
