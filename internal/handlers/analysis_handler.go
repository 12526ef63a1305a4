package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"redline/internal/models"
	"redline/internal/services"
)

// AnalysisHandler fronts the clause tooling: rewrite, diff, redaction, export.
// Everything runs as a background job the client polls.
type AnalysisHandler struct {
	jobs     *services.JobService
	rewrites *services.RewriteService
	diffs    *services.DiffService
	privacy  *services.PrivacyService
	exports  *services.ExportService
}

func NewAnalysisHandler(
	jobs *services.JobService,
	rewrites *services.RewriteService,
	diffs *services.DiffService,
	privacy *services.PrivacyService,
	exports *services.ExportService,
) *AnalysisHandler {
	return &AnalysisHandler{
		jobs:     jobs,
		rewrites: rewrites,
		diffs:    diffs,
		privacy:  privacy,
		exports:  exports,
	}
}

// @Summary      Suggest a clause rewrite
// @Tags         Analysis
// @Accept       json
// @Produce      json
// @Param        request  body      models.RewriteRequest  true  "Clause and controls"
// @Success      200      {object}  map[string]string
// @Router       /api/rewrite [post]
func (h *AnalysisHandler) Rewrite(c *gin.Context) {
	email, _ := callerIdentity(c)

	var req models.RewriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobID := h.jobs.Create("clause_rewriting", email, map[string]any{"clause_id": req.Clause.ID})
	_ = h.jobs.Start(jobID, func(job *models.Job) (any, error) {
		return h.rewrites.SuggestRewrite(req.Clause, req.Controls)
	})

	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": "processing"})
}

func (h *AnalysisHandler) Diff(c *gin.Context) {
	email, _ := callerIdentity(c)

	var req models.DiffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobID := h.jobs.Create("diff_generation", email, nil)
	_ = h.jobs.Start(jobID, func(job *models.Job) (any, error) {
		return h.diffs.Generate(req.Original, req.Rewritten), nil
	})

	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": "processing"})
}

func (h *AnalysisHandler) Redact(c *gin.Context) {
	email, _ := callerIdentity(c)

	var req models.RedactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobID := h.jobs.Create("privacy_redaction", email, nil)
	_ = h.jobs.Start(jobID, func(job *models.Job) (any, error) {
		return h.privacy.Redact(req.Text), nil
	})

	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": "processing"})
}

func (h *AnalysisHandler) Export(c *gin.Context) {
	email, _ := callerIdentity(c)

	var req models.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobID := h.jobs.Create("export", email, nil)
	_ = h.jobs.Start(jobID, func(job *models.Job) (any, error) {
		filename, err := h.exports.Export(req)
		if err != nil {
			return nil, err
		}
		return gin.H{"file": filename, "download": "/api/export/" + filename}, nil
	})

	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": "processing"})
}
