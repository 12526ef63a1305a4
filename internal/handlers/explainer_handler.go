package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"redline/internal/models"
	"redline/internal/services"
)

// ExplainerHandler fronts the assistant features: chat, term explanation,
// clause impact analysis, plain-English translation and historical context.
// Like the clause tooling, everything runs as a background job.
type ExplainerHandler struct {
	jobs      *services.JobService
	chat      *services.ChatService
	explainer *services.ExplainerService
}

func NewExplainerHandler(jobs *services.JobService, chat *services.ChatService, explainer *services.ExplainerService) *ExplainerHandler {
	return &ExplainerHandler{jobs: jobs, chat: chat, explainer: explainer}
}

// @Summary      Ask the legal assistant
// @Tags         Assistant
// @Accept       json
// @Produce      json
// @Param        request  body      models.ChatRequest  true  "Prompt, history and optional document text"
// @Success      200      {object}  map[string]string
// @Router       /api/chat [post]
func (h *ExplainerHandler) Chat(c *gin.Context) {
	email, _ := callerIdentity(c)

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobID := h.jobs.Create("chat", email, map[string]any{"type": req.Type})
	_ = h.jobs.Start(jobID, func(job *models.Job) (any, error) {
		response, err := h.chat.Respond(req)
		if err != nil {
			return nil, err
		}
		return gin.H{"response": response}, nil
	})

	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": "processing"})
}

// @Summary      Explain a legal term
// @Tags         Assistant
// @Accept       json
// @Produce      json
// @Param        request  body      models.ExplainRequest  true  "Term and optional context"
// @Success      200      {object}  map[string]string
// @Router       /api/explain [post]
func (h *ExplainerHandler) Explain(c *gin.Context) {
	email, _ := callerIdentity(c)

	var req models.ExplainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobID := h.jobs.Create("explanation", email, map[string]any{"term": req.Term})
	_ = h.jobs.Start(jobID, func(job *models.Job) (any, error) {
		return h.explainer.ExplainTerm(req.Term, req.Context)
	})

	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": "processing"})
}

// @Summary      Analyze clause impact
// @Tags         Assistant
// @Accept       json
// @Produce      json
// @Param        request  body      models.ClauseAnalysisRequest  true  "Clause text"
// @Success      200      {object}  map[string]string
// @Router       /api/analyze/clause [post]
func (h *ExplainerHandler) AnalyzeClause(c *gin.Context) {
	email, _ := callerIdentity(c)

	var req models.ClauseAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobID := h.jobs.Create("clause_analysis", email, nil)
	_ = h.jobs.Start(jobID, func(job *models.Job) (any, error) {
		return h.explainer.AnalyzeClause(req.ClauseText)
	})

	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": "processing"})
}

// @Summary      Translate legal language to plain English
// @Tags         Assistant
// @Accept       json
// @Produce      json
// @Param        request  body      models.TranslateRequest  true  "Legal text"
// @Success      200      {object}  map[string]string
// @Router       /api/translate/plain [post]
func (h *ExplainerHandler) TranslatePlain(c *gin.Context) {
	email, _ := callerIdentity(c)

	var req models.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobID := h.jobs.Create("plain_translation", email, nil)
	_ = h.jobs.Start(jobID, func(job *models.Job) (any, error) {
		alternatives, err := h.explainer.TranslatePlain(req.LegalText)
		if err != nil {
			return nil, err
		}
		return gin.H{"alternatives": alternatives}, nil
	})

	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": "processing"})
}

// @Summary      Historical context for a clause
// @Tags         Assistant
// @Accept       json
// @Produce      json
// @Param        request  body      models.HistoricalContextRequest  true  "Clause text"
// @Success      200      {object}  map[string]string
// @Router       /api/historical/context [post]
func (h *ExplainerHandler) HistoricalContext(c *gin.Context) {
	email, _ := callerIdentity(c)

	var req models.HistoricalContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobID := h.jobs.Create("historical_context", email, nil)
	_ = h.jobs.Start(jobID, func(job *models.Job) (any, error) {
		context, err := h.explainer.HistoricalContext(req.ClauseText)
		if err != nil {
			return nil, err
		}
		return gin.H{"historical_context": context}, nil
	})

	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": "processing"})
}
