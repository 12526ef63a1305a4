package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"redline/internal/models"
	"redline/internal/services"
)

type DocumentHandler struct {
	documents *services.DocumentService
	jobs      *services.JobService
	filesRoot string
}

func NewDocumentHandler(documents *services.DocumentService, jobs *services.JobService, filesRoot string) *DocumentHandler {
	return &DocumentHandler{documents: documents, jobs: jobs, filesRoot: filesRoot}
}

// @Summary      Upload a contract PDF
// @Description  Starts background processing; poll the returned job for the
// @Description  extracted clauses and their risk analysis.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "PDF file"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/upload [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	email, _ := callerIdentity(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file is required"})
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are supported"})
		return
	}

	uploadDir := filepath.Join(h.filesRoot, "uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}
	path := filepath.Join(uploadDir, uuid.NewString()+".pdf")
	if err := c.SaveUploadedFile(fileHeader, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}

	jobID := h.jobs.Create("document_processing", email, map[string]any{
		"file_path": path,
		"filename":  fileHeader.Filename,
	})
	_ = h.jobs.Start(jobID, func(job *models.Job) (any, error) {
		defer os.Remove(path) // upload is transient; only results are kept
		return h.documents.Process(path, fileHeader.Filename, func(pct int) {
			h.jobs.UpdateProgress(job.ID, pct)
		})
	})

	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": "processing"})
}

// Download serves a previously exported report by filename.
func (h *DocumentHandler) Download(c *gin.Context) {
	name := filepath.Base(c.Param("file")) // no traversal
	path := filepath.Join(h.filesRoot, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	c.FileAttachment(path, name)
}
