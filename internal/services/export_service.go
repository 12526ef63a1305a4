package services

import (
	"time"

	"redline/internal/models"
	"redline/internal/pdf"
)

// ExportService renders the downloadable risk report.
type ExportService struct {
	generator pdf.Generator
}

func NewExportService(generator pdf.Generator) *ExportService {
	return &ExportService{generator: generator}
}

// Export writes the report and returns its filename (served by the download
// endpoint, never an absolute path).
func (s *ExportService) Export(req models.ExportRequest) (string, error) {
	return s.generator.GenerateRiskReport(pdf.ReportData{
		Title:     req.Title,
		Document:  req.Document,
		Rewrites:  req.Rewrites,
		CreatedAt: time.Now(),
	})
}
