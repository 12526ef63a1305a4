package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"redline/internal/models"
)

// Generator is an interface so handlers can be tested with a stub.
type Generator interface {
	GenerateRiskReport(data ReportData) (string, error)
}

type ReportGenerator struct {
	RootDir string // storage root, e.g. "./files"
}

type ReportData struct {
	Title     string
	Document  models.Document
	Rewrites  []models.RewriteResult
	CreatedAt time.Time
	Filename  string // name only, no paths; generated when empty
}

func NewReportGenerator(rootDir string) *ReportGenerator {
	return &ReportGenerator{RootDir: filepath.Clean(rootDir)}
}

// GenerateRiskReport writes the risk report PDF and returns its filename.
func (g *ReportGenerator) GenerateRiskReport(data ReportData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("risk_report_%d.pdf", data.CreatedAt.Unix())
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	title := data.Title
	if title == "" {
		title = "Contract Risk Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetAuthor("Legal Redline", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// ===== Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	sub := fmt.Sprintf("%s  —  %s", data.Document.Filename, data.CreatedAt.Format("02.01.2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)

	// ===== Summary
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	g.kv(pdf, "Pages", fmt.Sprintf("%d", data.Document.PageCount))
	g.kv(pdf, "Words", fmt.Sprintf("%d", data.Document.WordCount))
	g.kv(pdf, "Clauses analyzed", fmt.Sprintf("%d", len(data.Document.Clauses)))
	g.kv(pdf, "Flagged clauses", fmt.Sprintf("%d", countFlagged(data.Document.Clauses)))
	pdf.Ln(4)

	// ===== Flagged clauses
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Flagged Clauses", "", 1, "L", false, 0, "")
	for _, clause := range data.Document.Clauses {
		if clause.Risk == nil {
			continue
		}
		pdf.SetFont("Helvetica", "B", 11)
		head := fmt.Sprintf("%s (page %d, score %d)", clause.Title, clause.Page, clause.Risk.Score)
		pdf.MultiCell(0, 6, head, "", "L", false)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, strings.Join(clause.Risk.Tags, ", "), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, clause.Text, "", "L", false)
		for _, r := range clause.Risk.Rationales {
			pdf.MultiCell(0, 5, "- "+r, "", "L", false)
		}
		pdf.Ln(3)
	}

	// ===== Rewrites appendix
	if len(data.Rewrites) > 0 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, "Suggested Rewrites", "", 1, "L", false, 0, "")
		for i, rw := range data.Rewrites {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.CellFormat(0, 6, fmt.Sprintf("Rewrite %d (%s)", i+1, rw.Citation), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, rw.Rewrite, "", "L", false)
			pdf.SetFont("Helvetica", "I", 10)
			pdf.MultiCell(0, 5, "Rationale: "+rw.Rationale, "", "L", false)
			pdf.Ln(3)
		}
	}

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return filename, nil
}

func (g *ReportGenerator) ensureTarget(filename string) (string, error) {
	clean := filepath.Base(filename) // no traversal
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	return filepath.Join(g.RootDir, clean), nil
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	pdf.Ln(2)
	x, y := pdf.GetXY()
	pdf.Line(x, y, 190, y)
	pdf.Ln(4)
}

func (g *ReportGenerator) kv(pdf *gofpdf.Fpdf, key, value string) {
	pdf.CellFormat(50, 6, key+":", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func countFlagged(clauses []models.Clause) int {
	n := 0
	for _, c := range clauses {
		if c.Risk != nil {
			n++
		}
	}
	return n
}
