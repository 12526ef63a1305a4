package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"redline/internal/models"
)

const minClauseWords = 20

var (
	headerRe  = regexp.MustCompile(`^\s*(?:\d+\.|\d+\s+[A-Z]|[A-Z][A-Z\s]{3,}:?)\s*`)
	splitRe   = regexp.MustCompile(`\n\s*(?:\d+\.|\d+\s+[A-Z]|[A-Z][A-Z\s]{3,}:?)\s*[^\n]*\n`)
	collapseWS = regexp.MustCompile(`\s+`)
)

// DocumentService turns an uploaded PDF into text and clauses. Risk scoring is
// the RiskService's job; this only extracts and segments.
type DocumentService struct {
	risks *RiskService
}

func NewDocumentService(risks *RiskService) *DocumentService {
	return &DocumentService{risks: risks}
}

// Process extracts the text of a PDF, splits it into clauses and scores them.
// progress (may be nil) receives percentages as pages are extracted.
func (s *DocumentService) Process(path, filename string, progress func(int)) (*models.Document, error) {
	if progress == nil {
		progress = func(int) {}
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	progress(10)

	var full strings.Builder
	pageCount := reader.NumPage()
	pageStarts := make([]int, 0, pageCount) // byte offset where each page begins
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// a single unreadable page should not sink the document
			continue
		}
		pageStarts = append(pageStarts, full.Len())
		full.WriteString(text)
		full.WriteString("\n")
		progress(pageProgress(i, pageCount))
	}

	fullText := full.String()
	if strings.TrimSpace(fullText) == "" {
		return nil, fmt.Errorf("no extractable text in %s", filename)
	}

	clauses := splitClauses(fullText, pageStarts)
	for i := range clauses {
		risk := s.risks.AnalyzeClause(&clauses[i])
		if risk.Score >= 1 {
			clauses[i].Risk = risk
		}
	}
	progress(90)

	return &models.Document{
		Filename:  filename,
		PageCount: pageCount,
		WordCount: len(strings.Fields(fullText)),
		FullText:  fullText,
		Clauses:   clauses,
	}, nil
}

// splitClauses cuts the document at numbered or ALL-CAPS headings. Sections
// under 20 words are noise and dropped; if fewer than 2 clauses survive, the
// document is re-chunked on blank lines instead.
func splitClauses(fullText string, pageStarts []int) []models.Clause {
	var clauses []models.Clause
	counter := 1

	sections := splitKeepingHeaders(fullText)
	var currentTitle, currentBody string

	flush := func(offset int) {
		body := strings.TrimSpace(currentBody)
		if len(strings.Fields(body)) < minClauseWords {
			return
		}
		title := currentTitle
		if title == "" {
			title = clauseTitle(body)
		}
		clauses = append(clauses, models.Clause{
			ID:        fmt.Sprintf("clause_%d", counter),
			Title:     title,
			Text:      body,
			Page:      pageOf(offset, pageStarts),
			WordCount: len(strings.Fields(body)),
		})
		counter++
	}

	offset := 0
	bodyStart := 0
	for _, section := range sections {
		if headerRe.MatchString(section) && len(strings.Fields(section)) <= 12 {
			flush(bodyStart)
			currentTitle = clauseTitle(section)
			currentBody = ""
			bodyStart = offset + len(section)
		} else {
			currentBody += section
		}
		offset += len(section)
	}
	flush(bodyStart)

	if len(clauses) >= 2 {
		return clauses
	}

	// Fallback: paragraph chunks merged up to a sensible size.
	clauses = clauses[:0]
	counter = 1
	var chunk string
	for _, para := range strings.Split(fullText, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		chunk += para + "\n"
		if len(strings.Fields(chunk)) < 30 {
			continue
		}
		clauses = append(clauses, models.Clause{
			ID:        fmt.Sprintf("clause_%d", counter),
			Title:     clauseTitle(chunk),
			Text:      strings.TrimSpace(chunk),
			Page:      1,
			WordCount: len(strings.Fields(chunk)),
		})
		counter++
		chunk = ""
	}
	if c := strings.TrimSpace(chunk); c != "" && len(strings.Fields(c)) >= minClauseWords {
		clauses = append(clauses, models.Clause{
			ID:        fmt.Sprintf("clause_%d", counter),
			Title:     clauseTitle(c),
			Text:      c,
			Page:      1,
			WordCount: len(strings.Fields(c)),
		})
	}
	return clauses
}

func splitKeepingHeaders(text string) []string {
	var parts []string
	last := 0
	for _, loc := range splitRe.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			parts = append(parts, text[last:loc[0]])
		}
		parts = append(parts, text[loc[0]:loc[1]])
		last = loc[1]
	}
	if last < len(text) {
		parts = append(parts, text[last:])
	}
	return parts
}

func clauseTitle(text string) string {
	t := collapseWS.ReplaceAllString(strings.TrimSpace(text), " ")
	words := strings.Fields(t)
	if len(words) > 8 {
		words = words[:8]
	}
	title := strings.Join(words, " ")
	if len(title) > 60 {
		title = title[:60]
	}
	return strings.TrimRight(title, " .:")
}

// pageProgress maps page i of n onto the 10..80 band; splitting and scoring
// take the rest.
func pageProgress(i, n int) int {
	if n <= 0 {
		return 10
	}
	return 10 + 70*i/n
}

func pageOf(offset int, pageStarts []int) int {
	page := 1
	for i, start := range pageStarts {
		if offset >= start {
			page = i + 1
		}
	}
	return page
}
