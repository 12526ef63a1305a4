package models

type RiskAnalysis struct {
	Score      int      `json:"score"`
	Tags       []string `json:"tags"`
	Rationales []string `json:"rationales"`
}

type Clause struct {
	ID        string        `json:"clause_id"`
	Title     string        `json:"title"`
	Text      string        `json:"text"`
	Page      int           `json:"page"`
	WordCount int           `json:"word_count"`
	Risk      *RiskAnalysis `json:"risk_analysis,omitempty"`
}

type Document struct {
	Filename  string   `json:"filename"`
	PageCount int      `json:"page_count"`
	WordCount int      `json:"word_count"`
	FullText  string   `json:"-"` // can be large; not part of API payloads
	Clauses   []Clause `json:"clauses"`
}

type RewriteRequest struct {
	Clause   Clause         `json:"clause" binding:"required"`
	Controls map[string]any `json:"controls"`
}

// RewriteResult mirrors the JSON contract the model is instructed to return.
type RewriteResult struct {
	Rewrite        string   `json:"rewrite"`
	Rationale      string   `json:"rationale"`
	FallbackLevels []string `json:"fallback_levels"`
	RiskReduction  string   `json:"risk_reduction"`
	Citation       string   `json:"citation"`
}

type DiffRequest struct {
	Original  string `json:"original" binding:"required"`
	Rewritten string `json:"rewritten" binding:"required"`
}

type DiffResult struct {
	HTML       string  `json:"html"`
	Insertions int     `json:"insertions"`
	Deletions  int     `json:"deletions"`
	Unchanged  int     `json:"unchanged"`
	Similarity float64 `json:"similarity"`
}

type RedactRequest struct {
	Text string `json:"text" binding:"required"`
}

type RedactResult struct {
	Redacted string         `json:"redacted"`
	Counts   map[string]int `json:"counts"`
}

type ExportRequest struct {
	Title    string          `json:"title"`
	Document Document        `json:"document" binding:"required"`
	Rewrites []RewriteResult `json:"rewrites"`
}
