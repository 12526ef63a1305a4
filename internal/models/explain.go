package models

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries one turn of the assistant conversation. Type "document"
// grounds the answer in DocumentText; anything else is a general chat.
type ChatRequest struct {
	Type         string        `json:"type"`
	Prompt       string        `json:"prompt" binding:"required"`
	History      []ChatMessage `json:"history"`
	DocumentText string        `json:"document_text"`
}

type ExplainRequest struct {
	Term    string `json:"term" binding:"required"`
	Context string `json:"context"`
}

type LegalExplanation struct {
	Term            string   `json:"term"`
	PlainEnglish    string   `json:"plain_english"`
	LegalDefinition string   `json:"legal_definition"`
	RealWorldImpact string   `json:"real_world_impact"`
	Alternatives    []string `json:"alternatives"`
	RiskLevel       string   `json:"risk_level"`
	Citations       []string `json:"citations"`
}

type ClauseAnalysisRequest struct {
	ClauseText string `json:"clause_text" binding:"required"`
}

type ClauseAnalysis struct {
	ClauseText          string   `json:"clause_text"`
	KeyTerms            []string `json:"key_terms"`
	PlainEnglishSummary string   `json:"plain_english_summary"`
	PotentialImpacts    []string `json:"potential_impacts"`
	RiskFactors         []string `json:"risk_factors"`
	AlternativeLanguage []string `json:"alternative_language"`
	HistoricalContext   string   `json:"historical_context"`
	NegotiationTips     []string `json:"negotiation_tips"`
}

type TranslateRequest struct {
	LegalText string `json:"legal_text" binding:"required"`
}

type HistoricalContextRequest struct {
	ClauseText string `json:"clause_text" binding:"required"`
}
