package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"redline/internal/models"
)

// Patterns for spotting legal terminology inside a clause. Matching is
// case-insensitive; duplicates are collapsed keeping first occurrence.
var legalTermPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:force majeure|liquidated damages|indemnification|jurisdiction|arbitration)\b`),
	regexp.MustCompile(`(?i)\b(?:breach|default|termination|renewal|assignment)\b`),
	regexp.MustCompile(`(?i)\b(?:warranty|guarantee|representation|covenant)\b`),
	regexp.MustCompile(`(?i)\b(?:liability|damages|penalty|remedy|cure)\b`),
	regexp.MustCompile(`(?i)\b(?:notice period|grace period|cooling-off period)\b`),
	regexp.MustCompile(`(?i)\b(?:effective date|expiration|renewal date)\b`),
	regexp.MustCompile(`(?i)\b(?:late fee|interest|payment terms|escrow|deposit|retainer)\b`),
	regexp.MustCompile(`(?i)\b(?:party|parties|principal|agent|fiduciary|trustee|beneficiary|assignee|successor)\b`),
}

const explainSystemPrompt = `You are an expert legal analyst and contract attorney.
Explain the legal term in plain English while providing an accurate legal definition.
Use professional, accessible language and focus on contract law context.

Always respond with valid JSON in this exact format:
{
  "term": "the term being explained",
  "plain_english": "Clear explanation in everyday language",
  "legal_definition": "Formal legal definition with context",
  "real_world_impact": "What this means in practice for the parties",
  "alternatives": ["alternative term 1", "alternative term 2"],
  "risk_level": "Low|Medium|High",
  "citations": ["general legal principle", "common usage"]
}`

const analyzeSystemPrompt = `As a legal expert, analyze the contract clause in detail.

Always respond with valid JSON in this exact format:
{
  "plain_english_summary": "What this clause means in simple terms",
  "potential_impacts": ["List of potential consequences"],
  "risk_factors": ["Specific risks this clause creates"],
  "alternative_language": ["Better ways to write this clause"],
  "historical_context": "How courts have interpreted similar clauses",
  "negotiation_tips": ["Advice for negotiating this clause"]
}`

const translateSystemPrompt = `Rewrite the legal clause in plain English while maintaining legal accuracy.

Always respond with valid JSON in this exact format:
{
  "alternatives": [
    "Version 1: Most simplified",
    "Version 2: Balanced simplification",
    "Version 3: Minimal changes"
  ]
}`

// ExplainerService produces plain-English explanations, clause impact analysis,
// plain-language translations and historical context. Without a configured
// model it falls back to a small built-in knowledge base.
type ExplainerService struct {
	client *llmClient
	dryRun bool
}

func NewExplainerService(apiKey, model string, dryRun bool) *ExplainerService {
	return &ExplainerService{
		client: newLLMClient(apiKey, model),
		dryRun: dryRun || apiKey == "",
	}
}

func (s *ExplainerService) ExplainTerm(term, context string) (*models.LegalExplanation, error) {
	if s.dryRun {
		return builtinExplanation(term), nil
	}

	prompt := fmt.Sprintf("%s\n\nTERM: %q\nCONTEXT: %s\n", explainSystemPrompt, term, context)
	raw, err := s.client.generate(prompt)
	if err != nil {
		return nil, fmt.Errorf("explain term: %w", err)
	}

	var out models.LegalExplanation
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &out); err != nil {
		// keep the answer usable even when the model ignores the contract
		return &models.LegalExplanation{
			Term:            term,
			PlainEnglish:    strings.TrimSpace(raw),
			LegalDefinition: "See plain English explanation",
			RiskLevel:       "Medium",
		}, nil
	}
	if out.Term == "" {
		out.Term = term
	}
	return &out, nil
}

func (s *ExplainerService) AnalyzeClause(clauseText string) (*models.ClauseAnalysis, error) {
	keyTerms := extractLegalTerms(clauseText)

	if s.dryRun {
		return &models.ClauseAnalysis{
			ClauseText:          clauseText,
			KeyTerms:            keyTerms,
			PlainEnglishSummary: "Dry-run mode: detailed analysis requires a configured model.",
			PotentialImpacts:    []string{"Impact analysis unavailable without a configured model"},
			RiskFactors:         []string{"Risk assessment unavailable without a configured model"},
			AlternativeLanguage: []string{"Alternative suggestions unavailable without a configured model"},
			HistoricalContext:   "Historical context unavailable without a configured model.",
			NegotiationTips:     []string{"Negotiation advice unavailable without a configured model"},
		}, nil
	}

	prompt := fmt.Sprintf("%s\n\nCLAUSE: %s\n\nKEY TERMS IDENTIFIED: %s\n",
		analyzeSystemPrompt, clauseText, strings.Join(keyTerms, ", "))
	raw, err := s.client.generate(prompt)
	if err != nil {
		return nil, fmt.Errorf("analyze clause: %w", err)
	}

	var out models.ClauseAnalysis
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &out); err != nil {
		return nil, fmt.Errorf("parse analysis JSON: %w", err)
	}
	out.ClauseText = clauseText
	out.KeyTerms = keyTerms
	return &out, nil
}

func (s *ExplainerService) TranslatePlain(legalText string) ([]string, error) {
	if s.dryRun {
		return []string{
			"Dry-run mode: plain English alternatives require a configured model.",
		}, nil
	}

	prompt := fmt.Sprintf("%s\n\nORIGINAL: %s\n", translateSystemPrompt, legalText)
	raw, err := s.client.generate(prompt)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}

	var out struct {
		Alternatives []string `json:"alternatives"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &out); err != nil {
		return nil, fmt.Errorf("parse alternatives JSON: %w", err)
	}
	return out.Alternatives, nil
}

func (s *ExplainerService) HistoricalContext(clauseText string) (string, error) {
	if s.dryRun {
		return "Dry-run mode: historical context requires a configured model.", nil
	}

	prompt := fmt.Sprintf(`Provide historical context for how courts have interpreted clauses like this:

CLAUSE: %s

Summarize the historical interpretation trends and key legal precedents.
Focus on practical implications for someone reviewing this clause.`, clauseText)
	raw, err := s.client.generate(prompt)
	if err != nil {
		return "", fmt.Errorf("historical context: %w", err)
	}
	return strings.TrimSpace(raw), nil
}

func extractLegalTerms(text string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, re := range legalTermPatterns {
		for _, m := range re.FindAllString(text, -1) {
			key := strings.ToLower(m)
			if !seen[key] {
				seen[key] = true
				terms = append(terms, key)
			}
		}
	}
	return terms
}

type builtinEntry struct {
	plainEnglish    string
	legalDefinition string
	realWorldImpact string
	alternatives    []string
	riskLevel       string
}

var builtinKnowledge = map[string]builtinEntry{
	"force majeure": {
		plainEnglish:    "Unforeseeable circumstances that prevent a party from fulfilling a contract, like natural disasters or wars.",
		legalDefinition: "A clause that frees parties from liability when extraordinary circumstances beyond their control prevent them from fulfilling their obligations.",
		realWorldImpact: "Allows parties to suspend or terminate contracts during major disruptions without penalty.",
		alternatives:    []string{"Act of God clause", "Impossibility clause", "Frustration of purpose"},
		riskLevel:       "Medium",
	},
	"liquidated damages": {
		plainEnglish:    "A predetermined amount of money that must be paid if someone breaks the contract.",
		legalDefinition: "A contractual provision that establishes a specific monetary penalty for breach, agreed upon in advance.",
		realWorldImpact: "Provides certainty about consequences and avoids lengthy disputes over actual damages.",
		alternatives:    []string{"Penalty clause", "Stipulated damages", "Pre-estimated damages"},
		riskLevel:       "High",
	},
	"indemnification": {
		plainEnglish:    "A promise to cover someone else's losses and legal costs if they get in trouble because of you.",
		legalDefinition: "A contractual obligation where one party agrees to compensate another for harm, loss, or damage.",
		realWorldImpact: "Shifts financial risk and legal responsibility from one party to another.",
		alternatives:    []string{"Hold harmless clause", "Liability assumption", "Defense obligation"},
		riskLevel:       "High",
	},
	"breach": {
		plainEnglish:    "Breaking the terms of a contract by not doing what you promised to do.",
		legalDefinition: "The failure of a party to perform any duty or obligation specified in a contract.",
		realWorldImpact: "Can lead to lawsuits, financial penalties, and contract termination.",
		alternatives:    []string{"Default", "Violation", "Non-performance"},
		riskLevel:       "High",
	},
	"termination": {
		plainEnglish:    "Ending a contract before its natural expiration date.",
		legalDefinition: "The legal ending of a contract by agreement, breach, or operation of law.",
		realWorldImpact: "Ends all future obligations but may trigger penalties or require final settlements.",
		alternatives:    []string{"Cancellation", "Dissolution", "Expiration"},
		riskLevel:       "Medium",
	},
	"warranty": {
		plainEnglish:    "A promise that certain facts about a product or service are true.",
		legalDefinition: "A contractual assurance that certain conditions or facts are or will remain true.",
		realWorldImpact: "Creates liability if the promised conditions turn out to be false.",
		alternatives:    []string{"Guarantee", "Representation", "Assurance"},
		riskLevel:       "Medium",
	},
	"jurisdiction": {
		plainEnglish:    "Which court system has the authority to resolve disputes about this contract.",
		legalDefinition: "The legal authority of a court to hear and decide a case or controversy.",
		realWorldImpact: "Determines where you must go to court and which laws will apply.",
		alternatives:    []string{"Venue clause", "Forum selection", "Governing law"},
		riskLevel:       "Low",
	},
	"arbitration": {
		plainEnglish:    "Resolving disputes through a private judge instead of going to court.",
		legalDefinition: "A method of dispute resolution where parties agree to submit their case to a neutral arbitrator.",
		realWorldImpact: "Usually faster and more private than court, but limits appeal options.",
		alternatives:    []string{"Mediation", "Alternative dispute resolution", "Binding arbitration"},
		riskLevel:       "Medium",
	},
}

func builtinExplanation(term string) *models.LegalExplanation {
	key := strings.ToLower(strings.TrimSpace(term))
	if info, ok := builtinKnowledge[key]; ok {
		return &models.LegalExplanation{
			Term:            term,
			PlainEnglish:    info.plainEnglish,
			LegalDefinition: info.legalDefinition,
			RealWorldImpact: info.realWorldImpact,
			Alternatives:    info.alternatives,
			RiskLevel:       info.riskLevel,
			Citations:       []string{"Built-in legal knowledge base"},
		}
	}
	return &models.LegalExplanation{
		Term:            term,
		PlainEnglish:    fmt.Sprintf("%q is a legal concept that may have specific implications in contracts. A detailed explanation requires a configured model.", term),
		LegalDefinition: "Detailed legal definition requires a configured model.",
		RealWorldImpact: "Impact analysis requires a configured model.",
		Alternatives:    []string{},
		RiskLevel:       "Medium",
		Citations:       []string{"Built-in fallback"},
	}
}
