package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"redline/internal/models"
)

const rewriteSystemPrompt = `You are an expert contract analyst and legal writer.
Rewrite the problematic contract clause to make it more fair and balanced.
Maintain the original intent and legal effect where possible, make the language
clearer, and reduce unfair advantages for one party.

Always respond with valid JSON in this exact format:
{
  "rewrite": "The rewritten clause text",
  "rationale": "Explanation of why changes were made",
  "fallback_levels": ["Most customer-favorable version", "Balanced compromise version", "Minimal change version"],
  "risk_reduction": "How this reduces risk",
  "citation": "Reference to original clause"
}`

// RewriteService calls the hosted model that produces clause rewrites.
// With no API key (or dry_run in config) it answers with a canned rewrite so
// the rest of the pipeline works offline.
type RewriteService struct {
	client *llmClient
	dryRun bool
}

func NewRewriteService(apiKey, model string, dryRun bool) *RewriteService {
	return &RewriteService{
		client: newLLMClient(apiKey, model),
		dryRun: dryRun || apiKey == "",
	}
}

func (s *RewriteService) SuggestRewrite(clause models.Clause, controls map[string]any) (*models.RewriteResult, error) {
	if s.dryRun {
		return &models.RewriteResult{
			Rewrite:   clause.Text,
			Rationale: "Dry-run mode: no model configured, clause returned unchanged.",
			FallbackLevels: []string{
				"Most customer-favorable version",
				"Balanced compromise version",
				"Minimal change version",
			},
			RiskReduction: "none",
			Citation:      clause.ID,
		}, nil
	}

	raw, err := s.client.generate(s.buildPrompt(clause, controls))
	if err != nil {
		return nil, fmt.Errorf("rewrite: %w", err)
	}

	text := stripCodeFence(raw)
	var result models.RewriteResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("parse rewrite JSON: %w", err)
	}
	if result.Rewrite == "" {
		return nil, fmt.Errorf("rewrite provider returned empty rewrite")
	}
	return &result, nil
}

func (s *RewriteService) buildPrompt(clause models.Clause, controls map[string]any) string {
	var b strings.Builder
	b.WriteString(rewriteSystemPrompt)
	b.WriteString("\n\nORIGINAL CLAUSE:\n")
	fmt.Fprintf(&b, "Title: %s\nText: %s\nPage: %d\n", clause.Title, clause.Text, clause.Page)
	if clause.Risk != nil {
		fmt.Fprintf(&b, "Current Risk Score: %d\nRisk Tags: %s\n",
			clause.Risk.Score, strings.Join(clause.Risk.Tags, ", "))
	}
	if len(controls) > 0 {
		b.WriteString("\nCONTROLS:\n")
		for k, v := range controls {
			fmt.Fprintf(&b, "- %s: %v\n", k, v)
		}
	}
	return b.String()
}
