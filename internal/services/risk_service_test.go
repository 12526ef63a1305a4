package services

import (
	"testing"

	"redline/internal/models"
)

func analyze(t *testing.T, text string) *models.RiskAnalysis {
	t.Helper()
	svc := NewRiskService()
	return svc.AnalyzeClause(&models.Clause{ID: "clause_1", Text: text})
}

func hasTag(a *models.RiskAnalysis, tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func TestRiskService_AutoRenew(t *testing.T) {
	a := analyze(t, "This agreement shall automatically renew for successive one-year terms.")
	if !hasTag(a, "auto_renew") || a.Score < 3 {
		t.Fatalf("expected auto_renew with score >= 3, got %+v", a)
	}
}

func TestRiskService_UnilateralChange(t *testing.T) {
	a := analyze(t, "The Company may modify these terms at any time without notice to the Customer.")
	if !hasTag(a, "unilateral_change") {
		t.Fatalf("expected unilateral_change, got %+v", a)
	}
}

func TestRiskService_ShortNoticeThreshold(t *testing.T) {
	short := analyze(t, "Either party may terminate this agreement upon 15 days notice.")
	if !hasTag(short, "short_notice") {
		t.Fatalf("15 days should flag short_notice, got %+v", short)
	}

	long := analyze(t, "Either party may terminate this agreement upon 60 days notice.")
	if hasTag(long, "short_notice") {
		t.Fatalf("60 days should not flag short_notice, got %+v", long)
	}
}

func TestRiskService_HighPenaltyThreshold(t *testing.T) {
	high := analyze(t, "A late payment fee of 10% per month will be applied to overdue invoices.")
	if !hasTag(high, "high_penalty") {
		t.Fatalf("10%% should flag high_penalty, got %+v", high)
	}

	low := analyze(t, "A late payment fee of 2% per month will be applied to overdue invoices.")
	if hasTag(low, "high_penalty") {
		t.Fatalf("2%% should not flag high_penalty, got %+v", low)
	}
}

func TestRiskService_CleanClause(t *testing.T) {
	a := analyze(t, "Both parties agree to meet quarterly to review project milestones and deliverables.")
	if a.Score != 0 || len(a.Tags) != 0 {
		t.Fatalf("benign clause should not score, got %+v", a)
	}
}

func TestRiskService_DocumentSortedByScore(t *testing.T) {
	svc := NewRiskService()
	doc := &models.Document{Clauses: []models.Clause{
		{ID: "clause_1", Text: "Either party may terminate upon 10 days notice."},
		{ID: "clause_2", Text: "The Company may unilaterally modify this agreement. In no event shall the Company be liable for consequential damages."},
		{ID: "clause_3", Text: "Quarterly review meetings will be scheduled by mutual agreement."},
	}}

	risky := svc.AnalyzeDocument(doc)
	if len(risky) != 2 {
		t.Fatalf("expected 2 risky clauses, got %d", len(risky))
	}
	if risky[0].ID != "clause_2" {
		t.Fatalf("expected the highest-scoring clause first, got %s", risky[0].ID)
	}
	if risky[0].Risk.Score < risky[1].Risk.Score {
		t.Fatal("risky clauses are not sorted by descending score")
	}
}
