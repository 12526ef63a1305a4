package services

import (
	"testing"

	"redline/internal/models"
)

func TestRewriteService_DryRun(t *testing.T) {
	svc := NewRewriteService("", "gemini-2.5-pro", false) // no key implies dry-run

	clause := models.Clause{ID: "clause_1", Title: "Term", Text: "Original clause text."}
	res, err := svc.SuggestRewrite(clause, nil)
	if err != nil {
		t.Fatalf("dry-run rewrite: %v", err)
	}
	if res.Rewrite != clause.Text {
		t.Fatalf("dry-run should echo the clause, got %q", res.Rewrite)
	}
	if res.Citation != "clause_1" || len(res.FallbackLevels) != 3 {
		t.Fatalf("unexpected dry-run shape: %+v", res)
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":                      "{\"a\":1}",
		"```json\n{\"a\":1}\n```":        "{\"a\":1}",
		"```\n{\"a\":1}\n```":            "{\"a\":1}",
		"  \n```json\n{\"a\":1}\n```\n ": "{\"a\":1}",
	}
	for in, want := range cases {
		if got := stripCodeFence(in); got != want {
			t.Fatalf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}
