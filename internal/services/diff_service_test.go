package services

import (
	"strings"
	"testing"
)

func TestDiffService_IdenticalTexts(t *testing.T) {
	svc := NewDiffService()

	res := svc.Generate("same text", "same text")
	if res.Insertions != 0 || res.Deletions != 0 {
		t.Fatalf("identical texts should produce no edits: %+v", res)
	}
	if res.Similarity != 1 {
		t.Fatalf("expected similarity 1, got %f", res.Similarity)
	}
}

func TestDiffService_ReportsEdits(t *testing.T) {
	svc := NewDiffService()

	res := svc.Generate(
		"The provider may terminate at any time without notice.",
		"The provider may terminate with 30 days written notice.",
	)
	if res.Insertions == 0 || res.Deletions == 0 {
		t.Fatalf("expected both insertions and deletions: %+v", res)
	}
	if res.Similarity <= 0 || res.Similarity >= 1 {
		t.Fatalf("similarity should be strictly between 0 and 1: %f", res.Similarity)
	}
	if !strings.Contains(res.HTML, "<ins") || !strings.Contains(res.HTML, "<del") {
		t.Fatalf("HTML diff missing markup: %q", res.HTML)
	}
}
