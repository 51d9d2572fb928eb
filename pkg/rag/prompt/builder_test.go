package prompt

import (
	"strings"
	"testing"

	"ai-assistant-be/pkg/rag/dedup"
)

func TestSystemWithoutContext(t *testing.T) {
	got := System(nil, 8000)

	if strings.Contains(got, "KNOWLEDGE BASE") {
		t.Error("prompt without context should not contain a knowledge block")
	}
	if !strings.Contains(got, "helpful AI assistant") {
		t.Error("prompt missing assistant preamble")
	}
}

func TestSystemWithContext(t *testing.T) {
	got := System([]string{"invoice #42 due May 1"}, 8000)

	if !strings.Contains(got, "=== KNOWLEDGE BASE ===") {
		t.Error("prompt missing knowledge block header")
	}
	if !strings.Contains(got, "invoice #42 due May 1") {
		t.Error("prompt missing context text")
	}
	if strings.Contains(got, TruncationNotice) {
		t.Error("small context should not be truncated")
	}
}

func TestSystemTruncatesToBudget(t *testing.T) {
	long := strings.Repeat("a", 120)
	got := System([]string{long, long}, 200)

	if !strings.Contains(got, TruncationNotice) {
		t.Error("over-budget context should carry a truncation notice")
	}
	if strings.Count(got, long) != 1 {
		t.Errorf("expected exactly one context text to survive the budget, got %d", strings.Count(got, long))
	}
}

func TestSynthesis(t *testing.T) {
	docs := []dedup.Document{
		{Content: "meeting notes from sprint review", Similarity: 0.8},
		{Content: "quarterly budget sheet", Similarity: 0.6, HasFile: true, FileName: "budget.xlsx"},
	}

	got := Synthesis("find my budget docs", docs, 300)

	if !strings.Contains(got, "The user asked: 'find my budget docs'") {
		t.Error("synthesis instruction missing the user question")
	}
	if !strings.Contains(got, "I found 2 relevant document(s)") {
		t.Error("synthesis instruction missing the document count")
	}
	if !strings.Contains(got, "[File: budget.xlsx]") {
		t.Error("synthesis instruction missing file name annotation")
	}
}

func TestSynthesisPreviewLength(t *testing.T) {
	docs := []dedup.Document{{Content: strings.Repeat("x", 500)}}

	got := Synthesis("q", docs, 300)

	if strings.Contains(got, strings.Repeat("x", 301)) {
		t.Error("previews should be capped at the configured length")
	}
}
