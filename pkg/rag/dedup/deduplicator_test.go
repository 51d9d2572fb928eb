package dedup

import (
	"testing"
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"

	"github.com/google/uuid"
)

func scored(content, filePath, fileName string, sim float64) *contract.ScoredKnowledgeEntry {
	return &contract.ScoredKnowledgeEntry{
		Entry: &entity.KnowledgeEntry{
			Id:        uuid.New(),
			OwnerId:   "u1",
			Content:   content,
			CreatedAt: time.Now(),
			FilePath:  filePath,
			FileName:  fileName,
		},
		Similarity: sim,
	}
}

func TestCollapseMergesSameKey(t *testing.T) {
	candidates := []*contract.ScoredKnowledgeEntry{
		scored("chunk one", "/uploads/a.pdf", "a.pdf", 0.6),
		scored("chunk two", "/uploads/a.pdf", "a.pdf", 0.9),
	}

	docs := Collapse(candidates, 0.3, 10)

	if len(docs) != 1 {
		t.Fatalf("Collapse returned %d documents, want 1", len(docs))
	}
	if docs[0].Similarity != 0.9 {
		t.Errorf("Similarity = %v, want max of inputs 0.9", docs[0].Similarity)
	}
	if docs[0].Content != "chunk one\nchunk two" {
		t.Errorf("Content = %q, want concatenation in encounter order", docs[0].Content)
	}
}

func TestCollapseKeepsDistinctKeys(t *testing.T) {
	candidates := []*contract.ScoredKnowledgeEntry{
		scored("a", "/uploads/a.pdf", "a.pdf", 0.8),
		scored("b", "/uploads/b.pdf", "b.pdf", 0.7),
	}

	docs := Collapse(candidates, 0.3, 10)
	if len(docs) != 2 {
		t.Errorf("Collapse returned %d documents, want 2", len(docs))
	}
}

func TestCollapseAppliesFloor(t *testing.T) {
	candidates := []*contract.ScoredKnowledgeEntry{
		scored("kept", "", "", 0.75),
		scored("dropped", "", "", 0.65),
	}

	docs := Collapse(candidates, 0.7, 10)

	if len(docs) != 1 {
		t.Fatalf("Collapse returned %d documents, want 1", len(docs))
	}
	if docs[0].Content != "kept" {
		t.Errorf("candidate below the floor survived: %q", docs[0].Content)
	}
}

func TestCollapseTextOnlyEntriesNeverCollide(t *testing.T) {
	candidates := []*contract.ScoredKnowledgeEntry{
		scored("first note", "", "", 0.8),
		scored("second note", "", "", 0.8),
	}

	docs := Collapse(candidates, 0.3, 10)
	if len(docs) != 2 {
		t.Errorf("text-only entries collapsed together: got %d documents, want 2", len(docs))
	}
}

func TestCollapseSortsAndTruncates(t *testing.T) {
	candidates := []*contract.ScoredKnowledgeEntry{
		scored("low", "", "", 0.4),
		scored("high", "", "", 0.9),
		scored("mid", "", "", 0.6),
	}

	docs := Collapse(candidates, 0.3, 2)

	if len(docs) != 2 {
		t.Fatalf("Collapse returned %d documents, want 2", len(docs))
	}
	if docs[0].Content != "high" || docs[1].Content != "mid" {
		t.Errorf("Collapse order wrong: %q, %q", docs[0].Content, docs[1].Content)
	}
}

func TestCollapseFallsBackToFileName(t *testing.T) {
	candidates := []*contract.ScoredKnowledgeEntry{
		scored("x", "", "scan.png", 0.8),
		scored("y", "", "scan.png", 0.5),
	}

	docs := Collapse(candidates, 0.3, 10)
	if len(docs) != 1 {
		t.Errorf("entries sharing a file name should merge, got %d documents", len(docs))
	}
}

func TestPreview(t *testing.T) {
	d := Document{Content: "line one\n\nline   two"}
	if got := d.Preview(300); got != "line one line two" {
		t.Errorf("Preview = %q", got)
	}

	long := Document{Content: "abcdefghij"}
	if got := long.Preview(4); got != "abcd..." {
		t.Errorf("Preview truncation = %q", got)
	}
}
