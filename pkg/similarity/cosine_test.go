package similarity

import (
	"math"
	"testing"
	"time"

	"ai-assistant-be/internal/entity"

	"github.com/google/uuid"
)

const tolerance = 1e-9

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{
			name: "identical vectors",
			a:    []float32{1, 2, 3},
			b:    []float32{1, 2, 3},
			want: 1.0,
		},
		{
			name: "orthogonal vectors",
			a:    []float32{1, 0},
			b:    []float32{0, 1},
			want: 0.0,
		},
		{
			name: "opposite vectors",
			a:    []float32{1, 0},
			b:    []float32{-1, 0},
			want: -1.0,
		},
		{
			name: "zero magnitude",
			a:    []float32{0, 0, 0},
			b:    []float32{1, 2, 3},
			want: 0.0,
		},
		{
			name: "dimension mismatch",
			a:    []float32{1, 2},
			b:    []float32{1, 2, 3},
			want: 0.0,
		},
		{
			name: "empty vectors",
			a:    nil,
			b:    nil,
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > tolerance {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSymmetry(t *testing.T) {
	a := []float32{0.3, -1.2, 4.5, 0.01}
	b := []float32{2.2, 0.7, -0.4, 1.9}

	if ab, ba := Cosine(a, b), Cosine(b, a); math.Abs(ab-ba) > tolerance {
		t.Errorf("Cosine not symmetric: sim(a,b)=%v sim(b,a)=%v", ab, ba)
	}
}

func entryWith(embedding []float32, createdAt time.Time) *entity.KnowledgeEntry {
	return &entity.KnowledgeEntry{
		Id:        uuid.New(),
		OwnerId:   "u1",
		Content:   "content",
		Embedding: embedding,
		CreatedAt: createdAt,
	}
}

func TestRankOrdering(t *testing.T) {
	now := time.Now()
	query := []float32{1, 0}

	best := entryWith([]float32{1, 0}, now.Add(-2*time.Hour))
	mid := entryWith([]float32{1, 1}, now.Add(-1*time.Hour))
	worst := entryWith([]float32{0, 1}, now)

	ranked := Rank([]*entity.KnowledgeEntry{worst, mid, best}, query, 10)

	if len(ranked) != 3 {
		t.Fatalf("Rank returned %d results, want 3", len(ranked))
	}
	if ranked[0].Entry != best || ranked[1].Entry != mid || ranked[2].Entry != worst {
		t.Errorf("Rank order wrong: got %v %v %v", ranked[0].Similarity, ranked[1].Similarity, ranked[2].Similarity)
	}
}

func TestRankTieBreaksByNewest(t *testing.T) {
	now := time.Now()
	query := []float32{1, 0}

	older := entryWith([]float32{2, 0}, now.Add(-1*time.Hour))
	newer := entryWith([]float32{3, 0}, now)

	ranked := Rank([]*entity.KnowledgeEntry{older, newer}, query, 10)

	if ranked[0].Entry != newer {
		t.Error("Rank should break similarity ties with the newest entry first")
	}
}

func TestRankExcludesMismatchedDimensions(t *testing.T) {
	now := time.Now()
	good := entryWith([]float32{1, 0}, now)
	bad := entryWith([]float32{1, 0, 0}, now)

	ranked := Rank([]*entity.KnowledgeEntry{good, bad}, []float32{1, 0}, 10)

	if len(ranked) != 1 || ranked[0].Entry != good {
		t.Errorf("Rank should drop entries with mismatched dimensions, got %d results", len(ranked))
	}
}

func TestRankLimit(t *testing.T) {
	now := time.Now()
	var entries []*entity.KnowledgeEntry
	for i := 0; i < 8; i++ {
		entries = append(entries, entryWith([]float32{1, float32(i)}, now))
	}

	ranked := Rank(entries, []float32{1, 0}, 3)
	if len(ranked) != 3 {
		t.Errorf("Rank returned %d results, want 3", len(ranked))
	}
}
