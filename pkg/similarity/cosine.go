package similarity

import (
	"math"
	"sort"

	"ai-assistant-be/internal/entity"
)

// Cosine returns the cosine similarity between two vectors in [-1, 1].
// Vectors of different lengths are not comparable and score 0, as does
// any vector with zero magnitude.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Scored pairs a knowledge entry with its similarity to a query vector.
type Scored struct {
	Entry      *entity.KnowledgeEntry
	Similarity float64
}

// Rank scores entries against the query vector and returns up to limit
// results, descending by similarity. Ties go to the newest CreatedAt so
// ordering is deterministic. Entries whose embedding dimension does not
// match the query are excluded from the math entirely.
func Rank(entries []*entity.KnowledgeEntry, query []float32, limit int) []Scored {
	if limit <= 0 {
		limit = 5
	}

	scored := make([]Scored, 0, len(entries))
	for _, e := range entries {
		if len(e.Embedding) != len(query) {
			continue
		}
		scored = append(scored, Scored{
			Entry:      e,
			Similarity: Cosine(query, e.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].Entry.CreatedAt.After(scored[j].Entry.CreatedAt)
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
