package embedding

import (
	"context"
	"errors"
	"math"
)

// ErrEmbedding wraps any failure of a remote embedding call. The STORE path
// surfaces it as a failed-store reply; the chat path falls back to
// context-free conversation.
var ErrEmbedding = errors.New("embedding call failed")

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	// Embed converts text into a fixed-length vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension is the output length every vector from this provider has.
	Dimension() int
}

// normalizeVector scales a vector to unit magnitude so cosine math stays
// accurate whether it runs in pgvector or in-process. Zero vectors are
// returned as-is.
func normalizeVector(values []float32) []float32 {
	var sum float64
	for _, v := range values {
		sum += float64(v) * float64(v)
	}
	magnitude := math.Sqrt(sum)
	if magnitude == 0 {
		return values
	}

	normalized := make([]float32, len(values))
	for i, v := range values {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
