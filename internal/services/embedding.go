package services

import (
	"context"
	"hash/fnv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Embedder maps text to a dense vector. Implementations must return vectors
// of a fixed dimension so pairs are comparable.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

const hashingDimension = 512

// HashingEmbedder is a deterministic, offline embedder: term frequencies
// hashed into a fixed-size vector. Useful when no embedding API is
// configured and in tests.
type HashingEmbedder struct {
	dim int
}

func NewHashingEmbedder() *HashingEmbedder {
	return &HashingEmbedder{dim: hashingDimension}
}

func (h *HashingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, h.dim)
	for _, term := range termRe.FindAllString(strings.ToLower(text), -1) {
		digest := fnv.New32a()
		digest.Write([]byte(term))
		vec[digest.Sum32()%uint32(h.dim)]++
	}
	return vec, nil
}

// cosineSimilarity returns the cosine of the angle between two vectors, or 0
// when either has zero norm or the lengths differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	av := make([]float64, len(a))
	bv := make([]float64, len(b))
	for i := range a {
		av[i] = float64(a[i])
		bv[i] = float64(b[i])
	}
	normA := floats.Norm(av, 2)
	normB := floats.Norm(bv, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(av, bv) / (normA * normB)
}
