package facematch

import (
	"context"
	"math"
)

// StaticProvider is a deterministic in-process provider for development and
// tests. Detect reports a fixed quality, Embed hashes bytes into a small
// vector, Compare is cosine similarity mapped into [0,1].
type StaticProvider struct {
	Quality float64
	Dim     int
}

// NewStaticProvider creates a provider with the given fixed detection quality
func NewStaticProvider(quality float64) *StaticProvider {
	return &StaticProvider{Quality: quality, Dim: 8}
}

// Detect always finds a face with the configured quality
func (s *StaticProvider) Detect(_ context.Context, imageBytes []byte) (Detection, error) {
	if len(imageBytes) == 0 {
		return Detection{Found: false}, nil
	}
	return Detection{Found: true, Quality: s.Quality}, nil
}

// Embed folds the image bytes into a fixed-length vector
func (s *StaticProvider) Embed(_ context.Context, imageBytes []byte) ([]float32, error) {
	vec := make([]float32, s.Dim)
	for i, b := range imageBytes {
		vec[i%s.Dim] += float32(b)
	}
	return vec, nil
}

// Compare returns cosine similarity scaled to [0,1]
func (s *StaticProvider) Compare(_ context.Context, a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, nil
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return (cos + 1) / 2, nil
}
