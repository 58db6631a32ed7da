// Package facematch defines the boundary to the face recognition
// collaborator. The core never processes images itself; it consumes the
// detection quality and the best similarity the provider reports.
package facematch

import "context"

// Detection is the result of running face detection on a capture
type Detection struct {
	Found       bool      `json:"found"`
	Quality     float64   `json:"quality"` // 0.0 - 1.0
	BoundingBox []float64 `json:"boundingBox,omitempty"`
	Issues      []string  `json:"issues,omitempty"` // e.g. "low_light", "occlusion"
}

// Provider is the opaque face capability: detect a face, embed it into a
// fixed-length vector, and compare two vectors.
type Provider interface {
	Detect(ctx context.Context, imageBytes []byte) (Detection, error)
	Embed(ctx context.Context, imageBytes []byte) ([]float32, error)
	Compare(ctx context.Context, a, b []float32) (float64, error)
}

// Template is one enrolled reference vector for a person
type Template struct {
	PersonID  string
	Embedding []float32
}

// Match is the best candidate for a probe embedding
type Match struct {
	PersonID   string  `json:"personId"`
	Similarity float64 `json:"similarity"` // 0.0 - 1.0
}

// BestMatch compares a probe embedding against enrolled templates and
// returns the highest-similarity candidate. A nil result means no template
// produced any similarity at all.
func BestMatch(ctx context.Context, p Provider, probe []float32, templates []Template) (*Match, error) {
	var best *Match
	for _, tpl := range templates {
		sim, err := p.Compare(ctx, probe, tpl.Embedding)
		if err != nil {
			return nil, err
		}
		if best == nil || sim > best.Similarity {
			best = &Match{PersonID: tpl.PersonID, Similarity: sim}
		}
	}
	return best, nil
}
