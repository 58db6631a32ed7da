// Package decision tiers a face-match result into a required human action.
package decision

// Disposition is the categorical outcome of one capture
type Disposition string

const (
	// AutoAccept persists immediately; the acting officer is still the
	// confirming party of record.
	AutoAccept Disposition = "auto_accept"
	// SuggestConfirm shows the match and asks for a one-tap confirmation.
	SuggestConfirm Disposition = "suggest_confirm"
	// LowConfidenceConfirm requires the officer to compare face and record.
	LowConfidenceConfirm Disposition = "low_confidence_confirm"
	// ManualReviewRequired requires a manual identity check.
	ManualReviewRequired Disposition = "manual_review"
	// NoMatch means no comparison produced a meaningful similarity.
	NoMatch Disposition = "no_match"
)

// RequiresConfirmation reports whether a human must confirm before a
// verification record is persisted
func (d Disposition) RequiresConfirmation() bool {
	return d != AutoAccept
}

// Thresholds is the externally injected tiering policy. Values are
// confidence floors; a boundary value resolves to the higher tier.
type Thresholds struct {
	ManualReview   float64 `yaml:"manual_review" json:"manualReview"`     // below this: manual review required
	LowConfidence  float64 `yaml:"low_confidence" json:"lowConfidence"`   // at or above: low-confidence confirm
	SuggestConfirm float64 `yaml:"suggest_confirm" json:"suggestConfirm"` // at or above: suggest-confirm
	AutoAccept     float64 `yaml:"auto_accept" json:"autoAccept"`         // at or above: auto-accept
	// LowLightAdjustment is subtracted from the effective confidence when
	// detection quality falls below QualityFloor. Only ever lowers.
	LowLightAdjustment float64 `yaml:"low_light_adjustment" json:"lowLightAdjustment"`
	QualityFloor       float64 `yaml:"quality_floor" json:"qualityFloor"`
	// MatchFloor is the minimum similarity for a comparison to count as a
	// candidate match at all; below it the capture is a no-match.
	MatchFloor float64 `yaml:"match_floor" json:"matchFloor"`
}

// DefaultThresholds returns the shipped policy
func DefaultThresholds() Thresholds {
	return Thresholds{
		ManualReview:       0.60,
		LowConfidence:      0.60,
		SuggestConfirm:     0.75,
		AutoAccept:         0.92,
		LowLightAdjustment: 0.05,
		QualityFloor:       0.40,
		MatchFloor:         0.01,
	}
}

// Engine is a pure, stateless tiering function over injected thresholds
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates an engine with the given policy
func NewEngine(t Thresholds) *Engine {
	return &Engine{thresholds: t}
}

// Decide maps a capture's detection quality and best-match confidence to a
// disposition. Identical inputs always yield the identical disposition.
// Low-quality detections bias the effective confidence downward, never up.
func (e *Engine) Decide(detectionQuality, matchConfidence float64) Disposition {
	if matchConfidence < e.thresholds.MatchFloor {
		return NoMatch
	}

	effective := matchConfidence
	if detectionQuality < e.thresholds.QualityFloor {
		effective -= e.thresholds.LowLightAdjustment
		if effective < 0 {
			effective = 0
		}
	}

	switch {
	case effective >= e.thresholds.AutoAccept:
		return AutoAccept
	case effective >= e.thresholds.SuggestConfirm:
		return SuggestConfirm
	case effective >= e.thresholds.LowConfidence:
		return LowConfidenceConfirm
	default:
		return ManualReviewRequired
	}
}
