package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecideTiers(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	tests := []struct {
		name       string
		quality    float64
		confidence float64
		want       Disposition
	}{
		{"high confidence auto-accepts", 0.9, 0.97, AutoAccept},
		{"auto-accept boundary resolves upward", 0.9, 0.92, AutoAccept},
		{"just under auto-accept suggests", 0.9, 0.919, SuggestConfirm},
		{"suggest boundary resolves upward", 0.9, 0.75, SuggestConfirm},
		{"mid band is low-confidence confirm", 0.9, 0.70, LowConfidenceConfirm},
		{"low-confidence boundary resolves upward", 0.9, 0.60, LowConfidenceConfirm},
		{"below floor needs manual review", 0.9, 0.59, ManualReviewRequired},
		{"near-zero similarity is no match", 0.9, 0.005, NoMatch},
		{"zero similarity is no match", 0.9, 0, NoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Decide(tt.quality, tt.confidence))
		})
	}
}

func TestDecideLowLightAdjustment(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	// 0.93 auto-accepts at good quality but a dim capture loses 0.05,
	// dropping it into the suggest band.
	assert.Equal(t, AutoAccept, e.Decide(0.8, 0.93))
	assert.Equal(t, SuggestConfirm, e.Decide(0.3, 0.93))

	// The adjustment never raises a result
	assert.Equal(t, ManualReviewRequired, e.Decide(0.3, 0.62))

	// No-match is judged on raw similarity, before the adjustment
	assert.Equal(t, NoMatch, e.Decide(0.3, 0.005))
}

func TestDecideDeterministic(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	first := e.Decide(0.35, 0.78)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, e.Decide(0.35, 0.78))
	}
}

func TestRequiresConfirmation(t *testing.T) {
	assert.False(t, AutoAccept.RequiresConfirmation())
	assert.True(t, SuggestConfirm.RequiresConfirmation())
	assert.True(t, LowConfidenceConfirm.RequiresConfirmation())
	assert.True(t, ManualReviewRequired.RequiresConfirmation())
	assert.True(t, NoMatch.RequiresConfirmation())
}
