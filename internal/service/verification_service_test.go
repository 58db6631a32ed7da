package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/rollcall-backend-go/internal/decision"
	"github.com/jengzang/rollcall-backend-go/internal/facematch"
	"github.com/jengzang/rollcall-backend-go/internal/models"
	"github.com/jengzang/rollcall-backend-go/internal/repository/memory"
)

func assessmentFixture(t *testing.T, quality float64) (*VerificationService, *facematch.StaticProvider, *memory.Store) {
	t.Helper()
	provider := facematch.NewStaticProvider(quality)
	store := memory.NewStore()
	store.AddPersons(
		models.Person{ID: "p1", Number: "A1234", FirstName: "Jo", LastName: "Marsh", Enrolled: true},
		models.Person{ID: "p2", Number: "A5678", FirstName: "Sam", LastName: "Okafor", Enrolled: true},
		models.Person{ID: "p3", Number: "A9999", FirstName: "Lee", LastName: "Quinn", Enrolled: false},
	)
	svc := NewVerificationService(provider, store, decision.NewEngine(decision.DefaultThresholds()))
	return svc, provider, store
}

// enroll stores a template computed from the person's reference image so a
// capture of the same bytes matches with similarity 1.0
func enroll(t *testing.T, provider *facematch.StaticProvider, store *memory.Store, personID string, image []byte) {
	t.Helper()
	vec, err := provider.Embed(context.Background(), image)
	require.NoError(t, err)
	store.AddTemplates(facematch.Template{PersonID: personID, Embedding: vec})
}

func TestAssessCaptureIdentifiesCandidate(t *testing.T) {
	svc, provider, store := assessmentFixture(t, 0.9)
	imgP1 := []byte("reference image of person one")
	enroll(t, provider, store, "p1", imgP1)
	enroll(t, provider, store, "p2", []byte("a completely different face"))

	out, err := svc.AssessCapture(context.Background(), imgP1, []string{"p1", "p2"})
	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.Equal(t, "p1", out.PersonID)
	assert.InDelta(t, 1.0, out.Similarity, 1e-9)
	assert.Equal(t, decision.AutoAccept, out.Disposition)
	assert.False(t, out.RequiresConfirmation)
}

func TestAssessCaptureNoFace(t *testing.T) {
	svc, _, _ := assessmentFixture(t, 0.9)

	out, err := svc.AssessCapture(context.Background(), nil, []string{"p1"})
	require.NoError(t, err)
	assert.False(t, out.Found)
	assert.Empty(t, out.PersonID)
	assert.Equal(t, decision.NoMatch, out.Disposition)
	assert.True(t, out.RequiresConfirmation)
}

func TestAssessCaptureNoTemplates(t *testing.T) {
	svc, _, _ := assessmentFixture(t, 0.9)

	// Face found, nobody enrolled to compare against
	out, err := svc.AssessCapture(context.Background(), []byte("some capture"), []string{"p1"})
	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.Empty(t, out.PersonID)
	assert.Equal(t, decision.NoMatch, out.Disposition)
}

func TestAssessCaptureFallsBackToEnrolledPopulation(t *testing.T) {
	svc, provider, store := assessmentFixture(t, 0.9)
	imgP2 := []byte("reference image of person two")
	enroll(t, provider, store, "p2", imgP2)
	// p3 is not enrolled; their template must never enter the candidate set
	enroll(t, provider, store, "p3", imgP2)

	out, err := svc.AssessCapture(context.Background(), imgP2, nil)
	require.NoError(t, err)
	assert.Equal(t, "p2", out.PersonID)
	assert.InDelta(t, 1.0, out.Similarity, 1e-9)
}

func TestAssessCaptureLowQualityRequiresConfirmation(t *testing.T) {
	provider := facematch.NewStaticProvider(0.2)
	store := memory.NewStore()
	store.AddPersons(models.Person{ID: "p1", Number: "A1234", FirstName: "Jo", LastName: "Marsh", Enrolled: true})
	thresholds := decision.DefaultThresholds()
	thresholds.LowLightAdjustment = 0.10
	svc := NewVerificationService(provider, store, decision.NewEngine(thresholds))

	img := []byte("dim corridor capture")
	enroll(t, provider, store, "p1", img)

	out, err := svc.AssessCapture(context.Background(), img, []string{"p1"})
	require.NoError(t, err)
	// Perfect similarity, but quality below the floor knocks the
	// effective confidence out of the auto-accept band.
	assert.Equal(t, "p1", out.PersonID)
	assert.Equal(t, decision.SuggestConfirm, out.Disposition)
	assert.True(t, out.RequiresConfirmation)
}
