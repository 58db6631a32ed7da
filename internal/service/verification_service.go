package service

import (
	"context"

	"github.com/jengzang/rollcall-backend-go/internal/decision"
	"github.com/jengzang/rollcall-backend-go/internal/facematch"
	"github.com/jengzang/rollcall-backend-go/internal/models"
	"github.com/jengzang/rollcall-backend-go/internal/repository"
)

// VerificationService combines the face capability with the decision engine
// to assess one capture. It holds no state between captures.
type VerificationService struct {
	provider facematch.Provider
	persons  repository.PersonRepository
	engine   *decision.Engine
}

// NewVerificationService creates a new verification service
func NewVerificationService(provider facematch.Provider, persons repository.PersonRepository, engine *decision.Engine) *VerificationService {
	return &VerificationService{provider: provider, persons: persons, engine: engine}
}

// Assessment is the disposition for one capture, driving the required
// officer action before anything is persisted
type Assessment struct {
	Found                bool                 `json:"found"`
	Quality              float64              `json:"quality"`
	Issues               []string             `json:"issues,omitempty"`
	PersonID             string               `json:"personId,omitempty"`
	Similarity           float64              `json:"similarity"`
	Disposition          decision.Disposition `json:"disposition"`
	RequiresConfirmation bool                 `json:"requiresConfirmation"`
}

// AssessCapture detects a face, matches it against the candidates' enrolled
// templates and tiers the best similarity. Candidates are normally the
// stop's expected persons; an empty candidate set matches against everyone
// enrolled so unexpected presence can still be identified.
func (s *VerificationService) AssessCapture(ctx context.Context, imageBytes []byte, candidatePersonIDs []string) (*Assessment, error) {
	det, err := s.provider.Detect(ctx, imageBytes)
	if err != nil {
		return nil, err
	}
	if !det.Found {
		return &Assessment{
			Found:                false,
			Issues:               det.Issues,
			Disposition:          decision.NoMatch,
			RequiresConfirmation: true,
		}, nil
	}

	if len(candidatePersonIDs) == 0 {
		enrolled := true
		persons, err := s.persons.List(ctx, models.PersonFilter{Enrolled: &enrolled})
		if err != nil {
			return nil, err
		}
		for _, p := range persons {
			candidatePersonIDs = append(candidatePersonIDs, p.ID)
		}
	}

	templates, err := s.persons.GetTemplates(ctx, candidatePersonIDs)
	if err != nil {
		return nil, err
	}

	probe, err := s.provider.Embed(ctx, imageBytes)
	if err != nil {
		return nil, err
	}
	best, err := facematch.BestMatch(ctx, s.provider, probe, templates)
	if err != nil {
		return nil, err
	}

	out := &Assessment{Found: true, Quality: det.Quality, Issues: det.Issues}
	if best != nil {
		out.PersonID = best.PersonID
		out.Similarity = best.Similarity
	}
	out.Disposition = s.engine.Decide(det.Quality, out.Similarity)
	if out.Disposition == decision.NoMatch {
		out.PersonID = ""
	}
	out.RequiresConfirmation = out.Disposition.RequiresConfirmation()
	return out, nil
}
