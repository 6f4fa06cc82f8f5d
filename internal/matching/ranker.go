package matching

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// DefaultTopK bounds the result list when the caller passes topK <= 0.
const DefaultTopK = 20

// TherapistRef identifies one matchable therapist.
type TherapistRef struct {
	ID   string
	Name string
}

// TherapistSource lists the therapists eligible for matching, in a stable
// order for a fixed data snapshot. Implemented by storage.Store.
type TherapistSource interface {
	ListTherapists() ([]TherapistRef, error)
}

// Result is one ranked match: the therapist's display name, the overall
// 0–100 score, and the per-dimension breakdown. Produced fresh per call and
// never persisted by the engine.
type Result struct {
	TherapistID string    `json:"therapist_id"`
	Name        string    `json:"name"`
	Score       float64   `json:"score"`
	Breakdown   Breakdown `json:"breakdown"`
}

// Matcher ties the profile builder and scorer to the data collaborator.
// It holds no mutable state, so one Matcher serves concurrent requests.
type Matcher struct {
	answers    AnswerSource
	therapists TherapistSource
	scorer     *Scorer
}

// NewMatcher builds a Matcher over the given collaborator and scorer.
func NewMatcher(answers AnswerSource, therapists TherapistSource, scorer *Scorer) *Matcher {
	return &Matcher{answers: answers, therapists: therapists, scorer: scorer}
}

// Rank builds the user's profile once, scores every matchable therapist
// against it, and returns the topK results ordered by score descending.
// Ties keep the collaborator's iteration order (stable sort). The context
// is checked between therapists so a caller-imposed deadline cuts the scan
// short instead of running to completion.
func (m *Matcher) Rank(ctx context.Context, userID string, topK int) ([]Result, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	userProfile, err := BuildProfile(m.answers, userID, RoleUser)
	if err != nil {
		return nil, fmt.Errorf("building user profile: %w", err)
	}

	therapists, err := m.therapists.ListTherapists()
	if err != nil {
		return nil, fmt.Errorf("listing therapists: %w", err)
	}

	results := make([]Result, 0, len(therapists))
	for _, t := range therapists {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tProfile, err := BuildProfile(m.answers, t.ID, RoleTherapist)
		if err != nil {
			return nil, fmt.Errorf("building therapist profile %s: %w", t.ID, err)
		}
		score, breakdown := m.scorer.Score(userProfile, tProfile)
		results = append(results, Result{
			TherapistID: t.ID,
			Name:        t.Name,
			Score:       score,
			Breakdown:   breakdown,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}

	slog.Debug("ranked therapists", "user", userID, "candidates", len(therapists), "returned", len(results))
	return results, nil
}
