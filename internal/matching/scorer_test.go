package matching

import (
	"math"
	"testing"
)

// alignedProfile hits every dimension: non-zero vectors for the three cosine
// dimensions and an explicit keyword for each ordinal scale.
func alignedProfile() Profile {
	return Profile{
		Issues:        "anxiety",
		EmotionStyle:  "validation empathy",
		Depth:         "deep",
		Pacing:        "balanced",
		Boundaries:    "balanced",
		Communication: "direct",
	}
}

func TestNewScorerNormalizesWeights(t *testing.T) {
	// Doubling every weight must not change anything observable.
	a := NewScorer(DefaultWeights)
	b := NewScorer(Weights{
		Issues:         0.80,
		EmotionalStyle: 0.50,
		Depth:          0.20,
		Pacing:         0.20,
		Boundaries:     0.20,
		Communication:  0.10,
	})

	sum := a.w.Issues + a.w.EmotionalStyle + a.w.Depth + a.w.Pacing + a.w.Boundaries + a.w.Communication
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("normalized weights sum = %v, want 1.0", sum)
	}

	user, therapist := alignedProfile(), alignedProfile()
	scoreA, _ := a.Score(user, therapist)
	scoreB, _ := b.Score(user, therapist)
	if scoreA != scoreB {
		t.Errorf("scaled weights changed score: %v != %v", scoreA, scoreB)
	}
}

func TestNewScorerRejectsNonPositiveSum(t *testing.T) {
	s := NewScorer(Weights{})
	sum := s.w.Issues + s.w.EmotionalStyle + s.w.Depth + s.w.Pacing + s.w.Boundaries + s.w.Communication
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("fallback weights sum = %v, want 1.0", sum)
	}
}

func TestScorePerfectAlignmentIsHundred(t *testing.T) {
	s := NewScorer(DefaultWeights)
	overall, breakdown := s.Score(alignedProfile(), alignedProfile())

	if overall != 100.00 {
		t.Errorf("overall = %v, want exactly 100.00", overall)
	}
	for name, sub := range map[string]float64{
		"clinical_issues":   breakdown.ClinicalIssues,
		"emotional_style":   breakdown.EmotionalStyle,
		"depth_orientation": breakdown.DepthOrientation,
		"pacing":            breakdown.Pacing,
		"boundaries":        breakdown.Boundaries,
		"communication":     breakdown.Communication,
	} {
		if sub != 100.00 {
			t.Errorf("%s = %v, want 100.00", name, sub)
		}
	}
}

func TestScoreSharedIssueScoresPositive(t *testing.T) {
	s := NewScorer(DefaultWeights)
	user := Profile{Issues: "anxiety panic"}
	therapist := Profile{Issues: "anxiety stress"}

	_, breakdown := s.Score(user, therapist)
	if breakdown.ClinicalIssues <= 0 {
		t.Errorf("clinical_issues = %v, want > 0 for shared anxiety", breakdown.ClinicalIssues)
	}
}

func TestScoreEmptyTherapistIssuesIsZero(t *testing.T) {
	s := NewScorer(DefaultWeights)
	user := Profile{Issues: "anxiety panic"}
	therapist := Profile{Issues: ""}

	_, breakdown := s.Score(user, therapist)
	if breakdown.ClinicalIssues != 0 {
		t.Errorf("clinical_issues = %v, want exactly 0 for empty therapist issues", breakdown.ClinicalIssues)
	}
}

func TestScoreEmptyProfilesDegradeToNeutral(t *testing.T) {
	s := NewScorer(DefaultWeights)
	overall, breakdown := s.Score(Profile{}, Profile{})

	// Vector dimensions score 0, ordinal dimensions sit at the neutral
	// midpoint on both sides and therefore score 100.
	if breakdown.ClinicalIssues != 0 || breakdown.EmotionalStyle != 0 || breakdown.Communication != 0 {
		t.Errorf("vector dimensions = %v/%v/%v, want 0",
			breakdown.ClinicalIssues, breakdown.EmotionalStyle, breakdown.Communication)
	}
	if breakdown.DepthOrientation != 100 || breakdown.Pacing != 100 || breakdown.Boundaries != 100 {
		t.Errorf("ordinal dimensions = %v/%v/%v, want 100",
			breakdown.DepthOrientation, breakdown.Pacing, breakdown.Boundaries)
	}
	// 0.10+0.10+0.10 of the weight mass at 1.0 → 30.00.
	if overall != 30.00 {
		t.Errorf("overall = %v, want 30.00", overall)
	}
}

func TestScoreRoundsToTwoDecimals(t *testing.T) {
	s := NewScorer(DefaultWeights)
	user := Profile{Issues: "anxiety depression"}
	therapist := Profile{Issues: "anxiety"}

	_, breakdown := s.Score(user, therapist)
	// cos([1,1,...],[1,0,...]) = 1/√2 ≈ 70.71.
	if breakdown.ClinicalIssues != 70.71 {
		t.Errorf("clinical_issues = %v, want 70.71", breakdown.ClinicalIssues)
	}
}
