package matching

import (
	"math"

	"github.com/kalambet/attune/internal/taxonomy"
)

// Weights holds the relative importance of each compatibility dimension.
// Values are relative, not absolute: the Scorer renormalizes them to sum to
// exactly 1 at construction, so editing this table cannot break the
// all-perfect-subscores ⇒ overall 100 invariant.
type Weights struct {
	Issues         float64
	EmotionalStyle float64
	Depth          float64
	Pacing         float64
	Boundaries     float64
	Communication  float64
}

// DefaultWeights is the production weighting: presenting issues dominate,
// emotional fit second, the ordinal scales equal thirds, communication last.
var DefaultWeights = Weights{
	Issues:         0.40,
	EmotionalStyle: 0.25,
	Depth:          0.10,
	Pacing:         0.10,
	Boundaries:     0.10,
	Communication:  0.05,
}

// Breakdown carries the six per-dimension sub-scores, each scaled to 0–100
// and rounded to two decimals.
type Breakdown struct {
	ClinicalIssues   float64 `json:"clinical_issues"`
	EmotionalStyle   float64 `json:"emotional_style"`
	DepthOrientation float64 `json:"depth_orientation"`
	Pacing           float64 `json:"pacing"`
	Boundaries       float64 `json:"boundaries"`
	Communication    float64 `json:"communication"`
}

// Scorer computes weighted compatibility between a client and a therapist
// profile. Construct once and share freely; it is immutable after NewScorer.
type Scorer struct {
	w Weights
}

// NewScorer returns a Scorer with the given weights renormalized to sum to 1.
// Non-positive weight sums fall back to DefaultWeights.
func NewScorer(w Weights) *Scorer {
	sum := w.Issues + w.EmotionalStyle + w.Depth + w.Pacing + w.Boundaries + w.Communication
	if sum <= 0 {
		w = DefaultWeights
		sum = w.Issues + w.EmotionalStyle + w.Depth + w.Pacing + w.Boundaries + w.Communication
	}
	return &Scorer{w: Weights{
		Issues:         w.Issues / sum,
		EmotionalStyle: w.EmotionalStyle / sum,
		Depth:          w.Depth / sum,
		Pacing:         w.Pacing / sum,
		Boundaries:     w.Boundaries / sum,
		Communication:  w.Communication / sum,
	}}
}

// Score computes the overall 0–100 compatibility of a client/therapist pair
// and the per-dimension breakdown. Empty fields degrade to zero similarity
// (vector dimensions) or the neutral midpoint (ordinal dimensions); there
// are no error conditions.
func (s *Scorer) Score(user, therapist Profile) (float64, Breakdown) {
	clinical := Cosine(
		PresenceVector(user.Issues, taxonomy.Issues),
		PresenceVector(therapist.Issues, taxonomy.Issues),
	)
	emotional := Cosine(
		CountVector(user.EmotionStyle, taxonomy.Emotional),
		CountVector(therapist.EmotionStyle, taxonomy.Emotional),
	)
	depth := 1 - math.Abs(OrdinalValue(user.Depth, taxonomy.DepthScale)-OrdinalValue(therapist.Depth, taxonomy.DepthScale))
	pacing := 1 - math.Abs(OrdinalValue(user.Pacing, taxonomy.PacingScale)-OrdinalValue(therapist.Pacing, taxonomy.PacingScale))
	boundaries := 1 - math.Abs(OrdinalValue(user.Boundaries, taxonomy.BoundaryScale)-OrdinalValue(therapist.Boundaries, taxonomy.BoundaryScale))
	comm := Cosine(
		CountVector(user.Communication, taxonomy.Communication),
		CountVector(therapist.Communication, taxonomy.Communication),
	)

	overall := s.w.Issues*clinical +
		s.w.EmotionalStyle*emotional +
		s.w.Depth*depth +
		s.w.Pacing*pacing +
		s.w.Boundaries*boundaries +
		s.w.Communication*comm

	return round2(overall * 100), Breakdown{
		ClinicalIssues:   round2(clinical * 100),
		EmotionalStyle:   round2(emotional * 100),
		DepthOrientation: round2(depth * 100),
		Pacing:           round2(pacing * 100),
		Boundaries:       round2(boundaries * 100),
		Communication:    round2(comm * 100),
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
