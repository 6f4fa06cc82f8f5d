// Package matching implements the compatibility engine: it turns free-text
// profile fields into category vectors and ordinal scalars, scores a client
// against a therapist across six dimensions, and ranks therapists for a
// client. All computation is pure and allocation-light; the only shared
// state is the immutable taxonomy tables.
package matching

import (
	"math"

	"github.com/kalambet/attune/internal/taxonomy"
	"github.com/kalambet/attune/internal/text"
)

// PresenceVector returns one 0/1 slot per category, set when any keyword of
// that category fuzzy-matches the input text. Slot order is the taxonomy
// definition order.
func PresenceVector(s string, cats []taxonomy.Category) []float64 {
	vec := make([]float64, len(cats))
	for i, cat := range cats {
		for _, kw := range cat.Keywords {
			if text.ContainsFuzzy(s, kw) {
				vec[i] = 1
				break
			}
		}
	}
	return vec
}

// CountVector returns one slot per category holding the number of distinct
// keywords of that category that fuzzy-match the input text. Each keyword
// contributes at most once regardless of how often it occurs.
func CountVector(s string, cats []taxonomy.Category) []float64 {
	vec := make([]float64, len(cats))
	for i, cat := range cats {
		for _, kw := range cat.Keywords {
			if text.ContainsFuzzy(s, kw) {
				vec[i]++
			}
		}
	}
	return vec
}

// OrdinalValue scans a scale in order and returns the value of the first
// keyword that fuzzy-matches the text, or 0.5 (neutral) when nothing does.
func OrdinalValue(s string, scale []taxonomy.OrdinalEntry) float64 {
	for _, e := range scale {
		if text.ContainsFuzzy(s, e.Keyword) {
			return e.Value
		}
	}
	return 0.5
}

// Cosine returns the cosine similarity of two equal-length vectors, defined
// as 0 when either vector is zero so empty profile fields score zero instead
// of dividing by zero.
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
