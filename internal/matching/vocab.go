package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kalambet/attune/internal/taxonomy"
	"github.com/kalambet/attune/internal/text"
)

// QuestionRef is one survey question as the vocabulary builder sees it:
// its ID, category label, and raw options encoding (JSON array or
// delimiter-separated string).
type QuestionRef struct {
	ID       int
	Category string
	Options  string
}

// QuestionSource lists all survey questions. Implemented by storage.Store.
type QuestionSource interface {
	ListQuestions() ([]QuestionRef, error)
}

// Vocabulary is the per-category option vocabulary plus the question-ID to
// category index. Used by ancillary tooling (vocab inspection, intake
// validation), not by the scoring path.
type Vocabulary struct {
	ByCategory map[string][]string
	Categories map[int]string
}

// BuildVocabulary assembles option vocabularies from the stored questions,
// falling back to the built-in defaults for any of the six core categories
// the live data leaves empty. Option lists are deduplicated and sorted.
func BuildVocabulary(src QuestionSource) (Vocabulary, error) {
	questions, err := src.ListQuestions()
	if err != nil {
		return Vocabulary{}, fmt.Errorf("listing questions: %w", err)
	}

	sets := make(map[string]map[string]struct{})
	categories := make(map[int]string, len(questions))
	for _, q := range questions {
		cat := strings.ToLower(strings.TrimSpace(q.Category))
		if cat == "" {
			cat = "uncategorized"
		}
		categories[q.ID] = cat

		if sets[cat] == nil {
			sets[cat] = make(map[string]struct{})
		}
		for _, opt := range text.ParseList(q.Options).Tokens {
			if opt != "" {
				sets[cat][opt] = struct{}{}
			}
		}
	}

	byCategory := make(map[string][]string, len(sets))
	for cat, set := range sets {
		opts := make([]string, 0, len(set))
		for o := range set {
			opts = append(opts, o)
		}
		sort.Strings(opts)
		byCategory[cat] = opts
	}

	// Core categories always exist, defaulted from the taxonomy when the
	// live data provides no options for them.
	for cat, defaults := range taxonomy.DefaultVocabulary() {
		if len(byCategory[cat]) == 0 {
			opts := append([]string(nil), defaults...)
			sort.Strings(opts)
			byCategory[cat] = opts
		}
	}

	return Vocabulary{ByCategory: byCategory, Categories: categories}, nil
}
