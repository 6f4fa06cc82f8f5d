package taxonomy

import (
	"reflect"
	"testing"
)

func TestNamesPreserveDefinitionOrder(t *testing.T) {
	got := Names(Issues)
	want := []string{"anxiety", "depression", "trauma", "grief", "emotion_regulation", "relationships", "neurodiversity"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names(Issues) = %v, want %v", got, want)
	}
}

func TestDefaultVocabularyCoversCoreCategories(t *testing.T) {
	vocab := DefaultVocabulary()
	for _, cat := range []string{"issues", "emotional_style", "communication_style", "depth", "pacing", "boundaries"} {
		if len(vocab[cat]) == 0 {
			t.Errorf("default vocabulary missing category %q", cat)
		}
	}
	if len(vocab) != 6 {
		t.Errorf("default vocabulary has %d categories, want 6", len(vocab))
	}
}

func TestOrdinalScalesSpanScale(t *testing.T) {
	for name, scale := range map[string][]OrdinalEntry{
		"depth":      DepthScale,
		"pacing":     PacingScale,
		"boundaries": BoundaryScale,
	} {
		for _, e := range scale {
			if e.Value < 0 || e.Value > 1 {
				t.Errorf("%s entry %q has out-of-range value %v", name, e.Keyword, e.Value)
			}
			if e.Keyword == "" {
				t.Errorf("%s has an empty keyword", name)
			}
		}
	}
}

func TestKeywordsAreNormalizedForms(t *testing.T) {
	// Matching normalizes keywords before comparison, but the tables should
	// already hold lower-case forms so reading them is not misleading.
	for _, cats := range [][]Category{Issues, Emotional, Communication} {
		for _, c := range cats {
			if len(c.Keywords) == 0 {
				t.Errorf("category %q has no keywords", c.Name)
			}
			for _, kw := range c.Keywords {
				for _, r := range kw {
					if r >= 'A' && r <= 'Z' {
						t.Errorf("keyword %q in %q is not lower-case", kw, c.Name)
					}
				}
			}
		}
	}
}
