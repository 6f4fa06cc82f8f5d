package matching

import (
	"errors"
	"reflect"
	"testing"
)

type fakeQuestions struct {
	questions []QuestionRef
	err       error
}

func (f *fakeQuestions) ListQuestions() ([]QuestionRef, error) {
	return f.questions, f.err
}

func TestBuildVocabularyFromLiveQuestions(t *testing.T) {
	src := &fakeQuestions{questions: []QuestionRef{
		{ID: 260, Category: " Issues ", Options: `["Anxiety","Stress"]`},
		{ID: 275, Category: "pacing", Options: "Slow, Balanced, Fast"},
		{ID: 999, Category: "", Options: `["Yes","No"]`},
	}}

	vocab, err := BuildVocabulary(src)
	if err != nil {
		t.Fatalf("BuildVocabulary: %v", err)
	}

	if got, want := vocab.ByCategory["issues"], []string{"anxiety", "stress"}; !reflect.DeepEqual(got, want) {
		t.Errorf("issues vocab = %v, want %v", got, want)
	}
	if got, want := vocab.ByCategory["pacing"], []string{"balanced", "fast", "slow"}; !reflect.DeepEqual(got, want) {
		t.Errorf("pacing vocab = %v, want %v", got, want)
	}
	if got, want := vocab.ByCategory["uncategorized"], []string{"no", "yes"}; !reflect.DeepEqual(got, want) {
		t.Errorf("uncategorized vocab = %v, want %v", got, want)
	}

	if vocab.Categories[260] != "issues" {
		t.Errorf("question 260 category = %q", vocab.Categories[260])
	}
	if vocab.Categories[999] != "uncategorized" {
		t.Errorf("question 999 category = %q", vocab.Categories[999])
	}
}

func TestBuildVocabularyDefaultsCoreCategories(t *testing.T) {
	vocab, err := BuildVocabulary(&fakeQuestions{})
	if err != nil {
		t.Fatalf("BuildVocabulary: %v", err)
	}

	for _, cat := range []string{"issues", "emotional_style", "communication_style", "depth", "pacing", "boundaries"} {
		if len(vocab.ByCategory[cat]) == 0 {
			t.Errorf("core category %q not defaulted", cat)
		}
	}
	if got, want := vocab.ByCategory["depth"], []string{"a bit", "deep", "not much"}; !reflect.DeepEqual(got, want) {
		t.Errorf("depth default = %v, want %v", got, want)
	}
}

func TestBuildVocabularyDefaultsOverrideEmptyOptionLists(t *testing.T) {
	// A core category present in the data but with no parseable options
	// still falls back to the built-in vocabulary.
	src := &fakeQuestions{questions: []QuestionRef{
		{ID: 278, Category: "boundaries", Options: ""},
	}}

	vocab, err := BuildVocabulary(src)
	if err != nil {
		t.Fatalf("BuildVocabulary: %v", err)
	}
	if got, want := vocab.ByCategory["boundaries"], []string{"balanced", "i get attached", "i prefer space"}; !reflect.DeepEqual(got, want) {
		t.Errorf("boundaries vocab = %v, want %v", got, want)
	}
}

func TestBuildVocabularyPropagatesSourceFailure(t *testing.T) {
	boom := errors.New("listing failed")
	if _, err := BuildVocabulary(&fakeQuestions{err: boom}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}
