package matching

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakeTherapists struct {
	refs []TherapistRef
	err  error
}

func (f *fakeTherapists) ListTherapists() ([]TherapistRef, error) {
	return f.refs, f.err
}

func rankFixture() (*fakeAnswers, *fakeTherapists) {
	answers := &fakeAnswers{answers: map[string]map[int]string{
		"client": {260: "anxiety and panic attacks"},
		// Strong match: shares the anxiety category.
		"t-close": {288: "anxiety, panic, worry"},
		// Weak match: different category entirely.
		"t-far": {288: "grief and loss"},
		// No answers at all: zero issue vector.
		"t-blank": {},
	}}
	therapists := &fakeTherapists{refs: []TherapistRef{
		{ID: "t-far", Name: "Dr. Far"},
		{ID: "t-close", Name: "Dr. Close"},
		{ID: "t-blank", Name: "Dr. Blank"},
	}}
	return answers, therapists
}

func newTestMatcher(answers AnswerSource, therapists TherapistSource) *Matcher {
	return NewMatcher(answers, therapists, NewScorer(DefaultWeights))
}

func TestRankOrdersByScoreDescending(t *testing.T) {
	answers, therapists := rankFixture()
	m := newTestMatcher(answers, therapists)

	results, err := m.Rank(context.Background(), "client", 0)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Name != "Dr. Close" {
		t.Errorf("top match = %q, want Dr. Close", results[0].Name)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not descending at %d: %v > %v", i, results[i].Score, results[i-1].Score)
		}
	}
}

func TestRankTruncatesToTopK(t *testing.T) {
	answers, therapists := rankFixture()
	m := newTestMatcher(answers, therapists)

	results, err := m.Rank(context.Background(), "client", 2)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestRankIsDeterministic(t *testing.T) {
	answers, therapists := rankFixture()
	m := newTestMatcher(answers, therapists)

	first, err := m.Rank(context.Background(), "client", 0)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	second, err := m.Rank(context.Background(), "client", 0)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated ranking differs:\n%v\n%v", first, second)
	}
}

func TestRankTiesKeepSourceOrder(t *testing.T) {
	// Two therapists with identical answers score identically; the stable
	// sort must keep the collaborator's iteration order.
	answers := &fakeAnswers{answers: map[string]map[int]string{
		"client": {260: "anxiety"},
		"t-a":    {288: "anxiety"},
		"t-b":    {288: "anxiety"},
	}}
	therapists := &fakeTherapists{refs: []TherapistRef{
		{ID: "t-a", Name: "A"},
		{ID: "t-b", Name: "B"},
	}}
	m := newTestMatcher(answers, therapists)

	results, err := m.Rank(context.Background(), "client", 0)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if results[0].Name != "A" || results[1].Name != "B" {
		t.Errorf("tie order = %q, %q; want A, B", results[0].Name, results[1].Name)
	}
}

func TestRankHonorsCancelledContext(t *testing.T) {
	answers, therapists := rankFixture()
	m := newTestMatcher(answers, therapists)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Rank(ctx, "client", 0); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRankPropagatesTherapistListFailure(t *testing.T) {
	boom := errors.New("connection reset")
	answers, _ := rankFixture()
	m := newTestMatcher(answers, &fakeTherapists{err: boom})

	if _, err := m.Rank(context.Background(), "client", 0); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}
