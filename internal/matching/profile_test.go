package matching

import (
	"errors"
	"testing"
)

// fakeAnswers is an in-memory AnswerSource keyed by entity and question.
type fakeAnswers struct {
	answers map[string]map[int]string
	err     error
}

func (f *fakeAnswers) GetAnswer(entityID string, questionID int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.answers[entityID][questionID], nil
}

func TestBuildProfileUserFields(t *testing.T) {
	src := &fakeAnswers{answers: map[string]map[int]string{
		"u1": {
			260: "Anxiety, Panic Attacks",
			265: "I need to feel heard",
			267: "I want DEEP work",
			275: "Balanced",
			278: "I prefer space",
			271: "Direct and honest",
		},
	}}

	p, err := BuildProfile(src, "u1", RoleUser)
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}

	if p.Issues != "anxiety panic attacks" {
		t.Errorf("Issues = %q", p.Issues)
	}
	// 265 and 267 both feed emotion style; 267 also feeds depth.
	if p.EmotionStyle != "i need to feel heard i want deep work" {
		t.Errorf("EmotionStyle = %q", p.EmotionStyle)
	}
	if p.Depth != "i want deep work" {
		t.Errorf("Depth = %q", p.Depth)
	}
	if p.Pacing != "balanced" {
		t.Errorf("Pacing = %q", p.Pacing)
	}
	if p.Boundaries != "i prefer space" {
		t.Errorf("Boundaries = %q", p.Boundaries)
	}
	if p.Communication != "direct and honest" {
		t.Errorf("Communication = %q", p.Communication)
	}
}

func TestBuildProfileTherapistUsesOwnQuestionSet(t *testing.T) {
	src := &fakeAnswers{answers: map[string]map[int]string{
		"t1": {
			288: "Trauma and grief",
			300: "Slow and steady",
		},
	}}

	p, err := BuildProfile(src, "t1", RoleTherapist)
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}
	if p.Issues != "trauma and grief" {
		t.Errorf("Issues = %q", p.Issues)
	}
	if p.Pacing != "slow and steady" {
		t.Errorf("Pacing = %q", p.Pacing)
	}
}

func TestBuildProfileMissingAnswersYieldEmptyFields(t *testing.T) {
	src := &fakeAnswers{answers: map[string]map[int]string{}}

	p, err := BuildProfile(src, "nobody", RoleUser)
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}
	for _, f := range Fields {
		if p.Field(f) != "" {
			t.Errorf("field %s = %q, want empty", f, p.Field(f))
		}
	}
}

func TestBuildProfilePropagatesStoreFaults(t *testing.T) {
	boom := errors.New("disk on fire")
	src := &fakeAnswers{err: boom}

	if _, err := BuildProfile(src, "u1", RoleUser); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}
