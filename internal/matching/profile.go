package matching

import (
	"fmt"
	"strings"

	"github.com/kalambet/attune/internal/text"
)

// AnswerSource is the data-access collaborator the profile builder reads
// from. A missing answer must yield ("", nil), not an error; storage-level
// faults propagate untouched. Implemented by storage.Store.
type AnswerSource interface {
	GetAnswer(entityID string, questionID int) (string, error)
}

// Profile is the six-field derived text summary of one entity's answers.
// Every field is always present; an entity with no answers produces a
// profile of empty strings, which the scorer handles without failing.
type Profile struct {
	Issues        string
	EmotionStyle  string
	Depth         string
	Pacing        string
	Boundaries    string
	Communication string
}

// Field returns the named field's text.
func (p Profile) Field(f Field) string {
	switch f {
	case FieldIssues:
		return p.Issues
	case FieldEmotionStyle:
		return p.EmotionStyle
	case FieldDepth:
		return p.Depth
	case FieldPacing:
		return p.Pacing
	case FieldBoundaries:
		return p.Boundaries
	case FieldCommunication:
		return p.Communication
	}
	return ""
}

// BuildProfile assembles an entity's profile by fetching the answers
// assigned to each field and joining them, normalized, with single spaces.
// Answers are normalized here rather than trusted from the source, so the
// invariant that scorer input is canonical text holds regardless of how the
// answers were stored.
func BuildProfile(src AnswerSource, entityID string, role Role) (Profile, error) {
	var p Profile
	for _, f := range Fields {
		joined, err := joinAnswers(src, entityID, QuestionsForField(role, f))
		if err != nil {
			return Profile{}, fmt.Errorf("building %s field for %s: %w", f, entityID, err)
		}
		switch f {
		case FieldIssues:
			p.Issues = joined
		case FieldEmotionStyle:
			p.EmotionStyle = joined
		case FieldDepth:
			p.Depth = joined
		case FieldPacing:
			p.Pacing = joined
		case FieldBoundaries:
			p.Boundaries = joined
		case FieldCommunication:
			p.Communication = joined
		}
	}
	return p, nil
}

func joinAnswers(src AnswerSource, entityID string, questionIDs []int) (string, error) {
	parts := make([]string, 0, len(questionIDs))
	for _, qid := range questionIDs {
		raw, err := src.GetAnswer(entityID, qid)
		if err != nil {
			return "", fmt.Errorf("answer %d: %w", qid, err)
		}
		if norm := text.Normalize(raw); norm != "" {
			parts = append(parts, norm)
		}
	}
	return strings.Join(parts, " "), nil
}
