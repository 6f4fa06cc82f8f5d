package text

import "strings"

// ContainsFuzzy reports whether phrase roughly appears inside text. Both
// inputs are normalized first; empty values never match. A phrase matches
// when any of three rules holds:
//
//  1. phrase is a literal substring of text
//  2. the word sets of text and phrase share at least one token
//  3. every phrase word longer than 2 characters appears as a whole word
//     in text
//
// The match is deliberately loose — it trades precision for recall. Rule 2
// has no minimum token length, so a shared "i" or "to" is enough; taxonomy
// keyword lists are written with that looseness in mind (inflected forms
// are listed explicitly because this is containment, not stemming).
func ContainsFuzzy(text, phrase string) bool {
	t := Normalize(text)
	p := Normalize(phrase)
	if t == "" || p == "" {
		return false
	}

	if strings.Contains(t, p) {
		return true
	}

	textWords := make(map[string]struct{})
	for _, w := range strings.Fields(t) {
		textWords[w] = struct{}{}
	}

	phraseWords := strings.Fields(p)
	for _, w := range phraseWords {
		if _, ok := textWords[w]; ok {
			return true
		}
	}

	// All phrase words longer than 2 chars present as whole words.
	// Vacuously true when the phrase has no such words.
	for _, w := range phraseWords {
		if len(w) <= 2 {
			continue
		}
		if _, ok := textWords[w]; !ok {
			return false
		}
	}
	return true
}
