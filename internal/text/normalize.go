// Package text provides the canonicalization and fuzzy-containment
// primitives the matching engine is built on. Everything downstream
// (taxonomy lookups, vectorizers, profile fields) assumes input has
// passed through Normalize.
package text

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Normalize canonicalizes a raw answer string: lower-case, curly quotes
// folded to straight ones, everything outside [a-z0-9 /] dropped, runs of
// whitespace collapsed to single spaces. Idempotent; empty in, empty out.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '‘' || r == '’' || r == '“' || r == '”':
			// Curly quotes fold to apostrophes, which are not in the
			// keep set and therefore become separators below.
			b.WriteRune(' ')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '/':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ListSource records which parsing path produced a List.
type ListSource int

const (
	// ListStructured means the input was a JSON array (or already a slice).
	ListStructured ListSource = iota
	// ListDelimited means JSON parsing failed and the input was split on
	// comma/semicolon/pipe/slash delimiters.
	ListDelimited
	// ListLiteral means the input was a scalar, kept as a single token.
	ListLiteral
)

// List is the result of ParseList: normalized tokens plus the path that
// produced them. Current callers treat both paths identically; the tag
// exists so diagnostics can tell structured input from heuristic splits.
type List struct {
	Tokens []string
	Source ListSource
}

// ParseList turns a list-like value into ordered normalized tokens.
// Slices are normalized element-wise. Strings are first parsed as strict
// JSON; on failure they are trimmed of surrounding bracket/quote characters
// and split on delimiters, discarding blank pieces. Any other value becomes
// a single-token list of its normalized string form. Never fails.
func ParseList(v any) List {
	switch val := v.(type) {
	case nil:
		return List{Source: ListLiteral}
	case []string:
		tokens := make([]string, 0, len(val))
		for _, x := range val {
			tokens = append(tokens, Normalize(x))
		}
		return List{Tokens: tokens, Source: ListStructured}
	case []any:
		tokens := make([]string, 0, len(val))
		for _, x := range val {
			if x == nil {
				continue
			}
			tokens = append(tokens, Normalize(stringify(x)))
		}
		return List{Tokens: tokens, Source: ListStructured}
	case string:
		return parseListString(val)
	default:
		return List{Tokens: []string{Normalize(stringify(val))}, Source: ListLiteral}
	}
}

func parseListString(s string) List {
	s = strings.TrimSpace(s)

	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err == nil {
		if arr, ok := parsed.([]any); ok {
			tokens := make([]string, 0, len(arr))
			for _, x := range arr {
				tokens = append(tokens, Normalize(stringify(x)))
			}
			return List{Tokens: tokens, Source: ListStructured}
		}
		return List{Tokens: []string{Normalize(stringify(parsed))}, Source: ListStructured}
	}

	trimmed := strings.Trim(s, `[]"' `)
	var tokens []string
	for _, piece := range splitDelimiters(trimmed) {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		tokens = append(tokens, Normalize(piece))
	}
	return List{Tokens: tokens, Source: ListDelimited}
}

// splitDelimiters splits on any of , ; | / — the encodings the survey UI
// historically produced for multi-select answers.
func splitDelimiters(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '|' || r == '/'
	})
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	case float64:
		// JSON numbers decode as float64; render integers without the
		// trailing ".0" a naive format would add.
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprint(x)
	}
}
