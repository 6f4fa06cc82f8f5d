package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Entity is one survey participant: a client looking for a therapist or a
// therapist offering sessions. Therapists with Matchable set are candidates
// for every ranking request.
type Entity struct {
	ID          string
	Role        string // "user" or "therapist"
	DisplayName string
	Email       string
	Matchable   bool
	CreatedAt   time.Time
}

// Answer is one raw survey answer row. The value is stored exactly as the
// intake surface produced it: plain text, a JSON-encoded list, or a
// JSON-encoded mapping for slider-statement sets. The engine normalizes on
// read, never on write.
type Answer struct {
	EntityID   string
	QuestionID int
	Value      string
	UpdatedAt  time.Time
}

// Question is one survey question definition. Options holds the raw option
// list encoding (JSON array or delimiter-separated) used for vocabulary
// assembly.
type Question struct {
	ID       int
	Category string
	Prompt   string
	Options  string
}
