// Package intake imports answer sets into the store: JSON answer files
// produced by the survey collaborator and long-form PDF intake forms.
package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/attune/internal/storage"
)

// importConcurrency bounds parallel file imports in ImportDir. SQLite is
// single-writer; four keeps parsing overlapped without piling up on the lock.
const importConcurrency = 4

// Store is the subset of storage the importer writes through.
type Store interface {
	SaveEntity(e storage.Entity) error
	UpsertAnswer(entityID string, questionID int, value string) error
}

// Importer writes entities and answers into the store.
type Importer struct {
	store Store
}

// New returns an Importer over the given store.
func New(store Store) *Importer {
	return &Importer{store: store}
}

// answerFile is the JSON answer-set layout the survey collaborator exports:
// one entity plus a question-ID → raw-value map. Values may be strings,
// lists, or objects; non-strings are stored as their JSON encoding, which is
// exactly the raw_value shape the engine's list parser expects.
type answerFile struct {
	Entity struct {
		ID        string `json:"id"`
		Role      string `json:"role"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		Matchable *bool  `json:"matchable"`
	} `json:"entity"`
	Answers map[string]json.RawMessage `json:"answers"`
}

// ImportFile imports one JSON answer file and returns the entity ID it was
// stored under (generated when the file carries none) and the number of
// answers written.
func (im *Importer) ImportFile(path string) (string, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, fmt.Errorf("reading %s: %w", path, err)
	}

	var af answerFile
	if err := json.Unmarshal(data, &af); err != nil {
		return "", 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	if af.Entity.Role != "user" && af.Entity.Role != "therapist" {
		return "", 0, fmt.Errorf("%s: entity role must be \"user\" or \"therapist\", got %q", path, af.Entity.Role)
	}

	entityID := af.Entity.ID
	if entityID == "" {
		entityID = uuid.New().String()
	}
	matchable := af.Entity.Role == "therapist"
	if af.Entity.Matchable != nil {
		matchable = *af.Entity.Matchable
	}

	if err := im.store.SaveEntity(storage.Entity{
		ID:          entityID,
		Role:        af.Entity.Role,
		DisplayName: af.Entity.Name,
		Email:       af.Entity.Email,
		Matchable:   matchable,
	}); err != nil {
		return "", 0, fmt.Errorf("saving entity from %s: %w", path, err)
	}

	// Deterministic write order keeps retries and logs readable.
	qids := make([]string, 0, len(af.Answers))
	for k := range af.Answers {
		qids = append(qids, k)
	}
	sort.Strings(qids)

	count := 0
	for _, k := range qids {
		qid, err := strconv.Atoi(k)
		if err != nil {
			return "", 0, fmt.Errorf("%s: answer key %q is not a question ID", path, k)
		}
		if err := im.store.UpsertAnswer(entityID, qid, rawValue(af.Answers[k])); err != nil {
			return "", 0, fmt.Errorf("saving answer %d from %s: %w", qid, path, err)
		}
		count++
	}

	slog.Info("imported answer file", "path", path, "entity", entityID, "answers", count)
	return entityID, count, nil
}

// ImportDir imports every .json answer file in dir with bounded concurrency.
// The first failure cancels the remaining imports. Returns the number of
// files imported.
func (im *Importer) ImportDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(importConcurrency)

	imported := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		imported++
		path := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			_, _, err := im.ImportFile(path)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return imported, nil
}

// rawValue stores string answers as plain text and everything else (lists,
// objects, numbers) as its JSON encoding.
func rawValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
