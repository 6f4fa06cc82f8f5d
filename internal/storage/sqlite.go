// Package storage is the engine's data-access collaborator: a SQLite store
// holding entities, raw survey answers, and question definitions. The
// matching engine only ever reads from it; writes come from the intake
// surfaces (API, importer, CLI).
package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kalambet/attune/internal/matching"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database with methods for entities, answers, and
// questions. It satisfies matching.AnswerSource, matching.TherapistSource,
// and matching.QuestionSource.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending
// migrations. Pass ":memory:" as dataDir for an in-memory database (tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "attune.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate reads embedded SQL migration files and applies any not yet run.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// AppliedMigrations returns the applied migration versions ascending.
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// --- Entities ---

// SaveEntity inserts or updates an entity by ID.
func (s *Store) SaveEntity(e Entity) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	matchable := 0
	if e.Matchable {
		matchable = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO entities (id, role, display_name, email, matchable, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			role = excluded.role,
			display_name = excluded.display_name,
			email = excluded.email,
			matchable = excluded.matchable`,
		e.ID, e.Role, e.DisplayName, e.Email, matchable, createdAt.Format(time.RFC3339),
	)
	return err
}

// GetEntity fetches one entity by ID, or ErrNotFound.
func (s *Store) GetEntity(id string) (Entity, error) {
	var e Entity
	var matchable int
	var createdAt string
	err := s.db.QueryRow(`
		SELECT id, role, display_name, email, matchable, created_at
		FROM entities WHERE id = ?`, id,
	).Scan(&e.ID, &e.Role, &e.DisplayName, &e.Email, &matchable, &createdAt)
	if err == sql.ErrNoRows {
		return Entity{}, ErrNotFound
	}
	if err != nil {
		return Entity{}, err
	}
	e.Matchable = matchable != 0
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Entity{}, fmt.Errorf("parsing created_at: %w", err)
	}
	e.CreatedAt = t
	return e, nil
}

// ListTherapists returns the currently matchable therapists in insertion
// order. The order is what makes tied ranking results deterministic for a
// fixed snapshot.
func (s *Store) ListTherapists() ([]matching.TherapistRef, error) {
	rows, err := s.db.Query(`
		SELECT id, display_name FROM entities
		WHERE role = 'therapist' AND matchable = 1
		ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []matching.TherapistRef
	for rows.Next() {
		var ref matching.TherapistRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// --- Answers ---

// UpsertAnswer writes one answer row, replacing any previous value for the
// same (entity, question) pair.
func (s *Store) UpsertAnswer(entityID string, questionID int, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO answers (entity_id, question_id, answer, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(entity_id, question_id) DO UPDATE SET
			answer = excluded.answer,
			updated_at = excluded.updated_at`,
		entityID, questionID, value, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetAnswer returns the raw answer text for one question, or an empty
// string when no row exists. Missing answers are not an error: the profile
// builder treats them as empty fields.
func (s *Store) GetAnswer(entityID string, questionID int) (string, error) {
	var value string
	err := s.db.QueryRow(
		"SELECT answer FROM answers WHERE entity_id = ? AND question_id = ?",
		entityID, questionID,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// ListAnswers returns all answer rows for one entity, ordered by question ID.
func (s *Store) ListAnswers(entityID string) ([]Answer, error) {
	rows, err := s.db.Query(`
		SELECT entity_id, question_id, answer, updated_at
		FROM answers WHERE entity_id = ? ORDER BY question_id ASC`, entityID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []Answer
	for rows.Next() {
		var a Answer
		var updatedAt string
		if err := rows.Scan(&a.EntityID, &a.QuestionID, &a.Value, &updatedAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		a.UpdatedAt = t
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// --- Questions ---

// UpsertQuestion writes one question definition.
func (s *Store) UpsertQuestion(q Question) error {
	_, err := s.db.Exec(`
		INSERT INTO questions (id, category, prompt, options)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			prompt = excluded.prompt,
			options = excluded.options`,
		q.ID, q.Category, q.Prompt, q.Options,
	)
	return err
}

// ListQuestions returns all question definitions as the vocabulary builder
// consumes them, ordered by ID.
func (s *Store) ListQuestions() ([]matching.QuestionRef, error) {
	rows, err := s.db.Query("SELECT id, category, options FROM questions ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []matching.QuestionRef
	for rows.Next() {
		var q matching.QuestionRef
		if err := rows.Scan(&q.ID, &q.Category, &q.Options); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
