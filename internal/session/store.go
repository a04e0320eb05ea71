package session

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/shenbi/jobprep/internal/api"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Stage identifies one pipeline artifact slot. Each slot holds at most one
// current value; writes overwrite unconditionally.
type Stage string

const (
	StageJobDescription Stage = "job_description"
	StageResume         Stage = "resume"
	StageQuestions      Stage = "interview_questions"
)

// ErrNotFound is returned when a stage has no stored artifact. Absence is a
// normal state: the user may enter any stage directly.
var ErrNotFound = errors.New("artifact not found")

// ResumeArtifact is the raw resume submission kept for reuse by later
// stages.
type ResumeArtifact struct {
	Resume   string `json:"resume"`
	FileName string `json:"fileName,omitempty"`
	Preview  string `json:"preview,omitempty"`
}

// StageInfo describes a stored artifact for display.
type StageInfo struct {
	Stage     Stage
	UpdatedAt time.Time
}

// Store persists pipeline artifacts between stages of one preparation
// session. It is the CLI counterpart of per-tab session storage: artifacts
// survive command invocations and are discarded by Clear.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the session database in dataDir and runs pending
// migrations. Pass ":memory:" as dataDir for an in-memory store (used by
// tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "jobprep.db")
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

		var version int
		if _, err := fmt.Sscanf(entry.Name(), "%d_", &version); err != nil {
			return fmt.Errorf("parsing migration version from %q: %w", entry.Name(), err)
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

func (s *Store) put(stage Stage, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling %s artifact: %w", stage, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO artifacts (stage, payload_json, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(stage) DO UPDATE SET payload_json = excluded.payload_json, updated_at = excluded.updated_at`,
		string(stage), string(data), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) get(stage Stage, out any) error {
	var payload string
	err := s.db.QueryRow("SELECT payload_json FROM artifacts WHERE stage = ?", string(stage)).Scan(&payload)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("unmarshalling %s artifact: %w", stage, err)
	}
	return nil
}

// PutJobDescription stores the raw job-description request payload for
// reuse by the resume and question-generation stages.
func (s *Store) PutJobDescription(p api.JobDescriptionPayload) error {
	return s.put(StageJobDescription, p)
}

// JobDescription returns the stored job-description payload, or ErrNotFound.
func (s *Store) JobDescription() (api.JobDescriptionPayload, error) {
	var p api.JobDescriptionPayload
	if err := s.get(StageJobDescription, &p); err != nil {
		return api.JobDescriptionPayload{}, err
	}
	return p, nil
}

// PutResume stores the raw resume submission.
func (s *Store) PutResume(r ResumeArtifact) error {
	return s.put(StageResume, r)
}

// Resume returns the stored resume artifact, or ErrNotFound.
func (s *Store) Resume() (ResumeArtifact, error) {
	var r ResumeArtifact
	if err := s.get(StageResume, &r); err != nil {
		return ResumeArtifact{}, err
	}
	return r, nil
}

// PutQuestions stores the generated interview question set, replacing any
// previous set.
func (s *Store) PutQuestions(qs []api.Question) error {
	return s.put(StageQuestions, qs)
}

// Questions returns the stored question set, or ErrNotFound.
func (s *Store) Questions() ([]api.Question, error) {
	var qs []api.Question
	if err := s.get(StageQuestions, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// Delete removes a single stage artifact. Deleting an absent stage is not
// an error.
func (s *Store) Delete(stage Stage) error {
	_, err := s.db.Exec("DELETE FROM artifacts WHERE stage = ?", string(stage))
	return err
}

// Clear removes all stored artifacts, resetting the session.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM artifacts")
	return err
}

// Stages lists stored artifacts in insertion-independent stage order.
func (s *Store) Stages() ([]StageInfo, error) {
	rows, err := s.db.Query("SELECT stage, updated_at FROM artifacts ORDER BY stage")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []StageInfo
	for rows.Next() {
		var stage, updatedAt string
		if err := rows.Scan(&stage, &updatedAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing updated_at for %s: %w", stage, err)
		}
		infos = append(infos, StageInfo{Stage: Stage(stage), UpdatedAt: t})
	}
	return infos, rows.Err()
}
