package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/hangwatch/internal/domain"
	"github.com/doeshing/hangwatch/internal/pkg/filesystem"
	"github.com/doeshing/hangwatch/internal/ports"
)

// SQLiteStore persists results in a SQLite database. When the database
// cannot be opened it degrades to the JSON file store alongside it.
type SQLiteStore struct {
	db   *sql.DB
	path string
	cap  int
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the history database at path, defaulting
// to ~/.hangwatch/history/history.db.
func NewSQLiteStore(path string, capacity int) *SQLiteStore {
	if path == "" {
		path = filepath.Join(filesystem.UserHomeDir(), ".hangwatch", "history", "history.db")
	}
	if capacity <= 0 {
		capacity = domain.DefaultHistoryCap
	}
	_ = os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path, cap: capacity}
	}
	store := &SQLiteStore{db: db, path: path, cap: capacity}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path, cap: capacity}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS executions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		exec_id TEXT,
		command TEXT,
		started_at TEXT,
		ended_at TEXT,
		duration_seconds REAL,
		exit_code INTEGER,
		timed_out INTEGER,
		killed INTEGER,
		diagnostic_run INTEGER
	);`)
	return err
}

func (s *SQLiteStore) fallback() *FileStore {
	return NewFileStore(s.path+".json", s.cap)
}

// Append inserts a new record and evicts beyond capacity, oldest first.
func (s *SQLiteStore) Append(result domain.CommandResult) error {
	if s.db == nil {
		return s.fallback().Append(result)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO executions
		(exec_id, command, started_at, ended_at, duration_seconds, exit_code, timed_out, killed, diagnostic_run)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID,
		result.Command,
		result.StartedAt.Format(time.RFC3339Nano),
		result.EndedAt.Format(time.RFC3339Nano),
		result.Duration,
		result.ExitCode,
		boolToInt(result.TimedOut),
		boolToInt(result.Killed),
		boolToInt(result.DiagnosticRun),
	)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`DELETE FROM executions WHERE id NOT IN (
		SELECT id FROM executions ORDER BY id DESC LIMIT ?)`, s.cap)
	return err
}

// Records returns entries in insertion order, oldest first.
func (s *SQLiteStore) Records() ([]domain.CommandResult, error) {
	if s.db == nil {
		return s.fallback().Records()
	}
	rows, err := s.db.Query(`SELECT exec_id, command, started_at, ended_at,
		duration_seconds, exit_code, timed_out, killed, diagnostic_run
		FROM executions ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.CommandResult
	for rows.Next() {
		var rec domain.CommandResult
		var started, ended string
		var timedOut, killed, diagRun int
		if err := rows.Scan(&rec.ID, &rec.Command, &started, &ended,
			&rec.Duration, &rec.ExitCode, &timedOut, &killed, &diagRun); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
			rec.StartedAt = t
		}
		if t, err := time.Parse(time.RFC3339Nano, ended); err == nil {
			rec.EndedAt = t
		}
		rec.TimedOut = timedOut == 1
		rec.Killed = killed == 1
		rec.DiagnosticRun = diagRun == 1
		if rec.TimedOut {
			rec.State = domain.StateTimedOut
		} else {
			rec.State = domain.StateComplete
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback().Clear()
	}
	_, err := s.db.Exec("DELETE FROM executions")
	return err
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
