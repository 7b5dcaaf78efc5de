// internal/store/sqlite.go
package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mockmate/backend/internal/domain/interview"
	"github.com/mockmate/backend/internal/domain/questionset"
	"github.com/mockmate/backend/internal/id"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    role TEXT NOT NULL,
    level TEXT NOT NULL,
    overall_score REAL NOT NULL,
    items TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_session ON reports(session_id, id);

CREATE TABLE IF NOT EXISTS question_sets (
    id TEXT PRIMARY KEY,
    tier TEXT NOT NULL,
    difficulty TEXT NOT NULL,
    duration INTEGER NOT NULL,
    payload TEXT NOT NULL,
    created_at TEXT NOT NULL
);
`

// SQLiteStore archives evaluation reports and generated question sets. Live
// sessions never touch it; they stay in memory.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Reports
// ============================================================================

// SaveReport appends a report row. Re-evaluating a session appends another
// row; GetReport returns the most recent one.
func (s *SQLiteStore) SaveReport(r *interview.Report) error {
	items, err := json.Marshal(r.Items)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		"INSERT INTO reports (session_id, role, level, overall_score, items, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		r.SessionID, r.Role, r.Level, r.OverallScore, string(items), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) GetReport(sessionID string) (*interview.Report, error) {
	var r interview.Report
	var itemsJSON string

	err := s.db.QueryRow(
		"SELECT session_id, role, level, overall_score, items FROM reports WHERE session_id = ? ORDER BY id DESC LIMIT 1",
		sessionID,
	).Scan(&r.SessionID, &r.Role, &r.Level, &r.OverallScore, &itemsJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(itemsJSON), &r.Items); err != nil {
		return nil, err
	}
	return &r, nil
}

// ============================================================================
// Question sets
// ============================================================================

func (s *SQLiteStore) SaveQuestionSet(tier, difficulty string, duration int, set *questionset.QuestionSet) (string, error) {
	payload, err := json.Marshal(set)
	if err != nil {
		return "", err
	}

	setID := id.New("qs")
	_, err = s.db.Exec(
		"INSERT INTO question_sets (id, tier, difficulty, duration, payload, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		setID, tier, difficulty, duration, string(payload), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", err
	}
	return setID, nil
}

func (s *SQLiteStore) GetQuestionSet(setID string) (*questionset.QuestionSet, error) {
	var payload string

	err := s.db.QueryRow("SELECT payload FROM question_sets WHERE id = ?", setID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var set questionset.QuestionSet
	if err := json.Unmarshal([]byte(payload), &set); err != nil {
		return nil, err
	}
	return &set, nil
}
