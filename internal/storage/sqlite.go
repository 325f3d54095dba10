// Package storage persists scene scores and recorded simulation runs in
// SQLite through the pure-Go modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/isoworld/internal/config"
)

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry is a single score record for a scene.
type ScoreEntry struct {
	ID        int64
	SceneID   string
	Score     int
	CreatedAt time.Time
}

// Run is a recorded headless simulation: how far it got, how it ended and
// the encoded final world snapshot.
type Run struct {
	ID        int64
	SceneID   string
	Frames    int
	Score     int
	Outcome   string // "won", "gameover", "running"
	Cause     string
	Hash      uint64
	Snapshot  []byte
	Elapsed   time.Duration
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := config.ExpandHome(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scene_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_scene_id ON scores(scene_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(scene_id, score DESC);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scene_id TEXT NOT NULL,
			frames INTEGER NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			cause TEXT,
			hash INTEGER NOT NULL,
			snapshot BLOB,
			elapsed_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scene_id ON runs(scene_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a new score for the given scene.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(sceneID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (scene_id, score) VALUES (?, ?)",
		sceneID, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopScores retrieves the top N scores for the given scene, best first.
func (s *Store) TopScores(sceneID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, scene_id, score, created_at
		 FROM scores
		 WHERE scene_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		sceneID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.SceneID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// HighScore returns the highest score for the given scene.
// Returns 0 if no scores exist.
func (s *Store) HighScore(sceneID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE scene_id = ?",
		sceneID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given scene.
func (s *Store) ClearScores(sceneID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE scene_id = ?", sceneID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// SaveRun records a finished simulation run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(run Run) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs
		 (scene_id, frames, score, outcome, cause, hash, snapshot, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.SceneID,
		run.Frames,
		run.Score,
		run.Outcome,
		run.Cause,
		int64(run.Hash),
		run.Snapshot,
		run.Elapsed.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const runColumns = `id, scene_id, frames, score, outcome, cause, hash, snapshot, elapsed_ms, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run       Run
		cause     sql.NullString
		hash      int64
		elapsed   int64
		createdAt any
	)
	err := row.Scan(
		&run.ID,
		&run.SceneID,
		&run.Frames,
		&run.Score,
		&run.Outcome,
		&cause,
		&hash,
		&run.Snapshot,
		&elapsed,
		&createdAt,
	)
	if err != nil {
		return Run{}, err
	}
	run.Cause = cause.String
	run.Hash = uint64(hash)
	run.Elapsed = time.Duration(elapsed) * time.Millisecond
	run.CreatedAt = parseTime(createdAt)
	return run, nil
}

// RunByID retrieves a recorded run. The bool is false if no such run exists.
func (s *Store) RunByID(id int64) (Run, bool, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return run, true, nil
}

// RecentRuns retrieves the most recent runs, newest first. An empty scene ID
// returns runs for every scene.
func (s *Store) RecentRuns(sceneID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		rows *sql.Rows
		err  error
	)
	if sceneID == "" {
		rows, err = s.db.Query(
			`SELECT `+runColumns+` FROM runs ORDER BY id DESC LIMIT ?`,
			limit,
		)
	} else {
		rows, err = s.db.Query(
			`SELECT `+runColumns+` FROM runs WHERE scene_id = ? ORDER BY id DESC LIMIT ?`,
			sceneID, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// SceneStats contains aggregated statistics for a scene.
type SceneStats struct {
	SceneID    string
	Plays      int
	HighScore  int
	AvgScore   float64
	Runs       int
	LastPlayed time.Time
}

// Stats retrieves aggregated statistics for a specific scene.
func (s *Store) Stats(sceneID string) (SceneStats, error) {
	stats := SceneStats{SceneID: sceneID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), MAX(created_at)
		 FROM scores WHERE scene_id = ?`,
		sceneID,
	).Scan(&stats.Plays, &stats.HighScore, &stats.AvgScore, &lastPlayed)
	if err != nil {
		return SceneStats{}, fmt.Errorf("storage: cannot get scene stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	err = s.db.QueryRow(`SELECT COUNT(*) FROM runs WHERE scene_id = ?`, sceneID).Scan(&stats.Runs)
	if err != nil {
		return SceneStats{}, fmt.Errorf("storage: cannot count runs: %w", err)
	}
	return stats, nil
}

// AllStats retrieves statistics for every scene that has a score or a run.
func (s *Store) AllStats() (map[string]SceneStats, error) {
	rows, err := s.db.Query(
		`SELECT scene_id FROM scores
		 UNION
		 SELECT scene_id FROM runs`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list scenes: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	out := make(map[string]SceneStats, len(ids))
	for _, id := range ids {
		st, err := s.Stats(id)
		if err != nil {
			return nil, err
		}
		out[id] = st
	}
	return out, nil
}

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
