package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// StoryStore persists crawl runs and their accepted stories in SQLite. The
// dashboard reads from this store instead of re-scraping.
type StoryStore struct {
	db *sql.DB
}

// RunRecord summarizes one persisted crawl run.
type RunRecord struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Pages      int
	StoryCount int
	Truncated  bool
}

// NewStoryStore opens (or creates) the database at the given path.
func NewStoryStore(dbPath string) (*StoryStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &StoryStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return store, nil
}

func (s *StoryStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		pages INTEGER NOT NULL,
		story_count INTEGER NOT NULL,
		truncated INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS stories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		story_title TEXT NOT NULL,
		story_category TEXT NOT NULL,
		story_summary TEXT NOT NULL,
		story_url TEXT NOT NULL,
		story_linkedin_post TEXT NOT NULL,
		extras TEXT
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *StoryStore) Close() error {
	return s.db.Close()
}

// SaveRun persists a crawl report and all its stories in one transaction.
func (s *StoryStore) SaveRun(report *CrawlReport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	truncated := 0
	if report.Truncated {
		truncated = 1
	}

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, started_at, finished_at, pages, story_count, truncated)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		report.RunID,
		report.StartedAt.Format(time.RFC3339),
		report.FinishedAt.Format(time.RFC3339),
		report.PagesFetched,
		len(report.Stories),
		truncated,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, story := range report.Stories {
		extras, err := encodeExtras(story)
		if err != nil {
			return fmt.Errorf("encoding extras for %q: %w", story.Title(), err)
		}

		_, err = tx.Exec(
			`INSERT INTO stories (run_id, story_title, story_category, story_summary, story_url, story_linkedin_post, extras)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			report.RunID,
			story.stringField("story_title"),
			story.stringField("story_category"),
			story.stringField("story_summary"),
			story.stringField("story_url"),
			story.stringField("story_LinkedIn_post"),
			extras,
		)
		if err != nil {
			return fmt.Errorf("inserting story %q: %w", story.Title(), err)
		}
	}

	return tx.Commit()
}

// ListStories returns the stories of a run in acceptance order, with
// incidental extra keys restored.
func (s *StoryStore) ListStories(runID string) ([]Story, error) {
	rows, err := s.db.Query(
		`SELECT story_title, story_category, story_summary, story_url, story_linkedin_post, extras
		 FROM stories WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying stories: %w", err)
	}
	defer rows.Close()

	var stories []Story
	for rows.Next() {
		var title, category, summary, url, post string
		var extras sql.NullString

		if err := rows.Scan(&title, &category, &summary, &url, &post, &extras); err != nil {
			return nil, fmt.Errorf("scanning story: %w", err)
		}

		story := Story{
			"story_title":         title,
			"story_category":      category,
			"story_summary":       summary,
			"story_url":           url,
			"story_LinkedIn_post": post,
		}
		if extras.Valid && extras.String != "" {
			var extraFields map[string]any
			if err := json.Unmarshal([]byte(extras.String), &extraFields); err != nil {
				return nil, fmt.Errorf("decoding extras: %w", err)
			}
			for k, v := range extraFields {
				story[k] = v
			}
		}

		stories = append(stories, story)
	}

	return stories, rows.Err()
}

// LatestRun returns the most recently started run, or nil when the store is
// empty.
func (s *StoryStore) LatestRun() (*RunRecord, error) {
	row := s.db.QueryRow(
		`SELECT run_id, started_at, finished_at, pages, story_count, truncated
		 FROM runs ORDER BY started_at DESC LIMIT 1`,
	)

	var rec RunRecord
	var startedAt, finishedAt string
	var truncated int

	err := row.Scan(&rec.RunID, &startedAt, &finishedAt, &rec.Pages, &rec.StoryCount, &truncated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest run: %w", err)
	}

	rec.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	rec.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)
	rec.Truncated = truncated != 0
	return &rec, nil
}

// encodeExtras serializes any keys beyond the required field set.
func encodeExtras(story Story) (any, error) {
	extras := make(map[string]any)
	for k, v := range story {
		if !isRequiredKey(k) {
			extras[k] = v
		}
	}
	if len(extras) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(extras)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func isRequiredKey(key string) bool {
	for _, k := range requiredStoryKeys {
		if k == key {
			return true
		}
	}
	return false
}
