package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"postloom/internal/config"
)

// Record captures one completed pipeline run.
type Record struct {
	ID            int64
	RunID         string
	Topic         string
	Caption       string
	CaptionSource string
	CaptionReason string
	ImagePath     string
	ImageSource   string
	ImageReason   string
	VideoPath     string
	VideoSource   string
	VideoReason   string
	PostStatus    string
	PostSource    string
	PostID        string
	PostReason    string
	Duration      time.Duration
	CreatedAt     time.Time
}

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	dbPath := cfg.History.Path
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) applyMigrations(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id          TEXT NOT NULL,
    topic           TEXT NOT NULL,
    caption         TEXT NOT NULL,
    caption_source  TEXT NOT NULL,
    caption_reason  TEXT NOT NULL DEFAULT '',
    image_path      TEXT NOT NULL,
    image_source    TEXT NOT NULL,
    image_reason    TEXT NOT NULL DEFAULT '',
    video_path      TEXT NOT NULL,
    video_source    TEXT NOT NULL,
    video_reason    TEXT NOT NULL DEFAULT '',
    post_status     TEXT NOT NULL,
    post_source     TEXT NOT NULL,
    post_id         TEXT NOT NULL DEFAULT '',
    post_reason     TEXT NOT NULL DEFAULT '',
    duration_ms     INTEGER NOT NULL,
    created_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply history schema: %w", err)
	}
	return nil
}

// Record inserts a completed run.
func (s *Store) Record(ctx context.Context, rec Record) (int64, error) {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (
            run_id, topic,
            caption, caption_source, caption_reason,
            image_path, image_source, image_reason,
            video_path, video_source, video_reason,
            post_status, post_source, post_id, post_reason,
            duration_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.Topic,
		rec.Caption,
		rec.CaptionSource,
		rec.CaptionReason,
		rec.ImagePath,
		rec.ImageSource,
		rec.ImageReason,
		rec.VideoPath,
		rec.VideoSource,
		rec.VideoReason,
		rec.PostStatus,
		rec.PostSource,
		rec.PostID,
		rec.PostReason,
		rec.Duration.Milliseconds(),
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, topic,
            caption, caption_source, caption_reason,
            image_path, image_source, image_reason,
            video_path, video_source, video_reason,
            post_status, post_source, post_id, post_reason,
            duration_ms, created_at
        FROM runs ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var durationMS int64
		var createdAt string
		if err := rows.Scan(
			&rec.ID, &rec.RunID, &rec.Topic,
			&rec.Caption, &rec.CaptionSource, &rec.CaptionReason,
			&rec.ImagePath, &rec.ImageSource, &rec.ImageReason,
			&rec.VideoPath, &rec.VideoSource, &rec.VideoReason,
			&rec.PostStatus, &rec.PostSource, &rec.PostID, &rec.PostReason,
			&durationMS, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			rec.CreatedAt = parsed
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return records, nil
}
