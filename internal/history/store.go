// Package history remembers which threads were already turned into videos.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists rendered videos in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

type Video struct {
	ID              string
	ThreadID        string
	Subreddit       string
	Title           string
	OutputPath      string
	BackgroundVideo string
	BackgroundAudio string
	NarrationSec    float64
	CreatedAt       time.Time
}

// Open creates or connects to the database at path and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
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

	store := &Store{db: db, path: path}
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
func (s *Store) Path() string { return s.path }

// Record inserts v and returns it with ID and CreatedAt filled in.
func (s *Store) Record(ctx context.Context, v Video) (Video, error) {
	if strings.TrimSpace(v.ThreadID) == "" {
		return Video{}, fmt.Errorf("record video: empty thread id")
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	v.CreatedAt = v.CreatedAt.UTC()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO videos (
            id, thread_id, subreddit, title, output_path,
            background_video, background_audio, narration_sec, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID,
		v.ThreadID,
		v.Subreddit,
		v.Title,
		v.OutputPath,
		v.BackgroundVideo,
		v.BackgroundAudio,
		v.NarrationSec,
		v.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Video{}, fmt.Errorf("insert video: %w", err)
	}
	return v, nil
}

// Done reports whether threadID already has a rendered video.
func (s *Store) Done(ctx context.Context, threadID string) (bool, error) {
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM videos WHERE thread_id = ?", threadID)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("query history: %w", err)
	}
	return count > 0, nil
}

// List returns up to limit videos, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Video, error) {
	query := `SELECT id, thread_id, subreddit, title, output_path,
        background_video, background_audio, narration_sec, created_at
        FROM videos ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var out []Video
	for rows.Next() {
		var (
			v       Video
			created string
		)
		if err := rows.Scan(
			&v.ID,
			&v.ThreadID,
			&v.Subreddit,
			&v.Title,
			&v.OutputPath,
			&v.BackgroundVideo,
			&v.BackgroundAudio,
			&v.NarrationSec,
			&created,
		); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		if v.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
