package scrobble

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/needledrop/needledrop/internal/player"
	_ "modernc.org/sqlite"
)

// History is a local log of submitted scrobbles backed by SQLite. It is a
// record of what was sent, not a retry queue: failed submissions are not
// stored or replayed.
type History struct {
	db *sql.DB
}

// Play is one recorded scrobble.
type Play struct {
	ID        int64
	Track     string
	Artist    string
	Album     string
	Duration  int
	Loved     bool
	StartedAt time.Time
}

// OpenHistory opens (and if needed creates) the history database at dbPath.
func OpenHistory(dbPath string) (*History, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps in-memory databases consistent and is
	// plenty for this write rate.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS plays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			track TEXT NOT NULL,
			artist TEXT NOT NULL,
			album TEXT,
			duration INTEGER NOT NULL,
			loved BOOLEAN NOT NULL DEFAULT 0,
			started_at INTEGER NOT NULL,
			submitted_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
		);

		CREATE INDEX IF NOT EXISTS idx_plays_started_at ON plays(started_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &History{db: db}, nil
}

// Close closes the database connection.
func (h *History) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// Record logs a successfully submitted scrobble.
func (h *History) Record(ctx context.Context, track *player.Track) (int64, error) {
	query := `
		INSERT INTO plays (track, artist, album, duration, loved, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := h.db.ExecContext(ctx, query,
		track.Name,
		track.Artist,
		track.Album,
		int(math.Round(track.Length)),
		track.Loved,
		track.StartedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert play: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insert id: %w", err)
	}
	return id, nil
}

// Recent returns the most recently started plays, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]Play, error) {
	query := `
		SELECT id, track, artist, COALESCE(album, ''), duration, loved, started_at
		FROM plays
		ORDER BY started_at DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	defer rows.Close()

	var plays []Play
	for rows.Next() {
		var p Play
		var startedAt int64
		if err := rows.Scan(&p.ID, &p.Track, &p.Artist, &p.Album, &p.Duration, &p.Loved, &startedAt); err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		p.StartedAt = time.Unix(startedAt, 0)
		plays = append(plays, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plays: %w", err)
	}

	return plays, nil
}
