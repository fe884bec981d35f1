package songstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"lyricgraph/internal/catalog"
	"lyricgraph/internal/services"
)

const songColumns = "title, album, lyrics, genius_id, url, created_at"

// Put stores song, replacing album, lyrics and provider fields when the title
// already exists. The original insertion position is kept.
func (s *Store) Put(ctx context.Context, song catalog.Song) error {
	title := catalog.CleanTitle(song.Title)
	if title == "" {
		return services.Wrap(services.ErrValidation, "store", "put song", "song title is empty", nil)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := s.execWithRetry(ctx,
		`INSERT INTO songs (title, album, lyrics, genius_id, url, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(title) DO UPDATE SET
            album = excluded.album,
            lyrics = excluded.lyrics,
            genius_id = excluded.genius_id,
            url = excluded.url,
            updated_at = excluded.updated_at`,
		title,
		song.Album,
		song.Lyrics,
		nullableInt64(song.GeniusID),
		nullableString(song.URL),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("put song %q: %w", title, err)
	}
	return nil
}

// Get returns the song stored under title.
func (s *Store) Get(ctx context.Context, title string) (*catalog.Song, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+songColumns+" FROM songs WHERE title = ?", catalog.CleanTitle(title))
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "get song", fmt.Sprintf("no song titled %q", title), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get song %q: %w", title, err)
	}
	return song, nil
}

// List returns every song in insertion order.
func (s *Store) List(ctx context.Context) ([]catalog.Song, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT "+songColumns+" FROM songs ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var songs []catalog.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, *song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

// Titles returns the stored titles in insertion order.
func (s *Store) Titles(ctx context.Context) ([]string, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT title FROM songs ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// Count returns the number of stored songs.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM songs").Scan(&count); err != nil {
		return 0, fmt.Errorf("count songs: %w", err)
	}
	return count, nil
}

// Clear removes every stored song, used when a harvest starts over instead
// of appending.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.execWithRetry(ctx, "DELETE FROM songs"); err != nil {
		return fmt.Errorf("clear songs: %w", err)
	}
	return nil
}

func scanSong(scanner interface{ Scan(dest ...any) error }) (*catalog.Song, error) {
	var (
		song      catalog.Song
		geniusID  sql.NullInt64
		url       sql.NullString
		createdAt string
	)
	if err := scanner.Scan(&song.Title, &song.Album, &song.Lyrics, &geniusID, &url, &createdAt); err != nil {
		return nil, err
	}
	if geniusID.Valid {
		song.GeniusID = geniusID.Int64
	}
	if url.Valid {
		song.URL = url.String
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		song.CreatedAt = ts
	}
	return &song, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableInt64(value int64) any {
	if value == 0 {
		return nil
	}
	return value
}
