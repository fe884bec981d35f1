package testsupport

import (
	"context"
	"testing"

	"lyricgraph/internal/catalog"
	"lyricgraph/internal/config"
	"lyricgraph/internal/songstore"
)

// MustOpenStore opens a songstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *songstore.Store {
	t.Helper()

	store, err := songstore.Open(cfg)
	if err != nil {
		t.Fatalf("songstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// PutSong stores a song for tests using the provided store.
func PutSong(t testing.TB, store *songstore.Store, title, album, lyrics string) catalog.Song {
	t.Helper()

	song := catalog.Song{Title: title, Album: album, Lyrics: lyrics}
	if err := store.Put(context.Background(), song); err != nil {
		t.Fatalf("store.Put: %v", err)
	}
	return song
}
