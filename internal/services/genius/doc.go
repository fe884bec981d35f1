// Package genius talks to the Genius catalog: the JSON API for artist song
// listings and song details, and the public song pages for lyric text.
//
// Every request is paced by a shared token-bucket limiter and bounded by the
// client's HTTP timeout. Failures are tagged with the services error markers
// so callers can tell timeouts from missing songs.
package genius
