package export

import (
	"io"

	"lyricgraph/internal/catalog"
	"lyricgraph/internal/fileutil"
)

// SongsHeader is the header row of the songs table.
var SongsHeader = []string{"Title", "Album", "Lyrics"}

// WriteSongs replaces the songs table at path.
func WriteSongs(path string, songs []catalog.Song) error {
	records := make([][]string, 0, len(songs))
	for _, song := range songs {
		records = append(records, []string{song.Title, song.Album, song.Lyrics})
	}
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return writeTable(w, SongsHeader, records)
	})
}

// ReadSongs loads the songs table. Title and Lyrics must be non-empty; Album
// may be empty for uncategorized songs.
func ReadSongs(path string) ([]catalog.Song, error) {
	var songs []catalog.Song
	err := readTable(path, SongsHeader, func(line int, record []string) error {
		if record[0] == "" {
			return malformed(path, line, "Title", "empty value")
		}
		if record[2] == "" {
			return malformed(path, line, "Lyrics", "empty value")
		}
		songs = append(songs, catalog.Song{Title: record[0], Album: record[1], Lyrics: record[2]})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return songs, nil
}

// SongsTitles returns the titles in an existing songs table, used to seed the
// skip list when appending.
func SongsTitles(path string) ([]string, error) {
	songs, err := ReadSongs(path)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(songs))
	for _, song := range songs {
		titles = append(titles, song.Title)
	}
	return titles, nil
}

// SelectSongs keeps the harvested songs whose album passes rules, preceded by
// existing rows when appending. Harvested songs whose title already appears
// in existing are dropped.
func SelectSongs(existing, harvested []catalog.Song, rules catalog.Rules) []catalog.Song {
	out := make([]catalog.Song, 0, len(existing)+len(harvested))
	seen := make(map[string]struct{}, len(existing))
	for _, song := range existing {
		seen[song.Title] = struct{}{}
		out = append(out, song)
	}
	for _, song := range harvested {
		if _, ok := seen[song.Title]; ok {
			continue
		}
		if !rules.Allowed(song.Album) {
			continue
		}
		out = append(out, song)
	}
	return out
}
