package export_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"lyricgraph/internal/catalog"
	"lyricgraph/internal/export"
	"lyricgraph/internal/lyrics"
	"lyricgraph/internal/services"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestSongsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songs.csv")
	songs := []catalog.Song{
		{Title: "Cardigan", Album: "folklore", Lyrics: "[Verse 1]\nVintage tee, \"brand new\" phone"},
		{Title: "Ronan", Album: "", Lyrics: "[Verse 1]\nI remember"},
	}
	if err := export.WriteSongs(path, songs); err != nil {
		t.Fatalf("WriteSongs: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "Title,Album,Lyrics\n") {
		t.Fatalf("unexpected header: %q", data)
	}

	got, err := export.ReadSongs(path)
	if err != nil {
		t.Fatalf("ReadSongs: %v", err)
	}
	if !reflect.DeepEqual(got, songs) {
		t.Fatalf("ReadSongs = %+v, want %+v", got, songs)
	}
	titles, err := export.SongsTitles(path)
	if err != nil || !reflect.DeepEqual(titles, []string{"Cardigan", "Ronan"}) {
		t.Fatalf("SongsTitles = %v, %v", titles, err)
	}
}

func TestReadSongsRejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{name: "empty file", content: "", wantMsg: "missing header"},
		{name: "wrong header", content: "Name,Album,Lyrics\n", wantMsg: `column "Title"`},
		{name: "missing column", content: "Title,Album,Lyrics\nSong,Album\n", wantMsg: "line 2"},
		{name: "empty title", content: "Title,Album,Lyrics\n,Album,text\n", wantMsg: `line 2 column "Title"`},
		{name: "empty lyrics", content: "Title,Album,Lyrics\nSong,Album,\n", wantMsg: `column "Lyrics"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "songs.csv")
			writeFile(t, path, tt.content)
			_, err := export.ReadSongs(path)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestSelectSongs(t *testing.T) {
	rules := catalog.Rules{AllowedAlbums: []string{"folklore", ""}}
	existing := []catalog.Song{{Title: "Exile", Album: "folklore", Lyrics: "old"}}
	harvested := []catalog.Song{
		{Title: "Exile", Album: "folklore", Lyrics: "new"},
		{Title: "Willow", Album: "evermore", Lyrics: "x"},
		{Title: "Ronan", Album: "", Lyrics: "y"},
	}
	got := export.SelectSongs(existing, harvested, rules)
	if len(got) != 2 || got[0].Lyrics != "old" || got[1].Title != "Ronan" {
		t.Fatalf("SelectSongs = %+v", got)
	}
}

func TestLyricRowsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lyrics.csv")
	rows := []lyrics.Row{
		{Song: "Cardigan", Album: "folklore", Line: "Vintage tee, brand new phone", Next: "High heels on cobblestones", Multiplicity: 1},
		{Song: "Cardigan", Album: "folklore", Line: "High heels on cobblestones", Previous: "Vintage tee, brand new phone", Multiplicity: 2},
	}
	if err := export.WriteLyricRows(path, rows); err != nil {
		t.Fatalf("WriteLyricRows: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "Song,Album,Lyric,Previous Lyric,Next Lyric,Multiplicity\n") {
		t.Fatalf("unexpected header: %q", data)
	}
	got, err := export.ReadLyricRows(path)
	if err != nil {
		t.Fatalf("ReadLyricRows: %v", err)
	}
	if !reflect.DeepEqual(got, rows) {
		t.Fatalf("ReadLyricRows = %+v, want %+v", got, rows)
	}
}

func TestReadLyricRowsRejectsBadMultiplicity(t *testing.T) {
	header := "Song,Album,Lyric,Previous Lyric,Next Lyric,Multiplicity\n"
	tests := map[string]string{
		"not integer": header + "S,A,line,,,two\n",
		"zero":        header + "S,A,line,,,0\n",
		"empty lyric": header + "S,A,,,,1\n",
		"empty song":  header + ",A,line,,,1\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "lyrics.csv")
			writeFile(t, path, content)
			if _, err := export.ReadLyricRows(path); !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestHierarchyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lyrics.json")
	rows := []lyrics.Row{
		{Song: "Mine", Album: "Speak Now", Line: "Oh, oh", Next: "You are the best thing", Multiplicity: 1},
		{Song: "Mine", Album: "Speak Now", Line: "You are the best thing", Previous: "Oh, oh", Multiplicity: 3},
	}
	if err := export.WriteHierarchy(path, lyrics.Regroup(rows)); err != nil {
		t.Fatalf("WriteHierarchy: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `{
    "Speak Now": {
        "Mine": [
            {
                "lyric": "Oh, oh",
                "prev": "",
                "next": "You are the best thing",
                "multiplicity": 1
            },
            {
                "lyric": "You are the best thing",
                "prev": "Oh, oh",
                "next": "",
                "multiplicity": 3
            }
        ]
    }
}`
	if string(data) != want {
		t.Fatalf("unexpected JSON:\n%s", data)
	}

	h, err := export.ReadHierarchy(path)
	if err != nil {
		t.Fatalf("ReadHierarchy: %v", err)
	}
	if !reflect.DeepEqual(h.Rows(), rows) {
		t.Fatalf("Rows = %+v", h.Rows())
	}
	if h.Lyrics("Speak Now", "Mine")[0].Previous.Present {
		t.Fatal("empty prev must decode as absent")
	}
}
