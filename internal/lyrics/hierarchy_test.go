package lyrics

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func sampleSongs() []SongGraph {
	return []SongGraph{
		{Title: "Shake It Off", Album: "1989", Graph: BuildContexts("[Chorus]\nshake\nshake\n\nshake it off")},
		{Title: "Love Story", Album: "Fearless", Graph: BuildContexts("[Verse 1]\nWe were both young\nwhen I first saw you")},
		{Title: "Blank Space", Album: "1989", Graph: BuildContexts("[Verse]\nNice to meet you")},
		{Title: "Love Story", Album: "Taylor's Version", Graph: BuildContexts("[Verse 1]\nreplacement")},
	}
}

func TestFlattenFirstOccurrenceWins(t *testing.T) {
	rows := Flatten(sampleSongs(), nil)
	for _, row := range rows {
		if row.Song == "Love Story" && row.Album != "Fearless" {
			t.Fatalf("later duplicate leaked: %+v", row)
		}
		if row.Line == "replacement" {
			t.Fatalf("duplicate title merged: %+v", row)
		}
	}
	if rows[0].Song != "Shake It Off" || rows[len(rows)-1].Song != "Blank Space" {
		t.Fatalf("catalog order lost: %+v", rows)
	}
}

func TestFlattenSeededTitles(t *testing.T) {
	seen := NewTitleSet("Shake It Off")
	rows := Flatten(sampleSongs(), seen)
	for _, row := range rows {
		if row.Song == "Shake It Off" {
			t.Fatalf("seeded title emitted: %+v", row)
		}
	}
	if !seen.Has("Love Story") || !seen.Has("Blank Space") || seen.Len() != 3 {
		t.Fatalf("seen not updated, len=%d", seen.Len())
	}
	if seen.Has("shake it off") {
		t.Fatal("title matching must be case-sensitive")
	}
}

func TestFlattenEncodesAbsentAsEmpty(t *testing.T) {
	rows := Flatten([]SongGraph{{Title: "t", Album: "a", Graph: BuildContexts("only")}}, nil)
	want := []Row{{Song: "t", Album: "a", Line: "only", Multiplicity: 1}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %+v, want %+v", rows, want)
	}
	if rows[0].Context() != (Context{Line: "only"}) {
		t.Fatalf("Context = %+v", rows[0].Context())
	}
}

func TestRegroupRoundTrip(t *testing.T) {
	songs := sampleSongs()
	h := Regroup(Flatten(songs, nil))

	if got := h.Albums(); !reflect.DeepEqual(got, []string{"1989", "Fearless"}) {
		t.Fatalf("Albums = %v", got)
	}
	if got := h.Songs("1989"); !reflect.DeepEqual(got, []string{"Shake It Off", "Blank Space"}) {
		t.Fatalf("Songs = %v", got)
	}
	for _, song := range songs[:3] {
		lyrics := h.Lyrics(song.Album, song.Title)
		if len(lyrics) != song.Graph.Len() {
			t.Fatalf("%s: %d lyrics, want %d", song.Title, len(lyrics), song.Graph.Len())
		}
		for _, lyric := range lyrics {
			if got := song.Graph.Multiplicity(lyric.Context()); got != lyric.Multiplicity {
				t.Fatalf("%s: %+v multiplicity %d, graph has %d", song.Title, lyric, lyric.Multiplicity, got)
			}
		}
	}
}

func TestHierarchyJSONRoundTrip(t *testing.T) {
	rows := Flatten(sampleSongs(), nil)
	data, err := json.MarshalIndent(Regroup(rows), "", "    ")
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	text := string(data)
	if strings.Index(text, `"1989"`) > strings.Index(text, `"Fearless"`) {
		t.Fatalf("album order lost:\n%s", text)
	}
	if !strings.Contains(text, `"prev": ""`) || !strings.Contains(text, `"lyric": "shake"`) {
		t.Fatalf("unexpected encoding:\n%s", text)
	}

	decoded := NewHierarchy()
	if err := json.Unmarshal(data, decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := Regroup(rows).Rows()
	if !reflect.DeepEqual(decoded.Rows(), want) {
		t.Fatalf("rows after decode = %+v\nwant %+v", decoded.Rows(), want)
	}
	if len(want) != len(rows) {
		t.Fatalf("Rows lost entries: %d vs %d", len(want), len(rows))
	}
}
