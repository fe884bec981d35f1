package lyrics

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Lyric is one context in the nested form. Absent neighbors are explicit
// here and persist as "".
type Lyric struct {
	Line         string   `json:"lyric"`
	Previous     Neighbor `json:"prev"`
	Next         Neighbor `json:"next"`
	Multiplicity int      `json:"multiplicity"`
}

// Context returns the triple this lyric describes.
func (l Lyric) Context() Context {
	return Context{Previous: l.Previous, Line: l.Line, Next: l.Next}
}

type songMap = orderedmap.OrderedMap[string, []Lyric]

// Hierarchy groups lyrics by album, then song. Both levels keep first-seen
// order, and JSON encoding preserves it.
type Hierarchy struct {
	albums *orderedmap.OrderedMap[string, *songMap]
}

// NewHierarchy returns an empty hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{albums: orderedmap.New[string, *songMap]()}
}

// Regroup nests flattened rows under album and song.
func Regroup(rows []Row) *Hierarchy {
	h := NewHierarchy()
	for _, row := range rows {
		h.Append(row.Album, row.Song, Lyric{
			Line:         row.Line,
			Previous:     NeighborFromString(row.Previous),
			Next:         NeighborFromString(row.Next),
			Multiplicity: row.Multiplicity,
		})
	}
	return h
}

// Append adds lyric to the end of the song's list.
func (h *Hierarchy) Append(album, song string, lyric Lyric) {
	songs, ok := h.albums.Get(album)
	if !ok {
		songs = orderedmap.New[string, []Lyric]()
		h.albums.Set(album, songs)
	}
	lyrics, _ := songs.Get(song)
	songs.Set(song, append(lyrics, lyric))
}

// Albums lists album names in first-seen order.
func (h *Hierarchy) Albums() []string {
	out := make([]string, 0, h.albums.Len())
	for pair := h.albums.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Songs lists the songs of album in first-seen order.
func (h *Hierarchy) Songs(album string) []string {
	songs, ok := h.albums.Get(album)
	if !ok {
		return nil
	}
	out := make([]string, 0, songs.Len())
	for pair := songs.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Lyrics returns the contexts of one song.
func (h *Hierarchy) Lyrics(album, song string) []Lyric {
	songs, ok := h.albums.Get(album)
	if !ok {
		return nil
	}
	lyrics, _ := songs.Get(song)
	return lyrics
}

// Rows flattens the hierarchy back into rows, album by album.
func (h *Hierarchy) Rows() []Row {
	var rows []Row
	for albumPair := h.albums.Oldest(); albumPair != nil; albumPair = albumPair.Next() {
		for songPair := albumPair.Value.Oldest(); songPair != nil; songPair = songPair.Next() {
			for _, lyric := range songPair.Value {
				rows = append(rows, Row{
					Song:         songPair.Key,
					Album:        albumPair.Key,
					Line:         lyric.Line,
					Previous:     lyric.Previous.String(),
					Next:         lyric.Next.String(),
					Multiplicity: lyric.Multiplicity,
				})
			}
		}
	}
	return rows
}

// MarshalJSON encodes the album -> song -> lyrics object in insertion order.
func (h *Hierarchy) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.albums)
}

// UnmarshalJSON decodes the object form, keeping key order.
func (h *Hierarchy) UnmarshalJSON(data []byte) error {
	albums := orderedmap.New[string, *songMap]()
	if err := json.Unmarshal(data, albums); err != nil {
		return err
	}
	h.albums = albums
	return nil
}
