package lyrics

// Row is one flattened context. Previous and Next are "" when absent, which
// cannot be told apart from a literal empty neighbor.
type Row struct {
	Song         string
	Album        string
	Line         string
	Previous     string
	Next         string
	Multiplicity int
}

// Context decodes the row back into a context triple.
func (r Row) Context() Context {
	return Context{
		Previous: NeighborFromString(r.Previous),
		Line:     r.Line,
		Next:     NeighborFromString(r.Next),
	}
}

// SongGraph is the context graph built for one song in the catalog.
type SongGraph struct {
	Title string
	Album string
	Graph *Graph
}

// TitleSet accumulates the song titles already emitted. Matching is exact
// and case-sensitive.
type TitleSet struct {
	titles map[string]struct{}
}

// NewTitleSet returns a set seeded with existing titles, typically the ones
// already present in an output being appended to.
func NewTitleSet(existing ...string) *TitleSet {
	set := &TitleSet{titles: make(map[string]struct{}, len(existing))}
	for _, title := range existing {
		set.Add(title)
	}
	return set
}

// Add records title and reports whether it was new.
func (s *TitleSet) Add(title string) bool {
	if _, ok := s.titles[title]; ok {
		return false
	}
	s.titles[title] = struct{}{}
	return true
}

// Has reports whether title was recorded.
func (s *TitleSet) Has(title string) bool {
	if s == nil {
		return false
	}
	_, ok := s.titles[title]
	return ok
}

// Len returns the number of recorded titles.
func (s *TitleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.titles)
}

// Flatten emits one row per context in catalog order. A song whose title is
// already in seen is dropped whole; the first occurrence wins. seen may be
// nil, and is updated with every emitted title otherwise.
func Flatten(songs []SongGraph, seen *TitleSet) []Row {
	if seen == nil {
		seen = NewTitleSet()
	}
	var rows []Row
	for _, song := range songs {
		if !seen.Add(song.Title) {
			continue
		}
		for _, entry := range song.Graph.Entries() {
			rows = append(rows, Row{
				Song:         song.Title,
				Album:        song.Album,
				Line:         entry.Line,
				Previous:     entry.Previous.String(),
				Next:         entry.Next.String(),
				Multiplicity: entry.Multiplicity,
			})
		}
	}
	return rows
}
