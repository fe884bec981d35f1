package lyrics

import (
	"encoding/json"
	"strings"
)

// Neighbor is an optional adjacent lyric line. The zero value is None, which
// is distinct from a present empty string.
type Neighbor struct {
	Text    string
	Present bool
}

// None is the absent neighbor.
var None = Neighbor{}

// Some returns a present neighbor holding text.
func Some(text string) Neighbor {
	return Neighbor{Text: text, Present: true}
}

// String renders the flattened encoding: the text, or "" when absent.
func (n Neighbor) String() string {
	if !n.Present {
		return ""
	}
	return n.Text
}

// NeighborFromString decodes the flattened encoding, mapping "" to None.
func NeighborFromString(value string) Neighbor {
	if value == "" {
		return None
	}
	return Some(value)
}

// MarshalJSON writes the persisted encoding, "" for absent.
func (n Neighbor) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

// UnmarshalJSON reads the persisted encoding, "" becomes None.
func (n *Neighbor) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*n = NeighborFromString(value)
	return nil
}

// Context is one lyric line with its adjacency inside a song. Two contexts
// are equal iff all three fields are equal, so Context works as a map key.
type Context struct {
	Previous Neighbor
	Line     string
	Next     Neighbor
}

// Entry pairs a context with the number of times it occurred in a song.
type Entry struct {
	Context
	Multiplicity int
}

// Graph is the deduplicated context mapping for one song. It remembers the
// order in which each distinct context was first produced.
type Graph struct {
	order  []Context
	counts map[Context]int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{counts: make(map[Context]int)}
}

// Add records one occurrence of c.
func (g *Graph) Add(c Context) {
	if _, ok := g.counts[c]; !ok {
		g.order = append(g.order, c)
	}
	g.counts[c]++
}

// Len returns the number of distinct contexts.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.order)
}

// Multiplicity returns how often c occurred, 0 when never.
func (g *Graph) Multiplicity(c Context) int {
	if g == nil {
		return 0
	}
	return g.counts[c]
}

// Total returns the sum of all multiplicities, which equals the number of
// lyric lines scanned.
func (g *Graph) Total() int {
	if g == nil {
		return 0
	}
	total := 0
	for _, count := range g.counts {
		total += count
	}
	return total
}

// Entries returns the distinct contexts in first-produced order.
func (g *Graph) Entries() []Entry {
	if g == nil {
		return nil
	}
	entries := make([]Entry, 0, len(g.order))
	for _, c := range g.order {
		entries = append(entries, Entry{Context: c, Multiplicity: g.counts[c]})
	}
	return entries
}

// IsSectionMarker reports whether a trimmed line is a bracketed section
// annotation such as "[Chorus]".
func IsSectionMarker(trimmed string) bool {
	return trimmed != "" && trimmed[0] == '['
}

// BuildContexts scans normalized song text line by line.
//
// Blank lines are invisible to the previous-line cursor, while the next line
// is only the physically following line: a blank or marker there yields None
// without looking further ahead. Section markers reset the cursor.
func BuildContexts(normalized string) *Graph {
	graph := NewGraph()
	lines := strings.Split(normalized, "\n")
	previous := None
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if IsSectionMarker(line) {
			previous = None
			continue
		}

		next := None
		if i+1 < len(lines) {
			following := strings.TrimSpace(lines[i+1])
			if following != "" && !IsSectionMarker(following) {
				next = Some(following)
			}
		}

		graph.Add(Context{Previous: previous, Line: line, Next: next})
		previous = Some(line)
	}
	return graph
}
