package catalog

import (
	"strings"
	"time"
)

// Song is one harvested catalog record. Title is the natural key and Album is
// "" for uncategorized songs.
type Song struct {
	Title     string
	Album     string
	Lyrics    string
	GeniusID  int64
	URL       string
	CreatedAt time.Time
}

// titleEdges are trimmed from both ends of a title. Zero-width spaces inside
// a title are left alone.
const titleEdges = " \t\r\n\u200b"

// CleanTitle strips whitespace and zero-width spaces at the edges of title.
func CleanTitle(title string) string {
	return strings.Trim(title, titleEdges)
}

// HasSectionPrefix reports whether lyrics start with one of prefixes, such as
// "[Verse". An empty prefix list accepts everything.
func HasSectionPrefix(lyrics string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(lyrics, prefix) {
			return true
		}
	}
	return false
}
