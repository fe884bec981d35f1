package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"lyricgraph/internal/fileutil"
	"lyricgraph/internal/lyrics"
)

// LyricsHeader is the header row of the lyrics table.
var LyricsHeader = []string{"Song", "Album", "Lyric", "Previous Lyric", "Next Lyric", "Multiplicity"}

// WriteLyricRows replaces the lyrics table at path.
func WriteLyricRows(path string, rows []lyrics.Row) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Song,
			row.Album,
			row.Line,
			row.Previous,
			row.Next,
			strconv.Itoa(row.Multiplicity),
		})
	}
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return writeTable(w, LyricsHeader, records)
	})
}

// ReadLyricRows loads the lyrics table, failing on the first row with an
// empty song or lyric or a multiplicity that is not a positive integer.
func ReadLyricRows(path string) ([]lyrics.Row, error) {
	var rows []lyrics.Row
	err := readTable(path, LyricsHeader, func(line int, record []string) error {
		if record[0] == "" {
			return malformed(path, line, "Song", "empty value")
		}
		if record[2] == "" {
			return malformed(path, line, "Lyric", "empty value")
		}
		multiplicity, err := strconv.Atoi(record[5])
		if err != nil {
			return malformed(path, line, "Multiplicity", fmt.Sprintf("%q is not an integer", record[5]))
		}
		if multiplicity < 1 {
			return malformed(path, line, "Multiplicity", fmt.Sprintf("%d is below 1", multiplicity))
		}
		rows = append(rows, lyrics.Row{
			Song:         record[0],
			Album:        record[1],
			Line:         record[2],
			Previous:     record[3],
			Next:         record[4],
			Multiplicity: multiplicity,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// WriteHierarchy writes the lyrics JSON document with four-space indentation.
func WriteHierarchy(path string, h *lyrics.Hierarchy) error {
	data, err := json.MarshalIndent(h, "", "    ")
	if err != nil {
		return fmt.Errorf("encode lyrics json: %w", err)
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

// ReadHierarchy loads a lyrics JSON document.
func ReadHierarchy(path string) (*lyrics.Hierarchy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	h := lyrics.NewHierarchy()
	if err := json.Unmarshal(data, h); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return h, nil
}
