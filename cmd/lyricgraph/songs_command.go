package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type songSummary struct {
	Title    string `json:"title"`
	Album    string `json:"album"`
	Lines    int    `json:"lines"`
	GeniusID int64  `json:"genius_id,omitempty"`
	URL      string `json:"url,omitempty"`
}

func newSongsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "songs",
		Short: "List harvested songs in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			songs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			summaries := make([]songSummary, 0, len(songs))
			for _, song := range songs {
				summaries = append(summaries, songSummary{
					Title:    song.Title,
					Album:    song.Album,
					Lines:    countLines(song.Lyrics),
					GeniusID: song.GeniusID,
					URL:      song.URL,
				})
			}
			if jsonOutput {
				return writeJSON(cmd, summaries)
			}

			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No songs stored")
				return nil
			}
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				rows = append(rows, []string{s.Title, s.Album, strconv.Itoa(s.Lines)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Title", "Album", "Lines"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
				shouldColorize(out),
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// countLines counts non-blank lines.
func countLines(body string) int {
	n := 0
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
