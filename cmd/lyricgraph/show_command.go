package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lyricgraph/internal/lyrics"
	"lyricgraph/internal/services"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <title>",
		Short: "Show the line contexts of a stored song",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			song, err := store.Get(cmd.Context(), args[0])
			if errors.Is(err, services.ErrNotFound) {
				return fmt.Errorf("no stored song titled %q", args[0])
			}
			if err != nil {
				return err
			}
			normalizer, err := ctx.storedNormalizer()
			if err != nil {
				return err
			}
			graph := lyrics.BuildContexts(normalizer.Normalize(song.Lyrics))

			entries := graph.Entries()
			if jsonOutput {
				out := make([]lyrics.Lyric, 0, len(entries))
				for _, entry := range entries {
					out = append(out, lyrics.Lyric{
						Line:         entry.Line,
						Previous:     entry.Previous,
						Next:         entry.Next,
						Multiplicity: entry.Multiplicity,
					})
				}
				return writeJSON(cmd, out)
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					displayNeighbor(entry.Previous),
					entry.Line,
					displayNeighbor(entry.Next),
					strconv.Itoa(entry.Multiplicity),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", song.Title, song.Album)
			fmt.Fprintln(out, renderTable(
				[]string{"Previous", "Lyric", "Next", "Count"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
				shouldColorize(out),
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func displayNeighbor(n lyrics.Neighbor) string {
	if !n.Present {
		return "-"
	}
	return n.Text
}
