package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"lyricgraph/internal/catalog"
	"lyricgraph/internal/harvest"
	"lyricgraph/internal/pipeline"
	"lyricgraph/internal/services"
	"lyricgraph/internal/songstore"
)

func newHarvestCommand(ctx *commandContext) *cobra.Command {
	var appendMode bool

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Fetch the artist's songs from Genius and write the songs table",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx := services.WithStage(ctx.runContext(cmd), "harvest")
			return ctx.withRunner(func(runner *pipeline.Runner, store *songstore.Store, rules *catalog.RuleSet) error {
				h, err := ctx.newHarvester(store, rules)
				if err != nil {
					return err
				}
				result, err := runner.Harvest(runCtx, h, appendMode)
				if err != nil {
					return err
				}
				written, err := runner.ExportSongs(runCtx, appendMode)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printHarvest(out, result)
				fmt.Fprintf(out, "Songs table: %d songs\n", written)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&appendMode, "append", false, "Keep stored songs and skip titles already harvested")
	return cmd
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the lyrics table and lyrics JSON from the songs table",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx := services.WithStage(ctx.runContext(cmd), "build")
			return ctx.withRunner(func(runner *pipeline.Runner, _ *songstore.Store, _ *catalog.RuleSet) error {
				output, err := runner.Build(runCtx)
				if err != nil {
					return err
				}
				printBuild(cmd.OutOrStdout(), output)
				return nil
			})
		},
	}
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var appendMode bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Harvest, export the songs table, and build the lyric outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx := ctx.runContext(cmd)
			return ctx.withRunner(func(runner *pipeline.Runner, store *songstore.Store, rules *catalog.RuleSet) error {
				h, err := ctx.newHarvester(store, rules)
				if err != nil {
					return err
				}
				summary, err := runner.Run(runCtx, h, appendMode)
				if summary != nil {
					out := cmd.OutOrStdout()
					if summary.Harvest != nil {
						printHarvest(out, summary.Harvest)
						fmt.Fprintf(out, "Songs table: %d songs\n", summary.SongsWritten)
					}
					if summary.Build != nil {
						printBuild(out, summary.Build)
					}
				}
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&appendMode, "append", false, "Keep stored songs and skip titles already harvested")
	return cmd
}

func printHarvest(out io.Writer, result *harvest.Result) {
	rows := [][]string{
		{"listed", strconv.Itoa(result.Listed)},
		{"accepted", strconv.Itoa(len(result.Accepted))},
	}
	reasons := make([]string, 0, len(result.Skipped))
	for reason := range result.Skipped {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		rows = append(rows, []string{"skipped: " + reason, strconv.Itoa(result.Skipped[reason])})
	}
	fmt.Fprintln(out, renderTable([]string{"Harvest", "Songs"}, rows, []columnAlignment{alignLeft, alignRight}, shouldColorize(out)))
	if result.Partial {
		fmt.Fprintln(out, "Harvest deadline reached; results are partial")
	}
}

func printBuild(out io.Writer, output *pipeline.Output) {
	rows := [][]string{
		{"songs", strconv.Itoa(output.Songs)},
		{"duplicate titles", strconv.Itoa(output.Duplicates)},
		{"rows", strconv.Itoa(len(output.Rows))},
		{"albums", strconv.Itoa(len(output.Hierarchy.Albums()))},
	}
	fmt.Fprintln(out, renderTable([]string{"Build", "Count"}, rows, []columnAlignment{alignLeft, alignRight}, shouldColorize(out)))
}
