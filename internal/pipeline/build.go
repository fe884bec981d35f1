package pipeline

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"lyricgraph/internal/catalog"
	"lyricgraph/internal/logging"
	"lyricgraph/internal/lyrics"
	"lyricgraph/internal/services"
)

// Builder builds context graphs for a catalog of songs.
type Builder struct {
	normalizer *lyrics.Normalizer
	workers    int
	logger     *slog.Logger
}

// Output is the result of a build.
type Output struct {
	Rows      []lyrics.Row
	Hierarchy *lyrics.Hierarchy
	// Songs counts the songs that contributed rows.
	Songs int
	// Duplicates counts songs dropped because their title was already seen.
	Duplicates int
}

// NewBuilder returns a Builder. A nil normalizer uses the default options and
// workers below 1 means a single worker.
func NewBuilder(normalizer *lyrics.Normalizer, workers int, logger *slog.Logger) (*Builder, error) {
	if normalizer == nil {
		var err error
		if normalizer, err = lyrics.NewNormalizer(lyrics.NormalizerOptions{}); err != nil {
			return nil, err
		}
	}
	if workers < 1 {
		workers = 1
	}
	return &Builder{
		normalizer: normalizer,
		workers:    workers,
		logger:     logging.NewComponentLogger(logger, "build"),
	}, nil
}

// Graphs normalizes and scans every song in parallel. The result is indexed
// like songs.
func (b *Builder) Graphs(ctx context.Context, songs []catalog.Song) ([]lyrics.SongGraph, error) {
	graphs := make([]lyrics.SongGraph, len(songs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, song := range songs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			graphs[i] = lyrics.SongGraph{
				Title: song.Title,
				Album: song.Album,
				Graph: lyrics.BuildContexts(b.normalizer.Normalize(song.Lyrics)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return graphs, nil
}

// Build produces rows and the hierarchy for songs. Titles in seen, and any
// title repeated later in songs, are dropped; seen may be nil.
func (b *Builder) Build(ctx context.Context, songs []catalog.Song, seen *lyrics.TitleSet) (*Output, error) {
	ctx = services.WithStage(ctx, "build")
	logger := logging.WithContext(ctx, b.logger)

	graphs, err := b.Graphs(ctx, songs)
	if err != nil {
		return nil, err
	}
	if seen == nil {
		seen = lyrics.NewTitleSet()
	}
	before := seen.Len()
	rows := lyrics.Flatten(graphs, seen)
	emitted := seen.Len() - before

	out := &Output{
		Rows:       rows,
		Hierarchy:  lyrics.Regroup(rows),
		Songs:      emitted,
		Duplicates: len(songs) - emitted,
	}
	if out.Duplicates > 0 {
		logging.WarnWithContext(logger, "duplicate song titles dropped", "duplicate_titles",
			logging.Int("count", out.Duplicates),
			logging.String(logging.FieldImpact, "only the first song with each title is kept"),
			logging.String(logging.FieldErrorHint, "rename or remove the duplicate rows in the songs table"),
		)
	}
	logger.Info("context graph built",
		logging.Int("songs", out.Songs),
		logging.Int("contexts", len(rows)),
		logging.Int("albums", len(out.Hierarchy.Albums())),
	)
	return out, nil
}
