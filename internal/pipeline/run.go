package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"lyricgraph/internal/catalog"
	"lyricgraph/internal/config"
	"lyricgraph/internal/export"
	"lyricgraph/internal/harvest"
	"lyricgraph/internal/logging"
	"lyricgraph/internal/lyrics"
	"lyricgraph/internal/services"
	"lyricgraph/internal/songstore"
)

// Runner executes the persisted stages against the configured files.
type Runner struct {
	cfg     *config.Config
	store   *songstore.Store
	rules   *catalog.RuleSet
	builder *Builder
	logger  *slog.Logger
}

// Summary reports what a run produced.
type Summary struct {
	Harvest      *harvest.Result
	SongsWritten int
	Build        *Output
}

// NewRunner constructs a Runner.
func NewRunner(cfg *config.Config, store *songstore.Store, rules *catalog.RuleSet, builder *Builder, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		store:   store,
		rules:   rules,
		builder: builder,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Harvest runs h under the configured harvest deadline. Without appendMode
// the checkpoint store is cleared first; with it, titles already stored or
// already present in the songs table are skipped.
func (r *Runner) Harvest(ctx context.Context, h *harvest.Harvester, appendMode bool) (*harvest.Result, error) {
	seen := lyrics.NewTitleSet()
	if appendMode {
		titles, err := r.store.Titles(ctx)
		if err != nil {
			return nil, err
		}
		for _, title := range titles {
			seen.Add(title)
		}
		existing, err := export.SongsTitles(r.cfg.Paths.SongsCSV)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		for _, title := range existing {
			seen.Add(title)
		}
	} else if err := r.store.Clear(ctx); err != nil {
		return nil, err
	}

	harvestCtx, cancel := context.WithTimeout(ctx, r.cfg.HarvestTimeout())
	defer cancel()
	return h.Harvest(harvestCtx, seen)
}

// ExportSongs writes the songs table from the checkpoint store, applying the
// album allow-list. With appendMode the rows of the existing table are kept
// first.
func (r *Runner) ExportSongs(ctx context.Context, appendMode bool) (int, error) {
	ctx = services.WithStage(ctx, "export")
	rules, err := r.rules.Current()
	if err != nil {
		return 0, services.Wrap(services.ErrConfiguration, "export", "load album rules", "", err)
	}
	stored, err := r.store.List(ctx)
	if err != nil {
		return 0, err
	}
	var existing []catalog.Song
	if appendMode {
		if existing, err = r.existingSongs(); err != nil {
			return 0, err
		}
	}
	songs := export.SelectSongs(existing, stored, rules)
	if err := export.WriteSongs(r.cfg.Paths.SongsCSV, songs); err != nil {
		return 0, fmt.Errorf("write songs table: %w", err)
	}
	logging.WithContext(ctx, r.logger).Info("songs table written",
		logging.String("path", r.cfg.Paths.SongsCSV),
		logging.Int("songs", len(songs)),
		logging.Int("existing", len(existing)),
	)
	return len(songs), nil
}

// Build reads the songs table, writes the lyrics table, then regroups the
// rows read back from that table into the lyrics JSON document.
func (r *Runner) Build(ctx context.Context) (*Output, error) {
	songs, err := export.ReadSongs(r.cfg.Paths.SongsCSV)
	if err != nil {
		return nil, err
	}
	out, err := r.builder.Build(ctx, songs, nil)
	if err != nil {
		return nil, err
	}
	if err := export.WriteLyricRows(r.cfg.Paths.LyricsCSV, out.Rows); err != nil {
		return nil, fmt.Errorf("write lyrics table: %w", err)
	}
	rows, err := export.ReadLyricRows(r.cfg.Paths.LyricsCSV)
	if err != nil {
		return nil, err
	}
	out.Hierarchy = lyrics.Regroup(rows)
	if err := export.WriteHierarchy(r.cfg.Paths.LyricsJSON, out.Hierarchy); err != nil {
		return nil, fmt.Errorf("write lyrics json: %w", err)
	}
	logging.WithContext(services.WithStage(ctx, "build"), r.logger).Info("outputs written",
		logging.String("lyrics_csv", r.cfg.Paths.LyricsCSV),
		logging.String("lyrics_json", r.cfg.Paths.LyricsJSON),
	)
	return out, nil
}

// Run harvests, exports the songs table, and builds both lyric outputs.
func (r *Runner) Run(ctx context.Context, h *harvest.Harvester, appendMode bool) (*Summary, error) {
	summary := &Summary{}
	result, err := r.Harvest(ctx, h, appendMode)
	if err != nil {
		return summary, err
	}
	summary.Harvest = result
	if summary.SongsWritten, err = r.ExportSongs(ctx, appendMode); err != nil {
		return summary, err
	}
	if summary.Build, err = r.Build(ctx); err != nil {
		return summary, err
	}
	return summary, nil
}

// existingSongs reads the current songs table, treating a missing file as
// empty.
func (r *Runner) existingSongs() ([]catalog.Song, error) {
	songs, err := export.ReadSongs(r.cfg.Paths.SongsCSV)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return songs, err
}
