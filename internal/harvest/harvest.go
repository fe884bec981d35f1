package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lyricgraph/internal/catalog"
	"lyricgraph/internal/logging"
	"lyricgraph/internal/lyrics"
	"lyricgraph/internal/services"
	"lyricgraph/internal/services/genius"
)

// Skip reasons reported in Result.Skipped.
const (
	SkipOtherArtist    = "other_artist"
	SkipExisting       = "existing"
	SkipIncomplete     = "lyrics_incomplete"
	SkipNoAlbum        = "no_album"
	SkipNoSectionStart = "no_section_marker"
	SkipUnavailable    = "unavailable"
)

// Checkpoint persists accepted songs as they are harvested.
type Checkpoint interface {
	Put(ctx context.Context, song catalog.Song) error
}

// Options configures a Harvester.
type Options struct {
	ArtistID         int64
	RequiredPrefixes []string
}

// Result summarizes one harvest.
type Result struct {
	Listed   int
	Accepted []catalog.Song
	Skipped  map[string]int
	// Partial is set when a timeout cut the harvest short.
	Partial bool
}

// Harvester pulls songs from the catalog into a checkpoint.
type Harvester struct {
	catalog    genius.Catalog
	checkpoint Checkpoint
	rules      *catalog.RuleSet
	normalizer *lyrics.Normalizer
	opts       Options
	logger     *slog.Logger
}

// New constructs a Harvester.
func New(source genius.Catalog, checkpoint Checkpoint, rules *catalog.RuleSet, normalizer *lyrics.Normalizer, opts Options, logger *slog.Logger) (*Harvester, error) {
	if source == nil {
		return nil, errors.New("harvest: catalog client required")
	}
	if checkpoint == nil {
		return nil, errors.New("harvest: checkpoint required")
	}
	if opts.ArtistID <= 0 {
		return nil, errors.New("harvest: artist id must be positive")
	}
	if normalizer == nil {
		var err error
		if normalizer, err = lyrics.NewNormalizer(lyrics.NormalizerOptions{}); err != nil {
			return nil, err
		}
	}
	return &Harvester{
		catalog:    source,
		checkpoint: checkpoint,
		rules:      rules,
		normalizer: normalizer,
		opts:       opts,
		logger:     logging.NewComponentLogger(logger, "harvest"),
	}, nil
}

// Harvest lists the artist's songs and checkpoints the accepted ones. Titles
// in seen are skipped and accepted titles are added to it. On a timeout the
// songs accepted so far are returned with Partial set and a nil error.
func (h *Harvester) Harvest(ctx context.Context, seen *lyrics.TitleSet) (*Result, error) {
	ctx = services.WithStage(ctx, "harvest")
	logger := logging.WithContext(ctx, h.logger)
	if seen == nil {
		seen = lyrics.NewTitleSet()
	}
	rules, err := h.rules.Current()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "harvest", "load album rules", "", err)
	}

	result := &Result{Skipped: make(map[string]int)}
	listed, err := h.catalog.ArtistSongs(ctx, h.opts.ArtistID)
	if err != nil {
		if services.IsTimeout(err) {
			h.warnPartial(logger, result, err)
			return result, nil
		}
		return nil, err
	}
	result.Listed = len(listed)
	logger.Info("listed artist songs",
		logging.Int64("artist_id", h.opts.ArtistID),
		logging.Int("count", len(listed)),
	)

	for _, entry := range listed {
		if err := ctx.Err(); err != nil {
			h.warnPartial(logger, result, err)
			return result, nil
		}
		song, reason, err := h.harvestOne(ctx, entry, rules, seen)
		if err != nil {
			if services.IsTimeout(err) {
				h.warnPartial(logger, result, err)
				return result, nil
			}
			return result, err
		}
		if reason != "" {
			result.Skipped[reason]++
			continue
		}
		result.Accepted = append(result.Accepted, *song)
	}

	logger.Info("harvest complete",
		logging.Int("listed", result.Listed),
		logging.Int("accepted", len(result.Accepted)),
		logging.Int("skipped", result.skippedTotal()),
	)
	return result, nil
}

func (h *Harvester) harvestOne(ctx context.Context, entry genius.Song, rules catalog.Rules, seen *lyrics.TitleSet) (*catalog.Song, string, error) {
	title := catalog.CleanTitle(entry.Title)
	included := rules.Included(title)
	ctx = services.WithSong(ctx, title)
	logger := logging.WithContext(ctx, h.logger)

	if entry.PrimaryArtist.ID != h.opts.ArtistID && !included {
		return nil, SkipOtherArtist, nil
	}
	if seen.Has(title) {
		logger.Debug("song already harvested")
		return nil, SkipExisting, nil
	}

	details, err := h.catalog.Song(ctx, entry.APIPath)
	if err != nil {
		return h.unavailable(logger, "song details", err)
	}
	if !details.LyricsComplete() {
		logger.Debug("lyrics not complete", logging.String("lyrics_state", details.LyricsState))
		return nil, SkipIncomplete, nil
	}
	album := rules.Classify(details.AlbumName())
	if album == "" && !included {
		logger.Debug("song has no album")
		return nil, SkipNoAlbum, nil
	}

	raw, err := h.catalog.Lyrics(ctx, details.URL)
	if err != nil {
		return h.unavailable(logger, "lyrics", err)
	}
	body := raw
	if h.normalizer.StripsLeadingLine() {
		body = lyrics.StripLeadingLine(body)
	}
	if !catalog.HasSectionPrefix(body, h.opts.RequiredPrefixes) {
		logger.Debug("lyrics do not open with a section marker")
		return nil, SkipNoSectionStart, nil
	}

	song := catalog.Song{
		Title:    title,
		Album:    album,
		Lyrics:   h.normalizer.Normalize(raw),
		GeniusID: details.ID,
		URL:      details.URL,
	}
	// The song is fetched; keep it even if the harvest deadline passes now.
	if err := h.checkpoint.Put(context.WithoutCancel(ctx), song); err != nil {
		return nil, "", fmt.Errorf("checkpoint %q: %w", title, err)
	}
	seen.Add(title)
	logger.Info("song harvested", logging.String(logging.FieldAlbum, album))
	return &song, "", nil
}

func (h *Harvester) unavailable(logger *slog.Logger, what string, err error) (*catalog.Song, string, error) {
	if errors.Is(err, services.ErrNotFound) {
		logging.WarnWithContext(logger, "song skipped", "song_unavailable",
			logging.String("missing", what),
			logging.Error(err),
			logging.String(logging.FieldImpact, "song left out of this harvest"),
		)
		return nil, SkipUnavailable, nil
	}
	return nil, "", err
}

func (h *Harvester) warnPartial(logger *slog.Logger, result *Result, err error) {
	result.Partial = true
	logging.WarnWithContext(logger, "harvest stopped early, keeping songs gathered so far", "harvest_partial",
		logging.Error(err),
		logging.Int("accepted", len(result.Accepted)),
		logging.String(logging.FieldErrorHint, "rerun with --append to resume"),
		logging.String(logging.FieldImpact, "catalog only partially harvested"),
	)
}

func (r *Result) skippedTotal() int {
	total := 0
	for _, count := range r.Skipped {
		total += count
	}
	return total
}
