package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"lyricgraph/internal/catalog"
	"lyricgraph/internal/config"
	"lyricgraph/internal/harvest"
	"lyricgraph/internal/logging"
	"lyricgraph/internal/lyrics"
	"lyricgraph/internal/pipeline"
	"lyricgraph/internal/services"
	"lyricgraph/internal/services/genius"
	"lyricgraph/internal/songstore"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.configErr = fmt.Errorf("load .env: %w", err)
			return
		}
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// runContext stamps a fresh run id on the command context.
func (c *commandContext) runContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return services.WithRunID(ctx, uuid.NewString())
}

func (c *commandContext) openStore() (*songstore.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return songstore.Open(cfg)
}

func (c *commandContext) harvestNormalizer() (*lyrics.Normalizer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return lyrics.NewNormalizer(lyrics.NormalizerOptions{
		StripLeadingLine: cfg.Normalize.StripLeadingLine,
		Boilerplate:      cfg.Normalize.Boilerplate,
	})
}

// storedNormalizer re-normalizes lyrics that were already normalized at
// harvest, so it never strips the leading line a second time.
func (c *commandContext) storedNormalizer() (*lyrics.Normalizer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return lyrics.NewNormalizer(lyrics.NormalizerOptions{Boilerplate: cfg.Normalize.Boilerplate})
}

func (c *commandContext) newBuilder() (*pipeline.Builder, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	normalizer, err := c.storedNormalizer()
	if err != nil {
		return nil, err
	}
	return pipeline.NewBuilder(normalizer, cfg.Build.Workers, logger)
}

func (c *commandContext) newHarvester(store *songstore.Store, rules *catalog.RuleSet) (*harvest.Harvester, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireGenius(); err != nil {
		return nil, err
	}
	if err := cfg.RequireArtist(); err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	client, err := genius.New(cfg.Genius.AccessToken, cfg.Genius.BaseURL,
		genius.WithTimeout(cfg.RequestTimeout()),
		genius.WithRateLimit(cfg.Genius.RequestsPerSecond),
		genius.WithPerPage(cfg.Genius.PerPage),
	)
	if err != nil {
		return nil, err
	}
	normalizer, err := c.harvestNormalizer()
	if err != nil {
		return nil, err
	}
	return harvest.New(client, store, rules, normalizer, harvest.Options{
		ArtistID:         cfg.Genius.ArtistID,
		RequiredPrefixes: cfg.Catalog.RequiredPrefixes,
	}, logger)
}

// withRunner opens the store, takes the run lock, and hands fn a runner.
func (c *commandContext) withRunner(fn func(*pipeline.Runner, *songstore.Store, *catalog.RuleSet) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	unlock, err := acquireRunLock(cfg)
	if err != nil {
		return err
	}
	defer unlock()

	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	builder, err := c.newBuilder()
	if err != nil {
		return err
	}
	rules := catalog.NewRuleSet(cfg.Paths.AlbumRules, logger)
	return fn(pipeline.NewRunner(cfg, store, rules, builder, logger), store, rules)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
