package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGenius()
	c.normalizeText()
	c.normalizeCatalog()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.SongsCSV, err = c.dataFile(c.Paths.SongsCSV, defaultSongsCSV); err != nil {
		return fmt.Errorf("paths.songs_csv: %w", err)
	}
	if c.Paths.LyricsCSV, err = c.dataFile(c.Paths.LyricsCSV, defaultLyricsCSV); err != nil {
		return fmt.Errorf("paths.lyrics_csv: %w", err)
	}
	if c.Paths.LyricsJSON, err = c.dataFile(c.Paths.LyricsJSON, defaultLyricsJSON); err != nil {
		return fmt.Errorf("paths.lyrics_json: %w", err)
	}
	if strings.TrimSpace(c.Paths.AlbumRules) != "" {
		if c.Paths.AlbumRules, err = expandPath(strings.TrimSpace(c.Paths.AlbumRules)); err != nil {
			return fmt.Errorf("paths.album_rules: %w", err)
		}
	}
	return nil
}

// dataFile resolves bare file names against the data directory.
func (c *Config) dataFile(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	if !strings.HasPrefix(value, "~") && !filepath.IsAbs(value) {
		value = filepath.Join(c.Paths.DataDir, value)
	}
	return expandPath(value)
}

func (c *Config) normalizeGenius() {
	c.Genius.AccessToken = strings.TrimSpace(c.Genius.AccessToken)
	if c.Genius.AccessToken == "" {
		if value, ok := os.LookupEnv("GENIUS_ACCESS_TOKEN"); ok {
			c.Genius.AccessToken = strings.TrimSpace(value)
		}
	}
	c.Genius.BaseURL = strings.TrimRight(strings.TrimSpace(c.Genius.BaseURL), "/")
	if c.Genius.BaseURL == "" {
		c.Genius.BaseURL = defaultGeniusBaseURL
	}
	c.Genius.WebURL = strings.TrimRight(strings.TrimSpace(c.Genius.WebURL), "/")
	if c.Genius.WebURL == "" {
		c.Genius.WebURL = defaultGeniusWebURL
	}
	if c.Genius.PerPage == 0 {
		c.Genius.PerPage = defaultGeniusPerPage
	}
}

func (c *Config) normalizeText() {
	phrases := make([]string, 0, len(c.Normalize.Boilerplate))
	for _, phrase := range c.Normalize.Boilerplate {
		if strings.TrimSpace(phrase) == "" {
			continue
		}
		phrases = append(phrases, phrase)
	}
	c.Normalize.Boilerplate = phrases
}

func (c *Config) normalizeCatalog() {
	prefixes := make([]string, 0, len(c.Catalog.RequiredPrefixes))
	seen := make(map[string]struct{}, len(c.Catalog.RequiredPrefixes))
	for _, prefix := range c.Catalog.RequiredPrefixes {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		if _, exists := seen[prefix]; exists {
			continue
		}
		seen[prefix] = struct{}{}
		prefixes = append(prefixes, prefix)
	}
	c.Catalog.RequiredPrefixes = prefixes
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
