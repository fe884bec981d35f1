package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains data, log, and output file locations.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
	SongsCSV   string `toml:"songs_csv"`
	LyricsCSV  string `toml:"lyrics_csv"`
	LyricsJSON string `toml:"lyrics_json"`
	AlbumRules string `toml:"album_rules"`
}

// Genius contains configuration for the Genius catalog API.
type Genius struct {
	AccessToken       string  `toml:"access_token"`
	BaseURL           string  `toml:"base_url"`
	WebURL            string  `toml:"web_url"`
	ArtistID          int64   `toml:"artist_id"`
	PerPage           int     `toml:"per_page"`
	RequestTimeout    int     `toml:"request_timeout"`
	HarvestTimeout    int     `toml:"harvest_timeout"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Normalize contains lyric text normalization switches.
type Normalize struct {
	// StripLeadingLine drops the first line of a lyric body when the provider
	// embeds a title or byline there.
	StripLeadingLine bool `toml:"strip_leading_line"`
	// Boilerplate lists extra regular expressions removed from lyric bodies.
	Boilerplate []string `toml:"boilerplate"`
}

// Catalog contains song acceptance rules applied while harvesting.
type Catalog struct {
	RequiredPrefixes []string `toml:"required_prefixes"`
}

// Build contains context-graph build settings.
type Build struct {
	Workers int `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for lyricgraph.
//
// Configuration sections by subsystem:
//   - Paths: data/log directories and output files
//   - Genius: catalog API credentials, paging, timeouts, pacing
//   - Normalize: lyric cleanup switches
//   - Catalog: harvest acceptance rules
//   - Build: per-song fan-out width
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Genius    Genius    `toml:"genius"`
	Normalize Normalize `toml:"normalize"`
	Catalog   Catalog   `toml:"catalog"`
	Build     Build     `toml:"build"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lyricgraph/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("lyricgraph.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories plus the parent
// directories of every output file.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir, c.Paths.LogDir}
	for _, file := range []string{c.Paths.SongsCSV, c.Paths.LyricsCSV, c.Paths.LyricsJSON} {
		if strings.TrimSpace(file) != "" {
			dirs = append(dirs, filepath.Dir(file))
		}
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StorePath returns the location of the harvest checkpoint database.
func (c *Config) StorePath() string {
	return filepath.Join(c.Paths.DataDir, "songs.db")
}

// LockPath returns the location of the run lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "lyricgraph.lock")
}

// RequestTimeout returns the per-request catalog timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Genius.RequestTimeout) * time.Second
}

// HarvestTimeout returns the overall harvest deadline.
func (c *Config) HarvestTimeout() time.Duration {
	return time.Duration(c.Genius.HarvestTimeout) * time.Second
}

// RequireGenius reports a configuration error when catalog credentials are missing.
// Only commands that talk to the catalog call it.
func (c *Config) RequireGenius() error {
	if strings.TrimSpace(c.Genius.AccessToken) != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/lyricgraph/config.toml"
	}
	return fmt.Errorf("genius.access_token is required. Set GENIUS_ACCESS_TOKEN env var or edit %s (create with 'lyricgraph config init')", defaultPath)
}

// RequireArtist reports a configuration error when no artist is configured.
func (c *Config) RequireArtist() error {
	if c.Genius.ArtistID > 0 {
		return nil
	}
	return errors.New("genius.artist_id is required to harvest")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
