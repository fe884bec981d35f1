package testsupport

import (
	"path/filepath"
	"testing"

	"lyricgraph/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Genius.AccessToken = "test"
	cfgVal.Genius.ArtistID = 1177
	cfgVal.Genius.RequestsPerSecond = 1000
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.SongsCSV = filepath.Join(base, "data", "songs.csv")
	cfgVal.Paths.LyricsCSV = filepath.Join(base, "data", "lyrics.csv")
	cfgVal.Paths.LyricsJSON = filepath.Join(base, "data", "lyrics.json")
	cfgVal.Paths.AlbumRules = filepath.Join(base, "albums.json")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithGeniusURL points the catalog client at a test server.
func WithGeniusURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Genius.BaseURL = url
		b.cfg.Genius.WebURL = url
	}
}

// WithAccessToken sets the Genius access token on the test config.
func WithAccessToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Genius.AccessToken = token
	}
}

// WithWorkers overrides the build fan-out width.
func WithWorkers(workers int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Build.Workers = workers
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
