package config

const (
	defaultDataDir           = "~/.local/share/lyricgraph"
	defaultLogDir            = "~/.local/share/lyricgraph/logs"
	defaultSongsCSV          = "songs.csv"
	defaultLyricsCSV         = "lyrics.csv"
	defaultLyricsJSON        = "lyrics.json"
	defaultAlbumRules        = "~/.config/lyricgraph/albums.json"
	defaultGeniusBaseURL     = "https://api.genius.com"
	defaultGeniusWebURL      = "https://genius.com"
	defaultGeniusPerPage     = 50
	defaultRequestTimeout    = 10
	defaultHarvestTimeout    = 3600
	defaultRequestsPerSecond = 4
	defaultBuildWorkers      = 4
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

var defaultRequiredPrefixes = []string{"[Intro", "[Verse", "[Chorus"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			SongsCSV:   defaultSongsCSV,
			LyricsCSV:  defaultLyricsCSV,
			LyricsJSON: defaultLyricsJSON,
			AlbumRules: defaultAlbumRules,
		},
		Genius: Genius{
			BaseURL:           defaultGeniusBaseURL,
			WebURL:            defaultGeniusWebURL,
			PerPage:           defaultGeniusPerPage,
			RequestTimeout:    defaultRequestTimeout,
			HarvestTimeout:    defaultHarvestTimeout,
			RequestsPerSecond: defaultRequestsPerSecond,
		},
		Catalog: Catalog{
			RequiredPrefixes: append([]string(nil), defaultRequiredPrefixes...),
		},
		Build: Build{
			Workers: defaultBuildWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
