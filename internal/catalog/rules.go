package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"lyricgraph/internal/logging"
)

//go:embed default_rules.json
var defaultRulesJSON []byte

// Rules is the parsed form of an album rules file.
type Rules struct {
	// AllowedAlbums limits which albums are exported. Empty allows all.
	AllowedAlbums []string `json:"allowed_albums"`
	// Remaps is keyed by the provider album name before trimming, so a
	// trailing space can be told apart from the trimmed name.
	Remaps map[string]string `json:"remaps"`
	// IncludeTitles are harvested even when the artist is not the primary
	// artist or the song has no album.
	IncludeTitles []string `json:"include_titles"`
}

// DefaultRules returns the built-in rules.
func DefaultRules() Rules {
	rules, err := ParseRules(defaultRulesJSON)
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid embedded rules: %v", err))
	}
	return rules
}

// ParseRules decodes a rules document. A UTF-8 BOM and blank input are
// tolerated; blank input yields empty rules.
func ParseRules(data []byte) (Rules, error) {
	data = trimUTF8BOM(data)
	if len(strings.TrimSpace(string(data))) == 0 {
		return Rules{}, nil
	}
	var rules Rules
	if err := json.Unmarshal(data, &rules); err != nil {
		return Rules{}, err
	}
	rules.normalize()
	return rules, nil
}

func (r *Rules) normalize() {
	if r.Remaps == nil {
		r.Remaps = map[string]string{}
	}
	titles := make([]string, 0, len(r.IncludeTitles))
	for _, title := range r.IncludeTitles {
		if cleaned := CleanTitle(title); cleaned != "" {
			titles = append(titles, cleaned)
		}
	}
	r.IncludeTitles = titles
}

// Classify resolves a provider album name. A remap keyed by the raw name wins;
// otherwise the name is trimmed. A missing album classifies as "".
func (r Rules) Classify(rawAlbum *string) string {
	if rawAlbum == nil {
		return ""
	}
	if mapped, ok := r.Remaps[*rawAlbum]; ok {
		return mapped
	}
	return strings.TrimSpace(*rawAlbum)
}

// Allowed reports whether album may be exported.
func (r Rules) Allowed(album string) bool {
	if len(r.AllowedAlbums) == 0 {
		return true
	}
	for _, candidate := range r.AllowedAlbums {
		if candidate == album {
			return true
		}
	}
	return false
}

// Included reports whether title is explicitly included.
func (r Rules) Included(title string) bool {
	title = CleanTitle(title)
	for _, candidate := range r.IncludeTitles {
		if candidate == title {
			return true
		}
	}
	return false
}

// RuleSet loads Rules from a JSON file and reloads them when the file changes.
// A RuleSet without a path, or whose file does not exist, serves DefaultRules.
type RuleSet struct {
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
	loaded time.Time
	rules  Rules
}

// NewRuleSet constructs a rule set backed by path.
func NewRuleSet(path string, logger *slog.Logger) *RuleSet {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &RuleSet{
		path:   strings.TrimSpace(path),
		logger: logger,
		rules:  DefaultRules(),
	}
}

// Current returns the latest rules, re-reading the file if its modification
// time moved.
func (s *RuleSet) Current() (Rules, error) {
	if s == nil {
		return DefaultRules(), nil
	}
	if err := s.ensureLoaded(); err != nil {
		return Rules{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules, nil
}

func (s *RuleSet) ensureLoaded() error {
	if s.path == "" {
		return nil
	}
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	s.mu.RLock()
	alreadyLoaded := !s.loaded.IsZero() && s.loaded.Equal(info.ModTime())
	s.mu.RUnlock()
	if alreadyLoaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	rules, err := ParseRules(data)
	if err != nil {
		return fmt.Errorf("parse album rules %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.rules = rules
	s.loaded = info.ModTime()
	s.mu.Unlock()
	s.logger.Info("loaded album rules",
		logging.String("path", s.path),
		logging.Int("allowed_albums", len(rules.AllowedAlbums)),
		logging.Int("remaps", len(rules.Remaps)),
		logging.Int("include_titles", len(rules.IncludeTitles)),
	)
	return nil
}

// WriteDefault writes the built-in rules to path, failing if it exists.
func WriteDefault(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(defaultRulesJSON); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func trimUTF8BOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
