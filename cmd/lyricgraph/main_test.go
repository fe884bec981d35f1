package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lyricgraph/internal/export"
	"lyricgraph/internal/lyrics"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	dataDir    string
	rulesPath  string
}

func setupCLITestEnv(t *testing.T, geniusURL string) *cliTestEnv {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", base)
	t.Setenv("GENIUS_ACCESS_TOKEN", "")

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		dataDir:    filepath.Join(base, "data"),
		rulesPath:  filepath.Join(base, "albums.json"),
	}
	if geniusURL == "" {
		geniusURL = "http://127.0.0.1:1"
	}
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
album_rules = %q

[genius]
access_token = "token"
base_url = %q
web_url = %q
artist_id = 1177
requests_per_second = 1000

[catalog]
required_prefixes = ["[Intro", "[Verse", "[Chorus"]

[build]
workers = 2

[logging]
level = "error"
`, env.dataDir, filepath.Join(base, "logs"), env.rulesPath, geniusURL, geniusURL)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	rules := `{"allowed_albums": ["Fearless"], "remaps": {"Taylor Swift ": "Uncategorized"}}`
	if err := os.WriteFile(env.rulesPath, []byte(rules), 0o644); err != nil {
		t.Fatalf("write album rules: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func newFakeGenius(t *testing.T) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/artists/1177/songs":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"response":{"songs":[
				{"id":1,"title":"Love Story","api_path":"/songs/1","primary_artist":{"id":1177}},
				{"id":2,"title":"Someone Else","api_path":"/songs/2","primary_artist":{"id":9}},
				{"id":3,"title":"Loose Demo","api_path":"/songs/3","primary_artist":{"id":1177}}
			],"next_page":null}}`))
		case "/songs/1":
			fmt.Fprintf(w, `{"response":{"song":{"id":1,"title":"Love Story","lyrics_state":"complete","url":"%s/love-story","album":{"id":5,"name":"Fearless"}}}}`, server.URL)
		case "/songs/3":
			fmt.Fprintf(w, `{"response":{"song":{"id":3,"title":"Loose Demo","lyrics_state":"complete","url":"%s/loose-demo","album":null}}}`, server.URL)
		case "/love-story":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body><div data-lyrics-container="true">[Chorus]<br>We were both young<br>We were both young<br><br>[Verse 1]<br>Romeo take me</div></body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRootHelpWithoutSubcommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	stdout, _, err := runCLI(t, nil, "")
	if err != nil {
		t.Fatalf("root command failed: %v", err)
	}
	for _, name := range []string{"harvest", "build", "run", "show", "songs", "config"} {
		if !strings.Contains(stdout, name) {
			t.Fatalf("help output missing %q:\n%s", name, stdout)
		}
	}
}

func TestConfigInitWritesSampleAndRules(t *testing.T) {
	base := t.TempDir()
	t.Setenv("HOME", base)
	target := filepath.Join(base, "conf", "config.toml")

	stdout, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	rulesPath := filepath.Join(base, ".config", "lyricgraph", "albums.json")
	if _, err := os.Stat(rulesPath); err != nil {
		t.Fatalf("expected album rules file: %v", err)
	}
	if !strings.Contains(stdout, "Wrote default album rules") {
		t.Fatalf("unexpected output: %s", stdout)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
	stdout, _, err = runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, "")
	if err != nil {
		t.Fatalf("config init --overwrite failed: %v", err)
	}
	if !strings.Contains(stdout, "Keeping existing album rules") {
		t.Fatalf("expected existing rules to be kept: %s", stdout)
	}
}

func TestConfigValidate(t *testing.T) {
	env := setupCLITestEnv(t, "")
	stdout, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate failed: %v", err)
	}
	if !strings.Contains(stdout, "Configuration valid") || !strings.Contains(stdout, "1 allowed") {
		t.Fatalf("unexpected output: %s", stdout)
	}

	if err := os.WriteFile(env.rulesPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, env.configPath); err == nil {
		t.Fatal("expected malformed album rules to fail validation")
	}
}

func TestRunHarvestsAndBuilds(t *testing.T) {
	server := newFakeGenius(t)
	env := setupCLITestEnv(t, server.URL)

	stdout, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{"accepted", "skipped: other_artist", "skipped: no_album", "Songs table: 1 songs"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("run output missing %q:\n%s", want, stdout)
		}
	}

	songs, err := export.ReadSongs(filepath.Join(env.dataDir, "songs.csv"))
	if err != nil {
		t.Fatalf("read songs table: %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "Love Story" || songs[0].Album != "Fearless" {
		t.Fatalf("unexpected songs table: %#v", songs)
	}

	h, err := export.ReadHierarchy(filepath.Join(env.dataDir, "lyrics.json"))
	if err != nil {
		t.Fatalf("read lyrics json: %v", err)
	}
	got := h.Lyrics("Fearless", "Love Story")
	want := []lyrics.Lyric{
		{Line: "We were both young", Previous: lyrics.None, Next: lyrics.Some("We were both young"), Multiplicity: 1},
		{Line: "We were both young", Previous: lyrics.Some("We were both young"), Next: lyrics.None, Multiplicity: 1},
		{Line: "Romeo take me", Previous: lyrics.None, Next: lyrics.None, Multiplicity: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d lyrics, got %#v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("lyric %d: got %#v want %#v", i, got[i], want[i])
		}
	}
}

func TestSongsAndShowReadTheStore(t *testing.T) {
	server := newFakeGenius(t)
	env := setupCLITestEnv(t, server.URL)

	if _, _, err := runCLI(t, []string{"harvest"}, env.configPath); err != nil {
		t.Fatalf("harvest failed: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"songs", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("songs failed: %v", err)
	}
	var listed []songSummary
	if err := json.Unmarshal([]byte(stdout), &listed); err != nil {
		t.Fatalf("decode songs output: %v\n%s", err, stdout)
	}
	if len(listed) != 1 || listed[0].Title != "Love Story" || listed[0].Lines != 5 {
		t.Fatalf("unexpected songs: %#v", listed)
	}

	stdout, _, err = runCLI(t, []string{"show", "Love Story"}, env.configPath)
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(stdout, "Love Story (Fearless)") || !strings.Contains(stdout, "Romeo take me") {
		t.Fatalf("unexpected show output:\n%s", stdout)
	}

	if _, _, err := runCLI(t, []string{"show", "Missing Song"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown title")
	}
}

func TestBuildWithoutSongsTableFails(t *testing.T) {
	env := setupCLITestEnv(t, "")
	if _, _, err := runCLI(t, []string{"build"}, env.configPath); err == nil {
		t.Fatal("expected build to fail without a songs table")
	}
}

func TestCountLines(t *testing.T) {
	if got := countLines("[Chorus]\nA\n\n  \nB"); got != 3 {
		t.Fatalf("expected 3 lines, got %d", got)
	}
	if got := countLines(""); got != 0 {
		t.Fatalf("expected 0 lines, got %d", got)
	}
}
