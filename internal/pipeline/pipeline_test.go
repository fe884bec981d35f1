package pipeline_test

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"
	"testing"

	"lyricgraph/internal/catalog"
	"lyricgraph/internal/export"
	"lyricgraph/internal/harvest"
	"lyricgraph/internal/lyrics"
	"lyricgraph/internal/pipeline"
	"lyricgraph/internal/services/genius"
	"lyricgraph/internal/testsupport"
)

func newBuilder(t *testing.T, workers int) *pipeline.Builder {
	t.Helper()
	b, err := pipeline.NewBuilder(nil, workers, nil)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	return b
}

func TestBuildKeepsCatalogOrder(t *testing.T) {
	var songs []catalog.Song
	for i := 0; i < 40; i++ {
		songs = append(songs, catalog.Song{
			Title:  fmt.Sprintf("Song %02d", i),
			Album:  fmt.Sprintf("Album %d", i%3),
			Lyrics: fmt.Sprintf("[Verse]\nline %d\nline %d again", i, i),
		})
	}
	out, err := newBuilder(t, 8).Build(context.Background(), songs, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(out.Rows) != 80 || out.Songs != 40 || out.Duplicates != 0 {
		t.Fatalf("unexpected output: rows=%d songs=%d dups=%d", len(out.Rows), out.Songs, out.Duplicates)
	}
	for i, row := range out.Rows {
		if want := fmt.Sprintf("Song %02d", i/2); row.Song != want {
			t.Fatalf("row %d song = %q, want %q", i, row.Song, want)
		}
	}
	if got := out.Hierarchy.Albums(); !reflect.DeepEqual(got, []string{"Album 0", "Album 1", "Album 2"}) {
		t.Fatalf("Albums = %v", got)
	}
}

func TestBuildMatchesSequentialBuild(t *testing.T) {
	songs := []catalog.Song{
		{Title: "A", Album: "X", Lyrics: "[Chorus]\nla\nla\n\nla"},
		{Title: "B", Album: "Y", Lyrics: "one\n[Bridge]\ntwo"},
		{Title: "A", Album: "Z", Lyrics: "dropped"},
	}
	parallel, err := newBuilder(t, 4).Build(context.Background(), songs, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var graphs []lyrics.SongGraph
	for _, song := range songs {
		graphs = append(graphs, lyrics.SongGraph{Title: song.Title, Album: song.Album, Graph: lyrics.BuildContexts(lyrics.Normalize(song.Lyrics))})
	}
	want := lyrics.Flatten(graphs, nil)
	if !reflect.DeepEqual(parallel.Rows, want) {
		t.Fatalf("rows = %+v\nwant %+v", parallel.Rows, want)
	}
	if parallel.Duplicates != 1 {
		t.Fatalf("Duplicates = %d, want 1", parallel.Duplicates)
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	songs := []catalog.Song{{Title: "A", Lyrics: "x"}}
	if _, err := newBuilder(t, 2).Build(ctx, songs, nil); err == nil {
		t.Fatal("expected context error")
	}
}

func TestRunnerExportAndBuild(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.PutSong(t, store, "Mine", "Speak Now", "[Verse 1]\nOh, oh\nYou are the best thing")
	testsupport.PutSong(t, store, "Bonus Remix", "Remix Compilation", "[Verse]\nremix")
	testsupport.PutSong(t, store, "Ronan", "", "[Verse 1]\nI remember")

	runner := pipeline.NewRunner(cfg, store, catalog.NewRuleSet(cfg.Paths.AlbumRules, nil), newBuilder(t, 2), nil)
	ctx := context.Background()

	written, err := runner.ExportSongs(ctx, false)
	if err != nil {
		t.Fatalf("ExportSongs: %v", err)
	}
	if written != 2 {
		t.Fatalf("expected allow-list to drop one song, wrote %d", written)
	}

	out, err := runner.Build(ctx)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if out.Songs != 2 || len(out.Rows) != 3 {
		t.Fatalf("unexpected build output: %+v", out)
	}

	rows, err := export.ReadLyricRows(cfg.Paths.LyricsCSV)
	if err != nil {
		t.Fatalf("ReadLyricRows: %v", err)
	}
	if !reflect.DeepEqual(rows, out.Rows) {
		t.Fatalf("lyrics table does not match build rows")
	}
	h, err := export.ReadHierarchy(cfg.Paths.LyricsJSON)
	if err != nil {
		t.Fatalf("ReadHierarchy: %v", err)
	}
	if got := h.Albums(); !reflect.DeepEqual(got, []string{"Speak Now", ""}) {
		t.Fatalf("Albums = %v", got)
	}
}

func TestRunnerExportAppendKeepsExistingRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	existing := []catalog.Song{{Title: "Exile", Album: "folklore", Lyrics: "[Verse 1]\nold"}}
	if err := export.WriteSongs(cfg.Paths.SongsCSV, existing); err != nil {
		t.Fatal(err)
	}
	testsupport.PutSong(t, store, "Exile", "folklore", "[Verse 1]\nnew")
	testsupport.PutSong(t, store, "Willow", "evermore", "[Verse 1]\nwillow")

	runner := pipeline.NewRunner(cfg, store, nil, newBuilder(t, 1), nil)
	if _, err := runner.ExportSongs(context.Background(), true); err != nil {
		t.Fatalf("ExportSongs: %v", err)
	}
	songs, err := export.ReadSongs(cfg.Paths.SongsCSV)
	if err != nil {
		t.Fatal(err)
	}
	if len(songs) != 2 || songs[0].Lyrics != "[Verse 1]\nold" || songs[1].Title != "Willow" {
		t.Fatalf("unexpected songs table: %+v", songs)
	}
}

func TestRunnerBuildFailsOnMalformedSongsTable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.Paths.SongsCSV, []byte("Title,Album\nA,B\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(cfg, testsupport.MustOpenStore(t, cfg), nil, newBuilder(t, 1), nil)
	if _, err := runner.Build(context.Background()); err == nil {
		t.Fatal("expected malformed songs table error")
	}
	if _, err := os.Stat(cfg.Paths.LyricsCSV); !os.IsNotExist(err) {
		t.Fatalf("lyrics table must not be written, stat err=%v", err)
	}
}

type staticCatalog struct{}

func (staticCatalog) ArtistSongs(context.Context, int64) ([]genius.Song, error) {
	return []genius.Song{
		{ID: 1, Title: "Cardigan", APIPath: "/songs/1", PrimaryArtist: genius.Artist{ID: 1177}},
		{ID: 2, Title: "Willow", APIPath: "/songs/2", PrimaryArtist: genius.Artist{ID: 1177}},
	}, nil
}

func (staticCatalog) Song(_ context.Context, apiPath string) (*genius.Song, error) {
	albums := map[string]string{"/songs/1": "folklore", "/songs/2": "evermore"}
	name := albums[apiPath]
	return &genius.Song{APIPath: apiPath, URL: "page" + apiPath, LyricsState: "complete", Album: &genius.Album{Name: name}}, nil
}

func (staticCatalog) Lyrics(_ context.Context, pageURL string) (string, error) {
	return "[Verse 1]\n" + strings.TrimPrefix(pageURL, "page/songs/") + " — line", nil
}

func TestRunnerRunAppendSkipsExisting(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.PutSong(t, store, "Cardigan", "folklore", "[Verse 1]\nkept")

	rules := catalog.NewRuleSet(cfg.Paths.AlbumRules, nil)
	h, err := harvest.New(staticCatalog{}, store, rules, nil, harvest.Options{ArtistID: 1177}, nil)
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(cfg, store, rules, newBuilder(t, 2), nil)

	summary, err := runner.Run(context.Background(), h, true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Harvest.Accepted) != 1 || summary.Harvest.Skipped[harvest.SkipExisting] != 1 {
		t.Fatalf("unexpected harvest: %+v", summary.Harvest)
	}
	if summary.SongsWritten != 2 {
		t.Fatalf("SongsWritten = %d", summary.SongsWritten)
	}
	got := summary.Build.Hierarchy.Lyrics("evermore", "Willow")
	if len(got) != 1 || got[0].Line != "2 - line" {
		t.Fatalf("unexpected Willow lyrics: %+v", got)
	}
	if kept := summary.Build.Hierarchy.Lyrics("folklore", "Cardigan"); len(kept) != 1 || kept[0].Line != "kept" {
		t.Fatalf("existing song not kept: %+v", kept)
	}

	// A fresh run clears the checkpoint and harvests everything again.
	summary, err = runner.Run(context.Background(), h, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Harvest.Accepted) != 2 {
		t.Fatalf("expected full harvest, got %+v", summary.Harvest)
	}
}
