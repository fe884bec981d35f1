package genius

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"lyricgraph/internal/services"
)

// Artist is the primary artist attached to a song.
type Artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Album is the album a song belongs to. Name is kept exactly as the provider
// sends it, trailing whitespace included.
type Album struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Song describes a song entry from the listing or detail endpoints.
type Song struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	APIPath       string `json:"api_path"`
	URL           string `json:"url"`
	LyricsState   string `json:"lyrics_state"`
	PrimaryArtist Artist `json:"primary_artist"`
	Album         *Album `json:"album"`
}

// LyricsComplete reports whether the provider marks the lyrics as complete.
func (s Song) LyricsComplete() bool {
	return s.LyricsState == "complete"
}

// AlbumName returns the raw album name, or nil when the song has none.
func (s Song) AlbumName() *string {
	if s.Album == nil {
		return nil
	}
	name := s.Album.Name
	return &name
}

type artistSongsResponse struct {
	Response struct {
		Songs    []Song `json:"songs"`
		NextPage *int   `json:"next_page"`
	} `json:"response"`
}

type songResponse struct {
	Response struct {
		Song Song `json:"song"`
	} `json:"response"`
}

// Catalog defines the Genius operations used by the harvester.
type Catalog interface {
	ArtistSongs(ctx context.Context, artistID int64) ([]Song, error)
	Song(ctx context.Context, apiPath string) (*Song, error)
	Lyrics(ctx context.Context, pageURL string) (string, error)
}

// Client provides access to the Genius API and song pages.
type Client struct {
	accessToken string
	baseURL     string
	perPage     int
	httpClient  *http.Client
	limiter     *rate.Limiter
}

var _ Catalog = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithRateLimit caps requests per second across all endpoints.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithPerPage sets the listing page size.
func WithPerPage(perPage int) Option {
	return func(c *Client) {
		if perPage > 0 {
			c.perPage = perPage
		}
	}
}

// New creates a Genius client.
func New(accessToken, baseURL string, opts ...Option) (*Client, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, errors.New("genius access token required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("genius base url required")
	}
	client := &Client{
		accessToken: accessToken,
		baseURL:     strings.TrimRight(baseURL, "/"),
		perPage:     50,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		limiter:     rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ArtistSongs pages through every song credited to the artist, following
// next_page until the provider reports none.
func (c *Client) ArtistSongs(ctx context.Context, artistID int64) ([]Song, error) {
	if artistID <= 0 {
		return nil, errors.New("artist id must be positive")
	}
	var songs []Song
	page := 1
	for {
		endpoint, err := url.Parse(fmt.Sprintf("%s/artists/%d/songs", c.baseURL, artistID))
		if err != nil {
			return songs, fmt.Errorf("parse genius url: %w", err)
		}
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", strconv.Itoa(c.perPage))
		endpoint.RawQuery = params.Encode()

		var payload artistSongsResponse
		if err := c.getJSON(ctx, endpoint.String(), "artist songs", &payload); err != nil {
			return songs, err
		}
		songs = append(songs, payload.Response.Songs...)
		if payload.Response.NextPage == nil || *payload.Response.NextPage <= page {
			return songs, nil
		}
		page = *payload.Response.NextPage
	}
}

// Song fetches song details by API path, such as "/songs/378195".
func (c *Client) Song(ctx context.Context, apiPath string) (*Song, error) {
	apiPath = strings.TrimSpace(apiPath)
	if apiPath == "" {
		return nil, errors.New("song api path must not be empty")
	}
	if !strings.HasPrefix(apiPath, "/") {
		apiPath = "/" + apiPath
	}
	var payload songResponse
	if err := c.getJSON(ctx, c.baseURL+apiPath, "song details", &payload); err != nil {
		return nil, err
	}
	return &payload.Response.Song, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, operation string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, latency, err := c.do(req, operation)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return services.Wrap(services.ErrExternalTool, "genius", operation,
			fmt.Sprintf("decode response (latency=%v)", latency), err)
	}
	return nil
}

// do waits for the limiter, executes req, and classifies failures. The
// caller closes the body of a successful response.
func (c *Client) do(req *http.Request, operation string) (*http.Response, time.Duration, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		if _, ok := req.Context().Deadline(); ok && req.Context().Err() == nil {
			// The limiter refuses waits that would outlive the deadline.
			err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		return nil, 0, classifyTransportError(operation, 0, err)
	}
	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, latency, classifyTransportError(operation, latency, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, latency, statusError(operation, resp.StatusCode, latency)
	}
	return resp, latency, nil
}

func classifyTransportError(operation string, latency time.Duration, err error) error {
	message := fmt.Sprintf("execute request (latency=%v)", latency)
	if services.IsTimeout(err) {
		return services.Wrap(services.ErrTimeout, "genius", operation, message, err)
	}
	return services.Wrap(services.ErrTransient, "genius", operation, message, err)
}

func statusError(operation string, status int, latency time.Duration) error {
	message := fmt.Sprintf("genius returned %d (latency=%v)", status, latency)
	switch {
	case status == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "genius", operation, message, nil)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return services.Wrap(services.ErrConfiguration, "genius", operation, message+": check genius.access_token", nil)
	case status == http.StatusTooManyRequests || status >= 500:
		return services.Wrap(services.ErrTransient, "genius", operation, message, nil)
	default:
		return services.Wrap(services.ErrExternalTool, "genius", operation, message, nil)
	}
}
