package genius

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"lyricgraph/internal/services"
)

const (
	lyricsContainerSelector = `[data-lyrics-container="true"]`
	excludedSelector        = `[data-exclude-from-selection="true"]`
)

// Lyrics scrapes the lyric text from a song page. Line breaks become
// newlines and consecutive containers are joined by a newline.
func (c *Client) Lyrics(ctx context.Context, pageURL string) (string, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return "", errors.New("song page url must not be empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, _, err := c.do(req, "lyrics page")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "genius", "lyrics page", "parse HTML", err)
	}
	text := ExtractLyrics(doc)
	if text == "" {
		return "", services.Wrap(services.ErrNotFound, "genius", "lyrics page", "no lyrics found on page "+pageURL, nil)
	}
	return text, nil
}

// ExtractLyrics returns the text of every lyrics container in doc.
func ExtractLyrics(doc *goquery.Document) string {
	var blocks []string
	doc.Find(lyricsContainerSelector).Each(func(_ int, s *goquery.Selection) {
		s.Find(excludedSelector).Remove()
		s.Find("br").ReplaceWithHtml("\n")
		if block := strings.TrimSpace(s.Text()); block != "" {
			blocks = append(blocks, block)
		}
	})
	return strings.Join(blocks, "\n")
}
