package agents

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const maxFetchBytes = 4 << 20 // 4MB

// Fetcher downloads a job posting page and strips it to readable text.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher returns a Fetcher with a bounded request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{httpClient: &http.Client{Timeout: timeout}}
}

// FetchJobContent GETs the URL and returns the page text with chrome removed.
func (f *Fetcher) FetchJobContent(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("fetch job posting: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; cvtailor/1.0)")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch job posting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch job posting: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return "", fmt.Errorf("fetch job posting: read: %w", err)
	}

	return StripHTML(string(body)), nil
}

// StripHTML reduces an HTML document to its readable text blocks.
func StripHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return collapseSpaces(stripTags(html))
	}
	doc.Find("script, style, nav, header, footer, iframe, noscript").Remove()
	doc.Find(".menu, .navigation, .social, .banner, .ads, .cookie, .popup").Remove()

	var blocks []string
	doc.Find("p, li, h1, h2, h3, h4, h5, h6").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) > 0 {
		return strings.Join(blocks, "\n\n")
	}

	if bodyText := strings.TrimSpace(doc.Find("body").Text()); bodyText != "" {
		return collapseSpaces(bodyText)
	}
	return collapseSpaces(doc.Text())
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func stripTags(html string) string {
	return tagPattern.ReplaceAllString(html, " ")
}

var spaceRuns = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
}
