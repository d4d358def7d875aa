package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/ppiankov/veritas/internal/util"
	"github.com/ppiankov/veritas/internal/worker"
)

// abstractWindow is how much text after an abstract marker is taken
const abstractWindow = 500

// minAbstractLen is the minimum length for a scraped abstract to be
// considered substantial enough to replace the snippet
const minAbstractLen = 100

// abstractMarkers are scanned in order; the first hit wins
var abstractMarkers = []string{"abstract", "summary", "overview"}

// DetailsFetcher fetches a paper's page and heuristically scrapes an
// abstract from it. Fetches honor robots.txt and per-host rate limits.
type DetailsFetcher struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	userAgent  string
	maxBytes   int64
}

// NewDetailsFetcher creates a new details fetcher
func NewDetailsFetcher(timeout time.Duration, userAgent string, maxBytes int64, limiter *worker.Limiter) *DetailsFetcher {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	return &DetailsFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:    util.NewRobotsChecker(userAgent, timeout),
		limiter:   limiter,
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// FetchAbstract retrieves the page at rawURL and scrapes an abstract
// from its visible text. Returns "" with no error when the page has
// nothing usable.
func (f *DetailsFetcher) FetchAbstract(ctx context.Context, rawURL string) (string, error) {
	allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
	if err == nil && !allowed {
		return "", fmt.Errorf("disallowed by robots.txt: %s", rawURL)
	}
	if crawlDelay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(crawlDelay):
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	return scrapeAbstract(visibleText(doc)), nil
}

// visibleText extracts text nodes from HTML, skipping scripts/styles
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// scrapeAbstract takes a fixed-size window after the first abstract
// marker in the text, keeping it only when it is substantial
func scrapeAbstract(text string) string {
	lower := strings.ToLower(text)
	for _, marker := range abstractMarkers {
		idx := strings.Index(lower, marker)
		if idx == -1 {
			continue
		}

		end := idx + abstractWindow
		if end > len(text) {
			end = len(text)
		}
		candidate := strings.TrimSpace(text[idx:end])
		if len(candidate) > minAbstractLen {
			return candidate
		}
	}
	return ""
}
