package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/veritas/internal/model"
)

// shortSnippetLen is the snippet length below which the client tries to
// fetch a fuller abstract from the paper's own page
const shortSnippetLen = 100

// TransportError is the evidence-retrieval transport error kind.
// It is the one gateway failure that is fatal to a request: silently
// reporting "no evidence" for a transport error would misrepresent
// confidence.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("search gateway: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Config holds search client configuration
type Config struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client retrieves academic papers for a keyword set via the SerpAPI
// Google Scholar engine
type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	details    *DetailsFetcher // nil disables abstract enrichment
}

// NewClient creates a new search client. A missing API key is a
// configuration error.
func NewClient(cfg Config, details *DetailsFetcher) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("SERP API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://serpapi.com"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		apiKey:    cfg.APIKey,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		details: details,
	}, nil
}

// SerpAPI response structures
type scholarResponse struct {
	OrganicResults []scholarResult `json:"organic_results"`
}

type scholarResult struct {
	Title           string `json:"title"`
	Snippet         string `json:"snippet"`
	Link            string `json:"link"`
	PublicationInfo struct {
		Summary string           `json:"summary"`
		Authors model.AuthorList `json:"authors"`
		Year    flexString       `json:"year"`
	} `json:"publication_info"`
	CitedBy struct {
		Value int `json:"value"`
	} `json:"cited_by"`
}

// flexString absorbs fields the API returns as either string or number
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = flexString(num.String())
		return nil
	}
	*s = ""
	return nil
}

// SearchPapers retrieves papers for the keyword set, truncated to
// limit. One query strategy, chosen deterministically: the joined
// keywords biased toward academic results.
func (c *Client) SearchPapers(ctx context.Context, keywords []string, limit int) ([]model.Paper, error) {
	if limit <= 0 {
		limit = 5
	}

	query := strings.Join(keywords, " ") + " research paper academic"

	searchURL := fmt.Sprintf("%s/search.json?engine=google_scholar&q=%s&api_key=%s&num=%d",
		c.baseURL, url.QueryEscape(query), c.apiKey, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(body))}
	}

	var scholarResp scholarResponse
	if err := json.Unmarshal(body, &scholarResp); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}

	results := scholarResp.OrganicResults
	if len(results) > limit {
		results = results[:limit]
	}

	papers := make([]model.Paper, 0, len(results))
	for _, result := range results {
		paper := model.Paper{
			Title:         result.Title,
			Snippet:       result.Snippet,
			URL:           result.Link,
			Authors:       result.PublicationInfo.Authors,
			Year:          string(result.PublicationInfo.Year),
			Publication:   result.PublicationInfo.Summary,
			CitationCount: result.CitedBy.Value,
		}

		// A very short snippet is often just a truncated teaser; try
		// the paper's own page for a fuller abstract. Best effort.
		if c.details != nil && len(paper.Snippet) < shortSnippetLen && paper.URL != "" {
			if abstract, err := c.details.FetchAbstract(ctx, paper.URL); err == nil && abstract != "" {
				paper.Snippet = abstract
			}
		}

		papers = append(papers, paper)
	}

	return papers, nil
}
