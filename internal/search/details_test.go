package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const paperPage = `<html>
<head><title>Paper page</title><script>var tracking = "ignore me";</script></head>
<body>
<style>.hidden { display: none }</style>
<h1>Coffee consumption and hepatic outcomes</h1>
<h2>Abstract</h2>
<p>We followed a cohort of 40,000 adults for twenty years and measured coffee intake alongside liver disease incidence.
Higher consumption was associated with a significant reduction in cirrhosis and related conditions across all subgroups studied.</p>
</body>
</html>`

func newDetailsServer(t *testing.T, page string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchAbstract_ScrapesMarkerWindow(t *testing.T) {
	server := newDetailsServer(t, paperPage)
	fetcher := NewDetailsFetcher(5*time.Second, "veritas-test", 0, nil)

	abstract, err := fetcher.FetchAbstract(context.Background(), server.URL+"/paper")
	if err != nil {
		t.Fatalf("FetchAbstract: %v", err)
	}

	if !strings.Contains(abstract, "cohort of 40,000 adults") {
		t.Errorf("expected abstract text, got %q", abstract)
	}
	if strings.Contains(abstract, "ignore me") {
		t.Errorf("script content leaked into abstract: %q", abstract)
	}
}

func TestFetchAbstract_ShortMarkerWindowRejected(t *testing.T) {
	server := newDetailsServer(t, `<html><body><p>Abstract: too brief.</p></body></html>`)
	fetcher := NewDetailsFetcher(5*time.Second, "veritas-test", 0, nil)

	abstract, err := fetcher.FetchAbstract(context.Background(), server.URL+"/paper")
	if err != nil {
		t.Fatalf("FetchAbstract: %v", err)
	}
	if abstract != "" {
		t.Errorf("expected empty result for insubstantial abstract, got %q", abstract)
	}
}

func TestFetchAbstract_RobotsDisallow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /\n"))
			return
		}
		_, _ = w.Write([]byte(paperPage))
	}))
	t.Cleanup(server.Close)

	fetcher := NewDetailsFetcher(5*time.Second, "veritas-test", 0, nil)

	if _, err := fetcher.FetchAbstract(context.Background(), server.URL+"/paper"); err == nil {
		t.Error("expected error for robots-disallowed URL")
	}
}

func TestScrapeAbstract_MarkerPriority(t *testing.T) {
	pad := strings.Repeat("x", 150)
	text := "Summary " + pad + " abstract " + pad

	got := scrapeAbstract(text)
	if !strings.HasPrefix(strings.ToLower(got), "abstract") {
		t.Errorf("expected abstract marker to win over summary, got %q", got)
	}
}

func TestScrapeAbstract_NoMarker(t *testing.T) {
	if got := scrapeAbstract("nothing useful here at all"); got != "" {
		t.Errorf("expected empty result without markers, got %q", got)
	}
}
