package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/search"
)

type stubChecker struct {
	result *model.Result
	papers []model.Paper
	err    error
}

func (c *stubChecker) FactCheck(ctx context.Context, claim string) (*model.Result, []model.Paper, error) {
	if c.err != nil {
		return nil, nil, c.err
	}
	return c.result, c.papers, nil
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	handler := NewServer(&stubChecker{})

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Version != Version {
		t.Errorf("unexpected health payload: %+v", resp)
	}
}

func TestServer_FactCheckHappyPath(t *testing.T) {
	checker := &stubChecker{
		result: &model.Result{
			Claim:       "Coffee reduces the risk of liver disease",
			Assessment:  model.AssessmentSupported,
			Explanation: "Protective association observed.",
			PaperAnalyses: []model.PaperAnalysis{
				{PaperNumber: 1, RelationToClaim: "Directly supports"},
			},
			References: []model.Reference{
				{Title: "Coffee and hepatology", URL: "https://example.org/paper"},
			},
		},
		papers: []model.Paper{
			{Title: "Coffee and hepatology", URL: "https://example.org/paper", Relevance: model.RelevanceHigh, Position: model.PositionSupports, KeyFindings: "Protective."},
		},
	}
	handler := NewServer(checker)

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/fact-check", `{"claim": "Coffee reduces the risk of liver disease"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp factCheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Assessment != model.AssessmentSupported {
		t.Errorf("unexpected assessment: %q", resp.Assessment)
	}
	if len(resp.Papers) != 1 || len(resp.References) != 1 {
		t.Errorf("papers/references missing: %+v", resp)
	}
	if !strings.Contains(resp.HumanFriendlyResponse, "## Assessment: ✅ Supported ✅") {
		t.Errorf("human friendly response not rendered: %q", resp.HumanFriendlyResponse)
	}
}

func TestServer_FactCheckInvalidBody(t *testing.T) {
	handler := NewServer(&stubChecker{})

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/fact-check", "{not json")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Detail == "" {
		t.Error("expected detail message")
	}
}

func TestServer_FactCheckShortClaim(t *testing.T) {
	handler := NewServer(&stubChecker{})

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/fact-check", `{"claim": "short"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for short claim, got %d", rec.Code)
	}
}

func TestServer_FactCheckSearchUnavailable(t *testing.T) {
	checker := &stubChecker{err: &search.TransportError{Err: errors.New("connection refused")}}
	handler := NewServer(checker)

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/fact-check", `{"claim": "Coffee reduces the risk of liver disease"}`)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 for search transport failure, got %d", rec.Code)
	}
}

func TestServer_FactCheckInternalError(t *testing.T) {
	checker := &stubChecker{err: errors.New("something unexpected")}
	handler := NewServer(checker)

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/fact-check", `{"claim": "Coffee reduces the risk of liver disease"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	var resp errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Detail != "error during fact-checking" {
		t.Errorf("internal detail must not leak, got %q", resp.Detail)
	}
}

func TestServer_MethodRouting(t *testing.T) {
	handler := NewServer(&stubChecker{})

	if rec := doRequest(t, handler, http.MethodGet, "/api/v1/fact-check", ""); rec.Code == http.StatusOK {
		t.Errorf("GET on fact-check should not succeed, got %d", rec.Code)
	}
	if rec := doRequest(t, handler, http.MethodPost, "/api/v1/health", ""); rec.Code == http.StatusOK {
		t.Errorf("POST on health should not succeed, got %d", rec.Code)
	}
}
