package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/search"
)

// fakeProvider implements llm.Provider with a scripted response per
// prompt shape: keyword prompts get keywords, findings prompts get a
// findings object, synthesis prompts get the verdict.
type fakeProvider struct {
	synthesis string
	findings  string
	keywords  string
	err       error
	calls     int32
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.err != nil {
		return "", p.err
	}
	switch {
	case strings.Contains(prompt, "CLAIM TO FACT-CHECK"):
		return p.synthesis, nil
	case strings.Contains(prompt, "PAPER ABSTRACT"):
		return p.findings, nil
	default:
		return p.keywords, nil
	}
}

func (p *fakeProvider) IsAvailable(ctx context.Context) bool { return p.err == nil }

func (p *fakeProvider) callCount() int { return int(atomic.LoadInt32(&p.calls)) }

type fakeSearcher struct {
	papers []model.Paper
	err    error
}

func (s *fakeSearcher) SearchPapers(ctx context.Context, keywords []string, limit int) ([]model.Paper, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.papers, nil
}

func testPapers() []model.Paper {
	return []model.Paper{
		{
			Title:   "Coffee consumption and hepatic outcomes",
			Snippet: "A longitudinal cohort study of coffee intake and liver disease incidence across twenty years of follow-up.",
			URL:     "https://example.org/coffee-liver",
			Year:    "2019",
		},
		{
			Title:   "Caffeine metabolism in hepatocytes",
			Snippet: "Laboratory analysis of caffeine processing in liver cells with attention to protective enzyme expression.",
			URL:     "https://example.org/caffeine-hepatocytes",
			Year:    "2021",
		},
	}
}

func TestPipeline_FactCheckHappyPath(t *testing.T) {
	provider := &fakeProvider{
		keywords:  "coffee, liver disease, hepatology",
		findings:  `{"relevance": "High", "key_findings": "Protective association observed.", "position": "Supports"}`,
		synthesis: `{"assessment": "Supported", "explanation": "Both studies show protective effects.", "paper_analyses": [{"paper_number": 1, "relation_to_claim": "Directly supports"}, {"paper_number": 2, "relation_to_claim": "Mechanistic support"}]}`,
	}
	searcher := &fakeSearcher{papers: testPapers()}
	p := NewPipelineWith(provider, searcher, nil)

	result, papers, err := p.FactCheck(context.Background(), "Coffee reduces the risk of liver disease")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Assessment != model.AssessmentSupported {
		t.Errorf("expected Supported, got %q", result.Assessment)
	}
	if result.Explanation != "Both studies show protective effects." {
		t.Errorf("unexpected explanation: %q", result.Explanation)
	}
	if len(result.PaperAnalyses) != 2 {
		t.Errorf("expected 2 paper analyses, got %d", len(result.PaperAnalyses))
	}
	if len(result.References) != 2 {
		t.Fatalf("expected 2 references, got %d", len(result.References))
	}
	if result.References[0].Title != "Coffee consumption and hepatic outcomes" {
		t.Errorf("reference order not preserved: %+v", result.References)
	}
	if len(papers) != 2 {
		t.Fatalf("expected 2 annotated papers, got %d", len(papers))
	}
	if papers[0].Relevance != model.RelevanceHigh || papers[0].Position != model.PositionSupports {
		t.Errorf("paper not annotated: %+v", papers[0])
	}
}

func TestPipeline_ZeroPapersTerminal(t *testing.T) {
	provider := &fakeProvider{keywords: "honey, spoilage"}
	searcher := &fakeSearcher{papers: nil}
	p := NewPipelineWith(provider, searcher, nil)

	result, papers, err := p.FactCheck(context.Background(), "Honey never spoils when stored properly")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Assessment != model.AssessmentInsufficient {
		t.Errorf("expected Lacks Sufficient Evidence, got %q", result.Assessment)
	}
	if result.Explanation != "No relevant research papers were found to evaluate this claim." {
		t.Errorf("unexpected explanation: %q", result.Explanation)
	}
	if result.PaperAnalyses == nil || len(result.PaperAnalyses) != 0 {
		t.Errorf("expected empty non-nil analyses, got %#v", result.PaperAnalyses)
	}
	if result.References == nil || len(result.References) != 0 {
		t.Errorf("expected empty non-nil references, got %#v", result.References)
	}
	if papers == nil || len(papers) != 0 {
		t.Errorf("expected empty non-nil papers, got %#v", papers)
	}
	// Only the keyword call should have reached the model
	if provider.callCount() != 1 {
		t.Errorf("expected 1 model call, got %d", provider.callCount())
	}
}

func TestPipeline_SearchTransportErrorFatal(t *testing.T) {
	provider := &fakeProvider{keywords: "coffee, liver"}
	searcher := &fakeSearcher{err: &search.TransportError{Err: errors.New("connection refused")}}
	p := NewPipelineWith(provider, searcher, nil)

	result, papers, err := p.FactCheck(context.Background(), "Coffee reduces the risk of liver disease")
	if err == nil {
		t.Fatal("expected an error from a search transport failure")
	}
	if result != nil || papers != nil {
		t.Errorf("expected nil result and papers on fatal error")
	}

	var transportErr *search.TransportError
	if !errors.As(err, &transportErr) {
		t.Errorf("expected wrapped *search.TransportError, got %v", err)
	}
}

func TestPipeline_AllModelCallsFailStillWellFormed(t *testing.T) {
	provider := &fakeProvider{err: errors.New("model offline")}
	searcher := &fakeSearcher{papers: testPapers()}
	p := NewPipelineWith(provider, searcher, nil)

	result, papers, err := p.FactCheck(context.Background(), "Coffee reduces the risk of liver disease")
	if err != nil {
		t.Fatalf("model failures must degrade, not fail the request: %v", err)
	}

	if result.Assessment != model.AssessmentInsufficient {
		t.Errorf("expected Lacks Sufficient Evidence, got %q", result.Assessment)
	}
	if result.Explanation != "Unable to properly analyze the evidence due to technical issues." {
		t.Errorf("unexpected explanation: %q", result.Explanation)
	}
	if len(result.References) != 2 {
		t.Errorf("references must still list the retrieved papers, got %d", len(result.References))
	}
	for i, paper := range papers {
		if paper.KeyFindings != "Error processing paper." {
			t.Errorf("paper %d: expected error annotation, got %q", i, paper.KeyFindings)
		}
	}
}

func TestPipeline_UnrecognizedAssessmentNormalized(t *testing.T) {
	provider := &fakeProvider{
		keywords:  "coffee, liver",
		findings:  `{"relevance": "Medium", "key_findings": "Some findings.", "position": "Neutral"}`,
		synthesis: `{"assessment": "Probably True", "explanation": "Mixed results.", "paper_analyses": []}`,
	}
	searcher := &fakeSearcher{papers: testPapers()}
	p := NewPipelineWith(provider, searcher, nil)

	result, _, err := p.FactCheck(context.Background(), "Coffee reduces the risk of liver disease")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Assessment != model.AssessmentInsufficient {
		t.Errorf("unrecognized assessment must normalize to Lacks Sufficient Evidence, got %q", result.Assessment)
	}
}
