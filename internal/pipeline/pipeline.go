package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/veritas/internal/extract"
	"github.com/ppiankov/veritas/internal/llm"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/search"
	"github.com/ppiankov/veritas/internal/worker"
)

// Searcher is the evidence retrieval gateway contract consumed by the
// pipeline
type Searcher interface {
	SearchPapers(ctx context.Context, keywords []string, limit int) ([]model.Paper, error)
}

// Pipeline orchestrates the complete fact-check: keyword extraction,
// evidence retrieval, per-paper findings extraction, and claim
// synthesis. All state is request-scoped; a Pipeline is safe for
// concurrent use.
type Pipeline struct {
	keywords    *extract.KeywordExtractor
	searcher    Searcher
	findings    *extract.FindingsExtractor
	synthesizer *Synthesizer
	config      *model.Config
}

// NewPipeline creates a new pipeline from configuration. Missing
// credentials fail construction; nothing is retried later.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}

	var details *search.DetailsFetcher
	if cfg.Search.EnrichShort {
		limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
		details = search.NewDetailsFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, limiter)
	}

	searcher, err := search.NewClient(search.Config{
		APIKey:    cfg.Search.APIKey,
		BaseURL:   cfg.Search.BaseURL,
		Timeout:   cfg.HTTP.Timeout,
		UserAgent: cfg.HTTP.UserAgent,
	}, details)
	if err != nil {
		return nil, fmt.Errorf("initialize search client: %w", err)
	}

	return &Pipeline{
		keywords:    extract.NewKeywordExtractor(provider),
		searcher:    searcher,
		findings:    extract.NewFindingsExtractor(provider, cfg.Concurrency.AnnotationWorkers),
		synthesizer: NewSynthesizer(provider),
		config:      cfg,
	}, nil
}

// NewPipelineWith wires a pipeline from explicit collaborators.
// Used by tests and by callers that bring their own gateways.
func NewPipelineWith(provider llm.Provider, searcher Searcher, cfg *model.Config) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	return &Pipeline{
		keywords:    extract.NewKeywordExtractor(provider),
		searcher:    searcher,
		findings:    extract.NewFindingsExtractor(provider, cfg.Concurrency.AnnotationWorkers),
		synthesizer: NewSynthesizer(provider),
		config:      cfg,
	}
}

// FactCheck runs the complete pipeline for one claim and returns the
// assembled result together with the annotated papers it was built
// from. The only fatal failure is evidence retrieval; every other
// stage degrades per its own fallback policy.
func (p *Pipeline) FactCheck(ctx context.Context, claim string) (*model.Result, []model.Paper, error) {
	verbose := p.config.Output.Verbose

	// 1. Extract keywords (never fails, possibly degraded)
	keywords := p.keywords.Extract(ctx, claim)
	if verbose {
		fmt.Fprintf(os.Stderr, "Keywords: %v\n", keywords)
	}

	// 2. Retrieve papers; a transport failure here surfaces to the caller
	papers, err := p.searcher.SearchPapers(ctx, keywords, p.config.Search.PaperLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("search papers: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Found %d papers\n", len(papers))
	}

	// 3. Zero papers is an expected terminal state, not a failure
	if len(papers) == 0 {
		return &model.Result{
			Claim:         claim,
			Assessment:    model.AssessmentInsufficient,
			Explanation:   "No relevant research papers were found to evaluate this claim.",
			PaperAnalyses: []model.PaperAnalysis{},
			References:    []model.Reference{},
		}, []model.Paper{}, nil
	}

	// 4. Annotate each paper (order and count preserved)
	annotated := p.findings.Annotate(ctx, claim, papers)

	// 5. Synthesize the verdict (never fails, possibly degraded)
	analysis := p.synthesizer.Synthesize(ctx, claim, annotated)

	// 6. Assemble the final result
	references := make([]model.Reference, len(annotated))
	for i, paper := range annotated {
		references[i] = model.Reference{
			Title: paper.Title,
			URL:   paper.URL,
		}
	}

	result := &model.Result{
		Claim:         claim,
		Assessment:    model.ParseAssessment(analysis.Assessment),
		Explanation:   analysis.Explanation,
		PaperAnalyses: analysis.PaperAnalyses,
		References:    references,
	}

	return result, annotated, nil
}
