package extract

import (
	"context"
	"fmt"
	"sync"

	"github.com/ppiankov/veritas/internal/llm"
	"github.com/ppiankov/veritas/internal/model"
)

// minSnippetLen is the snippet length below which a model call is
// pointless: a short snippet cannot support meaningful extraction.
const minSnippetLen = 50

const findingsPromptFmt = `CLAIM: %q

PAPER TITLE: %s

PAPER ABSTRACT:
%s

Based solely on the abstract above, answer these questions:

1. How relevant is this paper to evaluating the claim (High/Medium/Low)?
2. What are the key findings or conclusions from this paper that relate to the claim?
3. Does this paper support, refute, or provide neutral evidence regarding the claim?

Format your response ONLY as a strict JSON object with this structure:
{
    "relevance": "High|Medium|Low",
    "key_findings": "2-3 sentence summary of findings relevant to the claim",
    "position": "Supports|Refutes|Neutral"
}

Return ONLY valid JSON without any additional text, comments, or explanations.`

// FindingsExtractor annotates each retrieved paper with relevance,
// position, and a findings summary. Papers are processed independently
// with bounded concurrency; one paper's failure never affects the rest
// of the batch.
type FindingsExtractor struct {
	provider llm.Provider
	workers  int
}

// NewFindingsExtractor creates a new findings extractor
func NewFindingsExtractor(provider llm.Provider, workers int) *FindingsExtractor {
	if workers <= 0 {
		workers = 5
	}
	return &FindingsExtractor{
		provider: provider,
		workers:  workers,
	}
}

// Annotate returns the same papers in the same order with annotation
// fields attached. Output length always equals input length. Results
// are written into a slice indexed by original position so concurrent
// completion cannot reorder them.
func (e *FindingsExtractor) Annotate(ctx context.Context, claim string, papers []model.Paper) []model.Paper {
	if len(papers) == 0 {
		return []model.Paper{}
	}

	results := make([]model.Paper, len(papers))
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, e.workers)

	for i, paper := range papers {
		wg.Add(1)
		go func(idx int, p model.Paper) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = errorAnnotation(p)
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = e.annotateOne(ctx, claim, p)
		}(i, paper)
	}

	wg.Wait()

	return results
}

// annotateOne annotates a single paper. Every return path leaves the
// paper fully annotated.
func (e *FindingsExtractor) annotateOne(ctx context.Context, claim string, paper model.Paper) model.Paper {
	if len(paper.Snippet) < minSnippetLen {
		paper.Relevance = model.RelevanceLow
		paper.KeyFindings = "Abstract too short to extract meaningful findings."
		paper.Position = model.PositionNotAssessed
		return paper
	}

	prompt := fmt.Sprintf(findingsPromptFmt, claim, paper.Title, paper.Snippet)
	content, err := e.provider.Complete(ctx, prompt)
	if err != nil {
		return errorAnnotation(paper)
	}

	ext := Structured(content)
	relevance := ext.String("relevance")
	findings := ext.String("key_findings")

	if relevance == "" || findings == "" {
		paper.Relevance = model.RelevanceLow
		paper.KeyFindings = "Unable to extract findings from paper abstract."
		paper.Position = model.PositionNeutral
		return paper
	}

	paper.Relevance = model.ParseRelevance(relevance)
	paper.KeyFindings = findings
	paper.Position = model.ParsePosition(ext.String("position"))
	return paper
}

// errorAnnotation is the fixed annotation for a paper whose processing
// failed
func errorAnnotation(paper model.Paper) model.Paper {
	paper.Relevance = model.RelevanceUnknown
	paper.KeyFindings = "Error processing paper."
	paper.Position = model.PositionNeutral
	return paper
}
