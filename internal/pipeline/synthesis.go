package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/veritas/internal/extract"
	"github.com/ppiankov/veritas/internal/llm"
	"github.com/ppiankov/veritas/internal/model"
)

const synthesisPromptFmt = `CLAIM TO FACT-CHECK: %q

RESEARCH EVIDENCE:
%s

Based ONLY on the research evidence provided above, provide a comprehensive fact-check analysis:

1. Assess whether the claim is "Supported", "Refuted", or "Lacks Sufficient Evidence".
2. Provide a detailed explanation (5-7 sentences) summarizing the evidence and reasoning behind your assessment.
3. For each paper, briefly describe how it relates to the claim and what specific evidence it provides.

Format your response as a strict JSON object with the following structure:
{
    "assessment": "Supported|Refuted|Lacks Sufficient Evidence",
    "explanation": "Your detailed explanation here.",
    "paper_analyses": [
        {
            "paper_number": 1,
            "relation_to_claim": "Brief description of how this paper relates to the claim"
        }
    ]
}

IMPORTANT: Return ONLY valid JSON without any additional text, comments, or formatting.
Ensure that all quotes are properly escaped and there are no trailing commas.`

const paperContextFmt = `PAPER %d:
Title: %s
Authors: %s
Year: %s
Relevance: %s
Position: %s
Abstract/Snippet: %s
Key Findings: %s`

// Analysis is the synthesizer's aggregate verdict over all annotated
// papers. Assessment passes through what the extractor yielded; the
// boundary that builds the typed result normalizes it.
type Analysis struct {
	Assessment    string
	Explanation   string
	PaperAnalyses []model.PaperAnalysis
}

// fallbackAnalysis is returned when the gateway or parsing fails: the
// synthesizer never propagates a raw transport or parse error.
func fallbackAnalysis() Analysis {
	return Analysis{
		Assessment:    string(model.AssessmentInsufficient),
		Explanation:   "Unable to properly analyze the evidence due to technical issues.",
		PaperAnalyses: []model.PaperAnalysis{},
	}
}

// Synthesizer aggregates the claim and all annotated papers into one
// final assessment via a single model call
type Synthesizer struct {
	provider llm.Provider
}

// NewSynthesizer creates a new synthesizer
func NewSynthesizer(provider llm.Provider) *Synthesizer {
	return &Synthesizer{provider: provider}
}

// Synthesize produces the claim-level analysis. It never fails: any
// gateway failure or unusable parse yields the deterministic fallback.
func (s *Synthesizer) Synthesize(ctx context.Context, claim string, papers []model.Paper) Analysis {
	prompt := fmt.Sprintf(synthesisPromptFmt, claim, paperContexts(papers))

	content, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		return fallbackAnalysis()
	}

	ext := extract.Structured(content)
	assessment := ext.String("assessment")
	if assessment == "" {
		return fallbackAnalysis()
	}

	explanation := ext.String("explanation")
	if explanation == "" {
		explanation = "Analysis shows insufficient evidence for a definitive assessment."
	}

	return Analysis{
		Assessment:    assessment,
		Explanation:   explanation,
		PaperAnalyses: ext.PaperAnalyses(),
	}
}

// paperContexts formats every annotated paper for the synthesis prompt,
// with 1-based ordinals that the response's paper_analyses refer to
func paperContexts(papers []model.Paper) string {
	contexts := make([]string, len(papers))
	for i, paper := range papers {
		title := paper.Title
		if title == "" {
			title = fmt.Sprintf("Paper %d", i+1)
		}
		snippet := paper.Snippet
		if snippet == "" {
			snippet = "No abstract available"
		}
		year := paper.Year
		if year == "" {
			year = "Unknown year"
		}

		contexts[i] = fmt.Sprintf(paperContextFmt,
			i+1,
			title,
			paper.Authors.Display(),
			year,
			paper.Relevance,
			paper.Position,
			snippet,
			paper.KeyFindings,
		)
	}
	return strings.Join(contexts, "\n\n")
}
