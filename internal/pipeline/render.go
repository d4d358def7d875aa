package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// assessmentEmoji returns the fixed emoji for an assessment value
func assessmentEmoji(a model.Assessment) string {
	switch a {
	case model.AssessmentSupported:
		return "✅"
	case model.AssessmentRefuted:
		return "❌"
	default:
		return "⚠️"
	}
}

const renderDisclaimer = `This fact check was conducted using scientific research papers and academic sources. The assessment is based on the available evidence at the time of checking. As scientific understanding evolves, assessments may change with new research.`

// RenderHumanFriendly formats a fact-check result as markdown: headline
// assessment, per-paper sections, references, and a closing disclaimer.
// Pure function of its inputs.
func RenderHumanFriendly(result *model.Result, papers []model.Paper) string {
	var b strings.Builder

	emoji := assessmentEmoji(result.Assessment)

	fmt.Fprintf(&b, "# Fact Check: %q\n\n", result.Claim)
	fmt.Fprintf(&b, "## Assessment: %s %s %s\n\n", emoji, result.Assessment, emoji)
	fmt.Fprintf(&b, "**%s**\n\n", result.Explanation)
	b.WriteString("## Research Summary:\n")

	for i, paper := range papers {
		num := i + 1
		title := paper.Title
		if title == "" {
			title = fmt.Sprintf("Paper %d", num)
		}

		fmt.Fprintf(&b, "\n### Paper %d: %s\n", num, title)
		fmt.Fprintf(&b, "**Authors:** %s (%s)\n", paper.Authors.Display(), paper.Year)
		fmt.Fprintf(&b, "**Relevance:** %s\n", paper.Relevance)
		fmt.Fprintf(&b, "**Position on Claim:** %s\n", paper.Position)
		fmt.Fprintf(&b, "**Key Findings:** %s\n", paper.KeyFindings)
		fmt.Fprintf(&b, "**Analysis:** %s\n", result.AnalysisFor(num))
	}

	b.WriteString("\n## References:\n")
	for i, paper := range papers {
		title := paper.Title
		if title == "" {
			title = fmt.Sprintf("Paper %d", i+1)
		}
		url := paper.URL
		if url == "" {
			url = "#"
		}
		fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, title, url)
	}

	fmt.Fprintf(&b, "\n## Bottom Line:\n%s\n", renderDisclaimer)

	return b.String()
}

// Renderer writes fact-check output to files and the terminal
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the result and annotated papers as JSON
func (r *Renderer) RenderJSON(result *model.Result, papers []model.Paper, path string) error {
	payload := struct {
		*model.Result
		Papers []model.Paper `json:"papers"`
	}{Result: result, Papers: papers}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes the human-friendly markdown report
func (r *Renderer) RenderMarkdown(result *model.Result, papers []model.Paper, path string) error {
	md := RenderHumanFriendly(result, papers)
	if !r.includeFooter {
		if idx := strings.Index(md, "\n## Bottom Line:"); idx != -1 {
			md = md[:idx+1]
		}
	}

	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a short verdict line to stdout
func (r *Renderer) RenderSummary(result *model.Result) {
	fmt.Printf("%s %s — %s\n", assessmentEmoji(result.Assessment), result.Assessment, result.Explanation)
}
