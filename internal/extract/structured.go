package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// Tier identifies which extraction strategy produced a result.
// Model output is not reliably strict JSON (prose preambles, markdown
// fences, trailing commentary), so extraction degrades through three
// tiers and the consumer can always tell which one succeeded.
type Tier int

const (
	TierStrict    Tier = iota // Bare JSON object parsed strictly
	TierFenced                // JSON object inside a ```-fenced block
	TierHeuristic             // Regex recovery of known fields
)

func (t Tier) String() string {
	switch t {
	case TierStrict:
		return "strict"
	case TierFenced:
		return "fenced"
	default:
		return "heuristic"
	}
}

// Extraction is the result of structured-text extraction
type Extraction struct {
	Fields map[string]any
	Tier   Tier
}

var (
	fenceRe       = regexp.MustCompile("(?s)```(?:json)?(.*?)```")
	explanationRe = regexp.MustCompile(`"explanation"\s*:\s*"([^"]+)"`)
	analysisRe    = regexp.MustCompile(`(?s)"paper_number":\s*(\d+).*?"relation_to_claim":\s*"([^"]+)"`)
)

// Structured recovers a JSON-like mapping from free text. It never
// fails: when strict parsing is impossible it falls back to targeted
// regex extraction of the fields the pipeline cares about, so callers
// always have something to proceed with.
//
// When a response contains multiple JSON-like spans, the first fenced
// block wins, and brace extraction spans the first '{' through the
// last '}'.
func Structured(raw string) Extraction {
	text := strings.TrimSpace(raw)

	fenced := false
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
		fenced = true
	}

	if span, ok := braceSpan(text); ok {
		var fields map[string]any
		if err := json.Unmarshal([]byte(span), &fields); err == nil {
			tier := TierStrict
			if fenced {
				tier = TierFenced
			}
			return Extraction{Fields: fields, Tier: tier}
		}
	}

	return Extraction{Fields: heuristicFields(raw), Tier: TierHeuristic}
}

// braceSpan returns the outermost {...} span of the text
func braceSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// heuristicFields scans raw text for the literal field patterns the
// pipeline's prompts request
func heuristicFields(content string) map[string]any {
	fields := make(map[string]any)

	switch {
	case strings.Contains(content, "Supported"):
		fields["assessment"] = string(model.AssessmentSupported)
	case strings.Contains(content, "Refuted"):
		fields["assessment"] = string(model.AssessmentRefuted)
	default:
		fields["assessment"] = string(model.AssessmentInsufficient)
	}

	if m := explanationRe.FindStringSubmatch(content); m != nil {
		fields["explanation"] = m[1]
	} else {
		fields["explanation"] = "Analysis shows insufficient evidence for a definitive assessment."
	}

	analyses := []any{}
	for _, m := range analysisRe.FindAllStringSubmatch(content, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		analyses = append(analyses, map[string]any{
			"paper_number":      float64(n),
			"relation_to_claim": m[2],
		})
	}
	fields["paper_analyses"] = analyses

	return fields
}

// String returns the named field as a string, or "" when it is absent
// or not a string
func (e Extraction) String(key string) string {
	s, _ := e.Fields[key].(string)
	return s
}

// PaperAnalyses decodes the paper_analyses field into typed entries,
// skipping malformed ones
func (e Extraction) PaperAnalyses() []model.PaperAnalysis {
	raw, _ := e.Fields["paper_analyses"].([]any)

	analyses := make([]model.PaperAnalysis, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		num, ok := m["paper_number"].(float64)
		if !ok {
			continue
		}
		relation, ok := m["relation_to_claim"].(string)
		if !ok {
			continue
		}
		analyses = append(analyses, model.PaperAnalysis{
			PaperNumber:     int(num),
			RelationToClaim: relation,
		})
	}
	return analyses
}
