package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/veritas/internal/llm"
)

const maxKeywords = 5

const keywordPromptFmt = `I need to research the following claim: %q

Please identify 5 key search terms or phrases that would be most effective for
finding relevant academic research about this claim. Focus on specific technical terms
and combinations that would yield scientific papers.

Return only the keywords separated by commas, with no additional text.`

// keywordStopwords is the fixed stopword set used by fallback extraction
var keywordStopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "an", "the", "and", "or", "but", "if", "because", "as", "what",
		"when", "where", "how", "why", "which", "who", "whom", "this", "that",
		"these", "those", "is", "are", "was", "were", "be", "been", "being",
		"have", "has", "had", "do", "does", "did", "for", "of", "on", "to",
		"with", "by", "about", "against", "between", "into", "through",
		"during", "before", "after", "above", "below", "from", "up", "down",
		"in", "out", "off", "over", "under", "again", "further", "then",
		"once", "here", "there", "all", "any", "both", "each", "few", "more",
		"most", "other", "some", "such", "no", "nor", "not", "only", "own",
		"same", "so", "than", "too", "very", "s", "t", "can", "will", "just",
		"don", "should", "now", "causes",
	} {
		keywordStopwords[w] = struct{}{}
	}
}

// KeywordExtractor turns a claim into a small set of search keywords.
// The primary path asks the language model; when the gateway fails the
// deterministic fallback guarantees the pipeline degrades rather than
// halts.
type KeywordExtractor struct {
	provider llm.Provider
}

// NewKeywordExtractor creates a new keyword extractor
func NewKeywordExtractor(provider llm.Provider) *KeywordExtractor {
	return &KeywordExtractor{provider: provider}
}

// Extract returns 1-5 search keywords for the claim. It never fails.
func (e *KeywordExtractor) Extract(ctx context.Context, claim string) []string {
	if e.provider != nil {
		content, err := e.provider.Complete(ctx, fmt.Sprintf(keywordPromptFmt, claim))
		if err == nil {
			if keywords := splitKeywords(content); len(keywords) > 0 {
				return keywords
			}
		}
	}
	return FallbackKeywords(claim)
}

// splitKeywords splits a comma-separated model response into trimmed
// keywords, capped at maxKeywords
func splitKeywords(content string) []string {
	var keywords []string
	for _, part := range strings.Split(content, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		keywords = append(keywords, part)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

// FallbackKeywords extracts keywords without the language model.
// Stopwords are dropped, and for a claim of the form "X causes Y" the
// cause/effect pair replaces the generic word list. Up to 2 adjacent
// bigram combinations are appended to improve search recall.
func FallbackKeywords(claim string) []string {
	words := strings.Fields(strings.ToLower(claim))

	var keywords []string
	for _, word := range words {
		if _, stop := keywordStopwords[word]; !stop {
			keywords = append(keywords, word)
		}
	}

	for i, word := range words {
		if word != "causes" && word != "cause" {
			continue
		}
		if i > 0 && i < len(words)-1 {
			keywords = []string{words[i-1], word, words[i+1]}
		}
		break
	}

	if len(keywords) >= 2 {
		var combinations []string
		for i := 0; i < len(keywords)-1 && len(combinations) < 2; i++ {
			combinations = append(combinations, keywords[i]+" "+keywords[i+1])
		}
		keywords = append(keywords, combinations...)
	}

	// A claim of nothing but stopwords still needs a query
	if len(keywords) == 0 {
		keywords = words
	}

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}
