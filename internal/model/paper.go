package model

// Paper represents a research paper returned by evidence retrieval.
// Later pipeline stages attach the annotation fields in place.
type Paper struct {
	Title         string     `json:"title"`                    // Paper title
	Snippet       string     `json:"snippet"`                  // Abstract or search snippet
	URL           string     `json:"url"`                      // Paper URL
	Authors       AuthorList `json:"authors"`                  // Ordered author list
	Year          string     `json:"year,omitempty"`           // Publication year
	Publication   string     `json:"publication,omitempty"`    // Publication venue
	CitationCount int        `json:"citation_count,omitempty"` // Citation count

	// Annotation fields, written once by the findings extractor
	Relevance   Relevance `json:"relevance,omitempty"`    // Relevance to the claim
	KeyFindings string    `json:"key_findings,omitempty"` // Findings summary
	Position    Position  `json:"position,omitempty"`     // Position on the claim
}

// Relevance classifies how relevant a paper is to the claim
type Relevance string

const (
	RelevanceHigh    Relevance = "High"
	RelevanceMedium  Relevance = "Medium"
	RelevanceLow     Relevance = "Low"
	RelevanceUnknown Relevance = "Unknown"
)

// ParseRelevance maps a raw model-produced string onto the closed
// relevance set. Anything unrecognized becomes Unknown.
func ParseRelevance(s string) Relevance {
	switch Relevance(s) {
	case RelevanceHigh, RelevanceMedium, RelevanceLow:
		return Relevance(s)
	default:
		return RelevanceUnknown
	}
}

// Position classifies a paper's stance relative to the claim
type Position string

const (
	PositionSupports    Position = "Supports"
	PositionRefutes     Position = "Refutes"
	PositionNeutral     Position = "Neutral"
	PositionNotAssessed Position = "Not assessed"
)

// ParsePosition maps a raw model-produced string onto the closed
// position set. Anything unrecognized becomes Not assessed.
func ParsePosition(s string) Position {
	switch Position(s) {
	case PositionSupports, PositionRefutes, PositionNeutral:
		return Position(s)
	default:
		return PositionNotAssessed
	}
}

// Annotated reports whether every annotation field carries a value.
// The pipeline never surfaces a partially-annotated paper.
func (p *Paper) Annotated() bool {
	return p.Relevance != "" && p.Position != "" && p.KeyFindings != ""
}
