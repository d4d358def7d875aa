package model

// Assessment is the three-valued verdict on a claim
type Assessment string

const (
	AssessmentSupported    Assessment = "Supported"
	AssessmentRefuted      Assessment = "Refuted"
	AssessmentInsufficient Assessment = "Lacks Sufficient Evidence"
)

// ParseAssessment maps a raw model-produced string onto the closed
// assessment set. Anything unrecognized becomes Lacks Sufficient Evidence.
func ParseAssessment(s string) Assessment {
	switch Assessment(s) {
	case AssessmentSupported, AssessmentRefuted:
		return Assessment(s)
	default:
		return AssessmentInsufficient
	}
}

// PaperAnalysis is the synthesizer's per-paper relation note.
// PaperNumber is 1-based and matches the order papers were presented.
type PaperAnalysis struct {
	PaperNumber     int    `json:"paper_number"`
	RelationToClaim string `json:"relation_to_claim"`
}

// Reference is a {title, url} projection of an annotated paper
type Reference struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Result is the final fact-check outcome for one claim.
// Assembled once per request and never mutated afterwards.
type Result struct {
	Claim         string          `json:"claim"`
	Assessment    Assessment      `json:"assessment"`
	Explanation   string          `json:"explanation"`
	PaperAnalyses []PaperAnalysis `json:"paper_analyses"`
	References    []Reference     `json:"references"`
}

// AnalysisFor returns the relation note for the given 1-based paper
// ordinal, or a fixed placeholder when the synthesizer did not cover it.
func (r *Result) AnalysisFor(paperNumber int) string {
	for _, pa := range r.PaperAnalyses {
		if pa.PaperNumber == paperNumber {
			return pa.RelationToClaim
		}
	}
	return "Relation to claim not specified."
}
