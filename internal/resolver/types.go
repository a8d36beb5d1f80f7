package resolver

import "github.com/schmitthub/dockmcp/internal/resource"

// Outcome classifies how a query was resolved.
type Outcome string

const (
	OutcomeResolved  Outcome = "resolved"  // Exactly one resource matched
	OutcomeAmbiguous Outcome = "ambiguous" // More than one resource matched
	OutcomeNotFound  Outcome = "not_found" // Nothing matched
)

// MatchSource records which step of the algorithm produced a resolved result.
type MatchSource string

const (
	MatchExact   MatchSource = "exact"   // Direct lookup by key or canonical name
	MatchPartial MatchSource = "partial" // Single case-insensitive substring match
)

// Result is the tagged outcome of a resolution.
//
// Only the fields relevant to Outcome are populated: Candidate and Source for
// OutcomeResolved, Matches and Candidates for OutcomeAmbiguous, Suggestions
// for OutcomeNotFound.
type Result struct {
	Kind    resource.Kind `json:"kind"`
	Query   string        `json:"query"`
	Outcome Outcome       `json:"outcome"`

	Candidate resource.Candidate `json:"candidate,omitzero"`
	Source    MatchSource        `json:"source,omitempty"`

	Matches     []string             `json:"matches,omitempty"`
	Candidates  []resource.Candidate `json:"candidates,omitempty"`
	Suggestions []string             `json:"suggestions,omitempty"`
}

// Resolved reports whether the result carries a single candidate.
func (r *Result) Resolved() bool {
	return r.Outcome == OutcomeResolved
}

// Err converts a non-resolved result to its classified error.
// It returns nil for resolved results.
func (r *Result) Err() error {
	switch r.Outcome {
	case OutcomeAmbiguous:
		return &AmbiguousError{Kind: r.Kind, Query: r.Query, Matches: r.Matches}
	case OutcomeNotFound:
		return &NotFoundError{Kind: r.Kind, Query: r.Query, Suggestions: r.Suggestions}
	}
	return nil
}
