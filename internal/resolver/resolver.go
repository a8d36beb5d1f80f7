// Package resolver turns a user-supplied, possibly partial identifier into
// exactly one Docker resource.
//
// Resolution is a two-step algorithm: a direct exact lookup, then (only when
// the runtime reports "not found") a case-insensitive substring scan over a
// fresh listing. The resolver never guesses between several matches and
// keeps no state between calls.
package resolver

import (
	"context"
	"errors"
	"strings"

	"github.com/schmitthub/dockmcp/internal/logger"
	"github.com/schmitthub/dockmcp/internal/resource"
)

// MaxSuggestions caps the near-miss names attached to a NotFound result.
const MaxSuggestions = 3

// Source provides the Directory for a resource kind.
// *docker.Client satisfies it.
type Source interface {
	Directory(kind resource.Kind) (resource.Directory, error)
}

// Resolver resolves queries against the directories of a Source.
type Resolver struct {
	src Source
}

// New creates a Resolver backed by src.
func New(src Source) *Resolver {
	return &Resolver{src: src}
}

// Resolve resolves query for kind. See the package-level Resolve.
func (r *Resolver) Resolve(ctx context.Context, kind resource.Kind, query string) (*Result, error) {
	dir, err := r.src.Directory(kind)
	if err != nil {
		return nil, err
	}
	return Resolve(ctx, dir, query)
}

// Lookup resolves query for kind and returns the single matching candidate.
// Ambiguous and not-found outcomes are returned as *AmbiguousError and
// *NotFoundError.
func (r *Resolver) Lookup(ctx context.Context, kind resource.Kind, query string) (resource.Candidate, error) {
	res, err := r.Resolve(ctx, kind, query)
	if err != nil {
		return resource.Candidate{}, err
	}
	if err := res.Err(); err != nil {
		return resource.Candidate{}, err
	}
	return res.Candidate, nil
}

// Resolve resolves query against dir.
//
// The returned error is non-nil only when the directory could not be
// queried; it is then a *CommunicationError. Every other outcome, including
// not-found and ambiguous, is reported through the Result.
func Resolve(ctx context.Context, dir resource.Directory, query string) (*Result, error) {
	kind := dir.Kind()
	res := &Result{Kind: kind, Query: query}

	// No resource has an empty key, so an empty query goes straight to the scan.
	if query != "" {
		c, err := dir.GetByExactKey(ctx, query)
		switch {
		case err == nil:
			res.Outcome = OutcomeResolved
			res.Candidate = c
			res.Source = MatchExact
			logger.Debug().Str("kind", string(kind)).Str("query", query).Str("id", c.Key).Msg("resolved by exact lookup")
			return res, nil
		case !errors.Is(err, resource.ErrNotFound):
			return nil, &CommunicationError{Kind: kind, Op: "lookup", Err: err}
		}
	}

	candidates, err := dir.List(ctx)
	if err != nil {
		return nil, &CommunicationError{Kind: kind, Op: "list", Err: err}
	}

	matched := matchCandidates(candidates, query)
	switch len(matched) {
	case 0:
		res.Outcome = OutcomeNotFound
		res.Suggestions = suggest(candidates, query, MaxSuggestions)
	case 1:
		res.Outcome = OutcomeResolved
		res.Candidate = matched[0]
		res.Source = MatchPartial
	default:
		res.Outcome = OutcomeAmbiguous
		res.Matches = matchNames(matched)
		res.Candidates = matched
	}

	logger.Debug().
		Str("kind", string(kind)).
		Str("query", query).
		Str("outcome", string(res.Outcome)).
		Int("candidates", len(candidates)).
		Int("matches", len(matched)).
		Msg("resolved by partial match")
	return res, nil
}

// matchCandidates returns the candidates whose key or any name contains
// query, case-insensitively, in listing order.
func matchCandidates(candidates []resource.Candidate, query string) []resource.Candidate {
	q := strings.ToLower(query)
	var out []resource.Candidate
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Key), q) || anyNameContains(c.Names, q) {
			out = append(out, c)
		}
	}
	return out
}

// suggest returns up to limit names containing query. Keys are ignored here
// even though the match step considers them.
func suggest(candidates []resource.Candidate, query string, limit int) []string {
	q := strings.ToLower(query)
	var out []string
	for _, c := range candidates {
		for _, n := range c.Names {
			if n == "" || !strings.Contains(strings.ToLower(n), q) {
				continue
			}
			out = append(out, n)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

// matchNames flattens the display names of every match, dropping duplicates
// while keeping first-seen order.
func matchNames(matched []resource.Candidate) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range matched {
		for _, n := range c.DisplayNames() {
			if seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func anyNameContains(names []string, q string) bool {
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), q) {
			return true
		}
	}
	return false
}
