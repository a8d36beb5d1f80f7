// Package resourcetest provides an in-memory resource.Directory for tests.
package resourcetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/schmitthub/dockmcp/internal/resource"
)

// Directory is an in-memory resource.Directory.
//
// GetByExactKey matches a candidate whose Key or any Name equals the key
// verbatim. ListErr and LookupErr inject failures. Calls records the method
// names invoked, in order.
type Directory struct {
	K          resource.Kind
	Candidates []resource.Candidate

	ListErr   error
	LookupErr error

	mu    sync.Mutex
	Calls []string
}

// New creates a Directory of kind k holding candidates.
func New(k resource.Kind, candidates ...resource.Candidate) *Directory {
	for i := range candidates {
		candidates[i].Kind = k
	}
	return &Directory{K: k, Candidates: candidates}
}

func (d *Directory) record(method string) {
	d.mu.Lock()
	d.Calls = append(d.Calls, method)
	d.mu.Unlock()
}

// Kind implements resource.Directory.
func (d *Directory) Kind() resource.Kind { return d.K }

// List implements resource.Directory.
func (d *Directory) List(_ context.Context) ([]resource.Candidate, error) {
	d.record("List")
	if d.ListErr != nil {
		return nil, d.ListErr
	}
	out := make([]resource.Candidate, len(d.Candidates))
	copy(out, d.Candidates)
	return out, nil
}

// GetByExactKey implements resource.Directory.
func (d *Directory) GetByExactKey(_ context.Context, key string) (resource.Candidate, error) {
	d.record("GetByExactKey")
	if d.LookupErr != nil {
		return resource.Candidate{}, d.LookupErr
	}
	for _, c := range d.Candidates {
		if c.Key == key {
			return c, nil
		}
		for _, n := range c.Names {
			if n == key {
				return c, nil
			}
		}
	}
	return resource.Candidate{}, fmt.Errorf("no such %s: %s: %w", d.K, key, resource.ErrNotFound)
}

// Source serves Directories by kind. It satisfies resolver.Source.
type Source map[resource.Kind]*Directory

// Directory returns the directory registered for kind.
func (s Source) Directory(kind resource.Kind) (resource.Directory, error) {
	d, ok := s[kind]
	if !ok {
		return nil, fmt.Errorf("no directory for %s", kind)
	}
	return d, nil
}
