// Package resource defines the read-only view over Docker resources that the
// resolver works against. A Directory lists every resource of one kind and
// performs exact lookups; implementations live in internal/docker.
package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind identifies a resource type managed by the Docker engine.
type Kind string

const (
	KindContainer Kind = "container"
	KindImage     Kind = "image"
	KindNetwork   Kind = "network"
	KindVolume    Kind = "volume"
)

// NoneName is the display name used for resources without a human label
// (untagged images).
const NoneName = "<none>"

// Kinds returns every supported kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindContainer, KindImage, KindNetwork, KindVolume}
}

// ParseKind converts user input ("containers", "Image", ...) to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown resource kind %q (expected one of: container, image, network, volume)", s)
}

// Title returns the kind capitalized for messages ("Container").
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Plural returns the plural form used in messages ("containers").
func (k Kind) Plural() string {
	return string(k) + "s"
}

// Candidate is a single resource as seen by a listing or lookup call.
type Candidate struct {
	Kind Kind `json:"kind"`
	// Key is the runtime-assigned unique identifier. Volumes are keyed by name.
	Key string `json:"id"`
	// Names holds the human labels: the container name, the image repo tags,
	// the network or volume name. It may be empty.
	Names []string `json:"names"`
}

// DisplayName returns the first human label, or NoneName when there is none.
func (c Candidate) DisplayName() string {
	for _, n := range c.Names {
		if n != "" {
			return n
		}
	}
	return NoneName
}

// DisplayNames returns every human label, or a single NoneName entry.
func (c Candidate) DisplayNames() []string {
	var out []string
	for _, n := range c.Names {
		if n != "" {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return []string{NoneName}
	}
	return out
}

// ErrNotFound is returned by Directory.GetByExactKey when no resource has the
// given key or canonical name.
var ErrNotFound = errors.New("resource not found")

// Directory is a read-only view over one kind of resource.
//
// List returns the current resources in the runtime's listing order.
// GetByExactKey performs a single direct lookup by key or canonical name and
// returns ErrNotFound (possibly wrapped) when nothing matches. Any other
// error means the runtime could not answer.
type Directory interface {
	Kind() Kind
	List(ctx context.Context) ([]Candidate, error)
	GetByExactKey(ctx context.Context, key string) (Candidate, error)
}
