// Package versions maps decompile identifiers to release labels and orders
// release labels for display.
package versions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Unknown is the label of an identifier with no known release.
const Unknown = "unknown"

// ErrEmptyCatalog is returned when the source yields no identifiers at all.
var ErrEmptyCatalog = errors.New("version catalog is empty")

// Source fetches the full identifier → release label mapping.
type Source interface {
	Load(ctx context.Context) (map[string]string, error)
}

// Resolver resolves a single identifier.
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (string, error)
}

// Catalog memoizes the mapping of a Source for its lifetime. The first
// successful load is kept; a failed load is retried on the next call.
// Safe for concurrent use.
type Catalog struct {
	src Source

	mu     sync.Mutex
	loaded bool
	ids    map[string]string
}

// NewCatalog creates a catalog backed by src.
func NewCatalog(src Source) *Catalog {
	return &Catalog{src: src}
}

func (c *Catalog) ensureLoaded(ctx context.Context) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.ids, nil
	}

	ids, err := c.src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load version catalog: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrEmptyCatalog
	}

	c.ids = ids
	c.loaded = true
	return c.ids, nil
}

// Resolve returns the release label of identifier, or Unknown when the
// catalog has no entry for it.
func (c *Catalog) Resolve(ctx context.Context, identifier string) (string, error) {
	ids, err := c.ensureLoaded(ctx)
	if err != nil {
		return "", err
	}
	if label, ok := ids[identifier]; ok {
		return label, nil
	}
	return Unknown, nil
}

// Labels returns every distinct release label, ordered by Weight.
func (c *Catalog) Labels(ctx context.Context) ([]string, error) {
	ids, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(ids))
	labels := make([]string, 0, len(ids))
	for _, label := range ids {
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}

	// Map order is random; sort by name first so equal weights are stable.
	sort.Strings(labels)
	Sort(labels)
	return labels, nil
}

// Invalidate drops the memoized mapping so the next call reloads it.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.ids = nil
}

// StaticSource is a fixed mapping, useful for tests and offline use.
type StaticSource map[string]string

// Load returns a copy of the mapping.
func (s StaticSource) Load(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out, nil
}
