// Package catalog holds the read-only CPU, GPU and motherboard reference sets.
//
// A Catalog is built once and never mutated afterwards, so any number of
// goroutines may read it without locking. Lookup is by exact name; List and
// Search preserve the order records appear in the source file.
package catalog

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/okian/bottleneck/internal/domain/model"
)

// Sentinel errors for this package.
var (
	ErrNotFound       = errors.New("component not found")
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// NotFoundError reports which name was missing from which catalog.
// It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Kind model.Kind
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Catalog is an immutable, ordered set of records keyed by unique name.
type Catalog[T model.Named] struct {
	kind  model.Kind
	items []T
	index map[string]int
}

// New builds a catalog from items. The slice is copied. Empty and duplicate
// names are rejected with ErrInvalidCatalog.
func New[T model.Named](kind model.Kind, items []T) (*Catalog[T], error) {
	c := &Catalog[T]{
		kind:  kind,
		items: make([]T, len(items)),
		index: make(map[string]int, len(items)),
	}
	copy(c.items, items)
	for i, it := range c.items {
		name := it.ComponentName()
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: %s entry %d has no name", ErrInvalidCatalog, kind, i)
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate %s name %q", ErrInvalidCatalog, kind, name)
		}
		c.index[name] = i
	}
	return c, nil
}

// Kind returns the catalog kind.
func (c *Catalog[T]) Kind() model.Kind { return c.kind }

// Len returns the number of records.
func (c *Catalog[T]) Len() int { return len(c.items) }

// Lookup returns the record with exactly this name.
func (c *Catalog[T]) Lookup(name string) (T, error) {
	i, ok := c.index[name]
	if !ok {
		var zero T
		return zero, &NotFoundError{Kind: c.kind, Name: name}
	}
	return c.items[i], nil
}

// List returns a copy of all records in catalog order.
func (c *Catalog[T]) List() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// All iterates records in catalog order without copying the backing slice.
func (c *Catalog[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, it := range c.items {
			if !yield(it) {
				return
			}
		}
	}
}

// Search returns records whose name contains query, case-insensitively, in
// catalog order. An empty query matches everything. limit <= 0 means no limit.
func (c *Catalog[T]) Search(query string, limit int) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]T, 0)
	for _, it := range c.items {
		if q != "" && !strings.Contains(strings.ToLower(it.ComponentName()), q) {
			continue
		}
		out = append(out, it)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Names returns record names in catalog order.
func (c *Catalog[T]) Names() []string {
	out := make([]string, len(c.items))
	for i, it := range c.items {
		out[i] = it.ComponentName()
	}
	return out
}
