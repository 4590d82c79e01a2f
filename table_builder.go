package cabal

import (
	"errors"
	"fmt"
	"sort"
)

// ErrIncompleteGraph is returned by PPMTableBuilder.Build when at least
// one pair of known names has no score. The builder keeps all of its
// accumulated data, so callers can inspect Missing, add the absent pairs
// and build again.
var ErrIncompleteGraph = errors.New("cabal: similarity graph is not complete")

// PPMTableBuilder accumulates undirected (name, name, score) triples and
// freezes them into an immutable PPMTable once every pair of known names
// has a score.
//
// The builder places no constraints while accumulating: pairs may arrive
// in any order, either endpoint first, and adding a pair that already has
// a score overwrites it (last write wins, intentionally).
//
// Not safe for concurrent use.
type PPMTableBuilder struct {
	// ppms nests scores under the canonical (smaller, larger) ordering
	// of each pair, so every unordered pair has exactly one slot.
	ppms map[string]map[string]uint32

	// names is every name seen by Add, whether or not all of its pairs
	// have scores yet.
	names map[string]struct{}
}

// NewPPMTableBuilder returns an empty builder.
func NewPPMTableBuilder() *PPMTableBuilder {
	return &PPMTableBuilder{
		ppms:  make(map[string]map[string]uint32),
		names: make(map[string]struct{}),
	}
}

// Add records the score for the unordered pair (l, r) and registers both
// names. The pair is canonicalized internally, so Add(a, b, s) and
// Add(b, a, s) are the same call. Re-adding a pair overwrites its score.
// Add always succeeds.
//
// A self-pair (l equal to r) registers the name; the score is retained in
// the accumulator but never surfaces in a built table.
func (b *PPMTableBuilder) Add(l, r string, ppm uint32) {
	if r < l {
		l, r = r, l
	}
	row, ok := b.ppms[l]
	if !ok {
		row = make(map[string]uint32)
		b.ppms[l] = row
	}
	row[r] = ppm
	b.names[l] = struct{}{}
	b.names[r] = struct{}{}
}

// Len returns the number of distinct names seen so far.
func (b *PPMTableBuilder) Len() int {
	return len(b.names)
}

// Missing returns every pair of known names that has no score yet, in
// canonical order (both within each pair and across the list). An empty
// result means Build will succeed.
func (b *PPMTableBuilder) Missing() [][2]string {
	names := b.sortedNames()
	var missing [][2]string
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if _, ok := b.ppms[names[i]][names[j]]; !ok {
				missing = append(missing, [2]string{names[i], names[j]})
			}
		}
	}
	return missing
}

// Equal reports whether two builders hold the same name set and the same
// pair scores. A builder whose Build failed compares equal to its state
// just before the call.
func (b *PPMTableBuilder) Equal(other *PPMTableBuilder) bool {
	if other == nil || len(b.names) != len(other.names) || len(b.ppms) != len(other.ppms) {
		return false
	}
	for name := range b.names {
		if _, ok := other.names[name]; !ok {
			return false
		}
	}
	for l, row := range b.ppms {
		otherRow, ok := other.ppms[l]
		if !ok || len(row) != len(otherRow) {
			return false
		}
		for r, ppm := range row {
			otherPPM, ok := otherRow[r]
			if !ok || otherPPM != ppm {
				return false
			}
		}
	}
	return true
}

// Build validates that the accumulated scores form a complete graph and
// freezes them into an immutable PPMTable.
//
// VALIDATION:
// Every pair of distinct known names must have a score. If any pair is
// missing, Build returns an error wrapping ErrIncompleteGraph and leaves
// the builder untouched, so the caller still holds the full accumulator
// state and can repair it.
//
// CONSTRUCTION:
// Names are sorted ascending and assigned dense indices 0..n-1 in that
// order, then the packed upper-triangular matrix is filled row by row
// from the accumulator. Both steps are O(n^2), which is the size of the
// output and therefore the floor for any complete-graph build.
//
// Build reads but never mutates the builder, so the builder remains
// usable afterwards.
func (b *PPMTableBuilder) Build() (*PPMTable, error) {
	missing := b.Missing()
	if len(missing) > 0 {
		n := len(b.names)
		return nil, fmt.Errorf("%d of %d pairs have no score: %w", len(missing), n*(n-1)/2, ErrIncompleteGraph)
	}

	names := b.sortedNames()
	n := len(names)

	index := make(map[string]uint32, n)
	for i, name := range names {
		index[name] = uint32(i)
	}

	// Row-major fill matches pairIndex's layout exactly.
	ppms := make([]uint32, n*(n-1)/2)
	k := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			ppms[k] = b.ppms[names[i]][names[j]]
			k++
		}
	}

	return &PPMTable{names: names, index: index, ppms: ppms}, nil
}

func (b *PPMTableBuilder) sortedNames() []string {
	names := make([]string, 0, len(b.names))
	for name := range b.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
