// Package cabal implements a compact symmetric similarity table.
//
// WHAT IS A PPM TABLE?
// A PPM table stores one similarity score for every unordered pair of names
// in a closed set, so it always represents a complete weighted graph. The
// score scale is parts-per-million (see ppm.go), hence the name.
//
// HOW LOOKUP WORKS:
// Names are interned to dense integer indices assigned in ascending
// lexicographic order. Because score(a, b) equals score(b, a), only the
// upper triangle of the full n x n matrix is stored: n*(n-1)/2 entries in
// one flat slice. A lookup canonicalizes the pair (smaller index first)
// and computes the slice offset directly, so it costs two map probes plus
// constant arithmetic.
//
// MEMORY REQUIREMENTS:
// - 4 bytes per stored score
// - Total: 4 * n*(n-1)/2 bytes plus the interned names, roughly half of a
//   naive full-matrix layout and far below a nested-map representation
//
// GUARANTEES:
//   - Immutable once built: tables are only created by PPMTableBuilder or
//     ReadFrom, never mutated afterwards, and are therefore safe to share
//     across concurrent readers without locking.
//   - Complete: every pair of distinct known names has a score. A miss can
//     only mean an unknown name, never a missing pair.
//   - Deterministic iteration: Edges walks the pairs in index order, which
//     is stable for a given name set.
package cabal

import "fmt"

// PPMTable is an immutable similarity table over an interned name set.
//
// The zero value is an empty table with no names; populate it through
// PPMTableBuilder.Build or PPMTable.ReadFrom.
type PPMTable struct {
	// names maps each dense index to its name. Sorted ascending, so
	// index order and lexicographic name order coincide.
	names []string

	// index maps each name back to its dense index. Built together with
	// names and never mutated independently, which is what keeps the
	// name<->index bijection intact for the table's lifetime.
	index map[string]uint32

	// ppms holds the packed upper-triangular score matrix, row-major.
	// See pairIndex for the layout.
	ppms []uint32
}

// Get returns the score for the unordered pair (l, r). The second return
// is false when either name is unknown to the table; known pairs always
// have a score because the table is complete by construction. Asking for
// a name paired with itself also reports false, since self-pairs are
// never stored.
func (t *PPMTable) Get(l, r string) (uint32, bool) {
	li, lok := t.index[l]
	ri, rok := t.index[r]
	if !lok || !rok || li == ri {
		return 0, false
	}
	// Canonicalize so the smaller index comes first.
	if ri < li {
		li, ri = ri, li
	}
	return t.ppms[t.pairIndex(int(li), int(ri))], true
}

// Contains reports whether name is part of the table's name set.
func (t *PPMTable) Contains(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Names returns a copy of the name set in ascending order.
func (t *PPMTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of names in the table.
func (t *PPMTable) Len() int {
	return len(t.names)
}

// EdgeCount returns the number of scored pairs, always n*(n-1)/2 for n
// names.
func (t *PPMTable) EdgeCount() int {
	return len(t.ppms)
}

// Equal reports whether two tables describe the same edge set: the same
// names and the same score for every pair. Internal index assignment is
// not compared, so tables built from the same triples in different
// insertion orders compare equal.
func (t *PPMTable) Equal(other *PPMTable) bool {
	if other == nil || len(t.names) != len(other.names) || len(t.ppms) != len(other.ppms) {
		return false
	}
	for _, name := range t.names {
		if !other.Contains(name) {
			return false
		}
	}
	for it := t.Edges(); it.HasNext(); {
		e := it.Next()
		ppm, ok := other.Get(e.Left, e.Right)
		if !ok || ppm != e.PPM {
			return false
		}
	}
	return true
}

// pairIndex maps an index pair (i, j) with i < j onto the packed
// upper-triangular score slice.
//
// STORAGE LAYOUT:
// Row i holds the scores pairing name i with every later name, so row 0
// has n-1 entries, row 1 has n-2, and the final row has none:
//
//	row 0: (0,1) (0,2) (0,3) ... (0,n-1)
//	row 1:       (1,2) (1,3) ... (1,n-1)
//	row 2:             (2,3) ... (2,n-1)
//
// Rows are concatenated into one flat slice. Row i starts at offset
// i*(n-1) - i*(i-1)/2, and the score for (i, j) sits j-i-1 entries into
// that row.
func (t *PPMTable) pairIndex(i, j int) int {
	n := len(t.names)
	return i*(n-1) - i*(i-1)/2 + (j - i - 1)
}

// nameAt maps a dense index back to its name. Indices handed out by this
// table are always valid; anything else means the name<->index bijection
// was broken, which is a construction bug, so failing loudly beats
// returning wrong data.
func (t *PPMTable) nameAt(i uint32) string {
	if int(i) >= len(t.names) {
		panic(fmt.Sprintf("cabal: index %d outside name bijection of size %d", i, len(t.names)))
	}
	return t.names[i]
}

// Edge is a single undirected scored pair produced by table iteration.
type Edge struct {
	Left  string
	Right string
	PPM   uint32
}

// EdgeIterator walks every unordered pair of a table exactly once, outer
// index ascending and inner index ascending. The order is deterministic
// for a given table and repeats across iterators, but it is an index
// order, not a lexicographic order over pairs.
//
// Usage follows the usual iterator shape:
//
//	for it := table.Edges(); it.HasNext(); {
//		edge := it.Next()
//		// ...
//	}
type EdgeIterator struct {
	table *PPMTable
	i, j  int
}

// Edges returns a fresh iterator over all scored pairs. Each call starts
// a new pass from the first pair.
func (t *PPMTable) Edges() *EdgeIterator {
	return &EdgeIterator{table: t, i: 0, j: 1}
}

// HasNext reports whether another edge remains.
func (it *EdgeIterator) HasNext() bool {
	n := len(it.table.names)
	return it.i < n && it.j < n
}

// Next returns the next edge and advances the iterator. Next must not be
// called after HasNext has reported false.
func (it *EdgeIterator) Next() Edge {
	t := it.table
	e := Edge{
		Left:  t.names[it.i],
		Right: t.names[it.j],
		PPM:   t.ppms[t.pairIndex(it.i, it.j)],
	}
	it.j++
	if it.j == len(t.names) {
		it.i++
		it.j = it.i + 1
	}
	return e
}
