// Package cabal implements the clique partition and its incremental
// union algorithm.
//
// HOW CLIQUE EVOLUTION WORKS:
// Edges are fed to a CliqueSet one at a time, typically in ascending
// score order. Each edge either starts a new clique, extends an existing
// one, adds redundant connectivity inside one, or fuses two cliques into
// one. This is union-by-edge-insertion: a simplified union-find where
// merges are driven by explicit edges and every component keeps its full
// edge set instead of collapsing to a representative, because the edges
// carry the scores later needed for core selection and display.
//
// TIME COMPLEXITY:
//   - Add: O(1) expected for the containing-clique lookups (a member
//     index map replaces the original's linear scan over cliques), plus
//     O(m) bitmap work on a merge, where m is the absorbed clique's size.
//   - Export: O(k * p) intersection tests for k current and p prior
//     cliques, each test a fast bitmap operation.
package cabal

import (
	"errors"
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring"
)

// ErrUnknownName is returned by CliqueSet.Add when an endpoint is not
// part of the owning table's name set.
var ErrUnknownName = errors.New("cabal: name is not in the similarity table")

// CliqueSet partitions the names touched so far into disjoint cliques.
// A name belongs to at most one clique at a time. Sets are bound to the
// table whose names they partition and accept only edges between that
// table's names.
//
// Not safe for concurrent use; threshold snapshots are taken with Clone,
// never by sharing.
type CliqueSet struct {
	table *PPMTable

	// cliques holds the live cliques keyed by id. Retired ids (absorbed
	// in a merge) are never reused.
	cliques map[uint64]*Clique

	// memberOf maps a member's dense name index to its clique id.
	memberOf map[uint32]uint64

	// assigned is the union of all clique member bitmaps: every name
	// currently inside any clique. Kept incrementally so diffing against
	// a prior set can test "was this name anywhere before" with one
	// bitmap operation.
	assigned *roaring.Bitmap

	// nextID is the id the next new clique will take. Starts at 1 and
	// only ever increases.
	nextID uint64
}

// NewCliqueSet returns an empty partition over table's name universe.
func NewCliqueSet(table *PPMTable) *CliqueSet {
	return &CliqueSet{
		table:    table,
		cliques:  make(map[uint64]*Clique),
		memberOf: make(map[uint32]uint64),
		assigned: roaring.New(),
		nextID:   1,
	}
}

// Len returns the number of live cliques.
func (s *CliqueSet) Len() int {
	return len(s.cliques)
}

// Cliques returns the live cliques in ascending id order, which is their
// creation order.
func (s *CliqueSet) Cliques() []*Clique {
	out := make([]*Clique, 0, len(s.cliques))
	for _, c := range s.cliques {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Clique returns the clique containing name, or nil when the name is not
// yet part of any clique.
func (s *CliqueSet) Clique(name string) *Clique {
	idx, ok := s.table.index[name]
	if !ok {
		return nil
	}
	id, ok := s.memberOf[idx]
	if !ok {
		return nil
	}
	return s.cliques[id]
}

// Add inserts the edge (l, r, ppm) into the partition. Both names must
// belong to the owning table.
//
// The five cases:
//  1. Neither endpoint is in a clique: a new clique is created around the
//     edge and takes the next unused id.
//  2. Only l is in a clique: that clique gains r via the edge.
//  3. Only r is in a clique: symmetric.
//  4. Both are in the same clique: the edge is recorded anyway, since
//     redundant connectivity still matters for max-score purposes.
//  5. Each is in a different clique: the two merge. The clique containing
//     l survives with its id, the other's id is retired permanently, then
//     the connecting edge is added to the merged clique.
func (s *CliqueSet) Add(l, r string, ppm uint32) error {
	li, ok := s.table.index[l]
	if !ok {
		return fmt.Errorf("%q: %w", l, ErrUnknownName)
	}
	ri, ok := s.table.index[r]
	if !ok {
		return fmt.Errorf("%q: %w", r, ErrUnknownName)
	}

	lID, lFound := s.memberOf[li]
	rID, rFound := s.memberOf[ri]

	switch {
	case !lFound && !rFound:
		c := newClique(s.nextID, s.table)
		s.nextID++
		c.add(li, ri, ppm)
		s.cliques[c.id] = c
		s.memberOf[li] = c.id
		s.memberOf[ri] = c.id

	case lFound && !rFound:
		c := s.cliques[lID]
		c.add(li, ri, ppm)
		s.memberOf[ri] = c.id

	case !lFound && rFound:
		c := s.cliques[rID]
		c.add(li, ri, ppm)
		s.memberOf[li] = c.id

	case lID == rID:
		s.cliques[lID].add(li, ri, ppm)

	default:
		left := s.cliques[lID]
		right := s.cliques[rID]
		left.merge(right)
		delete(s.cliques, rID)
		// Re-home the absorbed members before the edge goes in.
		for it := right.members.Iterator(); it.HasNext(); {
			s.memberOf[it.Next()] = left.id
		}
		left.add(li, ri, ppm)
	}

	s.assigned.Add(li)
	s.assigned.Add(ri)
	return nil
}

// Clone returns a deep copy: cliques, membership, the assigned bitmap and
// the id counter are all independent of the receiver afterwards. Clones
// are how threshold snapshots stay frozen while the original keeps
// accumulating edges.
func (s *CliqueSet) Clone() *CliqueSet {
	cliques := make(map[uint64]*Clique, len(s.cliques))
	for id, c := range s.cliques {
		cliques[id] = c.clone()
	}
	memberOf := make(map[uint32]uint64, len(s.memberOf))
	for m, id := range s.memberOf {
		memberOf[m] = id
	}
	return &CliqueSet{
		table:    s.table,
		cliques:  cliques,
		memberOf: memberOf,
		assigned: s.assigned.Clone(),
		nextID:   s.nextID,
	}
}
