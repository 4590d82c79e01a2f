// Package cabal implements the threshold walk that drives clique
// evolution.
//
// HOW THE WALK WORKS:
// The driver pulls every edge out of the table, drops the ones above the
// requested limit, sorts the rest ascending by score, and then advances
// through threshold boundaries 0, step, 2*step and so on. At each
// boundary it first folds in every pending edge whose score fits under
// the boundary, then freezes the partition and diffs it against the
// previous boundary's frozen snapshot. So the export at boundary b
// always describes exactly the cliques formed by edges scoring at most
// b.
//
// Every boundary from 0 up to the one covering the limit is emitted
// exactly once, in ascending order. That includes the all-empty boundary
// at 0 when no edge scores that low, and any trailing boundaries after
// the last edge has been placed.
package cabal

import (
	"errors"
	"math"
	"sort"
)

// ErrInvalidStep is returned by EvolveCliques when the boundary step is
// zero.
var ErrInvalidStep = errors.New("cabal: threshold step must be positive")

// ThresholdExport is the diffed partition at one threshold boundary.
type ThresholdExport struct {
	// Boundary is the threshold score this export was taken at.
	Boundary uint32

	// Cliques diffs the partition at this boundary against the previous
	// boundary's partition.
	Cliques *CliqueSetExport
}

// EvolveCliques runs the full threshold walk over table.
//
// Edges scoring above limit are never added; they are filtered out before
// the walk so they cannot leak into the final snapshot. Boundaries
// advance by step from 0 to the smallest multiple of step that covers
// limit. When that multiple lies outside the 32-bit score range the
// final boundary is clamped to the range's top, which still covers every
// admitted edge because the limit itself is a uint32.
func EvolveCliques(table *PPMTable, limit, step uint32) ([]ThresholdExport, error) {
	if step == 0 {
		return nil, ErrInvalidStep
	}

	edges := make([]Edge, 0, table.EdgeCount())
	for it := table.Edges(); it.HasNext(); {
		e := it.Next()
		if e.PPM <= limit {
			edges = append(edges, e)
		}
	}
	// Stable keeps equal scores in table iteration order, which keeps
	// runs reproducible.
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].PPM < edges[j].PPM })

	// The final boundary is the smallest multiple of step at or above
	// the limit. Walk in 64 bits so the loop arithmetic cannot wrap,
	// and clamp the final boundary into the score type's range: the
	// limit itself fits in 32 bits, so a clamped boundary still covers
	// every admitted edge.
	last := uint64(limit) / uint64(step) * uint64(step)
	if last < uint64(limit) {
		last += uint64(step)
	}
	if last > math.MaxUint32 {
		last = math.MaxUint32
	}

	previous := NewCliqueSet(table)
	current := NewCliqueSet(table)
	exports := make([]ThresholdExport, 0, last/uint64(step)+1)

	next := 0
	for b := uint64(0); ; b += uint64(step) {
		if b >= last {
			b = last
		}
		for next < len(edges) && uint64(edges[next].PPM) <= b {
			e := edges[next]
			if err := current.Add(e.Left, e.Right, e.PPM); err != nil {
				// Unreachable for edges produced by the table itself.
				return nil, err
			}
			next++
		}
		exports = append(exports, ThresholdExport{
			Boundary: uint32(b),
			Cliques:  current.Export(previous),
		})
		if b == last {
			return exports, nil
		}
		previous = current.Clone()
	}
}
