// Package cabal implements connected-component cliques over similarity
// edges.
//
// WHAT IS A CLIQUE HERE?
// A clique is a group of names connected, directly or transitively, by
// the similarity edges added so far. Connectivity defines membership, not
// graph-theoretic completeness: three names joined in a chain form one
// clique even though the end points were never scored against each other
// above the threshold.
//
// REPRESENTATION:
// Members are tracked in a roaring bitmap keyed by the owning table's
// dense name indices. Because the table assigns indices in ascending
// lexicographic name order, the bitmap's ascending iteration doubles as
// sorted-name iteration, so member listings and lexicographic tie-breaks
// need no separate sort. Edges live in a small map keyed by the canonical
// (smaller, larger) index pair; inserting an existing pair overwrites its
// score.
package cabal

import (
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// Clique is one connected group of names together with the scored edges
// that connected them. Cliques are created and grown exclusively through
// a CliqueSet; they are never split, and two cliques combine when an edge
// connects a member of each.
type Clique struct {
	// id is stable for the clique's lifetime within its CliqueSet. Ids
	// strictly increase as cliques are created and are never reused,
	// even after a merge retires the absorbed clique's id.
	id uint64

	// table owns the name universe. Cliques store dense indices and map
	// them back to names through it on demand.
	table *PPMTable

	// members holds the dense name indices of every member.
	members *roaring.Bitmap

	// edges maps the canonical (smaller, larger) index pair to the score
	// that connected it.
	edges map[[2]uint32]uint32
}

func newClique(id uint64, table *PPMTable) *Clique {
	return &Clique{
		id:      id,
		table:   table,
		members: roaring.New(),
		edges:   make(map[[2]uint32]uint32),
	}
}

// add inserts the edge (l, r, ppm) and ensures both endpoints are
// members. Re-adding a pair overwrites its score.
func (c *Clique) add(l, r uint32, ppm uint32) {
	if r < l {
		l, r = r, l
	}
	c.edges[[2]uint32{l, r}] = ppm
	c.members.Add(l)
	c.members.Add(r)
}

// merge absorbs all of other's members and edges into c. The caller is
// responsible for discarding other afterwards.
func (c *Clique) merge(other *Clique) {
	c.members.Or(other.members)
	for pair, ppm := range other.edges {
		c.edges[pair] = ppm
	}
}

func (c *Clique) clone() *Clique {
	edges := make(map[[2]uint32]uint32, len(c.edges))
	for pair, ppm := range c.edges {
		edges[pair] = ppm
	}
	return &Clique{
		id:      c.id,
		table:   c.table,
		members: c.members.Clone(),
		edges:   edges,
	}
}

// ID returns the clique's identifier within its CliqueSet. Ids are not
// comparable across different sets.
func (c *Clique) ID() uint64 {
	return c.id
}

// Len returns the number of members.
func (c *Clique) Len() int {
	return int(c.members.GetCardinality())
}

// maxIncident returns the largest score on any edge touching member m,
// or 0 when no edge does.
func (c *Clique) maxIncident(m uint32) uint32 {
	max := uint32(0)
	for pair, ppm := range c.edges {
		if (pair[0] == m || pair[1] == m) && ppm > max {
			max = ppm
		}
	}
	return max
}

// Core returns the clique's representative member under a min-max rule:
// the member whose maximum incident edge score is smallest, meaning the
// member that is, at worst, least similar to anyone else in the group.
// Ties go to the lexicographically smallest name. A member with no
// incident edges counts as max 0.
//
// The ascending bitmap walk visits members in ascending name order, so
// keeping the first strict minimum implements the tie-break without any
// explicit name comparison.
func (c *Clique) Core() string {
	var coreIdx uint32
	var coreMax uint32
	found := false
	for it := c.members.Iterator(); it.HasNext(); {
		m := it.Next()
		incident := c.maxIncident(m)
		if !found || incident < coreMax {
			coreIdx = m
			coreMax = incident
			found = true
		}
	}
	if !found {
		return ""
	}
	return c.table.nameAt(coreIdx)
}

// MaxPPM returns the largest edge score in the clique, or 0 when the
// clique has no edges.
func (c *Clique) MaxPPM() uint32 {
	max := uint32(0)
	for _, ppm := range c.edges {
		if ppm > max {
			max = ppm
		}
	}
	return max
}

// Members returns every member name in ascending order.
func (c *Clique) Members() []string {
	out := make([]string, 0, c.members.GetCardinality())
	for it := c.members.Iterator(); it.HasNext(); {
		out = append(out, c.table.nameAt(it.Next()))
	}
	return out
}

// Export projects the clique into its comparable read-only form: the core
// name, the remaining members sorted ascending, and the maximum edge
// score.
func (c *Clique) Export() CliqueExport {
	core := c.Core()
	members := make([]string, 0, c.members.GetCardinality())
	for it := c.members.Iterator(); it.HasNext(); {
		name := c.table.nameAt(it.Next())
		if name != core {
			members = append(members, name)
		}
	}
	return CliqueExport{Core: core, Members: members, MaxPPM: c.MaxPPM()}
}

// CliqueExport is the read-only projection of a clique used for display,
// comparison and diffing. It is self-contained: plain strings, no handle
// back into the table.
type CliqueExport struct {
	// Core is the representative member, see Clique.Core.
	Core string

	// Members are the non-core members in ascending order.
	Members []string

	// MaxPPM is the largest edge score in the clique.
	MaxPPM uint32
}

// Compare orders exports by max score first and content second (core
// name, then member list element-wise, then member count). The content
// comparison makes the order total, so sorts over exports are fully
// deterministic even between cliques with equal scores.
func (e CliqueExport) Compare(other CliqueExport) int {
	if e.MaxPPM != other.MaxPPM {
		if e.MaxPPM < other.MaxPPM {
			return -1
		}
		return 1
	}
	if c := strings.Compare(e.Core, other.Core); c != 0 {
		return c
	}
	for i := 0; i < len(e.Members) && i < len(other.Members); i++ {
		if c := strings.Compare(e.Members[i], other.Members[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(e.Members) < len(other.Members):
		return -1
	case len(e.Members) > len(other.Members):
		return 1
	}
	return 0
}

// Equal reports whether two exports have identical content.
func (e CliqueExport) Equal(other CliqueExport) bool {
	return e.Compare(other) == 0
}

// String renders the export as "[core, member, member] max%: X.Y".
func (e CliqueExport) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(e.Core)
	for _, m := range e.Members {
		sb.WriteString(", ")
		sb.WriteString(m)
	}
	sb.WriteString("] max%: ")
	sb.WriteString(FormatPercent(e.MaxPPM))
	return sb.String()
}
