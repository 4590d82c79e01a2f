// Package cabal implements diff-based export of a clique partition
// against the partition at the previous threshold.
//
// HOW THE DIFF IS CLASSIFIED:
// Every current clique is compared against the prior set by membership
// overlap. A clique that shares no member with any prior clique is New.
// Otherwise it is Old, annotated with the prior cliques it grew out of
// (possibly just itself, possibly several that it fused) and with the
// members that were in no clique at all before.
//
// DETERMINISM:
// Exports are sorted with all Old entries before all New entries, within
// each group ascending by max score, and score ties broken by export
// content. Content ties cannot occur between distinct cliques of one set
// because their member lists are disjoint, so the resulting order is
// total and identical across runs.
package cabal

import (
	"fmt"
	"sort"
	"strings"
)

// CliqueDiff relates one current clique to the previous threshold's
// partition.
type CliqueDiff struct {
	// Clique is the current clique's export.
	Clique CliqueExport

	// Merged lists the exports of every prior clique sharing at least
	// one member with this one, ascending by max score. Empty for a New
	// clique.
	Merged []CliqueExport

	// Added lists the members that belonged to no prior clique, in
	// ascending order. Empty when the clique only re-groups names that
	// were already clustered before.
	Added []string
}

// IsNew reports whether the clique shares no member with any prior
// clique.
func (d CliqueDiff) IsNew() bool {
	return len(d.Merged) == 0
}

// compare orders diffs for export: Old entries sort before New entries,
// then the clique exports' score-and-content order decides.
func (d CliqueDiff) compare(other CliqueDiff) int {
	switch {
	case d.IsNew() && !other.IsNew():
		return 1
	case !d.IsNew() && other.IsNew():
		return -1
	}
	return d.Clique.Compare(other.Clique)
}

// String renders the diff in report form:
//
//	Old: [a, b, c] max%: 2.1
//	     Absorbed 2:
//	          [a, b] max%: 1.0
//	          [c, d] max%: 2.0
//	     Added: e
//
// The Absorbed listing appears only when more than one prior clique was
// folded in, and the Added listing only when new members arrived.
func (d CliqueDiff) String() string {
	var sb strings.Builder
	if d.IsNew() {
		fmt.Fprintf(&sb, "New: %s\n", d.Clique)
		return sb.String()
	}
	fmt.Fprintf(&sb, "Old: %s\n", d.Clique)
	if len(d.Merged) > 1 {
		fmt.Fprintf(&sb, "     Absorbed %d:\n", len(d.Merged))
		for _, m := range d.Merged {
			fmt.Fprintf(&sb, "          %s\n", m)
		}
	}
	if len(d.Added) > 0 {
		sb.WriteString("     Added: ")
		for _, name := range d.Added {
			sb.WriteString(name)
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// CliqueSetExport is the ordered diff of a whole partition against the
// previous threshold's partition.
type CliqueSetExport struct {
	Cliques []CliqueDiff
}

// String concatenates the element renderings. An empty export renders as
// the empty string.
func (e *CliqueSetExport) String() string {
	var sb strings.Builder
	for _, d := range e.Cliques {
		sb.WriteString(d.String())
	}
	return sb.String()
}

// Export diffs the current partition against previous, the partition
// frozen at the prior threshold boundary. Both sets must be bound to the
// same table. A nil previous counts as an empty partition, so every
// current clique classifies as New.
//
// For each current clique:
//   - Merged collects the exports of prior cliques whose membership
//     intersects it, found with bitmap intersection tests. An empty
//     Merged list marks the element New, and only Old elements carry an
//     added-member list.
//   - Added collects its members absent from every prior clique, computed
//     by subtracting the prior set's assigned bitmap. The ascending
//     bitmap walk yields the names already sorted.
//
// The element ordering is the deterministic Old-before-New order
// described on CliqueDiff.compare.
func (s *CliqueSet) Export(previous *CliqueSet) *CliqueSetExport {
	if previous == nil {
		previous = NewCliqueSet(s.table)
	}
	prior := previous.Cliques()

	elements := make([]CliqueDiff, 0, len(s.cliques))
	for _, c := range s.Cliques() {
		var merged []CliqueExport
		for _, p := range prior {
			if c.members.Intersects(p.members) {
				merged = append(merged, p.Export())
			}
		}
		sort.Slice(merged, func(i, j int) bool { return merged[i].Compare(merged[j]) < 0 })

		// Only Old elements carry an added list; for a New clique every
		// member is new, which the classification already says.
		var added []string
		if len(merged) > 0 {
			addedBitmap := c.members.Clone()
			addedBitmap.AndNot(previous.assigned)
			for it := addedBitmap.Iterator(); it.HasNext(); {
				added = append(added, s.table.nameAt(it.Next()))
			}
		}

		elements = append(elements, CliqueDiff{
			Clique: c.Export(),
			Merged: merged,
			Added:  added,
		})
	}

	sort.Slice(elements, func(i, j int) bool { return elements[i].compare(elements[j]) < 0 })
	return &CliqueSetExport{Cliques: elements}
}
