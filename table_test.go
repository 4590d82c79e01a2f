package cabal

import (
	"math/rand"
	"testing"
)

// ============================================================================
// LOOKUP TESTS
// ============================================================================

func TestPPMTable_Get(t *testing.T) {
	table := buildTestTable(t, []testTriple{
		{"a", "b", 10},
		{"a", "c", 20},
		{"b", "c", 14},
	})

	tests := []struct {
		name   string
		l, r   string
		want   uint32
		wantOK bool
	}{
		{name: "pair in canonical order", l: "a", r: "b", want: 10, wantOK: true},
		{name: "pair in reverse order", l: "b", r: "a", want: 10, wantOK: true},
		{name: "last pair", l: "b", r: "c", want: 14, wantOK: true},
		{name: "unknown left name", l: "x", r: "a", wantOK: false},
		{name: "unknown right name", l: "a", r: "x", wantOK: false},
		{name: "both names unknown", l: "x", r: "y", wantOK: false},
		{name: "self pair", l: "a", r: "a", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.Get(tt.l, tt.r)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if ok && got != tt.want {
				t.Errorf("expected score %d, got %d", tt.want, got)
			}
		})
	}
}

func TestPPMTable_GetIsSymmetric(t *testing.T) {
	table := buildTestTable(t, completeTriples(0, "a", "b", "c", "d", "e"))
	names := table.Names()
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			ab, okAB := table.Get(names[i], names[j])
			ba, okBA := table.Get(names[j], names[i])
			if !okAB || !okBA || ab != ba {
				t.Errorf("asymmetric lookup for (%s, %s): %d/%v vs %d/%v",
					names[i], names[j], ab, okAB, ba, okBA)
			}
		}
	}
}

func TestPPMTable_ContainsAndNames(t *testing.T) {
	table := buildTestTable(t, []testTriple{
		{"zeta", "alpha", 1},
		{"zeta", "mid", 2},
		{"alpha", "mid", 3},
	})

	for _, name := range []string{"alpha", "mid", "zeta"} {
		if !table.Contains(name) {
			t.Errorf("expected table to contain %q", name)
		}
	}
	if table.Contains("omega") {
		t.Error("expected table not to contain an unknown name")
	}

	want := []string{"alpha", "mid", "zeta"}
	got := table.Names()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected names %v, got %v", want, got)
		}
	}

	// Names returns a copy, not the internal slice.
	got[0] = "mutated"
	if !table.Contains("alpha") || table.Names()[0] != "alpha" {
		t.Error("mutating the returned name slice must not affect the table")
	}
}

// ============================================================================
// EDGE ITERATION TESTS
// ============================================================================

func TestPPMTable_EdgesIndexPacking(t *testing.T) {
	// The canonical packing scenario: three names, three known scores,
	// the iterator must surface exactly that edge set in index order.
	table := buildTestTable(t, []testTriple{
		{"a", "b", 10},
		{"a", "c", 20},
		{"b", "c", 14},
	})

	want := []Edge{
		{Left: "a", Right: "b", PPM: 10},
		{Left: "a", Right: "c", PPM: 20},
		{Left: "b", Right: "c", PPM: 14},
	}

	var got []Edge
	for it := table.Edges(); it.HasNext(); {
		got = append(got, it.Next())
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d edges, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestPPMTable_EdgesRestartable(t *testing.T) {
	table := buildTestTable(t, completeTriples(7, "a", "b", "c", "d"))

	var first, second []Edge
	for it := table.Edges(); it.HasNext(); {
		first = append(first, it.Next())
	}
	for it := table.Edges(); it.HasNext(); {
		second = append(second, it.Next())
	}

	if len(first) != table.EdgeCount() || len(second) != table.EdgeCount() {
		t.Fatalf("expected %d edges per pass, got %d and %d", table.EdgeCount(), len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("edge %d differs between passes: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestPPMTable_EdgesEmptyAndSingle(t *testing.T) {
	empty := buildTestTable(t, nil)
	if it := empty.Edges(); it.HasNext() {
		t.Error("empty table should have no edges")
	}

	// A single name has no pairs either.
	b := NewPPMTableBuilder()
	b.Add("solo", "solo", 0)
	single, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	if it := single.Edges(); it.HasNext() {
		t.Error("single-name table should have no edges")
	}
}

// ============================================================================
// EQUALITY TESTS
// ============================================================================

func TestPPMTable_EqualOrderIndependent(t *testing.T) {
	triples := []testTriple{
		{"a", "b", 10},
		{"a", "c", 20},
		{"a", "d", 30},
		{"b", "c", 14},
		{"b", "d", 25},
		{"c", "d", 5},
	}
	reference := buildTestTable(t, triples)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]testTriple, len(triples))
		copy(shuffled, triples)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		// Flip endpoint order on odd trials as well.
		if trial%2 == 1 {
			for i, tr := range shuffled {
				shuffled[i] = testTriple{tr.r, tr.l, tr.ppm}
			}
		}
		other := buildTestTable(t, shuffled)
		if !reference.Equal(other) || !other.Equal(reference) {
			t.Fatalf("trial %d: tables built from permuted triples must be equal", trial)
		}
	}
}

func TestPPMTable_NotEqual(t *testing.T) {
	base := buildTestTable(t, []testTriple{
		{"a", "b", 10},
		{"a", "c", 20},
		{"b", "c", 14},
	})

	tests := []struct {
		name  string
		other *PPMTable
	}{
		{
			name: "different score",
			other: buildTestTable(t, []testTriple{
				{"a", "b", 11},
				{"a", "c", 20},
				{"b", "c", 14},
			}),
		},
		{
			name: "different name set",
			other: buildTestTable(t, []testTriple{
				{"a", "b", 10},
				{"a", "x", 20},
				{"b", "x", 14},
			}),
		},
		{
			name:  "different size",
			other: buildTestTable(t, []testTriple{{"a", "b", 10}}),
		},
		{
			name:  "nil table",
			other: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if base.Equal(tt.other) {
				t.Error("expected tables to differ")
			}
		})
	}
}

// ============================================================================
// INVARIANT TESTS
// ============================================================================

func TestPPMTable_NameAtOutOfRangePanics(t *testing.T) {
	table := buildTestTable(t, []testTriple{{"a", "b", 10}})

	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an index outside the bijection")
		}
	}()
	table.nameAt(99)
}
