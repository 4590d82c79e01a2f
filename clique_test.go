package cabal

import (
	"testing"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// cliqueOver builds a fresh CliqueSet over a complete table covering
// names, then feeds it the given edges and returns the clique containing
// the first edge's left endpoint. The edge scores are what the test
// specifies; the table's own scores are irrelevant filler.
func cliqueOver(t *testing.T, names []string, edges []testTriple) *Clique {
	t.Helper()
	set := setOver(t, names, edges)
	c := set.Clique(edges[0].l)
	if c == nil {
		t.Fatalf("no clique contains %q", edges[0].l)
	}
	return c
}

// setOver builds a CliqueSet over a complete table covering names and
// feeds it the given edges.
func setOver(t *testing.T, names []string, edges []testTriple) *CliqueSet {
	t.Helper()
	table := buildTestTable(t, completeTriples(0, names...))
	set := NewCliqueSet(table)
	for _, e := range edges {
		if err := set.Add(e.l, e.r, e.ppm); err != nil {
			t.Fatalf("failed to add edge (%s, %s): %v", e.l, e.r, err)
		}
	}
	return set
}

// ============================================================================
// CORE SELECTION TESTS
// ============================================================================

func TestClique_Core(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		edges []testTriple
		want  string
	}{
		{
			name:  "single edge ties broken lexicographically",
			names: []string{"a", "b"},
			edges: []testTriple{{"b", "a", 10}},
			want:  "a",
		},
		{
			name:  "chain picks the loose end",
			names: []string{"a", "b", "c"},
			edges: []testTriple{
				{"a", "b", 10},
				{"b", "c", 20},
			},
			// max incident: a=10, b=20, c=20; the minimum is a.
			want: "a",
		},
		{
			name:  "three way tie goes to smallest name",
			names: []string{"a", "b", "c"},
			edges: []testTriple{
				{"a", "b", 30},
				{"b", "c", 30},
				{"a", "c", 5},
			},
			// max incident: a=30, b=30, c=30; full tie, a wins by name.
			want: "a",
		},
		{
			name:  "core need not be the smallest name",
			names: []string{"a", "b", "c", "d"},
			edges: []testTriple{
				{"a", "b", 50},
				{"b", "c", 40},
				{"c", "d", 10},
			},
			// max incident: a=50, b=50, c=40, d=10; the minimum is d.
			want: "d",
		},
		{
			name:  "tie between interior members",
			names: []string{"a", "b", "c", "d"},
			edges: []testTriple{
				{"a", "b", 20},
				{"c", "d", 20},
				{"b", "c", 30},
			},
			// max incident: a=20, b=30, c=30, d=20; tie between a and d,
			// a is lexicographically smaller.
			want: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cliqueOver(t, tt.names, tt.edges)
			if got := c.Core(); got != tt.want {
				t.Errorf("expected core %q, got %q", tt.want, got)
			}
		})
	}
}

func TestClique_CoreIsDeterministic(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e"}
	edges := []testTriple{
		{"a", "b", 10},
		{"b", "c", 20},
		{"c", "d", 20},
		{"d", "e", 10},
	}
	c := cliqueOver(t, names, edges)
	want := c.Core()
	for i := 0; i < 50; i++ {
		if got := c.Core(); got != want {
			t.Fatalf("core flapped from %q to %q on repeat call %d", want, got, i)
		}
	}
}

// ============================================================================
// MEMBER AND SCORE TESTS
// ============================================================================

func TestClique_MaxPPM(t *testing.T) {
	c := cliqueOver(t, []string{"a", "b", "c"}, []testTriple{
		{"a", "b", 10},
		{"b", "c", 25},
		{"a", "c", 7},
	})
	if got := c.MaxPPM(); got != 25 {
		t.Errorf("expected max score 25, got %d", got)
	}
}

func TestClique_MembersSorted(t *testing.T) {
	c := cliqueOver(t, []string{"kiwi", "apple", "mango", "banana"}, []testTriple{
		{"kiwi", "apple", 10},
		{"mango", "kiwi", 20},
		{"banana", "mango", 30},
	})
	want := []string{"apple", "banana", "kiwi", "mango"}
	got := c.Members()
	if len(got) != len(want) {
		t.Fatalf("expected members %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected members %v, got %v", want, got)
		}
	}
}

func TestClique_RedundantEdgeOverwrites(t *testing.T) {
	c := cliqueOver(t, []string{"a", "b"}, []testTriple{
		{"a", "b", 10},
		{"b", "a", 90},
	})
	if c.Len() != 2 {
		t.Errorf("expected 2 members, got %d", c.Len())
	}
	if got := c.MaxPPM(); got != 90 {
		t.Errorf("expected overwritten score 90, got %d", got)
	}
}

// ============================================================================
// EXPORT TESTS
// ============================================================================

func TestClique_Export(t *testing.T) {
	c := cliqueOver(t, []string{"a", "b", "c"}, []testTriple{
		{"a", "b", 10},
		{"b", "c", 20},
	})
	export := c.Export()
	if export.Core != "a" {
		t.Errorf("expected core a, got %q", export.Core)
	}
	want := []string{"b", "c"}
	if len(export.Members) != len(want) {
		t.Fatalf("expected non-core members %v, got %v", want, export.Members)
	}
	for i := range want {
		if export.Members[i] != want[i] {
			t.Fatalf("expected non-core members %v, got %v", want, export.Members)
		}
	}
	if export.MaxPPM != 20 {
		t.Errorf("expected max score 20, got %d", export.MaxPPM)
	}
}

func TestCliqueExport_Compare(t *testing.T) {
	tests := []struct {
		name string
		a, b CliqueExport
		want int
	}{
		{
			name: "lower score sorts first",
			a:    CliqueExport{Core: "z", Members: []string{"zz"}, MaxPPM: 10},
			b:    CliqueExport{Core: "a", Members: []string{"b"}, MaxPPM: 20},
			want: -1,
		},
		{
			name: "equal score falls back to core name",
			a:    CliqueExport{Core: "a", Members: []string{"b"}, MaxPPM: 10},
			b:    CliqueExport{Core: "c", Members: []string{"d"}, MaxPPM: 10},
			want: -1,
		},
		{
			name: "equal score and core falls back to members",
			a:    CliqueExport{Core: "a", Members: []string{"b", "c"}, MaxPPM: 10},
			b:    CliqueExport{Core: "a", Members: []string{"b", "d"}, MaxPPM: 10},
			want: -1,
		},
		{
			name: "member prefix sorts before longer list",
			a:    CliqueExport{Core: "a", Members: []string{"b"}, MaxPPM: 10},
			b:    CliqueExport{Core: "a", Members: []string{"b", "c"}, MaxPPM: 10},
			want: -1,
		},
		{
			name: "identical exports compare equal",
			a:    CliqueExport{Core: "a", Members: []string{"b", "c"}, MaxPPM: 10},
			b:    CliqueExport{Core: "a", Members: []string{"b", "c"}, MaxPPM: 10},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("expected Compare=%d, got %d", tt.want, got)
			}
			if got := tt.b.Compare(tt.a); got != -tt.want {
				t.Errorf("expected reversed Compare=%d, got %d", -tt.want, got)
			}
			if (tt.want == 0) != tt.a.Equal(tt.b) {
				t.Errorf("Equal disagrees with Compare")
			}
		})
	}
}

func TestCliqueExport_String(t *testing.T) {
	tests := []struct {
		name   string
		export CliqueExport
		want   string
	}{
		{
			name:   "pair",
			export: CliqueExport{Core: "001", Members: []string{"007"}, MaxPPM: 21900},
			want:   "[001, 007] max%: 2.1",
		},
		{
			name:   "larger clique",
			export: CliqueExport{Core: "a", Members: []string{"b", "c", "d"}, MaxPPM: 1000000},
			want:   "[a, b, c, d] max%: 100.0",
		},
		{
			name:   "zero score",
			export: CliqueExport{Core: "x", Members: []string{"y"}, MaxPPM: 0},
			want:   "[x, y] max%: 0.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.export.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		ppm  uint32
		want string
	}{
		{0, "0.0"},
		{999, "0.0"},
		{1000, "0.1"},
		{21900, "2.1"},
		{60000, "6.0"},
		{1000000, "100.0"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.ppm); got != tt.want {
			t.Errorf("FormatPercent(%d): expected %q, got %q", tt.ppm, tt.want, got)
		}
	}
}
