package transform

import (
	"testing"

	"github.com/matzehuels/svcgraph/pkg/dag"
)

func buildGraph(nodes string, edges ...string) *dag.DAG {
	g := dag.New()
	for _, id := range nodes {
		_ = g.AddNode(dag.Node{ID: string(id)})
	}
	for _, e := range edges {
		_ = g.AddEdge(dag.Edge{From: e[:1], To: e[1:]})
	}
	return g
}

func TestBreakCycles(t *testing.T) {
	tests := []struct {
		name      string
		g         *dag.DAG
		removed   int
		edgesLeft int
		gone      []string
	}{
		{"empty", buildGraph(""), 0, 0, nil},
		{"single node", buildGraph("a"), 0, 0, nil},
		{"chain", buildGraph("abc", "ab", "bc"), 0, 2, nil},
		{"diamond", buildGraph("abcd", "ab", "ac", "bd", "cd"), 0, 4, nil},
		{"two-cycle", buildGraph("ab", "ab", "ba"), 1, 1, []string{"ba"}},
		{"triangle", buildGraph("abc", "ab", "bc", "ca"), 1, 2, []string{"ca"}},
		{"self loop", buildGraph("a", "aa"), 1, 0, []string{"aa"}},
		{"disjoint cycles", buildGraph("abcd", "ab", "ba", "cd", "dc"), 2, 2, []string{"ba", "dc"}},
		{"cycle below source", buildGraph("abcd", "ab", "bc", "cd", "db"), 1, 3, []string{"db"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BreakCycles(tt.g); got != tt.removed {
				t.Errorf("BreakCycles() = %d, want %d", got, tt.removed)
			}
			if got := tt.g.EdgeCount(); got != tt.edgesLeft {
				t.Errorf("EdgeCount() = %d, want %d", got, tt.edgesLeft)
			}
			for _, e := range tt.gone {
				if tt.g.HasEdge(e[:1], e[1:]) {
					t.Errorf("edge %s→%s should have been removed", e[:1], e[1:])
				}
			}
			if err := tt.g.Validate(); err != nil {
				t.Errorf("Validate() after BreakCycles: %v", err)
			}
			if again := BreakCycles(tt.g); again != 0 {
				t.Errorf("second BreakCycles() = %d, want 0", again)
			}
		})
	}
}

func TestTopoOrderStopsAtCycles(t *testing.T) {
	g := buildGraph("abcd", "ab", "bc", "cb", "ad")
	got := topoOrder(g)
	if len(got) != 2 || got[0] != "a" || got[1] != "d" {
		t.Errorf("topoOrder() = %v, want [a d]", got)
	}
}
