package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestAddNodeErrors(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode(a) error: %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(a) twice = %v, want ErrDuplicateNodeID", err)
	}
	if n, ok := g.Node("a"); !ok || n.IsVirtual() {
		t.Error("Node(a) should be a regular node")
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	if err := g.AddEdge(Edge{From: "x", To: "a"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("AddEdge(x→a) = %v, want ErrUnknownSourceNode", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("AddEdge(a→x) = %v, want ErrUnknownTargetNode", err)
	}
}

func TestInsertionOrder(t *testing.T) {
	g := New()
	ids := []string{"zeta", "alpha", "mid", "beta"}
	for _, id := range ids {
		_ = g.AddNode(Node{ID: id})
	}
	for i := 0; i < 5; i++ {
		if got := NodeIDs(g.Nodes()); !slices.Equal(got, ids) {
			t.Fatalf("Nodes() = %v, want %v", got, ids)
		}
		if got := NodeIDs(g.NodesInRow(0)); !slices.Equal(got, ids) {
			t.Fatalf("NodesInRow(0) = %v, want %v", got, ids)
		}
	}
}

func TestSetRows(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddNode(Node{ID: "c"})
	g.SetRows(map[string]int{"b": 1, "c": 2})

	if got := NodeIDs(g.NodesInRow(0)); !slices.Equal(got, []string{"a"}) {
		t.Errorf("row 0 = %v, want [a]", got)
	}
	if got := g.RowIDs(); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("RowIDs() = %v, want [0 1 2]", got)
	}
	if g.MaxRow() != 2 {
		t.Errorf("MaxRow() = %d, want 2", g.MaxRow())
	}
}

func TestRemoveEdge(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	g.RemoveEdge("a", "b")
	if g.HasEdge("a", "b") || g.EdgeCount() != 0 || g.InDegree("b") != 0 {
		t.Error("RemoveEdge() left edge behind")
	}
	g.RemoveEdge("a", "missing")
}

func TestValidate(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddNode(Node{ID: "c"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "b", To: "c"})
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() on acyclic graph: %v", err)
	}
	_ = g.AddEdge(Edge{From: "c", To: "a"})
	if err := g.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("Validate() = %v, want ErrGraphHasCycle", err)
	}
}

func TestValidateLayered(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a", Row: 0})
	_ = g.AddNode(Node{ID: "b", Row: 2})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	if err := g.ValidateLayered(); !errors.Is(err, ErrNonConsecutiveRows) {
		t.Errorf("ValidateLayered() = %v, want ErrNonConsecutiveRows", err)
	}
}

func TestClone(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b", Row: 1})
	_ = g.AddEdge(Edge{From: "a", To: "b"})

	c := g.Clone()
	_ = c.AddNode(Node{ID: "z"})
	c.RemoveEdge("a", "b")

	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Error("Clone() shares state with the original")
	}
	if n, _ := c.Node("b"); n.Row != 1 {
		t.Errorf("cloned b row = %d, want 1", n.Row)
	}
	cn, _ := c.Node("a")
	cn.Row = 9
	if n, _ := g.Node("a"); n.Row != 0 {
		t.Error("Clone() shares nodes with the original")
	}
}

func TestRowIndexFollowsMutation(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	if len(g.NodesInRow(0)) != 1 {
		t.Fatal("row 0 should hold a")
	}
	_ = g.AddNode(Node{ID: "b", Row: 1})
	if got := NodeIDs(g.NodesInRow(1)); !slices.Equal(got, []string{"b"}) {
		t.Errorf("row 1 after AddNode = %v, want [b]", got)
	}
	g.SetRows(map[string]int{"a": 1})
	if got := NodeIDs(g.NodesInRow(1)); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("row 1 after SetRows = %v, want [a b]", got)
	}
	if len(g.NodesInRow(0)) != 0 {
		t.Error("row 0 should be empty after SetRows")
	}
}

func TestCountLayerCrossings(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c", "x", "y", "z"} {
		_ = g.AddNode(Node{ID: id})
	}
	// complete reversal of three parallel edges: 3 crossings
	_ = g.AddEdge(Edge{From: "a", To: "z"})
	_ = g.AddEdge(Edge{From: "b", To: "y"})
	_ = g.AddEdge(Edge{From: "c", To: "x"})

	tests := []struct {
		name         string
		upper, lower []string
		want         int
	}{
		{"reversed", []string{"a", "b", "c"}, []string{"x", "y", "z"}, 3},
		{"aligned", []string{"a", "b", "c"}, []string{"z", "y", "x"}, 0},
		{"partial", []string{"a", "b"}, []string{"z", "x", "y"}, 0},
		{"one swap", []string{"b", "a", "c"}, []string{"x", "y", "z"}, 2},
		{"empty", nil, []string{"x"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountLayerCrossings(g, tt.upper, tt.lower); got != tt.want {
				t.Errorf("CountLayerCrossings() = %d, want %d", got, tt.want)
			}
		})
	}
}
