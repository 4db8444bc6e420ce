package transform

import (
	"fmt"

	"github.com/matzehuels/svcgraph/pkg/dag"
)

// Subdivide routes every edge that skips rows through one virtual node per
// skipped row:
//
//	gateway (row 0) → ledger (row 3)
//	gateway → gateway~v1 → gateway~v2 → ledger
//
// A virtual ID is "<source>~v<row>", suffixed "__<n>" if taken.
func Subdivide(g *dag.DAG) {
	taken := make(map[string]bool, g.NodeCount())
	for _, n := range g.Nodes() {
		taken[n.ID] = true
	}
	fresh := func(base string, row int) string {
		id := fmt.Sprintf("%s~v%d", base, row)
		for i := 1; taken[id]; i++ {
			id = fmt.Sprintf("%s~v%d__%d", base, row, i)
		}
		taken[id] = true
		return id
	}

	var long []dag.Edge
	for _, e := range g.Edges() {
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		if dst.Row-src.Row < 2 {
			continue
		}
		long = append(long, e)

		prev := src.ID
		for row := src.Row + 1; row < dst.Row; row++ {
			id := fresh(src.ID, row)
			must(g.AddNode(dag.Node{ID: id, Row: row, Kind: dag.NodeKindVirtual, MasterID: src.ID}))
			must(g.AddEdge(dag.Edge{From: prev, To: id}))
			prev = id
		}
		must(g.AddEdge(dag.Edge{From: prev, To: dst.ID}))
	}

	for _, e := range long {
		g.RemoveEdge(e.From, e.To)
	}
}

// must panics on errors that can only come from a bug in this package.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
