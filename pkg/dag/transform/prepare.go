package transform

import "github.com/matzehuels/svcgraph/pkg/dag"

// Prepare breaks cycles, assigns rows and subdivides long edges, leaving g
// acyclic with every edge connecting consecutive rows. It returns the number
// of edges removed to break cycles.
func Prepare(g *dag.DAG) int {
	removed := BreakCycles(g)
	AssignLayers(g)
	Subdivide(g)
	return removed
}
