package transform

import "github.com/matzehuels/svcgraph/pkg/dag"

// AssignLayers moves every node to the length of the longest path reaching
// it from a source, so sources sit on row 0 and each edge points at least
// one row down. Nodes on a cycle are left on row 0; call [BreakCycles]
// first.
func AssignLayers(g *dag.DAG) {
	rows := make(map[string]int, g.NodeCount())
	for _, n := range g.Nodes() {
		rows[n.ID] = 0
	}
	for _, id := range topoOrder(g) {
		for _, child := range g.Children(id) {
			rows[child] = max(rows[child], rows[id]+1)
		}
	}
	g.SetRows(rows)
}

// topoOrder lists the nodes reachable by repeatedly peeling off nodes with
// no remaining parents. Ties keep insertion order.
func topoOrder(g *dag.DAG) []string {
	pending := make(map[string]int, g.NodeCount())
	var order []string
	for _, n := range g.Nodes() {
		if pending[n.ID] = g.InDegree(n.ID); pending[n.ID] == 0 {
			order = append(order, n.ID)
		}
	}
	for i := 0; i < len(order); i++ {
		for _, child := range g.Children(order[i]) {
			if pending[child]--; pending[child] == 0 {
				order = append(order, child)
			}
		}
	}
	return order
}
