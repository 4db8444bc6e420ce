// Package ordering decides the sequence of nodes within each row of a
// layered graph so that edges between adjacent rows cross as little as
// possible.
//
// Minimum-crossing ordering is NP-hard. [Barycentric] implements the
// Sugiyama barycenter heuristic with adjacent-swap refinement, which is
// fast and good enough for service graphs of a few hundred nodes.
//
//	var orderer ordering.Orderer = ordering.Barycentric{Passes: 8}
//	orders := orderer.OrderRows(g) // map[row][]nodeID
//
// All orderers expect a graph prepared by transform.Prepare: acyclic, with
// every edge connecting consecutive rows.
package ordering

import "github.com/matzehuels/svcgraph/pkg/dag"

// Orderer computes a left-to-right (or top-to-bottom) order for each row.
// The result maps every row index of g to the IDs of the nodes in it.
type Orderer interface {
	OrderRows(g *dag.DAG) map[int][]string
}

// OrdererFunc adapts a plain function to [Orderer].
type OrdererFunc func(g *dag.DAG) map[int][]string

// OrderRows calls f(g).
func (f OrdererFunc) OrderRows(g *dag.DAG) map[int][]string { return f(g) }

// InsertionOrder keeps each row in the order nodes were added to the graph.
var InsertionOrder Orderer = OrdererFunc(initialOrders)

func initialOrders(g *dag.DAG) map[int][]string {
	orders := make(map[int][]string)
	for _, row := range g.RowIDs() {
		orders[row] = dag.NodeIDs(g.NodesInRow(row))
	}
	return orders
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for row, ids := range orders {
		out[row] = append([]string(nil), ids...)
	}
	return out
}
