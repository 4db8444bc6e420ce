package ordering

import (
	"slices"

	"github.com/matzehuels/svcgraph/pkg/dag"
)

// DefaultPasses is the number of sweeps used when Barycentric.Passes is zero.
const DefaultPasses = 8

// Barycentric orders rows by the mean position of each node's neighbours.
//
// Sweeps alternate direction: even passes walk down the rows and place each
// node by its parents in the row above, odd passes walk up and use its
// children in the row below. After every sweep adjacent nodes are swapped
// while that lowers the crossing count. The best ordering seen is returned,
// and the search stops early once it reaches zero crossings.
//
// Ties keep their current relative order, and nodes without neighbours on
// the reference row keep their current position, so results are
// deterministic for a given graph.
type Barycentric struct {
	Passes int
}

// OrderRows implements [Orderer].
func (b Barycentric) OrderRows(g *dag.DAG) map[int][]string {
	orders := initialOrders(g)
	rows := g.RowIDs()
	if len(rows) == 0 {
		return orders
	}

	passes := b.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}

	best := cloneOrders(orders)
	bestScore := dag.CountCrossings(g, orders)

	for pass := 0; pass < passes && bestScore > 0; pass++ {
		if pass%2 == 0 {
			for i := 1; i < len(rows); i++ {
				orders[rows[i]] = sortByBarycenter(orders[rows[i]], orders[rows[i]-1], g.Parents)
			}
		} else {
			for i := len(rows) - 2; i >= 0; i-- {
				orders[rows[i]] = sortByBarycenter(orders[rows[i]], orders[rows[i]+1], g.Children)
			}
		}
		transpose(g, orders, rows)

		if score := dag.CountCrossings(g, orders); score < bestScore {
			best, bestScore = cloneOrders(orders), score
		}
	}
	return best
}

func sortByBarycenter(row, ref []string, neighbours func(string) []string) []string {
	refPos := dag.PosMap(ref)

	type keyed struct {
		id  string
		key float64
	}
	items := make([]keyed, len(row))
	for i, id := range row {
		sum, n := 0, 0
		for _, nb := range neighbours(id) {
			if p, ok := refPos[nb]; ok {
				sum += p
				n++
			}
		}
		key := float64(i)
		if n > 0 {
			key = float64(sum) / float64(n)
		}
		items[i] = keyed{id, key}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		}
		return 0
	})

	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

// maxTransposeRounds bounds the swap refinement on graphs that oscillate.
const maxTransposeRounds = 16

func transpose(g *dag.DAG, orders map[int][]string, rows []int) {
	for round := 0; round < maxTransposeRounds; round++ {
		improved := false
		for _, r := range rows {
			row := orders[r]
			for i := 0; i+1 < len(row); i++ {
				before := localCrossings(g, orders, r)
				row[i], row[i+1] = row[i+1], row[i]
				if localCrossings(g, orders, r) < before {
					improved = true
					continue
				}
				row[i], row[i+1] = row[i+1], row[i]
			}
		}
		if !improved {
			return
		}
	}
}

func localCrossings(g *dag.DAG, orders map[int][]string, r int) int {
	n := 0
	if above, ok := orders[r-1]; ok {
		n += dag.CountLayerCrossings(g, above, orders[r])
	}
	if below, ok := orders[r+1]; ok {
		n += dag.CountLayerCrossings(g, orders[r], below)
	}
	return n
}
