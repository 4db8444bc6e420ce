package dag

// CountCrossings sums CountLayerCrossings over every pair of rows r, r+1
// present in orders.
func CountCrossings(g *DAG, orders map[int][]string) int {
	total := 0
	for r, upper := range orders {
		if lower, ok := orders[r+1]; ok {
			total += CountLayerCrossings(g, upper, lower)
		}
	}
	return total
}

// CountLayerCrossings counts crossing edge pairs between two adjacent rows.
//
// Listing the lower endpoints of all edges in upper-row order, two edges
// cross exactly when their lower endpoints appear out of order, so the
// answer is the inversion count of that sequence. A binary indexed tree
// over lower positions gives O(E log V).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	pos := PosMap(lower)

	// Children lists are in insertion order, not position order, so each
	// node's targets are sorted before being appended.
	var seq []int
	for _, id := range upper {
		start := len(seq)
		for _, child := range g.Children(id) {
			if p, ok := pos[child]; ok {
				seq = append(seq, p)
			}
		}
		insertionSort(seq[start:])
	}

	tree := make(bit, len(lower)+1)
	crossings := 0
	for i, p := range seq {
		crossings += i - tree.prefix(p)
		tree.add(p)
	}
	return crossings
}

// bit is a Fenwick tree of counts over 0-based positions.
type bit []int

func (t bit) add(p int) {
	for i := p + 1; i < len(t); i += i & -i {
		t[i]++
	}
}

// prefix counts entries at positions <= p.
func (t bit) prefix(p int) int {
	n := 0
	for i := p + 1; i > 0; i -= i & -i {
		n += t[i]
	}
	return n
}

func insertionSort(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
