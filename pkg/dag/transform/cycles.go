package transform

import "github.com/matzehuels/svcgraph/pkg/dag"

// BreakCycles deletes the back edges of a depth-first walk and returns how
// many it deleted. The walk starts at the sources and then at any node left
// unvisited, children in insertion order; a self-loop counts as a back edge.
func BreakCycles(g *dag.DAG) int {
	type frame struct {
		id   string
		next int
	}

	done := make(map[string]bool, g.NodeCount())
	active := make(map[string]bool)
	var back []dag.Edge

	walk := func(root string) {
		if done[root] {
			return
		}
		stack := []frame{{id: root}}
		active[root] = true
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.Children(top.id)
			if top.next == len(children) {
				active[top.id] = false
				done[top.id] = true
				stack = stack[:len(stack)-1]
				continue
			}
			child := children[top.next]
			top.next++
			switch {
			case active[child]:
				back = append(back, dag.Edge{From: top.id, To: child})
			case !done[child]:
				active[child] = true
				stack = append(stack, frame{id: child})
			}
		}
	}

	for _, n := range g.Sources() {
		walk(n.ID)
	}
	for _, n := range g.Nodes() {
		walk(n.ID)
	}

	for _, e := range back {
		g.RemoveEdge(e.From, e.To)
	}
	return len(back)
}
