package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	ErrInvalidNodeID      = errors.New("node ID must not be empty")
	ErrDuplicateNodeID    = errors.New("duplicate node ID")
	ErrUnknownSourceNode  = errors.New("unknown source node")
	ErrUnknownTargetNode  = errors.New("unknown target node")
	ErrNonConsecutiveRows = errors.New("edges must connect consecutive rows")
	ErrGraphHasCycle      = errors.New("graph contains a cycle")
)

// NodeKind tells caller-supplied nodes apart from layout padding.
type NodeKind int

const (
	NodeKindRegular NodeKind = iota
	// NodeKindVirtual marks a node inserted by transform.Subdivide on a
	// long edge. Its MasterID is the edge's source.
	NodeKindVirtual
)

// Node is a vertex placed on a row.
type Node struct {
	ID       string
	Row      int
	Kind     NodeKind
	MasterID string
}

// IsVirtual reports whether the node was inserted during layout.
func (n Node) IsVirtual() bool { return n.Kind == NodeKindVirtual }

// Edge is a directed connection.
type Edge struct {
	From, To string
}

// DAG is a directed graph whose nodes sit on integer rows. Every accessor
// that returns several nodes returns them in insertion order. The zero
// value is not usable; call New.
type DAG struct {
	index map[string]int
	nodes []*Node
	edges []Edge
	out   map[string][]string
	in    map[string][]string

	// rows is rebuilt on demand after AddNode or SetRows.
	rows map[int][]*Node
}

// New returns an empty graph.
func New() *DAG {
	return &DAG{
		index: map[string]int{},
		out:   map[string][]string{},
		in:    map[string][]string{},
	}
}

// AddNode appends n.
func (d *DAG) AddNode(n Node) error {
	switch {
	case n.ID == "":
		return ErrInvalidNodeID
	case d.has(n.ID):
		return ErrDuplicateNodeID
	}
	d.index[n.ID] = len(d.nodes)
	d.nodes = append(d.nodes, &n)
	d.rows = nil
	return nil
}

// AddEdge connects two existing nodes. Parallel edges are kept.
func (d *DAG) AddEdge(e Edge) error {
	if !d.has(e.From) {
		return ErrUnknownSourceNode
	}
	if !d.has(e.To) {
		return ErrUnknownTargetNode
	}
	d.edges = append(d.edges, e)
	d.out[e.From] = append(d.out[e.From], e.To)
	d.in[e.To] = append(d.in[e.To], e.From)
	return nil
}

// RemoveEdge drops every from→to edge.
func (d *DAG) RemoveEdge(from, to string) {
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to })
	d.out[from] = slices.DeleteFunc(d.out[from], func(id string) bool { return id == to })
	d.in[to] = slices.DeleteFunc(d.in[to], func(id string) bool { return id == from })
}

// SetRows moves the listed nodes; others stay where they are.
func (d *DAG) SetRows(rows map[string]int) {
	for id, r := range rows {
		if i, ok := d.index[id]; ok {
			d.nodes[i].Row = r
		}
	}
	d.rows = nil
}

func (d *DAG) has(id string) bool {
	_, ok := d.index[id]
	return ok
}

func (d *DAG) HasEdge(from, to string) bool { return slices.Contains(d.out[from], to) }

// Node returns the graph's own node, so callers may update its Row.
func (d *DAG) Node(id string) (*Node, bool) {
	i, ok := d.index[id]
	if !ok {
		return nil, false
	}
	return d.nodes[i], true
}

func (d *DAG) Nodes() []*Node              { return slices.Clone(d.nodes) }
func (d *DAG) Edges() []Edge               { return slices.Clone(d.edges) }
func (d *DAG) NodeCount() int              { return len(d.nodes) }
func (d *DAG) EdgeCount() int              { return len(d.edges) }
func (d *DAG) Children(id string) []string { return d.out[id] }
func (d *DAG) Parents(id string) []string  { return d.in[id] }
func (d *DAG) InDegree(id string) int      { return len(d.in[id]) }
func (d *DAG) NodesInRow(row int) []*Node  { return d.rowIndex()[row] }
func (d *DAG) RowIDs() []int               { return slices.Sorted(maps.Keys(d.rowIndex())) }

func (d *DAG) rowIndex() map[int][]*Node {
	if d.rows == nil {
		d.rows = make(map[int][]*Node)
		for _, n := range d.nodes {
			d.rows[n.Row] = append(d.rows[n.Row], n)
		}
	}
	return d.rows
}

// MaxRow returns the deepest row, or 0 for an empty graph.
func (d *DAG) MaxRow() int {
	maxRow := 0
	for i, n := range d.nodes {
		if i == 0 || n.Row > maxRow {
			maxRow = n.Row
		}
	}
	return maxRow
}

// Sources returns the nodes without parents.
func (d *DAG) Sources() []*Node {
	var out []*Node
	for _, n := range d.nodes {
		if len(d.in[n.ID]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Clone returns an independent copy.
func (d *DAG) Clone() *DAG {
	c := New()
	for _, n := range d.nodes {
		_ = c.AddNode(*n)
	}
	for _, e := range d.edges {
		_ = c.AddEdge(e)
	}
	return c
}

// Validate returns ErrGraphHasCycle unless every node can be removed in
// topological order.
func (d *DAG) Validate() error {
	indeg := make(map[string]int, len(d.nodes))
	var queue []string
	for _, n := range d.nodes {
		indeg[n.ID] = len(d.in[n.ID])
		if indeg[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}
	removed := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		removed++
		for _, child := range d.out[id] {
			if indeg[child]--; indeg[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	if removed < len(d.nodes) {
		return ErrGraphHasCycle
	}
	return nil
}

// ValidateLayered returns ErrNonConsecutiveRows if any edge skips or climbs
// rows.
func (d *DAG) ValidateLayered() error {
	for _, e := range d.edges {
		from, _ := d.Node(e.From)
		to, _ := d.Node(e.To)
		if to.Row-from.Row != 1 {
			return ErrNonConsecutiveRows
		}
	}
	return nil
}

// PosMap maps each ID to its index in ids.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs lists the IDs of nodes.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}
