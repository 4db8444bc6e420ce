package layout

import (
	"math"
	"strconv"

	"github.com/matzehuels/svcgraph/pkg/dag"
	"github.com/matzehuels/svcgraph/pkg/dag/ordering"
	"github.com/matzehuels/svcgraph/pkg/dag/transform"
	"github.com/matzehuels/svcgraph/pkg/graph"
)

// Default node geometry and spacing, in pixels.
const (
	DefaultNodeWidth  = 172
	DefaultNodeHeight = 36
	DefaultRankSep    = 50
	DefaultNodeSep    = 50
)

type config struct {
	direction graph.Direction
	width     float64
	height    float64
	rankSep   float64
	nodeSep   float64
	anchor    graph.Anchor
	orderer   ordering.Orderer
}

// Option configures [Layout].
type Option func(*config)

// WithDirection sets the flow direction. Invalid values fall back to
// [graph.DefaultDirection].
func WithDirection(d graph.Direction) Option { return func(c *config) { c.direction = d } }

// WithNodeSize sets the size every node is laid out with.
func WithNodeSize(w, h float64) Option {
	return func(c *config) {
		if w > 0 {
			c.width = w
		}
		if h > 0 {
			c.height = h
		}
	}
}

// WithSpacing sets the gap between ranks and between nodes of one rank.
func WithSpacing(rank, node float64) Option {
	return func(c *config) {
		if rank >= 0 {
			c.rankSep = rank
		}
		if node >= 0 {
			c.nodeSep = node
		}
	}
}

// WithAnchor selects whether X/Y denote the node centre or its top-left corner.
func WithAnchor(a graph.Anchor) Option { return func(c *config) { c.anchor = a } }

// WithOrderer replaces the row ordering algorithm.
func WithOrderer(o ordering.Orderer) Option { return func(c *config) { c.orderer = o } }

func newConfig(opts []Option) config {
	c := config{
		direction: graph.DefaultDirection,
		width:     DefaultNodeWidth,
		height:    DefaultNodeHeight,
		rankSep:   DefaultRankSep,
		nodeSep:   DefaultNodeSep,
		anchor:    graph.AnchorCenter,
		orderer:   ordering.Barycentric{},
	}
	for _, opt := range opts {
		opt(&c)
	}
	if _, err := graph.ParseDirection(string(c.direction)); err != nil {
		c.direction = graph.DefaultDirection
	}
	if c.anchor != graph.AnchorTopLeft {
		c.anchor = graph.AnchorCenter
	}
	if c.orderer == nil {
		c.orderer = ordering.Barycentric{}
	}
	return c
}

// Layout assigns positions to nodes and returns them as a view together
// with the edges whose endpoints both exist.
//
// Output nodes keep the input order. Each node gets exactly one position,
// including nodes sharing an ID with an earlier node; edges attach to the
// first node carrying a given ID.
func Layout(nodes []graph.Node, edges []graph.Edge, opts ...Option) graph.View {
	c := newConfig(opts)
	dir, _ := graph.ParseDirection(string(c.direction))

	view := graph.View{
		Nodes:     make([]graph.Node, len(nodes)),
		Edges:     make([]graph.Edge, 0, len(edges)),
		Direction: dir,
		Anchor:    c.anchor,
	}
	copy(view.Nodes, nodes)
	if len(nodes) == 0 {
		return view
	}

	// Internal keys are input indices, so empty or repeated IDs still get a
	// slot of their own.
	g := dag.New()
	first := make(map[string]string, len(nodes))
	for i, n := range nodes {
		key := strconv.Itoa(i)
		_ = g.AddNode(dag.Node{ID: key})
		if _, ok := first[n.ID]; !ok {
			first[n.ID] = key
		}
	}

	for _, e := range edges {
		from, okFrom := first[e.Source]
		to, okTo := first[e.Target]
		if !okFrom || !okTo {
			continue
		}
		view.Edges = append(view.Edges, e)
		if from == to || g.HasEdge(from, to) {
			continue
		}
		_ = g.AddEdge(dag.Edge{From: from, To: to})
	}

	transform.Prepare(g)
	orders := c.orderer.OrderRows(g)

	place(&view, g, orders, c)
	return view
}

func place(view *graph.View, g *dag.DAG, orders map[int][]string, c config) {
	dir := view.Direction
	rankSize, crossSize := c.width, c.height
	if !dir.IsHorizontal() {
		rankSize, crossSize = c.height, c.width
	}

	maxRow := g.MaxRow()
	type pos struct {
		primary, cross float64
		rank, order    int
	}
	positions := make(map[string]pos, g.NodeCount())

	for row := 0; row <= maxRow; row++ {
		ids := orders[row]
		if len(ids) == 0 {
			ids = dag.NodeIDs(g.NodesInRow(row))
		}
		rank := row
		if dir.IsReversed() {
			rank = maxRow - row
		}
		primary := float64(rank) * (rankSize + c.rankSep)
		mid := float64(len(ids)-1) / 2
		placed := 0
		for i, id := range ids {
			n, ok := g.Node(id)
			if !ok || n.IsVirtual() {
				continue
			}
			positions[id] = pos{
				primary: primary,
				cross:   (float64(i) - mid) * (crossSize + c.nodeSep),
				rank:    row,
				order:   placed,
			}
			placed++
		}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	for i := range view.Nodes {
		p := positions[strconv.Itoa(i)]
		n := &view.Nodes[i]
		n.Width, n.Height = c.width, c.height
		n.Rank, n.Order = p.rank, p.order
		if dir.IsHorizontal() {
			n.X, n.Y = p.primary, p.cross
		} else {
			n.X, n.Y = p.cross, p.primary
		}
		n.TargetSide, n.SourceSide = anchorSides(dir)
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
	}

	// Shift so the bounding box starts at the origin. Centres sit half a
	// node in from the edge.
	var maxX, maxY float64
	for i := range view.Nodes {
		n := &view.Nodes[i]
		n.X -= minX
		n.Y -= minY
		maxX = math.Max(maxX, n.X+c.width)
		maxY = math.Max(maxY, n.Y+c.height)
		if c.anchor == graph.AnchorCenter {
			n.X += c.width / 2
			n.Y += c.height / 2
		}
	}
	view.Width, view.Height = maxX, maxY
}

// anchorSides returns the sides incoming and outgoing edges attach to.
func anchorSides(d graph.Direction) (target, source graph.Side) {
	switch d {
	case graph.RightToLeft:
		return graph.SideRight, graph.SideLeft
	case graph.TopToBottom:
		return graph.SideTop, graph.SideBottom
	case graph.BottomToTop:
		return graph.SideBottom, graph.SideTop
	default:
		return graph.SideLeft, graph.SideRight
	}
}
