package flatten

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/matzehuels/svcgraph/pkg/graph"
	"github.com/matzehuels/svcgraph/pkg/layout"
	"github.com/matzehuels/svcgraph/pkg/service"
)

// IDGenerator mints surrogate node IDs. Implementations must return a
// different value on every call and be safe for concurrent use.
type IDGenerator func() string

// UUID is the default generator.
var UUID IDGenerator = uuid.NewString

// Sequential returns a generator producing prefix1, prefix2, ... Useful
// where stable IDs matter more than global uniqueness, such as tests and
// golden files.
func Sequential(prefix string) IDGenerator {
	var n atomic.Int64
	return func() string {
		return prefix + strconv.FormatInt(n.Add(1), 10)
	}
}

// Stats summarises one flattening run.
type Stats struct {
	Nodes   int // nodes emitted at every depth
	Edges   int // edges emitted at every depth
	Groups  int // child group views produced
	Dropped int // references that resolved to nothing
}

// Flattener turns service entries into graph views. The zero value is not
// usable; use New.
type Flattener struct {
	newID  IDGenerator
	layout []layout.Option
}

// Option configures a Flattener.
type Option func(*Flattener)

// WithIDGenerator replaces the surrogate ID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(f *Flattener) {
		if gen != nil {
			f.newID = gen
		}
	}
}

// WithDirection sets the layout direction of every produced view.
func WithDirection(d graph.Direction) Option {
	return func(f *Flattener) { f.layout = append(f.layout, layout.WithDirection(d)) }
}

// WithLayout passes options through to layout.Layout for every view.
func WithLayout(opts ...layout.Option) Option {
	return func(f *Flattener) { f.layout = append(f.layout, opts...) }
}

// New creates a Flattener.
func New(opts ...Option) *Flattener {
	f := &Flattener{newID: UUID}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Flatten flattens entries with a default Flattener configured by opts.
func Flatten(entries []service.Entry, opts ...Option) (graph.View, graph.ChildIndex) {
	return New(opts...).Flatten(entries)
}

// Flatten returns the positioned root view and the index of child group
// views. Empty input yields an empty view and an empty, non-nil index.
func (f *Flattener) Flatten(entries []service.Entry) (graph.View, graph.ChildIndex) {
	root, index, _ := f.FlattenWithStats(entries)
	return root, index
}

// FlattenWithStats is Flatten plus counters describing the run.
func (f *Flattener) FlattenWithStats(entries []service.Entry) (graph.View, graph.ChildIndex, Stats) {
	run := &run{f: f, index: graph.ChildIndex{}}
	return run.root(entries), run.index, run.stats
}

// FlattenDocument flattens a document into a [graph.Result].
func (f *Flattener) FlattenDocument(doc service.Document) (graph.Result, Stats) {
	root, index, stats := f.FlattenWithStats(doc.Entries)
	return graph.Result{Document: doc.Name, Root: root, Children: index}, stats
}

// run holds the state of one Flatten call.
type run struct {
	f     *Flattener
	index graph.ChildIndex
	stats Stats
}

func (r *run) root(entries []service.Entry) graph.View {
	nodes := make([]graph.Node, len(entries))
	byName := make(map[string]string, len(entries))
	for i, e := range entries {
		id := r.f.newID()
		nodes[i] = graph.Node{ID: id, Label: e.Name}
		byName[e.Name] = id
	}

	var edges []graph.Edge
	for i, e := range entries {
		if e.Output == nil {
			continue
		}
		target, ok := byName[*e.Output]
		if !ok {
			r.stats.Dropped++
			continue
		}
		edges = append(edges, newEdge(nodes[i].ID, target))
	}

	for i, e := range entries {
		if e.HasChildren() {
			r.attach(&nodes[i], e.Children)
		}
	}

	return r.emit(nodes, edges)
}

// attach flattens groups, indexes them under n and attaches them to n.
func (r *run) attach(n *graph.Node, groups []service.ChildGroup) {
	views := make([]graph.View, 0, len(groups))
	for _, g := range groups {
		views = append(views, r.group(g))
	}
	r.index[n.ID] = views
	n.Groups = views
	n.GroupCount = len(views)
}

func (r *run) group(g service.ChildGroup) graph.View {
	r.stats.Groups++

	nodes := make([]graph.Node, 0, len(g.Childs))
	var edges []graph.Edge
	lastSeen := make(map[string]string, len(g.Childs))

	for _, m := range g.Childs {
		node := graph.Node{ID: r.f.newID(), Label: m.Name}
		if m.Input != nil {
			if src, ok := lastSeen[*m.Input]; ok {
				edges = append(edges, newEdge(src, node.ID))
			} else {
				r.stats.Dropped++
			}
		}
		if m.HasChildren() {
			r.attach(&node, m.Children)
		}
		nodes = append(nodes, node)
		// Updated after resolving so a member never resolves to itself.
		lastSeen[m.Name] = node.ID
	}

	return r.emit(nodes, edges)
}

func (r *run) emit(nodes []graph.Node, edges []graph.Edge) graph.View {
	r.stats.Nodes += len(nodes)
	r.stats.Edges += len(edges)
	return layout.Layout(nodes, edges, r.f.layout...)
}

func newEdge(source, target string) graph.Edge {
	return graph.Edge{ID: graph.EdgeID(source, target), Source: source, Target: target}
}
