package view

import (
	"slices"
	"strings"

	"github.com/matzehuels/svcgraph/pkg/errors"
	"github.com/matzehuels/svcgraph/pkg/graph"
)

// Outcome reports what SelectNode did.
type Outcome int

const (
	// OutcomeNone means the selection had no effect (a leaf at the root).
	OutcomeNone Outcome = iota
	// OutcomeDrilled means the view changed to the node's first child group.
	OutcomeDrilled
	// OutcomeSelected means the node is now selected for the detail panel.
	OutcomeSelected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDrilled:
		return "drilled"
	case OutcomeSelected:
		return "selected"
	}
	return "none"
}

// RootLabel labels the first breadcrumb of a document without a name.
const RootLabel = "root"

// crumb is one level of the trail. Groups are the views of the node that was
// drilled into; Group is the one on display.
type crumb struct {
	label  string
	nodeID string
	groups []graph.View
	group  int
	view   graph.View
}

// Navigator holds the navigation state of one browsing session.
type Navigator struct {
	docs     []graph.Result
	current  int
	trail    []crumb
	selected string
	filter   string
}

// New creates a Navigator over the given documents and opens the first one.
func New(docs ...graph.Result) *Navigator {
	n := &Navigator{current: -1}
	for _, d := range docs {
		n.AddDocument(d)
	}
	if len(n.docs) > 0 {
		n.open(0)
	}
	return n
}

// AddDocument adds a document, replacing one with the same name. The open
// document is reset to its root when it is the one replaced.
func (n *Navigator) AddDocument(res graph.Result) {
	res.Link()
	for i, d := range n.docs {
		if d.Document == res.Document {
			n.docs[i] = res
			if i == n.current {
				n.open(i)
			}
			return
		}
	}
	n.docs = append(n.docs, res)
}

// AllDocuments returns the names of every document, in insertion order.
func (n *Navigator) AllDocuments() []string {
	names := make([]string, len(n.docs))
	for i, d := range n.docs {
		names[i] = d.Document
	}
	return names
}

// Documents returns the document names matching the search filter: a
// case-insensitive substring match. An empty filter matches everything.
func (n *Navigator) Documents() []string {
	return FilterNames(n.AllDocuments(), n.filter)
}

// FilterNames returns the names containing filter, ignoring case.
func FilterNames(names []string, filter string) []string {
	needle := strings.ToLower(strings.TrimSpace(filter))
	if needle == "" {
		return slices.Clone(names)
	}
	var out []string
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), needle) {
			out = append(out, name)
		}
	}
	return out
}

// SetSearchFilter sets the document search filter. It does not change the
// open document.
func (n *Navigator) SetSearchFilter(text string) { n.filter = text }

// SearchFilter returns the current search filter.
func (n *Navigator) SearchFilter() string { return n.filter }

// OpenDocument shows the root view of the named document and resets the
// trail and selection.
func (n *Navigator) OpenDocument(name string) error {
	for i, d := range n.docs {
		if d.Document == name {
			n.open(i)
			return nil
		}
	}
	return errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", name)
}

func (n *Navigator) open(i int) {
	n.current = i
	label := n.docs[i].Document
	if label == "" {
		label = RootLabel
	}
	n.trail = []crumb{{label: label, view: n.docs[i].Root}}
	n.selected = ""
}

// Document returns the name of the open document, or "" when none is open.
func (n *Navigator) Document() string {
	if n.current < 0 {
		return ""
	}
	return n.docs[n.current].Document
}

// CurrentView returns a copy of the graph on display.
func (n *Navigator) CurrentView() graph.View {
	if len(n.trail) == 0 {
		return graph.View{}
	}
	return n.top().view.Clone()
}

// Breadcrumbs returns the labels of the trail, starting with the document.
func (n *Navigator) Breadcrumbs() []string {
	labels := make([]string, len(n.trail))
	for i, c := range n.trail {
		labels[i] = c.label
	}
	return labels
}

// IsRoot reports whether the root view of the document is on display.
func (n *Navigator) IsRoot() bool { return len(n.trail) <= 1 }

// Selected returns the selected node ID.
func (n *Navigator) Selected() (string, bool) { return n.selected, n.selected != "" }

// ClearSelection deselects the selected node.
func (n *Navigator) ClearSelection() { n.selected = "" }

func (n *Navigator) top() *crumb { return &n.trail[len(n.trail)-1] }

// SelectNode reacts to a click on a node of the current view:
//   - a node with child groups drills into its first group, pushes its
//     label onto the trail and clears the selection
//   - otherwise, below the root, the node becomes selected
//   - otherwise nothing happens
//
// Unknown IDs return an error with code NODE_NOT_FOUND.
func (n *Navigator) SelectNode(id string) (Outcome, error) {
	if len(n.trail) == 0 {
		return OutcomeNone, errors.New(errors.ErrCodeDocumentNotFound, "no document open")
	}
	node, ok := n.top().view.Node(id)
	if !ok {
		return OutcomeNone, errors.New(errors.ErrCodeNodeNotFound, "node %q not in current view", id)
	}

	if groups := n.groupsOf(node); len(groups) > 0 {
		n.trail = append(n.trail, crumb{
			label:  node.DisplayLabel(),
			nodeID: node.ID,
			groups: groups,
			view:   groups[0],
		})
		n.selected = ""
		return OutcomeDrilled, nil
	}

	if n.IsRoot() {
		return OutcomeNone, nil
	}
	n.selected = id
	return OutcomeSelected, nil
}

// groupsOf prefers the attached views and falls back to the document index.
func (n *Navigator) groupsOf(node graph.Node) []graph.View {
	if len(node.Groups) > 0 {
		return node.Groups
	}
	if n.current < 0 {
		return nil
	}
	return n.docs[n.current].Children[node.ID]
}

// Groups returns the child group views of the node last drilled into. At the
// root it returns nil.
func (n *Navigator) Groups() []graph.View {
	if n.IsRoot() {
		return nil
	}
	return slices.Clone(n.top().groups)
}

// GroupIndex returns the index of the group on display, or -1 at the root.
func (n *Navigator) GroupIndex() int {
	if n.IsRoot() {
		return -1
	}
	return n.top().group
}

// SelectGroup shows another child group of the node last drilled into. The
// trail keeps its length and the selection is cleared.
func (n *Navigator) SelectGroup(i int) error {
	if n.IsRoot() {
		return errors.New(errors.ErrCodeUnsupported, "no child groups at the root view")
	}
	top := n.top()
	if i < 0 || i >= len(top.groups) {
		return errors.New(errors.ErrCodeInvalidInput, "group index %d out of range [0,%d)", i, len(top.groups))
	}
	top.group = i
	top.view = top.groups[i]
	n.selected = ""
	return nil
}

// NavigateToBreadcrumb truncates the trail after index and shows the view
// recorded there. Index 0 restores the root view.
func (n *Navigator) NavigateToBreadcrumb(index int) error {
	if index < 0 || index >= len(n.trail) {
		return errors.New(errors.ErrCodeInvalidInput, "breadcrumb index %d out of range [0,%d)", index, len(n.trail))
	}
	n.trail = n.trail[:index+1]
	n.selected = ""
	return nil
}

// Back returns to the previous breadcrumb. It reports false at the root.
func (n *Navigator) Back() bool {
	if n.IsRoot() {
		return false
	}
	return n.NavigateToBreadcrumb(len(n.trail)-2) == nil
}

// Detail is what a detail panel shows for the selected node.
type Detail struct {
	Node    graph.Node
	Inputs  []graph.Node
	Outputs []graph.Node
}

// Detail returns the selected node with its neighbours in the current view.
func (n *Navigator) Detail() (Detail, bool) {
	if n.selected == "" || len(n.trail) == 0 {
		return Detail{}, false
	}
	v := n.top().view
	node, ok := v.Node(n.selected)
	if !ok {
		return Detail{}, false
	}
	return Detail{Node: node, Inputs: v.Inputs(node.ID), Outputs: v.Outputs(node.ID)}, true
}
