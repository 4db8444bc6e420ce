package graph

import (
	"fmt"
	"slices"
	"strings"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Direction is the flow direction of a layered layout.
type Direction string

// Layout directions.
const (
	TopToBottom Direction = "TB"
	BottomToTop Direction = "BT"
	LeftToRight Direction = "LR"
	RightToLeft Direction = "RL"
)

// DefaultDirection is used when no direction is requested.
const DefaultDirection = LeftToRight

// IsHorizontal reports whether ranks advance along the x axis.
func (d Direction) IsHorizontal() bool { return d == LeftToRight || d == RightToLeft }

// IsReversed reports whether ranks advance towards negative coordinates
// (right-to-left or bottom-to-top).
func (d Direction) IsReversed() bool { return d == RightToLeft || d == BottomToTop }

// ParseDirection parses a direction name. Both the short form ("LR") and
// the long form ("left-to-right") are accepted, case-insensitively. An empty
// string yields [DefaultDirection].
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultDirection, nil
	case "tb", "top-to-bottom":
		return TopToBottom, nil
	case "bt", "bottom-to-top":
		return BottomToTop, nil
	case "lr", "left-to-right":
		return LeftToRight, nil
	case "rl", "right-to-left":
		return RightToLeft, nil
	}
	return "", fmt.Errorf("invalid direction: %q (must be one of: TB, BT, LR, RL)", s)
}

// Side names the border of a node an edge attaches to.
type Side string

// Node sides.
const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideTop    Side = "top"
	SideBottom Side = "bottom"
)

// Anchor tells renderers which point of a node X/Y refer to.
type Anchor string

// Anchors.
const (
	AnchorCenter  Anchor = "center"
	AnchorTopLeft Anchor = "top-left"
)

// =============================================================================
// Node - Rendered Service
// =============================================================================

// Node is one positioned service in a [View].
//
// ID is the surrogate identifier minted during flattening, Label the display
// name from the input document. Groups holds the views of the child groups
// owned by this service; it is not serialized because the same views are
// reachable through [ChildIndex] (see [Result.Link]).
type Node struct {
	ID     string  `json:"id" bson:"id"`
	Label  string  `json:"label" bson:"label"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height float64 `json:"height,omitempty" bson:"height,omitempty"`

	Rank  int `json:"rank" bson:"rank"`
	Order int `json:"order" bson:"order"`

	SourceSide Side `json:"source_side,omitempty" bson:"source_side,omitempty"`
	TargetSide Side `json:"target_side,omitempty" bson:"target_side,omitempty"`

	GroupCount int    `json:"group_count,omitempty" bson:"group_count,omitempty"`
	Groups     []View `json:"-" bson:"-"`
}

// HasGroups reports whether the node owns at least one child group.
func (n Node) HasGroups() bool { return len(n.Groups) > 0 || n.GroupCount > 0 }

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// =============================================================================
// Edge - Directed Connection
// =============================================================================

// Edge is a directed connection between two nodes of the same [View].
type Edge struct {
	ID     string `json:"id" bson:"id"`
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// EdgeID returns the identifier used for the edge source→target.
func EdgeID(source, target string) string {
	return "e-" + source + "-" + target
}

// =============================================================================
// View - Positioned Graph
// =============================================================================

// View is a fully positioned, renderable graph: either the root graph of a
// document or the graph of one child group.
type View struct {
	Nodes     []Node    `json:"nodes" bson:"nodes"`
	Edges     []Edge    `json:"edges" bson:"edges"`
	Direction Direction `json:"direction,omitempty" bson:"direction,omitempty"`
	Anchor    Anchor    `json:"anchor,omitempty" bson:"anchor,omitempty"`
	Width     float64   `json:"width" bson:"width"`
	Height    float64   `json:"height" bson:"height"`
}

// IsEmpty reports whether the view has no nodes.
func (v View) IsEmpty() bool { return len(v.Nodes) == 0 }

// Node returns the node with the given ID.
func (v View) Node(id string) (Node, bool) {
	for _, n := range v.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// NodeIDs returns the node IDs in view order.
func (v View) NodeIDs() []string {
	ids := make([]string, len(v.Nodes))
	for i, n := range v.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Inputs returns the nodes with an edge into id, in edge order.
func (v View) Inputs(id string) []Node {
	var out []Node
	for _, e := range v.Edges {
		if e.Target != id {
			continue
		}
		if n, ok := v.Node(e.Source); ok {
			out = append(out, n)
		}
	}
	return out
}

// Outputs returns the nodes id has an edge to, in edge order.
func (v View) Outputs(id string) []Node {
	var out []Node
	for _, e := range v.Edges {
		if e.Source != id {
			continue
		}
		if n, ok := v.Node(e.Target); ok {
			out = append(out, n)
		}
	}
	return out
}

// Sorted returns the nodes ordered by rank, then by order within the rank.
// This is the reading order used by list-based consumers.
func (v View) Sorted() []Node {
	nodes := slices.Clone(v.Nodes)
	slices.SortStableFunc(nodes, func(a, b Node) int {
		if a.Rank != b.Rank {
			return a.Rank - b.Rank
		}
		return a.Order - b.Order
	})
	return nodes
}

// Validate checks that every edge references nodes of this view.
func (v View) Validate() error {
	ids := make(map[string]struct{}, len(v.Nodes))
	for _, n := range v.Nodes {
		ids[n.ID] = struct{}{}
	}
	for _, e := range v.Edges {
		if _, ok := ids[e.Source]; !ok {
			return fmt.Errorf("edge %s: unknown source %q", e.ID, e.Source)
		}
		if _, ok := ids[e.Target]; !ok {
			return fmt.Errorf("edge %s: unknown target %q", e.ID, e.Target)
		}
	}
	return nil
}

// Clone returns a deep copy of the view, including attached group views.
func (v View) Clone() View {
	out := v
	out.Nodes = make([]Node, len(v.Nodes))
	for i, n := range v.Nodes {
		out.Nodes[i] = n
		if n.Groups != nil {
			out.Nodes[i].Groups = make([]View, len(n.Groups))
			for j, g := range n.Groups {
				out.Nodes[i].Groups[j] = g.Clone()
			}
		}
	}
	out.Edges = slices.Clone(v.Edges)
	return out
}

// ChildIndex maps the surrogate ID of a parent node to the views of its
// child groups, in declaration order.
type ChildIndex map[string][]View
