package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/svcgraph/pkg/graph"
)

const (
	defaultNodeWidth  = 172
	defaultNodeHeight = 36
	defaultPadding    = 20
	fontSize          = 12.0
	charWidthRatio    = 0.6
	labelInset        = 16.0
)

const svgStyle = `
    .node rect { fill: #ffffff; stroke: #1a192b; stroke-width: 1; }
    .node.groups rect { fill: #eef3fb; stroke-width: 2; }
    .node.highlight rect { stroke: #ff0072; stroke-width: 3; }
    .node text { font-family: Helvetica, Arial, sans-serif; font-size: 12px; fill: #222; }
    .edge { fill: none; stroke: #b1b1b7; stroke-width: 1.5; }
    .title { font-family: Helvetica, Arial, sans-serif; font-size: 14px; font-weight: bold; fill: #222; }`

// SVGOption configures [SVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title     string
	highlight map[string]bool
	padding   float64
}

// WithTitle draws a title above the graph.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithHighlight emphasises the given node IDs.
func WithHighlight(ids ...string) SVGOption {
	return func(r *svgRenderer) {
		for _, id := range ids {
			r.highlight[id] = true
		}
	}
}

// WithPadding sets the margin around the graph.
func WithPadding(p float64) SVGOption {
	return func(r *svgRenderer) {
		if p >= 0 {
			r.padding = p
		}
	}
}

// box is a node's top-left corner and size.
type box struct{ x, y, w, h float64 }

func (b box) cx() float64 { return b.x + b.w/2 }
func (b box) cy() float64 { return b.y + b.h/2 }

func (b box) side(s graph.Side) (float64, float64) {
	switch s {
	case graph.SideLeft:
		return b.x, b.cy()
	case graph.SideRight:
		return b.x + b.w, b.cy()
	case graph.SideTop:
		return b.cx(), b.y
	case graph.SideBottom:
		return b.cx(), b.y + b.h
	}
	return b.cx(), b.cy()
}

func nodeBox(n graph.Node, anchor graph.Anchor) box {
	w, h := n.Width, n.Height
	if w <= 0 {
		w = defaultNodeWidth
	}
	if h <= 0 {
		h = defaultNodeHeight
	}
	if anchor == graph.AnchorTopLeft {
		return box{n.X, n.Y, w, h}
	}
	return box{n.X - w/2, n.Y - h/2, w, h}
}

// SVG draws a view at the positions computed by layout. Edges run from the
// source side of one node to the target side of the next as cubic curves.
func SVG(v graph.View, opts ...SVGOption) []byte {
	r := svgRenderer{highlight: map[string]bool{}, padding: defaultPadding}
	for _, opt := range opts {
		opt(&r)
	}

	boxes := make(map[string]box, len(v.Nodes))
	width, height := v.Width, v.Height
	for _, n := range v.Nodes {
		b := nodeBox(n, v.Anchor)
		if _, dup := boxes[n.ID]; !dup {
			boxes[n.ID] = b
		}
		width = max(width, b.x+b.w)
		height = max(height, b.y+b.h)
	}

	top := r.padding
	if r.title != "" {
		top += 24
	}
	totalW := width + 2*r.padding
	totalH := height + top + r.padding

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		totalW, totalH, totalW, totalH)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgStyle)
	buf.WriteString(`  <defs><marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="#b1b1b7"/></marker></defs>` + "\n")

	if r.title != "" {
		fmt.Fprintf(&buf, `  <text class="title" x="%.1f" y="%.1f">%s</text>`+"\n", r.padding, r.padding+14, escape(r.title))
	}

	fmt.Fprintf(&buf, `  <g transform="translate(%.1f,%.1f)">`+"\n", r.padding, top)
	for _, e := range v.Edges {
		renderEdge(&buf, v, boxes, e)
	}
	for _, n := range v.Nodes {
		renderNode(&buf, n, boxes[n.ID], r.highlight[n.ID])
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderEdge(buf *bytes.Buffer, v graph.View, boxes map[string]box, e graph.Edge) {
	src, okS := boxes[e.Source]
	dst, okT := boxes[e.Target]
	if !okS || !okT || e.Source == e.Target {
		return
	}
	srcNode, _ := v.Node(e.Source)
	dstNode, _ := v.Node(e.Target)

	x1, y1 := src.side(srcNode.SourceSide)
	x2, y2 := dst.side(dstNode.TargetSide)

	// Control points pull along the flow axis.
	cx1, cy1, cx2, cy2 := x1, y1, x2, y2
	if v.Direction.IsHorizontal() || v.Direction == "" {
		mid := (x1 + x2) / 2
		cx1, cx2 = mid, mid
	} else {
		mid := (y1 + y2) / 2
		cy1, cy2 = mid, mid
	}

	fmt.Fprintf(buf, `    <path class="edge" id="%s" d="M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f" marker-end="url(#arrow)"/>`+"\n",
		escape(e.ID), x1, y1, cx1, cy1, cx2, cy2, x2, y2)
}

func renderNode(buf *bytes.Buffer, n graph.Node, b box, highlight bool) {
	class := "node"
	if n.HasGroups() {
		class += " groups"
	}
	if highlight {
		class += " highlight"
	}

	fmt.Fprintf(buf, `    <g class="%s" id="node-%s">`+"\n", class, escape(n.ID))
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" ry="4"/>`+"\n", b.x, b.y, b.w, b.h)
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		b.cx(), b.cy(), escape(truncateLabel(n.DisplayLabel(), b.w)))
	fmt.Fprintf(buf, "      <title>%s</title>\n", escape(n.DisplayLabel()))
	buf.WriteString("    </g>\n")
}

// truncateLabel shortens label to fit width at the default font size.
func truncateLabel(label string, width float64) string {
	maxChars := int((width - labelInset) / (fontSize * charWidthRatio))
	if maxChars < 3 {
		maxChars = 3
	}
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-2]) + ".."
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
