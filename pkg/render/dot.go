package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/svcgraph/pkg/errors"
	"github.com/matzehuels/svcgraph/pkg/graph"
)

// DOTOptions configures DOT emission.
type DOTOptions struct {
	// Detailed adds rank and order to labels.
	Detailed bool
	// Title sets the graph label.
	Title string
}

// ToDOT converts a view to Graphviz DOT. Nodes owning child groups get a
// double border.
func ToDOT(v graph.View, opts DOTOptions) string {
	dir := v.Direction
	if dir == "" {
		dir = graph.DefaultDirection
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%s;\n  labelloc=t;\n", dotQuote(opts.Title))
	}
	buf.WriteString("\n")

	for _, n := range v.Nodes {
		fmt.Fprintf(&buf, "  %s [%s];\n", dotQuote(n.ID), strings.Join(dotAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range v.Edges {
		fmt.Fprintf(&buf, "  %s -> %s;\n", dotQuote(e.Source), dotQuote(e.Target))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotAttrs(n graph.Node, detailed bool) []string {
	label := n.DisplayLabel()
	if detailed {
		label += fmt.Sprintf("\nrank: %d, order: %d", n.Rank, n.Order)
	}
	attrs := []string{"label=" + dotQuote(label)}
	if n.HasGroups() {
		attrs = append(attrs, "peripheries=2", "fillcolor=\"#eef3fb\"")
	}
	return attrs
}

// dotQuote returns s as a DOT double-quoted string. Quote and backslash
// are escaped, a newline becomes a DOT line break, and other control
// characters are dropped.
func dotQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// RenderGraphviz renders DOT to SVG or PNG with the embedded Graphviz.
func RenderGraphviz(ctx context.Context, dot string, f Format) ([]byte, error) {
	var gvFormat graphviz.Format
	switch f {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "graphviz cannot render %q", f)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if f == FormatSVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one whose
// width and height match the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
