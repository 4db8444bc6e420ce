package render

import (
	"context"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/svcgraph/pkg/errors"
	"github.com/matzehuels/svcgraph/pkg/graph"
	"github.com/matzehuels/svcgraph/pkg/layout"
)

func sampleView(dir graph.Direction) graph.View {
	nodes := []graph.Node{
		{ID: "n1", Label: "gateway"},
		{ID: "n2", Label: "orders & billing", GroupCount: 1},
		{ID: "n3", Label: "a-very-long-service-name-that-will-not-fit"},
	}
	edges := []graph.Edge{
		{ID: graph.EdgeID("n1", "n2"), Source: "n1", Target: "n2"},
		{ID: graph.EdgeID("n2", "n3"), Source: "n2", Target: "n3"},
	}
	return layout.Layout(nodes, edges, layout.WithDirection(dir))
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleView(graph.TopToBottom), DOTOptions{Title: "platform"})

	for _, want := range []string{
		"rankdir=TB;",
		`"n1" [label="gateway"];`,
		`"n1" -> "n2";`,
		"peripheries=2",
		`label="platform";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestDOTQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"gateway", `"gateway"`},
		{`say "hi"`, `"say \"hi\""`},
		{`C:\svc`, `"C:\\svc"`},
		{"two\nlines", `"two\nlines"`},
		{"bell\x07tab\t", `"belltab"`},
		{"café ☕", `"café ☕"`},
	}
	for _, tt := range tests {
		if got := dotQuote(tt.in); got != tt.want {
			t.Errorf("dotQuote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestToDOTUnicodeLabel(t *testing.T) {
	v := graph.View{Nodes: []graph.Node{{ID: "n-1", Label: "zahlungs\u00a0dienst ✓"}}}
	dot := ToDOT(v, DOTOptions{})
	if !strings.Contains(dot, "label=\"zahlungs\u00a0dienst ✓\"") {
		t.Errorf("label should be emitted verbatim:\n%s", dot)
	}
	if strings.Contains(dot, `\u`) || strings.Contains(dot, `\x`) {
		t.Errorf("DOT contains Go escapes:\n%s", dot)
	}
}

func TestToDOTDefaultsDirection(t *testing.T) {
	if dot := ToDOT(graph.View{}, DOTOptions{}); !strings.Contains(dot, "rankdir=LR;") {
		t.Errorf("empty view DOT should default to LR:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sampleView(graph.LeftToRight), DOTOptions{Detailed: true})
	if !strings.Contains(dot, `rank: 1, order: 0`) {
		t.Errorf("detailed DOT missing rank info:\n%s", dot)
	}
}

func TestSVGIsWellFormed(t *testing.T) {
	for _, dir := range []graph.Direction{graph.LeftToRight, graph.RightToLeft, graph.TopToBottom, graph.BottomToTop} {
		t.Run(string(dir), func(t *testing.T) {
			svg := SVG(sampleView(dir), WithTitle("<platform>"), WithHighlight("n2"))

			dec := xml.NewDecoder(strings.NewReader(string(svg)))
			for {
				_, err := dec.Token()
				if err != nil {
					if err == io.EOF {
						break
					}
					t.Fatalf("invalid XML: %v\n%s", err, svg)
				}
			}

			s := string(svg)
			if got := strings.Count(s, `<rect `); got != 3 {
				t.Errorf("rects = %d, want 3", got)
			}
			if got := strings.Count(s, `class="edge"`); got != 2 {
				t.Errorf("edges = %d, want 2", got)
			}
			for _, want := range []string{"orders &amp; billing", "&lt;platform&gt;", `class="node groups highlight"`} {
				if !strings.Contains(s, want) {
					t.Errorf("SVG missing %q", want)
				}
			}
		})
	}
}

func TestTruncateLabel(t *testing.T) {
	if got := truncateLabel("short", 172); got != "short" {
		t.Errorf("truncateLabel(short) = %q", got)
	}
	got := truncateLabel(strings.Repeat("x", 100), 172)
	if len(got) >= 100 || !strings.HasSuffix(got, "..") {
		t.Errorf("truncateLabel(long) = %q", got)
	}
}

func TestNodeBoxAnchors(t *testing.T) {
	n := graph.Node{X: 100, Y: 50, Width: 40, Height: 20}
	if b := nodeBox(n, graph.AnchorCenter); b.x != 80 || b.y != 40 {
		t.Errorf("center box = %+v", b)
	}
	if b := nodeBox(n, graph.AnchorTopLeft); b.x != 100 || b.y != 50 {
		t.Errorf("top-left box = %+v", b)
	}
	b := box{0, 0, 40, 20}
	if x, y := b.side(graph.SideRight); x != 40 || y != 10 {
		t.Errorf("right side = %v,%v", x, y)
	}
	if x, y := b.side(graph.SideTop); x != 20 || y != 0 {
		t.Errorf("top side = %v,%v", x, y)
	}
}

func TestRenderFormats(t *testing.T) {
	ctx := context.Background()
	v := sampleView(graph.LeftToRight)

	data, err := Render(ctx, v, FormatJSON, EngineNative)
	if err != nil || !strings.Contains(string(data), `"nodes"`) {
		t.Errorf("json render = %s, %v", data, err)
	}
	data, err = Render(ctx, v, FormatDOT, EngineNative)
	if err != nil || !strings.HasPrefix(string(data), "digraph G {") {
		t.Errorf("dot render = %s, %v", data, err)
	}
	data, err = Render(ctx, v, FormatSVG, EngineNative)
	if err != nil || !strings.HasPrefix(string(data), "<svg") {
		t.Errorf("svg render = %.40s, %v", data, err)
	}
	if _, err := Render(ctx, v, Format("gif"), EngineNative); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("gif render error = %v, want INVALID_FORMAT", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []Format
		wantErr bool
	}{
		{"", []Format{FormatSVG}, false},
		{"svg,PNG, dot", []Format{FormatSVG, FormatPNG, FormatDOT}, false},
		{"json,json", []Format{FormatJSON}, false},
		{"svg,pdf", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseFormats(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormats(%q) error = %v", tt.in, err)
			continue
		}
		if strings.Join(formatStrings(got), ",") != strings.Join(formatStrings(tt.want), ",") {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func formatStrings(fs []Format) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return out
}

func TestParseEngine(t *testing.T) {
	if e, err := ParseEngine(""); err != nil || e != EngineNative {
		t.Errorf("ParseEngine(\"\") = %v, %v", e, err)
	}
	if e, err := ParseEngine("Graphviz"); err != nil || e != EngineGraphviz {
		t.Errorf("ParseEngine(Graphviz) = %v, %v", e, err)
	}
	if _, err := ParseEngine("canvas"); err == nil {
		t.Error("ParseEngine(canvas) should fail")
	}
}

func TestContentType(t *testing.T) {
	if FormatSVG.ContentType() != "image/svg+xml" || FormatDOT.ContentType() != "text/vnd.graphviz" {
		t.Error("ContentType mismatch")
	}
}
