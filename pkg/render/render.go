package render

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/svcgraph/pkg/errors"
	"github.com/matzehuels/svcgraph/pkg/graph"
)

// Format is an output format.
type Format string

// Output formats.
const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// Formats lists every supported output format.
var Formats = []Format{FormatSVG, FormatPNG, FormatDOT, FormatJSON}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	}
	return "text/vnd.graphviz"
}

// Engine selects how images are drawn.
type Engine string

// Engines.
const (
	EngineNative   Engine = "native"
	EngineGraphviz Engine = "graphviz"
)

// ParseFormats parses a comma-separated list of formats, dropping
// duplicates. An empty string yields svg.
func ParseFormats(s string) ([]Format, error) {
	if strings.TrimSpace(s) == "" {
		return []Format{FormatSVG}, nil
	}
	var out []Format
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if !slices.Contains(Formats, f) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, dot, json)", part)
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out, nil
}

// ParseEngine parses an engine name. An empty string yields native.
func ParseEngine(s string) (Engine, error) {
	switch Engine(strings.ToLower(strings.TrimSpace(s))) {
	case "", EngineNative:
		return EngineNative, nil
	case EngineGraphviz:
		return EngineGraphviz, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "invalid engine: %q (must be native or graphviz)", s)
}

// Render produces one output of a view. SVG options apply to the native
// engine only.
func Render(ctx context.Context, v graph.View, f Format, e Engine, opts ...SVGOption) ([]byte, error) {
	switch f {
	case FormatJSON:
		data, err := graph.MarshalView(v)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode view")
		}
		return data, nil
	case FormatDOT:
		return []byte(ToDOT(v, DOTOptions{})), nil
	case FormatSVG:
		if e == EngineGraphviz {
			return RenderGraphviz(ctx, ToDOT(v, DOTOptions{}), FormatSVG)
		}
		return SVG(v, opts...), nil
	case FormatPNG:
		if e == EngineGraphviz {
			return RenderGraphviz(ctx, ToDOT(v, DOTOptions{}), FormatPNG)
		}
		return ToPNG(SVG(v, opts...), 2.0)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
}
