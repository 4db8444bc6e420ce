// Package pipeline provides the flatten → render pipeline shared by the CLI
// and the HTTP API.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Flatten: turn a service document into positioned views (root view plus
//     one view per child group). Layout happens inside this stage.
//  2. Render: pick one view (the root, or a group reached by a label path)
//     and produce artifacts in the requested formats.
//
// Both stages are cached through a [cache.Cache] keyed by content hashes.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Direction: "TB",
//	    Formats:   []string{"svg", "dot"},
//	})
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svcgraph/pkg/cache"
	"github.com/matzehuels/svcgraph/pkg/errors"
	"github.com/matzehuels/svcgraph/pkg/flatten"
	"github.com/matzehuels/svcgraph/pkg/graph"
	"github.com/matzehuels/svcgraph/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultEngine is the default image engine.
	DefaultEngine = render.EngineNative

	// DefaultIDs is the default node ID scheme.
	DefaultIDs = IDsSequential

	// SequentialPrefix starts sequential node IDs. The rest of the prefix
	// comes from the document hash.
	SequentialPrefix = "n"
)

// Node ID schemes.
const (
	// IDsSequential numbers nodes in flattening order under a per-document
	// prefix, so the same document always yields the same IDs.
	IDsSequential = "sequential"
	// IDsUUID assigns random UUIDs.
	IDsUUID = "uuid"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Flatten options
	Direction string `json:"direction,omitempty"`
	IDs       string `json:"ids,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Engine  string   `json:"engine,omitempty"`
	Path    []string `json:"path,omitempty"` // label path to a child group view

	// Highlight names node labels drawn emphasised by the native SVG engine.
	Highlight []string `json:"highlight,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	direction graph.Direction
	formats   []render.Format
	engine    render.Engine
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the flattened document.
	Graph graph.Result

	// DocumentHash is the content hash of the input document.
	DocumentHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	FlattenTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FlattenHit bool // Whether the flattened result came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the full
// pipeline. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFlatten(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForFlatten checks the flatten options and applies their defaults.
func (o *Options) ValidateForFlatten() error {
	d, err := graph.ParseDirection(o.Direction)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDirection, err, "direction")
	}
	o.direction = d
	o.Direction = string(d)

	switch o.IDs {
	case "":
		o.IDs = DefaultIDs
	case IDsSequential, IDsUUID:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid ids: %q (must be sequential or uuid)", o.IDs)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForRender checks the render options and applies their defaults.
func (o *Options) ValidateForRender() error {
	if len(o.formats) == 0 {
		formats, err := parseFormats(o.Formats)
		if err != nil {
			return err
		}
		o.formats = formats
		o.Formats = formatNames(formats)
	}

	e, err := render.ParseEngine(o.Engine)
	if err != nil {
		return err
	}
	o.engine = e
	o.Engine = string(e)

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ResultKeyOpts returns cache key options for the flatten stage.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Direction: o.Direction,
		IDs:       o.IDs,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Engine:    o.Engine,
		Path:      o.Path,
		Highlight: o.Highlight,
	}
}

// flattener builds a Flattener for the document with the given hash.
// Sequential IDs look like n-<hash[:8]>-1, so reruns of one document repeat
// them while different documents never share one.
func (o *Options) flattener(docHash string) *flatten.Flattener {
	gen := flatten.UUID
	if o.IDs == IDsSequential {
		gen = flatten.Sequential(sequentialPrefix(docHash))
	}
	return flatten.New(
		flatten.WithIDGenerator(gen),
		flatten.WithDirection(o.direction),
	)
}

func sequentialPrefix(docHash string) string {
	if len(docHash) > 8 {
		docHash = docHash[:8]
	}
	return SequentialPrefix + "-" + docHash + "-"
}

func parseFormats(names []string) ([]render.Format, error) {
	if len(names) == 0 {
		return []render.Format{render.FormatSVG}, nil
	}
	var out []render.Format
	for _, n := range names {
		fs, err := render.ParseFormats(n)
		if err != nil {
			return nil, err
		}
		for _, f := range fs {
			if !slices.Contains(out, f) {
				out = append(out, f)
			}
		}
	}
	return out, nil
}

func formatNames(fs []render.Format) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return out
}

// ParseHighlight splits a comma-separated list of node labels, dropping
// blanks.
func ParseHighlight(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
