package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svcgraph/pkg/pipeline"
	"github.com/matzehuels/svcgraph/pkg/render"
	"github.com/matzehuels/svcgraph/pkg/view"
)

// renderOpts holds the flags for the render command.
type renderOpts struct {
	input     inputOpts
	output    string // output file (single format) or base path
	formats   string // comma-separated formats
	engine    string
	group     string // label path to a child group, e.g. "orders/db:1"
	direction string
	ids       string
	highlight string // comma-separated node labels
	noCache   bool
	refresh   bool
}

// renderCommand creates the render command, which draws the root view (or
// one child group view) of a document.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file|->",
		Short: "Render a service document as SVG, PNG, DOT or JSON",
		Example: `  svcgraph render platform.yaml -f svg,dot
  svcgraph render platform.yaml --group orders --engine graphviz -o orders.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	opts.input.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.engine, "engine", string(pipeline.DefaultEngine), "image engine: native, graphviz")
	cmd.Flags().StringVarP(&opts.group, "group", "g", "", "render a child group by label path, e.g. orders/db:1")
	cmd.Flags().StringVar(&opts.direction, "direction", "", "layout direction: LR, RL, TB, BT (default: config layout.direction)")
	cmd.Flags().StringVar(&opts.ids, "ids", pipeline.DefaultIDs, "node id scheme: sequential, uuid")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "comma-separated node labels to emphasise (native engine)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result and artifact caches")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, arg string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	formats, err := render.ParseFormats(opts.formats)
	if err != nil {
		return err
	}

	doc, err := c.loadDocument(ctx, arg, opts.input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		Direction: c.direction(opts.direction),
		IDs:       opts.ids,
		Refresh:   opts.refresh,
		Formats:   formatStrings(formats),
		Engine:    opts.engine,
		Path:      view.ParsePath(opts.group),
		Highlight: pipeline.ParseHighlight(opts.highlight),
		Logger:    logger,
	}

	var result *pipeline.Result
	err = spin(ctx, os.Stderr, "Rendering "+doc.Name, func(*spinner) error {
		var err error
		result, err = runner.Execute(ctx, doc, popts)
		return err
	})
	if err != nil {
		return err
	}

	base := basePath(opts.output, inputName(arg, doc.Name))
	var written []string
	for _, f := range formats {
		path := base + "." + string(f)
		if len(formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := os.WriteFile(path, result.Artifacts[string(f)], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	title := doc.Name
	if len(popts.Path) > 0 {
		title += " > " + strings.Join(popts.Path, " > ")
	}
	printSuccess("Rendered %s", styleAccent.Render(title))
	printStats(graphStats{
		Nodes:  result.Stats.NodeCount,
		Edges:  result.Stats.EdgeCount,
		Groups: groupCount(result.Graph),
		Cached: result.CacheInfo.FlattenHit && result.CacheInfo.RenderHit,
	})
	for _, path := range written {
		printFile(path)
	}
	return nil
}

// basePath derives the base output path. An empty output uses the input
// path without its extension; a known format extension on output is
// stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(render.Formats, render.Format(strings.TrimPrefix(ext, "."))) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// inputName is the path outputs are named after: the file itself, or the
// document name for stdin and stored documents.
func inputName(arg, docName string) string {
	if arg == "-" || filepath.Ext(arg) == "" {
		return docName
	}
	return arg
}

func formatStrings(fs []render.Format) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return out
}
