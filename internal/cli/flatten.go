package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svcgraph/pkg/graph"
	"github.com/matzehuels/svcgraph/pkg/pipeline"
)

// flattenOpts holds the flags for the flatten command.
type flattenOpts struct {
	input     inputOpts
	output    string
	direction string
	ids       string
	noCache   bool
	refresh   bool
}

// flattenCommand creates the flatten command, which writes the flattened
// document (root view plus every child group view) as JSON.
func (c *CLI) flattenCommand() *cobra.Command {
	var opts flattenOpts

	cmd := &cobra.Command{
		Use:   "flatten <file|->",
		Short: "Flatten a service document into laid-out graph views (JSON)",
		Example: `  svcgraph flatten platform.yaml -o platform.json
  cat platform.json | svcgraph flatten - --direction TB`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFlatten(cmd.Context(), args[0], opts)
		},
	}

	opts.input.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&opts.direction, "direction", "", "layout direction: LR, RL, TB, BT (default: config layout.direction)")
	cmd.Flags().StringVar(&opts.ids, "ids", pipeline.DefaultIDs, "node id scheme: sequential, uuid")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runFlatten(ctx context.Context, arg string, opts flattenOpts) error {
	logger := loggerFromContext(ctx)

	doc, err := c.loadDocument(ctx, arg, opts.input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	t := startTimer(logger)
	res, hit, err := runner.FlattenWithCacheInfo(ctx, doc, pipeline.Options{
		Direction: c.direction(opts.direction),
		IDs:       opts.ids,
		Refresh:   opts.refresh,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	t.finish("Flattened "+doc.Name, "nodes", res.NodeCount(), "edges", res.EdgeCount(), "cached", hit)

	out, closeOut, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	if err := graph.WriteResult(res, out); err != nil {
		closeOut()
		return fmt.Errorf("write result: %w", err)
	}
	if err := closeOut(); err != nil {
		return err
	}

	if opts.output != "" && opts.output != "-" {
		printSuccess("Flattened %s", styleAccent.Render(doc.Name))
		printStats(graphStats{Nodes: res.NodeCount(), Edges: res.EdgeCount(), Groups: groupCount(res), Cached: hit})
		printFile(opts.output)
	}
	return nil
}

// direction returns the flag value, falling back to the configured default.
func (c *CLI) direction(flag string) string {
	if flag != "" {
		return flag
	}
	return c.cfg.Layout.Direction
}

// groupCount counts the child group views of a flattened document.
func groupCount(res graph.Result) int {
	n := 0
	for _, views := range res.Children {
		n += len(views)
	}
	return n
}
