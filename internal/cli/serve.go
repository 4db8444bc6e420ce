package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svcgraph/internal/server"
	"github.com/matzehuels/svcgraph/pkg/graph"
	"github.com/matzehuels/svcgraph/pkg/service"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted. Files given as arguments are loaded into the store first.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [file...]",
		Short: "Serve stored documents and their views over HTTP",
		Example: `  svcgraph serve --addr :9000
  svcgraph serve platform.yaml billing.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache, args)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config server.addr)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result and artifact caches")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool, files []string) error {
	logger := loggerFromContext(ctx)
	if addr == "" {
		addr = c.cfg.Server.Addr
	}

	dir, err := graph.ParseDirection(c.cfg.Layout.Direction)
	if err != nil {
		return err
	}

	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, path := range files {
		doc, err := service.ReadFile(path)
		if err != nil {
			return err
		}
		if err := st.Put(ctx, doc); err != nil {
			return err
		}
		logger.Info("Loaded document", "name", doc.Name, "services", service.Count(doc.Entries))
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(st, runner, logger, server.WithDirection(dir))
	return srv.ListenAndServe(ctx, addr, server.Timeouts{
		Read:     c.cfg.Server.ReadTimeout,
		Write:    c.cfg.Server.WriteTimeout,
		Shutdown: c.cfg.Server.ShutdownTimeout,
	})
}
