package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/svcgraph/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Logging:
//   - Default: info level (logs to stderr), or log.level from the config
//   - With --verbose (-v): debug level
//
// The logger is attached to the command context and reachable from every
// command via loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           appName,
		Short:         "svcgraph flattens nested service descriptions into navigable graphs",
		Long:          `svcgraph turns a nested description of services into laid-out directed graphs: one for the top-level services and one for every child group, rendered as SVG, PNG, DOT or JSON, served over HTTP or browsed in the terminal.`,
		Version:       buildinfo.Current().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(verbose); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./svcgraph.yaml or the user config dir)")

	root.AddCommand(c.flattenCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.docsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
