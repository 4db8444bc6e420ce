package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svcgraph/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local result cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached flatten result and rendered artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.clearCache()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print where the file cache lives",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(stdout, c.cacheDir())
		},
	})
	return cmd
}

// clearCache empties the file backend. Redis entries carry their own TTL
// and are left alone.
func (c *CLI) clearCache() error {
	backend, err := cache.ParseBackend(c.cfg.Cache.Backend)
	if err != nil {
		return err
	}
	if backend != cache.BackendFile {
		printInfo("The %s backend has nothing to clear locally", backend)
		return nil
	}

	fc, err := cache.NewFileCache(c.cacheDir())
	if err != nil {
		return err
	}
	n, err := fc.Clear()
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	if n == 0 {
		printInfo("Cache is already empty")
		return nil
	}
	printSuccess("Removed %s", plural(n, "cached item"))
	printDetail("Directory: %s", fc.Dir())
	return nil
}
