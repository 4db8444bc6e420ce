package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svcgraph/pkg/service"
	"github.com/matzehuels/svcgraph/pkg/store"
)

// docsCommand creates the docs command for managing the document store.
func (c *CLI) docsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage stored service documents",
	}

	cmd.AddCommand(c.docsPutCommand())
	cmd.AddCommand(c.docsGetCommand())
	cmd.AddCommand(c.docsListCommand())
	cmd.AddCommand(c.docsDeleteCommand())

	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func (c *CLI) docsPutCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "put <file...>",
		Short: "Store documents, replacing any with the same name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name != "" && len(args) > 1 {
				return fmt.Errorf("--name requires a single file")
			}
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				for _, path := range args {
					doc, err := service.ReadFile(path)
					if err != nil {
						return err
					}
					if name != "" {
						doc.Name = name
					}
					if err := st.Put(ctx, doc); err != nil {
						return err
					}
					printSuccess("Stored %s %s", styleAccent.Render(doc.Name),
						styleMuted.Render(plural(service.Count(doc.Entries), "service")))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "store under this name instead of the file name")
	return cmd
}

func (c *CLI) docsGetCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Print a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := service.ParseFormat(format)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				doc, err := st.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return service.Encode(stdout, doc.Entries, f)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, toml, yaml")
	return cmd
}

func (c *CLI) docsListCommand() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored document names",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				names, err := store.Search(ctx, st, search)
				if err != nil {
					return err
				}
				if len(names) == 0 {
					printInfo("No documents")
					return nil
				}
				for _, n := range names {
					fmt.Fprintln(stdout, n)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only names containing this text (case-insensitive)")
	return cmd
}

func (c *CLI) docsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name...>",
		Aliases: []string{"rm"},
		Short:   "Delete stored documents",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				for _, name := range args {
					if err := st.Delete(ctx, name); err != nil {
						return err
					}
					printSuccess("Deleted %s", name)
				}
				return nil
			})
		},
	}
}
