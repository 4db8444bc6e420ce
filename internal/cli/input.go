package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svcgraph/pkg/service"
)

// inputOpts selects where a command reads its document from.
type inputOpts struct {
	format    string // format for stdin input
	name      string // document name for stdin input
	fromStore bool   // treat the argument as a stored document name
}

func (o *inputOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.format, "input-format", "json", "format of stdin input: json, toml, yaml")
	cmd.Flags().StringVar(&o.name, "name", "stdin", "document name for stdin input")
	cmd.Flags().BoolVar(&o.fromStore, "from-store", false, "load the named document from the configured store")
}

// loadDocument reads the document named by arg: a file path, "-" for stdin,
// or a stored document name with --from-store.
func (c *CLI) loadDocument(ctx context.Context, arg string, o inputOpts) (service.Document, error) {
	switch {
	case o.fromStore:
		st, err := c.openStore(ctx)
		if err != nil {
			return service.Document{}, err
		}
		defer st.Close()
		return st.Get(ctx, arg)

	case arg == "-":
		f, err := service.ParseFormat(o.format)
		if err != nil {
			return service.Document{}, err
		}
		entries, err := service.Decode(os.Stdin, f)
		if err != nil {
			return service.Document{}, err
		}
		doc := service.Document{Name: o.name, Entries: entries}
		return doc, doc.Validate()
	}

	doc, err := service.ReadFile(arg)
	if err != nil {
		return service.Document{}, err
	}
	return doc, doc.Validate()
}

// openOutput opens path for writing, or stdout for "" and "-".
func openOutput(path string) (*os.File, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
