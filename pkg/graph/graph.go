package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Result - Flattened Document
// =============================================================================

// Result is the serialization format for a flattened document: the root view
// plus the index of child group views keyed by parent node ID.
//
// Node.Groups is not part of the wire format. After decoding, call [Result.Link]
// (done by [UnmarshalResult] and [ReadResult]) to re-attach the group views
// to their parent nodes.
type Result struct {
	Document string     `json:"document,omitempty" bson:"document,omitempty"`
	Root     View       `json:"root" bson:"root"`
	Children ChildIndex `json:"children" bson:"children"`
}

// Link attaches the views in Children to every node that owns them, at any
// depth. It is idempotent.
func (r *Result) Link() {
	if r.Children == nil {
		r.Children = ChildIndex{}
	}
	r.Root = r.linkView(r.Root, 0)
	for id, views := range r.Children {
		for i := range views {
			views[i] = r.linkView(views[i], 0)
		}
		r.Children[id] = views
	}
}

// maxLinkDepth bounds recursion for indexes that reference themselves.
const maxLinkDepth = 64

func (r *Result) linkView(v View, depth int) View {
	if depth > maxLinkDepth {
		return v
	}
	for i := range v.Nodes {
		groups, ok := r.Children[v.Nodes[i].ID]
		if !ok {
			continue
		}
		linked := make([]View, len(groups))
		for j, g := range groups {
			linked[j] = r.linkView(g, depth+1)
		}
		v.Nodes[i].Groups = linked
		v.Nodes[i].GroupCount = len(linked)
	}
	return v
}

// NodeCount returns the number of nodes across the root view and every
// indexed child view.
func (r Result) NodeCount() int {
	n := len(r.Root.Nodes)
	for _, views := range r.Children {
		for _, v := range views {
			n += len(v.Nodes)
		}
	}
	return n
}

// EdgeCount returns the number of edges across the root view and every
// indexed child view.
func (r Result) EdgeCount() int {
	n := len(r.Root.Edges)
	for _, views := range r.Children {
		for _, v := range views {
			n += len(v.Edges)
		}
	}
	return n
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalResult serializes a Result to pretty-printed JSON bytes.
func MarshalResult(r Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteResult(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteResult writes a Result as JSON to an io.Writer.
func WriteResult(r Result, w io.Writer) error {
	if r.Children == nil {
		r.Children = ChildIndex{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteResultFile writes a Result to a JSON file.
func WriteResultFile(r Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteResult(r, f)
}

// UnmarshalResult deserializes JSON bytes into a linked Result.
func UnmarshalResult(data []byte) (Result, error) {
	return ReadResult(bytes.NewReader(data))
}

// ReadResult decodes a JSON Result from an io.Reader and links group views.
// Edges referencing unknown nodes are rejected.
func ReadResult(rd io.Reader) (Result, error) {
	var r Result
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return Result{}, fmt.Errorf("decode: %w", err)
	}
	if err := r.Root.Validate(); err != nil {
		return Result{}, fmt.Errorf("root view: %w", err)
	}
	for id, views := range r.Children {
		for i, v := range views {
			if err := v.Validate(); err != nil {
				return Result{}, fmt.Errorf("group %d of %s: %w", i, id, err)
			}
		}
	}
	r.Link()
	return r, nil
}

// ReadResultFile reads a Result from a JSON file.
func ReadResultFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadResult(f)
}

// MarshalView serializes a single View to pretty-printed JSON bytes.
func MarshalView(v View) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
