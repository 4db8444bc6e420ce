// Package service defines the nested service description that svcgraph
// flattens, and decodes it from JSON, TOML and YAML.
//
// A document is a list of [Entry] values. Each entry names a service, may
// point at the service it feeds (Output) or is fed by (Input), and may own
// [ChildGroup] values whose members are entries again:
//
//	[
//	  {"name": "gateway", "input": null, "output": "orders", "children": []},
//	  {"name": "orders", "input": null, "output": null, "children": [
//	    {"idStuff": "g1", "AnotherIdStuff": "x", "childs": [
//	      {"name": "validate", "input": null, "output": null, "children": []},
//	      {"name": "persist", "input": "validate", "output": null, "children": []}
//	    ]}
//	  ]}
//	]
//
// Among root entries, Output links a service to the named consumer. Inside a
// child group, Input links a member to the nearest preceding sibling with
// that name.
package service

import (
	"github.com/matzehuels/svcgraph/pkg/errors"
)

// Entry is one service declaration.
type Entry struct {
	Name     string       `json:"name" toml:"name" yaml:"name" bson:"name"`
	Input    *string      `json:"input" toml:"input,omitempty" yaml:"input" bson:"input,omitempty"`
	Output   *string      `json:"output" toml:"output,omitempty" yaml:"output" bson:"output,omitempty"`
	Children []ChildGroup `json:"children" toml:"children,omitempty" yaml:"children" bson:"children,omitempty"`
}

// ChildGroup is a set of services nested under a parent entry. The two
// metadata fields are carried through unchanged.
type ChildGroup struct {
	IDStuff        string  `json:"idStuff" toml:"idStuff" yaml:"idStuff" bson:"idStuff"`
	AnotherIDStuff string  `json:"AnotherIdStuff" toml:"AnotherIdStuff" yaml:"AnotherIdStuff" bson:"AnotherIdStuff"`
	Childs         []Entry `json:"childs" toml:"childs" yaml:"childs" bson:"childs"`
}

// InputRef returns the input reference, or "" when absent.
func (e Entry) InputRef() string { return deref(e.Input) }

// OutputRef returns the output reference, or "" when absent.
func (e Entry) OutputRef() string { return deref(e.Output) }

// HasChildren reports whether the entry owns at least one child group.
func (e Entry) HasChildren() bool { return len(e.Children) > 0 }

// Ref returns a pointer to s, for building entries in code.
func Ref(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Document is a named root-level service graph. Name identifies it in stores
// and is what the browser's search filter matches on.
type Document struct {
	Name    string  `json:"name" bson:"_id"`
	Entries []Entry `json:"entries" bson:"entries"`
}

// Validate checks the document name and every service name, recursively.
func (d Document) Validate() error {
	if err := errors.ValidateDocumentName(d.Name); err != nil {
		return err
	}
	return ValidateEntries(d.Entries)
}

// ValidateEntries checks that every entry, at any depth, has a usable name.
// Unresolvable references are not validated: the flattener drops them.
func ValidateEntries(entries []Entry) error {
	for i, e := range entries {
		if err := errors.ValidateServiceName(e.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "entry %d", i)
		}
		for gi, g := range e.Children {
			if err := ValidateEntries(g.Childs); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: group %d", e.Name, gi)
			}
		}
	}
	return nil
}

// Count returns the number of entries at every depth.
func Count(entries []Entry) int {
	n := len(entries)
	for _, e := range entries {
		for _, g := range e.Children {
			n += Count(g.Childs)
		}
	}
	return n
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	return Document{Name: d.Name, Entries: CloneEntries(d.Entries)}
}

// CloneEntries deep-copies entries, including reference strings and nested
// groups.
func CloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{Name: e.Name, Input: cloneRef(e.Input), Output: cloneRef(e.Output)}
		if e.Children != nil {
			out[i].Children = make([]ChildGroup, len(e.Children))
			for gi, g := range e.Children {
				out[i].Children[gi] = ChildGroup{
					IDStuff:        g.IDStuff,
					AnotherIDStuff: g.AnotherIDStuff,
					Childs:         CloneEntries(g.Childs),
				}
			}
		}
	}
	return out
}

func cloneRef(s *string) *string {
	if s == nil {
		return nil
	}
	return Ref(*s)
}
