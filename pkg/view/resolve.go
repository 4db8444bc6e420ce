package view

import (
	"strconv"
	"strings"

	"github.com/matzehuels/svcgraph/pkg/errors"
	"github.com/matzehuels/svcgraph/pkg/graph"
)

// Resolve follows a path of node labels from the root view of res down
// through child groups and returns the view at the end. Each element is a
// label, optionally suffixed with ":N" to pick group N (default 0). The
// first node carrying a label wins.
//
//	v, err := view.Resolve(res, []string{"orders", "persist:1"})
func Resolve(res graph.Result, path []string) (graph.View, error) {
	nav := New(res)
	for _, step := range path {
		label, group := splitStep(step)
		node, ok := findByLabel(nav.top().view, label)
		if !ok {
			return graph.View{}, errors.New(errors.ErrCodeNodeNotFound, "no node labelled %q under %s", label, strings.Join(nav.Breadcrumbs(), " > "))
		}
		if outcome, _ := nav.SelectNode(node.ID); outcome != OutcomeDrilled {
			return graph.View{}, errors.New(errors.ErrCodeNotFound, "node %q has no child groups", label)
		}
		if group != 0 {
			if err := nav.SelectGroup(group); err != nil {
				return graph.View{}, err
			}
		}
	}
	return nav.CurrentView(), nil
}

// ParsePath splits a path such as "orders/persist:1" into steps.
func ParsePath(s string) []string {
	var steps []string
	for _, part := range strings.Split(s, "/") {
		if part = strings.TrimSpace(part); part != "" {
			steps = append(steps, part)
		}
	}
	return steps
}

func splitStep(step string) (string, int) {
	i := strings.LastIndexByte(step, ':')
	if i < 0 {
		return step, 0
	}
	n, err := strconv.Atoi(step[i+1:])
	if err != nil || n < 0 {
		return step, 0
	}
	return step[:i], n
}

func findByLabel(v graph.View, label string) (graph.Node, bool) {
	for _, n := range v.Nodes {
		if n.Label == label {
			return n, true
		}
	}
	return graph.Node{}, false
}
