package cli

import (
	"strings"
	"testing"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "platform.yaml", "platform"},
		{"", "docs/platform.json", "docs/platform"},
		{"out.svg", "platform.yaml", "out"},
		{"out.dot", "platform.yaml", "out"},
		{"out.pdf", "platform.yaml", "out.pdf"},
		{"out", "platform.yaml", "out"},
	}
	for _, tt := range tests {
		t.Run(tt.output+"|"+tt.input, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestInputName(t *testing.T) {
	tests := []struct {
		arg, doc, want string
	}{
		{"platform.yaml", "platform", "platform.yaml"},
		{"-", "stdin", "stdin"},
		{"Billing", "Billing", "Billing"},
	}
	for _, tt := range tests {
		if got := inputName(tt.arg, tt.doc); got != tt.want {
			t.Errorf("inputName(%q, %q) = %q, want %q", tt.arg, tt.doc, got, tt.want)
		}
	}
}

func TestStatsLine(t *testing.T) {
	tests := []struct {
		name  string
		stats graphStats
		want  []string
		not   []string
	}{
		{"fresh", graphStats{Nodes: 5, Edges: 2, Groups: 1}, []string{"5 nodes", "2 edges", "1 group", "fresh"}, []string{"cached"}},
		{"cached", graphStats{Nodes: 1, Cached: true}, []string{"1 node", "cached"}, []string{"edges", "group"}},
		{"empty", graphStats{}, []string{"fresh"}, []string{"node"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statsLine(tt.stats)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("statsLine() = %q, missing %q", got, w)
				}
			}
			for _, n := range tt.not {
				if strings.Contains(got, n) {
					t.Errorf("statsLine() = %q, should not contain %q", got, n)
				}
			}
		})
	}
}
