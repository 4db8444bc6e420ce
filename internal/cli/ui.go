package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives command output. Logs and spinners go to stderr.
var stdout io.Writer = os.Stdout

var (
	teal  = lipgloss.Color("36")
	green = lipgloss.Color("35")
	red   = lipgloss.Color("167")
	blue  = lipgloss.Color("75")
	white = lipgloss.Color("255")
	gray  = lipgloss.Color("245")
	dim   = lipgloss.Color("240")
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(teal)
	styleAccent = lipgloss.NewStyle().Foreground(teal)
	styleMuted  = lipgloss.NewStyle().Foreground(dim)
	styleValue  = lipgloss.NewStyle().Foreground(white)
	styleOK     = lipgloss.NewStyle().Foreground(green)
	styleNote   = lipgloss.NewStyle().Foreground(gray)
	styleCmd    = lipgloss.NewStyle().Foreground(blue)
)

func status(glyph lipgloss.Style, mark, format string, args ...any) {
	fmt.Fprintf(stdout, "%s %s\n", glyph.Render(mark), fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(styleOK, "✓", format, args...) }
func printInfo(format string, args ...any)    { status(styleNote, "›", format, args...) }

// printDetail writes an indented secondary line under the last status.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+styleMuted.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintf(stdout, "  %s %s\n", styleMuted.Render("→"), styleValue.Render(path))
}

func printNextStep(description, cmd string) {
	fmt.Fprintf(stdout, "%s %s\n", styleMuted.Render(description+":"), styleCmd.Render(cmd))
}

// graphStats is the summary printed after flatten and render.
type graphStats struct {
	Nodes, Edges, Groups int
	Cached               bool
}

// statsLine renders e.g. "3 nodes · 2 edges · 1 group · fresh", leaving
// out zero counts.
func statsLine(s graphStats) string {
	var parts []string
	for _, c := range []struct {
		n    int
		noun string
	}{{s.Nodes, "node"}, {s.Edges, "edge"}, {s.Groups, "group"}} {
		if c.n > 0 {
			parts = append(parts, styleMuted.Render(plural(c.n, c.noun)))
		}
	}
	if s.Cached {
		parts = append(parts, styleOK.Render("cached"))
	} else {
		parts = append(parts, styleNote.Render("fresh"))
	}
	return "  " + strings.Join(parts, styleMuted.Render(" · "))
}

func printStats(s graphStats) { fmt.Fprintln(stdout, statsLine(s)) }

func plural(n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return fmt.Sprintf("%d %s", n, noun)
}
