package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/svcgraph/pkg/graph"
	"github.com/matzehuels/svcgraph/pkg/pipeline"
	"github.com/matzehuels/svcgraph/pkg/service"
	"github.com/matzehuels/svcgraph/pkg/store"
	"github.com/matzehuels/svcgraph/pkg/view"
)

// browseCommand creates the browse command: an interactive terminal
// navigator over flattened documents.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		direction string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "browse [file...]",
		Short: "Browse documents and drill into child groups interactively",
		Long:  `Browse flattens the given files (or every stored document when no files are given) and opens an interactive navigator. Enter drills into a service's child groups, tab cycles through sibling groups and backspace goes back.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			results, err := c.browseResults(ctx, args, direction, noCache)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				printInfo("No documents to browse")
				printNextStep("Store one with", "svcgraph docs put platform.yaml")
				return nil
			}
			_, err = tea.NewProgram(newBrowseModel(view.New(results...)), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "", "layout direction: LR, RL, TB, BT (default: config layout.direction)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

// browseResults flattens every document to browse.
func (c *CLI) browseResults(ctx context.Context, files []string, direction string, noCache bool) ([]graph.Result, error) {
	var docs []service.Document
	if len(files) == 0 {
		err := c.withStore(ctx, func(st store.Store) error {
			names, err := st.List(ctx)
			if err != nil {
				return err
			}
			for _, name := range names {
				doc, err := st.Get(ctx, name)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	for _, path := range files {
		doc, err := service.ReadFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	opts := pipeline.Options{Direction: c.direction(direction), Logger: loggerFromContext(ctx)}
	results := make([]graph.Result, 0, len(docs))
	for _, doc := range docs {
		res, err := runner.Flatten(ctx, doc, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", doc.Name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// =============================================================================
// browseModel - Interactive navigator
// =============================================================================

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(teal)
	listNormalStyle   = lipgloss.NewStyle().Foreground(white)
	listDimStyle      = lipgloss.NewStyle().Foreground(dim)
	crumbStyle        = lipgloss.NewStyle().Foreground(blue)
	panelStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(dim).Padding(0, 1)
	errorStyle        = lipgloss.NewStyle().Foreground(red)
)

type browseScreen int

const (
	screenDocuments browseScreen = iota
	screenGraph
)

// browseModel is the bubbletea model behind the browse command. The
// navigator owns all navigation state; the model only tracks the cursor.
type browseModel struct {
	nav       *view.Navigator
	screen    browseScreen
	cursor    int
	offset    int
	height    int
	searching bool
	status    string
}

func newBrowseModel(nav *view.Navigator) browseModel {
	return browseModel{nav: nav, height: 15}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-12, 5)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.status = ""
		if m.searching {
			return m.updateSearch(msg), nil
		}
		if m.screen == screenDocuments {
			return m.updateDocuments(msg)
		}
		return m.updateGraph(msg)
	}
	return m, nil
}

func (m browseModel) updateSearch(msg tea.KeyMsg) browseModel {
	filter := m.nav.SearchFilter()
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
	case tea.KeyBackspace:
		if r := []rune(filter); len(r) > 0 {
			m.nav.SetSearchFilter(string(r[:len(r)-1]))
		}
	case tea.KeyRunes, tea.KeySpace:
		m.nav.SetSearchFilter(filter + string(msg.Runes))
	}
	m.cursor, m.offset = 0, 0
	return m
}

func (m browseModel) updateDocuments(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	docs := m.nav.Documents()
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "/":
		m.searching = true
	case "up", "k":
		m.moveCursor(-1, len(docs))
	case "down", "j":
		m.moveCursor(1, len(docs))
	case "enter":
		if len(docs) == 0 {
			return m, nil
		}
		if err := m.nav.OpenDocument(docs[m.cursor]); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.screen = screenGraph
		m.cursor, m.offset = 0, 0
	}
	return m, nil
}

func (m browseModel) updateGraph(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nodes := m.nav.CurrentView().Sorted()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1, len(nodes))
	case "down", "j":
		m.moveCursor(1, len(nodes))
	case "enter":
		if len(nodes) == 0 {
			return m, nil
		}
		outcome, err := m.nav.SelectNode(nodes[m.cursor].ID)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		if outcome == view.OutcomeDrilled {
			m.cursor, m.offset = 0, 0
		}
	case "tab", "shift+tab":
		groups := m.nav.Groups()
		if len(groups) < 2 {
			return m, nil
		}
		step := 1
		if msg.String() == "shift+tab" {
			step = len(groups) - 1
		}
		if err := m.nav.SelectGroup((m.nav.GroupIndex() + step) % len(groups)); err != nil {
			m.status = err.Error()
		}
		m.cursor, m.offset = 0, 0
	case "home", "g":
		_ = m.nav.NavigateToBreadcrumb(0)
		m.cursor, m.offset = 0, 0
	case "backspace", "esc", "left", "h":
		if _, ok := m.nav.Selected(); ok {
			m.nav.ClearSelection()
			return m, nil
		}
		if !m.nav.Back() {
			m.screen = screenDocuments
		}
		m.cursor, m.offset = 0, 0
	}
	return m, nil
}

func (m *browseModel) moveCursor(delta, n int) {
	if n == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m browseModel) View() string {
	var b strings.Builder
	if m.screen == screenDocuments {
		m.viewDocuments(&b)
	} else {
		m.viewGraph(&b)
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.status))
	}
	return b.String()
}

func (m browseModel) viewDocuments(b *strings.Builder) {
	b.WriteString(styleTitle.Render("Documents"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  / search  q quit"))
	b.WriteString("\n")
	if m.searching || m.nav.SearchFilter() != "" {
		cursor := ""
		if m.searching {
			cursor = "▏"
		}
		b.WriteString(styleAccent.Render("/ " + m.nav.SearchFilter() + cursor))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	docs := m.nav.Documents()
	if len(docs) == 0 {
		b.WriteString(listDimStyle.Render("  no matching documents"))
		b.WriteString("\n")
		return
	}
	end := min(m.offset+m.height, len(docs))
	for i := m.offset; i < end; i++ {
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + docs[i]))
		} else {
			b.WriteString(listNormalStyle.Render("  " + docs[i]))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(docs))))
}

func (m browseModel) viewGraph(b *strings.Builder) {
	crumbs := m.nav.Breadcrumbs()
	for i, c := range crumbs {
		if i > 0 {
			b.WriteString(styleMuted.Render(" › "))
		}
		b.WriteString(crumbStyle.Render(c))
	}
	if groups := m.nav.Groups(); len(groups) > 1 {
		b.WriteString(styleMuted.Render(fmt.Sprintf("  group %d/%d", m.nav.GroupIndex()+1, len(groups))))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open/select  ⇥ next group  ⌫ back  g root  q quit"))
	b.WriteString("\n")

	v := m.nav.CurrentView()
	nodes := v.Sorted()
	if len(nodes) == 0 {
		b.WriteString(listDimStyle.Render("\n  empty view\n"))
		return
	}

	end := min(m.offset+m.height, len(nodes))
	rows := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		n := nodes[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		groups := "—"
		if n.GroupCount > 0 {
			groups = fmt.Sprint(n.GroupCount)
		}
		rows = append(rows, []string{
			cursor, n.DisplayLabel(), fmt.Sprint(n.Rank),
			fmt.Sprint(len(v.Inputs(n.ID))), fmt.Sprint(len(v.Outputs(n.ID))), groups,
		})
	}

	selected, _ := m.nav.Selected()
	headerStyle := lipgloss.NewStyle().Foreground(gray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(dim)).
		Headers("", "Service", "Rank", "In", "Out", "Groups").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.offset + row
			if idx >= len(nodes) {
				return lipgloss.NewStyle()
			}
			n := nodes[idx]
			switch {
			case n.ID == selected:
				return styleOK.Bold(true)
			case idx == m.cursor:
				return listSelectedStyle
			case n.GroupCount > 0:
				return listNormalStyle
			}
			return listDimStyle
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	if d, ok := m.nav.Detail(); ok {
		b.WriteString(detailPanel(d))
		b.WriteString("\n")
	}
}

// detailPanel renders the selected node and its neighbours.
func detailPanel(d view.Detail) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(d.Node.DisplayLabel()))
	b.WriteString("\n")
	b.WriteString(styleMuted.Render("id " + d.Node.ID))
	b.WriteString("\n")
	b.WriteString(styleMuted.Render("inputs   ") + labels(d.Inputs))
	b.WriteString("\n")
	b.WriteString(styleMuted.Render("outputs  ") + labels(d.Outputs))
	return panelStyle.Render(b.String())
}

func labels(nodes []graph.Node) string {
	if len(nodes) == 0 {
		return styleMuted.Render("none")
	}
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.DisplayLabel()
	}
	return styleValue.Render(strings.Join(out, ", "))
}
