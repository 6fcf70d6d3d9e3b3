// internal/dashboard/interactive.go
package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/cryptic/internal/results"
)

type sortKey int

const (
	byAccuracy sortKey = iota
	byCost
	byTokens
)

func (k sortKey) String() string {
	switch k {
	case byCost:
		return "cost"
	case byTokens:
		return "tokens"
	}
	return "accuracy"
}

var (
	detailStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// model is the Bubble Tea model behind RunInteractive.
type model struct {
	data    results.Dashboard
	table   table.Model
	sort    sortKey
	details bool
}

func newModel(d results.Dashboard) *model {
	t := table.New(
		table.WithColumns(columns(100)),
		table.WithFocused(true),
		table.WithHeight(min(len(d.Results)+1, 20)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252")).Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("230")).Background(lipgloss.Color("63"))
	t.SetStyles(styles)

	d.Results = append([]results.WebResult(nil), d.Results...)
	m := &model{data: d, table: t}
	m.refresh()
	return m
}

func columns(width int) []table.Column {
	modelWidth := max(width-70, 20)
	return []table.Column{
		{Title: Columns[0], Width: 3},
		{Title: Columns[1], Width: modelWidth},
		{Title: Columns[2], Width: 16},
		{Title: Columns[3], Width: 10},
		{Title: Columns[4], Width: 8},
		{Title: Columns[5], Width: 10},
		{Title: Columns[6], Width: 9},
	}
}

// refresh re-sorts the results and reloads the table rows.
func (m *model) refresh() {
	rs := m.data.Results
	sort.SliceStable(rs, func(i, j int) bool {
		switch m.sort {
		case byCost:
			return costOf(rs[i]) < costOf(rs[j])
		case byTokens:
			return rs[i].TotalTokens < rs[j].TotalTokens
		}
		return rs[i].Accuracy > rs[j].Accuracy
	})
	cells := Rows(m.data)
	rows := make([]table.Row, 0, len(cells))
	for _, c := range cells {
		rows = append(rows, table.Row(c))
	}
	m.table.SetRows(rows)
}

// costOf sorts unpriced runs last.
func costOf(r results.WebResult) float64 {
	if r.CostUSD == nil {
		return 1e18
	}
	return *r.CostUSD
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.sort = (m.sort + 1) % 3
			m.refresh()
			return m, nil
		case "enter", " ":
			m.details = !m.details
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.table.SetColumns(columns(msg.Width))
		m.table.SetHeight(max(min(len(m.data.Results)+1, msg.Height-8), 3))
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cryptic crossword leaderboard"))
	b.WriteString(faintStyle.Render(fmt.Sprintf("  sorted by %s", m.sort)))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	if m.details {
		if r, ok := m.selected(); ok {
			b.WriteString(detailStyle.Render(detail(r)))
			b.WriteString("\n")
		}
	}
	b.WriteString(helpStyle.Render("↑/↓ move • enter details • s sort • q quit"))
	return b.String()
}

func (m *model) selected() (results.WebResult, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.data.Results) {
		return results.WebResult{}, false
	}
	return m.data.Results[i], true
}

func detail(r results.WebResult) string {
	lines := []string{
		fmt.Sprintf("Model:      %s", r.Model),
		fmt.Sprintf("Run:        %s at %s", r.RunID, r.Timestamp),
		fmt.Sprintf("Accuracy:   %.3f ± %.3f over %d samples", r.Accuracy, r.StdErr, r.SamplesCompleted),
		fmt.Sprintf("Tokens:     %d in, %d out, %d reasoning", r.InputTokens, r.OutputTokens, r.ReasoningTokens),
		fmt.Sprintf("Cost:       %s", formatCost(r.CostUSD)),
	}
	if args := formatArgs(r.ModelArgs); args != "" {
		lines = append(lines, "Arguments: "+args)
	}
	return strings.Join(lines, "\n")
}

// RunInteractive shows the leaderboard until the user quits.
func RunInteractive(d results.Dashboard) error {
	_, err := tea.NewProgram(newModel(d), tea.WithAltScreen()).Run()
	return err
}
