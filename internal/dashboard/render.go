// internal/dashboard/render.go

// Package dashboard renders the leaderboard built by the results package in
// the terminal, either as a static table or as an interactive view.
package dashboard

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mwiater/cryptic/internal/results"
)

// Columns are the leaderboard headings, in display order.
var Columns = []string{"#", "Model", "Accuracy", "Samples", "Tokens", "Cost", "Run"}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

// Rows formats the leaderboard rows as table cells.
func Rows(d results.Dashboard) [][]string {
	rows := make([][]string, 0, len(d.Results))
	for i, r := range d.Results {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			r.ModelDisplay + formatArgs(r.ModelArgs),
			fmt.Sprintf("%.1f%% ± %.1f", r.Accuracy*100, r.StdErr*100),
			fmt.Sprintf("%d/%d", r.SamplesCompleted, r.SamplesTotal),
			formatTokens(r.TotalTokens),
			formatCost(r.CostUSD),
			r.RunID,
		})
	}
	return rows
}

// Render writes the leaderboard as a bordered table.
func Render(w io.Writer, d results.Dashboard) error {
	if d.TotalResults == 0 {
		_, err := fmt.Fprintln(w, faintStyle.Render("No complete runs to show."))
		return err
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(Columns...).
		Rows(Rows(d)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch col {
			case 0, 2, 3, 4, 5:
				return numberStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n",
		titleStyle.Render("Cryptic crossword leaderboard"),
		t.String(),
		faintStyle.Render(fmt.Sprintf("%d configurations, generated %s", d.TotalResults, d.GeneratedAt)))
	return err
}

func formatArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func formatTokens(n int) string {
	switch {
	case n <= 0:
		return "-"
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	}
	return fmt.Sprintf("%d", n)
}

func formatCost(cost *float64) string {
	if cost == nil {
		return "-"
	}
	if *cost < 0.01 {
		return fmt.Sprintf("$%.4f", *cost)
	}
	return fmt.Sprintf("$%.2f", *cost)
}
