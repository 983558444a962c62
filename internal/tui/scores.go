package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"twinclash/internal/scoring"
)

// RenderScores draws a ranked table of outcome entries.
func RenderScores(entries []scoring.OutcomeEntry) string {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Result", Width: 8},
		{Title: "Stars", Width: 6},
		{Title: "Moves", Width: 6},
		{Title: "Time", Width: 8},
		{Title: "Date", Width: 14},
	}

	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		date := e.Timestamp
		if ts, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
			date = ts.Format("Jan 02 15:04")
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			e.Result,
			starString(e.Stars),
			fmt.Sprintf("%d", e.MovesUsed),
			formatMs(e.TimeUsedMs),
			date,
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+3),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Cell
	t.SetStyles(s)

	return t.View()
}

func formatMs(ms int64) string {
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}
