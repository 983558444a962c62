package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"twinclash/internal/board"
	"twinclash/internal/game"
	"twinclash/internal/state"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	cardStyle    = lipgloss.NewStyle().Width(5).Align(lipgloss.Center).Border(lipgloss.RoundedBorder())
	cursorStyle  = cardStyle.BorderForeground(lipgloss.Color("11"))
	hintStyle    = cardStyle.BorderForeground(lipgloss.Color("14"))
	matchedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	greenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	redStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var obstacleGlyphs = map[board.Obstacle]string{
	board.Ice:   "❄",
	board.Stone: "▩",
	board.Iron:  "▣",
	board.Fire:  "♨",
	board.Bomb:  "✹",
	board.Virus: "☣",
}

// faceLabel is the symbol drawn for a pair key.
func faceLabel(key int) string {
	const symbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	if key < len(symbols) {
		return string(symbols[key])
	}
	return fmt.Sprint(key)
}

func renderCard(v board.CardView, selected bool) string {
	o, _ := board.ParseObstacle(v.Obstacle)
	glyph := obstacleGlyphs[o]
	if o.Hazard() {
		glyph = redStyle.Render(glyph)
	}

	var label string
	switch {
	case v.Matched:
		label = matchedStyle.Render("·")
	case v.FaceUp && v.PairKey != nil:
		label = faceLabel(*v.PairKey)
		if v.Wildcard {
			label = "★"
		}
		label += glyph
	case o != board.None:
		label = glyph
		if h := v.ObstacleHealth + v.BlockedHealth; h > 1 {
			label += fmt.Sprint(h)
		}
	default:
		label = "?"
	}

	style := cardStyle
	switch {
	case selected:
		style = cursorStyle
	case v.Hinted:
		style = hintStyle
	}
	return style.Render(label)
}

// RenderBoard draws the grid of cards with the cursor highlighted.
func RenderBoard(snap game.Snapshot, cursor int) string {
	rows := make([]string, 0, snap.Rows)
	for r := 0; r < snap.Rows; r++ {
		var cells []string
		for c := 0; c < snap.Cols; c++ {
			i := r*snap.Cols + c
			if i >= len(snap.Cards) {
				break
			}
			cells = append(cells, renderCard(snap.Cards[i], i == cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderStatus(snap game.Snapshot) string {
	seconds := float64(snap.TimeRemainingMs) / 1000
	timeText := fmt.Sprintf("TIME: %.1fs", seconds)
	if snap.Frozen {
		timeText += " ❄"
	}
	if seconds <= 10 {
		timeText = redStyle.Render(timeText)
	} else {
		timeText = scoreStyle.Render(timeText)
	}

	parts := []string{
		timeText,
		fmt.Sprintf("PAIRS: %d/%d", snap.MatchedPairs, snap.Pairs),
		fmt.Sprintf("MOVES: %d (★★★ ≤%d)", snap.Moves, snap.Targets.Moves3),
		fmt.Sprintf("MISTAKES: %d", snap.Mistakes),
	}
	if snap.PreviewRemainingMs > 0 {
		parts = append(parts, fmt.Sprintf("PREVIEW: %.1fs", float64(snap.PreviewRemainingMs)/1000))
	}
	return strings.Join(parts, " | ")
}

func starString(n int) string {
	n = min(max(n, 0), 3)
	return strings.Repeat("★", n) + strings.Repeat("☆", 3-n)
}

func renderOutcome(snap game.Snapshot) string {
	o := snap.Outcome
	if o == nil {
		return ""
	}
	if o.Won() {
		return greenStyle.Render(fmt.Sprintf("Cleared %s in %d moves, %.1fs  %s", snap.Level, o.MovesUsed, float64(o.TimeUsedMs)/1000, starString(o.Stars)))
	}
	reason := o.FailureReason
	switch reason {
	case state.FailureTimeout:
		reason = "time ran out"
	case state.FailureBombExplosion:
		reason = "the bomb exploded"
	}
	return redStyle.Render(fmt.Sprintf("Failed %s: %s. Press r to retry.", snap.Level, reason))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.campaign.IsFinished() {
		return greenStyle.Render(fmt.Sprintf("Campaign complete! Total stars: %d", m.campaign.TotalStars)) + "\n"
	}

	g := m.campaign.CurrentGame
	snap := g.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("LEVEL %s", snap.Level)))
	if theme := g.Level.Theme; theme != "" {
		b.WriteString(dimStyle.Render("  " + theme))
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d  stars: %d", m.campaign.CurrentIndex+1, len(m.campaign.Levels), m.campaign.TotalStars)))
	b.WriteString("\n")
	b.WriteString(RenderBoard(snap, m.cursor))
	b.WriteString("\n")
	b.WriteString(renderStatus(snap))
	b.WriteString("\n")
	if out := renderOutcome(snap); out != "" {
		b.WriteString(out)
		b.WriteString("\n")
	}
	if m.lastErr != nil {
		b.WriteString(redStyle.Render(m.lastErr.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
