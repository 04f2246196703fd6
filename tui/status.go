package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/strikecore/engine/state"
)

// charName prefers the display name, falling back to the content ID.
func charName(c *state.Char) string {
	if name, ok := c.DisplayName(); ok {
		return name
	}
	return c.Def().ID
}

// lifeBar renders a fixed-width gauge for current/max life, colored by
// how much remains.
func lifeBar(cur, max int32, width int) string {
	if max <= 0 || width <= 0 {
		return ""
	}
	if cur < 0 {
		cur = 0
	}
	filled := int(int64(cur) * int64(width) / int64(max))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	frac := float64(cur) / float64(max)
	switch {
	case frac > 0.5:
		return styleLifeHigh.Render(bar)
	case frac > 0.25:
		return styleLifeMid.Render(bar)
	default:
		return styleLifeLow.Render(bar)
	}
}

// powerBar renders a fixed-width gauge for the power meter.
func powerBar(cur, max int32, width int) string {
	if max <= 0 || width <= 0 {
		return ""
	}
	if cur < 0 {
		cur = 0
	}
	filled := int(int64(cur) * int64(width) / int64(max))
	if filled > width {
		filled = width
	}
	return stylePower.Render(strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled))
}

// timerSeconds converts remaining round ticks to whole seconds at 60
// ticks per second.
func timerSeconds(limit, elapsed int32) int32 {
	remaining := limit - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining / 60
}

// renderStatusBar produces a full-width inverted status line showing
// both fighters' vitals, the round number, and the round timer.
func (m Model) renderStatusBar() string {
	s := m.engine.State

	barWidth := (m.width - 30) / 4
	if barWidth < 4 {
		barWidth = 4
	}
	if barWidth > 20 {
		barWidth = 20
	}

	left := fmt.Sprintf(" %s %s %s W%d",
		charName(s.P1),
		lifeBar(s.P1.Life(), s.P1.MaxLife(), barWidth),
		powerBar(s.P1.Power(), s.P1.Def().Power, barWidth/2),
		s.P1.Wins())

	right := fmt.Sprintf("W%d %s %s %s ",
		s.P2.Wins(),
		powerBar(s.P2.Power(), s.P2.Def().Power, barWidth/2),
		lifeBar(s.P2.Life(), s.P2.MaxLife(), barWidth),
		charName(s.P2))

	center := fmt.Sprintf("R%d %02d", s.Round, timerSeconds(int32(m.defs.Match.RoundTime), s.RoundTime))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	lgap := gap / 2
	rgap := gap - lgap

	bar := left + strings.Repeat(" ", lgap) + center + strings.Repeat(" ", rgap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
