package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleAnnounce = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	styleQuote = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleLifeHigh = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	styleLifeMid = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	styleLifeLow = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePower = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindCombat lineKind = iota
	kindAnnounce
	kindQuote
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Round "),
		strings.HasPrefix(line, "KO!"),
		strings.HasPrefix(line, "Time over"),
		strings.HasPrefix(line, "Match over"):
		return kindAnnounce
	case strings.Contains(line, "failed"):
		return kindError
	case containsVictoryQuote(line):
		return kindQuote
	default:
		return kindCombat
	}
}

// containsVictoryQuote checks if a line carries double-quoted speech.
func containsVictoryQuote(line string) bool {
	inQuote := false
	quoteLen := 0
	for _, r := range line {
		if r == '"' {
			if inQuote && quoteLen > 5 {
				return true
			}
			inQuote = !inQuote
			quoteLen = 0
		} else if inQuote {
			quoteLen++
		}
	}
	return false
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindAnnounce:
		return styleAnnounce.Render(line)
	case kindQuote:
		return styleQuote.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleCombat.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
