package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/strikecore/engine"
	"github.com/nathoo/strikecore/engine/save"
	"github.com/nathoo/strikecore/engine/state"
	"github.com/nathoo/strikecore/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the StrikeCore TUI.
type Model struct {
	engine *engine.Engine
	defs   *state.Defs

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated combat log (unstyled, for re-wrapping)

	p1Keys []string // keys held until the next /input
	p2Keys []string

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	saveDir  string
}

// tickOutputMsg carries output from the engine into the Update loop.
type tickOutputMsg struct {
	input    string   // echoed input line (empty for the banner)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	home, _ := os.UserHomeDir()
	return Model{
		engine:  eng,
		defs:    defs,
		input:   ti,
		history: NewHistory(100),
		saveDir: filepath.Join(home, ".strikecore", "saves"),
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, defs *state.Defs) error {
	m := New(eng, defs)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the match banner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.banner())
}

func (m Model) banner() tea.Cmd {
	return func() tea.Msg {
		lines := []string{
			fmt.Sprintf("%s — %s vs %s", m.defs.Match.Title, m.defs.Match.P1, m.defs.Match.P2),
			"Type held keys (e.g. 'D', 'DF', 'F x') to advance a tick, or /help for commands.",
		}
		return tickOutputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, tick output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case tickOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(tickOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Plain line: P1 keys for one tick.
	m.p1Keys = strings.Fields(input)
	output := m.runTicks(1)
	m = m.appendOutput(tickOutputMsg{input: input, lines: output})
	return m, nil
}

// runTicks advances the simulation with the currently held keys and
// collects all output lines.
func (m *Model) runTicks(n int) []string {
	var lines []string
	for i := 0; i < n; i++ {
		result := m.engine.Tick(engine.Inputs{P1: m.p1Keys, P2: m.p2Keys})
		lines = append(lines, result.Output...)
		if m.trace {
			lines = append(lines, m.formatTrace(result)...)
		}
		if m.engine.State.Over {
			lines = append(lines, fmt.Sprintf("Match over. Winner: P%d.", m.engine.State.Winner))
			break
		}
	}
	return lines
}

// appendOutput adds lines to the combat log and refreshes the viewport.
func (m Model) appendOutput(msg tickOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between inputs.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries. Preserves existing newlines within the text.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/tick":
		n := 1
		if len(args) > 0 {
			if v, err := strconv.Atoi(args[0]); err == nil && v > 0 {
				n = v
			}
		}
		return m.runTicks(n), false

	case "/input":
		return m.cmdInput(args), false

	case "/eval":
		return m.cmdEval(args), false

	case "/state":
		return m.cmdState(), false

	case "/bg":
		return m.cmdBG(), false

	case "/save":
		return m.cmdSave(firstOr(args, "quicksave")), false

	case "/load":
		return m.cmdLoad(firstOr(args, "quicksave")), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	case "/help":
		return m.cmdHelp(), false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdInput(args []string) []string {
	if len(args) == 0 {
		return []string{"Usage: /input <side> [keys...]  (no keys releases everything)"}
	}
	side, err := strconv.Atoi(args[0])
	if err != nil || (side != 1 && side != 2) {
		return []string{"Side must be 1 or 2."}
	}
	if side == 1 {
		m.p1Keys = args[1:]
	} else {
		m.p2Keys = args[1:]
	}
	return []string{fmt.Sprintf("P%d holds %v.", side, args[1:])}
}

func (m *Model) cmdEval(args []string) []string {
	if len(args) < 2 {
		return []string{`Usage: /eval <side> <expression>, e.g. /eval 1 Name = "Ryu"`}
	}
	side, err := strconv.Atoi(args[0])
	if err != nil || (side != 1 && side != 2) {
		return []string{"Side must be 1 or 2."}
	}
	src := strings.Join(args[1:], " ")

	n, err := m.engine.EvalTrigger(src, side)
	if err != nil {
		return []string{fmt.Sprintf("Eval failed: %v", err)}
	}
	if n.IsEmpty() {
		return []string{fmt.Sprintf("%s → empty", src)}
	}
	return []string{fmt.Sprintf("%s → %s (truthy: %v)", src, n, n.Bool())}
}

func (m *Model) cmdState() []string {
	s := m.engine.State
	output := []string{
		fmt.Sprintf("Round %d, time %d, tick %d", s.Round, s.RoundTime, s.TickCount),
	}
	for _, ch := range s.Chars() {
		output = append(output, fmt.Sprintf(
			"P%d %s: life %d/%d, power %d, state %d (%s) t=%d, ctrl %v, wins %d",
			ch.Side(), ch.Def().ID, ch.Life(), ch.MaxLife(), ch.Power(),
			ch.StateNo(), ch.StateType(), ch.StateTime(), ch.Ctrl(), ch.Wins()))
	}
	if s.Over {
		output = append(output, fmt.Sprintf("Match over. Winner: P%d.", s.Winner))
	}
	return output
}

func (m *Model) cmdBG() []string {
	if m.engine.BG == nil {
		return []string{"No stage backgrounds attached."}
	}
	return strings.Split(m.engine.BG.String(), "\n")
}

func (m *Model) cmdSave(name string) []string {
	data, err := save.Save(m.engine.State, m.defs, m.engine.RNG.Position())
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	if err := os.MkdirAll(m.saveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	path := filepath.Join(m.saveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	return []string{fmt.Sprintf("Snapshot saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	path := filepath.Join(m.saveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	sd, err := save.Load(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	if err := save.Apply(m.engine.State, sd); err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	m.engine.RestoreRNG(sd.RNGSeed, sd.RNGPosition)

	output := []string{fmt.Sprintf("Snapshot loaded from %s (round %d, tick %d).", name, sd.Round, sd.Tick)}
	return append(output, m.cmdState()...)
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /tick [n]            — Advance n ticks (default 1)",
		"  /input <side> [keys] — Set held keys for a side (U D B F DF... a b c x y z s)",
		"  /eval <side> <expr>  — Evaluate a trigger expression against a side",
		"  /state               — Dump current match state",
		"  /bg                  — Dump stage background layers",
		"  /save [name]         — Save snapshot (default: quicksave)",
		"  /load [name]         — Load snapshot (default: quicksave)",
		"  /trace               — Toggle event trace output",
		"  /quit                — Exit",
		"  /help                — Show this help",
		"",
		"A plain line sets P1's held keys and advances one tick,",
		"e.g. 'D', then 'DF', then 'F', then 'F x'.",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for input history",
	}
}

func (m *Model) formatTrace(result types.Result) []string {
	var lines []string
	if len(result.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
	return lines
}

func firstOr(args []string, def string) string {
	if len(args) > 0 {
		return args[0]
	}
	return def
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
