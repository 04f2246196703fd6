// Package cli provides terminal I/O, output formatting, and
// meta-command dispatch for driving a match headless: tick stepping,
// input injection, and trigger evaluation from a prompt.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nathoo/strikecore/engine"
	"github.com/nathoo/strikecore/engine/save"
	"github.com/nathoo/strikecore/engine/state"
	"github.com/nathoo/strikecore/types"
)

// CLI handles terminal interaction with the operator.
type CLI struct {
	Engine    *engine.Engine
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)

	p1Keys []string // keys held until the next /input
	p2Keys []string
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) *CLI {
	home, _ := os.UserHomeDir()
	saveDir := filepath.Join(home, ".strikecore", "saves")
	return &CLI{
		Engine:  eng,
		Defs:    defs,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: saveDir,
	}
}

// Run starts the operator loop: prompt → input → dispatch → output.
// A plain line sets P1's held keys and advances one tick.
func (c *CLI) Run() {
	c.printLine(fmt.Sprintf("%s — %s vs %s", c.Defs.Match.Title, c.Defs.Match.P1, c.Defs.Match.P2))
	c.printLine("Type /help for commands.")

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// Plain line: P1 keys for this tick.
		c.p1Keys = strings.Fields(input)
		c.tick(1)
	}
}

// handleMeta dispatches meta-commands. Returns true if the loop should
// exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/tick":
		n := 1
		if len(args) > 0 {
			if v, err := strconv.Atoi(args[0]); err == nil && v > 0 {
				n = v
			}
		}
		c.tick(n)

	case "/input":
		c.cmdInput(args)

	case "/eval":
		c.cmdEval(args)

	case "/state":
		c.cmdState()

	case "/save":
		c.cmdSave(firstOr(args, "quicksave"))

	case "/load":
		c.cmdLoad(firstOr(args, "quicksave"))

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	case "/help":
		c.cmdHelp()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

// tick advances the simulation with the currently held keys.
func (c *CLI) tick(n int) {
	for i := 0; i < n; i++ {
		result := c.Engine.Tick(engine.Inputs{P1: c.p1Keys, P2: c.p2Keys})
		c.printResult(result)
		if c.Trace {
			c.printTrace(result)
		}
		if c.Engine.State.Over {
			c.printSystem(fmt.Sprintf("Match over. Winner: P%d.", c.Engine.State.Winner))
			return
		}
	}
}

func (c *CLI) cmdInput(args []string) {
	if len(args) == 0 {
		c.printSystem("Usage: /input <side> [keys...]  (no keys releases everything)")
		return
	}
	side, err := strconv.Atoi(args[0])
	if err != nil || (side != 1 && side != 2) {
		c.printSystem("Side must be 1 or 2.")
		return
	}
	if side == 1 {
		c.p1Keys = args[1:]
	} else {
		c.p2Keys = args[1:]
	}
	c.printSystem(fmt.Sprintf("P%d holds %v.", side, args[1:]))
}

func (c *CLI) cmdEval(args []string) {
	if len(args) < 2 {
		c.printSystem(`Usage: /eval <side> <expression>, e.g. /eval 1 Name = "Ryu"`)
		return
	}
	side, err := strconv.Atoi(args[0])
	if err != nil || (side != 1 && side != 2) {
		c.printSystem("Side must be 1 or 2.")
		return
	}
	src := strings.Join(args[1:], " ")

	n, err := c.Engine.EvalTrigger(src, side)
	if err != nil {
		c.printSystem(fmt.Sprintf("Eval failed: %v", err))
		return
	}
	if n.IsEmpty() {
		c.printSystem(fmt.Sprintf("%s → empty", src))
		return
	}
	c.printSystem(fmt.Sprintf("%s → %s (truthy: %v)", src, n, n.Bool()))
}

func (c *CLI) cmdState() {
	s := c.Engine.State
	c.printSystem(fmt.Sprintf("Round %d, time %d, tick %d", s.Round, s.RoundTime, s.TickCount))
	for _, ch := range s.Chars() {
		c.printSystem(fmt.Sprintf(
			"P%d %s: life %d/%d, power %d, state %d (%s) t=%d, ctrl %v, wins %d",
			ch.Side(), ch.Def().ID, ch.Life(), ch.MaxLife(), ch.Power(),
			ch.StateNo(), ch.StateType(), ch.StateTime(), ch.Ctrl(), ch.Wins()))
	}
	if s.Over {
		c.printSystem(fmt.Sprintf("Match over. Winner: P%d.", s.Winner))
	}
}

func (c *CLI) cmdSave(name string) {
	data, err := save.Save(c.Engine.State, c.Defs, c.Engine.RNG.Position())
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Snapshot saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	sd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	if err := save.Apply(c.Engine.State, sd); err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.Engine.RestoreRNG(sd.RNGSeed, sd.RNGPosition)
	c.printSystem(fmt.Sprintf("Snapshot loaded from %s (round %d, tick %d).", name, sd.Round, sd.Tick))
	c.cmdState()
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /tick [n]            — Advance n ticks (default 1)",
		"  /input <side> [keys] — Set held keys for a side (U D B F DF... a b c x y z s)",
		"  /eval <side> <expr>  — Evaluate a trigger expression against a side",
		"  /state               — Dump current match state",
		"  /save [name]         — Save snapshot (default: quicksave)",
		"  /load [name]         — Load snapshot (default: quicksave)",
		"  /trace               — Toggle event trace output",
		"  /quit                — Exit",
		"  /help                — Show this help",
		"",
		"A plain line sets P1's held keys and advances one tick,",
		"e.g. 'D', then 'DF', then 'F', then 'F x'.",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

func firstOr(args []string, def string) string {
	if len(args) > 0 {
		return args[0]
	}
	return def
}
