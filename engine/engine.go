// Package engine provides the Tick() orchestrator that wires together
// input, trigger evaluation, controllers, actions, events, and round
// bookkeeping into a single simulation tick.
package engine

import (
	"fmt"

	"github.com/nathoo/strikecore/engine/action"
	"github.com/nathoo/strikecore/engine/bg"
	"github.com/nathoo/strikecore/engine/ctrl"
	"github.com/nathoo/strikecore/engine/events"
	"github.com/nathoo/strikecore/engine/quotes"
	"github.com/nathoo/strikecore/engine/state"
	"github.com/nathoo/strikecore/engine/trigger"
	"github.com/nathoo/strikecore/types"
)

// Inputs carries both players' held keys for one tick.
type Inputs struct {
	P1 []string
	P2 []string
}

// Engine holds the match definitions and mutable state.
type Engine struct {
	Defs  *state.Defs
	State *state.State
	Reg   *trigger.Registry
	RNG   *RNG
	BG    *bg.Collection
}

// New creates an engine from definitions. The trigger registry is the
// sealed builtin set; triggers were compiled against it at load time.
func New(defs *state.Defs) (*Engine, error) {
	s, err := state.NewState(defs)
	if err != nil {
		return nil, err
	}
	reg := trigger.Builtins()
	reg.Seal()
	return &Engine{
		Defs:  defs,
		State: s,
		Reg:   reg,
		RNG:   NewRNG(s.RNGSeed),
	}, nil
}

// AttachBackgrounds builds the stage's background collection. Without
// providers the engine runs headless and skips background updates.
func (e *Engine) AttachBackgrounds(sprites bg.SpriteProvider, anims bg.AnimProvider) error {
	stage, ok := e.Defs.Stages[e.Defs.Match.Stage]
	if !ok {
		return fmt.Errorf("match references undefined stage %q", e.Defs.Match.Stage)
	}
	e.BG = bg.New(stage, sprites, anims)
	return nil
}

// RestoreRNG re-creates the RNG from seed and advances to the saved
// position.
func (e *Engine) RestoreRNG(seed int64, position int64) {
	e.RNG = RestoreRNG(seed, position)
	e.State.RNGSeed = seed
}

// Tick advances the simulation one tick and returns what happened.
func (e *Engine) Tick(in Inputs) types.Result {
	var result types.Result
	s := e.State

	if s.Over {
		result.Output = append(result.Output, "match over")
		return result
	}

	s.TickCount++
	s.RoundTime++

	// One random roll per char per tick: every trigger evaluation this
	// tick reads the same stored value.
	for _, c := range s.Chars() {
		c.SetRandom(e.RNG.Random())
	}

	s.P1.UpdateInput(in.P1)
	s.P2.UpdateInput(in.P2)

	// Movement integrates before controllers so triggers observe the
	// tick's final position.
	for _, c := range s.Chars() {
		x, y := c.Pos()
		vx, vy := c.Vel()
		c.SetPos(x+vx, y+vy)
	}

	// Controllers: P1 evaluates and applies before P2.
	var emitted []types.Event
	for _, c := range s.Chars() {
		for _, fired := range ctrl.Evaluate(e.Reg, c) {
			evts, output := e.applyController(fired)
			emitted = append(emitted, evts...)
			result.Output = append(result.Output, output...)
		}
	}

	// Event handlers, single pass: handler actions apply but their
	// events are not re-dispatched.
	for _, pending := range events.Dispatch(e.Reg, emitted, s, e.Defs) {
		evts, output := action.ApplyAll(s, pending.Char, pending.Actions)
		emitted = append(emitted, evts...)
		result.Output = append(result.Output, output...)
	}

	for _, c := range s.Chars() {
		c.Tick()
	}

	if e.BG != nil {
		e.BG.Update()
	}

	emitted = append(emitted, e.checkRoundEnd(&result)...)

	result.Events = emitted
	return result
}

// applyController routes one fired controller: hits resolve in the
// engine, everything else goes through the action switch.
func (e *Engine) applyController(fired ctrl.Fired) ([]types.Event, []string) {
	if fired.Ctrl.Type == "hit" {
		return e.applyHit(fired.Char, fired.Ctrl.Params)
	}
	return action.Apply(e.State, fired.Char, fired.Ctrl.Type, fired.Ctrl.Params)
}

// checkRoundEnd detects KO and time over, settles the round, and ends
// the match when a char has enough round wins.
func (e *Engine) checkRoundEnd(result *types.Result) []types.Event {
	s := e.State

	// A winner may stay nil: double KO and time-over ties end the round
	// as a draw.
	var winner, loser *state.Char
	switch {
	case !s.P1.Alive() && !s.P2.Alive():
	case !s.P1.Alive():
		winner, loser = s.P2, s.P1
	case !s.P2.Alive():
		winner, loser = s.P1, s.P2
	case e.Defs.Match.RoundTime > 0 && s.RoundTime >= int32(e.Defs.Match.RoundTime):
		// Time over: higher remaining life takes the round.
		switch {
		case s.P1.Life() > s.P2.Life():
			winner, loser = s.P1, s.P2
		case s.P2.Life() > s.P1.Life():
			winner, loser = s.P2, s.P1
		}
	default:
		return nil
	}

	byKO := !s.P1.Alive() || !s.P2.Alive()

	var evts []types.Event
	data := map[string]any{"round": s.Round}
	if winner != nil {
		winner.AddWin()
		data["winner"] = winner.Def().ID
		data["char"] = loser.Def().ID
		if byKO {
			result.Output = append(result.Output,
				fmt.Sprintf("KO! %s wins round %d.", winner.Def().ID, s.Round))
		} else {
			result.Output = append(result.Output,
				fmt.Sprintf("Time over. %s wins round %d.", winner.Def().ID, s.Round))
		}
	} else {
		result.Output = append(result.Output,
			fmt.Sprintf("Round %d ends in a draw.", s.Round))
	}
	evts = append(evts, types.Event{Type: "round_ended", Data: data})

	if winner != nil && winner.Wins() >= e.Defs.Match.Rounds {
		s.Over = true
		s.Winner = winner.Side()
		result.Output = append(result.Output,
			fmt.Sprintf("Match over. %s wins.", winner.Def().ID))
		evts = append(evts, types.Event{
			Type: "match_ended",
			Data: map[string]any{"winner": winner.Def().ID},
		})
		if quote := quotes.Select(e.Reg, winner); quote != "" {
			result.Output = append(result.Output, fmt.Sprintf("%s: %q", winner.Def().ID, quote))
		}
		return evts
	}

	s.NextRound()
	if e.BG != nil {
		e.BG.Reset()
	}
	result.Output = append(result.Output, fmt.Sprintf("Round %d, fight!", s.Round))
	evts = append(evts, types.Event{
		Type: "round_started",
		Data: map[string]any{"round": s.Round},
	})
	return evts
}

// EvalTrigger compiles and evaluates an expression against the char on
// the given side. Used by the CLI's /eval meta-command.
func (e *Engine) EvalTrigger(src string, side int) (trigger.Number, error) {
	node, err := e.Reg.Compile(src)
	if err != nil {
		return trigger.Empty(), err
	}
	return e.Reg.Eval(node, e.State.CharBySide(side)), nil
}
