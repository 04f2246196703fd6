// Package ctrl evaluates state controllers: for each tick it decides,
// per character, which controllers of the current state fire. A
// controller fires when any of its trigger groups passes; within a
// group every trigger must pass, and the TriggerAll set is conjoined to
// every group. All firing controllers are returned in source order,
// there is no winner selection.
package ctrl

import (
	"sort"

	"github.com/nathoo/strikecore/engine/state"
	"github.com/nathoo/strikecore/engine/trigger"
	"github.com/nathoo/strikecore/types"
)

// Fired is one controller that passed its triggers this tick.
type Fired struct {
	Ctrl *types.ControllerDef
	Char *state.Char
}

// Evaluate collects the firing controllers of the char's current state.
func Evaluate(reg *trigger.Registry, c *state.Char) []Fired {
	def, ok := c.CurrentState()
	if !ok {
		return nil
	}

	var fired []Fired
	for i := range def.Controllers {
		ctrl := &def.Controllers[i]
		if Passes(reg, ctrl, c) {
			fired = append(fired, Fired{Ctrl: ctrl, Char: c})
		}
	}

	sort.SliceStable(fired, func(i, j int) bool {
		return fired[i].Ctrl.SourceOrder < fired[j].Ctrl.SourceOrder
	})
	return fired
}

// Passes reports whether a controller's trigger conditions hold for the
// char this tick.
func Passes(reg *trigger.Registry, ctrl *types.ControllerDef, c *state.Char) bool {
	if !allPass(reg, ctrl.TriggerAll, c) {
		return false
	}

	// A controller with no groups fires on TriggerAll alone.
	if len(ctrl.Triggers) == 0 {
		return true
	}

	for _, group := range ctrl.Triggers {
		if allPass(reg, group, c) {
			return true
		}
	}
	return false
}

// allPass conjoins a trigger list. Empty results are falsy, so a probe
// against an entity lacking the capability vetoes the group rather than
// being skipped.
func allPass(reg *trigger.Registry, nodes []*trigger.Node, c *state.Char) bool {
	for _, node := range nodes {
		if !reg.Eval(node, c).Bool() {
			return false
		}
	}
	return true
}
