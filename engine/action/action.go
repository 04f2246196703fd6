// Package action implements centralized state mutation via the Apply
// function. Every action type is one atomic operation. No logic in
// actions.
package action

import (
	"fmt"

	"github.com/nathoo/strikecore/engine/state"
	"github.com/nathoo/strikecore/types"
)

// Apply applies one action to its char, mutating match state. Returns
// events emitted and output text collected.
func Apply(s *state.State, c *state.Char, typ string, params map[string]any) ([]types.Event, []string) {
	var events []types.Event
	var output []string

	switch typ {
	case "change_state":
		no := toInt32(params["value"])
		if !c.ChangeState(no) {
			output = append(output, fmt.Sprintf("%s: change_state to undefined state %d ignored", c.Def().ID, no))
			break
		}
		events = append(events, types.Event{
			Type: "state_changed",
			Data: map[string]any{"char": c.Def().ID, "state": no},
		})

	case "ctrl_set":
		c.SetCtrl(toBool(params["value"]))

	case "life_add":
		before := c.Life()
		c.AddLife(toInt32(params["value"]))
		events = append(events, types.Event{
			Type: "life_changed",
			Data: map[string]any{"char": c.Def().ID, "from": before, "to": c.Life()},
		})

	case "power_add":
		c.AddPower(toInt32(params["value"]))
		events = append(events, types.Event{
			Type: "power_changed",
			Data: map[string]any{"char": c.Def().ID, "power": c.Power()},
		})

	case "vel_set":
		x, y := c.Vel()
		if v, ok := params["x"]; ok {
			x = toFloat(v)
		}
		if v, ok := params["y"]; ok {
			y = toFloat(v)
		}
		c.SetVel(x, y)

	case "pos_add":
		x, y := c.Pos()
		c.SetPos(x+toFloat(params["x"]), y+toFloat(params["y"]))

	case "var_set":
		c.SetVar(int(toInt32(params["index"])), toInt32(params["value"]))

	case "var_add":
		i := int(toInt32(params["index"]))
		c.SetVar(i, c.Var(i)+toInt32(params["value"]))

	case "spawn_helper":
		tag, _ := params["name"].(string)
		c.SpawnHelper(tag)
		events = append(events, types.Event{
			Type: "helper_spawned",
			Data: map[string]any{"char": c.Def().ID, "name": tag},
		})

	case "spawn_explod":
		anim, _ := params["anim"].(string)
		layer := int(toInt32(params["layer"]))
		c.SpawnExplod(anim, layer)

	case "remove_explods":
		c.RemoveExplods()

	case "turn":
		c.Turn()

	case "null":
		// Placeholder action, often used to carry trigger side checks.

	default:
		output = append(output, fmt.Sprintf("%s: unknown action type %q ignored", c.Def().ID, typ))
	}

	return events, output
}

// ApplyAll runs a list of actions in order against one char.
func ApplyAll(s *state.State, c *state.Char, actions []types.ActionDef) ([]types.Event, []string) {
	var events []types.Event
	var output []string
	for _, a := range actions {
		ev, out := Apply(s, c, a.Type, a.Params)
		events = append(events, ev...)
		output = append(output, out...)
	}
	return events, output
}

// Lua numbers arrive as float64, hand-built params may be Go ints.
func toInt32(v any) int32 {
	switch n := v.(type) {
	case int:
		return int32(n)
	case int32:
		return n
	case int64:
		return int32(n)
	case float64:
		return int32(n)
	default:
		return 0
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int:
		return b != 0
	case float64:
		return b != 0
	default:
		return false
	}
}
