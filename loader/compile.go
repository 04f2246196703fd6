// Package loader loads Lua match content into Go structs at load time.
// The Lua VM is discarded after loading, zero Lua at runtime. Trigger
// expressions compile here, against the sealed builtin registry, so the
// per-tick hot path never parses.
package loader

import (
	"fmt"

	"github.com/nathoo/strikecore/engine/command"
	"github.com/nathoo/strikecore/engine/state"
	"github.com/nathoo/strikecore/engine/trigger"
	"github.com/nathoo/strikecore/types"
	lua "github.com/yuin/gopher-lua"
)

// rawChar holds a char table before compilation.
type rawChar struct {
	id    string
	table *lua.LTable
}

// rawStage holds a stage table before compilation.
type rawStage struct {
	id    string
	table *lua.LTable
}

// rawHandler holds an event handler before compilation.
type rawHandler struct {
	eventType string
	table     *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// compile converts all collected Lua data into a Defs struct. The
// returned warnings name every dropped controller, quote, or handler.
func compile(coll *collector) (*state.Defs, []string, error) {
	reg := trigger.Builtins()
	reg.Seal()

	defs := &state.Defs{
		Chars:  map[string]types.CharDef{},
		Stages: map[string]types.StageDef{},
	}
	var warnings []string

	if coll.match == nil {
		return nil, nil, fmt.Errorf("no Match{} definition found")
	}
	defs.Match = compileMatch(coll.match)

	for _, raw := range coll.chars {
		if _, dup := defs.Chars[raw.id]; dup {
			return nil, nil, fmt.Errorf("duplicate char %q", raw.id)
		}
		char, warns, err := compileChar(reg, raw)
		if err != nil {
			return nil, nil, fmt.Errorf("compiling char %s: %w", raw.id, err)
		}
		warnings = append(warnings, warns...)
		defs.Chars[raw.id] = char
	}

	for _, raw := range coll.stages {
		if _, dup := defs.Stages[raw.id]; dup {
			return nil, nil, fmt.Errorf("duplicate stage %q", raw.id)
		}
		defs.Stages[raw.id] = compileStage(raw)
	}

	for _, raw := range coll.handlers {
		handler, warn := compileHandler(reg, raw)
		if warn != "" {
			warnings = append(warnings, warn)
			continue
		}
		defs.Handlers = append(defs.Handlers, handler)
	}

	return defs, warnings, nil
}

func compileMatch(tbl *lua.LTable) types.MatchDef {
	m := types.MatchDef{
		Title:     getString(tbl, "title"),
		Version:   getString(tbl, "version"),
		P1:        getString(tbl, "p1"),
		P2:        getString(tbl, "p2"),
		Stage:     getString(tbl, "stage"),
		Rounds:    getInt(tbl, "rounds"),
		RoundTime: getInt(tbl, "round_time"),
	}
	if m.Rounds <= 0 {
		m.Rounds = 2
	}
	return m
}

func compileChar(reg *trigger.Registry, raw rawChar) (types.CharDef, []string, error) {
	tbl := raw.table
	char := types.CharDef{
		ID:      raw.id,
		Name:    getString(tbl, "name"),
		Author:  getString(tbl, "author"),
		Life:    int32(getInt(tbl, "life")),
		Power:   int32(getInt(tbl, "power")),
		Attack:  int32(getInt(tbl, "attack")),
		Defence: int32(getInt(tbl, "defence")),
		States:  map[int32]types.StateDef{},
	}
	if char.Life <= 0 {
		char.Life = 1000
	}
	if char.Power <= 0 {
		char.Power = 3000
	}

	var warnings []string

	if cmds := getTable(tbl, "commands"); cmds != nil {
		var err error
		char.Commands, err = compileCommands(cmds)
		if err != nil {
			return char, nil, err
		}
	}

	if quotes := getTable(tbl, "quotes"); quotes != nil {
		char.Quotes, warnings = compileQuotes(reg, raw.id, quotes, warnings)
	}

	if states := getTable(tbl, "states"); states != nil {
		var outerErr error
		states.ForEach(func(_, v lua.LValue) {
			stateTbl, ok := v.(*lua.LTable)
			if !ok || outerErr != nil {
				return
			}
			no := int32(getNumber(stateTbl, "__state_no"))
			if _, dup := char.States[no]; dup {
				outerErr = fmt.Errorf("duplicate state %d", no)
				return
			}
			def, warns := compileState(reg, raw.id, no, stateTbl)
			warnings = append(warnings, warns...)
			char.States[no] = def
		})
		if outerErr != nil {
			return char, nil, outerErr
		}
	}

	return char, warnings, nil
}

func compileCommands(tbl *lua.LTable) ([]types.CommandDef, error) {
	var cmds []types.CommandDef
	var outerErr error
	tbl.ForEach(func(_, v lua.LValue) {
		cmdTbl, ok := v.(*lua.LTable)
		if !ok || outerErr != nil {
			return
		}
		def := types.CommandDef{
			Name:       getString(cmdTbl, "name"),
			Input:      getString(cmdTbl, "input"),
			Time:       getInt(cmdTbl, "time"),
			BufferTime: getInt(cmdTbl, "buffer_time"),
		}
		steps, err := command.ParseNotation(def.Input)
		if err != nil {
			outerErr = fmt.Errorf("command %q: %w", def.Name, err)
			return
		}
		def.Steps = steps
		cmds = append(cmds, def)
	})
	return cmds, outerErr
}

func compileQuotes(reg *trigger.Registry, charID string, tbl *lua.LTable, warnings []string) ([]types.QuoteDef, []string) {
	var quotes []types.QuoteDef
	tbl.ForEach(func(_, v lua.LValue) {
		quoteTbl, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		q := types.QuoteDef{Text: getString(quoteTbl, "text")}
		if src := getString(quoteTbl, "trigger"); src != "" {
			node, err := reg.Compile(src)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf(
					"char %q: dropping quote %q: %v", charID, q.Text, err))
				return
			}
			q.Trigger = node
		}
		quotes = append(quotes, q)
	})
	return quotes, warnings
}

func compileState(reg *trigger.Registry, charID string, no int32, tbl *lua.LTable) (types.StateDef, []string) {
	def := types.StateDef{
		No:   no,
		Type: getString(tbl, "type"),
		Ctrl: getBool(tbl, "ctrl", false),
	}
	if def.Type == "" {
		def.Type = "S"
	}

	var warnings []string
	order := 0
	tbl.ForEach(func(k, v lua.LValue) {
		// Controllers live in the array part of the state table.
		if _, ok := k.(lua.LNumber); !ok {
			return
		}
		ctrlTbl, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		ctrl, warns := compileController(reg, charID, no, order, ctrlTbl)
		warnings = append(warnings, warns...)
		if ctrl != nil {
			def.Controllers = append(def.Controllers, *ctrl)
		}
		order++
	})
	return def, warnings
}

// compileController compiles one controller. Any bad trigger line
// rejects the whole controller: silently weakening its conditions by
// dropping one conjunct could fire actions the author never intended.
func compileController(reg *trigger.Registry, charID string, stateNo int32, order int, tbl *lua.LTable) (*types.ControllerDef, []string) {
	ctrl := types.ControllerDef{
		Name:        getString(tbl, "__ctrl_name"),
		Type:        getString(tbl, "__ctrl_type"),
		Params:      map[string]any{},
		SourceOrder: order,
	}

	where := fmt.Sprintf("char %q state %d controller %q", charID, stateNo, ctrl.Name)
	var warnings []string
	bad := false

	compileLines := func(label string, lines *lua.LTable) []*trigger.Node {
		var nodes []*trigger.Node
		i := 0
		lines.ForEach(func(_, v lua.LValue) {
			i++
			src, ok := v.(lua.LString)
			if !ok {
				warnings = append(warnings, fmt.Sprintf(
					"%s: %s[%d] is not a string", where, label, i))
				bad = true
				return
			}
			node, err := reg.Compile(string(src))
			if err != nil {
				warnings = append(warnings, fmt.Sprintf(
					"%s: %s[%d]: %v", where, label, i, err))
				bad = true
				return
			}
			nodes = append(nodes, node)
		})
		return nodes
	}

	if all := getTable(tbl, "triggerall"); all != nil {
		ctrl.TriggerAll = compileLines("triggerall", all)
	}
	for i := 1; ; i++ {
		group := getTable(tbl, fmt.Sprintf("trigger%d", i))
		if group == nil {
			break
		}
		ctrl.Triggers = append(ctrl.Triggers, compileLines(fmt.Sprintf("trigger%d", i), group))
	}

	// Remaining string-keyed fields are action params.
	tbl.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok {
			return
		}
		key := string(ks)
		if key == "__ctrl_name" || key == "__ctrl_type" || key == "triggerall" {
			return
		}
		if len(key) > 7 && key[:7] == "trigger" {
			return
		}
		ctrl.Params[key] = toGoValue(v)
	})

	if bad {
		warnings = append(warnings, fmt.Sprintf("%s: controller dropped", where))
		return nil, warnings
	}
	return &ctrl, warnings
}

func compileStage(raw rawStage) types.StageDef {
	tbl := raw.table
	stage := types.StageDef{
		ID:   raw.id,
		Name: getString(tbl, "name"),
	}
	if layers := getTable(tbl, "layers"); layers != nil {
		layers.ForEach(func(_, v lua.LValue) {
			layerTbl, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			stage.Layers = append(stage.Layers, types.BGLayerDef{
				ID:      getString(layerTbl, "__layer_id"),
				Layer:   getInt(layerTbl, "layer"),
				Sprite:  getString(layerTbl, "sprite"),
				Anim:    getString(layerTbl, "anim"),
				ScrollX: getNumber(layerTbl, "scroll_x"),
				ScrollY: getNumber(layerTbl, "scroll_y"),
				Visible: getBool(layerTbl, "visible", true),
				Paused:  getBool(layerTbl, "paused", false),
			})
		})
	}
	return stage
}

// compileHandler compiles one event handler. A bad trigger drops the
// handler; the returned warning is non-empty in that case.
func compileHandler(reg *trigger.Registry, raw rawHandler) (types.HandlerDef, string) {
	handler := types.HandlerDef{EventType: raw.eventType}

	if src := getString(raw.table, "trigger"); src != "" {
		node, err := reg.Compile(src)
		if err != nil {
			return handler, fmt.Sprintf(
				"handler for %q: dropping handler: %v", raw.eventType, err)
		}
		handler.Trigger = node
	}

	if actions := getTable(raw.table, "actions"); actions != nil {
		actions.ForEach(func(_, v lua.LValue) {
			actionTbl, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			a := types.ActionDef{
				Type:   getString(actionTbl, "__action_type"),
				Params: map[string]any{},
			}
			actionTbl.ForEach(func(k, v lua.LValue) {
				if ks, ok := k.(lua.LString); ok && string(ks) != "__action_type" {
					a.Params[string(ks)] = toGoValue(v)
				}
			})
			handler.Actions = append(handler.Actions, a)
		})
	}

	return handler, ""
}
