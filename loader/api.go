package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Match { title = "...", p1 = "ryu", p2 = "ken", ... }
	L.SetGlobal("Match", L.NewFunction(func(L *lua.LState) int {
		coll.match = L.CheckTable(1)
		return 0
	}))

	// Char "id" { ... } is curried: Char("id") returns a function that
	// takes the definition table.
	L.SetGlobal("Char", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.chars = append(coll.chars, rawChar{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Stage "id" { ... }, curried like Char.
	L.SetGlobal("Stage", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.stages = append(coll.stages, rawStage{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// State(no) { type = "S", ctrl = true, <controllers...> } is curried
	// and returns a marker table carrying the state number.
	L.SetGlobal("State", L.NewFunction(func(L *lua.LState) int {
		no := L.CheckNumber(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("__state_no", no)
			L.Push(tbl)
			return 1
		}))
		return 1
	}))

	// Controller("name", "type") { value = ..., trigger1 = {...} } is
	// curried and returns a marker table.
	L.SetGlobal("Controller", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		typ := L.CheckString(2)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("__ctrl_name", lua.LString(name))
			tbl.RawSetString("__ctrl_type", lua.LString(typ))
			L.Push(tbl)
			return 1
		}))
		return 1
	}))

	// Command("name", "~D, DF, F, x", { time = 15, buffer_time = 2 })
	// The options table is optional.
	L.SetGlobal("Command", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		input := L.CheckString(2)
		tbl := L.NewTable()
		if opts, ok := L.Get(3).(*lua.LTable); ok {
			opts.ForEach(func(k, v lua.LValue) {
				tbl.RawSet(k, v)
			})
		}
		tbl.RawSetString("name", lua.LString(name))
		tbl.RawSetString("input", lua.LString(input))
		L.Push(tbl)
		return 1
	}))

	// Quote("text") or Quote("text", 'Life = 1000') with an optional
	// trigger expression.
	L.SetGlobal("Quote", L.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("text", lua.LString(text))
		if trig, ok := L.Get(2).(lua.LString); ok {
			tbl.RawSetString("trigger", trig)
		}
		L.Push(tbl)
		return 1
	}))

	// Layer("id") { layer = 0, sprite = "sky", scroll_x = 0.5 } is
	// curried and returns a marker table.
	L.SetGlobal("Layer", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("__layer_id", lua.LString(id))
			L.Push(tbl)
			return 1
		}))
		return 1
	}))

	// Action("type", { params }) builds one handler action.
	L.SetGlobal("Action", L.NewFunction(func(L *lua.LState) int {
		typ := L.CheckString(1)
		tbl := L.NewTable()
		if params, ok := L.Get(2).(*lua.LTable); ok {
			params.ForEach(func(k, v lua.LValue) {
				tbl.RawSet(k, v)
			})
		}
		tbl.RawSetString("__action_type", lua.LString(typ))
		L.Push(tbl)
		return 1
	}))

	// On("hit", { trigger = 'Life < 300', actions = { ... } })
	L.SetGlobal("On", L.NewFunction(func(L *lua.LState) int {
		eventType := L.CheckString(1)
		tbl := L.CheckTable(2)
		coll.handlers = append(coll.handlers, rawHandler{eventType: eventType, table: tbl})
		return 0
	}))
}
