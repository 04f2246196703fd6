// Package types defines the shared data structures for the StrikeCore
// engine. Definitions are immutable after loading; this package
// contains no logic beyond the structs themselves.
package types

import "github.com/nathoo/strikecore/engine/trigger"

// CharDef is the immutable definition of a character, compiled from Lua.
type CharDef struct {
	ID       string
	Name     string // display name
	Author   string
	Life     int32 // maximum life
	Power    int32 // maximum power
	Attack   int32
	Defence  int32
	States   map[int32]StateDef
	Commands []CommandDef
	Quotes   []QuoteDef
}

// StateDef is one state of a character's state machine.
type StateDef struct {
	No          int32
	Type        string // "S", "C", "A", "L"
	Ctrl        bool   // whether the char has control on entry
	Controllers []ControllerDef
}

// ControllerDef is one state controller: an action gated by compiled
// trigger expressions. The controller fires on a tick when any trigger
// group passes; within a group all triggers must pass, and TriggerAll
// is conjoined to every group.
type ControllerDef struct {
	Name        string
	Type        string // action type, e.g. "change_state"
	TriggerAll  []*trigger.Node
	Triggers    [][]*trigger.Node
	Params      map[string]any
	SourceOrder int
}

// ActionDef is a single atomic action instruction (used by event
// handlers; controllers carry their action inline).
type ActionDef struct {
	Type   string
	Params map[string]any
}

// CommandDef is one motion-input command in classic notation.
type CommandDef struct {
	Name       string
	Input      string // raw notation, e.g. "~D, DF, F, x"
	Steps      []CommandStep
	Time       int // max ticks for the full sequence
	BufferTime int // ticks a completed match stays active
}

// CommandStep is one step of a compiled command sequence.
type CommandStep struct {
	Keys    []string // simultaneous keys ("+" in notation)
	Release bool     // "~" prefix: key must be released
	Held    bool     // "/" prefix: key may be held from earlier
}

// QuoteDef is a victory quote, optionally gated by a trigger evaluated
// against the winner at KO.
type QuoteDef struct {
	Text    string
	Trigger *trigger.Node
}

// StageDef is the immutable definition of a stage.
type StageDef struct {
	ID     string
	Name   string
	Layers []BGLayerDef
}

// BGLayerDef is one scrolling background layer.
type BGLayerDef struct {
	ID      string
	Layer   int    // draw layer: 0 behind the chars, 1 in front
	Sprite  string // sprite resource key
	Anim    string // animation resource key, "" for a static sprite
	ScrollX float64
	ScrollY float64
	Visible bool
	Paused  bool
}

// HandlerDef is a rule triggered by an emitted event rather than a
// state controller. Its trigger is evaluated against the event's
// subject character.
type HandlerDef struct {
	EventType string
	Trigger   *trigger.Node // optional; nil means always
	Actions   []ActionDef
}

// MatchDef holds match metadata from Lua.
type MatchDef struct {
	Title     string
	Version   string
	P1        string // char ID
	P2        string // char ID
	Stage     string // stage ID
	Rounds    int    // rounds needed to win the match
	RoundTime int    // ticks per round, 0 = no limit
}

// Event is emitted by actions and engine bookkeeping during a tick.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single simulation tick.
type Result struct {
	Events []Event
	Output []string
}
