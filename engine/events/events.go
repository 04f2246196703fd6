// Package events implements single-pass event handler dispatch.
// Handlers produce additional actions but do not recurse.
package events

import (
	"github.com/nathoo/strikecore/engine/state"
	"github.com/nathoo/strikecore/engine/trigger"
	"github.com/nathoo/strikecore/types"
)

// Pending is a handler's action list bound to the char it should run
// against.
type Pending struct {
	Actions []types.ActionDef
	Char    *state.Char
}

// Dispatch runs event handlers against the emitted events. Single pass,
// no recursion. A handler's trigger, when present, is evaluated against
// the event's subject char; handlers without a trigger always match.
func Dispatch(reg *trigger.Registry, events []types.Event, s *state.State, defs *state.Defs) []Pending {
	var result []Pending

	for _, event := range events {
		subject := subjectChar(event, s)
		for _, handler := range defs.Handlers {
			if handler.EventType != event.Type {
				continue
			}
			if handler.Trigger != nil {
				if subject == nil || !reg.Eval(handler.Trigger, subject).Bool() {
					continue
				}
			}
			if len(handler.Actions) == 0 {
				continue
			}
			target := subject
			if target == nil {
				target = s.P1
			}
			result = append(result, Pending{Actions: handler.Actions, Char: target})
		}
	}

	return result
}

// subjectChar resolves the char an event is about from its "char" data
// key. Events without a subject return nil.
func subjectChar(event types.Event, s *state.State) *state.Char {
	id, _ := event.Data["char"].(string)
	if id == "" {
		return nil
	}
	for _, c := range s.Chars() {
		if c.Def().ID == id {
			return c
		}
	}
	return nil
}
