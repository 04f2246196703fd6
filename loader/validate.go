package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/strikecore/engine/state"
	"github.com/nathoo/strikecore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known controller and handler action types. "hit" resolves in the
// engine, the rest in the action switch.
var validActionTypes = map[string]bool{
	"change_state":   true,
	"ctrl_set":       true,
	"life_add":       true,
	"power_add":      true,
	"vel_set":        true,
	"pos_add":        true,
	"var_set":        true,
	"var_add":        true,
	"spawn_helper":   true,
	"spawn_explod":   true,
	"remove_explods": true,
	"turn":           true,
	"null":           true,
	"hit":            true,
}

// validate checks the compiled defs for referential integrity and
// consistency.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}

	if defs.Match.Title == "" {
		ve.Errors = append(ve.Errors, "Match.title is required")
	}
	for _, ref := range []struct{ field, id string }{
		{"p1", defs.Match.P1},
		{"p2", defs.Match.P2},
	} {
		if ref.id == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("Match.%s is required", ref.field))
		} else if _, ok := defs.Chars[ref.id]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"Match.%s references undefined char %q", ref.field, ref.id))
		}
	}
	if defs.Match.Stage != "" {
		if _, ok := defs.Stages[defs.Match.Stage]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"Match.stage references undefined stage %q", defs.Match.Stage))
		}
	}

	for id, char := range defs.Chars {
		validateChar(id, char, ve)
	}

	for _, handler := range defs.Handlers {
		for _, a := range handler.Actions {
			if !validActionTypes[a.Type] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"handler for %q uses unknown action type %q", handler.EventType, a.Type))
			}
		}
	}

	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateChar(id string, char types.CharDef, ve *ValidationError) {
	if _, ok := char.States[0]; !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf("char %q has no state 0", id))
	}

	seenCommands := map[string]bool{}
	for _, cmd := range char.Commands {
		if cmd.Name == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("char %q has a nameless command", id))
			continue
		}
		if seenCommands[cmd.Name] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"char %q defines command %q twice", id, cmd.Name))
		}
		seenCommands[cmd.Name] = true
	}

	for no, st := range char.States {
		if !validStateType(st.Type) {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"char %q state %d has invalid type %q", id, no, st.Type))
		}
		for _, ctrl := range st.Controllers {
			if !validActionTypes[ctrl.Type] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"char %q state %d controller %q uses unknown action type %q",
					id, no, ctrl.Name, ctrl.Type))
				continue
			}
			// change_state targets must exist; failing at load beats a
			// refused transition mid-match.
			if ctrl.Type == "change_state" {
				target := int32(0)
				switch v := ctrl.Params["value"].(type) {
				case int:
					target = int32(v)
				case float64:
					target = int32(v)
				}
				if _, ok := char.States[target]; !ok {
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"char %q state %d controller %q targets undefined state %d",
						id, no, ctrl.Name, target))
				}
			}
		}
	}
}

func validStateType(t string) bool {
	switch t {
	case "S", "C", "A", "L":
		return true
	}
	return false
}
