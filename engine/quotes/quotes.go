// Package quotes selects victory quotes at KO time.
package quotes

import (
	"github.com/nathoo/strikecore/engine/state"
	"github.com/nathoo/strikecore/engine/trigger"
)

// Select returns the winner's victory quote: the first quote in
// definition order whose trigger passes against the winner. Quotes
// without a trigger always pass. Returns "" when the winner has no
// matching quote.
func Select(reg *trigger.Registry, winner *state.Char) string {
	for _, q := range winner.Def().Quotes {
		if q.Trigger == nil || reg.Eval(q.Trigger, winner).Bool() {
			return q.Text
		}
	}
	return ""
}

// Available returns every quote whose trigger currently passes, in
// definition order. The CLI uses this for inspection.
func Available(reg *trigger.Registry, winner *state.Char) []string {
	var result []string
	for _, q := range winner.Def().Quotes {
		if q.Trigger == nil || reg.Eval(q.Trigger, winner).Bool() {
			result = append(result, q.Text)
		}
	}
	return result
}
