package trigger

import (
	"fmt"
	"strings"
)

// ParseFunc is a function's custom parse routine. It reads the current
// operator and operand from the shared ParseState, validates them
// against the function's supported shapes, appends them to the base
// node, and returns that node.
type ParseFunc func(*ParseState) (*Node, error)

// EvalFunc is a function's evaluation routine. It must be a pure
// function of (entity, operator, operands): triggers are re-evaluated
// every tick and must be deterministic for identical state. Unsupported
// operators or missing capabilities yield the empty Number, never a
// fault.
type EvalFunc func(ent Entity, op Operator, args []Arg) Number

// Func is one registered trigger function: a unique case-insensitive
// name bound to a parse routine and an evaluation routine.
type Func struct {
	Name  string
	Parse ParseFunc
	Eval  EvalFunc
}

// Registry maps function names to their routines. It is populated by
// explicit Register calls at startup and sealed before the first
// evaluation; after sealing it is read-only, which makes concurrent
// read-only evaluation safe without synchronization.
type Registry struct {
	funcs  map[string]Func
	sealed bool
}

// NewRegistry returns an empty, unsealed registry.
func NewRegistry() *Registry {
	return &Registry{funcs: map[string]Func{}}
}

// Register adds a function. Duplicate names (case-insensitive) and
// registration after Seal are configuration errors: the engine must not
// run with an ambiguous registry.
func (r *Registry) Register(f Func) error {
	if r.sealed {
		return fmt.Errorf("registering trigger function %q after registry was sealed", f.Name)
	}
	if f.Name == "" || f.Parse == nil || f.Eval == nil {
		return fmt.Errorf("trigger function %q is missing a name, parse routine, or eval routine", f.Name)
	}
	key := strings.ToLower(f.Name)
	if _, ok := r.funcs[key]; ok {
		return fmt.Errorf("duplicate trigger function %q", f.Name)
	}
	r.funcs[key] = f
	return nil
}

// Lookup finds a function by name, case-insensitively.
func (r *Registry) Lookup(name string) (Func, bool) {
	f, ok := r.funcs[strings.ToLower(name)]
	return f, ok
}

// Seal freezes the registry. Further Register calls fail.
func (r *Registry) Seal() {
	r.sealed = true
}

// Sealed reports whether the registry has been sealed.
func (r *Registry) Sealed() bool {
	return r.sealed
}
