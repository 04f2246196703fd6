package trigger

import "strings"

// Builtins returns a registry populated with the built-in trigger
// vocabulary. The registry is explicitly constructed here, not
// discovered; callers may register extra functions and must Seal before
// the first evaluation.
func Builtins() *Registry {
	r := NewRegistry()
	for _, f := range []Func{
		{Name: "Name", Parse: parseStringProbe, Eval: evalName},
		{Name: "P2Name", Parse: parseStringProbe, Eval: evalP2Name},
		{Name: "AuthorName", Parse: parseStringProbe, Eval: evalAuthorName},
		{Name: "Command", Parse: parseStringProbe, Eval: evalCommand},
		{Name: "Alive", Parse: parseBoolProbe, Eval: evalAlive},
		{Name: "Time", Parse: parseNumericProbe, Eval: evalNumeric(func(ent Entity) Number {
			if c, ok := ent.(Clocked); ok {
				return FromInt(int64(c.StateTime()))
			}
			return Empty()
		})},
		{Name: "Life", Parse: parseNumericProbe, Eval: evalNumeric(func(ent Entity) Number {
			if v, ok := ent.(Vitals); ok {
				return FromInt(int64(v.Life()))
			}
			return Empty()
		})},
		{Name: "Power", Parse: parseNumericProbe, Eval: evalNumeric(func(ent Entity) Number {
			if v, ok := ent.(Vitals); ok {
				return FromInt(int64(v.Power()))
			}
			return Empty()
		})},
		{Name: "StateNo", Parse: parseNumericProbe, Eval: evalNumeric(func(ent Entity) Number {
			if s, ok := ent.(Stated); ok {
				return FromInt(int64(s.StateNo()))
			}
			return Empty()
		})},
		{Name: "Random", Parse: parseNumericProbe, Eval: evalNumeric(func(ent Entity) Number {
			if rv, ok := ent.(Randomized); ok {
				return FromInt(int64(rv.RandomValue()))
			}
			return Empty()
		})},
		{Name: "StateType", Parse: parseStateTypeProbe, Eval: evalStateType},
	} {
		if err := r.Register(f); err != nil {
			// Built-in names are fixed at compile time; a collision
			// here is a bug in this file.
			panic(err)
		}
	}
	return r
}

// Parse routine shapes
// --------------------

// parseStringProbe accepts '=' or '!=' followed by a quoted string
// literal. Used by the name probes and command.
func parseStringProbe(ps *ParseState) (*Node, error) {
	op, ok := ps.CurrentOperator()
	if !ok || (op != OpEq && op != OpNe) {
		return nil, ps.Errorf("%s supports only '=' and '!='", ps.Node().Ident)
	}
	ps.Advance()

	tok := ps.Current()
	if tok.Kind != tokString {
		return nil, ps.Errorf("%s expects a quoted string but found %s", ps.Node().Ident, tok)
	}
	ps.Advance()

	ps.AppendArg(op)
	ps.AppendArg(tok.Val)
	return ps.Node(), nil
}

// parseNumericProbe accepts a bare call, or any of the six comparison
// operators followed by a numeric literal. A logical operator is not
// consumed; it belongs to the enclosing expression.
func parseNumericProbe(ps *ParseState) (*Node, error) {
	op, ok := ps.CurrentOperator()
	if !ok || !op.isComparison() {
		return ps.Node(), nil
	}
	ps.Advance()

	tok := ps.Current()
	if tok.Kind != tokNumber {
		return nil, ps.Errorf("%s expects a number but found %s", ps.Node().Ident, tok)
	}
	num, err := parseNumberLiteral(tok.Val)
	if err != nil {
		return nil, ps.Errorf("malformed number %q", tok.Val)
	}
	ps.Advance()

	ps.AppendArg(op)
	ps.AppendArg(num)
	return ps.Node(), nil
}

// parseBoolProbe accepts a bare call, or '='/'!=' with a numeric
// literal. A logical operator is not consumed; ordering operators are
// rejected.
func parseBoolProbe(ps *ParseState) (*Node, error) {
	op, ok := ps.CurrentOperator()
	if !ok || !op.isComparison() {
		return ps.Node(), nil
	}
	if op != OpEq && op != OpNe {
		return nil, ps.Errorf("%s supports only '=' and '!='", ps.Node().Ident)
	}
	ps.Advance()

	tok := ps.Current()
	if tok.Kind != tokNumber {
		return nil, ps.Errorf("%s expects a number but found %s", ps.Node().Ident, tok)
	}
	num, err := parseNumberLiteral(tok.Val)
	if err != nil {
		return nil, ps.Errorf("malformed number %q", tok.Val)
	}
	ps.Advance()

	ps.AppendArg(op)
	ps.AppendArg(num)
	return ps.Node(), nil
}

// State type letters from the legacy dialect: standing, crouching,
// airborne, lying down.
var stateTypeNames = map[string]bool{"s": true, "c": true, "a": true, "l": true}

// parseStateTypeProbe accepts '='/'!=' with a bare state-type letter.
func parseStateTypeProbe(ps *ParseState) (*Node, error) {
	op, ok := ps.CurrentOperator()
	if !ok || (op != OpEq && op != OpNe) {
		return nil, ps.Errorf("%s supports only '=' and '!='", ps.Node().Ident)
	}
	ps.Advance()

	tok := ps.Current()
	if tok.Kind != tokIdent || !stateTypeNames[strings.ToLower(tok.Val)] {
		return nil, ps.Errorf("%s expects one of S, C, A, L but found %s", ps.Node().Ident, tok)
	}
	ps.Advance()

	ps.AppendArg(op)
	ps.AppendArg(strings.ToUpper(tok.Val))
	return ps.Node(), nil
}

// Eval routines
// -------------

// stringProbeResult compares a resolved name against the stored string
// operand: ordinal, case-insensitive. Only equality operators apply.
func stringProbeResult(resolved string, op Operator, args []Arg) Number {
	if len(args) == 0 {
		return Empty()
	}
	operand, ok := args[0].(string)
	if !ok {
		return Empty()
	}
	eq := strings.EqualFold(resolved, operand)
	switch op {
	case OpEq:
		return FromBool(eq)
	case OpNe:
		return FromBool(!eq)
	}
	return Empty()
}

func evalName(ent Entity, op Operator, args []Arg) Number {
	named, ok := ent.(Named)
	if !ok {
		return Empty()
	}
	name, ok := named.DisplayName()
	if !ok {
		return Empty()
	}
	return stringProbeResult(name, op, args)
}

func evalP2Name(ent Entity, op Operator, args []Arg) Number {
	opp, ok := ent.(Opposed)
	if !ok {
		return Empty()
	}
	p2, ok := opp.Opponent()
	if !ok {
		return Empty()
	}
	return evalName(p2, op, args)
}

func evalAuthorName(ent Entity, op Operator, args []Arg) Number {
	authored, ok := ent.(Authored)
	if !ok {
		return Empty()
	}
	author, ok := authored.AuthorName()
	if !ok {
		return Empty()
	}
	return stringProbeResult(author, op, args)
}

func evalCommand(ent Entity, op Operator, args []Arg) Number {
	cmd, ok := ent.(Commanded)
	if !ok || len(args) == 0 {
		return Empty()
	}
	name, ok := args[0].(string)
	if !ok {
		return Empty()
	}
	active := cmd.CommandActive(name)
	switch op {
	case OpEq:
		return FromBool(active)
	case OpNe:
		return FromBool(!active)
	}
	return Empty()
}

func evalAlive(ent Entity, op Operator, args []Arg) Number {
	v, ok := ent.(Vitals)
	if !ok {
		return Empty()
	}
	alive := FromBool(v.Alive())
	if op == OpNone {
		return alive
	}
	if len(args) == 0 {
		return Empty()
	}
	operand, ok := args[0].(Number)
	if !ok {
		return Empty()
	}
	return Compare(alive, operand, op)
}

// evalNumeric builds an eval routine for a numeric probe from its value
// getter. A bare probe yields the raw value; the getter returns the
// empty Number when the entity lacks the capability.
func evalNumeric(value func(Entity) Number) EvalFunc {
	return func(ent Entity, op Operator, args []Arg) Number {
		v := value(ent)
		if op == OpNone {
			return v
		}
		if v.IsEmpty() || len(args) == 0 {
			return Empty()
		}
		operand, ok := args[0].(Number)
		if !ok {
			return Empty()
		}
		return Compare(v, operand, op)
	}
}

func evalStateType(ent Entity, op Operator, args []Arg) Number {
	s, ok := ent.(Stated)
	if !ok || len(args) == 0 {
		return Empty()
	}
	operand, ok := args[0].(string)
	if !ok {
		return Empty()
	}
	eq := strings.EqualFold(s.StateType(), operand)
	switch op {
	case OpEq:
		return FromBool(eq)
	case OpNe:
		return FromBool(!eq)
	}
	return Empty()
}
