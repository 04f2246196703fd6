package trigger

// Eval walks a compiled Node tree against an entity and produces a
// Number. Node trees are immutable and the registry is read-only after
// sealing, so the same tree may be evaluated for any number of entities
// concurrently. A nil node or entity is a caller bug, not script input,
// and panics immediately.
func (r *Registry) Eval(n *Node, ent Entity) Number {
	if n == nil {
		panic("trigger: Eval called with nil node")
	}
	if ent == nil {
		panic("trigger: Eval called with nil entity")
	}
	return r.eval(n, ent)
}

func (r *Registry) eval(n *Node, ent Entity) Number {
	switch n.Ident {
	case nodeAnd, nodeOr:
		// Both sides always evaluate, left to right. The dialect makes
		// no short-circuit guarantee, so scripts cannot rely on the
		// right side being suppressed.
		left := r.evalArg(n.Args[0], ent)
		right := r.evalArg(n.Args[1], ent)
		if n.Ident == nodeAnd {
			return FromBool(left.Bool() && right.Bool())
		}
		return FromBool(left.Bool() || right.Bool())

	case nodeCmp:
		op := n.Args[0].(Operator)
		a := r.evalArg(n.Args[1], ent)
		b := r.evalArg(n.Args[2], ent)
		return Compare(a, b, op)

	default:
		fn, ok := r.Lookup(n.Ident)
		if !ok {
			// Cannot happen after a successful parse, but a missing
			// entry must degrade to false, not crash mid-combat.
			return Empty()
		}
		op, operands := splitArgs(n.Args)
		return fn.Eval(ent, op, operands)
	}
}

// evalArg resolves one combinator argument to a Number: nested nodes
// evaluate, Number literals pass through, anything else is empty.
func (r *Registry) evalArg(a Arg, ent Entity) Number {
	switch v := a.(type) {
	case *Node:
		return r.eval(v, ent)
	case Number:
		return v
	}
	return Empty()
}

// splitArgs separates a function node's argument list into its leading
// operator (OpNone for bare probes) and the remaining operands.
func splitArgs(args []Arg) (Operator, []Arg) {
	if len(args) > 0 {
		if op, ok := args[0].(Operator); ok {
			return op, args[1:]
		}
	}
	return OpNone, args
}
