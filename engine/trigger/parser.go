package trigger

import (
	"fmt"
	"strings"
)

// Node idents used for the parser's own combinators. Function-call
// leaves use the (lowercased) function name instead.
const (
	nodeAnd = "&&"
	nodeOr  = "||"
	nodeCmp = "cmp"
)

// Arg is one argument of a parsed Node: an Operator, a literal (string
// or Number), or a nested *Node.
type Arg = any

// Node is one parsed expression-tree element: a function call or a
// combinator, with an ordered argument list. Immutable after a
// successful parse; a tree may be shared and re-evaluated freely.
type Node struct {
	Ident string
	Args  []Arg
}

// String renders the tree back in source-ish form, for diagnostics.
func (n *Node) String() string {
	switch n.Ident {
	case nodeAnd, nodeOr:
		return fmt.Sprintf("(%v %s %v)", n.Args[0], n.Ident, n.Args[1])
	case nodeCmp:
		return fmt.Sprintf("(%v %v %v)", n.Args[1], n.Args[0], n.Args[2])
	}
	var b strings.Builder
	b.WriteString(n.Ident)
	for _, a := range n.Args {
		fmt.Fprintf(&b, " %v", a)
	}
	return b.String()
}

// ParseState is the shared cursor over the token stream, passed by
// pointer to the parser and to every function's parse routine. A
// function's routine consumes its own operator and operand tokens,
// appends them to the base node, and returns that node. One ParseState
// lives per trigger-line parse attempt.
type ParseState struct {
	src    string
	tokens []Token
	pos    int
	node   *Node // base node for the function call being parsed
}

// Current returns the token under the cursor.
func (ps *ParseState) Current() Token {
	if ps.pos >= len(ps.tokens) {
		return Token{Kind: tokEOF, Pos: len(ps.src)}
	}
	return ps.tokens[ps.pos]
}

// Advance moves the cursor past the current token.
func (ps *ParseState) Advance() {
	if ps.pos < len(ps.tokens) {
		ps.pos++
	}
}

// CurrentOperator returns the operator under the cursor, if the current
// token is one.
func (ps *ParseState) CurrentOperator() (Operator, bool) {
	tok := ps.Current()
	if tok.Kind != tokOp {
		return OpNone, false
	}
	return tok.Op, true
}

// Node returns the base node under construction.
func (ps *ParseState) Node() *Node {
	return ps.node
}

// AppendArg appends an argument to the base node.
func (ps *ParseState) AppendArg(a Arg) {
	ps.node.Args = append(ps.node.Args, a)
}

// Errorf builds a parse error pointing at the current token.
func (ps *ParseState) Errorf(format string, args ...any) error {
	return &TriggerError{Src: ps.src, Pos: ps.Current().Pos, Msg: fmt.Sprintf(format, args...)}
}

// Compile parses one trigger line into an immutable Node tree.
// Grammar:
//
//	Expression := Term (('&&' | '||') Term)*
//	Term       := FunctionCall | '(' Expression ')' [CmpOp Operand]
//
// Each function identifier delegates to that function's own parse
// routine, which knows its supported operators and operand shape. Any
// failure rejects the whole line; partial nodes are discarded.
func (r *Registry) Compile(src string) (*Node, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	ps := &ParseState{src: src, tokens: tokens}
	node, err := r.parseExpression(ps)
	if err != nil {
		return nil, err
	}
	if ps.Current().Kind != tokEOF {
		return nil, ps.Errorf("unexpected %s after expression", ps.Current())
	}
	return node, nil
}

func (r *Registry) parseExpression(ps *ParseState) (*Node, error) {
	left, err := r.parseTerm(ps)
	if err != nil {
		return nil, err
	}

	for {
		op, ok := ps.CurrentOperator()
		if !ok || (op != OpAnd && op != OpOr) {
			return left, nil
		}
		ps.Advance()

		right, err := r.parseTerm(ps)
		if err != nil {
			return nil, err
		}

		ident := nodeAnd
		if op == OpOr {
			ident = nodeOr
		}
		left = &Node{Ident: ident, Args: []Arg{left, right}}
	}
}

func (r *Registry) parseTerm(ps *ParseState) (*Node, error) {
	tok := ps.Current()

	switch tok.Kind {
	case tokLParen:
		ps.Advance()
		inner, err := r.parseExpression(ps)
		if err != nil {
			return nil, err
		}
		if ps.Current().Kind != tokRParen {
			return nil, ps.Errorf("expected ')' but found %s", ps.Current())
		}
		ps.Advance()

		// A parenthesized group may be compared against an operand.
		if op, ok := ps.CurrentOperator(); ok && op.isComparison() {
			ps.Advance()
			operand, err := r.parseOperand(ps)
			if err != nil {
				return nil, err
			}
			return &Node{Ident: nodeCmp, Args: []Arg{op, inner, operand}}, nil
		}
		return inner, nil

	case tokIdent:
		fn, ok := r.Lookup(tok.Val)
		if !ok {
			return nil, ps.Errorf("unknown trigger function %q", tok.Val)
		}
		ps.Advance()

		// Hand control to the function's own parse routine, with a
		// fresh base node on the shared state. The previous base node
		// is restored afterwards so nested parses cannot leak.
		base := &Node{Ident: strings.ToLower(tok.Val)}
		prev := ps.node
		ps.node = base
		node, err := fn.Parse(ps)
		ps.node = prev
		if err != nil {
			return nil, err
		}
		if node == nil {
			return nil, ps.Errorf("trigger function %q produced no node", tok.Val)
		}
		return node, nil

	default:
		return nil, ps.Errorf("expected a trigger function or '(' but found %s", tok)
	}
}

// parseOperand parses the right-hand side of a bare comparison: a
// numeric literal or another parenthesized expression.
func (r *Registry) parseOperand(ps *ParseState) (Arg, error) {
	tok := ps.Current()
	switch tok.Kind {
	case tokNumber:
		num, err := parseNumberLiteral(tok.Val)
		if err != nil {
			return nil, ps.Errorf("malformed number %q", tok.Val)
		}
		ps.Advance()
		return num, nil
	case tokLParen:
		return r.parseTerm(ps)
	default:
		return nil, ps.Errorf("expected a number or '(' but found %s", tok)
	}
}
