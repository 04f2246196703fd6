package trigger

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Operator is the closed set of comparison and logical operators the
// trigger language supports. Not every function supports every
// operator; a function's parse routine rejects the ones it does not.
type Operator int

const (
	// OpNone marks a bare function call with no operator.
	OpNone Operator = iota
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

// String returns the source spelling of the operator.
func (op Operator) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	}
	return "none"
}

// isComparison reports whether op compares two values (as opposed to
// logically combining them).
func (op Operator) isComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokOp
	tokLParen
	tokRParen
	tokComma
)

// Token is one lexical unit of a trigger line.
type Token struct {
	Kind tokenKind
	Val  string   // raw text; unquoted value for tokString
	Op   Operator // set for tokOp
	Pos  int      // byte offset in the source line
}

// String renders a token for error messages.
func (t Token) String() string {
	switch t.Kind {
	case tokEOF:
		return "end of expression"
	case tokString:
		return fmt.Sprintf("%q", t.Val)
	}
	return fmt.Sprintf("'%s'", t.Val)
}

// Symbols that always terminate an identifier or number. Two-character
// symbols are checked before their one-character prefixes.
var symbolMap = map[string]Operator{
	"=":  OpEq,
	"!=": OpNe,
	"<":  OpLt,
	"<=": OpLe,
	">":  OpGt,
	">=": OpGe,
	"&&": OpAnd,
	"||": OpOr,
}

// TriggerError is a lex or parse failure with its source position, so
// load-time reports can point at the offending token.
type TriggerError struct {
	Src string // the trigger line
	Pos int    // byte offset of the failure
	Msg string
}

func (e *TriggerError) Error() string {
	return fmt.Sprintf("%s at position %d in %q", e.Msg, e.Pos, e.Src)
}

// Tokenize splits a trigger line into tokens. Identifiers are
// case-preserving here; lookups downstream are case-insensitive.
// A malformed literal fails the whole line.
func Tokenize(src string) ([]Token, error) {
	l := &lexlin{src: src}

	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == tokEOF {
			return tokens, nil
		}
	}
}

// lexlin is the scanner state for one trigger line.
type lexlin struct {
	src string
	pos int
}

func (l *lexlin) errorf(pos int, format string, args ...any) error {
	return &TriggerError{Src: l.src, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexlin) peek() rune {
	if l.pos >= len(l.src) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

func (l *lexlin) advance() {
	_, w := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += w
}

func (l *lexlin) next() (Token, error) {
	for unicode.IsSpace(l.peek()) {
		l.advance()
	}

	start := l.pos
	r := l.peek()

	switch {
	case r == -1:
		return Token{Kind: tokEOF, Pos: start}, nil

	case r == '(':
		l.advance()
		return Token{Kind: tokLParen, Val: "(", Pos: start}, nil

	case r == ')':
		l.advance()
		return Token{Kind: tokRParen, Val: ")", Pos: start}, nil

	case r == ',':
		l.advance()
		return Token{Kind: tokComma, Val: ",", Pos: start}, nil

	case r == '"' || r == '\'':
		return l.lexString()

	case unicode.IsDigit(r) || r == '.' || r == '-':
		return l.lexNumber()

	case unicode.IsLetter(r) || r == '_':
		for unicode.IsLetter(l.peek()) || unicode.IsDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		return Token{Kind: tokIdent, Val: l.src[start:l.pos], Pos: start}, nil

	default:
		// Try a two-character symbol first, then one character.
		if l.pos+2 <= len(l.src) {
			if op, ok := symbolMap[l.src[l.pos:l.pos+2]]; ok {
				val := l.src[l.pos : l.pos+2]
				l.pos += 2
				return Token{Kind: tokOp, Val: val, Op: op, Pos: start}, nil
			}
		}
		if op, ok := symbolMap[string(r)]; ok {
			l.advance()
			return Token{Kind: tokOp, Val: string(r), Op: op, Pos: start}, nil
		}
		return Token{}, l.errorf(start, "unexpected character %q", r)
	}
}

// lexString scans a quoted string literal. Double-quoted strings
// interpret escape sequences; single-quoted strings are taken plain.
func (l *lexlin) lexString() (Token, error) {
	start := l.pos
	quote := l.peek()
	l.advance()

	// escaped tracks whether the current rune sits behind an odd run of
	// backslashes: a lone `\` escapes the next rune, `\\` escapes nothing.
	escaped := false
	for {
		r := l.peek()
		if r == -1 {
			return Token{}, l.errorf(start, "unterminated string")
		}
		if r == quote && !escaped {
			break
		}
		if quote == '"' && r == '\\' {
			escaped = !escaped
		} else {
			escaped = false
		}
		l.advance()
	}
	raw := l.src[start+1 : l.pos]
	l.advance() // closing quote

	if quote == '\'' {
		return Token{Kind: tokString, Val: raw, Pos: start}, nil
	}
	val, err := strconv.Unquote(`"` + raw + `"`)
	if err != nil {
		return Token{}, l.errorf(start, "bad escape sequence in string")
	}
	return Token{Kind: tokString, Val: val, Pos: start}, nil
}

// lexNumber scans an integer or float literal, with an optional leading
// minus sign.
func (l *lexlin) lexNumber() (Token, error) {
	start := l.pos
	if l.peek() == '-' {
		l.advance()
		if !unicode.IsDigit(l.peek()) && l.peek() != '.' {
			return Token{}, l.errorf(start, "unexpected character '-'")
		}
	}
	for unicode.IsDigit(l.peek()) || l.peek() == '.' {
		l.advance()
	}
	val := l.src[start:l.pos]
	if val == "." || val == "-." || strings.Count(val, ".") > 1 {
		return Token{}, l.errorf(start, "malformed number %q", val)
	}
	return Token{Kind: tokNumber, Val: val, Pos: start}, nil
}

// parseNumberLiteral converts a tokNumber value into a Number, keeping
// the int/float distinction from the source.
func parseNumberLiteral(val string) (Number, error) {
	if strings.Contains(val, ".") {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return Empty(), err
		}
		return FromFloat(f), nil
	}
	i, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return Empty(), err
	}
	return FromInt(i), nil
}
