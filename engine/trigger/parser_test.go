package trigger

import (
	"strings"
	"testing"
)

func TestCompileValid(t *testing.T) {
	r := Builtins()

	tests := []struct {
		name string
		src  string
	}{
		{"name equality", `Name = "Ryu"`},
		{"name inequality", `Name != "Ken"`},
		{"case-insensitive function name", `NAME = "Ryu"`},
		{"bare bool probe", `Alive`},
		{"bool probe with comparison", `Alive = 1`},
		{"bare numeric probe", `Life`},
		{"bare numeric probe before logical operator", `Life && Alive`},
		{"bare bool probe before logical operator", `Alive && Alive`},
		{"numeric ordering", `Time >= 10`},
		{"float operand", `Life > 500.5`},
		{"negative operand", `Life > -1`},
		{"logical and", `Alive && Time > 0`},
		{"logical or", `Name = "Ryu" || Name = "Ken"`},
		{"mixed chain", `Alive && Power >= 1000 || Time < 5`},
		{"parenthesized group", `(Alive && Time > 0)`},
		{"paren compare to literal", `(Time > 0) = 1`},
		{"paren compare to paren", `(Alive) != (Time > 99)`},
		{"state type", `StateType = S`},
		{"command probe", `Command = "fireball"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := r.Compile(tt.src)
			if err != nil {
				t.Fatalf("Compile(%q) failed: %v", tt.src, err)
			}
			if node == nil {
				t.Fatalf("Compile(%q) returned nil node", tt.src)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	r := Builtins()

	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"unknown function", `Frobnicate = 1`, "unknown trigger function"},
		{"ordering on string probe", `Name > "Ryu"`, "supports only"},
		{"ordering on bool probe", `Alive < 1`, "supports only"},
		{"non-string operand for name", `Name = 5`, "quoted string"},
		{"missing operand", `Time >=`, "expects a number"},
		{"ident operand for numeric probe", `Time = abc`, "expects a number"},
		{"bad state type letter", `StateType = X`, "one of S, C, A, L"},
		{"dangling logical operator", `Alive &&`, "expected a trigger function"},
		{"unbalanced paren", `(Alive`, "expected ')'"},
		{"trailing garbage", `Alive Time > 3`, "unexpected"},
		{"unterminated string", `Name = "Ryu`, "unterminated string"},
		{"empty source", ``, "expected a trigger function"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := r.Compile(tt.src)
			if err == nil {
				t.Fatalf("Compile(%q) succeeded with node %v, want error", tt.src, node)
			}
			if node != nil {
				t.Errorf("Compile(%q) returned a node alongside an error", tt.src)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestCompileNodeShape(t *testing.T) {
	r := Builtins()

	node, err := r.Compile(`Name = "Ryu"`)
	if err != nil {
		t.Fatal(err)
	}
	if node.Ident != "name" {
		t.Errorf("node ident = %q, want %q", node.Ident, "name")
	}
	if len(node.Args) != 2 {
		t.Fatalf("args = %v, want operator and operand", node.Args)
	}
	if op, ok := node.Args[0].(Operator); !ok || op != OpEq {
		t.Errorf("first arg = %v, want OpEq", node.Args[0])
	}
	if s, ok := node.Args[1].(string); !ok || s != "Ryu" {
		t.Errorf("second arg = %v, want %q", node.Args[1], "Ryu")
	}
}

func TestCompileLogicalShape(t *testing.T) {
	r := Builtins()

	// Left-associative: (a && b) || c.
	node, err := r.Compile(`Alive && Time > 0 || Power >= 1000`)
	if err != nil {
		t.Fatal(err)
	}
	if node.Ident != nodeOr {
		t.Fatalf("root ident = %q, want or", node.Ident)
	}
	left, ok := node.Args[0].(*Node)
	if !ok || left.Ident != nodeAnd {
		t.Errorf("left child = %v, want and combinator", node.Args[0])
	}
}

func TestParseFailureLeavesRegistryUsable(t *testing.T) {
	r := Builtins()

	if _, err := r.Compile(`Name > "Ryu"`); err == nil {
		t.Fatal("expected parse failure")
	}

	// A failed parse must not corrupt the registry or later parses.
	node, err := r.Compile(`Name = "Ryu"`)
	if err != nil {
		t.Fatalf("parse after failure: %v", err)
	}
	if node.Ident != "name" {
		t.Errorf("node ident = %q after earlier failure", node.Ident)
	}
}
