package trigger

import "testing"

func kinds(tokens []Token) []tokenKind {
	out := make([]tokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []tokenKind
	}{
		{
			name: "string probe",
			src:  `Name = "Ryu"`,
			want: []tokenKind{tokIdent, tokOp, tokString, tokEOF},
		},
		{
			name: "numeric probe with two-char operator",
			src:  "Time >= 10",
			want: []tokenKind{tokIdent, tokOp, tokNumber, tokEOF},
		},
		{
			name: "logical chain",
			src:  `Alive && Power >= 1000 || Time < 5`,
			want: []tokenKind{tokIdent, tokOp, tokIdent, tokOp, tokNumber, tokOp, tokIdent, tokOp, tokNumber, tokEOF},
		},
		{
			name: "parens and comma",
			src:  "(Time > 1),",
			want: []tokenKind{tokLParen, tokIdent, tokOp, tokNumber, tokRParen, tokComma, tokEOF},
		},
		{
			name: "whitespace insignificant",
			src:  "  Name  !=  'Ken'  ",
			want: []tokenKind{tokIdent, tokOp, tokString, tokEOF},
		},
		{
			name: "float and negative literals",
			src:  "Life > -1 && Time >= 0.5",
			want: []tokenKind{tokIdent, tokOp, tokNumber, tokOp, tokIdent, tokOp, tokNumber, tokEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.src)
			if err != nil {
				t.Fatalf("Tokenize(%q) failed: %v", tt.src, err)
			}
			got := kinds(tokens)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tokens %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: kind %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTokenizeValues(t *testing.T) {
	tokens, err := Tokenize(`Name != "Evil Ryu"`)
	if err != nil {
		t.Fatal(err)
	}
	if tokens[1].Op != OpNe {
		t.Errorf("operator = %v, want !=", tokens[1].Op)
	}
	if tokens[2].Val != "Evil Ryu" {
		t.Errorf("string value = %q, want %q", tokens[2].Val, "Evil Ryu")
	}
}

func TestTokenizeEscapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"escaped quote", `Name = "a\"b"`, `a"b`},
		{"escaped backslash before closing quote", `Name = "a\\"`, `a\`},
		{"escaped backslash then escaped quote", `Name = "a\\\"b"`, `a\"b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			if tokens[2].Val != tt.want {
				t.Errorf("escaped value = %q, want %q", tokens[2].Val, tt.want)
			}
		})
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens, err := Tokenize(`Time = 10`)
	if err != nil {
		t.Fatal(err)
	}
	wantPos := []int{0, 5, 7}
	for i, want := range wantPos {
		if tokens[i].Pos != want {
			t.Errorf("token %d pos = %d, want %d", i, tokens[i].Pos, want)
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unterminated string", `Name = "Ryu`},
		{"stray character", `Name # "Ryu"`},
		{"lone bang", `Time ! 3`},
		{"malformed number", `Time = 1.2.3`},
		{"lone minus", `Time = -`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Tokenize(tt.src); err == nil {
				t.Errorf("Tokenize(%q) succeeded, want error", tt.src)
			}
		})
	}
}

func TestTriggerErrorMessage(t *testing.T) {
	_, err := Tokenize(`Name = "Ryu`)
	te, ok := err.(*TriggerError)
	if !ok {
		t.Fatalf("error type = %T, want *TriggerError", err)
	}
	if te.Pos != 7 {
		t.Errorf("error pos = %d, want 7", te.Pos)
	}
}
