package command

import (
	"testing"

	"github.com/nathoo/strikecore/types"
)

func TestParseNotation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []types.CommandStep
	}{
		{
			name:  "quarter circle forward punch",
			input: "~D, DF, F, x",
			want: []types.CommandStep{
				{Keys: []string{"D"}, Release: true},
				{Keys: []string{"DF"}},
				{Keys: []string{"F"}},
				{Keys: []string{"x"}},
			},
		},
		{
			name:  "simultaneous keys",
			input: "D, D+a",
			want: []types.CommandStep{
				{Keys: []string{"D"}},
				{Keys: []string{"D", "a"}},
			},
		},
		{
			name:  "held modifier",
			input: "/B, y",
			want: []types.CommandStep{
				{Keys: []string{"B"}, Held: true},
				{Keys: []string{"y"}},
			},
		},
		{
			name:  "case normalization",
			input: "d, df, X",
			want: []types.CommandStep{
				{Keys: []string{"D"}},
				{Keys: []string{"DF"}},
				{Keys: []string{"x"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := ParseNotation(tt.input)
			if err != nil {
				t.Fatalf("ParseNotation(%q): %v", tt.input, err)
			}
			if len(steps) != len(tt.want) {
				t.Fatalf("got %d steps, want %d", len(steps), len(tt.want))
			}
			for i := range steps {
				got, want := steps[i], tt.want[i]
				if got.Release != want.Release || got.Held != want.Held {
					t.Errorf("step %d modifiers = %+v, want %+v", i, got, want)
				}
				if len(got.Keys) != len(want.Keys) {
					t.Fatalf("step %d keys = %v, want %v", i, got.Keys, want.Keys)
				}
				for j := range got.Keys {
					if got.Keys[j] != want.Keys[j] {
						t.Errorf("step %d key %d = %q, want %q", i, j, got.Keys[j], want.Keys[j])
					}
				}
			}
		})
	}
}

func TestParseNotationErrors(t *testing.T) {
	for _, input := range []string{"", "D,,F", "D, Q", "D, DF, FF"} {
		if _, err := ParseNotation(input); err == nil {
			t.Errorf("ParseNotation(%q) succeeded, want error", input)
		}
	}
}

func TestBufferMatch(t *testing.T) {
	steps, err := ParseNotation("D, DF, F")
	if err != nil {
		t.Fatal(err)
	}

	b := NewBuffer(60)
	b.Push([]string{"D"})
	b.Push([]string{"DF"})
	b.Push([]string{"F"})

	if !b.Match(steps, 15) {
		t.Error("clean sequence did not match")
	}

	// One more empty tick: final step no longer lands on the newest
	// tick, so the match must not re-fire.
	b.Push(nil)
	if b.Match(steps, 15) {
		t.Error("stale sequence matched again")
	}
}

func TestBufferMatchRelease(t *testing.T) {
	steps, err := ParseNotation("~D, F")
	if err != nil {
		t.Fatal(err)
	}

	b := NewBuffer(60)
	b.Push([]string{"D"})
	b.Push(nil)          // release edge
	b.Push([]string{"F"}) // press

	if !b.Match(steps, 15) {
		t.Error("release then press did not match")
	}
}

func TestBufferMatchWindow(t *testing.T) {
	steps, err := ParseNotation("D, F")
	if err != nil {
		t.Fatal(err)
	}

	b := NewBuffer(60)
	b.Push([]string{"D"})
	for i := 0; i < 20; i++ {
		b.Push(nil)
	}
	b.Push([]string{"F"})

	if b.Match(steps, 10) {
		t.Error("sequence outside window matched")
	}
	if !b.Match(steps, 30) {
		t.Error("sequence inside wider window did not match")
	}
}

func TestRecognizer(t *testing.T) {
	steps, err := ParseNotation("~D, DF, F, x")
	if err != nil {
		t.Fatal(err)
	}
	defs := []types.CommandDef{{
		Name:       "fireball",
		Steps:      steps,
		Time:       15,
		BufferTime: 2,
	}}

	r := NewRecognizer(defs)
	r.Update([]string{"D"})
	r.Update([]string{"DF"})
	r.Update([]string{"F"})
	r.Update([]string{"F", "x"})

	if !r.Active("fireball") {
		t.Fatal("fireball not active after full motion")
	}

	// BufferTime 2: active for one more tick, then expires.
	r.Update(nil)
	if !r.Active("fireball") {
		t.Error("fireball expired before its buffer time")
	}
	r.Update(nil)
	if r.Active("fireball") {
		t.Error("fireball still active after buffer time")
	}

	r.Reset()
	if r.Active("fireball") {
		t.Error("active set survived Reset")
	}
}
