package tui

import (
	"strings"
	"testing"

	"github.com/nathoo/strikecore/engine"
	"github.com/nathoo/strikecore/engine/state"
	"github.com/nathoo/strikecore/types"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"Round 1, fight!", kindAnnounce},
		{"KO! Ryu wins the round.", kindAnnounce},
		{"Time over. Ryu wins the round.", kindAnnounce},
		{"Match over. Winner: P1.", kindAnnounce},
		{"[Snapshot saved to test.]", kindSystem},
		{"[trace] Events: 2", kindTrace},
		{"Eval failed: unexpected token", kindError},
		{"Ryu hits Ken for 23 damage.", kindCombat},
		{"", kindCombat},
		{`Ryu: "You must defeat my dragon punch to stand a chance."`, kindQuote},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestContainsVictoryQuote(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{`"Hadouken! You never stood a chance."`, true},
		{`Ken says "the fight is not over until it is over."`, true},
		{`"Hi"`, false},      // too short
		{"No quotes.", false}, // no quotes at all
	}
	for _, tt := range tests {
		got := containsVictoryQuote(tt.line)
		if got != tt.want {
			t.Errorf("containsVictoryQuote(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"Ryu hits Ken for 23 damage and knocks him into the corner.", 30,
			"Ryu hits Ken for 23 damage and\nknocks him into the corner."},
		{"", 80, ""},
		{"one", 80, "one"},
		{"a b c d e", 3, "a b\nc d\ne"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestLifeBarFill(t *testing.T) {
	tests := []struct {
		cur, max   int32
		width      int
		wantFilled int
	}{
		{1000, 1000, 10, 10},
		{500, 1000, 10, 5},
		{0, 1000, 10, 0},
		{-50, 1000, 10, 0},
		{250, 1000, 4, 1},
	}
	for _, tt := range tests {
		bar := lifeBar(tt.cur, tt.max, tt.width)
		filled := strings.Count(bar, "█")
		if filled != tt.wantFilled {
			t.Errorf("lifeBar(%d, %d, %d) filled %d cells, want %d",
				tt.cur, tt.max, tt.width, filled, tt.wantFilled)
		}
	}
}

func TestPowerBarFill(t *testing.T) {
	bar := powerBar(1500, 3000, 10)
	if got := strings.Count(bar, "▰"); got != 5 {
		t.Errorf("powerBar filled %d cells, want 5", got)
	}
}

func TestTimerSeconds(t *testing.T) {
	tests := []struct {
		limit, elapsed, want int32
	}{
		{5940, 0, 99},
		{5940, 60, 98},
		{5940, 5940, 0},
		{5940, 6000, 0},
		{600, 59, 9},
	}
	for _, tt := range tests {
		if got := timerSeconds(tt.limit, tt.elapsed); got != tt.want {
			t.Errorf("timerSeconds(%d, %d) = %d, want %d", tt.limit, tt.elapsed, got, tt.want)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("D")
	h.Push("DF")
	h.Push("F x")

	prev, ok := h.Prev()
	if !ok || prev != "F x" {
		t.Errorf("expected 'F x', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "DF" {
		t.Errorf("expected 'DF', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "D" {
		t.Errorf("expected 'D', got %q (ok=%v)", prev, ok)
	}

	// At oldest, stays there.
	prev, ok = h.Prev()
	if !ok || prev != "D" {
		t.Errorf("expected 'D' at boundary, got %q (ok=%v)", prev, ok)
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("D")
	h.Push("DF")

	h.Prev() // "DF"
	h.Prev() // "D"

	next, ok := h.Next()
	if !ok || next != "DF" {
		t.Errorf("expected 'DF', got %q (ok=%v)", next, ok)
	}

	_, ok = h.Next()
	if ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	_, ok := h.Prev()
	if ok {
		t.Error("expected false on empty history")
	}
	_, ok = h.Next()
	if ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c") // "a" evicted

	prev, _ := h.Prev()
	if prev != "c" {
		t.Errorf("expected 'c', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b', got %q", prev)
	}
	// "a" is gone.
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b' at boundary, got %q", prev)
	}
}

func TestHistory_NoDuplicates(t *testing.T) {
	h := NewHistory(5)
	h.Push("D")
	h.Push("D") // skipped
	h.Push("D") // skipped

	if h.count != 1 {
		t.Errorf("expected 1 entry, got %d", h.count)
	}
}

func TestHistory_ResetCursor(t *testing.T) {
	h := NewHistory(5)
	h.Push("D")
	h.Push("DF")

	h.Prev() // "DF"
	h.ResetCursor()

	// After reset, Prev starts from the end again.
	prev, ok := h.Prev()
	if !ok || prev != "DF" {
		t.Errorf("expected 'DF' after reset, got %q", prev)
	}
}

// testDefs returns a minimal two-character match for TUI testing.
func testDefs() *state.Defs {
	char := types.CharDef{
		ID:   "ryu",
		Name: "Ryu",
		Life: 1000,
		Power: 3000,
		States: map[int32]types.StateDef{
			0: {No: 0, Type: "S", Ctrl: true},
		},
	}
	ken := char
	ken.ID = "ken"
	ken.Name = "Ken"

	return &state.Defs{
		Match: types.MatchDef{
			Title:     "Test Match",
			P1:        "ryu",
			P2:        "ken",
			Rounds:    2,
			RoundTime: 5940,
		},
		Chars: map[string]types.CharDef{"ryu": char, "ken": ken},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	defs := testDefs()
	eng, err := engine.New(defs)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return New(eng, defs)
}

func TestHandleMeta_Quit(t *testing.T) {
	m := newTestModel(t)

	_, quit := m.handleMeta("/quit")
	if !quit {
		t.Error("expected quit=true for /quit")
	}

	_, quit = m.handleMeta("/exit")
	if !quit {
		t.Error("expected quit=true for /exit")
	}
}

func TestHandleMeta_Tick(t *testing.T) {
	m := newTestModel(t)

	_, quit := m.handleMeta("/tick 4")
	if quit {
		t.Error("tick should not quit")
	}
	if m.engine.State.TickCount != 4 {
		t.Errorf("tick count = %d, want 4", m.engine.State.TickCount)
	}
}

func TestHandleMeta_Input(t *testing.T) {
	m := newTestModel(t)

	output, _ := m.handleMeta("/input 2 D x")
	if len(output) == 0 || !strings.Contains(output[0], "P2 holds") {
		t.Errorf("expected held-keys confirmation, got %v", output)
	}
	if len(m.p2Keys) != 2 {
		t.Errorf("p2Keys = %v", m.p2Keys)
	}
}

func TestHandleMeta_Eval(t *testing.T) {
	m := newTestModel(t)

	output, _ := m.handleMeta("/eval 1 Life")
	if len(output) == 0 || !strings.Contains(output[0], "1000") {
		t.Errorf("expected Life value in eval output, got %v", output)
	}

	output, _ = m.handleMeta("/eval 1 Life &&")
	if len(output) == 0 || !strings.Contains(output[0], "Eval failed") {
		t.Errorf("expected eval failure, got %v", output)
	}
}

func TestHandleMeta_Save(t *testing.T) {
	m := newTestModel(t)
	m.saveDir = t.TempDir()

	output, quit := m.handleMeta("/save test")
	if quit {
		t.Error("save should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Snapshot saved") {
		t.Errorf("expected save confirmation, got %v", output)
	}
}

func TestHandleMeta_LoadNonexistent(t *testing.T) {
	m := newTestModel(t)
	m.saveDir = t.TempDir()

	output, quit := m.handleMeta("/load nonexistent")
	if quit {
		t.Error("load should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Load failed") {
		t.Errorf("expected load failure, got %v", output)
	}
}

func TestHandleMeta_Help(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/help")
	if quit {
		t.Error("help should not quit")
	}

	joined := strings.Join(output, "\n")
	for _, expected := range []string{"/tick", "/input", "/eval", "/save", "/load", "/quit"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("expected %q in help output", expected)
		}
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	m := newTestModel(t)

	output, _ := m.handleMeta("/trace")
	if !m.trace {
		t.Error("expected trace to be enabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "enabled") {
		t.Errorf("expected enabled message, got %v", output)
	}

	output, _ = m.handleMeta("/trace")
	if m.trace {
		t.Error("expected trace to be disabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "disabled") {
		t.Errorf("expected disabled message, got %v", output)
	}
}

func TestHandleMeta_Unknown(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/bogus")
	if quit {
		t.Error("unknown command should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Unknown command") {
		t.Errorf("expected unknown command message, got %v", output)
	}
}

func TestHandleMeta_State(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/state")
	if quit {
		t.Error("state should not quit")
	}

	joined := strings.Join(output, "\n")
	if !strings.Contains(joined, "Round 1") {
		t.Error("expected round number in state output")
	}
	if !strings.Contains(joined, "P1 ryu") {
		t.Error("expected P1 vitals in state output")
	}
}

func TestHandleMeta_BGWithoutStage(t *testing.T) {
	m := newTestModel(t)

	output, _ := m.handleMeta("/bg")
	if len(output) == 0 || !strings.Contains(output[0], "No stage backgrounds") {
		t.Errorf("expected missing-stage message, got %v", output)
	}
}
