package ctrl

import (
	"testing"

	"github.com/nathoo/strikecore/engine/state"
	"github.com/nathoo/strikecore/engine/trigger"
	"github.com/nathoo/strikecore/types"
)

func compile(t *testing.T, reg *trigger.Registry, src string) *trigger.Node {
	t.Helper()
	node, err := reg.Compile(src)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return node
}

func charWithControllers(t *testing.T, reg *trigger.Registry, ctrls []types.ControllerDef) *state.Char {
	t.Helper()
	def := types.CharDef{
		ID:    "ryu",
		Name:  "Ryu",
		Life:  1000,
		Power: 3000,
		States: map[int32]types.StateDef{
			0: {No: 0, Type: "S", Ctrl: true, Controllers: ctrls},
		},
	}
	return state.NewChar(&def, 1)
}

func TestPassesGroups(t *testing.T) {
	reg := trigger.Builtins()

	tests := []struct {
		name string
		ctrl types.ControllerDef
		want bool
	}{
		{
			name: "single passing group",
			ctrl: types.ControllerDef{
				Triggers: [][]*trigger.Node{{compile(t, reg, `Alive`)}},
			},
			want: true,
		},
		{
			name: "and within group",
			ctrl: types.ControllerDef{
				Triggers: [][]*trigger.Node{{
					compile(t, reg, `Alive`),
					compile(t, reg, `Power > 9999`),
				}},
			},
			want: false,
		},
		{
			name: "or across groups",
			ctrl: types.ControllerDef{
				Triggers: [][]*trigger.Node{
					{compile(t, reg, `Power > 9999`)},
					{compile(t, reg, `Alive`)},
				},
			},
			want: true,
		},
		{
			name: "triggerall conjoined to every group",
			ctrl: types.ControllerDef{
				TriggerAll: []*trigger.Node{compile(t, reg, `Power > 9999`)},
				Triggers:   [][]*trigger.Node{{compile(t, reg, `Alive`)}},
			},
			want: false,
		},
		{
			name: "triggerall alone with no groups",
			ctrl: types.ControllerDef{
				TriggerAll: []*trigger.Node{compile(t, reg, `Alive`)},
			},
			want: true,
		},
		{
			name: "no triggers at all",
			ctrl: types.ControllerDef{},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := charWithControllers(t, reg, nil)
			if got := Passes(reg, &tt.ctrl, c); got != tt.want {
				t.Errorf("Passes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateCollectsAllInSourceOrder(t *testing.T) {
	reg := trigger.Builtins()

	ctrls := []types.ControllerDef{
		{Name: "second", Type: "null", SourceOrder: 2,
			Triggers: [][]*trigger.Node{{compile(t, reg, `Alive`)}}},
		{Name: "never", Type: "null", SourceOrder: 1,
			Triggers: [][]*trigger.Node{{compile(t, reg, `Power > 9999`)}}},
		{Name: "first", Type: "null", SourceOrder: 0,
			Triggers: [][]*trigger.Node{{compile(t, reg, `StateNo = 0`)}}},
	}
	c := charWithControllers(t, reg, ctrls)

	fired := Evaluate(reg, c)
	if len(fired) != 2 {
		t.Fatalf("fired %d controllers, want 2", len(fired))
	}
	if fired[0].Ctrl.Name != "first" || fired[1].Ctrl.Name != "second" {
		t.Errorf("order = %q, %q", fired[0].Ctrl.Name, fired[1].Ctrl.Name)
	}
	if fired[0].Char != c {
		t.Error("fired entry does not carry its char")
	}
}

func TestEvaluateUnknownState(t *testing.T) {
	reg := trigger.Builtins()
	c := charWithControllers(t, reg, nil)

	// Force the char off the state map through the public API: no state
	// 9999 exists, so ChangeState refuses and the char stays valid.
	if c.ChangeState(9999) {
		t.Fatal("ChangeState to undefined state accepted")
	}
	if got := Evaluate(reg, c); len(got) != 0 {
		t.Errorf("state with no controllers fired %d", len(got))
	}
}

func TestGroupWithEmptyProbeVetoes(t *testing.T) {
	reg := trigger.Builtins()

	// Command probes against a char with no commands are false, and a
	// Name probe on a nameless def is empty; both veto their group.
	def := types.CharDef{
		ID:   "blank",
		Life: 1000,
		States: map[int32]types.StateDef{
			0: {No: 0, Type: "S", Ctrl: true},
		},
	}
	c := state.NewChar(&def, 1)

	ctrl := types.ControllerDef{
		Triggers: [][]*trigger.Node{{
			compile(t, reg, `Alive`),
			compile(t, reg, `Name = "Ryu"`),
		}},
	}
	if Passes(reg, &ctrl, c) {
		t.Error("group with empty probe passed")
	}
}
