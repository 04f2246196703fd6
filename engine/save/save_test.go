package save

import (
	"encoding/json"
	"testing"

	"github.com/nathoo/strikecore/engine/state"
	"github.com/nathoo/strikecore/types"
)

func testDefs() *state.Defs {
	def := func(id string) types.CharDef {
		return types.CharDef{
			ID:    id,
			Name:  id,
			Life:  1000,
			Power: 3000,
			States: map[int32]types.StateDef{
				0:  {No: 0, Type: "S", Ctrl: true},
				20: {No: 20, Type: "S", Ctrl: true},
			},
		}
	}
	return &state.Defs{
		Match: types.MatchDef{
			Title:   "Test Match",
			Version: "1.0",
			P1:      "ryu",
			P2:      "ken",
			Rounds:  2,
		},
		Chars: map[string]types.CharDef{"ryu": def("ryu"), "ken": def("ken")},
	}
}

func TestRoundTrip(t *testing.T) {
	defs := testDefs()
	s, err := state.NewState(defs)
	if err != nil {
		t.Fatal(err)
	}

	s.Round = 2
	s.RoundTime = 140
	s.TickCount = 1500
	s.RNGSeed = 42
	s.P1.AddLife(-300)
	s.P1.AddPower(650)
	s.P1.ChangeState(20)
	s.P1.SetVar(4, 11)
	s.P2.AddWin()

	data, err := Save(s, defs, 987)
	if err != nil {
		t.Fatal(err)
	}

	sd, err := Load(data)
	if err != nil {
		t.Fatal(err)
	}
	if sd.Version != "1.0" || sd.Match != "Test Match" {
		t.Errorf("header = %q %q", sd.Version, sd.Match)
	}
	if sd.RNGSeed != 42 || sd.RNGPosition != 987 {
		t.Errorf("rng = %d @ %d", sd.RNGSeed, sd.RNGPosition)
	}

	fresh, err := state.NewState(defs)
	if err != nil {
		t.Fatal(err)
	}
	if err := Apply(fresh, sd); err != nil {
		t.Fatal(err)
	}

	if fresh.Round != 2 || fresh.RoundTime != 140 || fresh.TickCount != 1500 {
		t.Errorf("clock = round %d time %d tick %d", fresh.Round, fresh.RoundTime, fresh.TickCount)
	}
	if fresh.P1.Life() != 700 || fresh.P1.Power() != 650 {
		t.Errorf("P1 vitals = %d/%d", fresh.P1.Life(), fresh.P1.Power())
	}
	if fresh.P1.StateNo() != 20 {
		t.Errorf("P1 state = %d", fresh.P1.StateNo())
	}
	if fresh.P1.Var(4) != 11 {
		t.Errorf("P1 var 4 = %d", fresh.P1.Var(4))
	}
	if fresh.P2.Wins() != 1 {
		t.Errorf("P2 wins = %d", fresh.P2.Wins())
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	if _, err := Load([]byte("not json")); err == nil {
		t.Error("garbage accepted")
	}
}

func TestApplyRejectsWrongMatch(t *testing.T) {
	defs := testDefs()
	s, err := state.NewState(defs)
	if err != nil {
		t.Fatal(err)
	}

	data, err := Save(s, defs, 0)
	if err != nil {
		t.Fatal(err)
	}
	sd, err := Load(data)
	if err != nil {
		t.Fatal(err)
	}
	sd.P1.ID = "akuma"

	if err := Apply(s, sd); err == nil {
		t.Error("snapshot for a different char applied")
	}
}

func TestSaveIsStableJSON(t *testing.T) {
	defs := testDefs()
	s, err := state.NewState(defs)
	if err != nil {
		t.Fatal(err)
	}

	data, err := Save(s, defs, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Fatal("save output is not valid JSON")
	}

	again, err := Save(s, defs, 5)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(again) {
		t.Error("saving twice produced different bytes")
	}
}
