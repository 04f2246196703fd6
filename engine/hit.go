package engine

import (
	"fmt"

	"github.com/nathoo/strikecore/engine/state"
	"github.com/nathoo/strikecore/types"
)

// DamageCalc computes damage: max(1, roll(1d6) + attack - defence/4),
// halved when the defender guards. Returns (damage, dieRoll).
func DamageCalc(attack, defence int32, guarded bool, rng *RNG) (damage, roll int32) {
	roll = int32(rng.Roll(6))
	damage = roll + attack - defence/4
	if guarded {
		damage /= 2
	}
	if damage < 1 {
		damage = 1
	}
	return damage, roll
}

// applyHit resolves a "hit" controller: the attacker lands on its
// opponent. A defender that still has control blocks part of the hit.
func (e *Engine) applyHit(attacker *state.Char, params map[string]any) ([]types.Event, []string) {
	defender := e.State.CharBySide(3 - attacker.Side())

	attack := attacker.Def().Attack + toInt32(params["damage"])
	guarded := defender.Ctrl()

	damage, roll := DamageCalc(attack, defender.Def().Defence, guarded, e.RNG)
	defender.AddLife(-damage)

	events := []types.Event{{
		Type: "hit",
		Data: map[string]any{
			"char":    defender.Def().ID,
			"by":      attacker.Def().ID,
			"damage":  damage,
			"guarded": guarded,
		},
	}}

	output := []string{fmt.Sprintf("%s hits %s for %d (roll %d, guarded %v)",
		attacker.Def().ID, defender.Def().ID, damage, roll, guarded)}

	if powerGain := toInt32(params["getpower"]); powerGain != 0 {
		attacker.AddPower(powerGain)
	} else {
		attacker.AddPower(damage)
	}
	defender.AddPower(damage / 2)

	return events, output
}

func toInt32(v any) int32 {
	switch n := v.(type) {
	case int:
		return int32(n)
	case int32:
		return n
	case int64:
		return int32(n)
	case float64:
		return int32(n)
	default:
		return 0
	}
}
