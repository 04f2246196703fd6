// Package save implements JSON serialization and deserialization of
// match state: training-mode save states.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/strikecore/engine/state"
)

// SaveData is the JSON-serializable snapshot format.
type SaveData struct {
	Version     string             `json:"version"`
	Match       string             `json:"match"`
	Round       int                `json:"round"`
	RoundTime   int32              `json:"round_time"`
	Tick        int64              `json:"tick"`
	P1          state.CharSnapshot `json:"p1"`
	P2          state.CharSnapshot `json:"p2"`
	RNGSeed     int64              `json:"rng_seed"`
	RNGPosition int64              `json:"rng_position"`
}

// Save serializes match state to JSON bytes. rngPosition is the RNG's
// draw count at snapshot time.
func Save(s *state.State, defs *state.Defs, rngPosition int64) ([]byte, error) {
	data := SaveData{
		Version:     defs.Match.Version,
		Match:       defs.Match.Title,
		Round:       s.Round,
		RoundTime:   s.RoundTime,
		Tick:        s.TickCount,
		P1:          s.P1.Snapshot(),
		P2:          s.P2.Snapshot(),
		RNGSeed:     s.RNGSeed,
		RNGPosition: rngPosition,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if sd.Round < 1 {
		sd.Round = 1
	}
	return &sd, nil
}

// Apply applies loaded save data onto a state. The snapshot must come
// from the same match definitions it is restored into.
func Apply(s *state.State, sd *SaveData) error {
	if sd.P1.ID != s.P1.Def().ID || sd.P2.ID != s.P2.Def().ID {
		return fmt.Errorf("snapshot is for %s vs %s, match runs %s vs %s",
			sd.P1.ID, sd.P2.ID, s.P1.Def().ID, s.P2.Def().ID)
	}

	s.Round = sd.Round
	s.RoundTime = sd.RoundTime
	s.TickCount = sd.Tick
	s.RNGSeed = sd.RNGSeed
	s.Over = false
	s.Winner = 0
	s.P1.RestoreSnapshot(sd.P1)
	s.P2.RestoreSnapshot(sd.P2)
	return nil
}
