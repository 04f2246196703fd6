// Package state manages the mutable match state: primary combatants,
// their auxiliary entities, and round bookkeeping over the immutable
// definitions. The accessor methods on Char, Helper, and Explod are the
// trigger capability surface: a variant implements exactly the
// capabilities it supports.
package state

import (
	"fmt"

	"github.com/nathoo/strikecore/engine/command"
	"github.com/nathoo/strikecore/engine/trigger"
	"github.com/nathoo/strikecore/types"
)

// Defs holds the immutable definitions loaded from Lua.
type Defs struct {
	Match    types.MatchDef
	Chars    map[string]types.CharDef
	Stages   map[string]types.StageDef
	Handlers []types.HandlerDef
}

// Char is a primary combatant. Fields are unexported and reached
// through methods so the capability interfaces line up naturally.
type Char struct {
	def       *types.CharDef
	side      int // 1 or 2
	life      int32
	power     int32
	stateNo   int32
	stateType string
	stateTime int32
	ctrl      bool
	posX      float64
	posY      float64
	velX      float64
	velY      float64
	facing    int32 // 1 faces right, -1 faces left
	vars      map[int]int32
	random    int32
	rec       *command.Recognizer
	opp       *Char
	helpers   []*Helper
	explods   []*Explod
	wins      int
}

// NewChar creates a character at round-start defaults.
func NewChar(def *types.CharDef, side int) *Char {
	c := &Char{
		def:    def,
		side:   side,
		life:   def.Life,
		facing: 1,
		vars:   map[int]int32{},
		rec:    command.NewRecognizer(def.Commands),
	}
	if side == 2 {
		c.facing = -1
	}
	c.enterState(0)
	return c
}

// Trigger capabilities
// --------------------

// DisplayName returns the character's display name.
func (c *Char) DisplayName() (string, bool) { return c.def.Name, c.def.Name != "" }

// AuthorName returns the definition's author.
func (c *Char) AuthorName() (string, bool) { return c.def.Author, c.def.Author != "" }

func (c *Char) Life() int32    { return c.life }
func (c *Char) MaxLife() int32 { return c.def.Life }
func (c *Char) Power() int32   { return c.power }
func (c *Char) Alive() bool    { return c.life > 0 }

func (c *Char) StateNo() int32    { return c.stateNo }
func (c *Char) StateType() string { return c.stateType }
func (c *Char) StateTime() int32  { return c.stateTime }

// RandomValue returns the random value rolled for this char this tick.
func (c *Char) RandomValue() int32 { return c.random }

// CommandActive reports whether a motion command completed recently.
func (c *Char) CommandActive(name string) bool { return c.rec.Active(name) }

// Opponent returns the char this one is fighting.
func (c *Char) Opponent() (trigger.Entity, bool) {
	if c.opp == nil {
		return nil, false
	}
	return c.opp, true
}

// Accessors and mutators used by the engine
// -----------------------------------------

func (c *Char) Def() *types.CharDef { return c.def }
func (c *Char) Side() int           { return c.side }
func (c *Char) Ctrl() bool          { return c.ctrl }
func (c *Char) SetCtrl(v bool)      { c.ctrl = v }
func (c *Char) Facing() int32       { return c.facing }
func (c *Char) Turn()               { c.facing = -c.facing }
func (c *Char) Wins() int           { return c.wins }
func (c *Char) AddWin()             { c.wins++ }

func (c *Char) Pos() (x, y float64)  { return c.posX, c.posY }
func (c *Char) SetPos(x, y float64)  { c.posX, c.posY = x, y }
func (c *Char) Vel() (x, y float64)  { return c.velX, c.velY }
func (c *Char) SetVel(x, y float64)  { c.velX, c.velY = x, y }

// Var returns indexed variable storage. Unset variables are 0.
func (c *Char) Var(i int) int32      { return c.vars[i] }
func (c *Char) SetVar(i int, v int32) { c.vars[i] = v }

func (c *Char) SetOpponent(opp *Char) { c.opp = opp }

// AddLife adjusts life, clamped to [0, max].
func (c *Char) AddLife(delta int32) {
	c.life += delta
	if c.life < 0 {
		c.life = 0
	}
	if c.life > c.def.Life {
		c.life = c.def.Life
	}
}

// AddPower adjusts power, clamped to [0, max].
func (c *Char) AddPower(delta int32) {
	c.power += delta
	if c.power < 0 {
		c.power = 0
	}
	if c.power > c.def.Power {
		c.power = c.def.Power
	}
}

// ChangeState moves the char to the given state number. Unknown state
// numbers are rejected (validated at load time, defensively here).
func (c *Char) ChangeState(no int32) bool {
	if _, ok := c.def.States[no]; !ok {
		return false
	}
	c.enterState(no)
	return true
}

func (c *Char) enterState(no int32) {
	c.stateNo = no
	c.stateTime = 0
	if def, ok := c.def.States[no]; ok {
		c.stateType = def.Type
		c.ctrl = def.Ctrl
	} else {
		c.stateType = "S"
		c.ctrl = true
	}
}

// CurrentState returns the definition of the char's current state.
func (c *Char) CurrentState() (types.StateDef, bool) {
	def, ok := c.def.States[c.stateNo]
	return def, ok
}

// Tick advances per-state and auxiliary clocks by one tick.
func (c *Char) Tick() {
	c.stateTime++
	for _, h := range c.helpers {
		h.stateTime++
	}
	for _, e := range c.explods {
		e.time++
	}
}

// SetRandom stores this tick's rolled random value.
func (c *Char) SetRandom(v int32) {
	c.random = v
	for _, h := range c.helpers {
		h.random = v
	}
}

// UpdateInput feeds this tick's held keys into command recognition.
func (c *Char) UpdateInput(keys []string) {
	c.rec.Update(keys)
}

// Auxiliary entities
// ------------------

// SpawnHelper creates a named auxiliary entity owned by this char.
func (c *Char) SpawnHelper(tag string) *Helper {
	h := &Helper{tag: tag, owner: c}
	c.helpers = append(c.helpers, h)
	return h
}

// SpawnExplod creates a nameless visual auxiliary entity.
func (c *Char) SpawnExplod(anim string, layer int) *Explod {
	e := &Explod{anim: anim, layer: layer}
	c.explods = append(c.explods, e)
	return e
}

// RemoveExplods drops all explods owned by this char.
func (c *Char) RemoveExplods() {
	c.explods = nil
}

func (c *Char) Helpers() []*Helper { return c.helpers }
func (c *Char) Explods() []*Explod { return c.explods }

// ResetRound restores round-start state. Power and wins persist across
// rounds.
func (c *Char) ResetRound() {
	c.life = c.def.Life
	c.helpers = nil
	c.explods = nil
	c.vars = map[int]int32{}
	c.velX, c.velY = 0, 0
	c.rec.Reset()
	c.enterState(0)
}

// Helper is a named auxiliary entity (a spawned projectile or servant).
// Its only trigger capabilities are its identifier tag and clocks.
type Helper struct {
	tag       string
	owner     *Char
	stateTime int32
	random    int32
}

// DisplayName returns the helper's identifier tag.
func (h *Helper) DisplayName() (string, bool) { return h.tag, h.tag != "" }

func (h *Helper) StateTime() int32   { return h.stateTime }
func (h *Helper) RandomValue() int32 { return h.random }
func (h *Helper) Owner() *Char       { return h.owner }

// Explod is a nameless visual auxiliary entity. It implements no
// trigger capabilities: every probe against it is empty.
type Explod struct {
	anim  string
	layer int
	time  int32
}

func (e *Explod) Anim() string { return e.anim }
func (e *Explod) Layer() int   { return e.layer }
func (e *Explod) Time() int32  { return e.time }

// State is the complete mutable match state.
type State struct {
	P1        *Char
	P2        *Char
	Round     int
	RoundTime int32 // ticks elapsed this round
	TickCount int64
	RNGSeed   int64
	Over      bool
	Winner    int // 0 while the match runs, then 1 or 2
}

// NewState builds round-one state from definitions. The char and stage
// references are validated at load time; missing ones here are a
// wiring bug.
func NewState(defs *Defs) (*State, error) {
	d1, ok := defs.Chars[defs.Match.P1]
	if !ok {
		return nil, fmt.Errorf("match references undefined char %q", defs.Match.P1)
	}
	d2, ok := defs.Chars[defs.Match.P2]
	if !ok {
		return nil, fmt.Errorf("match references undefined char %q", defs.Match.P2)
	}

	p1 := NewChar(&d1, 1)
	p2 := NewChar(&d2, 2)
	p1.SetOpponent(p2)
	p2.SetOpponent(p1)

	return &State{P1: p1, P2: p2, Round: 1}, nil
}

// Chars returns both combatants in side order.
func (s *State) Chars() []*Char {
	return []*Char{s.P1, s.P2}
}

// CharBySide returns the combatant on the given side.
func (s *State) CharBySide(side int) *Char {
	if side == 2 {
		return s.P2
	}
	return s.P1
}

// NextRound resets both chars and advances the round counter.
func (s *State) NextRound() {
	s.P1.ResetRound()
	s.P2.ResetRound()
	s.RoundTime = 0
	s.Round++
}

// CharSnapshot is the serializable runtime state of one combatant.
type CharSnapshot struct {
	ID        string        `json:"id"`
	Life      int32         `json:"life"`
	Power     int32         `json:"power"`
	StateNo   int32         `json:"state_no"`
	StateTime int32         `json:"state_time"`
	Ctrl      bool          `json:"ctrl"`
	PosX      float64       `json:"pos_x"`
	PosY      float64       `json:"pos_y"`
	VelX      float64       `json:"vel_x"`
	VelY      float64       `json:"vel_y"`
	Facing    int32         `json:"facing"`
	Vars      map[int]int32 `json:"vars"`
	Wins      int           `json:"wins"`
}

// Snapshot captures the char's serializable runtime state.
func (c *Char) Snapshot() CharSnapshot {
	vars := make(map[int]int32, len(c.vars))
	for k, v := range c.vars {
		vars[k] = v
	}
	return CharSnapshot{
		ID:        c.def.ID,
		Life:      c.life,
		Power:     c.power,
		StateNo:   c.stateNo,
		StateTime: c.stateTime,
		Ctrl:      c.ctrl,
		PosX:      c.posX,
		PosY:      c.posY,
		VelX:      c.velX,
		VelY:      c.velY,
		Facing:    c.facing,
		Vars:      vars,
		Wins:      c.wins,
	}
}

// RestoreSnapshot applies a snapshot onto the char. Auxiliary entities
// and input history are not part of snapshots and reset.
func (c *Char) RestoreSnapshot(snap CharSnapshot) {
	c.life = snap.Life
	c.power = snap.Power
	c.stateNo = snap.StateNo
	c.stateTime = snap.StateTime
	c.ctrl = snap.Ctrl
	c.posX, c.posY = snap.PosX, snap.PosY
	c.velX, c.velY = snap.VelX, snap.VelY
	c.facing = snap.Facing
	c.vars = map[int]int32{}
	for k, v := range snap.Vars {
		c.vars[k] = v
	}
	c.wins = snap.Wins
	c.helpers = nil
	c.explods = nil
	c.rec.Reset()
	if def, ok := c.def.States[snap.StateNo]; ok {
		c.stateType = def.Type
	}
}
