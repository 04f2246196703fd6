package trigger

// Entity is the opaque runtime-state handle a trigger is evaluated
// against. Functions inspect it through the small capability interfaces
// below; an entity variant that lacks a capability simply makes the
// probing functions evaluate to the empty Number. Adding a new variant
// means implementing the capabilities it supports, not editing the
// functions.
type Entity interface{}

// Named is an entity with an assigned display name (a primary combatant
// with a character name, or an auxiliary entity with an identifier
// tag). The bool is false when no name is assigned.
type Named interface {
	DisplayName() (string, bool)
}

// Authored is an entity whose definition carries an author name.
type Authored interface {
	AuthorName() (string, bool)
}

// Vitals is an entity with life and power meters.
type Vitals interface {
	Life() int32
	MaxLife() int32
	Power() int32
	Alive() bool
}

// Stated is an entity running the state machine.
type Stated interface {
	StateNo() int32
	StateType() string
}

// Clocked is an entity that counts ticks spent in its current state.
type Clocked interface {
	StateTime() int32
}

// Randomized is an entity carrying the per-tick random value rolled by
// the engine. Reading a stored value keeps evaluation deterministic for
// a given state snapshot.
type Randomized interface {
	RandomValue() int32
}

// Commanded is an entity with motion-input command recognition.
type Commanded interface {
	CommandActive(name string) bool
}

// Opposed is an entity with a current opponent.
type Opposed interface {
	Opponent() (Entity, bool)
}
