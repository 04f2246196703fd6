// Package command compiles motion-input command notation ("~D, DF, F, x")
// into step sequences and matches them against a rolling input buffer.
// Intentionally simple: edge detection per tick, no charge partitioning.
package command

import (
	"fmt"
	"strings"

	"github.com/nathoo/strikecore/types"
)

// Direction keys are uppercase, button keys lowercase, by convention.
var validKeys = map[string]bool{
	"U": true, "D": true, "B": true, "F": true,
	"UB": true, "UF": true, "DB": true, "DF": true,
	"a": true, "b": true, "c": true,
	"x": true, "y": true, "z": true,
	"s": true,
}

// normalizeKey maps a raw notation key to its canonical spelling, or ""
// if unknown.
func normalizeKey(raw string) string {
	k := strings.TrimSpace(raw)
	if len(k) <= 2 && validKeys[strings.ToUpper(k)] {
		return strings.ToUpper(k)
	}
	if validKeys[strings.ToLower(k)] {
		return strings.ToLower(k)
	}
	return ""
}

// ParseNotation compiles command notation into steps. Steps are comma
// separated; "~" prefixes a release, "/" a key that may be held from
// earlier, and "+" joins simultaneous keys.
func ParseNotation(input string) ([]types.CommandStep, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("empty command notation")
	}

	var steps []types.CommandStep
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty step in notation %q", input)
		}

		var step types.CommandStep
		switch part[0] {
		case '~':
			step.Release = true
			part = part[1:]
		case '/':
			step.Held = true
			part = part[1:]
		}

		for _, raw := range strings.Split(part, "+") {
			key := normalizeKey(raw)
			if key == "" {
				return nil, fmt.Errorf("unknown key %q in notation %q", strings.TrimSpace(raw), input)
			}
			step.Keys = append(step.Keys, key)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// Buffer records which keys were down on each of the last size ticks.
type Buffer struct {
	frames [][]string // oldest first
	size   int
}

// NewBuffer creates a buffer remembering the given number of ticks.
func NewBuffer(size int) *Buffer {
	if size < 1 {
		size = 1
	}
	return &Buffer{size: size}
}

// Push records the keys held down this tick.
func (b *Buffer) Push(keys []string) {
	frame := make([]string, len(keys))
	copy(frame, keys)
	b.frames = append(b.frames, frame)
	if len(b.frames) > b.size {
		b.frames = b.frames[1:]
	}
}

// Len returns the number of recorded ticks.
func (b *Buffer) Len() int {
	return len(b.frames)
}

// Reset clears the buffer.
func (b *Buffer) Reset() {
	b.frames = nil
}

func (b *Buffer) heldAt(tick int, key string) bool {
	if tick < 0 || tick >= len(b.frames) {
		return false
	}
	for _, k := range b.frames[tick] {
		if k == key {
			return true
		}
	}
	return false
}

// stepAt reports whether a step is satisfied at a given tick: presses
// need a down edge, releases an up edge, held steps just need the key
// down.
func (b *Buffer) stepAt(step types.CommandStep, tick int) bool {
	for _, key := range step.Keys {
		switch {
		case step.Release:
			if b.heldAt(tick, key) || !b.heldAt(tick-1, key) {
				return false
			}
		case step.Held:
			if !b.heldAt(tick, key) {
				return false
			}
		default:
			if !b.heldAt(tick, key) || b.heldAt(tick-1, key) {
				return false
			}
		}
	}
	return true
}

// Match reports whether the step sequence completed within the last
// window ticks, in order, finishing on the newest tick's history. The
// final step must land on the newest tick so a match fires exactly once
// per input.
func (b *Buffer) Match(steps []types.CommandStep, window int) bool {
	if len(steps) == 0 || len(b.frames) == 0 {
		return false
	}

	last := len(b.frames) - 1
	if !b.stepAt(steps[len(steps)-1], last) {
		return false
	}

	start := last - window + 1
	if start < 0 {
		start = 0
	}

	// Greedy earliest match for the leading steps inside the window. A
	// release and the step that follows it may share a tick: rolling
	// the stick from D to DF releases D on the tick DF goes down.
	tick := start
	for _, step := range steps[:len(steps)-1] {
		found := false
		for t := tick; t <= last; t++ {
			if b.stepAt(step, t) {
				found = true
				if step.Release {
					tick = t
				} else {
					tick = t + 1
				}
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Recognizer tracks one character's compiled commands, input buffer,
// and the set of currently active (recently completed) commands.
type Recognizer struct {
	defs   []types.CommandDef
	buf    *Buffer
	active map[string]int // command name → remaining active ticks
}

// Default command timing, in ticks.
const (
	DefaultTime       = 15
	DefaultBufferTime = 1
	bufferCapacity    = 120
)

// NewRecognizer creates a recognizer over compiled command definitions.
func NewRecognizer(defs []types.CommandDef) *Recognizer {
	return &Recognizer{
		defs:   defs,
		buf:    NewBuffer(bufferCapacity),
		active: map[string]int{},
	}
}

// Update records this tick's held keys and refreshes the active set.
func (r *Recognizer) Update(keys []string) {
	r.buf.Push(keys)

	for name, left := range r.active {
		if left <= 1 {
			delete(r.active, name)
		} else {
			r.active[name] = left - 1
		}
	}

	for _, def := range r.defs {
		window := def.Time
		if window <= 0 {
			window = DefaultTime
		}
		if r.buf.Match(def.Steps, window) {
			buffer := def.BufferTime
			if buffer <= 0 {
				buffer = DefaultBufferTime
			}
			r.active[def.Name] = buffer
		}
	}
}

// Active reports whether a command completed recently enough to still
// count this tick.
func (r *Recognizer) Active(name string) bool {
	return r.active[name] > 0
}

// Reset clears the buffer and active set (round start).
func (r *Recognizer) Reset() {
	r.buf.Reset()
	r.active = map[string]int{}
}
