// Package bg owns a stage's background layers: a plain ownership
// container over per-layer scroll and animation state. It evaluates no
// expressions; the engine ticks it alongside combat and front ends read
// its draw output.
package bg

import (
	"fmt"
	"sort"

	"github.com/nathoo/strikecore/types"
)

// SpriteProvider resolves sprite resource keys to drawable glyphs.
// Implementations must be cheap to clone; every background keeps its
// own private copy.
type SpriteProvider interface {
	Sprite(key string) (string, bool)
	Clone() SpriteProvider
}

// AnimProvider resolves animation resource keys and advances per-clone
// playback state.
type AnimProvider interface {
	// Frame returns the current frame glyph for the key.
	Frame(key string) (string, bool)
	// Advance moves the clone's playback forward one tick.
	Advance()
	Clone() AnimProvider
}

// Background is one layer instance with live scroll state.
type Background struct {
	def     types.BGLayerDef
	sprites SpriteProvider
	anims   AnimProvider
	offX    float64
	offY    float64
	visible bool
	paused  bool
}

// Visible reports whether the background draws.
func (b *Background) Visible() bool { return b.visible }

// Paused reports whether the background ignores Update ticks.
func (b *Background) Paused() bool { return b.paused }

func (b *Background) SetVisible(v bool) { b.visible = v }
func (b *Background) SetPaused(v bool)  { b.paused = v }

// Offset returns the accumulated scroll offset.
func (b *Background) Offset() (x, y float64) { return b.offX, b.offY }

// glyph resolves the background's current drawable: animation frame
// when animated, sprite otherwise.
func (b *Background) glyph() string {
	if b.def.Anim != "" {
		if f, ok := b.anims.Frame(b.def.Anim); ok {
			return f
		}
		return "?"
	}
	if s, ok := b.sprites.Sprite(b.def.Sprite); ok {
		return s
	}
	return "?"
}

// Collection owns a stage's backgrounds.
type Collection struct {
	backgrounds []*Background
}

// New builds a collection from a stage definition. Each background
// clones its own provider copies so no mutable playback state is
// shared across members.
func New(stage types.StageDef, sprites SpriteProvider, anims AnimProvider) *Collection {
	c := &Collection{}
	for _, def := range stage.Layers {
		c.backgrounds = append(c.backgrounds, &Background{
			def:     def,
			sprites: sprites.Clone(),
			anims:   anims.Clone(),
			visible: def.Visible,
			paused:  def.Paused,
		})
	}
	return c
}

// Len returns the number of owned backgrounds.
func (c *Collection) Len() int { return len(c.backgrounds) }

// ByID returns the background with the given definition ID.
func (c *Collection) ByID(id string) (*Background, bool) {
	for _, b := range c.backgrounds {
		if b.def.ID == id {
			return b, true
		}
	}
	return nil, false
}

// Reset restores every background's initial scroll, animation, and
// flag state.
func (c *Collection) Reset() {
	for _, b := range c.backgrounds {
		b.offX, b.offY = 0, 0
		b.visible = b.def.Visible
		b.paused = b.def.Paused
		b.anims = b.anims.Clone()
	}
}

// Update ticks every unpaused background: scroll advances by the
// layer's per-tick deltas and animations move one frame.
func (c *Collection) Update() {
	for _, b := range c.backgrounds {
		if b.paused {
			continue
		}
		b.offX += b.def.ScrollX
		b.offY += b.def.ScrollY
		b.anims.Advance()
	}
}

// DrawOp is one background's draw output for a tick.
type DrawOp struct {
	ID    string
	Glyph string
	OffX  float64
	OffY  float64
}

// Draw returns draw ops for the visible backgrounds on the given
// layer, back to front in definition order.
func (c *Collection) Draw(layer int) []DrawOp {
	var ops []DrawOp
	for _, b := range c.backgrounds {
		if b.def.Layer != layer || !b.visible {
			continue
		}
		ops = append(ops, DrawOp{
			ID:    b.def.ID,
			Glyph: b.glyph(),
			OffX:  b.offX,
			OffY:  b.offY,
		})
	}
	return ops
}

// Layers returns the distinct layer numbers present, ascending.
func (c *Collection) Layers() []int {
	seen := map[int]bool{}
	var layers []int
	for _, b := range c.backgrounds {
		if !seen[b.def.Layer] {
			seen[b.def.Layer] = true
			layers = append(layers, b.def.Layer)
		}
	}
	sort.Ints(layers)
	return layers
}

// String summarizes the collection for debug output.
func (c *Collection) String() string {
	return fmt.Sprintf("bg.Collection(%d backgrounds)", len(c.backgrounds))
}
