// Package tui provides a Bubble Tea terminal UI for driving a match:
// an input line for held keys and meta-commands, a scrolling combat
// log, and a status bar with life and power gauges.
package tui

// History remembers recent input lines in a fixed-size ring, navigated
// with the Up/Down keys. Entries are never shifted; the ring overwrites
// the oldest line once full.
type History struct {
	buf    []string
	head   int // index of the next write
	count  int // live entries, at most len(buf)
	cursor int // 0 = fresh input, 1..count = steps back from newest
}

// NewHistory creates a history ring holding up to max lines.
func NewHistory(max int) *History {
	return &History{buf: make([]string, max)}
}

// Push records an input line. Consecutive duplicates collapse, so
// holding the same keys over many ticks leaves a single entry.
func (h *History) Push(line string) {
	if h.count > 0 && h.at(1) == line {
		return
	}
	h.buf[h.head] = line
	h.head = (h.head + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
}

// at returns the entry n steps back from the newest, n in 1..count.
func (h *History) at(n int) string {
	return h.buf[(h.head-n+len(h.buf))%len(h.buf)]
}

// Prev steps the cursor toward older entries and returns the line
// there. Returns ("", false) if history is empty; at the oldest entry
// the cursor stays put.
func (h *History) Prev() (string, bool) {
	if h.count == 0 {
		return "", false
	}
	if h.cursor < h.count {
		h.cursor++
	}
	return h.at(h.cursor), true
}

// Next steps the cursor back toward newer entries. Returns ("", false)
// when stepping past the newest line, leaving the cursor on fresh
// input.
func (h *History) Next() (string, bool) {
	if h.cursor <= 1 {
		h.cursor = 0
		return "", false
	}
	h.cursor--
	return h.at(h.cursor), true
}

// ResetCursor returns the cursor to the fresh-input position.
func (h *History) ResetCursor() {
	h.cursor = 0
}
