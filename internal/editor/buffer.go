// Package editor models the state of the browser editor widget: its text,
// syntax mode, revealed line and line decorations.
package editor

import (
	"strings"
	"sync"
	"time"
)

// DefaultFormatDelay matches the widget's own delay before formatting a
// freshly loaded document.
const DefaultFormatDelay = 200 * time.Millisecond

// Buffer is safe for concurrent use.
type Buffer struct {
	mu          sync.Mutex
	text        string
	mode        string
	revealed    int
	decorations []int
}

func NewBuffer(text, mode string) *Buffer {
	return &Buffer{text: text, mode: mode}
}

func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
}

func (b *Buffer) Mode() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

func (b *Buffer) SetMode(mode string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mode = mode
}

// ClearHighlights drops every line decoration.
func (b *Buffer) ClearHighlights() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.decorations = nil
}

// RevealLine scrolls line into the centre of the view.
func (b *Buffer) RevealLine(line int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revealed = line
}

// HighlightLine decorates a whole line. It replaces any earlier decoration.
func (b *Buffer) HighlightLine(line int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.decorations = []int{line}
}

// Highlights returns the decorated lines.
func (b *Buffer) Highlights() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]int, len(b.decorations))
	copy(out, b.decorations)
	return out
}

// RevealedLine returns the last revealed line, or 0.
func (b *Buffer) RevealedLine() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revealed
}

// Format tidies the document: leading tabs become four spaces and trailing
// whitespace is stripped from every line.
func (b *Buffer) Format() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = format(b.text)
}

// ScheduleFormat runs Format after delay without waiting for it.
func (b *Buffer) ScheduleFormat(delay time.Duration) {
	time.AfterFunc(delay, b.Format)
}

func format(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		trimmed := strings.TrimLeft(line, "\t")
		if tabs := len(line) - len(trimmed); tabs > 0 {
			line = strings.Repeat("    ", tabs) + trimmed
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
