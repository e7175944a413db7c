// Package cmdline implements the command-line widget's own text model: a
// single-line input rope the user types ex-commands and searches into,
// and a bounded history of past messages shown on the message surface
// (fixed capacity, oldest dropped).
package cmdline

import (
	"sync"

	"github.com/vimjs/vimjs/internal/ring"
	"github.com/vimjs/vimjs/internal/rope"
)

// DefaultHistoryCapacity is the message history size absent an explicit
// override.
const DefaultHistoryCapacity = 500

// TextContent is the command-line's text model: an input line being
// edited, and a message surface showing the latest status/error message
// plus bounded history of prior ones.
//
// The input line is normally touched only from the event loop's
// goroutine, but PushMessage/LastMessage/History are also called from
// the script engine's goroutine when a binding such as cmd.echo posts a
// message directly, so TextContent carries its own mutex rather than
// relying on a caller to serialize access.
type TextContent struct {
	mu      sync.Mutex
	input   *rope.Rope
	cursor  int
	history *ring.Buffer[string]
}

// New creates an empty TextContent with the given message history
// capacity (use DefaultHistoryCapacity absent another preference).
func New(historyCapacity int) *TextContent {
	return &TextContent{
		input:   rope.New(),
		history: ring.New[string](historyCapacity),
	}
}

// Text returns the current input line.
func (t *TextContent) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.input.Line(0)
}

// Cursor returns the character offset within the input line.
func (t *TextContent) Cursor() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursor
}

// SetCursor moves the cursor, clamping to the input line's bounds.
func (t *TextContent) SetCursor(char int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len([]rune(t.input.Line(0)))
	switch {
	case char < 0:
		char = 0
	case char > n:
		char = n
	}
	t.cursor = char
}

// Insert inserts text at char within the input line.
func (t *TextContent) Insert(char int, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input.Insert(0, char, text)
}

// Delete removes n characters starting at char within the input line.
func (t *TextContent) Delete(char, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input.Delete(0, char, n)
}

// Clear empties the input line and resets the cursor, used after
// confirming or cancelling a command line.
func (t *TextContent) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input = rope.New()
	t.cursor = 0
}

// PushMessage appends a message to the bounded history, evicting the
// oldest entry on overflow. Safe to call from any goroutine;
// this is the entry point cmd.echo-style script bindings use.
func (t *TextContent) PushMessage(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history.Push(msg)
}

// LastMessage returns the most recently pushed message, and false if none
// has been posted yet.
func (t *TextContent) LastMessage() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history.Last()
}

// History returns every retained message, oldest first.
func (t *TextContent) History() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history.Items()
}
