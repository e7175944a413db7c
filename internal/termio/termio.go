// Package termio is the boundary between the editor core and the
// terminal: the core hands a writer an ordered sequence of cell-change
// and cursor-descriptor updates per flush; the writer owns terminal
// initialisation (raw mode, alternate screen, cursor reset) and shutdown,
// and is the sole source of input events the event loop consumes.
//
// Three variants share this interface: TcellWriter drives a real terminal
// via tcell, HeadlessWriter records flushes and replays synthetic input
// without touching a terminal (tests, scripted sessions), and NullWriter
// discards every flush.
package termio

import (
	"github.com/vimjs/vimjs/internal/cellgrid"
	"github.com/vimjs/vimjs/internal/keyevent"
)

// EventKind distinguishes the three things PollEvent can report.
type EventKind int

const (
	EventKeyPress EventKind = iota
	EventResize
	EventEOF
)

// Event is one input event a TerminalWriter reports to the event loop.
type Event struct {
	Kind          EventKind
	Key           keyevent.Event
	Width, Height int
}

// TerminalWriter is the sole boundary between the editor core and the
// terminal. Implementations must be safe for one writer goroutine calling
// Flush/Beep and one reader goroutine calling PollEvent concurrently; the
// event loop owns exactly this split.
type TerminalWriter interface {
	// Init prepares the terminal for use: enters raw mode, switches to the
	// alternate screen, hides the cursor. Must be called before Flush or
	// PollEvent.
	Init() error

	// Shutdown restores the terminal to its pre-Init state. Safe to call
	// once Init has returned successfully; a no-op on variants with no
	// real terminal to restore.
	Shutdown()

	// Size returns the writer's current dimensions in cells.
	Size() (width, height int)

	// Flush applies an ordered sequence of cell/cursor changes, as
	// produced by cellgrid.Canvas.Flush.
	Flush(changes []cellgrid.Change) error

	// PollEvent blocks until the next input event (key press, resize, or
	// EOF) is available.
	PollEvent() Event

	// PostEvent injects a synthetic event, used by scripted input and
	// tests.
	PostEvent(Event)

	// Beep produces the terminal bell, or nothing on variants with no
	// terminal.
	Beep()
}
