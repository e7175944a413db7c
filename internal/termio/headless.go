package termio

import (
	"sync"

	"github.com/vimjs/vimjs/internal/cellgrid"
)

// HeadlessWriter records flushes into an in-memory grid and replays
// synthetic input posted via PostEvent, without ever touching a real
// terminal. Distinct from the strictly-discarding NullWriter: this one
// keeps what was flushed so scripted sessions and tests can read it back.
type HeadlessWriter struct {
	mu     sync.Mutex
	width  int
	height int
	cells  map[cellgrid.Pos]cellgrid.Cell
	cursor cellgrid.CursorDescriptor
	events chan Event
}

// NewHeadlessWriter creates a headless writer of the given size.
func NewHeadlessWriter(width, height int) *HeadlessWriter {
	return &HeadlessWriter{
		width:  width,
		height: height,
		cells:  make(map[cellgrid.Pos]cellgrid.Cell),
		events: make(chan Event, 256),
	}
}

// Init implements TerminalWriter; there is no terminal to initialise.
func (w *HeadlessWriter) Init() error { return nil }

// Shutdown implements TerminalWriter; there is no terminal to restore.
func (w *HeadlessWriter) Shutdown() {}

// Size implements TerminalWriter.
func (w *HeadlessWriter) Size() (width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// Resize changes the writer's recorded dimensions and posts a resize event,
// letting tests drive the event loop's resize handling without tcell.
func (w *HeadlessWriter) Resize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
	w.PostEvent(Event{Kind: EventResize, Width: width, Height: height})
}

// Flush implements TerminalWriter, recording cell/cursor changes for
// inspection instead of writing them anywhere.
func (w *HeadlessWriter) Flush(changes []cellgrid.Change) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range changes {
		switch c.Kind {
		case cellgrid.ChangeCell:
			w.cells[c.Pos] = c.Cell
		case cellgrid.ChangeCursor:
			w.cursor = c.Cursor
		}
	}
	return nil
}

// Cell returns the most recently flushed cell at pos, for assertions in
// tests.
func (w *HeadlessWriter) Cell(pos cellgrid.Pos) cellgrid.Cell {
	w.mu.Lock()
	defer w.mu.Unlock()
	if c, ok := w.cells[pos]; ok {
		return c
	}
	return cellgrid.EmptyCell()
}

// Cursor returns the most recently flushed cursor descriptor.
func (w *HeadlessWriter) Cursor() cellgrid.CursorDescriptor {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursor
}

// PollEvent implements TerminalWriter, blocking until a synthetic event has
// been posted.
func (w *HeadlessWriter) PollEvent() Event {
	return <-w.events
}

// PostEvent implements TerminalWriter.
func (w *HeadlessWriter) PostEvent(ev Event) {
	select {
	case w.events <- ev:
	default:
		// Queue full: drop rather than block a scripted test's caller.
	}
}

// Beep implements TerminalWriter; a no-op.
func (w *HeadlessWriter) Beep() {}
