package mode

import (
	"github.com/vimjs/vimjs/internal/cellgrid"
	"github.com/vimjs/vimjs/internal/keyevent"
	"github.com/vimjs/vimjs/internal/operation"
)

// baseMode supplies no-op Enter/Exit/HandleOp so concrete modes only
// override what they need.
type baseMode struct {
	name  string
	style cellgrid.CursorStyle
}

func (b baseMode) Name() string                      { return b.name }
func (b baseMode) CursorStyle() cellgrid.CursorStyle { return b.style }
func (b baseMode) Enter(ctx *Context) error           { return nil }
func (b baseMode) Exit(ctx *Context) error            { return nil }
func (b baseMode) HandleOp(op operation.Operation, ctx *Context) []operation.Operation {
	return []operation.Operation{op}
}

// lineEndSentinel is an oversized rightward delta that the executor's
// move-by clamp reduces to "end of line", used by modes that have no
// buffer access to compute the real line length.
const lineEndSentinel = 1 << 20

// RegisterDefaults registers the ten built-in modes.
func RegisterDefaults(m *Manager) {
	m.Register(&normalMode{baseMode{name: Normal, style: cellgrid.CursorBlock}})
	m.Register(&insertMode{baseMode{name: Insert, style: cellgrid.CursorBar}})
	m.Register(&visualMode{baseMode{name: Visual, style: cellgrid.CursorBlock}})
	m.Register(&selectMode{baseMode{name: Select, style: cellgrid.CursorBlock}})
	m.Register(&operatorPendingMode{baseMode{name: OperatorPending, style: cellgrid.CursorUnderline}})
	m.Register(&cmdlineMode{baseMode{name: CmdlineEx, style: cellgrid.CursorBar}, true})
	m.Register(&cmdlineMode{baseMode{name: CmdlineSearchForward, style: cellgrid.CursorBar}, false})
	m.Register(&cmdlineMode{baseMode{name: CmdlineSearchBackward, style: cellgrid.CursorBar}, false})
	m.Register(&terminalMode{baseMode{name: Terminal, style: cellgrid.CursorBlock}})
	m.Register(&quitMode{baseMode{name: Quit, style: cellgrid.CursorHidden}})
}

// normalMode is the table-driven normal-mode dispatcher: h/j/k/l and
// arrows move, i/a/I/A/o/O enter insert mode (with a
// cursor fix-up for the variants that position relative to the current
// character), ':' opens the ex command line, 'u'/Ctrl+R are undo/redo, and
// Ctrl+D quits.
type normalMode struct{ baseMode }

func (n *normalMode) Handle(ev keyevent.Event, ctx *Context) []operation.Operation {
	if ev.IsCtrl('d') {
		return []operation.Operation{operation.EditorQuit(0)}
	}
	if ev.Key == keyevent.KeyUp {
		return []operation.Operation{operation.MoveBy(0, -1)}
	}
	if ev.Key == keyevent.KeyDown {
		return []operation.Operation{operation.MoveBy(0, 1)}
	}
	if ev.Key == keyevent.KeyLeft {
		return []operation.Operation{operation.MoveBy(-1, 0)}
	}
	if ev.Key == keyevent.KeyRight {
		return []operation.Operation{operation.MoveBy(1, 0)}
	}
	if !ev.IsRune() {
		return nil
	}
	switch ev.Rune {
	case 'h':
		return []operation.Operation{operation.MoveBy(-1, 0)}
	case 'l':
		return []operation.Operation{operation.MoveBy(1, 0)}
	case 'k':
		return []operation.Operation{operation.MoveBy(0, -1)}
	case 'j':
		return []operation.Operation{operation.MoveBy(0, 1)}
	case 'i':
		return []operation.Operation{operation.GotoMode(Insert)}
	case 'a':
		return []operation.Operation{operation.MoveBy(1, 0), operation.GotoMode(Insert)}
	case 'I':
		return []operation.Operation{operation.MoveTo(0, 0), operation.GotoMode(Insert)}
	case 'A':
		// Modes are pure dispatch with no buffer access, so "to end of
		// line" is expressed as an oversized delta the executor clamps.
		return []operation.Operation{operation.MoveBy(lineEndSentinel, 0), operation.GotoMode(Insert)}
	case 'o':
		return []operation.Operation{
			operation.MoveBy(lineEndSentinel, 0),
			operation.InsertAtCursor("\n"),
			operation.GotoMode(Insert),
		}
	case 'O':
		return []operation.Operation{
			operation.InsertAtCursor("\n"),
			operation.MoveBy(0, -1),
			operation.GotoMode(Insert),
		}
	case ':':
		return []operation.Operation{operation.GotoMode(CmdlineEx)}
	case 'u':
		return []operation.Operation{operation.Undo()}
	case 'v':
		return []operation.Operation{operation.GotoMode(Visual)}
	}
	if ev.IsCtrl('r') {
		return []operation.Operation{operation.Redo()}
	}
	return nil
}

// insertMode accepts printable characters as insert-at-cursor payloads,
// backspace/delete as delete-at-cursor, arrows as cursor moves, and ESC to
// return to normal mode.
type insertMode struct{ baseMode }

func (ins *insertMode) Handle(ev keyevent.Event, ctx *Context) []operation.Operation {
	switch {
	case ev.Key == keyevent.KeyEscape:
		return []operation.Operation{operation.GotoMode(Normal)}
	case ev.Key == keyevent.KeyBackspace:
		return []operation.Operation{operation.DeleteAtCursor(-1)}
	case ev.Key == keyevent.KeyDelete:
		return []operation.Operation{operation.DeleteAtCursor(1)}
	case ev.Key == keyevent.KeyEnter:
		return []operation.Operation{operation.InsertAtCursor("\n")}
	case ev.Key == keyevent.KeyUp:
		return []operation.Operation{operation.MoveBy(0, -1)}
	case ev.Key == keyevent.KeyDown:
		return []operation.Operation{operation.MoveBy(0, 1)}
	case ev.Key == keyevent.KeyLeft:
		return []operation.Operation{operation.MoveBy(-1, 0)}
	case ev.Key == keyevent.KeyRight:
		return []operation.Operation{operation.MoveBy(1, 0)}
	case ev.IsRune():
		return []operation.Operation{operation.InsertAtCursor(string(ev.Rune))}
	}
	return nil
}

// visualMode and selectMode share normal mode's movement keys; selection
// extent bookkeeping belongs to the widget/viewport layer, so this mode
// only handles exiting back to normal and basic movement.
type visualMode struct{ baseMode }

func (v *visualMode) Handle(ev keyevent.Event, ctx *Context) []operation.Operation {
	if ev.Key == keyevent.KeyEscape {
		return []operation.Operation{operation.GotoMode(Normal)}
	}
	return movementOnly(ev)
}

type selectMode struct{ baseMode }

func (s *selectMode) Handle(ev keyevent.Event, ctx *Context) []operation.Operation {
	if ev.Key == keyevent.KeyEscape {
		return []operation.Operation{operation.GotoMode(Normal)}
	}
	return movementOnly(ev)
}

func movementOnly(ev keyevent.Event) []operation.Operation {
	switch ev.Key {
	case keyevent.KeyUp:
		return []operation.Operation{operation.MoveBy(0, -1)}
	case keyevent.KeyDown:
		return []operation.Operation{operation.MoveBy(0, 1)}
	case keyevent.KeyLeft:
		return []operation.Operation{operation.MoveBy(-1, 0)}
	case keyevent.KeyRight:
		return []operation.Operation{operation.MoveBy(1, 0)}
	}
	if ev.IsRune() {
		switch ev.Rune {
		case 'h':
			return []operation.Operation{operation.MoveBy(-1, 0)}
		case 'l':
			return []operation.Operation{operation.MoveBy(1, 0)}
		case 'k':
			return []operation.Operation{operation.MoveBy(0, -1)}
		case 'j':
			return []operation.Operation{operation.MoveBy(0, 1)}
		}
	}
	return nil
}

// operatorPendingMode is entered while an operator awaits its motion.
// Full operator+motion composition is future work (no operator keys are
// bound yet in normalMode); for now it only supports cancelling back to
// normal mode via Escape.
type operatorPendingMode struct{ baseMode }

func (o *operatorPendingMode) Handle(ev keyevent.Event, ctx *Context) []operation.Operation {
	if ev.Key == keyevent.KeyEscape {
		return []operation.Operation{operation.GotoMode(Normal)}
	}
	return nil
}

// cmdlineMode implements both cmdline-ex and the two cmdline-search
// directions: printable characters insert into the command line, arrows
// move the cmdline cursor, ESC cancels back to normal, and ENTER either
// confirms-and-dispatches (ex mode) or simply returns to normal (search
// modes; query dispatch is not wired up yet).
type cmdlineMode struct {
	baseMode
	isExMode bool
}

func (c *cmdlineMode) Handle(ev keyevent.Event, ctx *Context) []operation.Operation {
	switch {
	case ev.Key == keyevent.KeyEscape:
		return []operation.Operation{operation.GotoMode(Normal)}
	case ev.Key == keyevent.KeyEnter:
		if c.isExMode {
			return []operation.Operation{operation.ConfirmExCommand(), operation.GotoMode(Normal)}
		}
		return []operation.Operation{operation.GotoMode(Normal)}
	case ev.Key == keyevent.KeyBackspace:
		return []operation.Operation{operation.CmdlineDeleteAtCursor(-1)}
	case ev.Key == keyevent.KeyDelete:
		return []operation.Operation{operation.CmdlineDeleteAtCursor(1)}
	case ev.Key == keyevent.KeyLeft:
		return []operation.Operation{operation.CmdlineMoveBy(-1)}
	case ev.Key == keyevent.KeyRight:
		return []operation.Operation{operation.CmdlineMoveBy(1)}
	case ev.IsRune():
		return []operation.Operation{operation.CmdlineInsertAtCursor(string(ev.Rune))}
	}
	return nil
}

// terminalMode is a thin pass-through placeholder: there is no PTY
// emulation behind it yet, so the only handled key is Escape back to
// normal.
type terminalMode struct{ baseMode }

func (t *terminalMode) Handle(ev keyevent.Event, ctx *Context) []operation.Operation {
	if ev.Key == keyevent.KeyEscape {
		return []operation.Operation{operation.GotoMode(Normal)}
	}
	return nil
}

// quitMode is the internal terminal state; the event loop checks
// Manager.CurrentName() == Quit to stop, so it never needs to handle
// input.
type quitMode struct{ baseMode }

func (q *quitMode) Handle(ev keyevent.Event, ctx *Context) []operation.Operation { return nil }
