// Package mode implements the editing-mode state machine: a table-driven
// dispatcher mapping input events (and operations forwarded from the
// script runtime) to the operations the executor applies, plus the mode
// transitions those operations cause.
package mode

import (
	"github.com/vimjs/vimjs/internal/cellgrid"
	"github.com/vimjs/vimjs/internal/keyevent"
	"github.com/vimjs/vimjs/internal/operation"
)

// Name identifiers for the ten built-in modes.
const (
	Normal                 = "normal"
	Insert                 = "insert"
	Visual                 = "visual"
	Select                 = "select"
	OperatorPending        = "operator-pending"
	CmdlineEx              = "cmdline-ex"
	CmdlineSearchForward   = "cmdline-search-forward"
	CmdlineSearchBackward  = "cmdline-search-backward"
	Terminal               = "terminal"
	Quit                   = "quit"
)

// Context carries transition metadata between Enter/Exit/Handle calls, and
// a numeric count prefix / register selection for modes that use them.
type Context struct {
	PreviousMode string
	NextMode     string
	Count        int
	Register     rune
}

// NewContext returns a zero Context with Count defaulting to 1 (an absent
// count prefix means "once").
func NewContext() *Context {
	return &Context{Count: 1}
}

// Mode is one state of the editing state machine.
type Mode interface {
	// Name is the unique mode identifier used by goto-mode operations.
	Name() string

	// CursorStyle is the cursor shape to display while this mode is active.
	CursorStyle() cellgrid.CursorStyle

	// Enter is called when this mode becomes active.
	Enter(ctx *Context) error

	// Exit is called when this mode is about to become inactive.
	Exit(ctx *Context) error

	// Handle is the pure dispatch table for an input event: key/mouse in,
	// zero or more operations out.
	Handle(ev keyevent.Event, ctx *Context) []operation.Operation

	// HandleOp processes an operation forwarded from the script runtime
	// (or by Handle itself) and returns the operations that should
	// actually be applied; a mode may translate or suppress it, and every
	// built-in mode returns it unchanged.
	HandleOp(op operation.Operation, ctx *Context) []operation.Operation
}
