// Package operation defines Operation, the only value type the mode state
// machine and the script bridge are allowed to use to mutate editor state,
// and Executor, which applies one to a buffer/cursor/mode target. The
// enumerated set covers cursor navigation, window scroll, mode
// transitions, edits, cmdline analogues, and meta operations (quit,
// confirm-ex-command).
package operation

// Kind enumerates the operation families.
type Kind uint8

const (
	// Cursor navigation
	KindMoveBy Kind = iota
	KindMoveTo

	// Window scroll
	KindScrollBy
	KindScrollTo

	// Mode transitions
	KindGotoMode

	// Edits
	KindInsertAtCursor
	KindDeleteAtCursor

	// Cmdline analogues
	KindCmdlineMoveBy
	KindCmdlineInsertAtCursor
	KindCmdlineDeleteAtCursor

	// Meta
	KindEditorQuit
	KindConfirmExCommand
	KindUndo
	KindRedo
)

func (k Kind) String() string {
	names := [...]string{
		"move-by", "move-to", "scroll-by", "scroll-to", "goto-mode",
		"insert-at-cursor", "delete-at-cursor", "cmdline-move-by",
		"cmdline-insert-at-cursor", "cmdline-delete-at-cursor",
		"editor-quit", "confirm-ex-command", "undo", "redo",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// Operation is a single low-level edit or navigation step. Only the fields
// relevant to Kind are meaningful; the rest are zero.
type Operation struct {
	Kind Kind

	// move-by / scroll-by: signed deltas in chars/columns and lines.
	DeltaChars int
	DeltaLines int

	// move-to / scroll-to: absolute target.
	TargetChar int
	TargetLine int

	// goto-mode
	TargetMode string

	// insert-at-cursor / cmdline-insert-at-cursor
	Text string

	// delete-at-cursor / cmdline-delete-at-cursor: negative = left of cursor.
	Count int

	// editor-quit
	ExitCode int
}

// MoveBy builds a cursor-navigation operation moving by the given signed
// char/line deltas.
func MoveBy(deltaChars, deltaLines int) Operation {
	return Operation{Kind: KindMoveBy, DeltaChars: deltaChars, DeltaLines: deltaLines}
}

// MoveTo builds a cursor-navigation operation moving to an absolute
// (line, char) position.
func MoveTo(line, char int) Operation {
	return Operation{Kind: KindMoveTo, TargetLine: line, TargetChar: char}
}

// ScrollBy builds a window-scroll operation.
func ScrollBy(deltaColumns, deltaLines int) Operation {
	return Operation{Kind: KindScrollBy, DeltaChars: deltaColumns, DeltaLines: deltaLines}
}

// ScrollTo builds a window-scroll operation to an absolute top position.
func ScrollTo(column, line int) Operation {
	return Operation{Kind: KindScrollTo, TargetChar: column, TargetLine: line}
}

// GotoMode builds a mode-transition operation.
func GotoMode(mode string) Operation {
	return Operation{Kind: KindGotoMode, TargetMode: mode}
}

// InsertAtCursor builds an edit operation inserting text at the cursor.
func InsertAtCursor(text string) Operation {
	return Operation{Kind: KindInsertAtCursor, Text: text}
}

// DeleteAtCursor builds an edit operation removing count characters
// (negative counts delete to the left of the cursor).
func DeleteAtCursor(count int) Operation {
	return Operation{Kind: KindDeleteAtCursor, Count: count}
}

// CmdlineInsertAtCursor builds the cmdline analogue of InsertAtCursor.
func CmdlineInsertAtCursor(text string) Operation {
	return Operation{Kind: KindCmdlineInsertAtCursor, Text: text}
}

// CmdlineDeleteAtCursor builds the cmdline analogue of DeleteAtCursor.
func CmdlineDeleteAtCursor(count int) Operation {
	return Operation{Kind: KindCmdlineDeleteAtCursor, Count: count}
}

// CmdlineMoveBy builds the cmdline analogue of MoveBy (single dimension:
// the cmdline has no lines).
func CmdlineMoveBy(deltaChars int) Operation {
	return Operation{Kind: KindCmdlineMoveBy, DeltaChars: deltaChars}
}

// EditorQuit builds the meta operation that terminates the event loop.
func EditorQuit(exitCode int) Operation {
	return Operation{Kind: KindEditorQuit, ExitCode: exitCode}
}

// ConfirmExCommand builds the meta operation that parses the cmdline's
// buffered text and dispatches it as an ex command.
func ConfirmExCommand() Operation {
	return Operation{Kind: KindConfirmExCommand}
}

// Undo and Redo build the history meta operations bound to 'u'/Ctrl+R in
// normal mode.
func Undo() Operation { return Operation{Kind: KindUndo} }
func Redo() Operation { return Operation{Kind: KindRedo} }
