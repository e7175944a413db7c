package operation

import (
	"errors"
	"fmt"

	"github.com/vimjs/vimjs/internal/bufferstore"
)

// ErrUnknownKind is returned by Executor.Apply for an Operation with a Kind
// the executor doesn't recognize (e.g. a zero-value Operation).
var ErrUnknownKind = errors.New("operation: unknown kind")

// Target is the editor-side state an Executor mutates, implemented by the
// event-loop type. The operation layer depends only on this narrow
// contract, never on concrete viewport/mode types, so it has no
// import-cycle with internal/mode or internal/viewport.
type Target interface {
	// Buffer returns the buffer the current window is showing.
	Buffer() *bufferstore.Buffer

	// Cursor returns the current cursor position.
	Cursor() (line, char int)

	// SetCursor moves the cursor to an absolute position, clamping to
	// buffer bounds.
	SetCursor(line, char int)

	// ScrollBy/ScrollTo move the current window's viewport.
	ScrollBy(deltaColumns, deltaLines int)
	ScrollTo(column, line int)

	// GotoMode switches the active mode, returning an error if name is
	// unregistered.
	GotoMode(name string) error

	// CmdlineCursor/SetCmdlineCursor/CmdlineInsert/CmdlineDelete manipulate
	// the command-line's own text-content, independent of the buffer.
	CmdlineCursor() int
	SetCmdlineCursor(char int)
	CmdlineInsert(char int, text string)
	CmdlineDelete(char, count int)
	CmdlineText() string

	// ConfirmExCommand parses the command line's buffered text and
	// dispatches it as an ex command.
	ConfirmExCommand() error

	// Quit requests event-loop termination with the given exit code.
	Quit(exitCode int)
}

// Executor applies Operations to a Target. It holds no state of its own;
// every operation's effect is a pure function of (Target, Operation).
type Executor struct{}

// NewExecutor returns an Executor.
func NewExecutor() *Executor { return &Executor{} }

// Apply executes op against t. Moves past buffer boundaries clamp; edits
// that cross line boundaries split/join lines via bufferstore, which
// records a single undo entry per call.
func (ex *Executor) Apply(t Target, op Operation) error {
	switch op.Kind {
	case KindMoveBy:
		return ex.moveBy(t, op)
	case KindMoveTo:
		t.SetCursor(op.TargetLine, op.TargetChar)
		return nil
	case KindScrollBy:
		t.ScrollBy(op.DeltaChars, op.DeltaLines)
		return nil
	case KindScrollTo:
		t.ScrollTo(op.TargetChar, op.TargetLine)
		return nil
	case KindGotoMode:
		return t.GotoMode(op.TargetMode)
	case KindInsertAtCursor:
		return ex.insertAtCursor(t, op)
	case KindDeleteAtCursor:
		return ex.deleteAtCursor(t, op)
	case KindCmdlineMoveBy:
		t.SetCmdlineCursor(clamp0(t.CmdlineCursor()+op.DeltaChars, len([]rune(t.CmdlineText()))))
		return nil
	case KindCmdlineInsertAtCursor:
		t.CmdlineInsert(t.CmdlineCursor(), op.Text)
		t.SetCmdlineCursor(t.CmdlineCursor() + len([]rune(op.Text)))
		return nil
	case KindCmdlineDeleteAtCursor:
		return ex.cmdlineDelete(t, op)
	case KindEditorQuit:
		t.Quit(op.ExitCode)
		return nil
	case KindConfirmExCommand:
		return t.ConfirmExCommand()
	case KindUndo:
		if err := t.Buffer().Undo(); err != nil {
			return err
		}
		// Re-clamp: the restored text may be shorter than where the
		// cursor sat.
		t.SetCursor(t.Cursor())
		return nil
	case KindRedo:
		if err := t.Buffer().Redo(); err != nil {
			return err
		}
		t.SetCursor(t.Cursor())
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrUnknownKind, op.Kind)
	}
}

func (ex *Executor) moveBy(t Target, op Operation) error {
	line, char := t.Cursor()
	buf := t.Buffer()

	line += op.DeltaLines
	line = clampRange(line, 0, buf.LineCount()-1)

	char += op.DeltaChars
	lineLen := 0
	if l, err := buf.Line(line); err == nil {
		lineLen = len([]rune(l))
	}
	char = clampRange(char, 0, lineLen)

	t.SetCursor(line, char)
	return nil
}

func (ex *Executor) insertAtCursor(t Target, op Operation) error {
	line, char := t.Cursor()
	if err := t.Buffer().Insert(line, char, op.Text); err != nil {
		return fmt.Errorf("operation: insert-at-cursor: %w", err)
	}
	endLine, endChar := advanceBy(t.Buffer(), line, char, len([]rune(op.Text)))
	t.SetCursor(endLine, endChar)
	return nil
}

func (ex *Executor) deleteAtCursor(t Target, op Operation) error {
	line, char := t.Cursor()
	buf := t.Buffer()
	if op.Count >= 0 {
		if err := buf.Delete(line, char, op.Count); err != nil {
			return fmt.Errorf("operation: delete-at-cursor: %w", err)
		}
		t.SetCursor(line, char)
		return nil
	}
	n := -op.Count
	startLine, startChar := retreatBy(buf, line, char, n)
	if err := buf.Delete(startLine, startChar, n); err != nil {
		return fmt.Errorf("operation: delete-at-cursor: %w", err)
	}
	t.SetCursor(startLine, startChar)
	return nil
}

func (ex *Executor) cmdlineDelete(t Target, op Operation) error {
	cur := t.CmdlineCursor()
	if op.Count >= 0 {
		t.CmdlineDelete(cur, op.Count)
		return nil
	}
	n := -op.Count
	start := cur - n
	if start < 0 {
		n = cur
		start = 0
	}
	t.CmdlineDelete(start, n)
	t.SetCmdlineCursor(start)
	return nil
}

// advanceBy walks forward n characters from (line, char) in buf, clamping
// at the end of the buffer.
func advanceBy(buf *bufferstore.Buffer, line, char, n int) (int, int) {
	for n > 0 {
		lineStr, err := buf.Line(line)
		if err != nil {
			return line, char
		}
		avail := len([]rune(lineStr)) - char
		if n <= avail {
			return line, char + n
		}
		n -= avail + 1
		line++
		char = 0
		if line >= buf.LineCount() {
			last := buf.LineCount() - 1
			lastStr, _ := buf.Line(last)
			return last, len([]rune(lastStr))
		}
	}
	return line, char
}

// retreatBy walks backward n characters from (line, char) in buf, clamping
// at the start of the buffer.
func retreatBy(buf *bufferstore.Buffer, line, char, n int) (int, int) {
	for n > 0 {
		if n <= char {
			return line, char - n
		}
		n -= char + 1
		line--
		if line < 0 {
			return 0, 0
		}
		lineStr, _ := buf.Line(line)
		char = len([]rune(lineStr))
	}
	return line, char
}

func clamp0(v, max int) int { return clampRange(v, 0, max) }

func clampRange(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
