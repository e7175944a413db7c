// Package bufferstore implements the editor's buffer model: an in-memory
// text document backed by internal/rope, its lifecycle status, undo
// history, and the manager that tracks every open buffer.
package bufferstore

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vimjs/vimjs/internal/rope"
	"github.com/vimjs/vimjs/internal/textwidth"
)

// Errors returned by buffer operations.
var (
	ErrRangeInvalid       = errors.New("bufferstore: invalid range")
	ErrLoadInProgress     = errors.New("bufferstore: a load is already in progress for this buffer")
	ErrNotLoading         = errors.New("bufferstore: buffer is not currently loading")
	ErrFileAlreadyExists  = errors.New("bufferstore: file already exists")
)

// ID uniquely identifies a buffer for the lifetime of the process.
type ID uint64

// Status is the buffer lifecycle state machine:
// init -> loading -> synced; synced -> changed -> saving -> synced.
type Status uint8

const (
	StatusInit Status = iota
	StatusLoading
	StatusSynced
	StatusChanged
	StatusSaving
)

func (s Status) String() string {
	switch s {
	case StatusInit:
		return "init"
	case StatusLoading:
		return "loading"
	case StatusSynced:
		return "synced"
	case StatusChanged:
		return "changed"
	case StatusSaving:
		return "saving"
	default:
		return "unknown"
	}
}

// TextOptions configures how a buffer's rope and width cache interpret
// bytes: tab stop for display width, the line ending written on save, and
// the file encoding name used when decoding/encoding on disk (decoding
// itself belongs to the load path; the option is carried so a later save
// can round-trip it).
type TextOptions struct {
	TabStop      int
	FileEncoding string
	LineEnding   textwidth.LineEnding
}

// DefaultTextOptions is tab width 4, LF line endings, UTF-8 encoding.
func DefaultTextOptions() TextOptions {
	return TextOptions{TabStop: 4, FileEncoding: "utf-8", LineEnding: textwidth.LineEndingLF}
}

// SyncMetadata records the on-disk state a buffer was last loaded from or
// saved to, used to detect out-of-band file changes.
type SyncMetadata struct {
	Size    int64
	ModTime int64 // unix nanos; caller stamps this, bufferstore never calls time.Now
}

// Option configures a Buffer at construction time.
type Option func(*Buffer)

// WithTextOptions overrides the buffer's TextOptions.
func WithTextOptions(opts TextOptions) Option {
	return func(b *Buffer) { b.opts = opts }
}

// WithFilename associates a buffer with a path on disk.
func WithFilename(name string) Option {
	return func(b *Buffer) { b.filename = &name }
}

// Buffer is one open document: a rope of text, a width cache, an undo log,
// and lifecycle metadata. All methods are safe for concurrent use.
type Buffer struct {
	mu       sync.RWMutex
	id       ID
	filename *string
	status   Status
	text     *rope.Rope
	opts     TextOptions
	width    *rope.WidthIndex
	undo     *UndoLog
	sync     SyncMetadata
	loading  bool
	revision uint64
}

// Revision returns a counter incremented on every mutating operation
// (Insert/Delete/Replace/Undo/Redo/Load), letting callers like the
// viewport cache cheaply detect "has this buffer changed since I last
// looked" without diffing content.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// New creates an empty buffer in StatusInit.
func New(id ID, opts ...Option) *Buffer {
	b := &Buffer{
		id:     id,
		status: StatusInit,
		text:   rope.New(),
		opts:   DefaultTextOptions(),
		undo:   NewUndoLog(1000),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.width = rope.NewWidthIndex(b.opts.TabStop, b.opts.LineEnding)
	return b
}

// NewFromString creates a synced buffer with initial content, used by tests.
func NewFromString(id ID, content string, opts ...Option) *Buffer {
	b := New(id, opts...)
	b.text = rope.FromString(content)
	b.status = StatusSynced
	return b
}

// ID returns the buffer's identifier.
func (b *Buffer) ID() ID { return b.id }

// Filename returns the buffer's associated path, and whether one is set.
func (b *Buffer) Filename() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.filename == nil {
		return "", false
	}
	return *b.filename, true
}

// SetFilename associates the buffer with path.
func (b *Buffer) SetFilename(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filename = &path
}

// BindFilename is the first step of the async file-load protocol. If the
// buffer already owns a different file and the target exists, it fails
// with ErrFileAlreadyExists; if the target does not exist, the buffer is renamed
// and marked changed. exists reports whether path is present on disk;
// callers pass a real os.Stat-backed check in production and a fake in
// tests.
//
// BindFilename reports ready=true when the caller should proceed to open
// path and Load into this buffer (the target exists and there is no
// conflicting prior binding); ready=false means the bind itself completed
// the operation (a brand-new path was claimed, no load follows).
func (b *Buffer) BindFilename(path string, exists func(string) bool) (ready bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ownsDifferent := b.filename != nil && *b.filename != path
	present := exists != nil && exists(path)

	switch {
	case ownsDifferent && present:
		return false, fmt.Errorf("bufferstore: bind %q: %w", path, ErrFileAlreadyExists)
	case !present:
		b.filename = &path
		b.revision++
		if b.status == StatusSynced {
			b.status = StatusChanged
		}
		return false, nil
	default:
		b.filename = &path
		return true, nil
	}
}

// Status returns the buffer's current lifecycle state.
func (b *Buffer) Status() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

// TextOptions returns a copy of the buffer's text options.
func (b *Buffer) TextOptions() TextOptions {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.opts
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.String()
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.LineCount()
}

// Line returns the text of a line (without terminator).
func (b *Buffer) Line(i int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= b.text.LineCount() {
		return "", fmt.Errorf("bufferstore: line %d out of range (0..%d): %w", i, b.text.LineCount(), ErrRangeInvalid)
	}
	return b.text.Line(i), nil
}

// LineWidth returns the cached display width of line i.
func (b *Buffer) LineWidth(i int) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= b.text.LineCount() {
		return 0, fmt.Errorf("bufferstore: line %d out of range: %w", i, ErrRangeInvalid)
	}
	return b.width.LineWidth(b.text, i), nil
}

// LineCumulativeWidths returns the width cache's cumulative-width vector
// for line i (length = rune count + 1), for the viewport engine's layout
// algorithm.
func (b *Buffer) LineCumulativeWidths(i int) ([]int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= b.text.LineCount() {
		return nil, fmt.Errorf("bufferstore: line %d out of range: %w", i, ErrRangeInvalid)
	}
	return b.width.CumulativeWidths(b.text, i), nil
}

// Insert inserts text at (line, char) and records an undo entry. The edit
// transitions a synced buffer to changed.
func (b *Buffer) Insert(line, char int, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if line < 0 || line >= b.text.LineCount() || char < 0 || char > b.text.LineLen(line) {
		return fmt.Errorf("bufferstore: insert at (%d,%d): %w", line, char, ErrRangeInvalid)
	}
	b.text.Insert(line, char, text)
	b.invalidateFrom(line, text)
	if !b.undo.CoalesceInsert(line, char, text) {
		b.undo.Push(UndoEntry{Kind: EditInsert, Line: line, Char: char, NewText: text})
	}
	b.markChanged()
	return nil
}

// Delete removes n characters starting at (line, char) and records an undo
// entry capturing the removed text.
func (b *Buffer) Delete(line, char, n int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if line < 0 || line >= b.text.LineCount() || char < 0 || char > b.text.LineLen(line) {
		return fmt.Errorf("bufferstore: delete at (%d,%d): %w", line, char, ErrRangeInvalid)
	}
	endLine, endChar := advance(b.text, line, char, n)
	old := b.text.TextBetween(line, char, endLine, endChar)
	b.text.Delete(line, char, n)
	b.width.InvalidateFrom(line)
	b.undo.Push(UndoEntry{Kind: EditDelete, Line: line, Char: char, OldText: old})
	b.markChanged()
	return nil
}

// Replace substitutes the range [startLine,startChar)..[endLine,endChar)
// with text as a single undoable edit.
func (b *Buffer) Replace(startLine, startChar, endLine, endChar int, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	old := b.text.TextBetween(startLine, startChar, endLine, endChar)
	b.text.Replace(startLine, startChar, endLine, endChar, text)
	b.width.InvalidateFrom(startLine)
	b.undo.Push(UndoEntry{Kind: EditReplace, Line: startLine, Char: startChar, OldText: old, NewText: text})
	b.markChanged()
	return nil
}

// Undo reverts the most recent edit. Returns ErrNothingToUndo if the undo
// stack is empty.
func (b *Buffer) Undo() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry, err := b.undo.PopUndo()
	if err != nil {
		return err
	}
	b.applyInverse(entry)
	b.markChanged()
	return nil
}

// Redo re-applies the most recently undone edit. Returns ErrNothingToRedo if
// the redo stack is empty.
func (b *Buffer) Redo() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry, err := b.undo.PopRedo()
	if err != nil {
		return err
	}
	b.applyForward(entry)
	b.markChanged()
	return nil
}

func (b *Buffer) applyInverse(e UndoEntry) {
	switch e.Kind {
	case EditInsert:
		endLine, endChar := advance(b.text, e.Line, e.Char, len([]rune(e.NewText)))
		b.text.Delete(e.Line, e.Char, b.text.CharsBetween(e.Line, e.Char, endLine, endChar))
	case EditDelete:
		b.text.Insert(e.Line, e.Char, e.OldText)
	case EditReplace:
		endLine, endChar := advance(b.text, e.Line, e.Char, len([]rune(e.NewText)))
		b.text.Replace(e.Line, e.Char, endLine, endChar, e.OldText)
	}
	b.width.InvalidateFrom(e.Line)
}

func (b *Buffer) applyForward(e UndoEntry) {
	switch e.Kind {
	case EditInsert:
		b.text.Insert(e.Line, e.Char, e.NewText)
	case EditDelete:
		endLine, endChar := advance(b.text, e.Line, e.Char, len([]rune(e.OldText)))
		b.text.Delete(e.Line, e.Char, b.text.CharsBetween(e.Line, e.Char, endLine, endChar))
	case EditReplace:
		endLine, endChar := advance(b.text, e.Line, e.Char, len([]rune(e.OldText)))
		b.text.Replace(e.Line, e.Char, endLine, endChar, e.NewText)
	}
	b.width.InvalidateFrom(e.Line)
}

// advance walks forward n characters from (line, char) through r, returning
// the resulting position. Used to recompute the end of a variable-length
// edit for undo/redo without storing redundant end positions.
func advance(r *rope.Rope, line, char, n int) (int, int) {
	for n > 0 {
		avail := r.LineLen(line) - char
		if n <= avail {
			return line, char + n
		}
		n -= avail + 1
		line++
		char = 0
		if line >= r.LineCount() {
			return line - 1, r.LineLen(line - 1)
		}
	}
	return line, char
}

func (b *Buffer) invalidateFrom(line int, insertedText string) {
	if containsNewline(insertedText) {
		b.width.InvalidateFrom(line)
	} else {
		b.width.Invalidate(line)
	}
}

func containsNewline(s string) bool {
	for _, r := range s {
		if r == '\n' {
			return true
		}
	}
	return false
}

func (b *Buffer) markChanged() {
	b.revision++
	if b.status == StatusSynced {
		b.status = StatusChanged
	}
}

// BeginSave transitions a changed buffer to saving. Returns an error if the
// buffer isn't in a savable state.
func (b *Buffer) BeginSave() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status != StatusChanged && b.status != StatusSynced {
		return fmt.Errorf("bufferstore: cannot save buffer in status %s", b.status)
	}
	b.status = StatusSaving
	return nil
}

// FinishSave transitions a saving buffer back to synced and records the new
// sync metadata (size/modtime are supplied by the caller, which owns the
// filesystem clock).
func (b *Buffer) FinishSave(meta SyncMetadata) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = StatusSynced
	b.sync = meta
}

// SyncMetadata returns the last recorded sync metadata.
func (b *Buffer) SyncMetadata() SyncMetadata {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sync
}
