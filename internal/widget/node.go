// Package widget implements the parent/child widget tree: a sum-typed
// node hierarchy (root / window / window-content / cursor /
// cmdline-indicator / cmdline-input / cmdline-message), laid out by a
// pluggable external layout engine and drawn depth-first onto a
// internal/cellgrid.Canvas. Rather than a separate Go type per widget
// kind, one Node struct carries a Kind enum plus variant-specific fields.
//
// Back-references to a buffer or to the command line's text-content are
// represented with the standard library's weak.Pointer (Go 1.24+) rather
// than a plain pointer or an id-plus-manager-lookup pair: a node must
// never keep its referent alive, and Resolve() reports false once nothing
// else does, with no finalizer or manual bookkeeping required.
package widget

import (
	"weak"

	"github.com/vimjs/vimjs/internal/bufferstore"
	"github.com/vimjs/vimjs/internal/cmdline"
	"github.com/vimjs/vimjs/internal/viewport"
)

// Kind identifies a widget node's variant.
type Kind int

const (
	KindRoot Kind = iota
	KindWindow
	KindWindowContent
	KindCursor
	KindCmdlineIndicator
	KindCmdlineInput
	KindCmdlineMessage
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindWindow:
		return "window"
	case KindWindowContent:
		return "window-content"
	case KindCursor:
		return "cursor"
	case KindCmdlineIndicator:
		return "cmdline-indicator"
	case KindCmdlineInput:
		return "cmdline-input"
	case KindCmdlineMessage:
		return "cmdline-message"
	default:
		return "unknown"
	}
}

// Direction is the axis a node's children are split along.
type Direction int

const (
	Vertical Direction = iota
	Horizontal
)

// Constraint is one child's share of its parent's inner rectangle along
// the split Direction: either a percentage of the parent or a fixed
// length.
type Constraint struct {
	Percent int // used when Length == 0
	Length  int // fixed cell count; takes priority over Percent when > 0
}

// Percentage returns a Constraint occupying pct percent of the parent.
func Percentage(pct int) Constraint { return Constraint{Percent: pct} }

// Length returns a Constraint occupying exactly n cells.
func Length(n int) Constraint { return Constraint{Length: n} }

// Style is the layout record a node hands the external layout engine:
// how its children are split, and by what constraints. Opaque to the
// tree otherwise; only the engine interprets it.
type Style struct {
	Direction   Direction
	Constraints []Constraint
}

// BufferRef is a non-owning handle to a bufferstore.Buffer.
type BufferRef struct {
	ptr weak.Pointer[bufferstore.Buffer]
}

// NewBufferRef wraps a strongly-owned buffer in a weak back-reference.
func NewBufferRef(b *bufferstore.Buffer) BufferRef {
	return BufferRef{ptr: weak.Make(b)}
}

// Resolve upgrades the reference, reporting false if the buffer is gone.
func (r BufferRef) Resolve() (*bufferstore.Buffer, bool) {
	b := r.ptr.Value()
	return b, b != nil
}

// TextContentRef is a non-owning handle to a cmdline.TextContent.
type TextContentRef struct {
	ptr weak.Pointer[cmdline.TextContent]
}

// NewTextContentRef wraps a strongly-owned TextContent.
func NewTextContentRef(t *cmdline.TextContent) TextContentRef {
	return TextContentRef{ptr: weak.Make(t)}
}

// Resolve upgrades the reference, reporting false if the TextContent is
// gone.
func (r TextContentRef) Resolve() (*cmdline.TextContent, bool) {
	t := r.ptr.Value()
	return t, t != nil
}

// Node is one widget in the tree. Every variant shares id/kind/style/
// parent/children; type-specific fields below are populated only for the
// relevant Kind.
type Node struct {
	id       uint64
	kind     Kind
	style    Style
	parent   *Node
	children []*Node

	// window / window-content
	buffer       BufferRef
	hasBuffer    bool
	viewportOpts viewport.Options
	topLine      int
	topColumn    int
	cursorLine   int
	cursorChar   int
	lastViewport *viewport.Viewport

	// cmdline-input / cmdline-message
	text TextContentRef

	// cmdline subtree visibility: true shows input, false shows message.
	// The two are never drawn together.
	showInput bool
}

// ID returns the node's stable identity.
func (n *Node) ID() uint64 { return n.id }

// Kind returns the node's variant.
func (n *Node) Kind() Kind { return n.kind }

// Style returns the layout record this node hands the external engine.
func (n *Node) Style() Style { return n.style }

// SetStyle replaces the node's layout record.
func (n *Node) SetStyle(s Style) { n.style = s }

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in layout order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// SetBuffer attaches a weak buffer reference to a window/window-content
// node.
func (n *Node) SetBuffer(b *bufferstore.Buffer) {
	n.buffer = NewBufferRef(b)
	n.hasBuffer = true
}

// Buffer resolves the node's buffer reference.
func (n *Node) Buffer() (*bufferstore.Buffer, bool) {
	if !n.hasBuffer {
		return nil, false
	}
	return n.buffer.Resolve()
}

// ViewportOptions returns the wrap/line-break/scroll-off options used to
// compute this node's viewport.
func (n *Node) ViewportOptions() viewport.Options { return n.viewportOpts }

// SetViewportOptions replaces the wrap/line-break/scroll-off options.
func (n *Node) SetViewportOptions(opts viewport.Options) { n.viewportOpts = opts }

// Scroll returns the node's current top-line/top-column.
func (n *Node) Scroll() (line, column int) { return n.topLine, n.topColumn }

// SetScroll sets the node's top-line/top-column directly (used by
// scroll-to operations and EnsureVisible results).
func (n *Node) SetScroll(line, column int) {
	n.topLine, n.topColumn = line, column
}

// CursorPos returns the buffer (line, char) position the window's cursor
// widget should render, independent of the window's scroll position.
func (n *Node) CursorPos() (line, char int) { return n.cursorLine, n.cursorChar }

// SetCursorPos records the buffer position the cursor widget should
// render. Owned by the event loop / operation executor; the widget tree
// only reads it back during drawing.
func (n *Node) SetCursorPos(line, char int) { n.cursorLine, n.cursorChar = line, char }

// LastViewport returns the most recently computed Viewport for this node,
// or nil before the first recomputation.
func (n *Node) LastViewport() *viewport.Viewport { return n.lastViewport }

// SetLastViewport caches the result of the most recent viewport
// recomputation, refreshed whenever the window's buffer changed or its
// rectangle moved.
func (n *Node) SetLastViewport(vp *viewport.Viewport) { n.lastViewport = vp }

// SetTextContent attaches a weak text-content reference to a cmdline-input
// or cmdline-message node.
func (n *Node) SetTextContent(t *cmdline.TextContent) {
	n.text = NewTextContentRef(t)
}

// TextContent resolves the node's text-content reference.
func (n *Node) TextContent() (*cmdline.TextContent, bool) {
	return n.text.Resolve()
}

// ShowInput reports whether the cmdline subtree should render its input
// line (true) or its message line (false).
func (n *Node) ShowInput() bool { return n.showInput }

// SetShowInput toggles the cmdline subtree's input/message visibility.
func (n *Node) SetShowInput(show bool) { n.showInput = show }
