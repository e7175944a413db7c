package widget

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vimjs/vimjs/internal/ids"
)

// Errors returned by Tree operations.
var (
	ErrDuplicateCmdline = errors.New("widget: tree already has a cmdline subtree")
	ErrNodeNotFound     = errors.New("widget: node not found")
	ErrNotAWindow       = errors.New("widget: node is not a window")
)

// Tree is the widget tree: a distinguished root, at most one cmdline
// subtree, and one "current window" pointer. Every non-root node has
// exactly one parent; ids are unique.
type Tree struct {
	mu            sync.RWMutex
	gen           *ids.Generator
	root          *Node
	nodes         map[uint64]*Node
	currentWindow *Node
	cmdlineRoot   *Node
}

// NewTree creates a Tree with a freshly allocated root node.
func NewTree() *Tree {
	t := &Tree{gen: ids.NewGenerator(), nodes: make(map[uint64]*Node)}
	root := t.newNode(KindRoot, Style{})
	t.root = root
	return t
}

func (t *Tree) newNode(kind Kind, style Style) *Node {
	n := &Node{id: t.gen.Next(), kind: kind, style: style}
	t.nodes[n.id] = n
	return n
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// Get looks a node up by id.
func (t *Tree) Get(id uint64) (*Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	return n, ok
}

// AddChild creates a new node of the given kind and style, appends it as
// parent's last child, and registers it in the tree.
func (t *Tree) AddChild(parent *Node, kind Kind, style Style) (*Node, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.nodes[parent.id]; !ok {
		return nil, ErrNodeNotFound
	}
	child := t.newNode(kind, style)
	child.parent = parent
	parent.children = append(parent.children, child)
	return child, nil
}

// Remove detaches a node (and its subtree) from the tree. Widget nodes
// are only destroyed by this explicit call.
func (t *Tree) Remove(id uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.nodes[id]
	if !ok {
		return ErrNodeNotFound
	}
	if n == t.root {
		return fmt.Errorf("widget: cannot remove the root node")
	}
	if n.parent != nil {
		siblings := n.parent.children
		for i, s := range siblings {
			if s == n {
				n.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	t.removeSubtreeLocked(n)
	if t.currentWindow != nil {
		if _, ok := t.nodes[t.currentWindow.id]; !ok {
			t.currentWindow = nil
		}
	}
	if t.cmdlineRoot == n {
		t.cmdlineRoot = nil
	}
	return nil
}

func (t *Tree) removeSubtreeLocked(n *Node) {
	delete(t.nodes, n.id)
	for _, c := range n.children {
		t.removeSubtreeLocked(c)
	}
}

// CurrentWindow returns the window designated current, or nil if none has
// been set yet.
func (t *Tree) CurrentWindow() *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.currentWindow
}

// SetCurrentWindow designates n, a KindWindow node registered in this
// tree, as current.
func (t *Tree) SetCurrentWindow(n *Node) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.nodes[n.id]; !ok {
		return ErrNodeNotFound
	}
	if n.kind != KindWindow {
		return ErrNotAWindow
	}
	t.currentWindow = n
	return nil
}

// CmdlineRoot returns the single cmdline subtree root, or nil if none
// exists.
func (t *Tree) CmdlineRoot() *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cmdlineRoot
}

// AddCmdline creates the tree's one cmdline subtree (indicator + input +
// message) under parent. Returns ErrDuplicateCmdline if one already
// exists.
func (t *Tree) AddCmdline(parent *Node) (indicator, input, message *Node, err error) {
	t.mu.Lock()
	if t.cmdlineRoot != nil {
		t.mu.Unlock()
		return nil, nil, nil, ErrDuplicateCmdline
	}
	if _, ok := t.nodes[parent.id]; !ok {
		t.mu.Unlock()
		return nil, nil, nil, ErrNodeNotFound
	}
	subtreeRoot := t.newNode(KindWindow, Style{
		Direction:   Horizontal,
		Constraints: []Constraint{Length(1), Percentage(100)},
	})
	subtreeRoot.parent = parent
	parent.children = append(parent.children, subtreeRoot)
	t.cmdlineRoot = subtreeRoot
	t.mu.Unlock()

	indicator, err = t.AddChild(subtreeRoot, KindCmdlineIndicator, Style{})
	if err != nil {
		return nil, nil, nil, err
	}
	input, err = t.AddChild(subtreeRoot, KindCmdlineInput, Style{})
	if err != nil {
		return nil, nil, nil, err
	}
	message, err = t.AddChild(subtreeRoot, KindCmdlineMessage, Style{})
	if err != nil {
		return nil, nil, nil, err
	}
	subtreeRoot.showInput = false
	return indicator, input, message, nil
}

// Walk visits every node depth-first starting at n (pre-order), calling
// visit(node, depth).
func Walk(n *Node, visit func(node *Node, depth int)) {
	walk(n, 0, visit)
}

func walk(n *Node, depth int, visit func(node *Node, depth int)) {
	visit(n, depth)
	for _, c := range n.children {
		walk(c, depth+1, visit)
	}
}
