package widget

import (
	"runtime"
	"testing"

	"github.com/vimjs/vimjs/internal/bufferstore"
	"github.com/vimjs/vimjs/internal/cmdline"
)

func TestBufferRefResolve(t *testing.T) {
	n := &Node{kind: KindWindowContent}
	buf := bufferstore.NewFromString(1, "hello")
	n.SetBuffer(buf)

	got, ok := n.Buffer()
	if !ok || got != buf {
		t.Fatalf("Buffer() = (%v, %v), want (%v, true)", got, ok, buf)
	}
}

func TestBufferRefResolveAfterCollection(t *testing.T) {
	n := &Node{kind: KindWindowContent}
	func() {
		buf := bufferstore.NewFromString(1, "hello")
		n.SetBuffer(buf)
	}()

	runtime.GC()
	runtime.GC()

	if _, ok := n.Buffer(); ok {
		t.Fatalf("Buffer() still resolves after the only strong owner is gone")
	}
}

func TestNoBufferResolve(t *testing.T) {
	n := &Node{kind: KindWindow}
	if _, ok := n.Buffer(); ok {
		t.Fatalf("Buffer() should report false on a node with no buffer set")
	}
}

func TestTextContentRefResolve(t *testing.T) {
	n := &Node{kind: KindCmdlineInput}
	tc := cmdline.New(4)
	n.SetTextContent(tc)

	got, ok := n.TextContent()
	if !ok || got != tc {
		t.Fatalf("TextContent() = (%v, %v), want (%v, true)", got, ok, tc)
	}
}

func TestScrollAndCursorPosAreIndependent(t *testing.T) {
	n := &Node{kind: KindWindowContent}
	n.SetScroll(10, 2)
	n.SetCursorPos(3, 7)

	line, col := n.Scroll()
	if line != 10 || col != 2 {
		t.Fatalf("Scroll() = (%d,%d), want (10,2)", line, col)
	}
	cl, cc := n.CursorPos()
	if cl != 3 || cc != 7 {
		t.Fatalf("CursorPos() = (%d,%d), want (3,7)", cl, cc)
	}
}

func TestChildrenReturnsCopy(t *testing.T) {
	parent := &Node{kind: KindWindow}
	child := &Node{kind: KindWindowContent, parent: parent}
	parent.children = []*Node{child}

	got := parent.Children()
	got[0] = nil
	if parent.children[0] != child {
		t.Fatalf("Children() leaked the backing slice")
	}
}

func TestShowInputToggle(t *testing.T) {
	n := &Node{kind: KindWindow}
	if n.ShowInput() {
		t.Fatalf("zero-value ShowInput() should be false")
	}
	n.SetShowInput(true)
	if !n.ShowInput() {
		t.Fatalf("SetShowInput(true) did not stick")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindRoot:             "root",
		KindWindow:           "window",
		KindWindowContent:    "window-content",
		KindCursor:           "cursor",
		KindCmdlineIndicator: "cmdline-indicator",
		KindCmdlineInput:     "cmdline-input",
		KindCmdlineMessage:   "cmdline-message",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
