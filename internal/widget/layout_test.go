package widget

import (
	"testing"

	"github.com/vimjs/vimjs/internal/cellgrid"
)

func TestSimpleLayoutEngineSplitsHorizontalByPercent(t *testing.T) {
	tr := NewTree()
	root := tr.Root()
	root.SetStyle(Style{Direction: Horizontal, Constraints: []Constraint{Percentage(70), Percentage(30)}})
	left, _ := tr.AddChild(root, KindWindow, Style{})
	right, _ := tr.AddChild(root, KindWindow, Style{})

	rects := SimpleLayoutEngine{}.Layout(root, cellgrid.RectFromSize(0, 0, 24, 100))

	if w := rects[left.ID()].Width(); w != 70 {
		t.Errorf("left width = %d, want 70", w)
	}
	if w := rects[right.ID()].Width(); w != 30 {
		t.Errorf("right width = %d, want 30", w)
	}
	if rects[left.ID()].Height() != 24 || rects[right.ID()].Height() != 24 {
		t.Errorf("split along Horizontal should not change height")
	}
	if rects[right.ID()].Left != rects[left.ID()].Right {
		t.Errorf("right.Left (%d) should abut left.Right (%d)", rects[right.ID()].Left, rects[left.ID()].Right)
	}
}

func TestSimpleLayoutEngineFixedLengthTakesPriority(t *testing.T) {
	tr := NewTree()
	root := tr.Root()
	root.SetStyle(Style{Direction: Vertical, Constraints: []Constraint{Length(1), Percentage(100)}})
	status, _ := tr.AddChild(root, KindWindow, Style{})
	body, _ := tr.AddChild(root, KindWindow, Style{})

	rects := SimpleLayoutEngine{}.Layout(root, cellgrid.RectFromSize(0, 0, 25, 80))

	if h := rects[status.ID()].Height(); h != 1 {
		t.Errorf("status height = %d, want 1", h)
	}
	if h := rects[body.ID()].Height(); h != 24 {
		t.Errorf("body height = %d, want 24 (remainder)", h)
	}
}

func TestSimpleLayoutEngineRecursesIntoChildren(t *testing.T) {
	tr := NewTree()
	root := tr.Root()
	root.SetStyle(Style{Direction: Horizontal, Constraints: []Constraint{Percentage(100)}})
	win, _ := tr.AddChild(root, KindWindow, Style{Direction: Vertical, Constraints: []Constraint{Percentage(50), Percentage(50)}})
	top, _ := tr.AddChild(win, KindWindowContent, Style{})
	bottom, _ := tr.AddChild(win, KindWindowContent, Style{})

	rects := SimpleLayoutEngine{}.Layout(root, cellgrid.RectFromSize(0, 0, 20, 80))

	if h := rects[top.ID()].Height(); h != 10 {
		t.Errorf("top height = %d, want 10", h)
	}
	if h := rects[bottom.ID()].Height(); h != 10 {
		t.Errorf("bottom height = %d, want 10", h)
	}
	if rects[win.ID()] != rects[root.ID()] {
		t.Errorf("single 100%% child should fill its parent's area")
	}
}

func TestSimpleLayoutEngineOvercommitShrinksFromEnd(t *testing.T) {
	tr := NewTree()
	root := tr.Root()
	root.SetStyle(Style{Direction: Horizontal, Constraints: []Constraint{Length(60), Length(60)}})
	a, _ := tr.AddChild(root, KindWindow, Style{})
	b, _ := tr.AddChild(root, KindWindow, Style{})

	rects := SimpleLayoutEngine{}.Layout(root, cellgrid.RectFromSize(0, 0, 10, 100))

	if w := rects[a.ID()].Width(); w != 60 {
		t.Errorf("a width = %d, want 60 (unshrunk)", w)
	}
	if w := rects[b.ID()].Width(); w != 40 {
		t.Errorf("b width = %d, want 40 (shrunk to absorb the 20-cell overcommit)", w)
	}
}

func TestSimpleLayoutEngineExtraChildrenReuseLastRect(t *testing.T) {
	tr := NewTree()
	root := tr.Root()
	root.SetStyle(Style{Direction: Horizontal, Constraints: []Constraint{Percentage(100)}})
	first, _ := tr.AddChild(root, KindWindow, Style{})
	extra, _ := tr.AddChild(root, KindWindow, Style{})

	rects := SimpleLayoutEngine{}.Layout(root, cellgrid.RectFromSize(0, 0, 10, 80))

	if rects[first.ID()].IsEmpty() {
		t.Errorf("first child should get the only constraint's rect")
	}
	if rects[extra.ID()] != rects[first.ID()] {
		t.Errorf("extra child beyond the constraint list should reuse the last rect, got %v want %v", rects[extra.ID()], rects[first.ID()])
	}
}

func TestSimpleLayoutEngineNoConstraintsGivesChildrenEmptyRect(t *testing.T) {
	tr := NewTree()
	root := tr.Root()
	child, _ := tr.AddChild(root, KindWindow, Style{})

	rects := SimpleLayoutEngine{}.Layout(root, cellgrid.RectFromSize(0, 0, 10, 80))

	if !rects[child.ID()].IsEmpty() {
		t.Errorf("child of a parent with no constraints should get an empty rect, got %v", rects[child.ID()])
	}
}
