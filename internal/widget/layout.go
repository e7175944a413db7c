package widget

import "github.com/vimjs/vimjs/internal/cellgrid"

// LayoutEngine computes the actual on-screen rectangle of every node in
// a tree, given the root's total rectangle. Widgets never perform layout
// math themselves: they declare style records (percent/length
// constraints) and query the engine for actual rectangles during draw.
// This interface is the collaborator contract; SimpleLayoutEngine below
// is the one concrete implementation this module ships (a minimal
// percent/length splitter).
type LayoutEngine interface {
	// Layout returns every reachable node's rectangle, keyed by node id.
	Layout(root *Node, area cellgrid.Rect) map[uint64]cellgrid.Rect
}

// SimpleLayoutEngine splits a parent's inner rectangle among its children
// along Style.Direction using Style.Constraints, recursively.
type SimpleLayoutEngine struct{}

// Layout implements LayoutEngine.
func (SimpleLayoutEngine) Layout(root *Node, area cellgrid.Rect) map[uint64]cellgrid.Rect {
	out := make(map[uint64]cellgrid.Rect)
	layoutNode(root, area, out)
	return out
}

func layoutNode(n *Node, area cellgrid.Rect, out map[uint64]cellgrid.Rect) {
	out[n.id] = area
	if len(n.children) == 0 {
		return
	}
	rects := split(area, n.style)
	for i, c := range n.children {
		switch {
		case i < len(rects):
			layoutNode(c, rects[i], out)
		case len(rects) > 0:
			// More children than constraints: the cmdline subtree relies
			// on this to let its input and message nodes share the same
			// trailing rect: both occupy the one slot after the
			// indicator, and drawNode picks whichever the visibility flag
			// selects.
			layoutNode(c, rects[len(rects)-1], out)
		default:
			layoutNode(c, cellgrid.Rect{}, out)
		}
	}
}

// split divides area into len(style.Constraints) sub-rectangles along
// style.Direction. A Constraint with Length > 0 gets exactly that many
// cells (clamped to what remains); otherwise it gets Percent percent of
// the original total. Leftover cells from rounding go to the final
// constraint.
func split(area cellgrid.Rect, style Style) []cellgrid.Rect {
	n := len(style.Constraints)
	if n == 0 {
		return nil
	}
	total := area.Width()
	if style.Direction == Vertical {
		total = area.Height()
	}

	sizes := make([]int, n)
	used := 0
	for i, c := range style.Constraints {
		var sz int
		if c.Length > 0 {
			sz = c.Length
		} else {
			sz = total * c.Percent / 100
		}
		if sz < 0 {
			sz = 0
		}
		sizes[i] = sz
		used += sz
	}
	if rem := total - used; rem > 0 {
		sizes[n-1] += rem
	} else if rem < 0 {
		// Overcommitted: shrink from the last constraint forward.
		for i := n - 1; i >= 0 && rem < 0; i-- {
			cut := sizes[i]
			if cut > -rem {
				cut = -rem
			}
			sizes[i] -= cut
			rem += cut
		}
	}

	rects := make([]cellgrid.Rect, n)
	offset := 0
	for i, sz := range sizes {
		if style.Direction == Vertical {
			rects[i] = cellgrid.RectFromSize(area.Top+offset, area.Left, sz, area.Width())
		} else {
			rects[i] = cellgrid.RectFromSize(area.Top, area.Left+offset, area.Height(), sz)
		}
		offset += sz
	}
	return rects
}
