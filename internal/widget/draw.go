package widget

import (
	"github.com/vimjs/vimjs/internal/cellgrid"
	"github.com/vimjs/vimjs/internal/textwidth"
	"github.com/vimjs/vimjs/internal/viewport"
)

// Render walks tree depth-first from its root, drawing every widget onto
// canvas using the rectangles engine computed for area: each widget,
// given its actual rectangle, emits cells. Cursor nodes set the canvas's
// cursor descriptor instead of drawing cells.
func Render(tree *Tree, engine LayoutEngine, canvas *cellgrid.Canvas, area cellgrid.Rect) {
	rects := engine.Layout(tree.Root(), area)
	Walk(tree.Root(), func(n *Node, _ int) {
		rect, ok := rects[n.id]
		if !ok || rect.IsEmpty() {
			return
		}
		drawNode(n, rect, canvas)
	})
}

func drawNode(n *Node, rect cellgrid.Rect, canvas *cellgrid.Canvas) {
	switch n.kind {
	case KindWindowContent:
		drawWindowContent(n, rect, canvas)
	case KindCursor:
		drawCursor(n, rect, canvas)
	case KindCmdlineIndicator:
		drawText(":", rect, canvas)
	case KindCmdlineInput:
		parent := n.parent
		if parent == nil || !parent.showInput {
			return
		}
		if tc, ok := n.TextContent(); ok {
			drawText(tc.Text(), rect, canvas)
		}
	case KindCmdlineMessage:
		parent := n.parent
		if parent == nil || parent.showInput {
			return
		}
		if tc, ok := n.TextContent(); ok {
			if msg, ok := tc.LastMessage(); ok {
				drawText(msg, rect, canvas)
			}
		}
	default:
		// KindRoot and KindWindow are pure layout containers; they draw
		// nothing themselves.
	}
}

func drawWindowContent(n *Node, rect cellgrid.Rect, canvas *cellgrid.Canvas) {
	buf, ok := n.Buffer()
	if !ok {
		return
	}
	topLine, topColumn := n.Scroll()
	view := bufferView{buf}
	vp, err := viewport.Compute(rect.Width(), rect.Height(), view, n.viewportOpts, topLine, topColumn)
	if err != nil {
		return
	}
	n.SetLastViewport(vp)

	style := cellgrid.DefaultStyle()
	for rowIdx, row := range vp.Rows {
		line, err := buf.Line(row.Line)
		if err != nil {
			continue
		}
		runes := []rune(line)
		col := 0
		for i := row.FirstChar; i < row.LastChar && i < len(runes); i++ {
			w := textwidth.RuneWidth(runes[i])
			if w <= 0 {
				continue
			}
			pos := cellgrid.Pos{Row: rect.Top + rowIdx, Col: rect.Left + col}
			canvas.DrawCell(pos, cellgrid.NewStyledCell(runes[i], style, w))
			for k := 1; k < w; k++ {
				canvas.DrawCell(cellgrid.Pos{Row: pos.Row, Col: pos.Col + k}, cellgrid.ContinuationCell())
			}
			col += w
		}
	}
}

func drawCursor(n *Node, rect cellgrid.Rect, canvas *cellgrid.Canvas) {
	window := n.parent
	if window == nil {
		return
	}
	// The cursor node's parent is window-content when nested under a
	// window; resolve the owning buffer through it.
	content := window
	if content.kind == KindWindow {
		for _, c := range content.children {
			if c.kind == KindWindowContent {
				content = c
				break
			}
		}
	}
	buf, ok := content.Buffer()
	if !ok {
		return
	}
	vp := content.lastViewport
	if vp == nil {
		return
	}
	line, char := content.CursorPos()
	cv, ok := viewport.Locate(vp, bufferView{buf}, line, char)
	if !ok {
		canvas.SetCursor(cellgrid.Pos{}, false, cellgrid.CursorBlock, false)
		return
	}
	pos := cellgrid.Pos{Row: rect.Top + cv.Row, Col: rect.Left + cv.Column}
	canvas.SetCursor(pos, true, cellgrid.CursorBlock, false)
}

func drawText(s string, rect cellgrid.Rect, canvas *cellgrid.Canvas) {
	style := cellgrid.DefaultStyle()
	col := 0
	for _, r := range s {
		if col >= rect.Width() {
			break
		}
		w := textwidth.RuneWidth(r)
		if w <= 0 {
			w = 1
		}
		canvas.DrawCell(cellgrid.Pos{Row: rect.Top, Col: rect.Left + col}, cellgrid.NewStyledCell(r, style, w))
		col += w
	}
}

// bufferView adapts a *bufferstore.Buffer to viewport.BufferView without
// creating an import from internal/viewport back to internal/bufferstore.
type bufferView struct {
	buf interface {
		LineCount() int
		Line(i int) (string, error)
		LineCumulativeWidths(i int) ([]int, error)
	}
}

func (v bufferView) LineCount() int                             { return v.buf.LineCount() }
func (v bufferView) Line(i int) (string, error)                 { return v.buf.Line(i) }
func (v bufferView) LineCumulativeWidths(i int) ([]int, error)   { return v.buf.LineCumulativeWidths(i) }
