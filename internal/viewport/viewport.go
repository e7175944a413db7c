// Package viewport implements the viewport engine: given a widget's
// inner rectangle, text, and wrap/line-break/scroll-off options, it
// produces the set of visible rows (each mapped to a buffer line and a
// character span) and the on-screen position of the cursor. Compute is a
// pure function of (text, options, rectangle, top-line, top-column);
// recomputation is idempotent.
package viewport

import "unicode"

// DefaultBreakChars are the characters line-break wrapping may split on
// when no custom set is configured: ASCII whitespace and common
// punctuation.
var DefaultBreakChars = []rune(" \t,.;:!?)]}")

// Options configures the layout algorithm.
type Options struct {
	Wrap      bool
	LineBreak bool
	BreakAt   []rune
	ScrollOff int
}

func (o Options) breakChars() []rune {
	if o.BreakAt != nil {
		return o.BreakAt
	}
	return DefaultBreakChars
}

func (o Options) isBreakChar(r rune) bool {
	for _, b := range o.breakChars() {
		if r == b {
			return true
		}
	}
	return unicode.IsSpace(r)
}

// BufferView is the narrow read-only contract the viewport engine needs
// from a text buffer, kept separate from bufferstore.Buffer so the
// algorithm can be tested against fakes without constructing a real
// buffer.
type BufferView interface {
	LineCount() int
	Line(i int) (string, error)
	// LineCumulativeWidths returns, for line i, the display width of the
	// first k runes for every k in [0, len(line)] (length = rune count+1).
	LineCumulativeWidths(i int) ([]int, error)
}

// RowSpan is one rendered row: the buffer line it comes from, and the
// half-open character range [FirstChar, LastChar) of that line that the
// row displays.
type RowSpan struct {
	Line      int
	FirstChar int
	LastChar  int
}

// Viewport is the computed set of visible rows, top to bottom.
type Viewport struct {
	TopLine   int
	TopColumn int
	Rows      []RowSpan
}

// CursorViewport locates the cursor within a computed Viewport.
type CursorViewport struct {
	Line   int
	Char   int
	Column int
	Row    int
}

// Compute lays out buf starting at (topLine, topColumn) into a widget of
// the given width/height.
func Compute(width, height int, buf BufferView, opts Options, topLine, topColumn int) (*Viewport, error) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	vp := &Viewport{TopLine: topLine, TopColumn: topColumn}

	line := topLine
	for len(vp.Rows) < height && line < buf.LineCount() {
		cum, err := buf.LineCumulativeWidths(line)
		if err != nil {
			return nil, err
		}
		content, err := buf.Line(line)
		if err != nil {
			return nil, err
		}
		runes := []rune(content)

		if !opts.Wrap {
			vp.Rows = append(vp.Rows, layoutNoWrap(line, runes, cum, topColumn, width))
			line++
			continue
		}

		rows := layoutWrapped(line, runes, cum, opts, width)
		for _, r := range rows {
			if len(vp.Rows) >= height {
				break
			}
			vp.Rows = append(vp.Rows, r)
		}
		line++
	}
	return vp, nil
}

func layoutNoWrap(line int, runes []rune, cum []int, topColumn, width int) RowSpan {
	first := firstAtOrAfter(cum, topColumn)
	last := lastWithinWidth(cum, first, width)
	return RowSpan{Line: line, FirstChar: first, LastChar: last}
}

func layoutWrapped(line int, runes []rune, cum []int, opts Options, width int) []RowSpan {
	var rows []RowSpan
	n := len(runes)
	charIdx := 0
	for {
		rowStart := charIdx
		colStart := cum[rowStart]
		next := rowStart
		lastBreak := -1
		for next < n && cum[next+1]-colStart <= width {
			if opts.LineBreak && opts.isBreakChar(runes[next]) {
				lastBreak = next + 1
			}
			next++
		}
		if next >= n {
			rows = append(rows, RowSpan{Line: line, FirstChar: rowStart, LastChar: n})
			break
		}
		breakAt := next
		if opts.LineBreak && lastBreak > rowStart {
			breakAt = lastBreak
		}
		if breakAt == rowStart {
			// A single character (or word) wider than the widget: fall
			// back to a mid-word break so layout always makes progress.
			breakAt = rowStart + 1
		}
		rows = append(rows, RowSpan{Line: line, FirstChar: rowStart, LastChar: breakAt})
		charIdx = breakAt
		if charIdx >= n {
			break
		}
	}
	return rows
}

// firstAtOrAfter returns the smallest index i such that cum[i] >= target,
// clamped to the last valid index.
func firstAtOrAfter(cum []int, target int) int {
	for i, w := range cum {
		if w >= target {
			return i
		}
	}
	return len(cum) - 1
}

// lastWithinWidth returns the largest index j >= start such that
// cum[j]-cum[start] <= width.
func lastWithinWidth(cum []int, start, width int) int {
	base := cum[start]
	last := start
	for j := start; j < len(cum); j++ {
		if cum[j]-base > width {
			break
		}
		last = j
	}
	return last
}

// Locate finds where (line, char) falls within an already-computed
// viewport, returning ok=false if the position isn't currently visible.
func Locate(vp *Viewport, buf BufferView, line, char int) (CursorViewport, bool) {
	for rowIdx, row := range vp.Rows {
		if row.Line != line {
			continue
		}
		if char < row.FirstChar || char > row.LastChar {
			continue
		}
		if char == row.LastChar && rowIdx+1 < len(vp.Rows) && vp.Rows[rowIdx+1].Line == line {
			// The boundary character belongs to the next wrapped row.
			continue
		}
		cum, err := buf.LineCumulativeWidths(line)
		if err != nil {
			return CursorViewport{}, false
		}
		col := cum[char] - cum[row.FirstChar]
		return CursorViewport{Line: line, Char: char, Column: col, Row: rowIdx}, true
	}
	return CursorViewport{}, false
}
