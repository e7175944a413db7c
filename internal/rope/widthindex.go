package rope

import "github.com/vimjs/vimjs/internal/textwidth"

// WidthIndex caches, per line, the cumulative display width from column 0 up
// to and including each character. Entries are invalidated lazily: an edited
// line is simply dropped from the cache and recomputed on next read,
// satisfying the buffer invariant that cache entries always agree with the
// rope for every line they cover.
type WidthIndex struct {
	tabStop int
	ending  textwidth.LineEnding
	widths  map[int][]int // line -> cumulative width after each rune
}

// NewWidthIndex creates an empty cache for a rope using the given text
// options.
func NewWidthIndex(tabStop int, ending textwidth.LineEnding) *WidthIndex {
	return &WidthIndex{tabStop: tabStop, ending: ending, widths: make(map[int][]int)}
}

// Invalidate drops the cached entry for line, forcing recomputation on next
// access. Callers invoke this for every line touched by an insert or delete.
func (w *WidthIndex) Invalidate(line int) {
	delete(w.widths, line)
}

// InvalidateFrom drops cached entries for every line >= line, used when an
// edit changes the total line count and shifts subsequent line numbers.
func (w *WidthIndex) InvalidateFrom(line int) {
	for l := range w.widths {
		if l >= line {
			delete(w.widths, l)
		}
	}
}

// ensure computes and caches the cumulative width vector for r's line, if
// not already cached.
func (w *WidthIndex) ensure(r *Rope, line int) []int {
	if cached, ok := w.widths[line]; ok {
		return cached
	}
	content := []rune(r.Line(line))
	cum := make([]int, len(content)+1)
	col := 0
	for i, ch := range content {
		col += textwidth.CharWidth(ch, col, w.tabStop, w.ending)
		cum[i+1] = col
	}
	w.widths[line] = cum
	return cum
}

// LineWidth returns the total display width of line.
func (w *WidthIndex) LineWidth(r *Rope, line int) int {
	cum := w.ensure(r, line)
	return cum[len(cum)-1]
}

// WidthBefore returns the cumulative display width of line up to (not
// including) the character at index char.
func (w *WidthIndex) WidthBefore(r *Rope, line, char int) int {
	cum := w.ensure(r, line)
	if char < 0 {
		char = 0
	}
	if char >= len(cum) {
		char = len(cum) - 1
	}
	return cum[char]
}

// CumulativeWidths returns a copy of the cumulative-width vector for line
// (length = rune count + 1, entry i = display width of the first i
// characters). Used by the viewport engine to lay out a line without
// re-deriving width arithmetic itself.
func (w *WidthIndex) CumulativeWidths(r *Rope, line int) []int {
	cum := w.ensure(r, line)
	out := make([]int, len(cum))
	copy(out, cum)
	return out
}

// CharAtWidth returns the character index on line whose cumulative width is
// the largest value <= target, used to map a display column back to a
// buffer position (e.g. resolving a mouse click or a 'g0'-style motion).
func (w *WidthIndex) CharAtWidth(r *Rope, line, target int) int {
	cum := w.ensure(r, line)
	best := 0
	for i, width := range cum {
		if width > target {
			break
		}
		best = i
	}
	return best
}
