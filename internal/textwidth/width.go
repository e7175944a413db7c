// Package textwidth computes the display width of buffer characters under
// Vim conventions and segments text into grapheme-cluster-like cells
// for the canvas. Display width is a property of the text module, not the
// canvas: callers hand textwidth a rune/line and get back columns.
package textwidth

import (
	"fmt"
	"unicode"

	"github.com/rivo/uniseg"
)

// LineEnding mirrors bufferstore's line-ending options; duplicated here as a
// small value type to avoid an import cycle (textwidth is a leaf package).
type LineEnding uint8

const (
	LineEndingLF LineEnding = iota
	LineEndingCRLF
	LineEndingCR
)

// CharWidth returns the display width, in columns, of a single character at
// the given column offset within its line. column is needed because tab
// width depends on the current column. tabStop must be positive.
//
// Rules:
//   - '\t' expands to (tabStop - column%tabStop).
//   - '\n' has width 0.
//   - '\r' has width 0 on LF/CRLF line endings, and its printable
//     caret-notation width ("^M" = 2) on CR-formatted buffers, where it is
//     the line terminator rather than a stray control character.
//   - Other C0/DEL control codes render as their 2-column caret-notation
//     string (e.g. "^A").
//   - Everything else uses Unicode East Asian Width via grapheme-aware
//     segmentation: wide (CJK) runes are 2 columns, narrow runes are 1.
func CharWidth(r rune, column int, tabStop int, ending LineEnding) int {
	if tabStop < 1 {
		tabStop = 8
	}
	switch r {
	case '\t':
		return tabStop - column%tabStop
	case '\n':
		return 0
	case '\r':
		if ending == LineEndingCR {
			return len(CaretNotation(r))
		}
		return 0
	}
	if isControl(r) {
		return len(CaretNotation(r))
	}
	return RuneWidth(r)
}

// isControl reports whether r is a C0 control code or DEL.
func isControl(r rune) bool {
	return (r >= 0x00 && r < 0x20) || r == 0x7F
}

// CaretNotation renders a control character the way Vim displays it, e.g.
// NUL -> "^@", TAB -> "^I" (not used for real tabs, only literal renders),
// DEL -> "^?".
func CaretNotation(r rune) string {
	switch {
	case r == 0x7F:
		return "^?"
	case r < 0x20:
		return fmt.Sprintf("^%c", rune('@')+r)
	default:
		return string(r)
	}
}

// RuneWidth returns the monospace display width of a single rune, ignoring
// the editor-specific control/tab/newline rules CharWidth layers on top.
// Wide (East-Asian "W"/"F") runes are 2 columns; NUL, combining marks
// (Mn/Me) and format characters (Cf) are 0; other runes get uniseg's
// width (1 for ordinary narrow text). CharWidth special-cases tabs and
// control codes before calling here.
func RuneWidth(r rune) int {
	if r == 0 {
		return 0
	}
	if unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf) && r != '\t' {
		return 0
	}
	return uniseg.StringWidth(string(r))
}

// FirstGrapheme splits the grapheme cluster at the start of s, returning the
// cluster, the remainder, and the cluster's display width. State should be
// -1 on the first call for a given string and the returned state fed back on
// subsequent calls, allowing streaming segmentation across chunk
// boundaries.
func FirstGrapheme(s string, state int) (cluster, rest string, width int, newState int) {
	return uniseg.FirstGraphemeClusterInString(s, state)
}

// LineWidth sums the display width of every character in line, starting at
// column 0, honoring the tab/control/CJK rules above. It is an O(n),
// uncached whole-line computation; the width cache (rope.WidthIndex) does
// not call it.
func LineWidth(line string, tabStop int, ending LineEnding) int {
	width := 0
	state := -1
	for len(line) > 0 {
		var cluster string
		var w int
		cluster, line, w, state = uniseg.FirstGraphemeClusterInString(line, state)
		r := firstRune(cluster)
		if isTabOrControlOrCR(r) {
			width += CharWidth(r, width, tabStop, ending)
		} else {
			width += w
		}
	}
	return width
}

func isTabOrControlOrCR(r rune) bool {
	return r == '\t' || r == '\n' || r == '\r' || isControl(r)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
