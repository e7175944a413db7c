// Package rope implements the text store behind a buffer: a sequence of
// lines supporting amortised-fast insert/delete/line-lookup. Positions are
// (line, char) pairs where char is a rune index within the line, never a
// byte offset. This keeps every caller above this package free of UTF-8
// arithmetic. Content is stored as a slice of rune-decoded lines; the
// editor's unit of addressing is (line, char), so a byte-indexed tree
// would push byte/rune conversion onto every caller.
package rope

import (
	"strings"
)

// Rope is a mutable, line-oriented text store. The zero value holds no
// lines; New returns the empty rope, a single empty line (mirroring an
// empty buffer having line 0).
type Rope struct {
	lines [][]rune
}

// New returns an empty rope (one empty line).
func New() *Rope {
	return &Rope{lines: [][]rune{{}}}
}

// FromString builds a rope from s, splitting on '\n' (CR and CRLF sequences
// are expected to already be normalized by the caller per the buffer's
// line-ending option; rope itself is line-ending agnostic).
func FromString(s string) *Rope {
	if s == "" {
		return New()
	}
	parts := strings.Split(s, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return &Rope{lines: lines}
}

// LineCount returns the number of lines (newlines + 1).
func (r *Rope) LineCount() int { return len(r.lines) }

// Line returns the content of line i (without its terminator). Panics if i
// is out of range; callers are expected to check LineCount first.
func (r *Rope) Line(i int) string { return string(r.lines[i]) }

// LineLen returns the number of runes on line i.
func (r *Rope) LineLen(i int) int { return len(r.lines[i]) }

// String returns the entire rope joined with '\n'.
func (r *Rope) String() string {
	parts := make([]string, len(r.lines))
	for i, l := range r.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

// IsEmpty reports whether the rope has no content at all (single empty
// line).
func (r *Rope) IsEmpty() bool {
	return len(r.lines) == 1 && len(r.lines[0]) == 0
}

// Append inserts text fragment at the very end of the rope, splitting on
// embedded newlines. This is the append-load primitive used while a buffer
// streams a file in.
func (r *Rope) Append(fragment string) {
	if fragment == "" {
		return
	}
	parts := strings.Split(fragment, "\n")
	lastIdx := len(r.lines) - 1
	r.lines[lastIdx] = append(r.lines[lastIdx], []rune(parts[0])...)
	for _, p := range parts[1:] {
		r.lines = append(r.lines, []rune(p))
	}
}

// Insert inserts text at (line, char), splitting lines on embedded
// newlines. line must be < LineCount(); char must be <= LineLen(line).
func (r *Rope) Insert(line, char int, text string) {
	if text == "" {
		return
	}
	target := r.lines[line]
	before := append([]rune{}, target[:char]...)
	after := append([]rune{}, target[char:]...)

	parts := strings.Split(text, "\n")
	if len(parts) == 1 {
		merged := append(before, []rune(parts[0])...)
		merged = append(merged, after...)
		r.lines[line] = merged
		return
	}

	newLines := make([][]rune, 0, len(parts))
	newLines = append(newLines, append(before, []rune(parts[0])...))
	for _, p := range parts[1 : len(parts)-1] {
		newLines = append(newLines, []rune(p))
	}
	last := append([]rune(parts[len(parts)-1]), after...)
	newLines = append(newLines, last)

	r.lines = spliceLines(r.lines, line, line+1, newLines)
}

// Delete removes n characters starting at (line, char), joining lines when
// the deletion crosses a line boundary.
func (r *Rope) Delete(line, char, n int) {
	if n <= 0 {
		return
	}
	remaining := n
	curLine, curChar := line, char

	for remaining > 0 {
		lineRunes := r.lines[curLine]
		avail := len(lineRunes) - curChar
		if remaining <= avail {
			r.lines[curLine] = append(lineRunes[:curChar], lineRunes[curChar+remaining:]...)
			return
		}
		// Consume to end of line plus the newline joining the next line.
		remaining -= avail + 1
		if curLine+1 >= len(r.lines) {
			// Nothing left to join; clamp.
			r.lines[curLine] = lineRunes[:curChar]
			return
		}
		joined := append(append([]rune{}, lineRunes[:curChar]...), r.lines[curLine+1]...)
		r.lines = spliceLines(r.lines, curLine, curLine+2, [][]rune{joined})
	}
}

// Replace deletes [startLine,startChar)..[endLine,endChar) and inserts text
// in its place as a single logical edit.
func (r *Rope) Replace(startLine, startChar, endLine, endChar int, text string) {
	n := r.CharsBetween(startLine, startChar, endLine, endChar)
	r.Delete(startLine, startChar, n)
	r.Insert(startLine, startChar, text)
}

// CharsBetween counts the number of characters (including line-join
// newlines) between two positions, for use by Replace/undo bookkeeping.
func (r *Rope) CharsBetween(startLine, startChar, endLine, endChar int) int {
	if startLine == endLine {
		return endChar - startChar
	}
	count := r.LineLen(startLine) - startChar + 1
	for l := startLine + 1; l < endLine; l++ {
		count += r.LineLen(l) + 1
	}
	count += endChar
	return count
}

// TextBetween returns the text between two positions (inclusive of internal
// line joins), used to capture undo payloads before a delete.
func (r *Rope) TextBetween(startLine, startChar, endLine, endChar int) string {
	if startLine == endLine {
		return string(r.lines[startLine][startChar:endChar])
	}
	var b strings.Builder
	b.WriteString(string(r.lines[startLine][startChar:]))
	for l := startLine + 1; l < endLine; l++ {
		b.WriteByte('\n')
		b.WriteString(string(r.lines[l]))
	}
	b.WriteByte('\n')
	b.WriteString(string(r.lines[endLine][:endChar]))
	return b.String()
}

func spliceLines(lines [][]rune, start, end int, replacement [][]rune) [][]rune {
	out := make([][]rune, 0, len(lines)-(end-start)+len(replacement))
	out = append(out, lines[:start]...)
	out = append(out, replacement...)
	out = append(out, lines[end:]...)
	return out
}
