// Package cellgrid provides the cell/style/color vocabulary shared by the
// canvas and the widget tree. It mirrors the terminal's logical grid: one
// cell per display column, each carrying a rune, its display width, and a
// style. Colors, attributes and styles are opaque to callers above this
// package; display width is computed by the text/viewport layer, not here.
package cellgrid

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute is a bitset of text attributes.
type Attribute uint16

const (
	AttrNone Attribute = 0
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrStrikethrough
	AttrHidden
)

// Has reports whether attr is set.
func (a Attribute) Has(attr Attribute) bool { return a&attr != 0 }

// With returns a with attr added.
func (a Attribute) With(attr Attribute) Attribute { return a | attr }

// Without returns a with attr cleared.
func (a Attribute) Without(attr Attribute) Attribute { return a &^ attr }

// Color is either a 24-bit true color, an indexed palette color, or the
// terminal's default color.
type Color struct {
	R, G, B uint8
	Indexed bool
	Default bool
}

// ColorDefault is the terminal's default foreground/background.
var ColorDefault = Color{Default: true}

// ColorFromRGB builds a true color.
func ColorFromRGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// ColorFromIndex builds an indexed palette color.
func ColorFromIndex(idx uint8) Color { return Color{R: idx, Indexed: true} }

// ColorFromHex parses "#rgb" or "#rrggbb" (leading # optional).
func ColorFromHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	expand := func(c byte) (uint8, error) {
		v, err := strconv.ParseUint(string([]byte{c, c}), 16, 8)
		return uint8(v), err
	}
	switch len(hex) {
	case 3:
		r, err := expand(hex[0])
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		g, err := expand(hex[1])
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		b, err := expand(hex[2])
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		return Color{R: r, G: g, B: b}, nil
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	default:
		return Color{}, fmt.Errorf("invalid hex color length: %q", hex)
	}
}

// IsDefault reports whether c is the terminal's default color.
func (c Color) IsDefault() bool { return c.Default }

// Equals reports value equality between two colors.
func (c Color) Equals(o Color) bool {
	if c.Default != o.Default {
		return false
	}
	if c.Default {
		return true
	}
	if c.Indexed != o.Indexed {
		return false
	}
	if c.Indexed {
		return c.R == o.R
	}
	return c.R == o.R && c.G == o.G && c.B == o.B
}

// String renders the color as "#rrggbb", "idx(N)" or "default".
func (c Color) String() string {
	switch {
	case c.Default:
		return "default"
	case c.Indexed:
		return fmt.Sprintf("idx(%d)", c.R)
	default:
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
}

// Style is the visual style applied to a cell.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle is the terminal's unstyled default.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault, Attributes: AttrNone}
}

// WithForeground returns a copy of s with Foreground replaced.
func (s Style) WithForeground(c Color) Style { s.Foreground = c; return s }

// WithBackground returns a copy of s with Background replaced.
func (s Style) WithBackground(c Color) Style { s.Background = c; return s }

// WithAttributes returns a copy of s with Attributes replaced.
func (s Style) WithAttributes(a Attribute) Style { s.Attributes = a; return s }

// Merge overlays non-default fields of other onto s.
func (s Style) Merge(other Style) Style {
	result := s
	if !other.Foreground.IsDefault() {
		result.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		result.Background = other.Background
	}
	result.Attributes |= other.Attributes
	return result
}

// Equals reports value equality between two styles.
func (s Style) Equals(o Style) bool {
	return s.Foreground.Equals(o.Foreground) && s.Background.Equals(o.Background) && s.Attributes == o.Attributes
}

// Invert swaps foreground and background.
func (s Style) Invert() Style {
	return Style{Foreground: s.Background, Background: s.Foreground, Attributes: s.Attributes}
}

// Cell is a single terminal cell: a rune, its display width, and a style.
// Wide (width-2) runes are followed by a continuation cell.
type Cell struct {
	Rune  rune
	Width int
	Style Style
}

// EmptyCell returns a blank, default-styled cell.
func EmptyCell() Cell { return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()} }

// ContinuationCell marks the second column of a wide rune.
func ContinuationCell() Cell { return Cell{Rune: 0, Width: 0, Style: DefaultStyle()} }

// NewStyledCell builds a cell for r with the given style and display width.
func NewStyledCell(r rune, style Style, width int) Cell {
	return Cell{Rune: r, Width: width, Style: style}
}

// IsContinuation reports whether c is a wide-rune continuation cell.
func (c Cell) IsContinuation() bool { return c.Width == 0 && c.Rune == 0 }

// Equals reports value equality between two cells.
func (c Cell) Equals(o Cell) bool {
	return c.Rune == o.Rune && c.Width == o.Width && c.Style.Equals(o.Style)
}

// Pos is a zero-indexed (row, col) screen coordinate.
type Pos struct {
	Row, Col int
}

// Rect is a half-open screen rectangle: [Top,Bottom) x [Left,Right).
type Rect struct {
	Top, Left, Bottom, Right int
}

// RectFromSize builds a Rect from a top-left origin and a size.
func RectFromSize(top, left, height, width int) Rect {
	return Rect{Top: top, Left: left, Bottom: top + height, Right: left + width}
}

// Width returns the rectangle's width, or 0 if degenerate.
func (r Rect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the rectangle's height, or 0 if degenerate.
func (r Rect) Height() int {
	if r.Bottom <= r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Contains reports whether pos lies within r.
func (r Rect) Contains(pos Pos) bool {
	return pos.Row >= r.Top && pos.Row < r.Bottom && pos.Col >= r.Left && pos.Col < r.Right
}
