// Package keyevent defines the abstract, already-decoded input event alphabet
// the mode state machine dispatches on. Raw terminal byte decoding happens
// below this layer; internal/termio is responsible for turning tcell's own
// decoded events into these types before they ever reach internal/mode.
package keyevent

import "fmt"

// Key identifies a non-printable key. Printable characters use KeyRune with
// Event.Rune set instead of adding a Key constant per character.
type Key uint8

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

func (k Key) String() string {
	switch k {
	case KeyNone:
		return "None"
	case KeyRune:
		return "Rune"
	case KeyEscape:
		return "Escape"
	case KeyEnter:
		return "Enter"
	case KeyTab:
		return "Tab"
	case KeyBackspace:
		return "Backspace"
	case KeyDelete:
		return "Delete"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyHome:
		return "Home"
	case KeyEnd:
		return "End"
	case KeyPageUp:
		return "PageUp"
	case KeyPageDown:
		return "PageDown"
	default:
		return "Unknown"
	}
}

// Modifier is a bitset of active modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

func (m Modifier) Has(mod Modifier) bool { return m&mod != 0 }

// Event is a single decoded key press, optionally a mouse event instead.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
	Mouse     *MouseEvent
}

// MouseEvent records a pointer action against the widget tree's coordinate
// space; no built-in mode acts on it.
type MouseEvent struct {
	Row, Col int
	Pressed  bool
}

// NewRune creates a printable-character event.
func NewRune(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecial creates a non-printable key event.
func NewSpecial(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune reports whether e carries a printable character.
func (e Event) IsRune() bool { return e.Key == KeyRune && e.Rune != 0 }

// IsCtrl reports whether e is Ctrl+r for the given rune (case-insensitive,
// matching terminal convention where Ctrl+letter arrives as a control code).
func (e Event) IsCtrl(r rune) bool {
	return e.Modifiers.Has(ModCtrl) && (e.Rune == r || e.Rune == r-'a'+'A')
}

func (e Event) String() string {
	if e.IsRune() {
		return fmt.Sprintf("Rune(%q,mods=%d)", e.Rune, e.Modifiers)
	}
	return fmt.Sprintf("%s(mods=%d)", e.Key, e.Modifiers)
}
