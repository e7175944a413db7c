package termio

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/vimjs/vimjs/internal/cellgrid"
	"github.com/vimjs/vimjs/internal/keyevent"
)

// TcellWriter is the full terminal-UI TerminalWriter, backed by
// github.com/gdamore/tcell/v2: a thin screen wrapper plus the style/key
// conversion tables between tcell's types and cellgrid.Change /
// keyevent.Event.
type TcellWriter struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTcellWriter allocates (but does not initialise) a tcell-backed writer.
func NewTcellWriter() (*TcellWriter, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &TcellWriter{screen: screen}, nil
}

// Init implements TerminalWriter: enters raw mode and the alternate screen
// (tcell.Screen.Init's own contract), enables mouse and bracketed paste,
// and hides the cursor until the first Flush positions it.
func (w *TcellWriter) Init() error {
	if err := w.screen.Init(); err != nil {
		return err
	}
	w.screen.EnableMouse()
	w.screen.EnablePaste()
	w.screen.HideCursor()
	return nil
}

// Shutdown implements TerminalWriter.
func (w *TcellWriter) Shutdown() {
	w.screen.Fini()
}

// Size implements TerminalWriter.
func (w *TcellWriter) Size() (width, height int) {
	return w.screen.Size()
}

// Flush implements TerminalWriter, applying changes in order and calling
// Show once at the end (tcell batches the actual terminal write itself).
func (w *TcellWriter) Flush(changes []cellgrid.Change) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range changes {
		switch c.Kind {
		case cellgrid.ChangeCell:
			if c.Cell.IsContinuation() {
				continue
			}
			w.screen.SetContent(c.Pos.Col, c.Pos.Row, c.Cell.Rune, nil, convertStyle(c.Cell.Style))
		case cellgrid.ChangeCursor:
			if c.Cursor.Visible {
				w.screen.ShowCursor(c.Cursor.Pos.Col, c.Cursor.Pos.Row)
				w.screen.SetCursorStyle(convertCursorStyle(c.Cursor.Style))
			} else {
				w.screen.HideCursor()
			}
		}
	}
	w.screen.Show()
	return nil
}

// PollEvent implements TerminalWriter, translating tcell's event types
// into the abstract key/resize/EOF alphabet; unrecognised tcell event
// types (focus, raw paste markers) are swallowed and the next real event
// awaited.
func (w *TcellWriter) PollEvent() Event {
	for {
		ev := w.screen.PollEvent()
		if ev == nil {
			return Event{Kind: EventEOF}
		}
		switch e := ev.(type) {
		case *tcell.EventKey:
			return Event{Kind: EventKeyPress, Key: convertKey(e)}
		case *tcell.EventMouse:
			x, y := e.Position()
			return Event{Kind: EventKeyPress, Key: keyevent.Event{
				Mouse: &keyevent.MouseEvent{Row: y, Col: x, Pressed: e.Buttons() != tcell.ButtonNone},
			}}
		case *tcell.EventResize:
			width, height := e.Size()
			return Event{Kind: EventResize, Width: width, Height: height}
		default:
			continue
		}
	}
}

// PostEvent implements TerminalWriter. Only key-press events round-trip
// back through tcell's own queue; resize/EOF have no tcell counterpart to
// post.
func (w *TcellWriter) PostEvent(ev Event) {
	if ev.Kind != EventKeyPress || ev.Key.Mouse != nil {
		return
	}
	tk, r, mod := convertToTcellKey(ev.Key)
	_ = w.screen.PostEvent(tcell.NewEventKey(tk, r, mod)) // best-effort; queue may be full
}

// Beep implements TerminalWriter.
func (w *TcellWriter) Beep() {
	_ = w.screen.Beep() // best-effort; terminal may not support it
}

func convertStyle(s cellgrid.Style) tcell.Style {
	style := tcell.StyleDefault
	if !s.Foreground.IsDefault() {
		style = style.Foreground(convertColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		style = style.Background(convertColor(s.Background))
	}
	if s.Attributes.Has(cellgrid.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(cellgrid.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(cellgrid.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(cellgrid.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(cellgrid.AttrBlink) {
		style = style.Blink(true)
	}
	if s.Attributes.Has(cellgrid.AttrReverse) {
		style = style.Reverse(true)
	}
	if s.Attributes.Has(cellgrid.AttrStrikethrough) {
		style = style.StrikeThrough(true)
	}
	return style
}

func convertColor(c cellgrid.Color) tcell.Color {
	if c.Indexed {
		return tcell.PaletteColor(int(c.R))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func convertCursorStyle(s cellgrid.CursorStyle) tcell.CursorStyle {
	switch s {
	case cellgrid.CursorUnderline:
		return tcell.CursorStyleSteadyUnderline
	case cellgrid.CursorBar:
		return tcell.CursorStyleSteadyBar
	default:
		return tcell.CursorStyleSteadyBlock
	}
}

func convertKey(e *tcell.EventKey) keyevent.Event {
	mods := convertMod(e.Modifiers())
	if ctrlRune, ok := ctrlKeyRune(e.Key()); ok {
		return keyevent.NewRune(ctrlRune, mods|keyevent.ModCtrl)
	}
	switch e.Key() {
	case tcell.KeyRune:
		return keyevent.NewRune(e.Rune(), mods)
	case tcell.KeyEscape:
		return keyevent.NewSpecial(keyevent.KeyEscape, mods)
	case tcell.KeyEnter:
		return keyevent.NewSpecial(keyevent.KeyEnter, mods)
	case tcell.KeyTab:
		return keyevent.NewSpecial(keyevent.KeyTab, mods)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return keyevent.NewSpecial(keyevent.KeyBackspace, mods)
	case tcell.KeyDelete:
		return keyevent.NewSpecial(keyevent.KeyDelete, mods)
	case tcell.KeyUp:
		return keyevent.NewSpecial(keyevent.KeyUp, mods)
	case tcell.KeyDown:
		return keyevent.NewSpecial(keyevent.KeyDown, mods)
	case tcell.KeyLeft:
		return keyevent.NewSpecial(keyevent.KeyLeft, mods)
	case tcell.KeyRight:
		return keyevent.NewSpecial(keyevent.KeyRight, mods)
	case tcell.KeyHome:
		return keyevent.NewSpecial(keyevent.KeyHome, mods)
	case tcell.KeyEnd:
		return keyevent.NewSpecial(keyevent.KeyEnd, mods)
	case tcell.KeyPgUp:
		return keyevent.NewSpecial(keyevent.KeyPageUp, mods)
	case tcell.KeyPgDn:
		return keyevent.NewSpecial(keyevent.KeyPageDown, mods)
	default:
		return keyevent.NewSpecial(keyevent.KeyNone, mods)
	}
}

// ctrlKeyRune maps tcell's KeyCtrlA..KeyCtrlZ constants (tcell reports
// Ctrl+letter as a distinct Key, not KeyRune+ModCtrl) onto the lowercase
// rune keyevent.Event.IsCtrl expects to compare against.
func ctrlKeyRune(k tcell.Key) (rune, bool) {
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return rune('a' + (k - tcell.KeyCtrlA)), true
	}
	return 0, false
}

func convertMod(m tcell.ModMask) keyevent.Modifier {
	var out keyevent.Modifier
	if m&tcell.ModShift != 0 {
		out |= keyevent.ModShift
	}
	if m&tcell.ModAlt != 0 {
		out |= keyevent.ModAlt
	}
	if m&tcell.ModCtrl != 0 {
		out |= keyevent.ModCtrl
	}
	return out
}

func convertToTcellKey(e keyevent.Event) (tcell.Key, rune, tcell.ModMask) {
	var mod tcell.ModMask
	if e.Modifiers.Has(keyevent.ModShift) {
		mod |= tcell.ModShift
	}
	if e.Modifiers.Has(keyevent.ModAlt) {
		mod |= tcell.ModAlt
	}
	if e.Modifiers.Has(keyevent.ModCtrl) {
		mod |= tcell.ModCtrl
	}
	if e.IsRune() {
		if e.Modifiers.Has(keyevent.ModCtrl) && e.Rune >= 'a' && e.Rune <= 'z' {
			return tcell.KeyCtrlA + tcell.Key(e.Rune-'a'), 0, mod
		}
		return tcell.KeyRune, e.Rune, mod
	}
	switch e.Key {
	case keyevent.KeyEscape:
		return tcell.KeyEscape, 0, mod
	case keyevent.KeyEnter:
		return tcell.KeyEnter, 0, mod
	case keyevent.KeyTab:
		return tcell.KeyTab, 0, mod
	case keyevent.KeyBackspace:
		return tcell.KeyBackspace2, 0, mod
	case keyevent.KeyDelete:
		return tcell.KeyDelete, 0, mod
	case keyevent.KeyUp:
		return tcell.KeyUp, 0, mod
	case keyevent.KeyDown:
		return tcell.KeyDown, 0, mod
	case keyevent.KeyLeft:
		return tcell.KeyLeft, 0, mod
	case keyevent.KeyRight:
		return tcell.KeyRight, 0, mod
	case keyevent.KeyHome:
		return tcell.KeyHome, 0, mod
	case keyevent.KeyEnd:
		return tcell.KeyEnd, 0, mod
	case keyevent.KeyPageUp:
		return tcell.KeyPgUp, 0, mod
	case keyevent.KeyPageDown:
		return tcell.KeyPgDn, 0, mod
	default:
		return tcell.KeyRune, 0, mod
	}
}
