package mode

import (
	"testing"

	"github.com/vimjs/vimjs/internal/keyevent"
	"github.com/vimjs/vimjs/internal/operation"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager()
	RegisterDefaults(m)
	if err := m.Switch(Normal); err != nil {
		t.Fatalf("Switch(Normal): %v", err)
	}
	return m
}

func TestInitialModeIsNormal(t *testing.T) {
	m := newTestManager(t)
	if m.CurrentName() != Normal {
		t.Fatalf("CurrentName() = %q, want %q", m.CurrentName(), Normal)
	}
}

func TestNormalModeMovementKeys(t *testing.T) {
	m := newTestManager(t)
	ops := m.Current().Handle(keyevent.NewRune('l', keyevent.ModNone), m.Context())
	if len(ops) != 1 || ops[0].Kind != operation.KindMoveBy || ops[0].DeltaChars != 1 {
		t.Fatalf("unexpected ops for 'l': %+v", ops)
	}
}

func TestNormalModeIEntersInsert(t *testing.T) {
	m := newTestManager(t)
	ops := m.Current().Handle(keyevent.NewRune('i', keyevent.ModNone), m.Context())
	if len(ops) != 1 || ops[0].Kind != operation.KindGotoMode || ops[0].TargetMode != Insert {
		t.Fatalf("unexpected ops for 'i': %+v", ops)
	}
}

func TestSwitchCallsEnterAndExit(t *testing.T) {
	m := newTestManager(t)
	var entered, exited string
	m.OnChange(func(from, to Mode) {
		if from != nil {
			exited = from.Name()
		}
		entered = to.Name()
	})
	if err := m.Switch(Insert); err != nil {
		t.Fatalf("Switch: %v", err)
	}
	if entered != Insert || exited != Normal {
		t.Fatalf("entered=%q exited=%q", entered, exited)
	}
	if m.Previous().Name() != Normal {
		t.Fatalf("Previous() = %q, want %q", m.Previous().Name(), Normal)
	}
}

func TestSwitchUnknownMode(t *testing.T) {
	m := newTestManager(t)
	if err := m.Switch("bogus"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestPushPopRestoresMode(t *testing.T) {
	m := newTestManager(t)
	if err := m.Push(OperatorPending); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if m.CurrentName() != OperatorPending {
		t.Fatalf("CurrentName() = %q, want %q", m.CurrentName(), OperatorPending)
	}
	if m.StackDepth() != 1 {
		t.Fatalf("StackDepth() = %d, want 1", m.StackDepth())
	}
	if err := m.Pop(); err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if m.CurrentName() != Normal {
		t.Fatalf("CurrentName() after pop = %q, want %q", m.CurrentName(), Normal)
	}
}

func TestPopEmptyStackErrors(t *testing.T) {
	m := newTestManager(t)
	if err := m.Pop(); err == nil {
		t.Fatal("expected error popping empty stack")
	}
}

func TestInsertModeEscapeReturnsOperation(t *testing.T) {
	m := newTestManager(t)
	m.Switch(Insert)
	ops := m.Current().Handle(keyevent.NewSpecial(keyevent.KeyEscape, keyevent.ModNone), m.Context())
	if len(ops) != 1 || ops[0].Kind != operation.KindGotoMode || ops[0].TargetMode != Normal {
		t.Fatalf("unexpected ops for Escape: %+v", ops)
	}
}

func TestInsertModePrintableChar(t *testing.T) {
	m := newTestManager(t)
	m.Switch(Insert)
	ops := m.Current().Handle(keyevent.NewRune('x', keyevent.ModNone), m.Context())
	if len(ops) != 1 || ops[0].Kind != operation.KindInsertAtCursor || ops[0].Text != "x" {
		t.Fatalf("unexpected ops for 'x': %+v", ops)
	}
}

func TestCmdlineExEnterConfirms(t *testing.T) {
	m := newTestManager(t)
	m.Switch(CmdlineEx)
	ops := m.Current().Handle(keyevent.NewSpecial(keyevent.KeyEnter, keyevent.ModNone), m.Context())
	if len(ops) != 2 || ops[0].Kind != operation.KindConfirmExCommand || ops[1].TargetMode != Normal {
		t.Fatalf("unexpected ops for Enter in cmdline-ex: %+v", ops)
	}
}

func TestCtrlDQuits(t *testing.T) {
	m := newTestManager(t)
	ops := m.Current().Handle(keyevent.Event{Key: keyevent.KeyRune, Rune: 'd', Modifiers: keyevent.ModCtrl}, m.Context())
	if len(ops) != 1 || ops[0].Kind != operation.KindEditorQuit {
		t.Fatalf("unexpected ops for Ctrl+D: %+v", ops)
	}
}
