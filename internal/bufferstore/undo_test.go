package bufferstore

import "testing"

func TestUndoLogPushClearsRedo(t *testing.T) {
	u := NewUndoLog(10)
	u.Push(UndoEntry{Kind: EditInsert, NewText: "a"})
	if _, err := u.PopUndo(); err != nil {
		t.Fatalf("PopUndo: %v", err)
	}
	u.redo = append(u.redo, UndoEntry{Kind: EditInsert, NewText: "a"})
	u.Push(UndoEntry{Kind: EditInsert, NewText: "b"})
	if u.RedoDepth() != 0 {
		t.Fatalf("RedoDepth() = %d, want 0 after new push", u.RedoDepth())
	}
}

func TestUndoLogBoundedCapacity(t *testing.T) {
	u := NewUndoLog(2)
	u.Push(UndoEntry{NewText: "1"})
	u.Push(UndoEntry{NewText: "2"})
	u.Push(UndoEntry{NewText: "3"})
	if u.UndoDepth() != 2 {
		t.Fatalf("UndoDepth() = %d, want 2", u.UndoDepth())
	}
	e, _ := u.PopUndo()
	if e.NewText != "3" {
		t.Fatalf("most recent entry = %q, want %q (oldest evicted)", e.NewText, "3")
	}
}

func TestUndoLogEmptyErrors(t *testing.T) {
	u := NewUndoLog(10)
	if _, err := u.PopUndo(); err != ErrNothingToUndo {
		t.Fatalf("PopUndo() = %v, want ErrNothingToUndo", err)
	}
	if _, err := u.PopRedo(); err != ErrNothingToRedo {
		t.Fatalf("PopRedo() = %v, want ErrNothingToRedo", err)
	}
}
