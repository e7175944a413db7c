package bufferstore

import "testing"

func TestManagerCreateAssignsMonotonicIDs(t *testing.T) {
	m := NewManager()
	b1 := m.Create()
	b2 := m.Create()
	if b1.ID() == b2.ID() {
		t.Fatal("expected distinct ids")
	}
	if b2.ID() != b1.ID()+1 {
		t.Fatalf("expected monotonic ids, got %d then %d", b1.ID(), b2.ID())
	}
}

func TestManagerCurrentTracksLatestCreate(t *testing.T) {
	m := NewManager()
	m.Create()
	b2 := m.Create()
	cur, ok := m.Current()
	if !ok || cur.ID() != b2.ID() {
		t.Fatalf("Current() = %v, want %v", cur, b2.ID())
	}
}

func TestManagerSetCurrentUnknown(t *testing.T) {
	m := NewManager()
	if err := m.SetCurrent(999); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

func TestManagerCloseReassignsCurrent(t *testing.T) {
	m := NewManager()
	b1 := m.Create()
	b2 := m.Create()
	if err := m.Close(b2.ID()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	cur, ok := m.Current()
	if !ok || cur.ID() != b1.ID() {
		t.Fatalf("Current() after close = %v, want %v", cur, b1.ID())
	}
	if _, ok := m.Get(b2.ID()); ok {
		t.Fatal("closed buffer should not be retrievable")
	}
}

func TestManagerFindByFilename(t *testing.T) {
	m := NewManager()
	b := m.Create(WithFilename("/tmp/x.txt"))
	found, ok := m.FindByFilename("/tmp/x.txt")
	if !ok || found.ID() != b.ID() {
		t.Fatalf("FindByFilename failed: %v, %v", found, ok)
	}
	if _, ok := m.FindByFilename("/tmp/nope.txt"); ok {
		t.Fatal("expected no match")
	}
}

func TestManagerList(t *testing.T) {
	m := NewManager()
	b1 := m.Create()
	b2 := m.Create()
	ids := m.List()
	if len(ids) != 2 || ids[0] != b1.ID() || ids[1] != b2.ID() {
		t.Fatalf("List() = %v", ids)
	}
}
