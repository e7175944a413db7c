package script

import "testing"

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	cmd := Command{Name: "write", Attributes: Attributes{Arity: ArityOptional, BangAllowed: true}}
	if err := r.Register(cmd); err != nil {
		t.Fatalf("Register: %v", err)
	}
	got, ok := r.Lookup("write")
	if !ok || got.Name != "write" {
		t.Fatalf("Lookup(write) = %+v, %v", got, ok)
	}
}

func TestRegisterRejectsReservedName(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Command{Name: "js"})
	if err != ErrReservedName {
		t.Fatalf("Register(js) error = %v, want ErrReservedName", err)
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	cmd := Command{Name: "write"}
	if err := r.Register(cmd); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := r.Register(cmd); err == nil {
		t.Fatal("second Register: want error for duplicate name")
	}
}

func TestRegisterForceOverwriteReplaces(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Command{Name: "write", Attributes: Attributes{Arity: ArityZero}}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	replacement := Command{Name: "write", Attributes: Attributes{Arity: ArityAny}, Options: Options{ForceOverwrite: true}}
	if err := r.Register(replacement); err != nil {
		t.Fatalf("Register with ForceOverwrite: %v", err)
	}
	got, _ := r.Lookup("write")
	if got.Attributes.Arity != ArityAny {
		t.Fatalf("Lookup(write).Attributes.Arity = %v, want ArityAny", got.Attributes.Arity)
	}
}

func TestRegisterAlias(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Command{Name: "write", Options: Options{Alias: "w"}}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	got, ok := r.Lookup("w")
	if !ok || got.Name != "write" {
		t.Fatalf("Lookup(w) = %+v, %v, want write command", got, ok)
	}
}

func TestUnregisterRemovesCommandAndAlias(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(Command{Name: "write", Options: Options{Alias: "w"}})
	if !r.Unregister("write") {
		t.Fatal("Unregister(write) = false, want true")
	}
	if _, ok := r.Lookup("write"); ok {
		t.Fatal("Lookup(write) after Unregister: found, want gone")
	}
	if _, ok := r.Lookup("w"); ok {
		t.Fatal("Lookup(w) after Unregister(write): found, want alias gone too")
	}
}

func TestUnregisterUnknownReturnsFalse(t *testing.T) {
	r := NewRegistry()
	if r.Unregister("nope") {
		t.Fatal("Unregister(nope) = true, want false")
	}
}

func TestAllReturnsRegisteredCommands(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(Command{Name: "write"})
	_ = r.Register(Command{Name: "quit"})
	all := r.All()
	if len(all) != 2 {
		t.Fatalf("All() has %d entries, want 2", len(all))
	}
}

func TestArityValidate(t *testing.T) {
	cases := []struct {
		arity Arity
		argc  int
		want  bool
	}{
		{ArityZero, 0, true}, {ArityZero, 1, false},
		{ArityOne, 1, true}, {ArityOne, 0, false}, {ArityOne, 2, false},
		{ArityOptional, 0, true}, {ArityOptional, 1, true}, {ArityOptional, 2, false},
		{ArityOneOrMore, 0, false}, {ArityOneOrMore, 3, true},
		{ArityAny, 0, true}, {ArityAny, 5, true},
	}
	for _, c := range cases {
		if got := c.arity.Validate(c.argc); got != c.want {
			t.Errorf("Arity(%s).Validate(%d) = %v, want %v", c.arity, c.argc, got, c.want)
		}
	}
}

func TestParseArityRoundTripsSymbols(t *testing.T) {
	for _, sym := range []string{"0", "1", "?", "+", "*"} {
		if got := ParseArity(sym).String(); got != sym {
			t.Errorf("ParseArity(%q).String() = %q, want %q", sym, got, sym)
		}
	}
}
