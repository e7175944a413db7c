package script

import (
	"context"
	"testing"
)

func TestParseExCommandLineSplitsNameAndRest(t *testing.T) {
	name, bang, rest := ParseExCommandLine("write! file.txt")
	if name != "write" || !bang || rest != "file.txt" {
		t.Fatalf("ParseExCommandLine = %q %v %q, want write true file.txt", name, bang, rest)
	}
}

func TestParseExCommandLineNoBangNoArgs(t *testing.T) {
	name, bang, rest := ParseExCommandLine("  quit  ")
	if name != "quit" || bang || rest != "" {
		t.Fatalf("ParseExCommandLine = %q %v %q, want quit false \"\"", name, bang, rest)
	}
}

func TestSplitArgsSplitsOnWhitespace(t *testing.T) {
	got := SplitArgs("  a   b\tc ")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("SplitArgs = %#v, want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SplitArgs = %#v, want %#v", got, want)
		}
	}
}

func TestDispatchEvaluatesReservedJsAsModule(t *testing.T) {
	b := NewBridge(4)
	var evaluated string
	err := b.Dispatch(context.Background(), "js 1 + 1", ExCommandContext{}, func(source string) error {
		evaluated = source
		return nil
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if evaluated != "1 + 1" {
		t.Fatalf("evaluated = %q, want %q", evaluated, "1 + 1")
	}
}

func TestDispatchUnknownCommandErrors(t *testing.T) {
	b := NewBridge(4)
	err := b.Dispatch(context.Background(), "bogus", ExCommandContext{}, func(string) error { return nil })
	if err == nil {
		t.Fatal("Dispatch(bogus): want error for unregistered command")
	}
}

func TestDispatchSendsExCommandRequestToRuntime(t *testing.T) {
	b := NewBridge(4)
	if err := b.Registry().Register(Command{Name: "write", Attributes: Attributes{Arity: ArityOptional, BangAllowed: true}}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := b.Dispatch(context.Background(), "write! out.txt", ExCommandContext{BufferID: 1, WindowID: 2}, nil)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	select {
	case msg := <-b.FromLoop():
		if msg.Kind != InboundExCommandRequest {
			t.Fatalf("message kind = %v, want InboundExCommandRequest", msg.Kind)
		}
	default:
		t.Fatal("no message posted to runtime")
	}
}

func TestDispatchRejectsBangWhenNotAllowed(t *testing.T) {
	b := NewBridge(4)
	_ = b.Registry().Register(Command{Name: "write", Attributes: Attributes{Arity: ArityAny, BangAllowed: false}})
	err := b.Dispatch(context.Background(), "write!", ExCommandContext{}, nil)
	if err == nil {
		t.Fatal("Dispatch(write! with BangAllowed=false): want error")
	}
}

func TestDispatchRejectsArityMismatch(t *testing.T) {
	b := NewBridge(4)
	_ = b.Registry().Register(Command{Name: "quit", Attributes: Attributes{Arity: ArityZero}})
	err := b.Dispatch(context.Background(), "quit now", ExCommandContext{}, nil)
	if err == nil {
		t.Fatal("Dispatch(quit now) against ArityZero: want error")
	}
}

func TestBridgeNextIDIsMonotonic(t *testing.T) {
	b := NewBridge(1)
	first := b.NextID()
	second := b.NextID()
	if second <= first {
		t.Fatalf("NextID not monotonic: %d then %d", first, second)
	}
}

func TestPostToLoopAndFromRuntime(t *testing.T) {
	b := NewBridge(1)
	if err := b.PostToLoop(context.Background(), TickAgainRequest()); err != nil {
		t.Fatalf("PostToLoop: %v", err)
	}
	select {
	case msg := <-b.FromRuntime():
		if msg.Kind != OutboundTickAgainRequest {
			t.Fatalf("message kind = %v, want OutboundTickAgainRequest", msg.Kind)
		}
	default:
		t.Fatal("no message available from runtime")
	}
}

func TestPostAfterCloseReturnsError(t *testing.T) {
	b := NewBridge(1)
	b.Close()
	if err := b.PostToLoop(context.Background(), TickAgainRequest()); err != ErrBridgeClosed {
		t.Fatalf("PostToLoop after Close = %v, want ErrBridgeClosed", err)
	}
	if err := b.PostToRuntime(context.Background(), TickAgainResponse()); err != ErrBridgeClosed {
		t.Fatalf("PostToRuntime after Close = %v, want ErrBridgeClosed", err)
	}
}
