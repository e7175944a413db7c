package engine

import (
	"context"
	"testing"
	"time"

	"github.com/vimjs/vimjs/internal/cmdline"
	"github.com/vimjs/vimjs/internal/script"
)

func startEngine(t *testing.T, e *Engine) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go e.Run(ctx)
	return cancel
}

func TestEvalModuleEchoPushesMessage(t *testing.T) {
	b := script.NewBridge(8)
	e := New(b, nil)
	defer e.Close()
	cancel := startEngine(t, e)
	defer cancel()

	tc := cmdline.New(cmdline.DefaultHistoryCapacity)
	e.AttachMessages(tc)

	if err := e.EvalModule(`Rsvim.cmd.echo(1)`); err != nil {
		t.Fatalf("EvalModule: %v", err)
	}
	msg, ok := tc.LastMessage()
	if !ok || msg != "1" {
		t.Fatalf("LastMessage() = %q, %v, want \"1\", true", msg, ok)
	}
}

func TestEvalModuleRegisterCommandReachesRegistry(t *testing.T) {
	b := script.NewBridge(8)
	e := New(b, nil)
	defer e.Close()
	cancel := startEngine(t, e)
	defer cancel()

	err := e.EvalModule(`
		Rsvim.cmd.register("greet", {arity = "?", bang = true}, function(args, ctx) end)
	`)
	if err != nil {
		t.Fatalf("EvalModule: %v", err)
	}
	cmd, ok := b.Registry().Lookup("greet")
	if !ok {
		t.Fatal("expected \"greet\" registered")
	}
	if cmd.Attributes.Arity != script.ArityOptional || !cmd.Attributes.BangAllowed {
		t.Fatalf("unexpected attributes: %+v", cmd.Attributes)
	}
}

func TestInvokeExCommandCallsRegisteredHandler(t *testing.T) {
	b := script.NewBridge(8)
	e := New(b, nil)
	defer e.Close()
	cancel := startEngine(t, e)
	defer cancel()

	err := e.EvalModule(`
		seen = nil
		Rsvim.cmd.register("greet", {arity = "*"}, function(args, ctx)
			seen = args[1]
		end)
	`)
	if err != nil {
		t.Fatalf("EvalModule: %v", err)
	}

	ctx, dispatchCancel := context.WithTimeout(context.Background(), time.Second)
	defer dispatchCancel()
	if err := b.Dispatch(ctx, "greet world", script.ExCommandContext{}, e.EvalModule); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	// Give the engine goroutine a moment to drain the ex-command-request
	// and run the handler; poll until the handler's side effect lands,
	// retrying on the "not yet" error rather than any error.
	deadline := time.Now().Add(time.Second)
	var lastErr error
	for time.Now().Before(deadline) {
		lastErr = e.EvalModule(`if seen ~= "world" then error("not yet") end`)
		if lastErr == nil {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for handler invocation, last error: %v", lastErr)
}

func TestSetTimeoutArmsLoopSideTimer(t *testing.T) {
	b := script.NewBridge(8)
	e := New(b, nil)
	defer e.Close()
	cancel := startEngine(t, e)
	defer cancel()

	if err := e.EvalModule(`Rsvim.timer.setTimeout(10, function() end)`); err != nil {
		t.Fatalf("EvalModule: %v", err)
	}

	select {
	case msg := <-b.FromRuntime():
		if msg.Kind != script.OutboundTimeoutRequest {
			t.Fatalf("Kind = %v, want timeout-request", msg.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for timeout-request")
	}
}

func TestExitPostsExitRequest(t *testing.T) {
	b := script.NewBridge(8)
	e := New(b, nil)
	defer e.Close()
	cancel := startEngine(t, e)
	defer cancel()

	if err := e.EvalModule(`Rsvim.exit(3)`); err != nil {
		t.Fatalf("EvalModule: %v", err)
	}

	select {
	case msg := <-b.FromRuntime():
		if msg.Kind != script.OutboundExitRequest || msg.ExitCode != 3 {
			t.Fatalf("unexpected message: %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for exit-request")
	}
}
