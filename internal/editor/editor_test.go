package editor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vimjs/vimjs/internal/cellgrid"
	"github.com/vimjs/vimjs/internal/keyevent"
	"github.com/vimjs/vimjs/internal/mode"
	"github.com/vimjs/vimjs/internal/pathcfg"
	"github.com/vimjs/vimjs/internal/termio"
)

// fixture drives a fully-wired Editor against a HeadlessWriter: tests
// post synthetic key events and assert on the writer's recorded cells,
// the message history, and the exit code once Run returns.
type fixture struct {
	ed     *Editor
	writer *termio.HeadlessWriter
	done   chan int
}

func start(t *testing.T, width, height int, cfg pathcfg.Config) *fixture {
	t.Helper()
	if cfg.ChannelBufSize == 0 {
		cfg.ChannelBufSize = 64
	}
	w := termio.NewHeadlessWriter(width, height)
	ed := New(cfg, w, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	f := &fixture{ed: ed, writer: w, done: make(chan int, 1)}
	go func() { f.done <- ed.Run(ctx) }()
	return f
}

// wait blocks until Run returns, failing the test if it never does.
func (f *fixture) wait(t *testing.T) int {
	t.Helper()
	select {
	case code := <-f.done:
		return code
	case <-time.After(3 * time.Second):
		t.Fatal("editor did not exit")
		return -1
	}
}

func (f *fixture) typeString(s string) {
	for _, r := range s {
		f.writer.PostEvent(termio.Event{Kind: termio.EventKeyPress, Key: keyevent.NewRune(r, keyevent.ModNone)})
	}
}

func (f *fixture) press(k keyevent.Key) {
	f.writer.PostEvent(termio.Event{Kind: termio.EventKeyPress, Key: keyevent.NewSpecial(k, keyevent.ModNone)})
}

func (f *fixture) ctrl(r rune) {
	f.writer.PostEvent(termio.Event{Kind: termio.EventKeyPress, Key: keyevent.NewRune(r, keyevent.ModCtrl)})
}

func waitUntil(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func historyContains(f *fixture, msg string) bool {
	for _, m := range f.ed.Messages().History() {
		if m == msg {
			return true
		}
	}
	return false
}

func TestStartupDefaultsAndCtrlDExit(t *testing.T) {
	f := start(t, 80, 24, pathcfg.Config{})
	f.ctrl('d')

	if code := f.wait(t); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if h := f.ed.Messages().History(); len(h) != 0 {
		t.Errorf("message history = %v, want empty", h)
	}
	buf := f.ed.Buffer()
	if buf == nil {
		t.Fatal("no default buffer")
	}
	if n := buf.LineCount(); n != 1 {
		t.Errorf("LineCount() = %d, want 1", n)
	}
	if line, err := buf.Line(0); err != nil || line != "" {
		t.Errorf("Line(0) = %q, %v, want empty", line, err)
	}
	if pos := f.writer.Cursor().Pos; pos != (cellgrid.Pos{}) {
		t.Errorf("cursor at %+v, want (0,0)", pos)
	}
}

func TestEOFExitsCleanly(t *testing.T) {
	f := start(t, 80, 24, pathcfg.Config{})
	f.writer.PostEvent(termio.Event{Kind: termio.EventEOF})
	if code := f.wait(t); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
}

func TestOpenFileRendersTopRow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.txt")
	if err := os.WriteFile(path, []byte("Hello, RSVIM!\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := start(t, 10, 10, pathcfg.Config{Options: pathcfg.Options{Files: []string{path}}})

	want := []rune("Hello, RSV")
	waitUntil(t, "file content on row 0", func() bool {
		for i, r := range want {
			if f.writer.Cell(cellgrid.Pos{Row: 0, Col: i}).Rune != r {
				return false
			}
		}
		return true
	})
	for row := 1; row < 9; row++ {
		if c := f.writer.Cell(cellgrid.Pos{Row: row, Col: 0}); c.Rune != ' ' {
			t.Errorf("row %d col 0 = %q, want blank", row, c.Rune)
		}
	}
	if pos := f.writer.Cursor().Pos; pos != (cellgrid.Pos{}) {
		t.Errorf("cursor at %+v, want (0,0)", pos)
	}

	f.ctrl('d')
	if code := f.wait(t); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
}

func TestJsEchoExCommand(t *testing.T) {
	f := start(t, 80, 24, pathcfg.Config{})

	f.typeString(":js Rsvim.cmd.echo(1)")
	f.press(keyevent.KeyEnter)

	waitUntil(t, `message history to contain "1"`, func() bool {
		return historyContains(f, "1")
	})
	waitUntil(t, "return to normal mode", func() bool {
		return f.ed.CurrentMode() == mode.Normal
	})
	if h := f.ed.Messages().History(); len(h) != 1 || h[0] != "1" {
		t.Errorf("message history = %v, want exactly [\"1\"]", h)
	}

	f.ctrl('d')
	f.wait(t)
	if line, err := f.ed.Buffer().Line(0); err != nil || line != "" {
		t.Errorf("buffer changed by :js echo: Line(0) = %q, %v", line, err)
	}
}

func TestInsertRoundTrip(t *testing.T) {
	f := start(t, 80, 24, pathcfg.Config{})

	f.typeString("iHello")
	f.typeString(", ")
	f.typeString("World")
	f.press(keyevent.KeyEscape)
	f.ctrl('d')
	f.wait(t)

	if line, err := f.ed.Buffer().Line(0); err != nil || line != "Hello, World" {
		t.Fatalf("Line(0) = %q, %v, want \"Hello, World\"", line, err)
	}
}

func TestInsertUndoCoalescesToOneEntry(t *testing.T) {
	f := start(t, 80, 24, pathcfg.Config{})

	f.typeString("iHello, World")
	f.press(keyevent.KeyEscape)
	// Consecutive same-line inserts coalesce, so a single undo restores
	// the empty buffer.
	f.typeString("u")
	f.ctrl('d')
	f.wait(t)

	if line, err := f.ed.Buffer().Line(0); err != nil || line != "" {
		t.Fatalf("Line(0) after undo = %q, %v, want empty", line, err)
	}
}

func TestConfigRegistersExCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "rsvim.js")
	src := `
Rsvim.cmd.echo("config-ran")
Rsvim.cmd.register("greet", {arity = "1"}, function(args, ctx)
  Rsvim.cmd.echo("hello " .. args[1])
end)
`
	if err := os.WriteFile(cfgPath, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	f := start(t, 80, 24, pathcfg.Config{ConfigPath: cfgPath})
	waitUntil(t, "config to run", func() bool {
		return historyContains(f, "config-ran")
	})

	f.typeString(":greet world")
	f.press(keyevent.KeyEnter)
	waitUntil(t, "registered command handler to fire", func() bool {
		return historyContains(f, "hello world")
	})

	f.ctrl('d')
	if code := f.wait(t); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
}

func TestTimerFiresAfterDelay(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "rsvim.js")
	src := `Rsvim.timer.setTimeout(30, function() Rsvim.cmd.echo("fired") end)`
	if err := os.WriteFile(cfgPath, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	f := start(t, 80, 24, pathcfg.Config{ConfigPath: cfgPath})
	waitUntil(t, "timer callback to fire", func() bool {
		return historyContains(f, "fired")
	})

	f.ctrl('d')
	f.wait(t)
}

func TestScriptExitCodePropagates(t *testing.T) {
	f := start(t, 80, 24, pathcfg.Config{})

	f.typeString(":js Rsvim.exit(3)")
	f.press(keyevent.KeyEnter)

	if code := f.wait(t); code != 3 {
		t.Fatalf("exit code = %d, want 3", code)
	}
}

func TestConfigErrorSurfacesOnMessageLine(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "rsvim.js")
	if err := os.WriteFile(cfgPath, []byte("this is not a script ("), 0o644); err != nil {
		t.Fatal(err)
	}

	f := start(t, 80, 24, pathcfg.Config{ConfigPath: cfgPath})
	waitUntil(t, "config error on message surface", func() bool {
		return len(f.ed.Messages().History()) > 0
	})

	f.ctrl('d')
	if code := f.wait(t); code != 0 {
		t.Fatalf("exit code = %d, want 0: a bad config must not abort startup", code)
	}
}
