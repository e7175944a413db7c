// Package eventloop implements the editor's cooperative, single-threaded
// event loop: one goroutine owns all editor state and drains a fixed set
// of sources (terminal input, the script runtime's outbound channel,
// async file-I/O completions, and timer expiries), applying at most one
// batch of operations per source before redrawing. There is no frame
// ticker; the loop tracks a dirty flag and redraws only when something
// actually changed.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/vimjs/vimjs/internal/applog"
	"github.com/vimjs/vimjs/internal/bufferstore"
	"github.com/vimjs/vimjs/internal/cellgrid"
	"github.com/vimjs/vimjs/internal/cmdline"
	"github.com/vimjs/vimjs/internal/mode"
	"github.com/vimjs/vimjs/internal/operation"
	"github.com/vimjs/vimjs/internal/pathcfg"
	"github.com/vimjs/vimjs/internal/script"
	"github.com/vimjs/vimjs/internal/termio"
	"github.com/vimjs/vimjs/internal/viewport"
	"github.com/vimjs/vimjs/internal/widget"
)

// ScriptEngine is the loop's narrow view of the embedded scripting
// runtime: enough to drive it on its own goroutine (Run), tear it down
// (Close), and evaluate an inline module for the reserved "js" ex
// command (EvalModule). internal/script/engine.Engine satisfies this;
// the loop never imports that package directly so a different concrete
// runtime can be substituted without touching eventloop.
type ScriptEngine interface {
	Run(ctx context.Context)
	Close()
	EvalModule(source string) error
}

// Loop owns every piece of mutable editor state (buffers, widget tree,
// modes, cmdline, canvas) and is the sole operation.Target
// implementation.
type Loop struct {
	buffers  *bufferstore.Manager
	tree     *widget.Tree
	layout   widget.LayoutEngine
	modes    *mode.Manager
	executor *operation.Executor
	bridge   *script.Bridge
	engine   ScriptEngine

	cmdlineText *cmdline.TextContent
	canvas      *cellgrid.Canvas
	writer      termio.TerminalWriter
	log         *applog.Logger
	cfg         pathcfg.Config

	ctx      context.Context
	exitCode int
	dirty    bool
	fds      *fdTable

	loadEvents chan loadEvent
	timerFire  chan timerFired
}

// New wires a Loop from its already-constructed collaborators. Building
// the widget tree, buffer manager, mode table and so on is
// internal/editor's job; Loop itself only needs them assembled.
func New(cfg pathcfg.Config, writer termio.TerminalWriter, bridge *script.Bridge, engine ScriptEngine, log *applog.Logger) *Loop {
	if log == nil {
		log = applog.Null()
	}
	width, height := writer.Size()

	l := &Loop{
		buffers:     bufferstore.NewManager(),
		tree:        widget.NewTree(),
		layout:      widget.SimpleLayoutEngine{},
		modes:       mode.NewManager(),
		executor:    operation.NewExecutor(),
		bridge:      bridge,
		engine:      engine,
		cmdlineText: cmdline.New(cmdline.DefaultHistoryCapacity),
		canvas:      cellgrid.New(width, height),
		writer:      writer,
		log:         log.WithComponent("eventloop"),
		cfg:         cfg,
		ctx:         context.Background(),
		fds:         newFDTable(),
		loadEvents:  make(chan loadEvent, 16),
		timerFire:   make(chan timerFired, 16),
	}

	mode.RegisterDefaults(l.modes)
	_ = l.modes.Switch(mode.Normal)
	l.buildDefaultTree()
	return l
}

// buildDefaultTree lays out the startup widget tree: a single window
// covering the whole terminal, plus one empty buffer attached to that
// window's content with the cursor at (0,0). The root's second slot,
// Length(1), belongs to the command-line indicator/input/message subtree;
// SimpleLayoutEngine gives Percentage(100) every row, so that subtree is
// laid out with zero rows.
func (l *Loop) buildDefaultTree() {
	root := l.tree.Root()
	root.SetStyle(widget.Style{
		Direction:   widget.Vertical,
		Constraints: []widget.Constraint{widget.Percentage(100), widget.Length(1)},
	})

	win, err := l.tree.AddChild(root, widget.KindWindow, widget.Style{
		Direction:   widget.Vertical,
		Constraints: []widget.Constraint{widget.Percentage(100)},
	})
	if err != nil {
		l.log.Error("build default tree: %v", err)
		return
	}
	content, err := l.tree.AddChild(win, widget.KindWindowContent, widget.Style{
		Direction:   widget.Vertical,
		Constraints: []widget.Constraint{widget.Percentage(100)},
	})
	if err != nil {
		l.log.Error("build default tree: %v", err)
		return
	}
	if _, err := l.tree.AddChild(content, widget.KindCursor, widget.Style{}); err != nil {
		l.log.Error("build default tree: %v", err)
	}
	_ = l.tree.SetCurrentWindow(win)

	buf := l.buffers.Create()
	content.SetBuffer(buf)
	content.SetViewportOptions(viewport.Options{})
	content.SetCursorPos(0, 0)

	_, input, message, err := l.tree.AddCmdline(root)
	if err != nil {
		l.log.Error("build default tree: %v", err)
		return
	}
	input.SetTextContent(l.cmdlineText)
	message.SetTextContent(l.cmdlineText)
}

// Messages returns the command-line message/history surface, so the
// caller (internal/editor) can attach it to the scripting engine's
// cmd.echo binding before Run starts.
func (l *Loop) Messages() *cmdline.TextContent { return l.cmdlineText }

// CurrentMode reports the active mode's name. Safe to call from any
// goroutine; mode.Manager carries its own lock.
func (l *Loop) CurrentMode() string { return l.modes.CurrentName() }

// ExitCode reports the code Quit was last called with, for the caller
// (internal/editor, cmd/vimjs) to propagate as the process exit status.
func (l *Loop) ExitCode() int { return l.exitCode }

// OpenFiles opens every path named on the command line, in order. A
// failure opening one path is logged and surfaced on the command-line
// message area rather than aborting the remaining opens.
func (l *Loop) OpenFiles(paths []string) {
	for _, p := range paths {
		if err := l.OpenFile(p); err != nil {
			l.cmdlineText.PushMessage(err.Error())
			l.log.Warn("open %q: %v", p, err)
		}
	}
}

// OpenFile binds path to a buffer and, if the path names an existing
// file, starts an async load. A path that doesn't exist yet is bound but
// left empty, matching BindFilename's ready=false case.
func (l *Loop) OpenFile(path string) error {
	if existing, ok := l.buffers.FindByFilename(path); ok {
		l.attachToCurrentWindow(existing)
		return nil
	}

	buf := l.buffers.Create()
	ready, err := buf.BindFilename(path, fileExists)
	if err != nil {
		return fmt.Errorf("eventloop: open %q: %w", path, err)
	}
	l.attachToCurrentWindow(buf)
	if !ready {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("eventloop: open %q: %w", path, err)
	}
	id := buf.ID()
	go l.runLoad(id, f)
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (l *Loop) attachToCurrentWindow(buf *bufferstore.Buffer) {
	content := l.currentContent()
	if content == nil {
		return
	}
	content.SetBuffer(buf)
	content.SetCursorPos(0, 0)
	content.SetScroll(0, 0)
	l.dirty = true
}

// loadEvent is posted from an async-load goroutine onto Loop.loadEvents:
// a bytes-loaded progress report, or a terminal done/err entry.
type loadEvent struct {
	bufferID bufferstore.ID
	bytes    int64
	done     bool
	err      error
}

func (l *Loop) runLoad(id bufferstore.ID, f *os.File) {
	defer f.Close()
	buf, ok := l.buffers.Get(id)
	if !ok {
		return
	}
	progress := func(n int64) {
		select {
		case l.loadEvents <- loadEvent{bufferID: id, bytes: n}:
		case <-l.ctx.Done():
		}
	}
	err := buf.Load(l.ctx, f, progress)
	select {
	case l.loadEvents <- loadEvent{bufferID: id, done: true, err: err}:
	case <-l.ctx.Done():
	}
}

func (l *Loop) handleLoadEvent(ev loadEvent) {
	if _, ok := l.buffers.Get(ev.bufferID); !ok {
		return
	}
	if ev.done {
		if ev.err != nil && !errors.Is(ev.err, context.Canceled) {
			l.cmdlineText.PushMessage(fmt.Sprintf("load failed: %v", ev.err))
			l.log.Warn("load failed for buffer %d: %v", ev.bufferID, ev.err)
		}
	}
	// A mid-load progress report also marks the loop dirty, so a large
	// file's partial content is visible while it streams in.
	l.dirty = true
}

// timerFired is posted onto Loop.timerFire once armTimer's sleep
// elapses.
type timerFired struct {
	id       uint64
	expire   time.Time
	delay    time.Duration
	repeated bool
}

// armTimer sleeps until start+delay, then posts a timerFired. Re-arming
// a repeated timer always passes the previous expiry as start (never
// time.Now()), so repeated timers keep the original schedule rather than
// drifting by however long the loop took to notice each fire.
func (l *Loop) armTimer(id uint64, start time.Time, delay time.Duration, repeated bool) {
	target := start.Add(delay)
	wait := time.Until(target)
	if wait < 0 {
		wait = 0
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-l.ctx.Done():
		return
	}
	select {
	case l.timerFire <- timerFired{id: id, expire: target, delay: delay, repeated: repeated}:
	case <-l.ctx.Done():
	}
}

func (l *Loop) handleTimerFired(tf timerFired) {
	msg := script.TimeoutResponse(tf.id, tf.expire, tf.delay, tf.repeated)
	if err := l.bridge.PostToRuntime(l.ctx, msg); err != nil {
		return
	}
	if tf.repeated {
		go l.armTimer(tf.id, tf.expire, tf.delay, true)
	}
	l.dirty = true
}

// handleRuntimeMessage answers the runtime's outbound requests.
func (l *Loop) handleRuntimeMessage(msg script.OutboundMessage) {
	switch msg.Kind {
	case script.OutboundTimeoutRequest:
		go l.armTimer(msg.TimerID, msg.Start, msg.Delay, msg.Repeated)
	case script.OutboundExitRequest:
		l.Quit(msg.ExitCode)
	case script.OutboundLoadImportRequest:
		go l.resolveImport(msg.TaskID, msg.Specifier)
	case script.OutboundTickAgainRequest:
		_ = l.bridge.PostToRuntime(l.ctx, script.TickAgainResponse())
	case script.OutboundFSOpenRequest:
		go l.resolveFSOpen(msg.TaskID, msg.Path, msg.Flags)
	case script.OutboundFSReadRequest:
		go l.resolveFSRead(msg.TaskID, msg.FD, msg.BufferSize)
	case script.OutboundFSWriteRequest:
		go l.resolveFSWrite(msg.FD, msg.Bytes)
	}
}

// resolveImport reads specifier off disk. Module resolution policy
// beyond "read this path" belongs to the scripting runtime, not the
// loop.
func (l *Loop) resolveImport(taskID uint64, specifier string) {
	data, err := os.ReadFile(specifier)
	if err != nil {
		l.log.Warn("import %q: %v", specifier, err)
		_ = l.bridge.PostToRuntime(l.ctx, script.LoadImportResponse(taskID, nil, false))
		return
	}
	_ = l.bridge.PostToRuntime(l.ctx, script.LoadImportResponse(taskID, data, true))
}

func (l *Loop) resolveFSOpen(taskID uint64, path string, flags int) {
	f, err := os.OpenFile(path, translateFSFlags(flags), 0o644)
	if err != nil {
		l.log.Warn("fs.open %q: %v", path, err)
		_ = l.bridge.PostToRuntime(l.ctx, script.FSOpenResponse(taskID, nil, false))
		return
	}
	fd := l.fds.open(f)
	_ = l.bridge.PostToRuntime(l.ctx, script.FSOpenResponse(taskID, []byte(strconv.Itoa(fd)), true))
}

func (l *Loop) resolveFSRead(taskID uint64, fd, bufferSize int) {
	f, ok := l.fds.get(fd)
	if !ok {
		_ = l.bridge.PostToRuntime(l.ctx, script.FSReadResponse(taskID, nil, 0, false))
		return
	}
	if bufferSize <= 0 {
		bufferSize = 4096
	}
	buf := make([]byte, bufferSize)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, os.ErrClosed) && n == 0 {
		_ = l.bridge.PostToRuntime(l.ctx, script.FSReadResponse(taskID, nil, 0, false))
		return
	}
	_ = l.bridge.PostToRuntime(l.ctx, script.FSReadResponse(taskID, buf[:n], n, true))
}

// resolveFSWrite sends no reply: a script-initiated write is
// fire-and-forget.
func (l *Loop) resolveFSWrite(fd int, data []byte) {
	f, ok := l.fds.get(fd)
	if !ok {
		return
	}
	if _, err := f.Write(data); err != nil {
		l.log.Warn("fs.write fd=%d: %v", fd, err)
	}
}

// translateFSFlags maps the small open-mode bitset a script passes to
// Rsvim.fs.open onto the stdlib's os.OpenFile flags: 0 read-only, 1
// write (create/truncate), 2 append.
func translateFSFlags(flags int) int {
	switch flags {
	case 1:
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case 2:
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		return os.O_RDONLY
	}
}

// fdTable hands out small integer handles for script-opened files, kept
// loop-side so a script never receives a real *os.File.
type fdTable struct {
	mu    sync.Mutex
	files map[int]*os.File
	next  int
}

func newFDTable() *fdTable {
	return &fdTable{files: make(map[int]*os.File), next: 3}
}

func (t *fdTable) open(f *os.File) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	fd := t.next
	t.next++
	t.files[fd] = f
	return fd
}

func (t *fdTable) get(fd int) (*os.File, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	f, ok := t.files[fd]
	return f, ok
}

// pollInput runs PollEvent in a loop on its own goroutine, feeding a
// buffered channel the select loop drains. PollEvent already blocks
// until the writer has something, so backpressure here just means the
// writer's caller waits, not that an event is silently lost.
func (l *Loop) pollInput() <-chan termio.Event {
	out := make(chan termio.Event, 64)
	go func() {
		defer close(out)
		for {
			ev := l.writer.PollEvent()
			select {
			case out <- ev:
			case <-l.ctx.Done():
				return
			}
			if ev.Kind == termio.EventEOF {
				return
			}
		}
	}()
	return out
}

func (l *Loop) handleTerminalEvent(ev termio.Event) {
	switch ev.Kind {
	case termio.EventResize:
		l.canvas.Resize(ev.Width, ev.Height)
		l.dirty = true
	case termio.EventEOF:
		l.Quit(0)
	case termio.EventKeyPress:
		current := l.modes.Current()
		if current == nil {
			return
		}
		l.ApplyOps(current.Handle(ev.Key, l.modes.Context()))
	}
}

// ApplyOps runs every operation a single input event (or script
// callback) produced through the active mode's HandleOp, then through
// the executor. The whole batch is applied before the next redraw, and
// the loop redraws at most once for it.
func (l *Loop) ApplyOps(ops []operation.Operation) {
	if len(ops) == 0 {
		return
	}
	for _, raw := range ops {
		translated := []operation.Operation{raw}
		if current := l.modes.Current(); current != nil {
			translated = current.HandleOp(raw, l.modes.Context())
		}
		for _, op := range translated {
			if err := l.executor.Apply(l, op); err != nil {
				l.log.Warn("apply %s: %v", op.Kind, err)
			}
		}
	}
	l.dirty = true
}

// Run drives the loop's five-way select (terminal input, the
// runtime-to-loop channel, file-load events, timer fires, and
// cancellation) until the active mode becomes mode.Quit or ctx is
// cancelled, returning the exit code Quit was called with.
func (l *Loop) Run(ctx context.Context) int {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	l.ctx = runCtx

	go l.engine.Run(runCtx)
	defer l.engine.Close()

	if err := l.writer.Init(); err != nil {
		l.log.Error("terminal init: %v", err)
		return 1
	}
	defer l.writer.Shutdown()

	l.OpenFiles(l.cfg.Files)
	l.runStartupScript()

	l.redraw()
	inputEvents := l.pollInput()

	for l.modes.CurrentName() != mode.Quit {
		select {
		case <-runCtx.Done():
			return l.exitCode
		case ev, ok := <-inputEvents:
			if !ok {
				return l.exitCode
			}
			l.handleTerminalEvent(ev)
		case msg, ok := <-l.bridge.FromRuntime():
			if !ok {
				continue
			}
			l.handleRuntimeMessage(msg)
		case le := <-l.loadEvents:
			l.handleLoadEvent(le)
		case tf := <-l.timerFire:
			l.handleTimerFired(tf)
		}
		if l.dirty {
			l.redraw()
			l.dirty = false
		}
	}
	return l.exitCode
}

// runStartupScript evaluates the discovered rsvim.{ts,js} config script
// on the runtime before the first tick, so user code that registers
// ex-commands or timers is in place before any input is handled. A
// missing ConfigPath means no config was found; a script error is
// surfaced on the message area and never aborts startup.
func (l *Loop) runStartupScript() {
	path := l.cfg.ConfigPath
	if path == "" {
		return
	}
	src, err := os.ReadFile(path)
	if err != nil {
		l.cmdlineText.PushMessage(fmt.Sprintf("config %s: %v", path, err))
		l.log.Warn("config %q: %v", path, err)
		return
	}
	if err := l.engine.EvalModule(string(src)); err != nil {
		l.cmdlineText.PushMessage(err.Error())
		l.log.Warn("config %q: %v", path, err)
	}
}

// redraw recomputes the widget layout, draws it onto the canvas, and
// hands the terminal writer the resulting diff.
func (l *Loop) redraw() {
	w, h := l.canvas.Size()
	area := cellgrid.RectFromSize(0, 0, h, w)
	widget.Render(l.tree, l.layout, l.canvas, area)
	l.applyModeCursorStyle()

	changes := l.canvas.Flush()
	if len(changes) == 0 {
		return
	}
	if err := l.writer.Flush(changes); err != nil {
		l.log.Warn("flush: %v", err)
	}
}

// applyModeCursorStyle overrides the cursor descriptor's shape with the
// active mode's CursorStyle after widget.Render has positioned it;
// widget.Render draws a fixed CursorBlock since the widget tree has no
// notion of editing modes. A mode reporting CursorHidden also hides the
// cursor.
func (l *Loop) applyModeCursorStyle() {
	current := l.modes.Current()
	if current == nil {
		return
	}
	d := l.canvas.Cursor()
	style := current.CursorStyle()
	l.canvas.SetCursor(d.Pos, d.Visible && style != cellgrid.CursorHidden, style, d.Blinking)
}

func (l *Loop) currentContent() *widget.Node {
	win := l.tree.CurrentWindow()
	if win == nil {
		return nil
	}
	for _, c := range win.Children() {
		if c.Kind() == widget.KindWindowContent {
			return c
		}
	}
	return nil
}

func (l *Loop) contentRect(content *widget.Node) cellgrid.Rect {
	w, h := l.canvas.Size()
	area := cellgrid.RectFromSize(0, 0, h, w)
	rects := l.layout.Layout(l.tree.Root(), area)
	return rects[content.ID()]
}

func (l *Loop) scrollToCursor(content *widget.Node, buf *bufferstore.Buffer, line, char int) {
	rect := l.contentRect(content)
	if rect.IsEmpty() {
		return
	}
	top, left := content.Scroll()
	newTop, newLeft, err := viewport.EnsureVisible(buf, content.ViewportOptions(), rect.Width(), rect.Height(), top, left, line, char)
	if err != nil {
		return
	}
	content.SetScroll(newTop, newLeft)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// --- operation.Target ---

var _ operation.Target = (*Loop)(nil)

// Buffer returns the buffer the current window's content is showing.
// Never nil once the loop has been constructed via New: the default
// tree always attaches an empty buffer, and OpenFile/attachToCurrentWindow
// only ever replace it with another non-nil one.
func (l *Loop) Buffer() *bufferstore.Buffer {
	content := l.currentContent()
	if content == nil {
		return nil
	}
	buf, ok := content.Buffer()
	if !ok {
		return nil
	}
	return buf
}

func (l *Loop) Cursor() (line, char int) {
	content := l.currentContent()
	if content == nil {
		return 0, 0
	}
	return content.CursorPos()
}

func (l *Loop) SetCursor(line, char int) {
	content := l.currentContent()
	if content == nil {
		return
	}
	buf := l.Buffer()
	if buf == nil {
		content.SetCursorPos(line, char)
		l.dirty = true
		return
	}
	line = clampInt(line, 0, buf.LineCount()-1)
	lineLen := 0
	if s, err := buf.Line(line); err == nil {
		lineLen = len([]rune(s))
	}
	char = clampInt(char, 0, lineLen)
	content.SetCursorPos(line, char)
	l.scrollToCursor(content, buf, line, char)
	l.dirty = true
}

func (l *Loop) ScrollBy(deltaColumns, deltaLines int) {
	content := l.currentContent()
	if content == nil {
		return
	}
	line, col := content.Scroll()
	l.setScroll(content, line+deltaLines, col+deltaColumns)
}

func (l *Loop) ScrollTo(column, line int) {
	content := l.currentContent()
	if content == nil {
		return
	}
	l.setScroll(content, line, column)
}

// setScroll clamps line to the buffer's bounds (column has no hard upper
// bound here; the viewport engine itself clips what it reads) and
// writes both back onto content.
func (l *Loop) setScroll(content *widget.Node, line, column int) {
	if column < 0 {
		column = 0
	}
	if line < 0 {
		line = 0
	}
	if buf, ok := content.Buffer(); ok {
		line = clampInt(line, 0, buf.LineCount()-1)
	}
	content.SetScroll(line, column)
	l.dirty = true
}

func (l *Loop) GotoMode(name string) error {
	from := l.modes.CurrentName()
	err := l.modes.Switch(name)
	if err == nil && name != from {
		switch from {
		case mode.CmdlineEx, mode.CmdlineSearchForward, mode.CmdlineSearchBackward:
			// Leaving the command line (ESC) discards what was typed.
			l.cmdlineText.Clear()
			if root := l.tree.CmdlineRoot(); root != nil {
				root.SetShowInput(false)
			}
		}
	}
	l.dirty = true
	return err
}

func (l *Loop) CmdlineCursor() int { return l.cmdlineText.Cursor() }

func (l *Loop) SetCmdlineCursor(char int) {
	l.cmdlineText.SetCursor(char)
	l.dirty = true
}

func (l *Loop) CmdlineInsert(char int, text string) {
	l.cmdlineText.Insert(char, text)
	if root := l.tree.CmdlineRoot(); root != nil {
		root.SetShowInput(true)
	}
	l.dirty = true
}

func (l *Loop) CmdlineDelete(char, count int) {
	l.cmdlineText.Delete(char, count)
	l.dirty = true
}

func (l *Loop) CmdlineText() string { return l.cmdlineText.Text() }

// ConfirmExCommand parses the buffered command line and dispatches it
// through the script bridge. Dispatch errors (unknown
// command, bad arity, a panicking "js" eval) are captured onto the
// command-line message area rather than propagated: a bad ex command
// must never stop the loop.
func (l *Loop) ConfirmExCommand() error {
	line := l.cmdlineText.Text()
	ec := script.ExCommandContext{}
	if buf := l.Buffer(); buf != nil {
		ec.BufferID = uint64(buf.ID())
	}
	if win := l.tree.CurrentWindow(); win != nil {
		ec.WindowID = win.ID()
	}

	err := l.bridge.Dispatch(l.ctx, line, ec, l.engine.EvalModule)

	l.cmdlineText.Clear()
	if root := l.tree.CmdlineRoot(); root != nil {
		root.SetShowInput(false)
	}
	if err != nil {
		l.cmdlineText.PushMessage(err.Error())
		l.log.Warn("ex command: %v", err)
	}
	l.dirty = true
	return nil
}

func (l *Loop) Quit(exitCode int) {
	l.exitCode = exitCode
	_ = l.modes.Switch(mode.Quit)
	l.dirty = true
}
