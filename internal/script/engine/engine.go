// Package engine is the concrete scripting runtime behind the script
// bridge: a github.com/yuin/gopher-lua VM running on its own goroutine,
// talking to the event loop only through a *script.Bridge's two bounded
// channels. It never touches editor state directly: every binding call
// (command registration, timers, fs access, imports, exit) posts an
// OutboundMessage and, where the alphabet defines a response, registers
// a Lua callback keyed by the message's task/timer id.
//
// gopher-lua's LState is not goroutine-safe, so Run's single goroutine
// drains both the EvalModule call queue and the bridge's inbound
// channel; everything that touches L runs there.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/vimjs/vimjs/internal/applog"
	"github.com/vimjs/vimjs/internal/cmdline"
	"github.com/vimjs/vimjs/internal/script"
	"github.com/vimjs/vimjs/internal/script/wire"
)

// Engine wraps a gopher-lua state plus the bookkeeping the script
// bridge's async operations need: ex-command handlers by name, pending
// timer callbacks by timer id, and pending import/fs callbacks by task
// id. All of this state is only ever touched from the goroutine running
// Run, so it carries no mutex of its own.
type Engine struct {
	L      *lua.LState
	bridge *script.Bridge
	log    *applog.Logger

	// messages is the cmdline message surface cmd.echo writes onto.
	// TextContent is itself mutex-protected, so this
	// field is safe to set once and call from the engine's own goroutine
	// with no further synchronization on Engine's part. It is nil until
	// AttachMessages is called, in which case cmd.echo is a no-op.
	messages *cmdline.TextContent

	handlers       map[string]*lua.LFunction
	timers         map[uint64]*lua.LFunction
	pendingImports map[uint64]*lua.LFunction
	pendingFSOpens map[uint64]*lua.LFunction
	pendingFSReads map[uint64]*lua.LFunction

	queue     chan func(*lua.LState)
	done      chan struct{}
	closeOnce sync.Once
}

// New creates an Engine bound to bridge. log may be nil, in which case
// callback errors are discarded via applog.Null().
func New(bridge *script.Bridge, log *applog.Logger) *Engine {
	if log == nil {
		log = applog.Null()
	}
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	e := &Engine{
		L:              L,
		bridge:         bridge,
		log:            log.WithComponent("script"),
		handlers:       make(map[string]*lua.LFunction),
		timers:         make(map[uint64]*lua.LFunction),
		pendingImports: make(map[uint64]*lua.LFunction),
		pendingFSOpens: make(map[uint64]*lua.LFunction),
		pendingFSReads: make(map[uint64]*lua.LFunction),
		queue:          make(chan func(*lua.LState), 64),
		done:           make(chan struct{}),
	}
	e.installGlobals()
	return e
}

// AttachMessages gives the engine a cmdline message surface for
// cmd.echo to write onto. Must be called before Run starts processing
// Lua calls that use cmd.echo; the caller (internal/editor) owns the
// TextContent and reads it back on its own goroutine.
func (e *Engine) AttachMessages(tc *cmdline.TextContent) {
	e.messages = tc
}

// openSafeLibraries opens only the Lua standard libraries that carry no
// ambient authority. io/os/debug/package are intentionally never opened
// here; all filesystem access a script performs must go through the
// fs request/response round trip with the loop, not Lua's own io
// library.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// Run owns the Lua state exclusively until ctx is cancelled or Close is
// called, processing queued Lua calls (from EvalModule) and inbound
// bridge messages in arrival order. Must run on its own goroutine.
func (e *Engine) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.done:
			return
		case fn := <-e.queue:
			fn(e.L)
		case msg := <-e.bridge.FromLoop():
			e.handleInbound(msg)
		}
	}
}

// Close stops Run and releases the Lua state. Safe to call more than
// once.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		close(e.done)
		e.L.Close()
	})
}

// EvalModule compiles and evaluates source on the engine's goroutine,
// blocking until it completes. This is the handler for the reserved
// "js" ex command.
func (e *Engine) EvalModule(source string) error {
	result := make(chan error, 1)
	call := func(L *lua.LState) {
		result <- e.doWithRecovery(func() error { return L.DoString(source) })
	}
	select {
	case e.queue <- call:
	case <-e.done:
		return fmt.Errorf("script: engine closed")
	}
	return <-result
}

func (e *Engine) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script: panic: %v", r)
		}
	}()
	return fn()
}

func (e *Engine) handleInbound(msg script.InboundMessage) {
	switch msg.Kind {
	case script.InboundTimeoutResponse:
		e.fireTimer(msg)
	case script.InboundExCommandRequest:
		e.invokeExCommand(msg)
	case script.InboundLoadImportResponse:
		e.resolveImport(msg)
	case script.InboundTickAgainResponse:
		// No script-visible effect; the request only nudges the loop to
		// re-poll sooner.
	case script.InboundFSOpenResponse:
		e.resolveFSOpen(msg)
	case script.InboundFSReadResponse:
		e.resolveFSRead(msg)
	}
}

func (e *Engine) fireTimer(msg script.InboundMessage) {
	fn, ok := e.timers[msg.TimerID]
	if !ok {
		return
	}
	if !msg.Repeated {
		delete(e.timers, msg.TimerID)
	}
	e.call(fn, lua.LNumber(msg.TimerID))
}

func (e *Engine) invokeExCommand(msg script.InboundMessage) {
	name, args, bang, bufferID, windowID := wire.DecodeExCommandPayload(msg.Payload)
	fn, ok := e.handlers[name]
	if !ok {
		e.log.Warn("ex-command-request for unregistered handler: %s", name)
		return
	}
	argsTbl := e.L.NewTable()
	for i, a := range args {
		argsTbl.RawSetInt(i+1, lua.LString(a))
	}
	ctxTbl := e.L.NewTable()
	e.L.SetField(ctxTbl, "bang", lua.LBool(bang))
	e.L.SetField(ctxTbl, "bufferId", lua.LNumber(bufferID))
	e.L.SetField(ctxTbl, "windowId", lua.LNumber(windowID))
	e.call(fn, argsTbl, ctxTbl)
}

func (e *Engine) resolveImport(msg script.InboundMessage) {
	fn, ok := e.pendingImports[msg.TaskID]
	if !ok {
		return
	}
	delete(e.pendingImports, msg.TaskID)
	if !msg.OK {
		e.call(fn, lua.LNil, lua.LString("import failed"))
		return
	}
	e.call(fn, lua.LString(msg.ResultBytes), lua.LNil)
}

func (e *Engine) resolveFSOpen(msg script.InboundMessage) {
	fn, ok := e.pendingFSOpens[msg.TaskID]
	if !ok {
		return
	}
	delete(e.pendingFSOpens, msg.TaskID)
	if !msg.OK {
		e.call(fn, lua.LNil, lua.LString("open failed"))
		return
	}
	e.call(fn, lua.LString(wire.EncodeBytes(msg.ResultBytes)), lua.LNil)
}

func (e *Engine) resolveFSRead(msg script.InboundMessage) {
	fn, ok := e.pendingFSReads[msg.TaskID]
	if !ok {
		return
	}
	delete(e.pendingFSReads, msg.TaskID)
	if !msg.OK {
		e.call(fn, lua.LNil, lua.LNumber(0), lua.LString("read failed"))
		return
	}
	e.call(fn, lua.LString(msg.ResultBytes), lua.LNumber(msg.Count), lua.LNil)
}

func (e *Engine) call(fn *lua.LFunction, args ...lua.LValue) {
	e.L.Push(fn)
	for _, a := range args {
		e.L.Push(a)
	}
	if err := e.L.PCall(len(args), 0, nil); err != nil {
		e.log.Error("callback error: %v", err)
	}
}

// installGlobals builds the global Rsvim table every loaded module sees:
// cmd (echo, register), timer (setTimeout), fs (open, read), import, and
// exit.
func (e *Engine) installGlobals() {
	root := e.L.NewTable()

	cmdTbl := e.L.NewTable()
	e.L.SetFuncs(cmdTbl, map[string]lua.LGFunction{
		"echo":     e.luaCmdEcho,
		"register": e.luaCmdRegister,
	})
	e.L.SetField(root, "cmd", cmdTbl)

	timerTbl := e.L.NewTable()
	e.L.SetFuncs(timerTbl, map[string]lua.LGFunction{
		"setTimeout": e.luaSetTimeout,
	})
	e.L.SetField(root, "timer", timerTbl)

	fsTbl := e.L.NewTable()
	e.L.SetFuncs(fsTbl, map[string]lua.LGFunction{
		"open": e.luaFSOpen,
		"read": e.luaFSRead,
	})
	e.L.SetField(root, "fs", fsTbl)

	e.L.SetField(root, "exit", e.L.NewFunction(e.luaExit))
	e.L.SetField(root, "import", e.L.NewFunction(e.luaImport))

	e.L.SetGlobal("Rsvim", root)
}

// luaCmdEcho implements Rsvim.cmd.echo(value): stringifies its single
// argument and posts it to the cmdline message history. A no-op if no
// message surface has been attached.
func (e *Engine) luaCmdEcho(L *lua.LState) int {
	v := L.CheckAny(1)
	if e.messages != nil {
		e.messages.PushMessage(v.String())
	}
	return 0
}

// luaCmdRegister implements Rsvim.cmd.register(name, opts, handler):
// opts carries the attribute/option record (arity, bang, force, alias),
// and handler is the Lua function invoked on a later ex-command-request.
func (e *Engine) luaCmdRegister(L *lua.LState) int {
	name := L.CheckString(1)
	opts := L.OptTable(2, L.NewTable())
	handler := L.CheckFunction(3)

	cmd := script.Command{
		Name: name,
		Attributes: script.Attributes{
			Arity:       script.ParseArity(getTableString(opts, "arity", "*")),
			BangAllowed: getTableBool(opts, "bang", false),
		},
		Options: script.Options{
			ForceOverwrite: getTableBool(opts, "force", false),
			Alias:          getTableString(opts, "alias", ""),
		},
	}
	if err := e.bridge.Registry().Register(cmd); err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	e.handlers[name] = handler
	return 0
}

// luaSetTimeout implements Rsvim.timer.setTimeout(delayMs, callback
// [, repeated]), returning the new timer's id. The actual expiry is
// driven by the event loop; this binding only arms it.
func (e *Engine) luaSetTimeout(L *lua.LState) int {
	delayMs := L.CheckInt64(1)
	callback := L.CheckFunction(2)
	repeated := L.OptBool(3, false)

	timerID := e.bridge.NextID()
	e.timers[timerID] = callback
	msg := script.TimeoutRequest(timerID, e.now(), time.Duration(delayMs)*time.Millisecond, repeated)
	if err := e.bridge.PostToLoop(context.Background(), msg); err != nil {
		delete(e.timers, timerID)
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LNumber(timerID))
	return 1
}

// now is the clock setTimeout stamps its timeout-request with. A method
// rather than a bare time.Now() call so a future test double can
// override it.
func (e *Engine) now() time.Time { return time.Now() }

// luaFSOpen implements Rsvim.fs.open(path, flags, callback(fd, err)).
// The callback fires once the loop has answered the open request with
// its opaque handle bytes (not necessarily a numeric fd).
func (e *Engine) luaFSOpen(L *lua.LState) int {
	path := L.CheckString(1)
	flags := L.CheckInt(2)
	callback := L.CheckFunction(3)

	taskID := e.bridge.NextID()
	e.pendingFSOpens[taskID] = callback
	msg := script.FSOpenRequest(taskID, path, flags)
	if err := e.bridge.PostToLoop(context.Background(), msg); err != nil {
		delete(e.pendingFSOpens, taskID)
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// luaFSRead implements Rsvim.fs.read(fd, bufferSize, callback(data,
// count, err)).
func (e *Engine) luaFSRead(L *lua.LState) int {
	fd := L.CheckInt(1)
	bufferSize := L.CheckInt(2)
	callback := L.CheckFunction(3)

	taskID := e.bridge.NextID()
	e.pendingFSReads[taskID] = callback
	msg := script.FSReadRequest(taskID, fd, bufferSize)
	if err := e.bridge.PostToLoop(context.Background(), msg); err != nil {
		delete(e.pendingFSReads, taskID)
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// luaExit implements Rsvim.exit([code]), requesting loop shutdown.
func (e *Engine) luaExit(L *lua.LState) int {
	code := L.OptInt(1, 0)
	if err := e.bridge.PostToLoop(context.Background(), script.ExitRequest(code)); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// luaImport implements Rsvim.import(specifier, callback(source, err)),
// asking the loop to resolve and read a module specifier off its own
// goroutine (the runtime never touches the filesystem directly).
func (e *Engine) luaImport(L *lua.LState) int {
	specifier := L.CheckString(1)
	callback := L.CheckFunction(2)

	taskID := e.bridge.NextID()
	e.pendingImports[taskID] = callback
	msg := script.LoadImportRequest(taskID, specifier)
	if err := e.bridge.PostToLoop(context.Background(), msg); err != nil {
		delete(e.pendingImports, taskID)
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// getTableString reads a string field from tbl, returning def if absent
// or not a string.
func getTableString(tbl *lua.LTable, key, def string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return def
}

// getTableBool reads a bool field from tbl, returning def if absent or
// not a boolean.
func getTableBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}
