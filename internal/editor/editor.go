// Package editor is the thin assembly point cmd/vimjs drives: it wires
// the script bridge, the embedded scripting runtime, and the event loop
// together into one Editor value, so the CLI entry point never touches
// internal/eventloop or internal/script/engine directly.
package editor

import (
	"context"

	"github.com/vimjs/vimjs/internal/applog"
	"github.com/vimjs/vimjs/internal/eventloop"
	"github.com/vimjs/vimjs/internal/pathcfg"
	"github.com/vimjs/vimjs/internal/script"
	"github.com/vimjs/vimjs/internal/script/engine"
	"github.com/vimjs/vimjs/internal/termio"
)

// Editor embeds *eventloop.Loop so Editor.ExitCode and the loop's other
// methods are promoted (Run is redeclared below as a thin wrapper); New's
// job is purely constructing and wiring the loop's collaborators.
type Editor struct {
	*eventloop.Loop

	bridge *script.Bridge
	engine *engine.Engine
}

// New builds a fully-wired Editor: a script.Bridge sized from
// cfg.ChannelBufSize, a sandboxed engine.Engine bound to it, and the
// eventloop.Loop that
// drives both against writer. It does not start the loop; call Run.
func New(cfg pathcfg.Config, writer termio.TerminalWriter, log *applog.Logger) *Editor {
	if log == nil {
		log = applog.Null()
	}

	bufSize := int(cfg.ChannelBufSize)
	bridge := script.NewBridge(bufSize)
	eng := engine.New(bridge, log)

	loop := eventloop.New(cfg, writer, bridge, eng, log)
	eng.AttachMessages(loop.Messages())

	return &Editor{Loop: loop, bridge: bridge, engine: eng}
}

// Run drives the event loop to completion, returning the process exit
// code. Equivalent to calling e.Loop.Run directly; kept as an explicit
// method so Editor's public surface doesn't require callers to know
// it's an embedding.
func (e *Editor) Run(ctx context.Context) int {
	return e.Loop.Run(ctx)
}
