// Package script implements the script-runtime bridge: the message
// alphabet and ex-command registry shared between the event loop and
// whatever scripting runtime is embedded (internal/script/engine is the
// concrete gopher-lua implementation). The runtime never shares mutable
// editor state with the loop directly; every interaction crosses one of
// the bridge's two bounded channels.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vimjs/vimjs/internal/ids"
	"github.com/vimjs/vimjs/internal/script/wire"
)

// ErrBridgeClosed is returned by the posting methods after Close.
var ErrBridgeClosed = errors.New("script: bridge closed")

// ExCommandContext is the loop-side context attached to a dispatched
// ex-command: the buffer and window it was confirmed against.
type ExCommandContext struct {
	BufferID uint64
	WindowID uint64
}

// Bridge owns the two bounded runtime<->loop channels, the future/task/
// timer id generator, and the ex-command registry. Ids are unique
// non-negative integers, reused only after wraparound.
type Bridge struct {
	toLoop    chan OutboundMessage
	toRuntime chan InboundMessage
	ids       *ids.Generator
	registry  *Registry
	done      chan struct{}
}

// NewBridge creates a Bridge whose channels are each buffered to
// capacity (the RSVIM_CHANNEL_BUF_SIZE knob lives in pathcfg and is
// threaded in by the caller).
func NewBridge(capacity int) *Bridge {
	if capacity < 1 {
		capacity = 1
	}
	return &Bridge{
		toLoop:    make(chan OutboundMessage, capacity),
		toRuntime: make(chan InboundMessage, capacity),
		ids:       ids.NewGenerator(),
		registry:  NewRegistry(),
		done:      make(chan struct{}),
	}
}

// Registry returns the bridge's ex-command registry.
func (b *Bridge) Registry() *Registry { return b.registry }

// NextID returns the next future-id/task-id/timer-id, drawn from one
// shared generator.
func (b *Bridge) NextID() uint64 { return b.ids.Next() }

// FromRuntime returns the channel the loop polls as one of its five
// select sources.
func (b *Bridge) FromRuntime() <-chan OutboundMessage { return b.toLoop }

// FromLoop returns the channel the runtime polls at its own await
// points.
func (b *Bridge) FromLoop() <-chan InboundMessage { return b.toRuntime }

// PostToLoop sends msg from the runtime side, blocking if the channel
// is full until ctx is done.
func (b *Bridge) PostToLoop(ctx context.Context, msg OutboundMessage) error {
	select {
	case <-b.done:
		return ErrBridgeClosed
	case <-ctx.Done():
		return ctx.Err()
	case b.toLoop <- msg:
		return nil
	}
}

// PostToRuntime sends msg from the loop side, blocking if the channel is
// full until ctx is done.
func (b *Bridge) PostToRuntime(ctx context.Context, msg InboundMessage) error {
	select {
	case <-b.done:
		return ErrBridgeClosed
	case <-ctx.Done():
		return ctx.Err()
	case b.toRuntime <- msg:
		return nil
	}
}

// Close unblocks any pending Post calls with ErrBridgeClosed. Safe to
// call more than once.
func (b *Bridge) Close() {
	select {
	case <-b.done:
	default:
		close(b.done)
	}
}

// ParseExCommandLine splits a confirmed cmdline buffer into its command
// name (with a trailing "!" bang stripped) and the remaining argument
// text.
func ParseExCommandLine(line string) (name string, bang bool, rest string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, func(r rune) bool { return r == ' ' || r == '\t' })
	if i < 0 {
		name, rest = line, ""
	} else {
		name, rest = line[:i], strings.TrimSpace(line[i+1:])
	}
	if strings.HasSuffix(name, "!") {
		return strings.TrimSuffix(name, "!"), true, rest
	}
	return name, false, rest
}

// SplitArgs tokenizes rest into a parsed argument vector by whitespace.
// Arguments are not shell-quoted; a command wanting raw text should
// declare ArityOptional/ArityAny and re-join as needed.
func SplitArgs(rest string) []string {
	if rest == "" {
		return nil
	}
	return strings.Fields(rest)
}

// Dispatch routes a confirmed ex-command: given the cmdline's buffered
// text, it either hands rest to
// evalModule (the reserved "js" command) or looks the name up in the
// registry, validates arity/bang, and posts an ex-command-request to the
// runtime with a wire-encoded payload.
func (b *Bridge) Dispatch(ctx context.Context, line string, ec ExCommandContext, evalModule func(source string) error) error {
	name, bang, rest := ParseExCommandLine(line)
	if name == "" {
		return nil
	}
	if name == ReservedCommandName {
		return evalModule(rest)
	}

	cmd, ok := b.registry.Lookup(name)
	if !ok {
		return fmt.Errorf("script: unknown ex command %q", name)
	}
	if bang && !cmd.Attributes.BangAllowed {
		return fmt.Errorf("script: command %q does not accept a bang", name)
	}
	args := SplitArgs(rest)
	if !cmd.Attributes.Arity.Validate(len(args)) {
		return fmt.Errorf("script: command %q expects arity %s, got %d argument(s)", name, cmd.Attributes.Arity, len(args))
	}

	payload := wire.EncodeExCommandPayload(cmd.Name, args, bang, ec.BufferID, ec.WindowID)
	return b.PostToRuntime(ctx, ExCommandRequest(payload))
}
