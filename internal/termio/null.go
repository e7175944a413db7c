package termio

import "github.com/vimjs/vimjs/internal/cellgrid"

// NullWriter discards every flush and produces only the events posted to
// it via PostEvent, matching
// rsvim's /dev/null terminal-writer variant. Unlike HeadlessWriter it
// records nothing, useful for benchmarking the core's throughput without
// even the bookkeeping cost of a recorded grid.
type NullWriter struct {
	width, height int
	events        chan Event
}

// NewNullWriter creates a null writer of the given size.
func NewNullWriter(width, height int) *NullWriter {
	return &NullWriter{width: width, height: height, events: make(chan Event, 256)}
}

func (w *NullWriter) Init() error                     { return nil }
func (w *NullWriter) Shutdown()                       {}
func (w *NullWriter) Size() (width, height int)       { return w.width, w.height }
func (w *NullWriter) Flush(_ []cellgrid.Change) error { return nil }
func (w *NullWriter) PollEvent() Event                { return <-w.events }
func (w *NullWriter) PostEvent(ev Event) {
	select {
	case w.events <- ev:
	default:
	}
}
func (w *NullWriter) Beep() {}
