package script

import "time"

// OutboundKind enumerates the runtime-to-loop message alphabet.
type OutboundKind uint8

const (
	OutboundTimeoutRequest OutboundKind = iota
	OutboundExitRequest
	OutboundLoadImportRequest
	OutboundTickAgainRequest
	OutboundFSOpenRequest
	OutboundFSReadRequest
	OutboundFSWriteRequest
)

func (k OutboundKind) String() string {
	names := [...]string{
		"timeout-request", "exit-request", "load-import-request",
		"tick-again-request", "fs-open-request", "fs-read-request",
		"fs-write-request",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// OutboundMessage is a single runtime-to-loop message. Only the fields
// relevant to Kind are meaningful; the rest are zero.
type OutboundMessage struct {
	Kind OutboundKind

	// timeout-request
	TimerID  uint64
	Start    time.Time
	Delay    time.Duration
	Repeated bool

	// exit-request
	ExitCode int

	// load-import-request, fs-open/read/write-request
	TaskID    uint64
	Specifier string // load-import-request

	// fs-open-request
	Path  string
	Flags int

	// fs-read-request / fs-write-request
	FD         int
	BufferSize int
	Bytes      []byte
}

// TimeoutRequest builds the outbound message a script's setTimeout-style
// call sends to arm a loop-side timer.
func TimeoutRequest(timerID uint64, start time.Time, delay time.Duration, repeated bool) OutboundMessage {
	return OutboundMessage{Kind: OutboundTimeoutRequest, TimerID: timerID, Start: start, Delay: delay, Repeated: repeated}
}

// ExitRequest builds the outbound message requesting loop shutdown.
func ExitRequest(exitCode int) OutboundMessage {
	return OutboundMessage{Kind: OutboundExitRequest, ExitCode: exitCode}
}

// LoadImportRequest builds the outbound message asking the loop to
// resolve and read a module specifier.
func LoadImportRequest(taskID uint64, specifier string) OutboundMessage {
	return OutboundMessage{Kind: OutboundLoadImportRequest, TaskID: taskID, Specifier: specifier}
}

// TickAgainRequest builds the outbound message nudging the loop to
// re-poll because the runtime has queued work of its own.
func TickAgainRequest() OutboundMessage {
	return OutboundMessage{Kind: OutboundTickAgainRequest}
}

// FSOpenRequest builds the outbound message requesting a file open.
func FSOpenRequest(taskID uint64, path string, flags int) OutboundMessage {
	return OutboundMessage{Kind: OutboundFSOpenRequest, TaskID: taskID, Path: path, Flags: flags}
}

// FSReadRequest builds the outbound message requesting a read of up to
// bufferSize bytes from fd.
func FSReadRequest(taskID uint64, fd, bufferSize int) OutboundMessage {
	return OutboundMessage{Kind: OutboundFSReadRequest, TaskID: taskID, FD: fd, BufferSize: bufferSize}
}

// FSWriteRequest builds the outbound message requesting a write of bytes
// to fd.
func FSWriteRequest(taskID uint64, fd int, bytes []byte) OutboundMessage {
	return OutboundMessage{Kind: OutboundFSWriteRequest, TaskID: taskID, FD: fd, Bytes: bytes}
}

// InboundKind enumerates the loop-to-runtime message alphabet.
type InboundKind uint8

const (
	InboundTimeoutResponse InboundKind = iota
	InboundExCommandRequest
	InboundLoadImportResponse
	InboundTickAgainResponse
	InboundFSOpenResponse
	InboundFSReadResponse
)

func (k InboundKind) String() string {
	names := [...]string{
		"timeout-response", "ex-command-request", "load-import-response",
		"tick-again-response", "fs-open-response", "fs-read-response",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// InboundMessage is a single loop-to-runtime message. Only the fields
// relevant to Kind are meaningful; the rest are zero.
type InboundMessage struct {
	Kind InboundKind

	// timeout-response
	TimerID  uint64
	Expire   time.Time
	Delay    time.Duration
	Repeated bool

	// ex-command-request: a wire.EncodeExCommandPayload-shaped JSON string
	// (name, parsed argument vector, bang flag, buffer id, window id).
	Payload string

	// load-import-response, fs-open/read-response
	TaskID      uint64
	OK          bool
	ResultBytes []byte // load-import-response source bytes / fs-open-response result
	Count       int    // fs-read-response: bytes actually read
}

// TimeoutResponse builds the inbound message delivered when a timer
// expires.
func TimeoutResponse(timerID uint64, expire time.Time, delay time.Duration, repeated bool) InboundMessage {
	return InboundMessage{Kind: InboundTimeoutResponse, TimerID: timerID, Expire: expire, Delay: delay, Repeated: repeated}
}

// ExCommandRequest builds the inbound message delivered when the user
// confirms an ex-command registered by script.
func ExCommandRequest(payload string) InboundMessage {
	return InboundMessage{Kind: InboundExCommandRequest, Payload: payload}
}

// LoadImportResponse builds the inbound message answering a
// load-import-request. source is nil when the import failed.
func LoadImportResponse(taskID uint64, source []byte, ok bool) InboundMessage {
	return InboundMessage{Kind: InboundLoadImportResponse, TaskID: taskID, ResultBytes: source, OK: ok}
}

// TickAgainResponse builds the inbound acknowledgement of a
// tick-again-request.
func TickAgainResponse() InboundMessage {
	return InboundMessage{Kind: InboundTickAgainResponse}
}

// FSOpenResponse builds the inbound message answering a fs-open-request.
func FSOpenResponse(taskID uint64, result []byte, ok bool) InboundMessage {
	return InboundMessage{Kind: InboundFSOpenResponse, TaskID: taskID, ResultBytes: result, OK: ok}
}

// FSReadResponse builds the inbound message answering a fs-read-request.
func FSReadResponse(taskID uint64, bytes []byte, count int, ok bool) InboundMessage {
	return InboundMessage{Kind: InboundFSReadResponse, TaskID: taskID, ResultBytes: bytes, Count: count, OK: ok}
}
