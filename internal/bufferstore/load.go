package bufferstore

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vimjs/vimjs/internal/rope"
	"github.com/vimjs/vimjs/internal/textwidth"
)

// loadChunkSize bounds how much is read between progress notifications,
// so redraws can interleave with a large file streaming in rather than
// waiting for the whole read.
const loadChunkSize = 64 * 1024

// ProgressFunc receives the cumulative number of bytes loaded so far. The
// event loop wraps this to emit a buffer-loaded-bytes message per call.
type ProgressFunc func(loadedBytes int64)

// Load streams r's content into the buffer, normalizing every CRLF or CR
// line ending to '\n' (the buffer's configured line-ending style is not
// applied while loading), calling progress periodically. Only one load
// may be in flight per buffer; a concurrent call returns
// ErrLoadInProgress. Load transitions the buffer init/synced -> loading and
// back to synced on success (or back to its prior status on failure or
// cancellation).
func (b *Buffer) Load(ctx context.Context, r io.Reader, progress ProgressFunc) error {
	b.mu.Lock()
	if b.loading {
		b.mu.Unlock()
		return ErrLoadInProgress
	}
	b.loading = true
	prevStatus := b.status
	b.status = StatusLoading
	b.text = rope.New()
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.loading = false
		b.mu.Unlock()
	}()

	var total int64
	reader := bufio.NewReaderSize(r, loadChunkSize)
	buf := make([]byte, loadChunkSize)
	var pending []byte

	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			b.status = prevStatus
			b.mu.Unlock()
			return ctx.Err()
		default:
		}

		n, err := reader.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			valid, rest := splitValidUTF8(pending)
			pending = rest
			if len(valid) > 0 {
				b.mu.Lock()
				b.text.Append(string(valid))
				b.mu.Unlock()
			}
			total += int64(n)
			if progress != nil {
				progress(total)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			b.mu.Lock()
			b.status = prevStatus
			b.mu.Unlock()
			return fmt.Errorf("bufferstore: load: %w", err)
		}
	}
	if len(pending) > 0 {
		b.mu.Lock()
		b.text.Append(string(pending))
		b.mu.Unlock()
	}

	b.mu.Lock()
	normalized := normalizeLineEndings(b.text.String(), b.opts.LineEnding)
	b.text = rope.FromString(normalized)
	b.width = rope.NewWidthIndex(b.opts.TabStop, b.opts.LineEnding)
	b.status = StatusSynced
	b.revision++
	b.mu.Unlock()
	return nil
}

// normalizeLineEndings collapses every CRLF/CR terminator to a plain '\n'
// line break. The rope
// itself never stores a terminator (see internal/rope's doc comment); the
// buffer's chosen LineEnding only governs the bytes re-emitted on save.
func normalizeLineEndings(s string, _ textwidth.LineEnding) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// IsLoading reports whether a load is currently in flight.
func (b *Buffer) IsLoading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loading
}

// splitValidUTF8 returns the longest valid-UTF8 prefix of data and the
// remaining trailing bytes that might be an incomplete multi-byte rune
// split across a read boundary.
func splitValidUTF8(data []byte) (valid, rest []byte) {
	if len(data) == 0 {
		return nil, nil
	}
	// A UTF-8 rune is at most 4 bytes; hold back up to 3 trailing bytes if
	// they look like the start of a multi-byte sequence.
	keep := 0
	for i := 1; i <= 3 && i <= len(data); i++ {
		b := data[len(data)-i]
		if b&0xC0 == 0xC0 { // lead byte of a multi-byte sequence
			keep = i
			break
		}
		if b&0x80 == 0 { // ASCII byte, sequence (if any) already complete
			break
		}
	}
	if keep == 0 {
		return data, nil
	}
	return data[:len(data)-keep], append([]byte(nil), data[len(data)-keep:]...)
}
