// Package ids provides the monotonic, wraparound-safe integer generator
// used for widget ids and the script bridge's future/task/timer tokens:
// unique non-negative integers, reused only after wraparound. A
// standalone package because the widget tree and the script bridge each
// need one without depending on the other.
package ids

import "sync"

// Generator hands out unique non-negative uint64 ids, wrapping back to 1
// after exhausting the space (0 is reserved as "no id").
type Generator struct {
	mu   sync.Mutex
	next uint64
}

// NewGenerator returns a Generator that starts allocating at 1.
func NewGenerator() *Generator {
	return &Generator{next: 1}
}

// Next returns the next id, wrapping past the zero value.
func (g *Generator) Next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next
	g.next++
	if g.next == 0 {
		g.next = 1
	}
	return id
}
