package mode

import (
	"fmt"
	"sync"
)

// ChangeCallback is notified after a successful mode switch.
type ChangeCallback func(from, to Mode)

// Manager owns every registered Mode, the active mode, and a stack of
// pushed modes for operator-pending-like nesting.
type Manager struct {
	mu        sync.RWMutex
	modes     map[string]Mode
	current   Mode
	previous  Mode
	modeStack []Mode
	callbacks []ChangeCallback
	context   *Context
}

// NewManager creates an empty manager. Call Register for each mode, then
// Switch(Normal) to enter the initial state.
func NewManager() *Manager {
	return &Manager{
		modes:   make(map[string]Mode),
		context: NewContext(),
	}
}

// Register adds (or replaces) a mode.
func (m *Manager) Register(mode Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes[mode.Name()] = mode
}

// Get returns a registered mode by name, or nil.
func (m *Manager) Get(name string) Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.modes[name]
}

// Current returns the active mode, or nil before the first Switch.
func (m *Manager) Current() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// CurrentName returns the active mode's name, or "" before the first
// Switch.
func (m *Manager) CurrentName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Name()
}

// Previous returns the mode active immediately before the current one.
func (m *Manager) Previous() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.previous
}

// StackDepth returns the number of modes saved by Push.
func (m *Manager) StackDepth() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.modeStack)
}

// Switch exits the current mode and enters name.
func (m *Manager) Switch(name string) error {
	m.mu.Lock()
	newMode, ok := m.modes[name]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("mode: unknown mode %q", name)
	}
	oldMode, callbacks, err := m.switchToLocked(newMode)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	notify(callbacks, oldMode, newMode)
	return nil
}

// Push saves the current mode on the stack and switches to name. Pop
// restores it. This is the mechanism operator-pending-style nested modes
// use.
func (m *Manager) Push(name string) error {
	m.mu.Lock()
	newMode, ok := m.modes[name]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("mode: unknown mode %q", name)
	}
	if m.current != nil {
		m.modeStack = append(m.modeStack, m.current)
	}
	oldMode, callbacks, err := m.switchToLocked(newMode)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	notify(callbacks, oldMode, newMode)
	return nil
}

// Pop restores the mode saved by the most recent Push. Returns an error if
// the stack is empty.
func (m *Manager) Pop() error {
	m.mu.Lock()
	if len(m.modeStack) == 0 {
		m.mu.Unlock()
		return fmt.Errorf("mode: stack is empty")
	}
	restoring := m.modeStack[len(m.modeStack)-1]
	m.modeStack = m.modeStack[:len(m.modeStack)-1]
	oldMode, callbacks, err := m.switchToLocked(restoring)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	notify(callbacks, oldMode, restoring)
	return nil
}

func (m *Manager) switchToLocked(newMode Mode) (Mode, []ChangeCallback, error) {
	oldMode := m.current
	if oldMode != nil {
		m.context.NextMode = newMode.Name()
		if err := oldMode.Exit(m.context); err != nil {
			return nil, nil, fmt.Errorf("mode: exit %s: %w", oldMode.Name(), err)
		}
		m.context.PreviousMode = oldMode.Name()
	} else {
		m.context.PreviousMode = ""
	}
	m.context.NextMode = ""

	if err := newMode.Enter(m.context); err != nil {
		return nil, nil, fmt.Errorf("mode: enter %s: %w", newMode.Name(), err)
	}

	m.previous = oldMode
	m.current = newMode

	callbacks := make([]ChangeCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	return oldMode, callbacks, nil
}

func notify(callbacks []ChangeCallback, from, to Mode) {
	for _, cb := range callbacks {
		if cb != nil {
			cb(from, to)
		}
	}
}

// OnChange registers a callback invoked after every successful mode
// switch. Returns a function that unregisters it.
func (m *Manager) OnChange(cb ChangeCallback) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
	idx := len(m.callbacks) - 1
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if idx < len(m.callbacks) {
			m.callbacks[idx] = nil
		}
	}
}

// Context returns the manager's shared transition context (read-only use
// outside the manager is intended for inspecting Count/Register between
// Handle calls).
func (m *Manager) Context() *Context {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.context
}
