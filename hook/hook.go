// Package hook owns the global low-level keyboard hook. It forwards key
// events to the trigger-detection callback and exposes the suspend/resume
// control the substitution engine uses as its reentrancy guard: while
// suspended, synthesized keystrokes are not fed back into detection.
package hook

import (
	"log"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Event is one keyboard event seen by the global hook.
type Event struct {
	Rawcode uint16
	Keychar rune
	Down    bool
}

// Monitor wraps the gohook event stream with an enable flag.
type Monitor struct {
	mu       sync.Mutex
	enabled  bool
	started  bool
	callback func(Event)
}

// NewMonitor returns an enabled monitor that forwards key events to
// callback. The callback runs on the hook goroutine and must not block.
func NewMonitor(callback func(Event)) *Monitor {
	return &Monitor{enabled: true, callback: callback}
}

// SetEnabled turns event forwarding on or off and returns the previous
// state, so a caller can restore exactly what it found.
func (m *Monitor) SetEnabled(enabled bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	previous := m.enabled
	m.enabled = enabled
	return previous
}

// Enabled reports whether events are currently forwarded.
func (m *Monitor) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// Start installs the global hook and begins forwarding events. It returns
// immediately; events are processed on a dedicated goroutine. Calling Start
// more than once is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in keyboard hook goroutine: %v", r)
			}
		}()

		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("ERROR: gohook.Start() returned nil channel")
			return
		}
		log.Printf("Keyboard hook installed")

		for ev := range evChan {
			if ev.Kind != gohook.KeyDown && ev.Kind != gohook.KeyUp {
				continue
			}
			if !m.Enabled() {
				continue
			}
			if m.callback != nil {
				m.callback(Event{
					Rawcode: ev.Rawcode,
					Keychar: ev.Keychar,
					Down:    ev.Kind == gohook.KeyDown,
				})
			}
		}
		log.Printf("Keyboard hook event channel closed")
	}()
}

// Stop uninstalls the global hook.
func (m *Monitor) Stop() {
	gohook.End()
}
