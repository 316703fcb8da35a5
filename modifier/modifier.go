// Package modifier neutralizes and restores the user's physically held
// modifier keys around a burst of synthesized input. A Ctrl the user still
// holds from triggering a snippet would otherwise combine with the injected
// keystrokes and corrupt them.
package modifier

import "text-expander/keyboard"

// TrackedKeys lists the modifier virtual keys the tracker manages, in the
// order they are captured and restored.
var TrackedKeys = []uint16{
	keyboard.VKLeftControl,
	keyboard.VKRightControl,
	keyboard.VKLeftMenu,
	keyboard.VKRightMenu,
	keyboard.VKLeftShift,
	keyboard.VKRightShift,
	keyboard.VKLeftWin,
	keyboard.VKRightWin,
}

// Snapshot records which tracked keys were physically down at capture time,
// in capture order.
type Snapshot []uint16

// Tracker captures and restores physical modifier key state.
type Tracker struct {
	state keyboard.StateQuerier
	keys  keyboard.Synthesizer
}

// NewTracker returns a tracker over the given state querier and synthesizer.
func NewTracker(state keyboard.StateQuerier, keys keyboard.Synthesizer) *Tracker {
	return &Tracker{state: state, keys: keys}
}

// CaptureAndRelease synthesizes a key-up for every tracked key that is
// physically down and records it. After a successful call none of the tracked
// keys are seen as held by the foreground application. The returned snapshot
// is valid even when an error is returned, so the caller can still Restore
// the keys released so far.
func (t *Tracker) CaptureAndRelease() (Snapshot, error) {
	var snap Snapshot
	for _, vk := range TrackedKeys {
		if !t.state.IsKeyDown(vk) {
			continue
		}
		snap = append(snap, vk)
		if err := t.keys.KeyUp(vk); err != nil {
			return snap, err
		}
	}
	return snap, nil
}

// Restore synthesizes a key-down for every key in the snapshot, in recorded
// order, putting the modifier state back to what the user is actually
// holding. It must be called exactly once for every CaptureAndRelease.
func (t *Tracker) Restore(snap Snapshot) error {
	for _, vk := range snap {
		if err := t.keys.KeyDown(vk); err != nil {
			return err
		}
	}
	return nil
}
