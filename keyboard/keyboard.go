// Package keyboard wraps the OS input-synthesis primitives used during text
// substitution: virtual-key events, Unicode character events and backspace
// bursts, plus physical key state queries.
package keyboard

// Windows virtual-key codes for the keys the substitution engine synthesizes
// or tracks. Values follow winuser.h.
const (
	VKBack   = 0x08
	VKReturn = 0x0D
	VKLeft   = 0x25
	VKV      = 0x56

	VKLeftShift    = 0xA0
	VKRightShift   = 0xA1
	VKLeftControl  = 0xA2
	VKRightControl = 0xA3
	VKLeftMenu     = 0xA4 // left Alt
	VKRightMenu    = 0xA5 // right Alt
	VKLeftWin      = 0x5B
	VKRightWin     = 0x5C
)

// Synthesizer injects keyboard events into the active application.
type Synthesizer interface {
	// KeyDown synthesizes a key press event for a virtual key.
	KeyDown(vk uint16) error

	// KeyUp synthesizes a key release event for a virtual key.
	KeyUp(vk uint16) error

	// KeyDownAndUp synthesizes a press immediately followed by a release.
	KeyDownAndUp(vk uint16) error

	// UnicodeKeyDownAndUp types an arbitrary character as a Unicode key
	// event, independent of the active keyboard layout.
	UnicodeKeyDownAndUp(r rune) error

	// Backspaces synthesizes count backspace keystrokes. A count of zero or
	// less is a no-op.
	Backspaces(count int) error
}

// StateQuerier reports the physical press state of a key as seen by the OS.
type StateQuerier interface {
	IsKeyDown(vk uint16) bool
}

// NewSynthesizer returns the platform input synthesizer. On unsupported
// platforms every synthesis call fails with ErrUnsupported.
func NewSynthesizer() Synthesizer { return newPlatformSynthesizer() }

// NewStateQuerier returns the platform key state querier. On unsupported
// platforms no key is ever reported as down.
func NewStateQuerier() StateQuerier { return newPlatformStateQuerier() }
