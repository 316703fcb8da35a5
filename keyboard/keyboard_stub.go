//go:build !windows

package keyboard

import "errors"

// ErrUnsupported is returned by every synthesis call on platforms without an
// input-injection backend.
var ErrUnsupported = errors.New("keyboard synthesis is not supported on this platform")

type stubSynthesizer struct{}

func newPlatformSynthesizer() Synthesizer { return stubSynthesizer{} }

func (stubSynthesizer) KeyDown(uint16) error           { return ErrUnsupported }
func (stubSynthesizer) KeyUp(uint16) error             { return ErrUnsupported }
func (stubSynthesizer) KeyDownAndUp(uint16) error      { return ErrUnsupported }
func (stubSynthesizer) UnicodeKeyDownAndUp(rune) error { return ErrUnsupported }
func (stubSynthesizer) Backspaces(int) error           { return ErrUnsupported }

type stubStateQuerier struct{}

func newPlatformStateQuerier() StateQuerier { return stubStateQuerier{} }

func (stubStateQuerier) IsKeyDown(uint16) bool { return false }
