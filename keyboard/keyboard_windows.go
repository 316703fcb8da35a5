//go:build windows

package keyboard

import (
	"fmt"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procSendInput        = user32.NewProc("SendInput")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
)

const (
	inputKeyboard = 1

	keyeventfKeyUp   = 0x0002
	keyeventfUnicode = 0x0004
)

type keyboardInput struct {
	WVK         uint16
	WScan       uint16
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

// input matches the Win32 INPUT struct layout on amd64, including the union
// padding that makes it 40 bytes.
type input struct {
	Type  uint32
	_pad1 uint32
	Ki    keyboardInput
	_pad2 uint64
}

func sendInputs(ins []input) error {
	if len(ins) == 0 {
		return nil
	}
	ret, _, err := procSendInput.Call(
		uintptr(len(ins)),
		uintptr(unsafe.Pointer(&ins[0])),
		unsafe.Sizeof(input{}),
	)
	if int(ret) != len(ins) {
		return fmt.Errorf("SendInput delivered %d of %d events: %v", ret, len(ins), err)
	}
	return nil
}

func vkInput(vk uint16, up bool) input {
	flags := uint32(0)
	if up {
		flags = keyeventfKeyUp
	}
	return input{
		Type: inputKeyboard,
		Ki:   keyboardInput{WVK: vk, DwFlags: flags},
	}
}

type winSynthesizer struct{}

func newPlatformSynthesizer() Synthesizer { return winSynthesizer{} }

func (winSynthesizer) KeyDown(vk uint16) error {
	return sendInputs([]input{vkInput(vk, false)})
}

func (winSynthesizer) KeyUp(vk uint16) error {
	return sendInputs([]input{vkInput(vk, true)})
}

func (winSynthesizer) KeyDownAndUp(vk uint16) error {
	return sendInputs([]input{vkInput(vk, false), vkInput(vk, true)})
}

// UnicodeKeyDownAndUp sends the character as KEYEVENTF_UNICODE events, one
// down/up pair per UTF-16 unit so astral-plane characters arrive as a
// surrogate pair.
func (winSynthesizer) UnicodeKeyDownAndUp(r rune) error {
	for _, unit := range utf16.Encode([]rune{r}) {
		ins := []input{
			{Type: inputKeyboard, Ki: keyboardInput{WScan: unit, DwFlags: keyeventfUnicode}},
			{Type: inputKeyboard, Ki: keyboardInput{WScan: unit, DwFlags: keyeventfUnicode | keyeventfKeyUp}},
		}
		if err := sendInputs(ins); err != nil {
			return err
		}
	}
	return nil
}

func (s winSynthesizer) Backspaces(count int) error {
	for i := 0; i < count; i++ {
		if err := s.KeyDownAndUp(VKBack); err != nil {
			return err
		}
	}
	return nil
}

type winStateQuerier struct{}

func newPlatformStateQuerier() StateQuerier { return winStateQuerier{} }

// IsKeyDown reports whether the key is physically held, per the high bit of
// GetAsyncKeyState.
func (winStateQuerier) IsKeyDown(vk uint16) bool {
	ret, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return int16(ret) < 0
}
