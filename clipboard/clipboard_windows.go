//go:build windows

package clipboard

import (
	"fmt"
	"time"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"

	"text-expander/richtext"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procOpenClipboard           = user32.NewProc("OpenClipboard")
	procCloseClipboard          = user32.NewProc("CloseClipboard")
	procEmptyClipboard          = user32.NewProc("EmptyClipboard")
	procSetClipboardData        = user32.NewProc("SetClipboardData")
	procRegisterClipboardFormat = user32.NewProc("RegisterClipboardFormatW")

	procGlobalAlloc  = kernel32.NewProc("GlobalAlloc")
	procGlobalLock   = kernel32.NewProc("GlobalLock")
	procGlobalUnlock = kernel32.NewProc("GlobalUnlock")
	procGlobalFree   = kernel32.NewProc("GlobalFree")
)

const (
	cfUnicodeText = 13
	gmemMoveable  = 0x0002

	openRetries    = 5
	openRetryDelay = 20 * time.Millisecond
)

var htmlFormatID uint32

func registerHTMLFormat() (uint32, error) {
	if htmlFormatID != 0 {
		return htmlFormatID, nil
	}
	name, err := windows.UTF16PtrFromString(cfHTMLFormatID)
	if err != nil {
		return 0, err
	}
	id, _, callErr := procRegisterClipboardFormat.Call(uintptr(unsafe.Pointer(name)))
	if id == 0 {
		return 0, fmt.Errorf("RegisterClipboardFormat: %v", callErr)
	}
	htmlFormatID = uint32(id)
	return htmlFormatID, nil
}

// writeHTML publishes the snippet as "HTML Format" plus a CF_UNICODETEXT
// rendering in a single clipboard transaction.
func writeHTML(html string) error {
	formatID, err := registerHTMLFormat()
	if err != nil {
		return err
	}

	if err := openClipboard(); err != nil {
		return err
	}
	defer procCloseClipboard.Call()

	if ret, _, callErr := procEmptyClipboard.Call(); ret == 0 {
		return fmt.Errorf("EmptyClipboard: %v", callErr)
	}

	if err := setClipboardBytes(formatID, encodeCFHTML(html)); err != nil {
		return fmt.Errorf("set HTML format: %w", err)
	}
	plain := richtext.ToPlainText(html, true)
	if err := setClipboardBytes(cfUnicodeText, utf16Bytes(plain)); err != nil {
		return fmt.Errorf("set text alternative: %w", err)
	}
	return nil
}

// openClipboard retries briefly because another process may hold the
// clipboard open at the moment of the substitution.
func openClipboard() error {
	var lastErr error
	for i := 0; i < openRetries; i++ {
		ret, _, callErr := procOpenClipboard.Call(0)
		if ret != 0 {
			return nil
		}
		lastErr = callErr
		time.Sleep(openRetryDelay)
	}
	return fmt.Errorf("OpenClipboard: %v", lastErr)
}

// setClipboardBytes copies data into a moveable global allocation and hands
// it to the clipboard. Ownership of the allocation transfers to the system on
// success.
func setClipboardBytes(format uint32, data []byte) error {
	handle, _, callErr := procGlobalAlloc.Call(gmemMoveable, uintptr(len(data)))
	if handle == 0 {
		return fmt.Errorf("GlobalAlloc: %v", callErr)
	}

	ptr, _, callErr := procGlobalLock.Call(handle)
	if ptr == 0 {
		procGlobalFree.Call(handle)
		return fmt.Errorf("GlobalLock: %v", callErr)
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), len(data)), data)
	procGlobalUnlock.Call(handle)

	if ret, _, callErr := procSetClipboardData.Call(uintptr(format), handle); ret == 0 {
		procGlobalFree.Call(handle)
		return fmt.Errorf("SetClipboardData: %v", callErr)
	}
	return nil
}

// utf16Bytes renders s as null-terminated UTF-16LE for CF_UNICODETEXT.
func utf16Bytes(s string) []byte {
	units := append(utf16.Encode([]rune(s)), 0)
	buf := make([]byte, 0, len(units)*2)
	for _, u := range units {
		buf = append(buf, byte(u), byte(u>>8))
	}
	return buf
}
