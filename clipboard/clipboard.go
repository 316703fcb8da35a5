// Package clipboard bridges the OS clipboard for paste-based substitution:
// snapshot the user's content, overwrite it with snippet text (plain or
// HTML), then put the original back after the target application has had
// time to consume the paste.
package clipboard

import (
	"log"
	"sync"
	"time"

	xclipboard "golang.design/x/clipboard"
)

// Init initializes the underlying clipboard backend. It must be called once
// before any bridge operation.
func Init() error {
	return xclipboard.Init()
}

// Bridge owns the backup/restore bracket around a paste-based substitution.
// Writes are mutex-guarded to prevent corruption when a scheduled restore
// fires while a new substitution is writing.
type Bridge struct {
	mu        sync.Mutex
	backup    []byte
	hasBackup bool
}

// NewBridge returns an empty bridge with no pending backup.
func NewBridge() *Bridge { return &Bridge{} }

// Backup snapshots the current clipboard text so a later restore can put it
// back. The snapshot reflects content strictly prior to any subsequent
// SetText/SetHTML. Only the text representation is preserved.
func (b *Bridge) Backup() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.backup = xclipboard.Read(xclipboard.FmtText)
	b.hasBackup = true
	return nil
}

// RestoreAfter schedules restoration of the last backup once delay has
// elapsed and returns immediately. Restoring right away races with the
// target application's asynchronous paste handling, which would paste the
// restored content instead of the snippet.
func (b *Bridge) RestoreAfter(delay time.Duration) {
	if delay <= 0 {
		b.restore()
		return
	}
	time.AfterFunc(delay, b.restore)
}

func (b *Bridge) restore() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hasBackup {
		return
	}
	xclipboard.Write(xclipboard.FmtText, b.backup)
	b.backup = nil
	b.hasBackup = false
	log.Printf("Clipboard content restored from backup")
}

// SetText replaces the clipboard content with plain text.
func (b *Bridge) SetText(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	xclipboard.Write(xclipboard.FmtText, []byte(text))
	return nil
}

// SetHTML replaces the clipboard content with an HTML fragment in the
// platform's rich-text clipboard format, alongside a plain-text rendering
// for applications that only accept text. On platforms without a rich
// clipboard format only the plain-text rendering is written.
func (b *Bridge) SetHTML(html string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return writeHTML(html)
}
