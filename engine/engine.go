// Package engine performs the output stage of a text expansion: erase the
// typed trigger, inject the replacement into the foreground application and
// reposition the cursor, without disturbing the user's modifier keys or
// re-triggering the keyboard hook that detected the trigger.
package engine

import (
	"errors"
	"fmt"
	"log"
	"time"

	"text-expander/grapheme"
	"text-expander/keyboard"
	"text-expander/modifier"
	"text-expander/richtext"
)

// NoCursorPos requests no cursor repositioning after the substitution.
const NoCursorPos = -1

// DefaultClipboardRestoreDelay is how long the pasted snippet stays on the
// clipboard before the backup is restored. Restoring sooner races with the
// target application's asynchronous paste handling. Empirical value; tune
// per platform via Options.
const DefaultClipboardRestoreDelay = 1000 * time.Millisecond

// Request describes one substitution. It is consumed by a single
// PerformSubstitution call and not retained.
type Request struct {
	// CharsToErase is the length of the already-typed trigger to remove.
	// Negative values erase nothing.
	CharsToErase int

	// Text is the replacement content, HTML when IsHTML is set.
	Text   string
	IsHTML bool

	// CursorPos is the target cursor offset in perceived characters from
	// the start of the replacement, or NoCursorPos (any negative value) to
	// leave the cursor where injection ends.
	CursorPos int
}

// ClipboardBridge is the clipboard collaborator contract. Backup must
// capture content strictly prior to a following SetText/SetHTML;
// RestoreAfter returns immediately and restores asynchronously.
type ClipboardBridge interface {
	Backup() error
	RestoreAfter(delay time.Duration)
	SetText(text string) error
	SetHTML(html string) error
}

// HookController suspends and resumes the keyboard hook that feeds trigger
// detection. SetEnabled returns the previous state so it can be restored
// exactly.
type HookController interface {
	SetEnabled(enabled bool) (previous bool)
}

// ModifierTracker neutralizes and restores physically held modifier keys.
type ModifierTracker interface {
	CaptureAndRelease() (modifier.Snapshot, error)
	Restore(snap modifier.Snapshot) error
}

// Options wires the engine's collaborators. Keyboard, Modifiers, Clipboard
// and Hook are required.
type Options struct {
	Keyboard  keyboard.Synthesizer
	Modifiers ModifierTracker
	Clipboard ClipboardBridge
	Hook      HookController

	// ActiveExecutableName resolves the foreground process. May return ""
	// for unknown; defaults to always unknown.
	ActiveExecutableName func() string

	// IsSensitiveApplication decides the injection strategy for an
	// executable name. Defaults to never sensitive.
	IsSensitiveApplication func(executableName string) bool

	// DelayBetweenKeystrokes is slept after each typed character in the
	// character-typing strategy. Zero disables the wait.
	DelayBetweenKeystrokes time.Duration

	// ClipboardRestoreDelay overrides DefaultClipboardRestoreDelay when
	// positive.
	ClipboardRestoreDelay time.Duration
}

// Engine is the substitution orchestrator. It is not reentrant: callers must
// serialize PerformSubstitution calls (see the eventloop package).
type Engine struct {
	opts Options
}

// New validates the collaborators and returns an engine.
func New(opts Options) (*Engine, error) {
	if opts.Keyboard == nil {
		return nil, errors.New("engine: Keyboard is required")
	}
	if opts.Modifiers == nil {
		return nil, errors.New("engine: Modifiers is required")
	}
	if opts.Clipboard == nil {
		return nil, errors.New("engine: Clipboard is required")
	}
	if opts.Hook == nil {
		return nil, errors.New("engine: Hook is required")
	}
	if opts.ActiveExecutableName == nil {
		opts.ActiveExecutableName = func() string { return "" }
	}
	if opts.IsSensitiveApplication == nil {
		opts.IsSensitiveApplication = func(string) bool { return false }
	}
	if opts.ClipboardRestoreDelay <= 0 {
		opts.ClipboardRestoreDelay = DefaultClipboardRestoreDelay
	}
	return &Engine{opts: opts}, nil
}

// PerformSubstitution erases the trigger, injects the replacement and
// repositions the cursor. The keyboard hook is suspended for the duration
// and restored to its prior state on every exit path, so a failure mid
// sequence never leaves the hook disabled; the error is returned after
// restoration.
func (e *Engine) PerformSubstitution(req Request) error {
	wasEnabled := e.opts.Hook.SetEnabled(false)
	defer e.opts.Hook.SetEnabled(wasEnabled)

	if err := e.eraseTrigger(req.CharsToErase); err != nil {
		return err
	}

	executable := e.opts.ActiveExecutableName()
	if executable == "" {
		log.Printf("Foreground executable unknown, treating as not sensitive")
	}
	var err error
	if e.opts.IsSensitiveApplication(executable) {
		log.Printf("Sensitive target %q: typing snippet character by character", executable)
		err = e.typeSnippet(req)
	} else {
		err = e.pasteSnippet(req)
	}
	if err != nil {
		return err
	}

	return e.repositionCursor(req)
}

func (e *Engine) eraseTrigger(charCount int) error {
	if charCount <= 0 {
		return nil
	}
	if err := e.opts.Keyboard.Backspaces(charCount); err != nil {
		return fmt.Errorf("erase trigger: %w", err)
	}
	return nil
}

// withNeutralizedModifiers brackets fn with a modifier capture/restore pair.
// Restore runs exactly once per capture, including when the capture itself
// failed partway (the partial snapshot is restored).
func (e *Engine) withNeutralizedModifiers(fn func() error) error {
	snap, captureErr := e.opts.Modifiers.CaptureAndRelease()
	var fnErr error
	if captureErr == nil {
		fnErr = fn()
	}
	restoreErr := e.opts.Modifiers.Restore(snap)
	switch {
	case captureErr != nil:
		return fmt.Errorf("release modifiers: %w", captureErr)
	case fnErr != nil:
		return fnErr
	case restoreErr != nil:
		return fmt.Errorf("restore modifiers: %w", restoreErr)
	}
	return nil
}

// pasteSnippet delivers the replacement through the clipboard and a Ctrl+V
// chord. The clipboard backup is restored asynchronously after the
// configured delay.
func (e *Engine) pasteSnippet(req Request) error {
	if err := e.opts.Clipboard.Backup(); err != nil {
		return fmt.Errorf("back up clipboard: %w", err)
	}
	var err error
	if req.IsHTML {
		err = e.opts.Clipboard.SetHTML(req.Text)
	} else {
		err = e.opts.Clipboard.SetText(req.Text)
	}
	if err != nil {
		return fmt.Errorf("set clipboard: %w", err)
	}

	err = e.withNeutralizedModifiers(func() error {
		if err := e.opts.Keyboard.KeyDown(keyboard.VKLeftControl); err != nil {
			return err
		}
		if err := e.opts.Keyboard.KeyDownAndUp(keyboard.VKV); err != nil {
			return err
		}
		return e.opts.Keyboard.KeyUp(keyboard.VKLeftControl)
	})
	if err != nil {
		return fmt.Errorf("paste chord: %w", err)
	}

	e.opts.Clipboard.RestoreAfter(e.opts.ClipboardRestoreDelay)
	return nil
}

// typeSnippet delivers the replacement as individual keystrokes, never
// touching the clipboard. Rich content is degraded to plain text first.
// Line feeds are typed as Enter because a Unicode key event does not
// reliably produce a line break.
func (e *Engine) typeSnippet(req Request) error {
	text := richtext.ToPlainText(req.Text, req.IsHTML)
	for _, c := range text {
		var err error
		if c == '\n' {
			err = e.withNeutralizedModifiers(func() error {
				return e.opts.Keyboard.KeyDownAndUp(keyboard.VKReturn)
			})
		} else {
			err = e.withNeutralizedModifiers(func() error {
				return e.opts.Keyboard.UnicodeKeyDownAndUp(c)
			})
		}
		if err != nil {
			return fmt.Errorf("type snippet: %w", err)
		}
		if e.opts.DelayBetweenKeystrokes > 0 {
			time.Sleep(e.opts.DelayBetweenKeystrokes)
		}
	}
	return nil
}

// repositionCursor moves the cursor left from the end of the injected
// replacement to the requested offset. One modifier bracket covers the whole
// arrow run.
func (e *Engine) repositionCursor(req Request) error {
	if req.CursorPos < 0 {
		return nil
	}
	plain := richtext.ToPlainText(req.Text, req.IsHTML)
	moves := grapheme.PrintableCharacterCount(plain) - req.CursorPos
	if moves < 0 {
		moves = 0
	}
	err := e.withNeutralizedModifiers(func() error {
		for i := 0; i < moves; i++ {
			if err := e.opts.Keyboard.KeyDownAndUp(keyboard.VKLeft); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reposition cursor: %w", err)
	}
	return nil
}
