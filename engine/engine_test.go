package engine

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"text-expander/keyboard"
	"text-expander/modifier"
)

// fakeKeyboard records every synthesis call as a readable op string and can
// be scripted to fail on a given op prefix.
type fakeKeyboard struct {
	ops    []string
	failOn string
}

func (f *fakeKeyboard) record(op string) error {
	if f.failOn != "" && strings.HasPrefix(op, f.failOn) {
		return fmt.Errorf("synthesis failed at %s", op)
	}
	f.ops = append(f.ops, op)
	return nil
}

func (f *fakeKeyboard) KeyDown(vk uint16) error      { return f.record(fmt.Sprintf("down:%#x", vk)) }
func (f *fakeKeyboard) KeyUp(vk uint16) error        { return f.record(fmt.Sprintf("up:%#x", vk)) }
func (f *fakeKeyboard) KeyDownAndUp(vk uint16) error { return f.record(fmt.Sprintf("tap:%#x", vk)) }
func (f *fakeKeyboard) UnicodeKeyDownAndUp(r rune) error {
	return f.record(fmt.Sprintf("unicode:%q", r))
}
func (f *fakeKeyboard) Backspaces(count int) error {
	return f.record(fmt.Sprintf("backspaces:%d", count))
}

func (f *fakeKeyboard) countOps(prefix string) int {
	n := 0
	for _, op := range f.ops {
		if strings.HasPrefix(op, prefix) {
			n++
		}
	}
	return n
}

// fakeClipboard records the bridge calls in order.
type fakeClipboard struct {
	ops          []string
	restoreDelay time.Duration
	backupErr    error
}

func (f *fakeClipboard) Backup() error {
	if f.backupErr != nil {
		return f.backupErr
	}
	f.ops = append(f.ops, "backup")
	return nil
}

func (f *fakeClipboard) RestoreAfter(delay time.Duration) {
	f.restoreDelay = delay
	f.ops = append(f.ops, "restoreAfter")
}

func (f *fakeClipboard) SetText(text string) error {
	f.ops = append(f.ops, "setText:"+text)
	return nil
}

func (f *fakeClipboard) SetHTML(html string) error {
	f.ops = append(f.ops, "setHTML:"+html)
	return nil
}

// fakeHook tracks the enabled flag and every transition.
type fakeHook struct {
	enabled     bool
	transitions []bool
}

func (f *fakeHook) SetEnabled(enabled bool) bool {
	previous := f.enabled
	f.enabled = enabled
	f.transitions = append(f.transitions, enabled)
	return previous
}

// fakeTracker simulates modifiers held by the user and counts bracket pairs.
type fakeTracker struct {
	held     modifier.Snapshot
	captures int
	restores int
}

func (f *fakeTracker) CaptureAndRelease() (modifier.Snapshot, error) {
	f.captures++
	return f.held, nil
}

func (f *fakeTracker) Restore(snap modifier.Snapshot) error {
	f.restores++
	return nil
}

type testRig struct {
	kb    *fakeKeyboard
	clip  *fakeClipboard
	hook  *fakeHook
	track *fakeTracker
	opts  Options
}

func newRig() *testRig {
	r := &testRig{
		kb:    &fakeKeyboard{},
		clip:  &fakeClipboard{},
		hook:  &fakeHook{enabled: true},
		track: &fakeTracker{},
	}
	r.opts = Options{
		Keyboard:  r.kb,
		Modifiers: r.track,
		Clipboard: r.clip,
		Hook:      r.hook,
	}
	return r
}

func (r *testRig) engine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(r.opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNewRequiresCollaborators(t *testing.T) {
	r := newRig()
	cases := []struct {
		name   string
		mutate func(*Options)
	}{
		{"keyboard", func(o *Options) { o.Keyboard = nil }},
		{"modifiers", func(o *Options) { o.Modifiers = nil }},
		{"clipboard", func(o *Options) { o.Clipboard = nil }},
		{"hook", func(o *Options) { o.Hook = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := r.opts
			tc.mutate(&opts)
			if _, err := New(opts); err == nil {
				t.Error("expected error for missing collaborator")
			}
		})
	}
}

func TestPasteStrategy(t *testing.T) {
	r := newRig()
	e := r.engine(t)

	err := e.PerformSubstitution(Request{
		CharsToErase: 3,
		Text:         "hello",
		CursorPos:    NoCursorPos,
	})
	if err != nil {
		t.Fatalf("PerformSubstitution: %v", err)
	}

	wantKb := []string{
		"backspaces:3",
		fmt.Sprintf("down:%#x", uint16(keyboard.VKLeftControl)),
		fmt.Sprintf("tap:%#x", uint16(keyboard.VKV)),
		fmt.Sprintf("up:%#x", uint16(keyboard.VKLeftControl)),
	}
	if !reflect.DeepEqual(r.kb.ops, wantKb) {
		t.Errorf("keyboard ops = %v, want %v", r.kb.ops, wantKb)
	}

	wantClip := []string{"backup", "setText:hello", "restoreAfter"}
	if !reflect.DeepEqual(r.clip.ops, wantClip) {
		t.Errorf("clipboard ops = %v, want %v", r.clip.ops, wantClip)
	}
	if r.clip.restoreDelay != DefaultClipboardRestoreDelay {
		t.Errorf("restore delay = %v, want %v", r.clip.restoreDelay, DefaultClipboardRestoreDelay)
	}
	if !r.hook.enabled {
		t.Error("hook must be re-enabled after the call")
	}
	if r.track.captures != 1 || r.track.restores != 1 {
		t.Errorf("modifier brackets = %d/%d, want 1/1 around the paste chord",
			r.track.captures, r.track.restores)
	}
}

func TestPasteStrategyRichContent(t *testing.T) {
	r := newRig()
	e := r.engine(t)

	err := e.PerformSubstitution(Request{
		Text:      "<b>bold</b>",
		IsHTML:    true,
		CursorPos: NoCursorPos,
	})
	if err != nil {
		t.Fatalf("PerformSubstitution: %v", err)
	}
	wantClip := []string{"backup", "setHTML:<b>bold</b>", "restoreAfter"}
	if !reflect.DeepEqual(r.clip.ops, wantClip) {
		t.Errorf("clipboard ops = %v, want %v", r.clip.ops, wantClip)
	}
}

func TestTypeStrategySensitiveTarget(t *testing.T) {
	r := newRig()
	r.opts.ActiveExecutableName = func() string { return "keepass.exe" }
	r.opts.IsSensitiveApplication = func(name string) bool { return name == "keepass.exe" }
	e := r.engine(t)

	err := e.PerformSubstitution(Request{
		CharsToErase: 0,
		Text:         "<b>Hi</b>\nThere",
		IsHTML:       true,
		CursorPos:    NoCursorPos,
	})
	if err != nil {
		t.Fatalf("PerformSubstitution: %v", err)
	}

	// "Hi\nThere": H, i as Unicode events, the line feed as Enter, then
	// T, h, e, r, e.
	wantKb := []string{
		`unicode:'H'`,
		`unicode:'i'`,
		fmt.Sprintf("tap:%#x", uint16(keyboard.VKReturn)),
		`unicode:'T'`,
		`unicode:'h'`,
		`unicode:'e'`,
		`unicode:'r'`,
		`unicode:'e'`,
	}
	if !reflect.DeepEqual(r.kb.ops, wantKb) {
		t.Errorf("keyboard ops = %v, want %v", r.kb.ops, wantKb)
	}
	if len(r.clip.ops) != 0 {
		t.Errorf("clipboard must not be touched for sensitive targets, got %v", r.clip.ops)
	}
	// One capture/restore pair per typed character.
	if r.track.captures != len(wantKb) || r.track.restores != len(wantKb) {
		t.Errorf("modifier brackets = %d/%d, want %d per character",
			r.track.captures, r.track.restores, len(wantKb))
	}
}

func TestNegativeEraseCountIsClamped(t *testing.T) {
	r := newRig()
	e := r.engine(t)

	err := e.PerformSubstitution(Request{
		CharsToErase: -5,
		Text:         "x",
		CursorPos:    NoCursorPos,
	})
	if err != nil {
		t.Fatalf("PerformSubstitution: %v", err)
	}
	if n := r.kb.countOps("backspaces"); n != 0 {
		t.Errorf("backspace synthesis calls = %d, want 0", n)
	}
}

func TestCursorRepositioning(t *testing.T) {
	r := newRig()
	e := r.engine(t)

	// Printable count of "hello" is 5, offset 2 → 3 left arrows.
	err := e.PerformSubstitution(Request{
		Text:      "hello",
		CursorPos: 2,
	})
	if err != nil {
		t.Fatalf("PerformSubstitution: %v", err)
	}
	left := fmt.Sprintf("tap:%#x", uint16(keyboard.VKLeft))
	if n := r.kb.countOps(left); n != 3 {
		t.Errorf("left arrow taps = %d, want 3", n)
	}
	// One bracket for the chord, one covering the whole arrow run.
	if r.track.captures != 2 || r.track.restores != 2 {
		t.Errorf("modifier brackets = %d/%d, want 2/2", r.track.captures, r.track.restores)
	}
}

func TestCursorRepositioningCompoundEmoji(t *testing.T) {
	r := newRig()
	r.opts.IsSensitiveApplication = func(string) bool { return true }
	e := r.engine(t)

	// man+ZWJ+rocket counts as 1 perceived character, then "ab" → 3 total.
	// Offset 1 → 2 left arrows.
	err := e.PerformSubstitution(Request{
		Text:      "\U0001F468\u200d\U0001F680ab",
		CursorPos: 1,
	})
	if err != nil {
		t.Fatalf("PerformSubstitution: %v", err)
	}
	left := fmt.Sprintf("tap:%#x", uint16(keyboard.VKLeft))
	if n := r.kb.countOps(left); n != 2 {
		t.Errorf("left arrow taps = %d, want 2", n)
	}
}

func TestCursorOffsetBeyondTextMovesNothing(t *testing.T) {
	r := newRig()
	e := r.engine(t)

	err := e.PerformSubstitution(Request{Text: "ab", CursorPos: 10})
	if err != nil {
		t.Fatalf("PerformSubstitution: %v", err)
	}
	left := fmt.Sprintf("tap:%#x", uint16(keyboard.VKLeft))
	if n := r.kb.countOps(left); n != 0 {
		t.Errorf("left arrow taps = %d, want 0", n)
	}
}

func TestHookRestoredOnFailure(t *testing.T) {
	r := newRig()
	r.kb.failOn = "backspaces"
	e := r.engine(t)

	err := e.PerformSubstitution(Request{CharsToErase: 2, Text: "x", CursorPos: NoCursorPos})
	if err == nil {
		t.Fatal("expected propagated synthesis error")
	}
	if !r.hook.enabled {
		t.Error("hook must be restored to enabled after a failed call")
	}
}

func TestHookRestoredToDisabledState(t *testing.T) {
	r := newRig()
	r.hook.enabled = false // hook was already suspended by someone else
	e := r.engine(t)

	if err := e.PerformSubstitution(Request{Text: "x", CursorPos: NoCursorPos}); err != nil {
		t.Fatalf("PerformSubstitution: %v", err)
	}
	if r.hook.enabled {
		t.Error("hook must be restored to its prior disabled state")
	}
}

func TestClipboardBackupFailurePropagates(t *testing.T) {
	r := newRig()
	r.clip.backupErr = errors.New("clipboard locked")
	e := r.engine(t)

	err := e.PerformSubstitution(Request{Text: "x", CursorPos: NoCursorPos})
	if err == nil || !strings.Contains(err.Error(), "clipboard locked") {
		t.Fatalf("err = %v, want wrapped clipboard error", err)
	}
	if !r.hook.enabled {
		t.Error("hook must be re-enabled after clipboard failure")
	}
}

func TestUnknownForegroundFallsBackToPaste(t *testing.T) {
	r := newRig()
	r.opts.ActiveExecutableName = func() string { return "" }
	sawEmpty := false
	r.opts.IsSensitiveApplication = func(name string) bool {
		if name == "" {
			sawEmpty = true
		}
		return false
	}
	e := r.engine(t)

	if err := e.PerformSubstitution(Request{Text: "x", CursorPos: NoCursorPos}); err != nil {
		t.Fatalf("PerformSubstitution: %v", err)
	}
	if !sawEmpty {
		t.Error("verdict callback should receive the empty executable name")
	}
	if r.clip.ops[0] != "backup" {
		t.Errorf("expected paste strategy, clipboard ops = %v", r.clip.ops)
	}
}

func TestCustomClipboardRestoreDelay(t *testing.T) {
	r := newRig()
	r.opts.ClipboardRestoreDelay = 250 * time.Millisecond
	e := r.engine(t)

	if err := e.PerformSubstitution(Request{Text: "x", CursorPos: NoCursorPos}); err != nil {
		t.Fatalf("PerformSubstitution: %v", err)
	}
	if r.clip.restoreDelay != 250*time.Millisecond {
		t.Errorf("restore delay = %v, want 250ms", r.clip.restoreDelay)
	}
}
