// Command cli performs a single substitution against whatever window is
// focused after a grace period. It exists for manual end-to-end checks:
//
//	cli -erase 3 -text "hello world" -cursor 5
//	cli -erase 0 -html -text "<b>Hi</b><br>There"
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"text-expander/clipboard"
	"text-expander/config"
	"text-expander/engine"
	"text-expander/foreground"
	"text-expander/hook"
	"text-expander/keyboard"
	"text-expander/logutil"
	"text-expander/modifier"
	"text-expander/sensitive"
)

func main() {
	runtime.LockOSThread()

	erase := flag.Int("erase", 0, "number of already-typed characters to erase")
	text := flag.String("text", "", "replacement content")
	isHTML := flag.Bool("html", false, "treat -text as HTML")
	cursor := flag.Int("cursor", engine.NoCursorPos, "cursor offset in perceived characters, negative to skip")
	wait := flag.Duration("wait", 3*time.Second, "grace period to focus the target window")
	flag.Parse()

	if *text == "" {
		fmt.Fprintln(os.Stderr, "missing -text")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logutil.Setup(cfg.EnableFileLogging)

	if err := clipboard.Init(); err != nil {
		log.Fatalf("Clipboard unavailable: %v", err)
	}
	apps := sensitive.NewManager(cfg.SensitiveApps...)

	// The monitor is never started here; it only provides the hook-enable
	// flag the engine brackets.
	monitor := hook.NewMonitor(nil)

	synth := keyboard.NewSynthesizer()
	eng, err := engine.New(engine.Options{
		Keyboard:               synth,
		Modifiers:              modifier.NewTracker(keyboard.NewStateQuerier(), synth),
		Clipboard:              clipboard.NewBridge(),
		Hook:                   monitor,
		ActiveExecutableName:   foreground.ActiveExecutableName,
		IsSensitiveApplication: apps.IsSensitive,
		DelayBetweenKeystrokes: time.Duration(cfg.DelayBetweenKeystrokesMs) * time.Millisecond,
		ClipboardRestoreDelay:  time.Duration(cfg.ClipboardRestoreDelayMs) * time.Millisecond,
	})
	if err != nil {
		log.Fatalf("Failed to build engine: %v", err)
	}

	fmt.Printf("Focus the target window; substituting in %v...\n", *wait)
	time.Sleep(*wait)

	req := engine.Request{
		CharsToErase: *erase,
		Text:         *text,
		IsHTML:       *isHTML,
		CursorPos:    *cursor,
	}
	if err := eng.PerformSubstitution(req); err != nil {
		log.Fatalf("Substitution failed: %v", err)
	}

	// Keep the process alive until the scheduled clipboard restore fires.
	time.Sleep(time.Duration(cfg.ClipboardRestoreDelayMs)*time.Millisecond + 200*time.Millisecond)
	fmt.Println("Done")
}
