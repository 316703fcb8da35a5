package main

import (
	"context"
	"log"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"text-expander/clipboard"
	"text-expander/config"
	"text-expander/engine"
	"text-expander/eventloop"
	"text-expander/foreground"
	"text-expander/hook"
	"text-expander/instance"
	"text-expander/keyboard"
	"text-expander/logutil"
	"text-expander/modifier"
	"text-expander/sensitive"
)

func main() {
	// Input synthesis and the hook share one OS thread.
	runtime.LockOSThread()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logutil.Setup(cfg.EnableFileLogging)

	lock, err := instance.AcquireLock(cfg.InstanceLockPort)
	if err != nil {
		log.Fatalf("Startup aborted: %v", err)
	}
	defer lock.Close()

	if err := clipboard.Init(); err != nil {
		log.Fatalf("Clipboard unavailable: %v", err)
	}

	patterns := cfg.SensitiveApps
	if cfg.SensitiveAppsFile != "" {
		filePatterns, err := sensitive.LoadPatternsFile(cfg.SensitiveAppsFile)
		if err != nil {
			log.Printf("Failed to read sensitive apps file %q: %v", cfg.SensitiveAppsFile, err)
		} else {
			patterns = append(patterns, filePatterns...)
		}
	}
	apps := sensitive.NewManager(patterns...)

	// The snippet matcher subscribes to key events here; it owns trigger
	// detection and submits substitution requests to the loop.
	monitor := hook.NewMonitor(nil)
	monitor.Start()
	defer monitor.Stop()

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

	loop := eventloop.New(eng)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Substitution engine resident")
	if err := loop.Run(ctx); err != nil && err != context.Canceled {
		log.Printf("Event loop exited: %v", err)
	}
}
