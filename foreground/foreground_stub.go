//go:build !windows

package foreground

// No foreground-window query is wired up on this platform; callers degrade
// to "unknown application".
func activeExecutableName() string { return "" }
