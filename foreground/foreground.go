// Package foreground identifies the application that owns the currently
// focused window. The substitution engine uses the executable name to decide
// whether the target is a sensitive application.
package foreground

// ActiveExecutableName returns the file name, including extension, of the
// process owning the foreground window (e.g. "notepad.exe"). It returns an
// empty string on any failure: no foreground window, access denied, or the
// process having already exited. An empty result is soft; callers treat it
// as "unknown application".
func ActiveExecutableName() string {
	return activeExecutableName()
}
