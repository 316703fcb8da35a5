//go:build !windows

package clipboard

import (
	xclipboard "golang.design/x/clipboard"

	"text-expander/richtext"
)

// writeHTML degrades to the plain-text rendering; no rich clipboard format is
// wired up on this platform.
func writeHTML(html string) error {
	xclipboard.Write(xclipboard.FmtText, []byte(richtext.ToPlainText(html, true)))
	return nil
}
