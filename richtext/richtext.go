// Package richtext converts rich (HTML) snippet content to the plain text
// that gets typed character by character into applications that refuse
// clipboard-borne rich content.
package richtext

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Images have no typed equivalent; converters represent them with the object
// replacement character, which must not reach the synthesizer.
const objectReplacementChar = "￼"

var (
	stripPolicy = bluemonday.StrictPolicy()

	// Tags that end a visual line when the document is rendered.
	lineBreakRe = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</div>|</li>|</tr>|</h[1-6]>`)
)

// ToPlainText returns the snippet as plain text. Non-HTML snippets pass
// through untouched. For HTML, block-level closings and <br> become line
// feeds, all remaining markup is stripped, entities are decoded and object
// replacement characters are removed.
func ToPlainText(snippet string, isHTML bool) string {
	if !isHTML {
		return snippet
	}
	text := lineBreakRe.ReplaceAllString(snippet, "\n")
	text = stripPolicy.Sanitize(text)
	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, objectReplacementChar, "")
	return strings.TrimRight(text, "\n")
}
