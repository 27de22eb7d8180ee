// Package htmltext flattens HTML from the Teams API into Markdown-ish plain text.
package htmltext

import (
	"html"
	"strings"
)

// replacer maps the tag pairs the API emits in bodies and excerpts to their
// Markdown equivalents. Anything not listed (attributes, lists, anchors,
// malformed markup) passes through untouched; this is a fixed substitution
// pass, not an HTML parser.
var replacer = strings.NewReplacer(
	"<p>", "",
	"</p>", "\n\n",
	"<code>", "`",
	"</code>", "`",
	"<strong>", "**",
	"</strong>", "**",
	"<em>", "*",
	"</em>", "*",
)

// Clean decodes HTML entities, rewrites known tag pairs to Markdown and trims
// surrounding whitespace. Empty input yields empty output.
func Clean(s string) string {
	return strings.TrimSpace(replacer.Replace(html.UnescapeString(s)))
}
