package util

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes text for insertion into markup. Applied to every field
// sourced from stored data before rendering, without exception.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// EscapeAttr escapes a value for use inside an HTML attribute. Backticks are
// stripped on top of the regular escaping.
func EscapeAttr(s string) string {
	return strings.ReplaceAll(EscapeHTML(s), "`", "")
}
