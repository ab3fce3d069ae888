package assistant

import (
	"regexp"

	"github.com/gookit/color"
)

var starred = regexp.MustCompile(`\*(.*?)\*`)

// Markup replaces every *span* of text with bold(span).
func Markup(text string, bold func(string) string) string {
	return starred.ReplaceAllStringFunc(text, func(match string) string {
		return bold(match[1 : len(match)-1])
	})
}

// Render prints starred spans in bold on the terminal.
func Render(text string) string {
	return Markup(text, func(s string) string { return color.OpBold.Sprint(s) })
}
