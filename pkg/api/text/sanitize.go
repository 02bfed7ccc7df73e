package text

import (
	"regexp"
	"strings"
)

type substitution struct {
	pattern     *regexp.Regexp
	replacement string
}

// Order matters: mentions and custom emoji go before whitespace is normalized, so that removing
// them cannot leave doubled spaces behind.
var substitutions = []substitution{
	{regexp.MustCompile(`http\S*`), ""},
	{regexp.MustCompile(`www\.\S+`), ""},
	{regexp.MustCompile(`<a?:\w+:\d+>`), ""},
	{regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{1F1E6}-\x{1F1FF}\x{FE0F}]+`), ""},
	{regexp.MustCompile(`<@[!&]?\d+>`), ""},
	{regexp.MustCompile(`<#\d+>`), ""},
	{regexp.MustCompile(`[\x{201C}\x{201D}]`), ""},
	{regexp.MustCompile(`[\x{200B}-\x{200D}\x{2060}\x{FEFF}]`), ""},
	{regexp.MustCompile(`[\r\n\t]+`), " "},
	{regexp.MustCompile(` {2,}`), " "},
}

// Sanitize strips links, emoji, mentions and typographic noise from a chat message and normalizes
// its whitespace. Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	for {
		cleaned := s
		for _, sub := range substitutions {
			cleaned = sub.pattern.ReplaceAllString(cleaned, sub.replacement)
		}
		cleaned = strings.TrimSpace(cleaned)

		if cleaned == s {
			return cleaned
		}
		s = cleaned
	}
}
