package utils

import (
	"strings"
	"unicode/utf8"
)

// CleanText strips NUL bytes and invalid UTF-8 from user supplied text, then
// trims surrounding whitespace. The boolean reports whether bytes were removed.
func CleanText(input string) (string, bool) {
	needsCleaning := strings.Contains(input, "\x00") || !utf8.ValidString(input)

	cleaned := input
	if needsCleaning {
		cleaned = strings.ToValidUTF8(cleaned, "")
		cleaned = strings.ReplaceAll(cleaned, "\x00", "")
	}

	return strings.TrimSpace(cleaned), needsCleaning
}
