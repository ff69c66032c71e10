package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLogStringLength defines the maximum length in bytes for user-provided strings in logs
const MaxLogStringLength = 200

// unprintable matches anything that is not a letter, number, punctuation, symbol or space
var unprintable = regexp.MustCompile(`[^\p{L}\p{N}\p{P}\p{S}\p{Z}]`)

// SanitizeLogString sanitizes a user-controlled string such as a room code or
// display name before it is logged. It replaces control characters, limits the
// length without splitting a rune and escapes format specifiers.
func SanitizeLogString(input string) string {
	if input == "" {
		return ""
	}

	if len(input) > MaxLogStringLength {
		cut := MaxLogStringLength
		for cut > 0 && !utf8.RuneStart(input[cut]) {
			cut--
		}
		input = input[:cut] + "... (truncated)"
	}

	// CRLF becomes a single space
	input = strings.ReplaceAll(input, "\r\n", "\n")

	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, input)

	sanitized = strings.ReplaceAll(sanitized, "%", "%%")

	return unprintable.ReplaceAllString(sanitized, "")
}
