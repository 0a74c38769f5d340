package http

import (
	"strings"
	"unicode/utf8"
)

// Input limits
const (
	MaxMessageLength = 4000
	MaxRequestBytes  = 1 << 20
)

// SanitizeString removes null bytes and invalid UTF-8
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")

	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return s
}

// TruncateString truncates s to at most maxRunes runes
func TruncateString(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes])
}

// cleanText prepares inbound message text for processing
func cleanText(s string) string {
	return TruncateString(SanitizeString(s), MaxMessageLength)
}
