package normalization

import "strings"

// NormalizeEmail lowercases and trims an address so storage and lookup agree.
func NormalizeEmail(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// TrimText strips surrounding whitespace from free-form intake text. Interior
// formatting is kept as typed.
func TrimText(input string) string {
	return strings.TrimSpace(input)
}
