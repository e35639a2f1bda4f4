package storage

import "strings"

const maxStoredErrorLen = 500

// normalizeErrorText collapses whitespace and caps the length of an error
// message before it is stored for the status line.
func normalizeErrorText(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	// Collapse any repeated whitespace (spaces/tabs/newlines) to a single space.
	out := strings.Join(strings.Fields(trimmed), " ")
	if r := []rune(out); len(r) > maxStoredErrorLen {
		out = string(r[:maxStoredErrorLen-1]) + "…"
	}
	return out
}
