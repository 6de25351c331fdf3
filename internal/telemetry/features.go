package telemetry

import (
	"strings"
	"unicode/utf8"
)

// TextFeatures describes a text by size only, for events that must not carry content.
func TextFeatures(s string) map[string]any {
	lines := 0
	if s != "" {
		lines = 1 + strings.Count(s, "\n")
	}
	return map[string]any{
		"bytes": len(s),
		"runes": utf8.RuneCountInString(s),
		"words": len(strings.Fields(s)),
		"lines": lines,
	}
}
