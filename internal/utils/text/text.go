// Package text provides small text-processing helpers shared by the
// summarization providers.
package text

// CountRunes counts Unicode characters (runes) rather than bytes, so
// multi-byte characters and emoji count as one.
func CountRunes(s string) int {
	return len([]rune(s))
}

// Truncate cuts s to at most max runes, appending an ellipsis when
// anything was removed. max values below 1 return the empty string.
func Truncate(s string, max int) string {
	if max < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
