// Package textutil holds small text helpers shared by the pipeline stages.
package textutil

import "unicode/utf8"

// Clip truncates s to at most limit bytes without splitting a multibyte
// character: the cut backs off to the nearest rune boundary.
func Clip(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
