package util

import "unicode/utf16"

// TextLength counts s in UTF-16 code units, which is how browsers measure string length.
func TextLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
