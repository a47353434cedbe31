// Package text provides the string measurement used by the domain validators.
// Field lengths are measured in Unicode code points so that titles and names
// written in any script are bounded the same way.
package text

import "unicode/utf8"

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Multi-byte characters such as accented letters, CJK text and emoji count as one.
//
// Examples:
//
//	CountRunes("Sensors")   // returns 7
//	CountRunes("Café")      // returns 4 (5 bytes)
//	CountRunes("雑誌")        // returns 2
//	CountRunes("")          // returns 0
func CountRunes(s string) int {
	return utf8.RuneCountInString(s)
}
