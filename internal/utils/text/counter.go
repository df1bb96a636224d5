// Package text provides utilities for text measurement.
// This package includes reusable functions for character and word counting
// shared by content validation and the reading time estimate.
package text

import "strings"

// wordsPerMinute is the assumed reading speed for the reading time estimate.
const wordsPerMinute = 200

// CountRunes counts the number of Unicode characters (runes) in the given text.
// This function correctly handles multi-byte characters including Japanese, Chinese,
// emoji, and other Unicode characters by counting runes instead of bytes.
//
// Examples:
//
//	CountRunes("hello")          // returns 5 (ASCII text)
//	CountRunes("こんにちは")       // returns 5 (Japanese text)
//	CountRunes("")               // returns 0 (empty string)
func CountRunes(text string) int {
	return len([]rune(text))
}

// CountWords counts whitespace-separated words in the given text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// ReadingTime estimates reading time in whole minutes for the given word
// count, assuming 200 words per minute. Any non-zero word count yields at
// least one minute; zero words yields zero.
func ReadingTime(words int) int {
	if words <= 0 {
		return 0
	}
	minutes := words / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
