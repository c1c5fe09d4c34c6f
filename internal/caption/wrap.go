package caption

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxCharsPerLine is the standard subtitle line length.
const DefaultMaxCharsPerLine = 42

// Wrap formats caption text for the overlay. Text longer than
// maxCharsPerLine is split into two lines at the word break closest to the
// middle; a single long word is left alone.
func Wrap(text string, maxCharsPerLine int) string {
	text = strings.TrimSpace(text)
	if maxCharsPerLine <= 0 {
		maxCharsPerLine = DefaultMaxCharsPerLine
	}
	runeCount := utf8.RuneCountInString(text)

	// if text fits on one line, return as is
	if runeCount <= maxCharsPerLine || strings.Contains(text, "\n") {
		return text
	}

	words := strings.Fields(text)
	if len(words) < 2 {
		return text
	}

	middle := runeCount / 2
	bestSplit := 0
	bestDiff := runeCount

	currentLen := 0
	for i, word := range words[:len(words)-1] {
		currentLen += utf8.RuneCountInString(word)
		if i > 0 {
			currentLen++ // space
		}

		diff := abs(currentLen - middle)
		if diff < bestDiff {
			bestDiff = diff
			bestSplit = i + 1
		}
	}

	if bestSplit > 0 && bestSplit < len(words) {
		line1 := strings.Join(words[:bestSplit], " ")
		line2 := strings.Join(words[bestSplit:], " ")
		return line1 + "\n" + line2
	}

	return text
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
