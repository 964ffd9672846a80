package poster

import (
	"strings"
	"unicode"
)

// MeasureFunc reports the rendered pixel width of a string in the
// currently selected font.
type MeasureFunc func(s string) float64

// DrawFunc paints a single line of text with its top-left at (x, y).
type DrawFunc func(s string, x, y float64)

// WrapText lays out text with greedy word wrapping. Words are
// accumulated into a line until adding the next word would exceed
// maxWidth, at which point the line is flushed through draw and a new
// line starts with the overflowing word. A word wider than maxWidth is
// drawn alone on its own line without being split; callers that need to
// break such tokens can pre-process them with BreakLongWord.
//
// Returns the y coordinate immediately below the last drawn line so
// further content can be stacked beneath it.
func WrapText(text string, x, y, maxWidth, lineHeight float64, measure MeasureFunc, draw DrawFunc) float64 {
	words := strings.Split(text, " ")
	line := ""
	currentY := y

	for n, word := range words {
		testLine := line + word + " "
		if measure(testLine) > maxWidth && n > 0 {
			draw(strings.TrimSpace(line), x, currentY)
			line = word + " "
			currentY += lineHeight
		} else {
			line = testLine
		}
	}

	if strings.TrimSpace(line) != "" {
		draw(strings.TrimSpace(line), x, currentY)
		currentY += lineHeight
	}

	return currentY
}

// BreakLongWord splits a single unbroken token into chunks that each
// measure at most maxWidth. It is an opt-in mitigation for long tokens
// such as URLs; WrapText never invokes it on its own. A single rune
// wider than maxWidth is returned as its own chunk.
func BreakLongWord(word string, maxWidth float64, measure MeasureFunc) []string {
	if word == "" {
		return nil
	}
	var chunks []string
	current := ""
	for _, r := range word {
		test := current + string(r)
		if measure(test) > maxWidth && current != "" {
			chunks = append(chunks, current)
			current = string(r)
		} else {
			current = test
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// CapitalizeWords uppercases the first letter of each word, leaving the
// rest of the word untouched. Used for display capitalization of the
// title, photographer and address fields; stored values are never
// mutated.
func CapitalizeWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	atBoundary := true
	for _, r := range s {
		if atBoundary && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(r)
		}
		atBoundary = !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}
	return b.String()
}
