package poster

import (
	"strings"
	"testing"
)

// charMeasure pretends every rune is 10px wide, which makes expected
// line breaks easy to reason about.
func charMeasure(s string) float64 {
	return float64(len([]rune(s))) * 10
}

type drawnLine struct {
	text string
	x, y float64
}

func collectLines(dst *[]drawnLine) DrawFunc {
	return func(s string, x, y float64) {
		*dst = append(*dst, drawnLine{text: s, x: x, y: y})
	}
}

func TestWrapTextRespectsMaxWidth(t *testing.T) {
	var lines []drawnLine
	text := "the quick brown fox jumps over the lazy dog"
	WrapText(text, 20, 100, 150, 18, charMeasure, collectLines(&lines))

	if len(lines) < 2 {
		t.Fatalf("expected text to wrap into multiple lines, got %d", len(lines))
	}
	for _, line := range lines {
		if w := charMeasure(line.text); w > 150 {
			t.Errorf("line %q measures %f, exceeds max width 150", line.text, w)
		}
		if line.x != 20 {
			t.Errorf("line %q drawn at x=%f, want 20", line.text, line.x)
		}
	}

	// No word lost, no word duplicated.
	var joined []string
	for _, line := range lines {
		joined = append(joined, line.text)
	}
	if got := strings.Join(joined, " "); got != text {
		t.Errorf("wrapped text %q, want %q", got, text)
	}
}

func TestWrapTextAdvancesY(t *testing.T) {
	var lines []drawnLine
	finalY := WrapText("aa bb cc dd", 0, 50, 60, 18, charMeasure, collectLines(&lines))

	for i, line := range lines {
		want := 50 + float64(i)*18
		if line.y != want {
			t.Errorf("line %d at y=%f, want %f", i, line.y, want)
		}
	}
	want := 50 + float64(len(lines))*18
	if finalY != want {
		t.Errorf("finalY = %f, want %f", finalY, want)
	}
}

func TestWrapTextLongWordNotSplit(t *testing.T) {
	var lines []drawnLine
	WrapText("short averyveryverylongtoken end", 0, 0, 100, 18, charMeasure, collectLines(&lines))

	found := false
	for _, line := range lines {
		if line.text == "averyveryverylongtoken" {
			found = true
		}
	}
	if !found {
		t.Fatalf("over-wide word should be drawn alone and unsplit, got %+v", lines)
	}
}

func TestWrapTextEmpty(t *testing.T) {
	var lines []drawnLine
	finalY := WrapText("", 0, 30, 100, 18, charMeasure, collectLines(&lines))
	if len(lines) != 0 {
		t.Errorf("empty text drew %d lines", len(lines))
	}
	if finalY != 30 {
		t.Errorf("finalY = %f, want 30", finalY)
	}
}

func TestBreakLongWord(t *testing.T) {
	chunks := BreakLongWord("abcdefghij", 30, charMeasure)
	if len(chunks) != 4 {
		t.Fatalf("got %d chunks %v, want 4", len(chunks), chunks)
	}
	for _, c := range chunks {
		if charMeasure(c) > 30 {
			t.Errorf("chunk %q exceeds max width", c)
		}
	}
	if joined := strings.Join(chunks, ""); joined != "abcdefghij" {
		t.Errorf("chunks reassemble to %q", joined)
	}

	if got := BreakLongWord("", 30, charMeasure); got != nil {
		t.Errorf("empty word should yield nil, got %v", got)
	}
}

func TestCapitalizeWords(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"sunset boulevard", "Sunset Boulevard"},
		{"shot by jane doe", "Shot By Jane Doe"},
		{"ALREADY UPPER", "ALREADY UPPER"},
		{"mixedCase words", "MixedCase Words"},
		{"", ""},
		{"42nd street", "42nd Street"},
		{"san-francisco, ca", "San-Francisco, Ca"},
	}
	for _, tt := range tests {
		if got := CapitalizeWords(tt.in); got != tt.want {
			t.Errorf("CapitalizeWords(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
