package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// GetDisplayWidth returns the terminal cell width of text.
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadRight pads text with spaces to width cells, truncating with an ellipsis
// when it does not fit.
func PadRight(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) > width {
		text = runewidth.Truncate(text, width, "…")
	}
	return runewidth.FillRight(text, width)
}

// PadLeft right-aligns text within width cells.
func PadLeft(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) > width {
		text = runewidth.Truncate(text, width, "…")
	}
	return runewidth.FillLeft(text, width)
}

// CreateProgressBar draws a filled bar for a 0..1 ratio.
func CreateProgressBar(ratio float64, width int) string {
	if width < 2 {
		width = 2
	}
	inner := width - 2
	filled := int(ratio * float64(inner))
	if filled > inner {
		filled = inner
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", inner-filled) + "]"
}

// Separator returns a horizontal rule of width cells.
func Separator(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("─", width)
}
