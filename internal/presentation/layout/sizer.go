// Package layout sizes terminal output.
package layout

import (
	"os"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/penwyp/go-chronoface/internal/util"
)

const (
	DefaultWidth = 80
	minWidth     = 40
	maxWidth     = 160
)

// Sizer fits tables into a fixed number of terminal cells.
type Sizer struct {
	Width int
}

func NewSizer(width int) *Sizer {
	if width < minWidth {
		width = minWidth
	}
	if width > maxWidth {
		width = maxWidth
	}
	return &Sizer{Width: width}
}

// TerminalSizer sizes to the terminal behind f, or DefaultWidth when f is
// not a terminal.
func TerminalSizer(f *os.File) *Sizer {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return NewSizer(DefaultWidth)
	}
	termWidth, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		util.LogDebugf("Failed to read terminal size: %v", err)
		return NewSizer(DefaultWidth)
	}
	return NewSizer(termWidth)
}

func (s Sizer) displayWidth(str string) int {
	return runewidth.StringWidth(str)
}

// PadString pads str to width cells. Longer strings are returned unchanged.
func (s Sizer) PadString(str string, width int, leftAlign bool) string {
	if s.displayWidth(str) >= width {
		return str
	}
	if leftAlign {
		return runewidth.FillRight(str, width)
	}
	return runewidth.FillLeft(str, width)
}

// GetMaxWidth is the usable width after leaving a small right margin.
func (s Sizer) GetMaxWidth() int {
	return s.Width - 2
}

// Fit shrinks column flex until the columns plus overhead cells fit
// GetMaxWidth, never below floor. widths is modified in place.
func (s Sizer) Fit(widths []int, flex, overhead, floor int) []int {
	total := overhead
	for _, w := range widths {
		total += w
	}
	excess := total - s.GetMaxWidth()
	if excess <= 0 || flex < 0 || flex >= len(widths) {
		return widths
	}
	shrunk := widths[flex] - excess
	if shrunk < floor {
		shrunk = floor
	}
	if shrunk < widths[flex] {
		util.LogDebugf("Shrinking column %d from %d to %d cells", flex, widths[flex], shrunk)
		widths[flex] = shrunk
	}
	return widths
}
