package formatter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	sizing "github.com/penwyp/go-chronoface/internal/presentation/layout"
	"github.com/penwyp/go-chronoface/internal/util"
)

const (
	colSelected    = 3
	minColumnWidth = 5
	minSelected    = 8
)

type TableFormatter struct {
	headers []string
	sizer   *sizing.Sizer
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{"Key", "Period", "Faces", "Selected", "Score", "Status"},
		sizer:   sizing.TerminalSizer(os.Stdout),
	}
}

// WithSizer overrides the terminal-derived width.
func (f *TableFormatter) WithSizer(s *sizing.Sizer) *TableFormatter {
	f.sizer = s
	return f
}

func (f *TableFormatter) Format(w io.Writer, report *Report) error {
	if len(report.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No buckets to display")
		return err
	}

	rows := make([][]string, 0, len(report.Rows)+1)
	totalFaces := 0
	for _, row := range report.Rows {
		rows = append(rows, rowValues(row))
		totalFaces += row.Faces
	}
	total := []string{
		"Total",
		fmt.Sprintf("%d/%d covered", report.Coverage.Covered, report.Coverage.Total),
		util.FormatCount(totalFaces),
		"",
		"",
		"",
	}

	widths := f.calculateColumnWidths(append(rows, total))
	overhead := 3*len(widths) + 1
	widths = f.sizer.Fit(widths, colSelected, overhead, minSelected)

	var b strings.Builder
	f.printBorder(&b, widths, "top")
	f.printRow(&b, f.headers, widths)
	f.printBorder(&b, widths, "middle")
	for _, values := range rows {
		f.printRow(&b, values, widths)
	}
	f.printBorder(&b, widths, "middle")
	f.printRow(&b, total, widths)
	f.printBorder(&b, widths, "bottom")
	fmt.Fprintln(&b, report.Coverage.Message)

	_, err := io.WriteString(w, b.String())
	return err
}

func rowValues(row BucketRow) []string {
	score := ""
	if row.SelectedID != "" {
		score = strconv.FormatFloat(row.SelectedScore, 'f', 2, 64)
	}
	return []string{
		row.Key,
		row.Label,
		util.FormatCount(row.Faces),
		row.SelectedID,
		score,
		row.Status,
	}
}

// calculateColumnWidths sizes every column to its widest cell.
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, values := range rows {
		for i, value := range values {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] < minColumnWidth {
			widths[i] = minColumnWidth
		}
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(b *strings.Builder, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(util.Separator(width + 2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteString("\n")
}

// printRow right-aligns the numeric Faces and Score columns.
func (f *TableFormatter) printRow(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, value := range values {
		cell := util.PadRight(value, widths[i])
		if i == 2 || i == 4 {
			cell = util.PadLeft(value, widths[i])
		}
		b.WriteString(" " + cell + " │")
	}
	b.WriteString("\n")
}
