package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/penwyp/go-chronoface/internal/util"
)

const (
	summaryWidth = 60
	barWidth     = 22
)

// SummaryFormatter prints a coverage and layout report.
type SummaryFormatter struct {
	useColors bool
}

// NewSummaryFormatter colors output unless color is disabled for the process.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{useColors: !color.NoColor}
}

// WithColors forces colored output on or off.
func (f *SummaryFormatter) WithColors(on bool) *SummaryFormatter {
	f.useColors = on
	return f
}

func (f *SummaryFormatter) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if f.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (f *SummaryFormatter) Format(w io.Writer, report *Report) error {
	var b strings.Builder
	bold := f.paint(color.Bold)
	good := f.paint(color.FgGreen)
	warn := f.paint(color.FgYellow)
	bad := f.paint(color.FgRed, color.Bold)

	cov := report.Coverage

	fmt.Fprintln(&b, strings.Repeat("=", summaryWidth))
	bold.Fprintln(&b, "Chronoface Coverage Summary")
	fmt.Fprintln(&b, strings.Repeat("=", summaryWidth))
	fmt.Fprintln(&b)

	if report.RunID != "" {
		fmt.Fprintf(&b, "Run:          %s\n", report.RunID)
	}
	fmt.Fprintf(&b, "Granularity:  %s\n", report.Granularity)
	if cov.DateRange != "" {
		fmt.Fprintf(&b, "Date Range:   %s\n", cov.DateRange)
	}
	fmt.Fprintln(&b)

	if cov.Total == 0 {
		fmt.Fprintln(&b, "No dated faces to summarize")
	} else {
		bar := util.CreateProgressBar(cov.Ratio(), barWidth)
		line := fmt.Sprintf("%s %s", bar, util.FormatPercent(cov.Ratio()))
		fmt.Fprint(&b, "Coverage:     ")
		if cov.Complete() {
			good.Fprint(&b, line)
		} else {
			warn.Fprint(&b, line)
		}
		fmt.Fprintf(&b, "  (%s/%s periods)\n", util.FormatCount(cov.Covered), util.FormatCount(cov.Total))
		fmt.Fprintf(&b, "Missing:      %s\n", util.FormatCount(cov.Missing))
		fmt.Fprintf(&b, "Duplicates:   %s\n", util.FormatCount(cov.Duplicates))
		if cov.Complete() {
			good.Fprintln(&b, cov.Message)
		} else {
			warn.Fprintln(&b, cov.Message)
		}
	}
	fmt.Fprintln(&b)

	plan := report.Plan
	width, height := report.Paper.Dimensions()
	bold.Fprintln(&b, "Layout:")
	fmt.Fprintf(&b, "  Paper:      %s (%s)\n", report.Paper, util.FormatPixels(width, height))
	fmt.Fprintf(&b, "  Grid:       %d x %d for %s faces\n", plan.Columns, plan.Rows, util.FormatCount(report.Units))
	fmt.Fprintf(&b, "  Tile Size:  %d px\n", plan.TileSize)
	fmt.Fprintf(&b, "  Padding:    %d x %d px, margin %d px\n", plan.PaddingX, plan.PaddingY, plan.Margin)
	if plan.Degraded {
		bad.Fprintln(&b, "  Tiles fall below the legibility floor; consider a larger paper size")
	}
	fmt.Fprintln(&b)

	s := report.Stats
	bold.Fprintln(&b, "Input:")
	fmt.Fprintf(&b, "  Files:      %s (%s cached)\n", util.FormatCount(s.Files), util.FormatCount(s.Cached))
	fmt.Fprintf(&b, "  Records:    %s (%s invalid, %s duplicate, %s filtered, %s undated)\n",
		util.FormatCount(s.Total), util.FormatCount(s.Invalid), util.FormatCount(s.Duplicates),
		util.FormatCount(s.Filtered), util.FormatCount(s.Undated))
	fmt.Fprintf(&b, "  Selections: %s manual\n", util.FormatCount(s.Selections))

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, strings.Repeat("=", summaryWidth))

	_, err := io.WriteString(w, b.String())
	return err
}
