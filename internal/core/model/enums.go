package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownGranularity   = errors.New("unknown granularity")
	ErrUnknownPaperSize     = errors.New("unknown paper size")
	ErrUnknownSortMode      = errors.New("unknown sort mode")
	ErrUnknownFaceSelection = errors.New("unknown face selection")
)

// Granularity is the calendar period used to group items.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
	// GranularityAll bypasses bucketing; every accepted item is its own unit.
	GranularityAll Granularity = "all"
)

// Granularities lists every supported granularity, finest first.
var Granularities = []Granularity{
	GranularityDay, GranularityWeek, GranularityMonth, GranularityYear, GranularityAll,
}

func (g Granularity) String() string {
	return string(g)
}

func (g Granularity) Valid() bool {
	for _, known := range Granularities {
		if g == known {
			return true
		}
	}
	return false
}

// ParseGranularity is case-insensitive.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q (valid: day, week, month, year, all)", ErrUnknownGranularity, s)
	}
	return g, nil
}

// PaperSize is a named output canvas.
type PaperSize string

const (
	PaperA5 PaperSize = "A5"
	PaperA4 PaperSize = "A4"
	PaperA3 PaperSize = "A3"
)

// DPI is the rasterization density of every paper size.
const DPI = 300

// paperDimensions holds portrait pixel sizes at 300 DPI.
var paperDimensions = map[PaperSize][2]int{
	PaperA5: {1748, 2480}, // 148 x 210 mm
	PaperA4: {2480, 3508}, // 210 x 297 mm
	PaperA3: {3508, 4961}, // 297 x 420 mm
}

// Dimensions returns width and height in pixels. Unknown sizes return zeros.
func (p PaperSize) Dimensions() (width, height int) {
	d := paperDimensions[p]
	return d[0], d[1]
}

func (p PaperSize) Valid() bool {
	_, ok := paperDimensions[p]
	return ok
}

func ParsePaperSize(s string) (PaperSize, error) {
	p := PaperSize(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q (valid: A5, A4, A3)", ErrUnknownPaperSize, s)
	}
	return p, nil
}

// SortMode orders faces on the rendered collage.
type SortMode string

const (
	SortByTime    SortMode = "by_time"
	SortByCluster SortMode = "by_cluster"
	SortRandom    SortMode = "random"
)

func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SortByTime, SortByCluster, SortRandom:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q (valid: by_time, by_cluster, random)", ErrUnknownSortMode, s)
}

// FaceSelection decides which review states count as accepted.
type FaceSelection string

const (
	SelectAcceptedOnly          FaceSelection = "accepted_only"
	SelectAcceptedAndUnreviewed FaceSelection = "accepted_and_unreviewed"
)

func ParseFaceSelection(s string) (FaceSelection, error) {
	switch f := FaceSelection(strings.ToLower(strings.TrimSpace(s))); f {
	case SelectAcceptedOnly, SelectAcceptedAndUnreviewed:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (valid: accepted_only, accepted_and_unreviewed)", ErrUnknownFaceSelection, s)
}

// Includes reports whether an item passes the selection. Items without
// review state count as accepted only under accepted_and_unreviewed.
func (f FaceSelection) Includes(item TimestampedItem) bool {
	if item.Accepted == nil {
		return f == SelectAcceptedAndUnreviewed
	}
	return *item.Accepted
}
