package bucket

import (
	"fmt"
	"time"

	"github.com/penwyp/go-chronoface/internal/core/model"
)

// Range enumerates every key from firstKey to lastKey inclusive, including
// periods with no items. A lastKey before firstKey yields an empty range.
//
// Weeks follow a fixed 52-week year: after week 52 the counter rolls over to
// week 1 of the next year, so week-53 keys are never generated here.
func Range(firstKey, lastKey string, g model.Granularity) ([]string, error) {
	switch g {
	case model.GranularityYear:
		return yearRange(firstKey, lastKey)
	case model.GranularityMonth:
		return monthRange(firstKey, lastKey)
	case model.GranularityWeek:
		return weekRange(firstKey, lastKey)
	case model.GranularityDay:
		return dayRange(firstKey, lastKey)
	default:
		return nil, fmt.Errorf("%w: no key range for granularity %q", model.ErrUnknownGranularity, g)
	}
}

func yearRange(firstKey, lastKey string) ([]string, error) {
	first, err := parseYearKey(firstKey)
	if err != nil {
		return nil, err
	}
	last, err := parseYearKey(lastKey)
	if err != nil {
		return nil, err
	}
	var keys []string
	for y := first; y <= last; y++ {
		keys = append(keys, fmt.Sprintf("%04d", y))
	}
	return keys, nil
}

func monthRange(firstKey, lastKey string) ([]string, error) {
	fy, fm, err := parseMonthKey(firstKey)
	if err != nil {
		return nil, err
	}
	ly, lm, err := parseMonthKey(lastKey)
	if err != nil {
		return nil, err
	}
	var keys []string
	for y := fy; y <= ly; y++ {
		start, end := 1, 12
		if y == fy {
			start = fm
		}
		if y == ly {
			end = lm
		}
		for m := start; m <= end; m++ {
			keys = append(keys, monthKey(y, m))
		}
	}
	return keys, nil
}

func weekRange(firstKey, lastKey string) ([]string, error) {
	y, w, err := parseWeekKey(firstKey)
	if err != nil {
		return nil, err
	}
	ly, lw, err := parseWeekKey(lastKey)
	if err != nil {
		return nil, err
	}
	var keys []string
	for y < ly || (y == ly && w <= lw) {
		keys = append(keys, weekKey(y, w))
		w++
		if w > weeksPerYear {
			y++
			w = 1
		}
	}
	return keys, nil
}

func dayRange(firstKey, lastKey string) ([]string, error) {
	first, err := time.Parse(dayKeyLayout, firstKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidKey, firstKey)
	}
	last, err := time.Parse(dayKeyLayout, lastKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidKey, lastKey)
	}
	var keys []string
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		keys = append(keys, d.Format(dayKeyLayout))
	}
	return keys, nil
}
