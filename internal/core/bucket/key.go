// Package bucket groups timestamped faces into calendar periods and reports
// how well a date range is covered.
package bucket

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-chronoface/internal/core/model"
)

// ErrInvalidKey is returned when a bucket key does not match its granularity.
var ErrInvalidKey = errors.New("invalid bucket key")

// weeksPerYear is the fixed rollover point of the week model. Week numbers
// above it can still be produced by Key for the last days of a year.
const weeksPerYear = 52

const (
	dayKeyLayout   = "2006-01-02"
	dayLabelLayout = "Jan 02, 2006"
)

// Key derives the bucket key of t. Calendar fields are read in t's own
// location. ok is false for GranularityAll, unknown granularities and zero
// timestamps.
func Key(t time.Time, g model.Granularity) (key string, ok bool) {
	if t.IsZero() {
		return "", false
	}
	switch g {
	case model.GranularityYear:
		return fmt.Sprintf("%04d", t.Year()), true
	case model.GranularityMonth:
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())), true
	case model.GranularityWeek:
		return weekKey(t.Year(), WeekNumber(t)), true
	case model.GranularityDay:
		return t.Format(dayKeyLayout), true
	default:
		return "", false
	}
}

// WeekNumber is ceil((dayOfYear + jan1Weekday + 1) / 7) with a 0-based day of
// year and Sunday = 0. Weeks start on Sunday and week 1 begins on January 1st.
// This is not ISO-8601: there is no Thursday anchoring and the last days of a
// year may land in week 53 (or 54 in a leap year starting on Saturday).
func WeekNumber(t time.Time) int {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	dayOfYear := t.YearDay() - 1
	return (dayOfYear + int(jan1.Weekday()) + 1 + 6) / 7
}

// Label renders a key for humans. Keys that fail to parse are returned as-is.
func Label(key string, g model.Granularity) string {
	switch g {
	case model.GranularityYear:
		return key
	case model.GranularityMonth:
		y, m, err := parseMonthKey(key)
		if err != nil {
			return key
		}
		return fmt.Sprintf("%s %d", time.Month(m).String(), y)
	case model.GranularityWeek:
		y, w, err := parseWeekKey(key)
		if err != nil {
			return key
		}
		return fmt.Sprintf("Week %d %d", w, y)
	case model.GranularityDay:
		d, err := time.Parse(dayKeyLayout, key)
		if err != nil {
			return key
		}
		return d.Format(dayLabelLayout)
	default:
		return key
	}
}

func weekKey(year, week int) string {
	return fmt.Sprintf("%04d-W%02d", year, week)
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func parseYearKey(key string) (int, error) {
	if len(key) != 4 {
		return 0, fmt.Errorf("%w: %q is not YYYY", ErrInvalidKey, key)
	}
	y, err := strconv.Atoi(key)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not YYYY", ErrInvalidKey, key)
	}
	return y, nil
}

func parseMonthKey(key string) (year, month int, err error) {
	parts := strings.Split(key, "-")
	if len(parts) != 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("%w: %q is not YYYY-MM", ErrInvalidKey, key)
	}
	if year, err = parseYearKey(parts[0]); err != nil {
		return 0, 0, err
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: %q is not YYYY-MM", ErrInvalidKey, key)
	}
	return year, month, nil
}

func parseWeekKey(key string) (year, week int, err error) {
	parts := strings.Split(key, "-W")
	if len(parts) != 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("%w: %q is not YYYY-Www", ErrInvalidKey, key)
	}
	if year, err = parseYearKey(parts[0]); err != nil {
		return 0, 0, err
	}
	week, err = strconv.Atoi(parts[1])
	if err != nil || week < 1 || week > 54 {
		return 0, 0, fmt.Errorf("%w: %q is not YYYY-Www", ErrInvalidKey, key)
	}
	return year, week, nil
}
