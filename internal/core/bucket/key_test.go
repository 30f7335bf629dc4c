package bucket

import (
	"testing"
	"time"

	"github.com/penwyp/go-chronoface/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestKey(t *testing.T) {
	tests := []struct {
		name   string
		ts     time.Time
		g      model.Granularity
		want   string
		wantOK bool
	}{
		{"year", date(2024, 2, 29), model.GranularityYear, "2024", true},
		{"month zero padded", date(2024, 2, 29), model.GranularityMonth, "2024-02", true},
		{"day", date(2024, 2, 29), model.GranularityDay, "2024-02-29", true},
		{"week jan 1 monday", date(2024, 1, 1), model.GranularityWeek, "2024-W01", true},
		{"week first saturday", date(2024, 1, 6), model.GranularityWeek, "2024-W01", true},
		{"week rolls on sunday", date(2024, 1, 7), model.GranularityWeek, "2024-W02", true},
		{"week mid december", date(2023, 12, 20), model.GranularityWeek, "2023-W51", true},
		{"week 53 at year end", date(2023, 12, 31), model.GranularityWeek, "2023-W53", true},
		{"week 54 leap year starting saturday", date(2000, 12, 31), model.GranularityWeek, "2000-W54", true},
		{"all has no key", date(2024, 1, 1), model.GranularityAll, "", false},
		{"zero time", time.Time{}, model.GranularityDay, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Key(tt.ts, tt.g)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyUsesTimestampLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 2023-12-31 20:00 UTC is already 2024-01-01 in Tokyo.
	ts := time.Date(2023, 12, 31, 20, 0, 0, 0, time.UTC)

	utcKey, _ := Key(ts, model.GranularityDay)
	tokyoKey, _ := Key(ts.In(tokyo), model.GranularityDay)
	assert.Equal(t, "2023-12-31", utcKey)
	assert.Equal(t, "2024-01-01", tokyoKey)
}

func TestKeysSortChronologically(t *testing.T) {
	for _, g := range []model.Granularity{model.GranularityDay, model.GranularityWeek, model.GranularityMonth, model.GranularityYear} {
		t.Run(string(g), func(t *testing.T) {
			prev := ""
			for d := date(2019, 12, 1); d.Before(date(2021, 2, 1)); d = d.AddDate(0, 0, 1) {
				key, ok := Key(d, g)
				require.True(t, ok)
				assert.GreaterOrEqual(t, key, prev)
				prev = key
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		key  string
		g    model.Granularity
		want string
	}{
		{"2024", model.GranularityYear, "2024"},
		{"2024-01", model.GranularityMonth, "January 2024"},
		{"2023-12", model.GranularityMonth, "December 2023"},
		{"2023-W51", model.GranularityWeek, "Week 51 2023"},
		{"2024-W01", model.GranularityWeek, "Week 1 2024"},
		{"2024-02-29", model.GranularityDay, "Feb 29, 2024"},
		{"not-a-key", model.GranularityMonth, "not-a-key"},
		{"2024-13", model.GranularityMonth, "2024-13"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.key, tt.g))
		})
	}
}
