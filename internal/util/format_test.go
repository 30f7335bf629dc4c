package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		input    int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCount(tt.input))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "0.0%", FormatPercent(0))
	assert.Equal(t, "28.6%", FormatPercent(2.0/7.0))
	assert.Equal(t, "100.0%", FormatPercent(1))
	assert.Equal(t, "100.0%", FormatPercent(3))
	assert.Equal(t, "0.0%", FormatPercent(-1))
}

func TestFormatPixels(t *testing.T) {
	assert.Equal(t, "2,480 x 3,508 px", FormatPixels(2480, 3508))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Duration
		expected string
	}{
		{"microseconds", 250 * time.Microsecond, "250µs"},
		{"milliseconds", 42 * time.Millisecond, "42ms"},
		{"seconds", 1500 * time.Millisecond, "1.5s"},
		{"minutes", 2*time.Minute + 5*time.Second, "2m 5s"},
		{"hours", 3*time.Hour + 15*time.Minute, "3h 15m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.input))
		})
	}
}
