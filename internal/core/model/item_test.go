package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339 with offset",
			input: "2024-01-05T10:30:00+02:00",
			want:  time.Date(2024, 1, 5, 8, 30, 0, 0, time.UTC),
		},
		{
			name:  "fractional seconds without offset",
			input: "2024-01-05T10:30:00.123456",
			want:  time.Date(2024, 1, 5, 10, 30, 0, 123456000, time.UTC),
		},
		{
			name:  "date only",
			input: "2024-02-10",
			want:  time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "space separated",
			input: "2024-02-10 08:00:00",
			want:  time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			input:   "yesterday",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input, time.UTC)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
		})
	}
}

func TestRawItemToItem(t *testing.T) {
	accepted := true

	item := RawItem{ID: "f1", Timestamp: "2024-03-01T12:00:00Z", Score: 0.9, ClusterID: "cluster_001", Accepted: &accepted}.ToItem(time.UTC)
	assert.Equal(t, "f1", item.ID)
	assert.True(t, item.HasTimestamp())
	assert.Equal(t, "cluster_001", item.ClusterID)
	assert.True(t, item.Reviewed())

	bad := RawItem{ID: "f2", Timestamp: "not-a-date", Score: 0.5}.ToItem(time.UTC)
	assert.False(t, bad.HasTimestamp())
	assert.Equal(t, 0.5, bad.Score)

	missing := RawItem{ID: "f3"}.ToItem(nil)
	assert.False(t, missing.HasTimestamp())
	assert.False(t, missing.Reviewed())
}

func TestParseGranularity(t *testing.T) {
	for _, g := range Granularities {
		got, err := ParseGranularity(string(g))
		require.NoError(t, err)
		assert.Equal(t, g, got)
	}

	got, err := ParseGranularity(" Month ")
	require.NoError(t, err)
	assert.Equal(t, GranularityMonth, got)

	_, err = ParseGranularity("decade")
	assert.ErrorIs(t, err, ErrUnknownGranularity)
}

func TestPaperSizeDimensions(t *testing.T) {
	tests := []struct {
		paper  PaperSize
		width  int
		height int
	}{
		{PaperA5, 1748, 2480},
		{PaperA4, 2480, 3508},
		{PaperA3, 3508, 4961},
	}
	for _, tt := range tests {
		t.Run(string(tt.paper), func(t *testing.T) {
			w, h := tt.paper.Dimensions()
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)
		})
	}

	p, err := ParsePaperSize("a4")
	require.NoError(t, err)
	assert.Equal(t, PaperA4, p)

	_, err = ParsePaperSize("letter")
	assert.ErrorIs(t, err, ErrUnknownPaperSize)

	w, h := PaperSize("B5").Dimensions()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestFaceSelectionIncludes(t *testing.T) {
	yes, no := true, false
	accepted := TimestampedItem{ID: "a", Accepted: &yes}
	rejected := TimestampedItem{ID: "r", Accepted: &no}
	unreviewed := TimestampedItem{ID: "u"}

	assert.True(t, SelectAcceptedOnly.Includes(accepted))
	assert.False(t, SelectAcceptedOnly.Includes(rejected))
	assert.False(t, SelectAcceptedOnly.Includes(unreviewed))

	assert.True(t, SelectAcceptedAndUnreviewed.Includes(accepted))
	assert.False(t, SelectAcceptedAndUnreviewed.Includes(rejected))
	assert.True(t, SelectAcceptedAndUnreviewed.Includes(unreviewed))
}

func TestParseSortModeAndSelection(t *testing.T) {
	m, err := ParseSortMode("BY_CLUSTER")
	require.NoError(t, err)
	assert.Equal(t, SortByCluster, m)
	_, err = ParseSortMode("by_size")
	assert.ErrorIs(t, err, ErrUnknownSortMode)

	f, err := ParseFaceSelection("accepted_only")
	require.NoError(t, err)
	assert.Equal(t, SelectAcceptedOnly, f)
	_, err = ParseFaceSelection("everything")
	assert.ErrorIs(t, err, ErrUnknownFaceSelection)
}

func TestParseTimestampConvertsToLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	got, err := ParseTimestamp("2024-01-06T23:30:00Z", tokyo)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Day())
	assert.Equal(t, tokyo, got.Location())

	local, err := ParseTimestamp("2024-01-06 23:30:00", tokyo)
	require.NoError(t, err)
	assert.Equal(t, 6, local.Day())
}
