package model

import (
	"time"
)

// RawItem is the wire shape produced by the face pipeline.
type RawItem struct {
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	Score     float64 `json:"score"`
	ClusterID string  `json:"cluster_id,omitempty"`
	Accepted  *bool   `json:"accepted,omitempty"`
	PhotoPath string  `json:"photo_path,omitempty"`
}

// TimestampedItem is an accepted face record ready for bucketing.
// A zero Timestamp marks an item whose timestamp was missing or unparsable.
type TimestampedItem struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
	ClusterID string    `json:"clusterId,omitempty"`
	Accepted  *bool     `json:"accepted,omitempty"`
	PhotoPath string    `json:"photoPath,omitempty"`
}

// HasTimestamp reports whether the item can take part in bucketing.
func (i TimestampedItem) HasTimestamp() bool {
	return !i.Timestamp.IsZero()
}

// Reviewed reports whether a reviewer made an explicit accept/reject decision.
func (i TimestampedItem) Reviewed() bool {
	return i.Accepted != nil
}

// timestampLayouts are tried in order when parsing RawItem timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the ISO-8601 variants emitted by the face pipeline.
// Timestamps without an offset are interpreted in loc; all results are
// returned in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t.In(loc), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ToItem converts a RawItem. Bad timestamps yield an item with a zero
// Timestamp rather than an error; the item is then skipped by bucketing.
func (r RawItem) ToItem(loc *time.Location) TimestampedItem {
	item := TimestampedItem{
		ID:        r.ID,
		Score:     r.Score,
		ClusterID: r.ClusterID,
		Accepted:  r.Accepted,
		PhotoPath: r.PhotoPath,
	}
	if r.Timestamp == "" {
		return item
	}
	if t, err := ParseTimestamp(r.Timestamp, loc); err == nil {
		item.Timestamp = t
	}
	return item
}
