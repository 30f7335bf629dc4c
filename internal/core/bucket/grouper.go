package bucket

import (
	"sort"

	"github.com/penwyp/go-chronoface/internal/core/model"
	"github.com/penwyp/go-chronoface/internal/util"
)

// Bucket is one calendar period with its faces and designated representative.
type Bucket struct {
	Key            string                  `json:"key"`
	Label          string                  `json:"label"`
	Items          []model.TimestampedItem `json:"items"`
	SelectedItemID string                  `json:"selectedItemId,omitempty"`
}

// Contains reports whether id is a member of the bucket.
func (b Bucket) Contains(id string) bool {
	for _, item := range b.Items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Selected returns the representative item; ok is false for empty buckets.
func (b Bucket) Selected() (model.TimestampedItem, bool) {
	for _, item := range b.Items {
		if item.ID == b.SelectedItemID {
			return item, true
		}
	}
	return model.TimestampedItem{}, false
}

// Group buckets items by g and fills every gap between the earliest and the
// latest timestamp with an empty bucket. Items without a timestamp are
// skipped. GranularityAll and empty input produce no buckets.
//
// Each bucket's items are sorted by descending score. The representative is
// the pick recorded in selection when it is still a member of the bucket,
// otherwise the highest-scoring item.
func Group(items []model.TimestampedItem, g model.Granularity, selection Selection) []Bucket {
	if g == model.GranularityAll || !g.Valid() {
		return nil
	}

	groups := make(map[string][]model.TimestampedItem)
	var earliest, latest model.TimestampedItem
	eligible := 0
	for _, item := range items {
		key, ok := Key(item.Timestamp, g)
		if !ok {
			continue
		}
		groups[key] = append(groups[key], item)
		if eligible == 0 || item.Timestamp.Before(earliest.Timestamp) {
			earliest = item
		}
		if eligible == 0 || item.Timestamp.After(latest.Timestamp) {
			latest = item
		}
		eligible++
	}
	if eligible == 0 {
		return nil
	}
	if skipped := len(items) - eligible; skipped > 0 {
		util.LogDebugf("Bucketing skipped %d items without a usable timestamp", skipped)
	}

	// The range endpoints come from the extreme timestamps, not from the
	// lexicographic min/max of the produced keys.
	firstKey, _ := Key(earliest.Timestamp, g)
	lastKey, _ := Key(latest.Timestamp, g)
	keys, err := Range(firstKey, lastKey, g)
	if err != nil {
		util.LogWarnf("Failed to generate %s range %s..%s: %v", g, firstKey, lastKey, err)
		keys = nil
	}

	// Keys outside the fixed 52-week model (week 53) are merged back in.
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		seen[k] = struct{}{}
	}
	merged := false
	for k := range groups {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
			merged = true
		}
	}
	if merged {
		sort.Strings(keys)
	}

	buckets := make([]Bucket, 0, len(keys))
	for _, key := range keys {
		members := make([]model.TimestampedItem, len(groups[key]))
		copy(members, groups[key])
		sortByScore(members)
		b := Bucket{
			Key:   key,
			Label: Label(key, g),
			Items: members,
		}
		b.SelectedItemID = pick(b, selection)
		buckets = append(buckets, b)
	}
	return buckets
}

// pick applies a recorded selection, falling back to the best item when the
// recorded id is no longer in the bucket.
func pick(b Bucket, selection Selection) string {
	if len(b.Items) == 0 {
		return ""
	}
	if id, ok := selection.Get(b.Key); ok {
		if b.Contains(id) {
			return id
		}
		util.LogDebugf("Dropping stale selection %s for bucket %s", id, b.Key)
	}
	return b.Items[0].ID
}
