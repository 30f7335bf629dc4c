package bucket

import (
	"sort"

	"github.com/penwyp/go-chronoface/internal/core/model"
)

// Selection is an immutable snapshot of user picks, bucket key -> item id.
// The zero value is an empty selection.
type Selection struct {
	picks map[string]string
}

// NewSelection copies picks into a new snapshot.
func NewSelection(picks map[string]string) Selection {
	s := Selection{picks: make(map[string]string, len(picks))}
	for k, v := range picks {
		s.picks[k] = v
	}
	return s
}

// Get returns the recorded pick for key.
func (s Selection) Get(key string) (string, bool) {
	id, ok := s.picks[key]
	return id, ok
}

// With returns a copy of s with key mapped to itemID.
func (s Selection) With(key, itemID string) Selection {
	next := NewSelection(s.picks)
	next.picks[key] = itemID
	return next
}

// Without returns a copy of s without key.
func (s Selection) Without(key string) Selection {
	next := NewSelection(s.picks)
	delete(next.picks, key)
	return next
}

func (s Selection) Len() int {
	return len(s.picks)
}

// Map returns a copy of the picks.
func (s Selection) Map() map[string]string {
	return NewSelection(s.picks).picks
}

// Prune drops picks that no longer reference a member of their bucket, and
// picks for keys absent from buckets.
func (s Selection) Prune(buckets []Bucket) Selection {
	next := Selection{picks: make(map[string]string)}
	for _, b := range buckets {
		if id, ok := s.picks[b.Key]; ok && b.Contains(id) {
			next.picks[b.Key] = id
		}
	}
	return next
}

// ReviewSet splits buckets by whether a manual pick is meaningful.
type ReviewSet struct {
	// Pending holds buckets with more than one candidate face.
	Pending []Bucket `json:"pending"`
	// Resolved holds buckets with exactly one face.
	Resolved []Bucket `json:"resolved"`
}

// Review returns buckets needing a manual pick and those already resolved.
// Empty buckets appear in neither list.
func Review(buckets []Bucket) ReviewSet {
	var set ReviewSet
	for _, b := range buckets {
		switch {
		case len(b.Items) > 1:
			set.Pending = append(set.Pending, b)
		case len(b.Items) == 1:
			set.Resolved = append(set.Resolved, b)
		}
	}
	return set
}

// Representatives returns the selected item of every non-empty bucket in
// key order.
func Representatives(buckets []Bucket) []model.TimestampedItem {
	reps := make([]model.TimestampedItem, 0, len(buckets))
	for _, b := range buckets {
		if item, ok := b.Selected(); ok {
			reps = append(reps, item)
		}
	}
	return reps
}

// Units returns the items that become collage tiles. Under GranularityAll
// every timestamped item is its own unit, ordered by score then id;
// otherwise it is the bucket representatives.
func Units(items []model.TimestampedItem, buckets []Bucket, g model.Granularity) []model.TimestampedItem {
	if g != model.GranularityAll {
		return Representatives(buckets)
	}
	units := make([]model.TimestampedItem, 0, len(items))
	for _, item := range items {
		if item.HasTimestamp() {
			units = append(units, item)
		}
	}
	sortByScore(units)
	return units
}

// sortByScore orders items by descending score, ties by ascending id.
func sortByScore(items []model.TimestampedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})
}
