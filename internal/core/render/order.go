package render

import (
	"hash/fnv"
	"math/rand/v2"
	"sort"

	"github.com/penwyp/go-chronoface/internal/core/model"
)

// Seed is the shuffle seed the renderer uses for a bucket.
func Seed(runID, bucket string, mode model.SortMode) string {
	return runID + ":" + bucket + ":" + string(mode)
}

// Order returns items arranged for placement on the collage. by_time sorts
// by timestamp, by_cluster by cluster then timestamp, and random shuffles
// deterministically from seed. Unknown modes keep input order. The input
// slice is not modified.
func Order(items []model.TimestampedItem, mode model.SortMode, seed string) []model.TimestampedItem {
	out := make([]model.TimestampedItem, len(items))
	copy(out, items)

	switch mode {
	case model.SortByTime:
		sort.SliceStable(out, func(i, j int) bool {
			return earlier(out[i], out[j])
		})
	case model.SortByCluster:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].ClusterID != out[j].ClusterID {
				return out[i].ClusterID < out[j].ClusterID
			}
			return earlier(out[i], out[j])
		})
	case model.SortRandom:
		// Start from a canonical order so the result depends only on the
		// seed and the item set.
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ID < out[j].ID
		})
		h := fnv.New64a()
		_, _ = h.Write([]byte(seed))
		s := h.Sum64()
		rng := rand.New(rand.NewPCG(s, s>>1|1))
		rng.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}
	return out
}

// FaceIDs extracts ids in order.
func FaceIDs(items []model.TimestampedItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

// Missing timestamps sort first.
func earlier(a, b model.TimestampedItem) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	return a.ID < b.ID
}
