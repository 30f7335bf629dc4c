package render

import (
	"testing"
	"time"

	"github.com/penwyp/go-chronoface/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func face(id, cluster string, day int) model.TimestampedItem {
	var ts time.Time
	if day > 0 {
		ts = time.Date(2024, 1, day, 12, 0, 0, 0, time.UTC)
	}
	return model.TimestampedItem{ID: id, ClusterID: cluster, Timestamp: ts}
}

func TestOrder(t *testing.T) {
	items := []model.TimestampedItem{
		face("c", "k2", 3),
		face("a", "k1", 5),
		face("b", "k2", 1),
		face("d", "k1", 0),
	}

	assert.Equal(t, []string{"d", "b", "c", "a"}, FaceIDs(Order(items, model.SortByTime, "")))
	assert.Equal(t, []string{"d", "a", "b", "c"}, FaceIDs(Order(items, model.SortByCluster, "")))
	assert.Equal(t, []string{"c", "a", "b", "d"}, FaceIDs(Order(items, model.SortMode("none"), "")))
	assert.Equal(t, "c", items[0].ID, "input untouched")
}

func TestOrderRandomIsDeterministic(t *testing.T) {
	var items []model.TimestampedItem
	for i := 1; i <= 20; i++ {
		items = append(items, face(string(rune('a'+i)), "", i))
	}
	seed := Seed("run", "2024-01", model.SortRandom)
	assert.Equal(t, "run:2024-01:random", seed)

	first := FaceIDs(Order(items, model.SortRandom, seed))
	assert.Equal(t, first, FaceIDs(Order(items, model.SortRandom, seed)))

	reversed := make([]model.TimestampedItem, len(items))
	for i := range items {
		reversed[len(items)-1-i] = items[i]
	}
	assert.Equal(t, first, FaceIDs(Order(reversed, model.SortRandom, seed)), "input order does not matter")

	assert.ElementsMatch(t, FaceIDs(items), first)
	assert.NotEqual(t, first, FaceIDs(Order(items, model.SortRandom, Seed("run", "2024-02", model.SortRandom))))
}
