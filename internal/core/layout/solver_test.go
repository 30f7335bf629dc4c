package layout

import (
	"errors"
	"testing"

	"github.com/penwyp/go-chronoface/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveEmpty(t *testing.T) {
	plan := Solve(0, 2480, 3508)
	assert.Equal(t, Plan{Columns: 12, Rows: 1, TileSize: 160, PaddingX: 4, PaddingY: 4, Margin: 32}, plan)
	assert.Equal(t, DefaultPlan(), Solve(-3, 100, 100))
}

func TestSolveA4ThirtyItems(t *testing.T) {
	plan := Solve(30, 2480, 3508)

	assert.Equal(t, Plan{
		Columns:  5,
		Rows:     6,
		TileSize: 442,
		PaddingX: 45,
		PaddingY: 122,
		Margin:   45,
	}, plan)
	assert.GreaterOrEqual(t, plan.Capacity(), 30)
}

func TestSolveCandidates(t *testing.T) {
	tests := []struct {
		name     string
		cols     int
		wantRows int
		wantTile int
	}{
		{"three columns are height bound", 3, 10, 294},
		{"four columns", 4, 8, 367},
		{"five columns", 5, 6, 442},
		{"six columns are width bound", 6, 5, 370},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := candidate(30, tt.cols, 2480, 3508)
			assert.Equal(t, tt.wantRows, c.Rows)
			assert.Equal(t, tt.wantTile, c.TileSize)
		})
	}
}

func TestSolveFewItems(t *testing.T) {
	// Fewer items than MinColumns still yields a three column grid.
	plan := Solve(1, 2480, 3508)
	assert.Equal(t, 3, plan.Columns)
	assert.Equal(t, 1, plan.Rows)
	assert.Equal(t, 729, plan.TileSize)
	assert.Equal(t, 73, plan.PaddingX)
	assert.Equal(t, 926, plan.PaddingY)
	assert.Equal(t, 73, plan.Margin)
	assert.False(t, plan.Degraded)
}

func TestSolveDegraded(t *testing.T) {
	plan := Solve(2000, 1748, 2480)
	assert.True(t, plan.Degraded)
	assert.Equal(t, MinColumns, plan.Columns)
	assert.Less(t, plan.TileSize, MinTileSize)
	assert.Contains(t, plan.String(), "[degraded]")
}

func TestSolveProperties(t *testing.T) {
	papers := []model.PaperSize{model.PaperA5, model.PaperA4, model.PaperA3}
	for _, paper := range papers {
		w, h := paper.Dimensions()
		for n := 1; n <= 150; n++ {
			plan := Solve(n, w, h)
			assert.GreaterOrEqual(t, plan.Capacity(), n, "%s n=%d", paper, n)
			assert.GreaterOrEqual(t, plan.Columns, MinColumns)
			assert.LessOrEqual(t, plan.Columns, MaxColumns)
			if !plan.Degraded {
				assert.GreaterOrEqual(t, plan.TileSize, MinTileSize, "%s n=%d", paper, n)
			}
			assert.Equal(t, min(plan.PaddingX, plan.PaddingY), plan.Margin)
			assert.Equal(t, plan, Solve(n, w, h), "deterministic")
		}
	}
}

func TestSolveLargerPaperNeverShrinksTiles(t *testing.T) {
	for _, n := range []int{1, 5, 12, 30, 60, 100} {
		a4 := Solve(n, 2480, 3508)
		a3 := Solve(n, 3508, 4961)
		if a4.Degraded || a3.Degraded {
			continue
		}
		assert.GreaterOrEqual(t, a3.TileSize, a4.TileSize, "n=%d", n)
	}
}

func TestSolveForPaper(t *testing.T) {
	plan, err := SolveForPaper(30, model.PaperA4)
	require.NoError(t, err)
	assert.Equal(t, Solve(30, 2480, 3508), plan)

	_, err = SolveForPaper(30, model.PaperSize("Letter"))
	assert.True(t, errors.Is(err, model.ErrUnknownPaperSize))
}
