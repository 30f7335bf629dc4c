// Package layout sizes a collage grid so that one face per tile fits a fixed
// printed canvas.
package layout

import (
	"fmt"
	"math"

	"github.com/penwyp/go-chronoface/internal/core/model"
	"github.com/penwyp/go-chronoface/internal/util"
)

const (
	// MinTileSize is the legibility floor in pixels.
	MinTileSize = 150
	MinColumns  = 3
	MaxColumns  = 12

	// Rough spacing used only to rank candidates: padding around 10% of a
	// tile horizontally, and an extra 8% label reservation vertically.
	widthFactor  = 1.1
	heightFactor = 1.18
	edgeFactor   = 0.1
)

// Plan is the geometry handed to the collage renderer.
type Plan struct {
	Columns  int `json:"columns"`
	Rows     int `json:"rows"`
	TileSize int `json:"tileSize"`
	PaddingX int `json:"paddingX"`
	PaddingY int `json:"paddingY"`
	Margin   int `json:"margin"`
	// Degraded is set when no candidate reached MinTileSize.
	Degraded bool `json:"degraded,omitempty"`
}

// DefaultPlan is returned for an empty item set.
func DefaultPlan() Plan {
	return Plan{
		Columns:  12,
		Rows:     1,
		TileSize: 160,
		PaddingX: 4,
		PaddingY: 4,
		Margin:   32,
	}
}

// Capacity is the number of tiles the grid can hold.
func (p Plan) Capacity() int {
	return p.Columns * p.Rows
}

func (p Plan) String() string {
	s := fmt.Sprintf("%dx%d tiles of %dpx (padding %d/%d, margin %d)",
		p.Columns, p.Rows, p.TileSize, p.PaddingX, p.PaddingY, p.Margin)
	if p.Degraded {
		s += " [degraded]"
	}
	return s
}

// Solve searches column counts from MinColumns to min(MaxColumns, itemCount)
// and keeps the candidate with the largest tile at or above MinTileSize. Ties
// keep the candidate with fewer columns. When itemCount is below MinColumns
// only MinColumns is tried.
//
// If no candidate reaches the floor, the smallest-column candidate is
// returned with Degraded set.
func Solve(itemCount, paperWidth, paperHeight int) Plan {
	if itemCount <= 0 {
		return DefaultPlan()
	}

	maxCols := MaxColumns
	if itemCount < maxCols {
		maxCols = itemCount
	}
	if maxCols < MinColumns {
		maxCols = MinColumns
	}

	var best, fallback Plan
	found := false
	for cols := MinColumns; cols <= maxCols; cols++ {
		c := candidate(itemCount, cols, paperWidth, paperHeight)
		if cols == MinColumns {
			fallback = c
		}
		if c.TileSize < MinTileSize {
			continue
		}
		if !found || c.TileSize > best.TileSize {
			best = c
			found = true
		}
	}

	if !found {
		fallback.Degraded = true
		util.LogWarnf("No layout reaches the %dpx legibility floor for %d items on %dx%d, using %s",
			MinTileSize, itemCount, paperWidth, paperHeight, fallback)
		return fallback
	}

	util.LogDebugf("Solved layout for %d items on %dx%d: %s", itemCount, paperWidth, paperHeight, best)
	return best
}

// SolveForPaper solves against a named paper size.
func SolveForPaper(itemCount int, paper model.PaperSize) (Plan, error) {
	if !paper.Valid() {
		return Plan{}, fmt.Errorf("%w: %q", model.ErrUnknownPaperSize, paper)
	}
	w, h := paper.Dimensions()
	return Solve(itemCount, w, h), nil
}

// candidate estimates the tile size for cols columns, then spreads the
// leftover canvas exactly into padding and margin at that tile size.
func candidate(itemCount, cols, paperWidth, paperHeight int) Plan {
	rows := int(math.Ceil(float64(itemCount) / float64(cols)))

	tileFromWidth := int(math.Floor(float64(paperWidth) / (float64(cols)*widthFactor + edgeFactor)))
	tileFromHeight := int(math.Floor(float64(paperHeight) / (float64(rows)*heightFactor + edgeFactor)))
	tile := tileFromWidth
	if tileFromHeight < tile {
		tile = tileFromHeight
	}
	if tile < 0 {
		tile = 0
	}

	padX := spread(paperWidth, cols, tile)
	padY := spread(paperHeight, rows, tile)
	margin := padX
	if padY < margin {
		margin = padY
	}

	return Plan{
		Columns:  cols,
		Rows:     rows,
		TileSize: tile,
		PaddingX: padX,
		PaddingY: padY,
		Margin:   margin,
	}
}

// spread divides the space left by n tiles into n+1 equal gaps. A single
// tile leaves a third of the remainder on each side.
func spread(extent, n, tile int) int {
	if n > 1 {
		return floorDiv(extent-n*tile, n+1)
	}
	return floorDiv(extent-tile, 3)
}

func floorDiv(a, b int) int {
	return int(math.Floor(float64(a) / float64(b)))
}
