package analyzer

import (
	"github.com/penwyp/go-chronoface/internal/data/parser"
	"github.com/penwyp/go-chronoface/internal/presentation/formatter"
	"github.com/penwyp/go-chronoface/internal/util"
)

func toLoadStats(res *parser.LoadResult, selections int) formatter.LoadStats {
	if res == nil {
		return formatter.LoadStats{Selections: selections}
	}
	return formatter.LoadStats{
		Files:      res.Files,
		Cached:     res.Cached,
		Total:      res.Total,
		Invalid:    res.Invalid,
		Duplicates: res.Duplicates,
		Filtered:   res.Filtered,
		Undated:    res.Undated,
		Selections: selections,
	}
}

// hitRate is the share of files served from the parse cache.
func hitRate(res *parser.LoadResult) float64 {
	if res.Files == 0 {
		return 0
	}
	return float64(res.Cached) / float64(res.Files)
}

// logLoadStats logs parse cache effectiveness and what was left out.
func logLoadStats(res *parser.LoadResult) {
	util.LogInfof("Parse cache: %d files, hit rate %s (%d hits/%d misses)",
		res.Files, util.FormatPercent(hitRate(res)), res.Cached, res.Files-res.Cached)

	if res.Invalid+res.Duplicates+res.Filtered+res.Undated == 0 {
		return
	}
	util.LogInfof("Records not bucketed: %d invalid, %d duplicate, %d filtered, %d undated",
		res.Invalid, res.Duplicates, res.Filtered, res.Undated)
}
