package formatter

import (
	"github.com/penwyp/go-chronoface/internal/core/bucket"
	"github.com/penwyp/go-chronoface/internal/core/layout"
	"github.com/penwyp/go-chronoface/internal/core/model"
)

func sampleReport() *Report {
	return &Report{
		RunID:       "run-1",
		Granularity: model.GranularityMonth,
		Paper:       model.PaperA4,
		Timezone:    "UTC",
		Rows: []BucketRow{
			{Key: "2024-01", Label: "January 2024", Faces: 2, SelectedID: "face-a", SelectedScore: 0.91, Status: StatusReview},
			{Key: "2024-02", Label: "February 2024", Faces: 0, Status: StatusMissing},
			{Key: "2024-03", Label: "March 2024", Faces: 1, SelectedID: "face-c", SelectedScore: 0.5, Status: StatusSingle},
		},
		Coverage: bucket.CoverageSummary{
			Granularity:   model.GranularityMonth,
			Total:         3,
			Covered:       2,
			Missing:       1,
			Duplicates:    1,
			MissingLabels: []string{"February 2024"},
			Message:       "Missing: February 2024",
			DateRange:     "January 2024 – March 2024",
		},
		Plan:  layout.Plan{Columns: 3, Rows: 1, TileSize: 729, PaddingX: 73, PaddingY: 926, Margin: 73},
		Units: 2,
		Stats: LoadStats{Files: 2, Cached: 1, Total: 6, Invalid: 1, Duplicates: 1, Filtered: 1, Undated: 1, Selections: 1},
	}
}
