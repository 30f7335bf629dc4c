package formatter

import (
	"io"

	"github.com/penwyp/go-chronoface/internal/core/bucket"
	"github.com/penwyp/go-chronoface/internal/core/layout"
	"github.com/penwyp/go-chronoface/internal/core/model"
)

// Row status values.
const (
	StatusMissing = "missing"
	StatusSingle  = "ok"
	StatusReview  = "review"
	StatusManual  = "manual"
)

// Report is everything a formatter needs to render one analysis.
type Report struct {
	RunID       string                 `json:"runId"`
	Granularity model.Granularity      `json:"granularity"`
	Paper       model.PaperSize        `json:"paper"`
	Timezone    string                 `json:"timezone"`
	Rows        []BucketRow            `json:"buckets"`
	Coverage    bucket.CoverageSummary `json:"coverage"`
	Plan        layout.Plan            `json:"plan"`
	Units       int                    `json:"units"`
	Stats       LoadStats              `json:"stats"`
}

// BucketRow is one period, or one item when bucketing is bypassed.
type BucketRow struct {
	Key           string  `json:"key"`
	Label         string  `json:"label"`
	Faces         int     `json:"faces"`
	SelectedID    string  `json:"selectedItemId,omitempty"`
	SelectedScore float64 `json:"selectedScore,omitempty"`
	Status        string  `json:"status"`
}

type LoadStats struct {
	Files      int `json:"files"`
	Cached     int `json:"cached"`
	Total      int `json:"total"`
	Invalid    int `json:"invalid"`
	Duplicates int `json:"duplicates"`
	Filtered   int `json:"filtered"`
	Undated    int `json:"undated"`
	Selections int `json:"selections"`
}

// Formatter writes a report to w.
type Formatter interface {
	Format(w io.Writer, report *Report) error
}

// New returns the formatter for name. Unknown names get the table.
func New(name string) Formatter {
	switch name {
	case "json":
		return NewJSONFormatter()
	case "csv":
		return NewCSVFormatter()
	case "summary":
		return NewSummaryFormatter()
	default:
		return NewTableFormatter()
	}
}

// Formats lists the accepted output format names.
var Formats = []string{"table", "json", "csv", "summary"}
