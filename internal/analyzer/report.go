package analyzer

import (
	"github.com/penwyp/go-chronoface/internal/core/bucket"
	"github.com/penwyp/go-chronoface/internal/core/model"
	"github.com/penwyp/go-chronoface/internal/presentation/formatter"
)

const unitLabelLayout = "Jan 02, 2006 15:04"

// Report converts a result into the formatter view. Without bucketing every
// unit becomes its own row keyed by its day.
func (a *Analyzer) Report(res *Result) *formatter.Report {
	report := &formatter.Report{
		RunID:       res.RunID,
		Granularity: a.config.Granularity,
		Paper:       a.config.Paper,
		Timezone:    a.loc.String(),
		Coverage:    res.Coverage,
		Plan:        res.Plan,
		Units:       len(res.Units),
		Stats:       toLoadStats(res.Load, res.Selection.Len()),
	}

	if a.config.Granularity == model.GranularityAll {
		for _, item := range res.Units {
			key, _ := bucket.Key(item.Timestamp, model.GranularityDay)
			report.Rows = append(report.Rows, formatter.BucketRow{
				Key:           key,
				Label:         item.Timestamp.Format(unitLabelLayout),
				Faces:         1,
				SelectedID:    item.ID,
				SelectedScore: item.Score,
				Status:        formatter.StatusSingle,
			})
		}
		return report
	}

	for _, b := range res.Buckets {
		row := formatter.BucketRow{
			Key:    b.Key,
			Label:  b.Label,
			Faces:  len(b.Items),
			Status: rowStatus(b, res.Selection),
		}
		if item, ok := b.Selected(); ok {
			row.SelectedID = item.ID
			row.SelectedScore = item.Score
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}

func rowStatus(b bucket.Bucket, sel bucket.Selection) string {
	if len(b.Items) == 0 {
		return formatter.StatusMissing
	}
	if id, ok := sel.Get(b.Key); ok && id == b.SelectedItemID {
		return formatter.StatusManual
	}
	if len(b.Items) > 1 {
		return formatter.StatusReview
	}
	return formatter.StatusSingle
}
