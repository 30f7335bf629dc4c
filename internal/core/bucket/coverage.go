package bucket

import (
	"fmt"
	"strings"

	"github.com/penwyp/go-chronoface/internal/core/model"
	"github.com/penwyp/go-chronoface/internal/util"
)

// maxMissingLabels caps how many missing periods are named in the message.
const maxMissingLabels = 3

// CoverageMessageComplete is reported when no period is missing.
const CoverageMessageComplete = "All periods covered"

// CoverageSummary is derived from a bucket sequence and never mutated.
type CoverageSummary struct {
	Granularity     model.Granularity `json:"granularity"`
	Total           int               `json:"total"`
	Covered         int               `json:"covered"`
	Missing         int               `json:"missing"`
	Duplicates      int               `json:"duplicates"`
	MissingLabels   []string          `json:"missingLabels,omitempty"`
	MissingOverflow int               `json:"missingOverflow,omitempty"`
	Message         string            `json:"message"`
	DateRange       string            `json:"dateRange,omitempty"`
}

// Ratio is the covered fraction of periods, 0 when there are none.
func (c CoverageSummary) Ratio() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Covered) / float64(c.Total)
}

// Complete reports whether every period holds at least one item.
func (c CoverageSummary) Complete() bool {
	return c.Missing == 0
}

// Report summarizes coverage. acceptedCount is only used for GranularityAll,
// where every accepted item counts as its own covered unit.
func Report(buckets []Bucket, g model.Granularity, acceptedCount int) CoverageSummary {
	summary := CoverageSummary{Granularity: g}

	if g == model.GranularityAll {
		summary.Total = acceptedCount
		summary.Covered = acceptedCount
		summary.Message = CoverageMessageComplete
		return summary
	}

	var missingLabels []string
	for _, b := range buckets {
		switch n := len(b.Items); {
		case n == 0:
			missingLabels = append(missingLabels, b.Label)
		case n > 1:
			summary.Covered++
			summary.Duplicates++
		default:
			summary.Covered++
		}
	}
	summary.Total = len(buckets)
	summary.Missing = summary.Total - summary.Covered

	if len(missingLabels) > maxMissingLabels {
		summary.MissingOverflow = len(missingLabels) - maxMissingLabels
		missingLabels = missingLabels[:maxMissingLabels]
	}
	summary.MissingLabels = missingLabels
	summary.Message = missingMessage(missingLabels, summary.MissingOverflow)

	if len(buckets) > 0 {
		summary.DateRange = fmt.Sprintf("%s – %s", buckets[0].Label, buckets[len(buckets)-1].Label)
	}
	return summary
}

func missingMessage(labels []string, overflow int) string {
	if len(labels) == 0 {
		return CoverageMessageComplete
	}
	msg := "Missing: " + strings.Join(labels, ", ")
	if overflow > 0 {
		msg += fmt.Sprintf(" and %s more", util.FormatCount(overflow))
	}
	return msg
}
