package metrics

import "vihorki/internal/records"

// bucketRange is an inclusive numeric range; Max is nil for the unbounded
// final bucket.
type bucketRange struct {
	Min int
	Max *int
}

func bounded(min, max int) bucketRange {
	return bucketRange{Min: min, Max: &max}
}

func unbounded(min int) bucketRange {
	return bucketRange{Min: min}
}

// Fixed distribution axes. Ranges are disjoint so a visit matches at most one
// bucket per axis.
var (
	pageViewBuckets = []bucketRange{bounded(1, 1), bounded(2, 5), bounded(6, 10), unbounded(11)}
	durationBuckets = []bucketRange{bounded(0, 30), bounded(31, 120), bounded(121, 300), unbounded(301)}
)

// calcDistribution buckets visits by the selected value. Every bucket appears
// in the result even with a zero count; percentages are zero when the visit
// set is empty.
func calcDistribution(visits []records.Visit, selector func(records.Visit) int, buckets []bucketRange) []DistributionBucket {
	total := len(visits)

	result := make([]DistributionBucket, 0, len(buckets))
	for _, b := range buckets {
		count := 0
		for _, v := range visits {
			value := selector(v)
			if value < b.Min {
				continue
			}
			if b.Max != nil && value > *b.Max {
				continue
			}
			count++
		}

		result = append(result, DistributionBucket{
			RangeMin:   b.Min,
			RangeMax:   b.Max,
			Count:      count,
			Percentage: percentage(count, total),
		})
	}
	return result
}

// CalcSessionDistribution computes the page-view and duration distributions
// for the period's visits.
func CalcSessionDistribution(visits []records.Visit) SessionDistribution {
	return SessionDistribution{
		ByPageViews:   calcDistribution(visits, func(v records.Visit) int { return v.PageViews }, pageViewBuckets),
		ByDurationSec: calcDistribution(visits, func(v records.Visit) int { return v.VisitDuration }, durationBuckets),
	}
}

// emptyBuckets returns one zero-valued bucket per range so that an empty
// period still serializes the full axis.
func emptyBuckets(buckets []bucketRange) []DistributionBucket {
	result := make([]DistributionBucket, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, DistributionBucket{RangeMin: b.Min, RangeMax: b.Max})
	}
	return result
}
