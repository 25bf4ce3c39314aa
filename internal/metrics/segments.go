package metrics

import "vihorki/internal/records"

// Top-N caps for the open-ended breakdowns. Orientation is a tiny closed set
// in practice and stays uncapped.
const (
	topOSSegments           = 10
	topBrowserSegments      = 10
	topSearchEngineSegments = 10
	topCitySegments         = 15
)

// calcSegmentMetric computes the aggregate for one categorical value over its
// visit subset. periodTotal is the full period's visit count, used for the
// percentage share.
func calcSegmentMetric(value string, subset []records.Visit, periodTotal int) SegmentMetric {
	count := len(subset)

	metric := SegmentMetric{
		SegmentValue: value,
		Visits:       count,
		Percentage:   percentage(count, periodTotal),
	}
	if count == 0 {
		return metric
	}

	pageViewSum := 0
	durationSum := 0
	for _, v := range subset {
		pageViewSum += v.PageViews
		durationSum += v.VisitDuration
		if v.PageViews == 1 {
			metric.SinglePageVisits++
		}
	}
	metric.AvgPageViews = round1(float64(pageViewSum) / float64(count))
	metric.AvgDurationSec = durationSum / count

	return metric
}

// calcBreakdown groups visits by the accessor's value, omitting visits with
// an empty value, and returns the top-N segments by frequency with ties
// broken by encounter order. A non-positive limit returns all segments.
func calcBreakdown(visits []records.Visit, accessor func(records.Visit) string, limit int) []SegmentMetric {
	counter := newOrderedCounter()
	subsets := make(map[string][]records.Visit)
	for _, v := range visits {
		value := accessor(v)
		if value == "" {
			continue
		}
		counter.Add(value)
		subsets[value] = append(subsets[value], v)
	}

	ranked := counter.Top(limit)
	result := make([]SegmentMetric, 0, len(ranked))
	for _, entry := range ranked {
		result = append(result, calcSegmentMetric(entry.Key, subsets[entry.Key], len(visits)))
	}
	return result
}

// withUnknownFallback substitutes a single zero-valued "Unknown" segment when
// no visit carried a value for the attribute, keeping consumers schema-stable.
func withUnknownFallback(segments []SegmentMetric) []SegmentMetric {
	if len(segments) == 0 {
		return []SegmentMetric{unknownSegment()}
	}
	return segments
}

func deviceCategoryLabel(category int) string {
	if category == records.DeviceCategoryDesktop {
		return "Desktop"
	}
	return "Mobile/Tablet"
}

// CalcDeviceBreakdown segments visits by device category, operating system,
// browser, and screen orientation. The category breakdown iterates the closed
// {desktop, mobile} enumeration rather than arbitrary stored values.
func CalcDeviceBreakdown(visits []records.Visit) DeviceBreakdown {
	var byCategory []DeviceCategoryMetric
	for _, category := range []int{records.DeviceCategoryDesktop, records.DeviceCategoryMobile} {
		var subset []records.Visit
		for _, v := range visits {
			if v.DeviceCategory == category {
				subset = append(subset, v)
			}
		}
		if len(subset) == 0 {
			continue
		}
		byCategory = append(byCategory, DeviceCategoryMetric{
			SegmentMetric:  calcSegmentMetric(deviceCategoryLabel(category), subset, len(visits)),
			DeviceCategory: category,
		})
	}
	if len(byCategory) == 0 {
		byCategory = emptyDeviceBreakdown().ByCategory
	}

	return DeviceBreakdown{
		ByCategory:          byCategory,
		ByOS:                withUnknownFallback(calcBreakdown(visits, func(v records.Visit) string { return v.OperatingSystem }, topOSSegments)),
		ByBrowser:           withUnknownFallback(calcBreakdown(visits, func(v records.Visit) string { return v.Browser }, topBrowserSegments)),
		ByScreenOrientation: withUnknownFallback(calcBreakdown(visits, func(v records.Visit) string { return v.ScreenOrientationName }, 0)),
	}
}

// CalcTrafficSources segments visits by last search engine. When no visit has
// a search engine attribution the whole period is reported as direct traffic.
func CalcTrafficSources(visits []records.Visit) TrafficSources {
	bySearchEngine := calcBreakdown(visits, func(v records.Visit) string { return v.LastSearchEngineRoot }, topSearchEngineSegments)
	if len(bySearchEngine) == 0 {
		bySearchEngine = []SegmentMetric{{
			SegmentValue: "direct",
			Visits:       len(visits),
			Percentage:   100.0,
		}}
	}
	return TrafficSources{BySearchEngine: bySearchEngine}
}

// CalcGeographicDistribution segments visits by city, keeping the top cities
// by visit count.
func CalcGeographicDistribution(visits []records.Visit) GeographicDistribution {
	topCities := calcBreakdown(visits, func(v records.Visit) string { return v.RegionCity }, topCitySegments)
	if len(topCities) == 0 {
		topCities = []SegmentMetric{{
			SegmentValue: "Unknown",
			Visits:       len(visits),
			Percentage:   100.0,
		}}
	}
	return GeographicDistribution{TopCities: topCities}
}
