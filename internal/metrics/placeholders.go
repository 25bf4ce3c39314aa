package metrics

import (
	"math"

	"vihorki/internal/records"
	"vihorki/internal/timeframe"
)

// Every list-valued field of a Release must carry at least one entry so that
// downstream comparison logic can rely on a stable schema. The constructors
// below produce the zero-valued form of each result type.

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// percentage returns count/total*100 rounded to one decimal, or 0 when the
// total is zero.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(count) / float64(total) * 100)
}

func unknownSegment() SegmentMetric {
	return SegmentMetric{SegmentValue: "Unknown"}
}

func emptyDeviceBreakdown() DeviceBreakdown {
	return DeviceBreakdown{
		ByCategory: []DeviceCategoryMetric{{
			SegmentMetric:  SegmentMetric{SegmentValue: "Desktop"},
			DeviceCategory: records.DeviceCategoryDesktop,
		}},
		ByOS:                []SegmentMetric{unknownSegment()},
		ByBrowser:           []SegmentMetric{unknownSegment()},
		ByScreenOrientation: []SegmentMetric{unknownSegment()},
	}
}

func emptyTrafficSources() TrafficSources {
	return TrafficSources{BySearchEngine: []SegmentMetric{unknownSegment()}}
}

func emptyGeographicDistribution() GeographicDistribution {
	return GeographicDistribution{TopCities: []SegmentMetric{unknownSegment()}}
}

func emptyNavigationPatterns() NavigationPatterns {
	return NavigationPatterns{
		CommonTransitions: []PageTransition{{FromURL: "/", ToURL: "/"}},
		LoopPatterns:      []LoopPattern{{Sequence: []string{"/"}}},
	}
}

func emptyFunnelMetrics() FunnelMetrics {
	return FunnelMetrics{ApplicationFunnel: []FunnelStep{{Step: 1, URL: "/"}}}
}

func emptyPageMetrics() []PageMetric {
	return []PageMetric{{URL: "/", Title: "Home"}}
}

func emptySessionDistribution() SessionDistribution {
	return SessionDistribution{
		ByPageViews:   emptyBuckets(pageViewBuckets),
		ByDurationSec: emptyBuckets(durationBuckets),
	}
}

// emptyRelease returns a fully populated zero-valued Release for a period
// that produced no visits.
func emptyRelease(period timeframe.Period, version string) Release {
	return Release{
		ReleaseInfo: ReleaseInfo{
			Version:    version,
			DataPeriod: DataPeriod{Start: period.From, End: period.To},
		},
		SessionDistribution:    emptySessionDistribution(),
		DeviceBreakdown:        emptyDeviceBreakdown(),
		TrafficSources:         emptyTrafficSources(),
		GeographicDistribution: emptyGeographicDistribution(),
		PageMetrics:            emptyPageMetrics(),
		NavigationPatterns:     emptyNavigationPatterns(),
		FunnelMetrics:          emptyFunnelMetrics(),
	}
}
