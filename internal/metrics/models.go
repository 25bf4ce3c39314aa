// Package metrics implements the aggregation engine that turns raw visit and
// hit records into the two-release comparison payload consumed by the
// downstream analysis step.
//
// The package is organized into focused modules:
//   - sessions.go: assembles ordered per-visit hit sequences
//   - distribution.go: fixed-bucket session distributions
//   - segments.go: categorical breakdowns (device, OS, browser, geo, traffic)
//   - navigation.go: revisit/backtrack/loop detection and transition ranking
//   - funnel.go: step-wise funnel entry/completion
//   - complexity.go: high-interaction and URL-revisit statistics
//   - pages.go: per-page entry/exit/diversity metrics
//   - aggregator.go: per-period orchestration and the comparison payload
package metrics

import "time"

// Metadata describes a generated payload.
type Metadata struct {
	ProjectName string    `json:"project_name"`
	GeneratedAt time.Time `json:"generated_at"`
	DataSource  string    `json:"data_source"`
}

// DataPeriod is the time window one release was aggregated over.
type DataPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ReleaseInfo identifies a release and its input volume.
type ReleaseInfo struct {
	Version       string     `json:"version"`
	DataPeriod    DataPeriod `json:"data_period"`
	TotalVisits   int        `json:"total_visits"`
	TotalHits     int        `json:"total_hits"`
	UniqueClients int        `json:"unique_clients"`
}

// VisitsMetrics holds aggregate visit-level statistics for a release.
type VisitsMetrics struct {
	TotalCount        int     `json:"total_count"`
	NewUsers          int     `json:"new_users"`
	ReturningUsers    int     `json:"returning_users"`
	AvgPageViews      float64 `json:"avg_page_views"`
	MedianPageViews   int     `json:"median_page_views"`
	AvgDurationSec    int     `json:"avg_duration_sec"`
	MedianDurationSec int     `json:"median_duration_sec"`
	TotalDurationSec  int     `json:"total_duration_sec"`
}

// PageViewsMetrics holds aggregate hit-level statistics for a release.
type PageViewsMetrics struct {
	TotalCount int `json:"total_count"`
	UniqueURLs int `json:"unique_urls"`
}

// AggregateMetrics bundles the release-wide visit and page-view aggregates.
type AggregateMetrics struct {
	Visits    VisitsMetrics    `json:"visits"`
	PageViews PageViewsMetrics `json:"page_views"`
}

// DistributionBucket is one closed-or-open numeric range with its share of the
// period total. RangeMax is nil for the unbounded final bucket.
type DistributionBucket struct {
	RangeMin   int     `json:"range_min"`
	RangeMax   *int    `json:"range_max"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SessionDistribution holds the fixed-bucket distributions of visits.
type SessionDistribution struct {
	ByPageViews   []DistributionBucket `json:"by_page_views"`
	ByDurationSec []DistributionBucket `json:"by_duration_sec"`
}

// SegmentMetric is the per-segment aggregate for one categorical value.
type SegmentMetric struct {
	SegmentValue     string  `json:"segment_value"`
	Visits           int     `json:"visits"`
	Percentage       float64 `json:"percentage"`
	AvgPageViews     float64 `json:"avg_page_views"`
	AvgDurationSec   int     `json:"avg_duration_sec"`
	SinglePageVisits int     `json:"single_page_visits"`
}

// DeviceCategoryMetric is a segment metric tagged with the closed device
// category enumeration (1=desktop, 2=mobile/tablet).
type DeviceCategoryMetric struct {
	SegmentMetric
	DeviceCategory int `json:"device_category"`
}

// DeviceBreakdown groups visits by device characteristics.
type DeviceBreakdown struct {
	ByCategory          []DeviceCategoryMetric `json:"by_category"`
	ByOS                []SegmentMetric        `json:"by_os"`
	ByBrowser           []SegmentMetric        `json:"by_browser"`
	ByScreenOrientation []SegmentMetric        `json:"by_screen_orientation"`
}

// TrafficSources groups visits by acquisition source.
type TrafficSources struct {
	BySearchEngine []SegmentMetric `json:"by_search_engine"`
}

// GeographicDistribution groups visits by city.
type GeographicDistribution struct {
	TopCities []SegmentMetric `json:"top_cities"`
}

// PageMetric holds per-page statistics for one URL.
type PageMetric struct {
	URL                     string `json:"url"`
	Title                   string `json:"title"`
	VisitsAsEntry           int    `json:"visits_as_entry"`
	VisitsAsExit            int    `json:"visits_as_exit"`
	TotalHits               int    `json:"total_hits"`
	UniqueVisitors          int    `json:"unique_visitors"`
	VisitsWithSinglePage    int    `json:"visits_with_single_page"`
	SubsequentPageDiversity int    `json:"subsequent_page_diversity"`
}

// PageTransition is one ordered page-to-page transition with its count.
type PageTransition struct {
	FromURL         string `json:"from_url"`
	ToURL           string `json:"to_url"`
	TransitionCount int    `json:"transition_count"`
}

// LoopPattern is one detected A->B->A navigation sequence with its count.
type LoopPattern struct {
	Sequence    []string `json:"sequence"`
	Occurrences int      `json:"occurrences"`
}

// ReverseNavigation summarizes revisit/backtrack behavior across sessions.
type ReverseNavigation struct {
	VisitsWithReverseNav    int     `json:"visits_with_reverse_nav"`
	Percentage              float64 `json:"percentage"`
	TotalReverseTransitions int     `json:"total_reverse_transitions"`
}

// NavigationPatterns bundles the navigation analysis results.
type NavigationPatterns struct {
	ReverseNavigation ReverseNavigation `json:"reverse_navigation"`
	CommonTransitions []PageTransition  `json:"common_transitions"`
	LoopPatterns      []LoopPattern     `json:"loop_patterns"`
}

// FunnelStep is one stage of the conversion funnel.
type FunnelStep struct {
	Step            int    `json:"step"`
	URL             string `json:"url"`
	VisitsEntered   int    `json:"visits_entered"`
	VisitsCompleted int    `json:"visits_completed"`
}

// FunnelMetrics holds the application funnel steps.
type FunnelMetrics struct {
	ApplicationFunnel []FunnelStep `json:"application_funnel"`
}

// HighInteractionSessions summarizes sessions with ten or more page views.
type HighInteractionSessions struct {
	SessionsWith10PlusPages int     `json:"sessions_with_10plus_pages"`
	Percentage              float64 `json:"percentage"`
	AvgPages                float64 `json:"avg_pages"`
	AvgDurationSec          int     `json:"avg_duration_sec"`
	AvgUniqueURLs           float64 `json:"avg_unique_urls"`
}

// URLRevisitPatterns summarizes sessions whose hit sequence repeats URLs.
type URLRevisitPatterns struct {
	SessionsWithURLRevisits int     `json:"sessions_with_url_revisits"`
	Percentage              float64 `json:"percentage"`
	AvgRevisitsPerSession   float64 `json:"avg_revisits_per_session"`
	AvgUniqueURLsRevisited  float64 `json:"avg_unique_urls_revisited"`
}

// SessionComplexityMetrics bundles the session complexity indicators.
type SessionComplexityMetrics struct {
	HighInteractionSessions HighInteractionSessions `json:"high_interaction_sessions"`
	URLRevisitPatterns      URLRevisitPatterns      `json:"url_revisit_patterns"`
}

// Release is the complete aggregated report for one time period. It is
// immutable after construction.
type Release struct {
	ReleaseInfo              ReleaseInfo              `json:"release_info"`
	AggregateMetrics         AggregateMetrics         `json:"aggregate_metrics"`
	SessionDistribution      SessionDistribution      `json:"session_distribution"`
	DeviceBreakdown          DeviceBreakdown          `json:"device_breakdown"`
	TrafficSources           TrafficSources           `json:"traffic_sources"`
	GeographicDistribution   GeographicDistribution   `json:"geographic_distribution"`
	PageMetrics              []PageMetric             `json:"page_metrics"`
	NavigationPatterns       NavigationPatterns       `json:"navigation_patterns"`
	FunnelMetrics            FunnelMetrics            `json:"funnel_metrics"`
	SessionComplexityMetrics SessionComplexityMetrics `json:"session_complexity_metrics"`
}

// MetricsPayload is the top-level output: run metadata plus exactly two
// releases in baseline-then-comparison order.
type MetricsPayload struct {
	Metadata Metadata  `json:"metadata"`
	Releases []Release `json:"releases"`
}
