package metrics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vihorki/internal/metrics"
	"vihorki/internal/records"
	"vihorki/internal/testsupport"
	"vihorki/internal/timeframe"
)

// stubSource serves canned records, filtering visits by the requested range.
type stubSource struct {
	visits []records.Visit
	hits   map[string]records.Hit
	err    error
}

func (s *stubSource) VisitsBetween(_ context.Context, from, to time.Time) ([]records.Visit, error) {
	if s.err != nil {
		return nil, s.err
	}
	var result []records.Visit
	for _, v := range s.visits {
		if !v.DateTime.Before(from) && !v.DateTime.After(to) {
			result = append(result, v)
		}
	}
	return result, nil
}

func (s *stubSource) HitsByWatchIDs(_ context.Context, watchIDs []string) ([]records.Hit, error) {
	if s.err != nil {
		return nil, s.err
	}
	var result []records.Hit
	for _, id := range watchIDs {
		if hit, ok := s.hits[id]; ok {
			result = append(result, hit)
		}
	}
	return result, nil
}

func mustPeriod(t *testing.T, from, to time.Time) timeframe.Period {
	t.Helper()
	period, err := timeframe.NewPeriod(from, to)
	require.NoError(t, err)
	return period
}

func TestComparePeriodsEndToEnd(t *testing.T) {
	baselineStart := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	baselineEnd := time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC)
	comparisonEnd := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)

	source := &stubSource{
		visits: []records.Visit{
			{
				VisitID: 1, WatchIDs: "h1", DateTime: baselineStart.Add(time.Hour),
				IsNewUser: true, StartURL: "/home", EndURL: "/home",
				PageViews: 1, VisitDuration: 10, ClientID: "c1",
				DeviceCategory: records.DeviceCategoryDesktop,
			},
			{
				VisitID: 2, WatchIDs: "h2,h3", DateTime: baselineStart.Add(2 * time.Hour),
				IsNewUser: true, StartURL: "/home", EndURL: "/shop",
				PageViews: 4, VisitDuration: 100, ClientID: "c1",
				DeviceCategory: records.DeviceCategoryMobile,
			},
			{
				VisitID: 3, WatchIDs: "h4", DateTime: baselineStart.Add(3 * time.Hour),
				IsNewUser: false, StartURL: "/shop", EndURL: "/shop",
				PageViews: 10, VisitDuration: 400, ClientID: "c2",
				DeviceCategory: records.DeviceCategoryDesktop,
			},
		},
		hits: map[string]records.Hit{
			"h1": {WatchID: "h1", URL: "/home", ClientID: "c1", DatetimeHit: baselineStart.Add(time.Hour)},
			"h2": {WatchID: "h2", URL: "/home", ClientID: "c1", DatetimeHit: baselineStart.Add(2 * time.Hour)},
			"h3": {WatchID: "h3", URL: "/shop", ClientID: "c1", DatetimeHit: baselineStart.Add(2*time.Hour + time.Minute)},
			"h4": {WatchID: "h4", URL: "/shop", ClientID: "c2", DatetimeHit: baselineStart.Add(3 * time.Hour)},
		},
	}

	aggregator := metrics.NewAggregator(source, testsupport.GetLogger())

	payload, err := aggregator.ComparePeriods(context.Background(), metrics.CompareInput{
		BaselinePeriod:    mustPeriod(t, baselineStart, baselineEnd),
		ComparisonPeriod:  mustPeriod(t, baselineEnd.Add(time.Second), comparisonEnd),
		BaselineVersion:   "v1.0.0",
		ComparisonVersion: "v2.0.0",
		ProjectName:       "Analytics Project",
		DataSource:        "sqlite_analytics",
	})
	require.NoError(t, err)

	assert.Equal(t, "Analytics Project", payload.Metadata.ProjectName)
	assert.Equal(t, "sqlite_analytics", payload.Metadata.DataSource)
	assert.False(t, payload.Metadata.GeneratedAt.IsZero())

	require.Len(t, payload.Releases, 2)
	baseline := payload.Releases[0]
	comparison := payload.Releases[1]

	assert.Equal(t, "v1.0.0", baseline.ReleaseInfo.Version)
	assert.Equal(t, 3, baseline.ReleaseInfo.TotalVisits)
	assert.Equal(t, 4, baseline.ReleaseInfo.TotalHits)
	assert.Equal(t, 2, baseline.ReleaseInfo.UniqueClients)

	visitsMetrics := baseline.AggregateMetrics.Visits
	assert.Equal(t, 3, visitsMetrics.TotalCount)
	assert.Equal(t, 2, visitsMetrics.NewUsers)
	assert.Equal(t, 1, visitsMetrics.ReturningUsers)
	assert.Equal(t, 5.0, visitsMetrics.AvgPageViews)
	assert.Equal(t, 4, visitsMetrics.MedianPageViews)
	assert.Equal(t, 170, visitsMetrics.AvgDurationSec)
	assert.Equal(t, 100, visitsMetrics.MedianDurationSec)
	assert.Equal(t, 510, visitsMetrics.TotalDurationSec)

	assert.Equal(t, 4, baseline.AggregateMetrics.PageViews.TotalCount)
	assert.Equal(t, 2, baseline.AggregateMetrics.PageViews.UniqueURLs)

	assert.NotEmpty(t, baseline.PageMetrics)
	assert.NotEmpty(t, baseline.FunnelMetrics.ApplicationFunnel)
	assert.Len(t, baseline.DeviceBreakdown.ByCategory, 2)

	// The comparison period has no visits and must still be fully populated.
	assert.Equal(t, "v2.0.0", comparison.ReleaseInfo.Version)
	assert.Equal(t, 0, comparison.ReleaseInfo.TotalVisits)
	assert.NotEmpty(t, comparison.SessionDistribution.ByPageViews)
	assert.NotEmpty(t, comparison.DeviceBreakdown.ByCategory)
	assert.NotEmpty(t, comparison.TrafficSources.BySearchEngine)
	assert.NotEmpty(t, comparison.GeographicDistribution.TopCities)
	assert.NotEmpty(t, comparison.PageMetrics)
	assert.NotEmpty(t, comparison.NavigationPatterns.CommonTransitions)
	assert.NotEmpty(t, comparison.NavigationPatterns.LoopPatterns)
	assert.NotEmpty(t, comparison.FunnelMetrics.ApplicationFunnel)
}

func TestComparePeriodsIsDeterministic(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	source := &stubSource{
		visits: []records.Visit{
			{VisitID: 1, DateTime: start.Add(time.Hour), StartURL: "/a", EndURL: "/b", PageViews: 2, VisitDuration: 50, ClientID: "c1"},
			{VisitID: 2, DateTime: start.Add(2 * time.Hour), StartURL: "/b", EndURL: "/a", PageViews: 3, VisitDuration: 70, ClientID: "c2"},
		},
	}

	aggregator := metrics.NewAggregator(source, testsupport.GetLogger())
	input := metrics.CompareInput{
		BaselinePeriod:    mustPeriod(t, start, start.Add(24*time.Hour)),
		ComparisonPeriod:  mustPeriod(t, start.Add(24*time.Hour), start.Add(48*time.Hour)),
		BaselineVersion:   "v1",
		ComparisonVersion: "v2",
	}

	first, err := aggregator.ComparePeriods(context.Background(), input)
	require.NoError(t, err)
	second, err := aggregator.ComparePeriods(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.Releases, second.Releases)
}

func TestComparePeriodsPropagatesSourceErrors(t *testing.T) {
	source := &stubSource{err: errors.New("storage offline")}
	aggregator := metrics.NewAggregator(source, testsupport.GetLogger())

	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	_, err := aggregator.ComparePeriods(context.Background(), metrics.CompareInput{
		BaselinePeriod:   mustPeriod(t, start, start.Add(time.Hour)),
		ComparisonPeriod: mustPeriod(t, start.Add(time.Hour), start.Add(2*time.Hour)),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage offline")
}

func TestAggregateReleaseEmptyPeriod(t *testing.T) {
	source := &stubSource{}
	aggregator := metrics.NewAggregator(source, testsupport.GetLogger())

	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	release, err := aggregator.AggregateRelease(context.Background(), mustPeriod(t, start, start.Add(time.Hour)), "v9", nil)
	require.NoError(t, err)

	assert.Equal(t, "v9", release.ReleaseInfo.Version)
	assert.Equal(t, start, release.ReleaseInfo.DataPeriod.Start)
	assert.Equal(t, 0, release.ReleaseInfo.TotalVisits)
	assert.Len(t, release.SessionDistribution.ByPageViews, 4)
	assert.Len(t, release.SessionDistribution.ByDurationSec, 4)
	assert.NotEmpty(t, release.PageMetrics)
}
