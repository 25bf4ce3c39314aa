package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"vihorki/internal/records"
	"vihorki/internal/timeframe"
)

// RecordSource is the narrow read-only capability the aggregator needs from
// the storage layer. The engine stays independent of any persistence
// technology and is testable with in-memory fixtures.
type RecordSource interface {
	VisitsBetween(ctx context.Context, from, to time.Time) ([]records.Visit, error)
	HitsByWatchIDs(ctx context.Context, watchIDs []string) ([]records.Hit, error)
}

// Aggregator orchestrates the calculators for one or two time periods.
type Aggregator struct {
	source RecordSource
	logger *slog.Logger
}

// NewAggregator creates an aggregator over the given record source.
func NewAggregator(source RecordSource, logger *slog.Logger) *Aggregator {
	return &Aggregator{source: source, logger: logger}
}

// CompareInput bounds a two-release comparison run.
type CompareInput struct {
	BaselinePeriod    timeframe.Period
	ComparisonPeriod  timeframe.Period
	BaselineVersion   string
	ComparisonVersion string
	ProjectName       string
	DataSource        string
	TargetURLs        []string
}

// ComparePeriods aggregates both periods and assembles the final payload.
// The two release computations share no mutable state and run concurrently;
// the payload always lists the baseline release first.
func (a *Aggregator) ComparePeriods(ctx context.Context, input CompareInput) (*MetricsPayload, error) {
	a.logger.Info("Aggregating metrics for release comparison",
		slog.String("baseline", input.BaselinePeriod.String()),
		slog.String("comparison", input.ComparisonPeriod.String()))

	var baseline, comparison Release

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		release, err := a.AggregateRelease(gctx, input.BaselinePeriod, input.BaselineVersion, input.TargetURLs)
		if err != nil {
			return fmt.Errorf("baseline release: %w", err)
		}
		baseline = release
		return nil
	})
	g.Go(func() error {
		release, err := a.AggregateRelease(gctx, input.ComparisonPeriod, input.ComparisonVersion, input.TargetURLs)
		if err != nil {
			return fmt.Errorf("comparison release: %w", err)
		}
		comparison = release
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &MetricsPayload{
		Metadata: Metadata{
			ProjectName: input.ProjectName,
			GeneratedAt: timeframe.ToNaiveUTC(time.Now()),
			DataSource:  input.DataSource,
		},
		Releases: []Release{baseline, comparison},
	}, nil
}

// AggregateRelease fetches the period's records, assembles the working
// session set, and runs every calculator off it. A period with zero visits
// yields a fully populated zero-valued Release.
func (a *Aggregator) AggregateRelease(ctx context.Context, period timeframe.Period, version string, targetURLs []string) (Release, error) {
	visits, err := a.source.VisitsBetween(ctx, period.From, period.To)
	if err != nil {
		return Release{}, fmt.Errorf("fetching visits for period %s: %w", period, err)
	}

	if len(visits) == 0 {
		a.logger.Warn("No visits found for period", slog.String("period", period.String()))
		return emptyRelease(period, version), nil
	}

	var allWatchIDs []string
	for _, v := range visits {
		allWatchIDs = append(allWatchIDs, v.ParsedWatchIDs()...)
	}

	var hits []records.Hit
	if len(allWatchIDs) > 0 {
		hits, err = a.source.HitsByWatchIDs(ctx, allWatchIDs)
		if err != nil {
			return Release{}, fmt.Errorf("fetching hits for period %s: %w", period, err)
		}
	}

	sessions := AssembleSessions(visits, hits)

	return Release{
		ReleaseInfo:              calcReleaseInfo(visits, hits, period, version),
		AggregateMetrics:         calcAggregateMetrics(visits, hits),
		SessionDistribution:      CalcSessionDistribution(visits),
		DeviceBreakdown:          CalcDeviceBreakdown(visits),
		TrafficSources:           CalcTrafficSources(visits),
		GeographicDistribution:   CalcGeographicDistribution(visits),
		PageMetrics:              CalcPageMetrics(visits, hits, sessions, targetURLs),
		NavigationPatterns:       CalcNavigationPatterns(sessions),
		FunnelMetrics:            CalcFunnelMetrics(visits, targetURLs),
		SessionComplexityMetrics: CalcSessionComplexity(sessions),
	}, nil
}

func calcReleaseInfo(visits []records.Visit, hits []records.Hit, period timeframe.Period, version string) ReleaseInfo {
	uniqueClients := make(map[string]bool)
	for _, v := range visits {
		if v.ClientID != "" {
			uniqueClients[v.ClientID] = true
		}
	}

	return ReleaseInfo{
		Version:       version,
		DataPeriod:    DataPeriod{Start: period.From, End: period.To},
		TotalVisits:   len(visits),
		TotalHits:     len(hits),
		UniqueClients: len(uniqueClients),
	}
}

func calcAggregateMetrics(visits []records.Visit, hits []records.Hit) AggregateMetrics {
	totalVisits := len(visits)

	newUsers := 0
	pageViewSum := 0
	durationSum := 0
	pageViews := make([]int, 0, totalVisits)
	durations := make([]int, 0, totalVisits)
	for _, v := range visits {
		if v.IsNewUser {
			newUsers++
		}
		pageViewSum += v.PageViews
		durationSum += v.VisitDuration
		pageViews = append(pageViews, v.PageViews)
		durations = append(durations, v.VisitDuration)
	}

	uniqueURLs := make(map[string]bool)
	for _, hit := range hits {
		if hit.URL != "" {
			uniqueURLs[hit.URL] = true
		}
	}

	visitsMetrics := VisitsMetrics{
		TotalCount:       totalVisits,
		NewUsers:         newUsers,
		ReturningUsers:   totalVisits - newUsers,
		TotalDurationSec: durationSum,
	}
	if totalVisits > 0 {
		visitsMetrics.AvgPageViews = round2(float64(pageViewSum) / float64(totalVisits))
		visitsMetrics.MedianPageViews = int(median(pageViews))
		visitsMetrics.AvgDurationSec = durationSum / totalVisits
		visitsMetrics.MedianDurationSec = int(median(durations))
	}

	return AggregateMetrics{
		Visits: visitsMetrics,
		PageViews: PageViewsMetrics{
			TotalCount: len(hits),
			UniqueURLs: len(uniqueURLs),
		},
	}
}

// median returns the middle of the sorted values, averaging the two middle
// values for even-sized input. The input slice is not modified.
func median(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}
