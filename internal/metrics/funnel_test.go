package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vihorki/internal/metrics"
	"vihorki/internal/records"
)

func TestCalcFunnelMetricsExplicitTargets(t *testing.T) {
	visits := []records.Visit{
		{VisitID: 1, StartURL: "/start", EndURL: "/end"},
		{VisitID: 2, StartURL: "/start", EndURL: "/mid"},
		{VisitID: 3, StartURL: "/mid", EndURL: "/mid"},
	}

	funnel := metrics.CalcFunnelMetrics(visits, []string{"/start", "/mid", "/end"})

	require.Len(t, funnel.ApplicationFunnel, 3)

	step1 := funnel.ApplicationFunnel[0]
	assert.Equal(t, 1, step1.Step)
	assert.Equal(t, "/start", step1.URL)
	assert.Equal(t, 2, step1.VisitsEntered)
	assert.Equal(t, 0, step1.VisitsCompleted)

	step2 := funnel.ApplicationFunnel[1]
	assert.Equal(t, "/mid", step2.URL)
	assert.Equal(t, 2, step2.VisitsEntered)
	assert.Equal(t, 2, step2.VisitsCompleted)

	// The terminal step counts everyone who entered it as completed.
	step3 := funnel.ApplicationFunnel[2]
	assert.Equal(t, "/end", step3.URL)
	assert.Equal(t, 1, step3.VisitsEntered)
	assert.Equal(t, 1, step3.VisitsCompleted)
}

func TestCalcFunnelMetricsTruncatesLongTargetLists(t *testing.T) {
	targets := []string{"/1", "/2", "/3", "/4", "/5", "/6", "/7"}

	funnel := metrics.CalcFunnelMetrics(nil, targets)

	require.Len(t, funnel.ApplicationFunnel, 5)
	assert.Equal(t, "/5", funnel.ApplicationFunnel[4].URL)
}

func TestCalcFunnelMetricsInfersFromStartURLs(t *testing.T) {
	visits := []records.Visit{
		{VisitID: 1, StartURL: "/home", EndURL: "/home"},
		{VisitID: 2, StartURL: "/home", EndURL: "/about"},
		{VisitID: 3, StartURL: "/about", EndURL: "/about"},
	}

	funnel := metrics.CalcFunnelMetrics(visits, nil)

	require.Len(t, funnel.ApplicationFunnel, 2)
	assert.Equal(t, "/home", funnel.ApplicationFunnel[0].URL)
	assert.Equal(t, "/about", funnel.ApplicationFunnel[1].URL)
}

func TestCalcFunnelMetricsSingleTargetFallsBackToInference(t *testing.T) {
	visits := []records.Visit{
		{VisitID: 1, StartURL: "/home", EndURL: "/home"},
	}

	funnel := metrics.CalcFunnelMetrics(visits, []string{"/only"})

	require.Len(t, funnel.ApplicationFunnel, 1)
	assert.Equal(t, "/home", funnel.ApplicationFunnel[0].URL)
}

func TestCalcFunnelMetricsNoDataSyntheticStep(t *testing.T) {
	funnel := metrics.CalcFunnelMetrics(nil, nil)

	require.Len(t, funnel.ApplicationFunnel, 1)
	step := funnel.ApplicationFunnel[0]
	assert.Equal(t, 1, step.Step)
	assert.Equal(t, "/", step.URL)
	assert.Equal(t, 0, step.VisitsEntered)
	assert.Equal(t, 0, step.VisitsCompleted)
}
