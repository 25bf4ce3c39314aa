package metrics

import (
	"strings"

	"vihorki/internal/records"
)

// Funnel sizing: explicit target lists are capped at five steps; inferred
// funnels use the three most common start pages.
const (
	maxFunnelSteps      = 5
	inferredFunnelSteps = 3
)

// CalcFunnelMetrics computes step-wise entry/completion counts across an
// ordered list of target pages. With fewer than two explicit targets the
// funnel is inferred from the most frequent start URLs. Entry counts visits
// starting at the step URL or ending on a URL containing it; completion
// counts visits ending exactly at the step URL, except for the terminal step
// whose completion equals its entry by definition.
func CalcFunnelMetrics(visits []records.Visit, targetURLs []string) FunnelMetrics {
	var funnelURLs []string
	if len(targetURLs) >= 2 {
		funnelURLs = targetURLs
		if len(funnelURLs) > maxFunnelSteps {
			funnelURLs = funnelURLs[:maxFunnelSteps]
		}
	} else {
		starts := newOrderedCounter()
		for _, v := range visits {
			if v.StartURL != "" {
				starts.Add(v.StartURL)
			}
		}
		for _, entry := range starts.Top(inferredFunnelSteps) {
			funnelURLs = append(funnelURLs, entry.Key)
		}
	}

	if len(funnelURLs) == 0 {
		// No funnel can be determined; report one synthetic step over the
		// whole visit set.
		return FunnelMetrics{ApplicationFunnel: []FunnelStep{{
			Step:            1,
			URL:             "/",
			VisitsEntered:   len(visits),
			VisitsCompleted: len(visits),
		}}}
	}

	steps := make([]FunnelStep, 0, len(funnelURLs))
	for i, url := range funnelURLs {
		entered := 0
		exited := 0
		for _, v := range visits {
			if v.StartURL == url || strings.Contains(v.EndURL, url) {
				entered++
			}
			if v.EndURL == url {
				exited++
			}
		}

		completed := exited
		if i == len(funnelURLs)-1 {
			completed = entered
		}

		steps = append(steps, FunnelStep{
			Step:            i + 1,
			URL:             url,
			VisitsEntered:   entered,
			VisitsCompleted: completed,
		})
	}

	return FunnelMetrics{ApplicationFunnel: steps}
}
