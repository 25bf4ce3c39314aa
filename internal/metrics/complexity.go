package metrics

import "math"

// High-interaction classification and estimation bounds.
const (
	highInteractionThreshold = 10
	uniqueURLEstimateFactor  = 0.8
	uniqueURLEstimateCap     = 20
)

// CalcSessionComplexity computes high-interaction-session and URL-revisit
// statistics over the assembled sessions.
//
// The average unique-URL figure for high-interaction sessions is an estimate
// (uniqueURLEstimateFactor times the average page count, capped) pending
// exact per-session distinct-URL tracking.
func CalcSessionComplexity(sessions []Session) SessionComplexityMetrics {
	totalVisits := len(sessions)

	highCount := 0
	highPageSum := 0
	highDurationSum := 0
	for _, session := range sessions {
		if session.Visit.PageViews >= highInteractionThreshold {
			highCount++
			highPageSum += session.Visit.PageViews
			highDurationSum += session.Visit.VisitDuration
		}
	}

	high := HighInteractionSessions{
		SessionsWith10PlusPages: highCount,
		Percentage:              percentage(highCount, totalVisits),
	}
	if highCount > 0 {
		high.AvgPages = round1(float64(highPageSum) / float64(highCount))
		high.AvgDurationSec = highDurationSum / highCount
		high.AvgUniqueURLs = round1(math.Min(high.AvgPages*uniqueURLEstimateFactor, uniqueURLEstimateCap))
	}

	// A revisit session repeats at least one URL in its resolved sequence.
	// Each such session contributes its excess occurrences (count-1 per
	// repeated URL) and its number of distinct repeated URLs.
	revisitSessions := 0
	totalRevisits := 0
	totalDistinctRevisited := 0
	for _, session := range sessions {
		urlCounts := make(map[string]int)
		for _, url := range session.URLs() {
			urlCounts[url]++
		}

		revisits := 0
		distinctRevisited := 0
		for _, count := range urlCounts {
			if count > 1 {
				revisits += count - 1
				distinctRevisited++
			}
		}

		if distinctRevisited > 0 {
			revisitSessions++
			totalRevisits += revisits
			totalDistinctRevisited += distinctRevisited
		}
	}

	revisit := URLRevisitPatterns{
		SessionsWithURLRevisits: revisitSessions,
		Percentage:              percentage(revisitSessions, totalVisits),
	}
	if revisitSessions > 0 {
		revisit.AvgRevisitsPerSession = round1(float64(totalRevisits) / float64(revisitSessions))
		revisit.AvgUniqueURLsRevisited = round1(float64(totalDistinctRevisited) / float64(revisitSessions))
	}

	return SessionComplexityMetrics{
		HighInteractionSessions: high,
		URLRevisitPatterns:      revisit,
	}
}
