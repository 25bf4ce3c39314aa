package metrics

import "strings"

// Result caps for the navigation rankings.
const (
	topTransitions  = 10
	topLoopPatterns = 5
)

// keySeparator joins URL tuples into counter keys. The unit separator cannot
// appear in a URL, so the join is unambiguous.
const keySeparator = "\x1f"

// CalcNavigationPatterns scans each session's ordered URL sequence for
// reverse navigation, counts every adjacent page-to-page transition, and
// detects A->B->A loop windows. Sessions with fewer than two URLs carry no
// navigation signal and are skipped.
func CalcNavigationPatterns(sessions []Session) NavigationPatterns {
	totalVisits := len(sessions)

	visitsWithReverse := 0
	totalReverseTransitions := 0
	transitions := newOrderedCounter()
	loops := newOrderedCounter()

	for _, session := range sessions {
		urls := session.URLs()
		if len(urls) < 2 {
			continue
		}

		// A URL seen a second or later time is a revisit. The session counts
		// once toward visitsWithReverse but contributes every revisit to the
		// transition total.
		seen := make(map[string]bool, len(urls))
		revisits := 0
		for _, url := range urls {
			if seen[url] {
				revisits++
			}
			seen[url] = true
		}
		if revisits > 0 {
			visitsWithReverse++
			totalReverseTransitions += revisits
		}

		for i := 0; i+1 < len(urls); i++ {
			transitions.Add(urls[i] + keySeparator + urls[i+1])
		}

		// A loop window requires the first and third URLs to match and the
		// middle one to differ; consecutive duplicate hits (double-fired
		// tracking events) must not register as loops.
		for i := 0; i+2 < len(urls); i++ {
			if urls[i] == urls[i+2] && urls[i] != urls[i+1] {
				loops.Add(strings.Join(urls[i:i+3], keySeparator))
			}
		}
	}

	commonTransitions := make([]PageTransition, 0, topTransitions)
	for _, entry := range transitions.Top(topTransitions) {
		pair := strings.SplitN(entry.Key, keySeparator, 2)
		commonTransitions = append(commonTransitions, PageTransition{
			FromURL:         pair[0],
			ToURL:           pair[1],
			TransitionCount: entry.Count,
		})
	}

	loopPatterns := make([]LoopPattern, 0, topLoopPatterns)
	for _, entry := range loops.Top(topLoopPatterns) {
		loopPatterns = append(loopPatterns, LoopPattern{
			Sequence:    strings.Split(entry.Key, keySeparator),
			Occurrences: entry.Count,
		})
	}

	result := NavigationPatterns{
		ReverseNavigation: ReverseNavigation{
			VisitsWithReverseNav:    visitsWithReverse,
			Percentage:              percentage(visitsWithReverse, totalVisits),
			TotalReverseTransitions: totalReverseTransitions,
		},
		CommonTransitions: commonTransitions,
		LoopPatterns:      loopPatterns,
	}

	// Keep the output schema stable when nothing qualified.
	if len(result.CommonTransitions) == 0 {
		result.CommonTransitions = []PageTransition{{FromURL: "/", ToURL: "/page"}}
	}
	if len(result.LoopPatterns) == 0 {
		result.LoopPatterns = []LoopPattern{{Sequence: []string{"/"}}}
	}

	return result
}
