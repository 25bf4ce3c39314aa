package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vihorki/internal/metrics"
	"vihorki/internal/records"
)

// sessionFromURLs builds a session whose resolved hit sequence yields the
// given URLs in order.
func sessionFromURLs(urls ...string) metrics.Session {
	hits := make([]records.Hit, 0, len(urls))
	for _, url := range urls {
		hits = append(hits, records.Hit{URL: url})
	}
	return metrics.Session{Hits: hits}
}

func TestCalcNavigationPatternsRevisitsAndLoops(t *testing.T) {
	sessions := []metrics.Session{
		sessionFromURLs("/a", "/b", "/a", "/c", "/a"),
	}

	patterns := metrics.CalcNavigationPatterns(sessions)

	// "/a" is revisited at positions three and five.
	assert.Equal(t, 1, patterns.ReverseNavigation.VisitsWithReverseNav)
	assert.Equal(t, 100.0, patterns.ReverseNavigation.Percentage)
	assert.Equal(t, 2, patterns.ReverseNavigation.TotalReverseTransitions)

	require.Len(t, patterns.CommonTransitions, 4)
	assert.Equal(t, metrics.PageTransition{FromURL: "/a", ToURL: "/b", TransitionCount: 1}, patterns.CommonTransitions[0])
	assert.Equal(t, metrics.PageTransition{FromURL: "/b", ToURL: "/a", TransitionCount: 1}, patterns.CommonTransitions[1])
	assert.Equal(t, metrics.PageTransition{FromURL: "/a", ToURL: "/c", TransitionCount: 1}, patterns.CommonTransitions[2])
	assert.Equal(t, metrics.PageTransition{FromURL: "/c", ToURL: "/a", TransitionCount: 1}, patterns.CommonTransitions[3])

	require.Len(t, patterns.LoopPatterns, 2)
	assert.Equal(t, []string{"/a", "/b", "/a"}, patterns.LoopPatterns[0].Sequence)
	assert.Equal(t, 1, patterns.LoopPatterns[0].Occurrences)
	assert.Equal(t, []string{"/a", "/c", "/a"}, patterns.LoopPatterns[1].Sequence)
}

func TestCalcNavigationPatternsConsecutiveDuplicatesAreNotLoops(t *testing.T) {
	sessions := []metrics.Session{
		sessionFromURLs("/a", "/a", "/a"),
	}

	patterns := metrics.CalcNavigationPatterns(sessions)

	// The repeated URL counts as reverse navigation but not as a loop.
	assert.Equal(t, 1, patterns.ReverseNavigation.VisitsWithReverseNav)
	assert.Equal(t, 2, patterns.ReverseNavigation.TotalReverseTransitions)

	require.Len(t, patterns.CommonTransitions, 1)
	assert.Equal(t, metrics.PageTransition{FromURL: "/a", ToURL: "/a", TransitionCount: 2}, patterns.CommonTransitions[0])

	require.Len(t, patterns.LoopPatterns, 1)
	assert.Equal(t, []string{"/"}, patterns.LoopPatterns[0].Sequence)
	assert.Equal(t, 0, patterns.LoopPatterns[0].Occurrences)
}

func TestCalcNavigationPatternsRanksTransitionsByFrequency(t *testing.T) {
	sessions := []metrics.Session{
		sessionFromURLs("/home", "/shop"),
		sessionFromURLs("/home", "/shop"),
		sessionFromURLs("/home", "/about"),
	}

	patterns := metrics.CalcNavigationPatterns(sessions)

	require.Len(t, patterns.CommonTransitions, 2)
	assert.Equal(t, metrics.PageTransition{FromURL: "/home", ToURL: "/shop", TransitionCount: 2}, patterns.CommonTransitions[0])
	assert.Equal(t, metrics.PageTransition{FromURL: "/home", ToURL: "/about", TransitionCount: 1}, patterns.CommonTransitions[1])
	assert.Equal(t, 0, patterns.ReverseNavigation.VisitsWithReverseNav)
}

func TestCalcNavigationPatternsShortSessionsAreSkipped(t *testing.T) {
	sessions := []metrics.Session{
		sessionFromURLs("/only"),
		sessionFromURLs(),
	}

	patterns := metrics.CalcNavigationPatterns(sessions)

	assert.Equal(t, 0, patterns.ReverseNavigation.VisitsWithReverseNav)
	assert.Equal(t, 0.0, patterns.ReverseNavigation.Percentage)

	require.Len(t, patterns.CommonTransitions, 1)
	assert.Equal(t, metrics.PageTransition{FromURL: "/", ToURL: "/page"}, patterns.CommonTransitions[0])
	require.Len(t, patterns.LoopPatterns, 1)
	assert.Equal(t, []string{"/"}, patterns.LoopPatterns[0].Sequence)
}

func TestCalcNavigationPatternsNoSessions(t *testing.T) {
	patterns := metrics.CalcNavigationPatterns(nil)

	assert.Equal(t, 0, patterns.ReverseNavigation.VisitsWithReverseNav)
	assert.Equal(t, 0.0, patterns.ReverseNavigation.Percentage)
	require.Len(t, patterns.CommonTransitions, 1)
	require.Len(t, patterns.LoopPatterns, 1)
}
