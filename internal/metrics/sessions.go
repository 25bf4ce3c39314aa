package metrics

import (
	"sort"

	"vihorki/internal/records"
)

// Session pairs a visit with its time-ordered hit sequence. Sessions are
// assembled fresh for each aggregation pass and never persisted.
type Session struct {
	Visit records.Visit
	Hits  []records.Hit
}

// URLs returns the session's ordered hit URLs, skipping hits without one.
func (s Session) URLs() []string {
	urls := make([]string, 0, len(s.Hits))
	for _, hit := range s.Hits {
		if hit.URL != "" {
			urls = append(urls, hit.URL)
		}
	}
	return urls
}

// AssembleSessions resolves each visit's watch ID list against the hit
// collection and produces its hit sequence sorted ascending by hit timestamp.
// The sort is stable and hits with a zero timestamp order first. Watch IDs
// with no matching hit are dropped: those hits belong to visits outside the
// query window. A visit with no resolvable hits yields an empty sequence.
func AssembleSessions(visits []records.Visit, hits []records.Hit) []Session {
	hitsByWatchID := make(map[string]records.Hit, len(hits))
	for _, hit := range hits {
		hitsByWatchID[hit.WatchID] = hit
	}

	sessions := make([]Session, 0, len(visits))
	for _, visit := range visits {
		var resolved []records.Hit
		for _, watchID := range visit.ParsedWatchIDs() {
			if hit, ok := hitsByWatchID[watchID]; ok {
				resolved = append(resolved, hit)
			}
		}

		sort.SliceStable(resolved, func(i, j int) bool {
			return resolved[i].DatetimeHit.Before(resolved[j].DatetimeHit)
		})

		sessions = append(sessions, Session{Visit: visit, Hits: resolved})
	}
	return sessions
}
