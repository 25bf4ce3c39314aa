package metrics

import (
	"strings"

	"vihorki/internal/records"
)

const (
	topPageMetrics = 20
	maxTitleLength = 100
)

// CalcPageMetrics computes per-page statistics for the target URLs, or for
// the most-hit URLs of the period when no targets are given.
//
// Subsequent-page diversity is the count of distinct URLs observed
// immediately after the page across all ordered session sequences.
func CalcPageMetrics(visits []records.Visit, hits []records.Hit, sessions []Session, targetURLs []string) []PageMetric {
	hitsByURL := make(map[string][]records.Hit)
	urlCounter := newOrderedCounter()
	for _, hit := range hits {
		if hit.URL == "" {
			continue
		}
		hitsByURL[hit.URL] = append(hitsByURL[hit.URL], hit)
		urlCounter.Add(hit.URL)
	}

	urlsToAnalyze := targetURLs
	if len(urlsToAnalyze) == 0 {
		for _, entry := range urlCounter.Top(topPageMetrics) {
			urlsToAnalyze = append(urlsToAnalyze, entry.Key)
		}
	}

	// Distinct next-hop URLs per page, across all sessions.
	nextHops := make(map[string]map[string]bool)
	for _, session := range sessions {
		urls := session.URLs()
		for i := 0; i+1 < len(urls); i++ {
			hops := nextHops[urls[i]]
			if hops == nil {
				hops = make(map[string]bool)
				nextHops[urls[i]] = hops
			}
			hops[urls[i+1]] = true
		}
	}

	result := make([]PageMetric, 0, len(urlsToAnalyze))
	for _, url := range urlsToAnalyze {
		urlHits := hitsByURL[url]

		metric := PageMetric{
			URL:                     url,
			Title:                   pageTitle(url, urlHits),
			TotalHits:               len(urlHits),
			SubsequentPageDiversity: len(nextHops[url]),
		}

		uniqueClients := make(map[string]bool)
		for _, hit := range urlHits {
			if hit.ClientID != "" {
				uniqueClients[hit.ClientID] = true
			}
		}
		metric.UniqueVisitors = len(uniqueClients)

		for _, v := range visits {
			if v.StartURL == url {
				metric.VisitsAsEntry++
				if v.PageViews == 1 {
					metric.VisitsWithSinglePage++
				}
			}
			if v.EndURL == url {
				metric.VisitsAsExit++
			}
		}

		result = append(result, metric)
	}

	if len(result) == 0 {
		// Keep downstream consumers schema-stable with one whole-period entry.
		uniqueClients := make(map[string]bool)
		singlePage := 0
		for _, v := range visits {
			uniqueClients[v.ClientID] = true
			if v.PageViews == 1 {
				singlePage++
			}
		}
		result = []PageMetric{{
			URL:                  "/",
			Title:                "Home",
			VisitsAsEntry:        len(visits),
			VisitsAsExit:         len(visits),
			TotalHits:            len(hits),
			UniqueVisitors:       len(uniqueClients),
			VisitsWithSinglePage: singlePage,
		}}
	}

	return result
}

// pageTitle takes the first recorded hit title for the URL, falling back to
// the last path segment.
func pageTitle(url string, urlHits []records.Hit) string {
	for _, hit := range urlHits {
		if hit.Title != "" {
			if len(hit.Title) > maxTitleLength {
				return hit.Title[:maxTitleLength]
			}
			return hit.Title
		}
	}

	segment := url
	if idx := strings.LastIndexByte(url, '/'); idx >= 0 {
		segment = url[idx+1:]
	}
	if segment == "" {
		return "Page"
	}
	return segment
}
