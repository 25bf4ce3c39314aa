package metrics

import "sort"

// orderedCounter counts occurrences of string keys while remembering the
// order in which keys were first seen. Top-N extraction is stable: keys with
// equal counts rank in first-seen order. This makes the tie-breaking rules of
// transition, loop, and segment rankings explicit and testable.
type orderedCounter struct {
	counts map[string]int
	order  []string
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

// Add increments the count for key, registering it on first sight.
func (c *orderedCounter) Add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// Count returns the current count for key.
func (c *orderedCounter) Count(key string) int {
	return c.counts[key]
}

// Len returns the number of distinct keys.
func (c *orderedCounter) Len() int {
	return len(c.order)
}

// keyCount pairs a key with its count for ranking.
type keyCount struct {
	Key   string
	Count int
}

// Top returns up to n keys ranked by count descending, ties broken by
// first-seen order. A non-positive n returns all keys ranked.
func (c *orderedCounter) Top(n int) []keyCount {
	ranked := make([]keyCount, 0, len(c.order))
	for _, key := range c.order {
		ranked = append(ranked, keyCount{Key: key, Count: c.counts[key]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
