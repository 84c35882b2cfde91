package analysis

import "sort"

// Entry is one key of a ranked list with its count
type Entry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// RankedList is ordered by descending count; equal counts keep the order in
// which their keys were first counted.
type RankedList []Entry

// Keys returns the keys in rank order
func (r RankedList) Keys() []string {
	keys := make([]string, len(r))
	for i, e := range r {
		keys[i] = e.Key
	}
	return keys
}

// Counter is a frequency table that remembers first-insertion order
type Counter struct {
	counts map[string]int
	order  []string
}

// NewCounter creates a counter over keys
func NewCounter(keys ...string) *Counter {
	c := &Counter{counts: make(map[string]int)}
	for _, k := range keys {
		c.Add(k, 1)
	}
	return c
}

// Add increases the count of key by n. Negative n is ignored.
func (c *Counter) Add(key string, n int) {
	if n < 0 {
		return
	}
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

// Count returns the count of key
func (c *Counter) Count(key string) int {
	return c.counts[key]
}

// Len returns the number of distinct keys
func (c *Counter) Len() int {
	return len(c.order)
}

// Total returns the sum of all counts
func (c *Counter) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// MostCommon returns the k highest-count entries. k <= 0 yields an empty list.
func (c *Counter) MostCommon(k int) RankedList {
	if k <= 0 {
		return RankedList{}
	}

	all := make(RankedList, 0, len(c.order))
	for _, key := range c.order {
		all = append(all, Entry{Key: key, Count: c.counts[key]})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Count > all[j].Count
	})

	if k < len(all) {
		all = all[:k]
	}
	return all
}
