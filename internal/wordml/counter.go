package wordml

import "sort"

type Pair struct {
	Key   string
	Value int
}

type PairList []Pair

func (p PairList) Len() int           { return len(p) }
func (p PairList) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p PairList) Less(i, j int) bool { return p[i].Value < p[j].Value }

// Counter counts occurrences of string values and remembers the order in
// which values were first seen, which decides ties.
type Counter struct {
	counts map[string]int
	order  []string
}

func NewCounter() *Counter {
	return &Counter{counts: map[string]int{}}
}

func (c *Counter) Add(key string, n int) {
	if n <= 0 {
		return
	}
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

func (c *Counter) Merge(other *Counter) {
	for _, k := range other.order {
		c.Add(k, other.counts[k])
	}
}

func (c *Counter) Count(key string) int {
	return c.counts[key]
}

func (c *Counter) Len() int {
	return len(c.order)
}

func (c *Counter) Total() int {
	total := 0
	for _, v := range c.counts {
		total += v
	}
	return total
}

// Pairs returns values by descending count; equal counts keep first-seen order.
func (c *Counter) Pairs() PairList {
	p := make(PairList, len(c.order))
	for i, k := range c.order {
		p[i] = Pair{k, c.counts[k]}
	}
	sort.Stable(sort.Reverse(p))
	return p
}

// MostCommon returns the most frequent value.
func (c *Counter) MostCommon() (Pair, bool) {
	if len(c.order) == 0 {
		return Pair{}, false
	}
	best := Pair{c.order[0], c.counts[c.order[0]]}
	for _, k := range c.order[1:] {
		if v := c.counts[k]; v > best.Value {
			best = Pair{k, v}
		}
	}
	return best, true
}
