// Package aggregate derives dashboard statistics from the held collections.
// Every function is pure and recomputes from its inputs; nothing is cached
// between calls.
package aggregate

import (
	"time"

	"github.com/montanaflynn/stats"
)

// Bucket is one labeled value of a chart dataset.
type Bucket struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// counter accumulates counts per label and remembers first-seen order.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter { return &counter{counts: map[string]int{}} }

func (c *counter) add(label string) {
	if _, ok := c.counts[label]; !ok {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

func (c *counter) buckets() []Bucket {
	out := make([]Bucket, 0, len(c.order))
	for _, l := range c.order {
		out = append(out, Bucket{Label: l, Value: float64(c.counts[l])})
	}
	return out
}

// startOfDay is local midnight of t in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Mean(stats.Float64Data(values))
	if err != nil {
		return 0
	}
	return m
}

func sum(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s, err := stats.Sum(stats.Float64Data(values))
	if err != nil {
		return 0
	}
	return s
}

// percent returns part/whole*100, or empty when whole is zero.
func percent(part, whole float64, empty float64) float64 {
	if whole == 0 {
		return empty
	}
	return part / whole * 100
}
