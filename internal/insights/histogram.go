package insights

import (
	"fmt"
	"slices"

	"github.com/lawnchairsociety/lootodds/internal/simulation"
)

// OverflowThreshold is the top of the last bounded damage bucket
const OverflowThreshold = 1024

// WeightedSample is one damage value and the probability mass behind it
type WeightedSample struct {
	Value  int
	Weight float64
}

// DamageBucket is one bar of a damage histogram. Max is 0 for the open
// overflow bucket. Chance is a percentage of the histogram's total mass.
type DamageBucket struct {
	Label  string
	Min    int
	Max    int
	Chance float64
}

// bucketBounds are the bounded buckets 0-2, 3-4, 5-8, … 513-1024
var bucketBounds = func() [][2]int {
	bounds := [][2]int{{0, 2}}
	for hi := 4; hi <= OverflowThreshold; hi *= 2 {
		bounds = append(bounds, [2]int{hi/2 + 1, hi})
	}
	return bounds
}()

// Histogram accumulates probability mass per damage value
type Histogram map[int]float64

// Add puts weight on a damage value. Non-positive weights are ignored.
func (h Histogram) Add(value int, weight float64) {
	if weight <= 0 {
		return
	}
	h[value] += weight
}

// Merge adds every entry of o scaled by factor
func (h Histogram) Merge(o Histogram, factor float64) {
	for v, w := range o {
		h.Add(v, w*factor)
	}
}

// Total returns the histogram's mass
func (h Histogram) Total() float64 {
	total := 0.0
	for _, w := range h {
		total += w
	}
	return total
}

// Samples returns the entries sorted by value
func (h Histogram) Samples() []WeightedSample {
	out := make([]WeightedSample, 0, len(h))
	for v, w := range h {
		if w > 0 {
			out = append(out, WeightedSample{Value: v, Weight: w})
		}
	}
	slices.SortFunc(out, func(a, b WeightedSample) int { return a.Value - b.Value })
	return out
}

// Bucketize sorts samples into the fixed damage buckets. It always returns
// every bucket, the overflow bucket last.
func Bucketize(samples []WeightedSample) []DamageBucket {
	buckets := make([]DamageBucket, 0, len(bucketBounds)+1)
	for _, b := range bucketBounds {
		buckets = append(buckets, DamageBucket{Label: fmt.Sprintf("%d-%d", b[0], b[1]), Min: b[0], Max: b[1]})
	}
	buckets = append(buckets, DamageBucket{Label: fmt.Sprintf(">%d", OverflowThreshold), Min: OverflowThreshold + 1})

	total := 0.0
	for _, s := range samples {
		total += s.Weight
	}
	if total <= 0 {
		return buckets
	}

	for _, s := range samples {
		buckets[bucketIndex(s.Value)].Chance += s.Weight / total * 100
	}
	return buckets
}

func bucketIndex(value int) int {
	for i, b := range bucketBounds {
		if value <= b[1] {
			return i
		}
	}
	return len(bucketBounds)
}

// Median returns the weighted median: the smallest value at which the
// cumulative mass reaches half the total. samples must be sorted by value.
func Median(samples []WeightedSample) int {
	total := 0.0
	for _, s := range samples {
		total += s.Weight
	}
	if total <= 0 {
		return 0
	}

	cumulative := 0.0
	for _, s := range samples {
		cumulative += s.Weight
		if cumulative >= total/2 {
			return s.Value
		}
	}
	return samples[len(samples)-1].Value
}

// LethalChance returns the percentage of mass at or above health
func LethalChance(samples []WeightedSample, health int) float64 {
	total, lethal := 0.0, 0.0
	for _, s := range samples {
		total += s.Weight
		if s.Value >= health {
			lethal += s.Weight
		}
	}
	if total <= 0 {
		return 0
	}
	return min(100, lethal/total*100)
}

// DamageSummary describes one damage distribution
type DamageSummary struct {
	HasData      bool
	Min          int
	Max          int
	Median       int
	LethalChance float64
	Buckets      []DamageBucket
}

// Summarize reduces a histogram to its summary against the adventurer's
// current health
func Summarize(h Histogram, health int) DamageSummary {
	samples := h.Samples()
	if len(samples) == 0 {
		return DamageSummary{Buckets: Bucketize(nil)}
	}

	stats := simulation.Summarize(map[int]float64(h))
	return DamageSummary{
		HasData:      true,
		Min:          stats.Min,
		Max:          stats.Max,
		Median:       Median(samples),
		LethalChance: LethalChance(samples, health),
		Buckets:      Bucketize(samples),
	}
}
