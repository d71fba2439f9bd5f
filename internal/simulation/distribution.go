package simulation

import (
	"math"
	"slices"
)

const (
	// PruneProbability is the mass below which a branch is dropped. This is
	// a deliberate approximation: it bounds memory, and the dropped tail
	// never shows up in histograms.
	PruneProbability = 1e-12

	// MassTolerance is how far a distribution may drift from 1
	MassTolerance = 1e-9
)

// DamageOption is one atomic outcome of a single strike
type DamageOption struct {
	Damage      int
	Probability float64
}

// Weight is the element type of a value distribution: a probability or a count
type Weight interface {
	~int | ~float64
}

// Summary holds the min, max and mode of a value distribution
type Summary struct {
	Min  int
	Max  int
	Mode int

	// Empty is set when no value carried positive weight
	Empty bool
}

// Summarize extracts min, max and mode from a value distribution in one
// pass. Only values with positive weight count. The mode is the value with
// the strictly highest weight; ties go to the smaller value. The result
// does not depend on map iteration order.
func Summarize[W Weight](dist map[int]W) Summary {
	s := Summary{Empty: true}
	var best W
	for value, w := range dist {
		if w <= 0 {
			continue
		}
		if s.Empty {
			s = Summary{Min: value, Max: value, Mode: value}
			best = w
			continue
		}
		if value < s.Min {
			s.Min = value
		}
		if value > s.Max {
			s.Max = value
		}
		if w > best || (w == best && value < s.Mode) {
			best = w
			s.Mode = value
		}
	}
	if s.Empty {
		return Summary{Empty: true}
	}
	return s
}

// Mass returns the total probability of a set of options
func Mass(options []DamageOption) float64 {
	total := 0.0
	for _, o := range options {
		total += o.Probability
	}
	return total
}

// MinDamage returns the smallest positive damage among options, or 0
func MinDamage(options []DamageOption) int {
	lowest := 0
	for _, o := range options {
		if o.Damage > 0 && (lowest == 0 || o.Damage < lowest) {
			lowest = o.Damage
		}
	}
	return lowest
}

// normalizeOptions merges equal damage values, drops pruned atoms and
// rescales the rest to sum to 1. The result is sorted by damage. An input
// with no usable mass yields nil.
func normalizeOptions(options []DamageOption) []DamageOption {
	merged := make(map[int]float64, len(options))
	for _, o := range options {
		if o.Probability <= 0 || math.IsNaN(o.Probability) {
			continue
		}
		merged[o.Damage] += o.Probability
	}

	damages := make([]int, 0, len(merged))
	total := 0.0
	for d, p := range merged {
		if p < PruneProbability {
			continue
		}
		damages = append(damages, d)
	}
	slices.Sort(damages)
	for _, d := range damages {
		total += merged[d]
	}
	if total <= 0 {
		return nil
	}

	out := make([]DamageOption, 0, len(damages))
	for _, d := range damages {
		out = append(out, DamageOption{Damage: d, Probability: merged[d] / total})
	}
	return out
}

// scale divides every weight of a probability distribution by total
func scale(dist map[int]float64, total float64) {
	if total <= 0 {
		return
	}
	for k, v := range dist {
		dist[k] = v / total
	}
}
