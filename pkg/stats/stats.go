// Package stats holds the small numeric reductions used by run summaries
// and sweep reports.
package stats

import (
	"math"
	"slices"

	"golang.org/x/exp/constraints"
)

// Number is any integer or floating-point type.
type Number interface {
	constraints.Integer | constraints.Float
}

// Mean returns the arithmetic mean, or +Inf for an empty slice.
func Mean[T Number](values []T) float64 {
	if len(values) == 0 {
		return math.Inf(1)
	}
	sum := 0.0
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

// Median returns the middle value, averaging the two middle values for even
// lengths, or +Inf for an empty slice. The input is not modified.
func Median[T Number](values []T) float64 {
	if len(values) == 0 {
		return math.Inf(1)
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
}

// Ratio returns num/den, or 0 when den is zero.
func Ratio[T Number](num, den T) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// FirstIndex returns the index of the first value satisfying pred, or -1.
func FirstIndex[T any](values []T, pred func(T) bool) int {
	for i, v := range values {
		if pred(v) {
			return i
		}
	}
	return -1
}
