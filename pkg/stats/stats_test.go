package stats

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"single", []float64{4}, 4},
		{"several", []float64{1, 2, 3, 6}, 3},
		{"empty", nil, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mean(tt.values); got != tt.want {
				t.Errorf("Mean(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}

	if got := Mean([]int{1, 2}); got != 1.5 {
		t.Errorf("Mean of ints = %v, want 1.5", got)
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   float64
	}{
		{"odd", []int{5, 1, 3}, 3},
		{"even", []int{4, 1, 3, 2}, 2.5},
		{"empty", nil, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.values); got != tt.want {
				t.Errorf("Median(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}

	in := []float64{3, 1, 2}
	Median(in)
	if in[0] != 3 {
		t.Error("Median reordered its input")
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(3, 4); got != 0.75 {
		t.Errorf("Ratio(3, 4) = %v, want 0.75", got)
	}
	if got := Ratio(0, 0); got != 0 {
		t.Errorf("Ratio(0, 0) = %v, want 0", got)
	}
}

func TestFirstIndex(t *testing.T) {
	values := []float64{0.9, 0.6, 0.4, 0.2}
	if got := FirstIndex(values, func(v float64) bool { return v < 0.5 }); got != 2 {
		t.Errorf("FirstIndex = %d, want 2", got)
	}
	if got := FirstIndex(values, func(v float64) bool { return v < 0 }); got != -1 {
		t.Errorf("FirstIndex = %d, want -1", got)
	}
}
