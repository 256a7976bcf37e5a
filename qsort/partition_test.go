package qsort

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomFloats(rng *rand.Rand, n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = rng.Float64()
	}
	return data
}

func TestPartitionSplitsAroundPivot(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	inputs := map[string]func(n int) []float64{
		"random": func(n int) []float64 { return randomFloats(rng, n) },
		"sorted": func(n int) []float64 {
			d := randomFloats(rng, n)
			slices.Sort(d)
			return d
		},
		"reversed": func(n int) []float64 {
			d := randomFloats(rng, n)
			slices.Sort(d)
			slices.Reverse(d)
			return d
		},
		"all equal": func(n int) []float64 {
			d := make([]float64, n)
			for i := range d {
				d[i] = 7
			}
			return d
		},
		"few distinct": func(n int) []float64 {
			d := make([]float64, n)
			for i := range d {
				d[i] = float64(rng.Intn(3))
			}
			return d
		},
	}

	for name, gen := range inputs {
		t.Run(name, func(t *testing.T) {
			for _, n := range []int{2, 3, 4, 5, 17, 100, 1001} {
				a := gen(n)
				before := slices.Clone(a)

				split := partition(a)
				require.GreaterOrEqual(t, split, 1, "n=%d", n)
				require.LessOrEqual(t, split, n-1, "n=%d", n)

				leftMax := slices.Max(a[:split])
				rightMin := slices.Min(a[split:])
				assert.LessOrEqual(t, leftMax, rightMin, "n=%d split=%d", n, split)

				slices.Sort(before)
				after := slices.Clone(a)
				slices.Sort(after)
				assert.Equal(t, before, after, "partition must permute, n=%d", n)
			}
		})
	}
}

func TestPartitionTwoElements(t *testing.T) {
	a := []float64{2, 1}
	split := partition(a)
	assert.Equal(t, 1, split)
	assert.Equal(t, []float64{1, 2}, a)
}

func TestInsertionSort(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"empty", []float64{}, []float64{}},
		{"single", []float64{3}, []float64{3}},
		{"reversed", []float64{5, 4, 3, 2, 1}, []float64{1, 2, 3, 4, 5}},
		{"duplicates", []float64{2, 1, 2, 1, 0}, []float64{0, 1, 1, 2, 2}},
		{"negative", []float64{-0.5, 3.25, -7, 0}, []float64{-7, -0.5, 0, 3.25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insertionSort(tt.in)
			assert.Equal(t, tt.want, tt.in)
		})
	}
}

func TestBaselinesSort(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	data := randomFloats(rng, 5000)
	want := slices.Clone(data)
	slices.Sort(want)

	t.Run("sequential", func(t *testing.T) {
		a := slices.Clone(data)
		Sequential(a, 10)
		assert.Equal(t, want, a)
	})
	t.Run("spawning", func(t *testing.T) {
		a := slices.Clone(data)
		Spawning(a, 10, 4)
		assert.Equal(t, want, a)
	})
	t.Run("mergesort", func(t *testing.T) {
		a := slices.Clone(data)
		got := MergeSort(a)
		assert.Equal(t, want, got)
		assert.Equal(t, data, a, "input must be left untouched")
	})
	t.Run("parallel mergesort", func(t *testing.T) {
		a := slices.Clone(data)
		for _, g := range []int{0, 1, 4, 16} {
			got := ParallelMergeSort(a, g)
			assert.Equal(t, want, got, "goroutines=%d", g)
		}
		assert.Equal(t, data, a, "input must be left untouched")

		big := randomFloats(rng, 50000)
		got := ParallelMergeSort(big, 8)
		assert.True(t, slices.IsSorted(got))
		assert.Len(t, got, len(big))
	})
}
