package sorting

import (
	"context"
	"fmt"

	"github.com/san-kum/sortviz/internal/steps"
)

// Bubble is adjacent-swap bubble sort without the early-exit shortcut.
func Bubble(ctx context.Context, input []float64, rec Recorder) ([]float64, error) {
	a := steps.Snapshot(input).Clone()
	n := len(a)

	for i := 0; i < n; i++ {
		for j := 0; j < n-i-1; j++ {
			if err := emit(ctx, rec, a, steps.Roles{steps.Compared: {j, j + 1}},
				fmt.Sprintf("Comparing number %s with number %s", num(a[j]), num(a[j+1]))); err != nil {
				return nil, err
			}
			if a[j] > a[j+1] {
				swap(a, j, j+1)
				if err := emit(ctx, rec, a, steps.Roles{steps.Swapped: {j, j + 1}},
					fmt.Sprintf("Swapped number %s with number %s", num(a[j]), num(a[j+1]))); err != nil {
					return nil, err
				}
			}
		}
	}
	return a, nil
}

// Selection keeps the first minimum on ties.
func Selection(ctx context.Context, input []float64, rec Recorder) ([]float64, error) {
	a := steps.Snapshot(input).Clone()
	n := len(a)

	for i := 0; i < n; i++ {
		minIdx := i
		for j := i + 1; j < n; j++ {
			if err := emit(ctx, rec, a, steps.Roles{steps.Compared: {minIdx, j}},
				fmt.Sprintf("Finding minimum between number %s and number %s", num(a[minIdx]), num(a[j]))); err != nil {
				return nil, err
			}
			if a[j] < a[minIdx] {
				minIdx = j
			}
		}
		if minIdx != i {
			swap(a, i, minIdx)
			if err := emit(ctx, rec, a, steps.Roles{steps.Swapped: {i, minIdx}},
				fmt.Sprintf("Swapped number %s with number %s", num(a[i]), num(a[minIdx]))); err != nil {
				return nil, err
			}
		}
	}
	return a, nil
}

// Insertion reports every shift as a comparison of j and j+1, and the final
// placement of the key as a single-index swap.
func Insertion(ctx context.Context, input []float64, rec Recorder) ([]float64, error) {
	a := steps.Snapshot(input).Clone()

	for i := 1; i < len(a); i++ {
		key := a[i]
		j := i - 1
		for j >= 0 && a[j] > key {
			if err := emit(ctx, rec, a, steps.Roles{steps.Compared: {j, j + 1}},
				fmt.Sprintf("Shifting number %s to the right", num(a[j]))); err != nil {
				return nil, err
			}
			check(a, j+1)
			a[j+1] = a[j]
			j--
		}
		check(a, j+1)
		a[j+1] = key
		if err := emit(ctx, rec, a, steps.Roles{steps.Swapped: {j + 1}},
			fmt.Sprintf("Inserted number %s at position %d", num(key), j+1)); err != nil {
			return nil, err
		}
	}
	return a, nil
}
