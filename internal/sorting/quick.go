package sorting

import (
	"context"
	"fmt"

	"github.com/san-kum/sortviz/internal/steps"
)

// Quick is quicksort with Lomuto partitioning around the last element.
func Quick(ctx context.Context, input []float64, rec Recorder) ([]float64, error) {
	a := steps.Snapshot(input).Clone()
	if err := quickSort(ctx, rec, a, 0, len(a)-1); err != nil {
		return nil, err
	}
	return a, nil
}

func quickSort(ctx context.Context, rec Recorder, a steps.Snapshot, l, h int) error {
	if l >= h {
		return nil
	}

	err := emit(ctx, rec, a, steps.Roles{steps.Updated: steps.Range(l, h)},
		fmt.Sprintf("Sorting subarray from index %d to %d.", l, h),
		fmt.Sprintf("Current elements are: %s.", steps.FormatList(a[l:h+1], ", ")),
	)
	if err != nil {
		return err
	}

	p, err := partition(ctx, rec, a, l, h)
	if err != nil {
		return err
	}
	if err := quickSort(ctx, rec, a, l, p-1); err != nil {
		return err
	}
	return quickSort(ctx, rec, a, p+1, h)
}

func partition(ctx context.Context, rec Recorder, a steps.Snapshot, l, h int) (int, error) {
	check(a, l, h)
	pivot := a[h]
	i := l - 1

	for j := l; j < h; j++ {
		if err := emit(ctx, rec, a, steps.Roles{steps.Compared: {j, h}},
			fmt.Sprintf("Comparing number %s with pivot number %s at index %d", num(a[j]), num(pivot), h)); err != nil {
			return 0, err
		}
		if a[j] < pivot {
			i++
			swap(a, i, j)
			if err := emit(ctx, rec, a, steps.Roles{steps.Swapped: {i, j}},
				fmt.Sprintf("Swapped number %s with number %s", num(a[i]), num(a[j]))); err != nil {
				return 0, err
			}
		}
	}

	swap(a, i+1, h)
	if err := emit(ctx, rec, a, steps.Roles{steps.Swapped: {i + 1, h}},
		fmt.Sprintf("Pivot number %s placed at index %d", num(pivot), i+1)); err != nil {
		return 0, err
	}
	return i + 1, nil
}
